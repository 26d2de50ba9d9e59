package models

import (
	"errors"
	"strings"
	"testing"
)

func validListing() Listing {
	return Listing{
		Title:        "2BR Apartment",
		Location:     "Soweto",
		PriceCents:   450000,
		Description:  "Spacious two bedroom apartment close to transport.",
		PropertyType: PropertyTypeApartment,
		Contact:      "0812345678",
	}
}

func TestValidateListing(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Listing)
		wantErr string // field expected in the validation error, "" for ok
	}{
		{"valid", func(l *Listing) {}, ""},
		{"missing title", func(l *Listing) { l.Title = "  " }, "title"},
		{"title too long", func(l *Listing) { l.Title = strings.Repeat("a", 101) }, "title"},
		{"missing location", func(l *Listing) { l.Location = "" }, "location"},
		{"negative price", func(l *Listing) { l.PriceCents = -100 }, "price"},
		{"missing description", func(l *Listing) { l.Description = "" }, "description"},
		{"unknown property type", func(l *Listing) { l.PropertyType = "castle" }, "type"},
		{"missing contact", func(l *Listing) { l.Contact = "" }, "contact"},
		{"contact too long", func(l *Listing) { l.Contact = strings.Repeat("0", 51) }, "contact"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := validListing()
			tt.mutate(&l)
			err := ValidateListing(l)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected valid listing, got %v", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if _, ok := ve.Fields[tt.wantErr]; !ok {
				t.Fatalf("expected error for field %q, got %v", tt.wantErr, ve.Fields)
			}
		})
	}
}

func TestPremiumVisible(t *testing.T) {
	l := validListing()
	l.IsPremium = true
	l.PaymentStatus = PaymentStatusPending
	if l.PremiumVisible() {
		t.Fatal("pending premium listing must not be premium visible")
	}
	l.PaymentStatus = PaymentStatusComplete
	if !l.PremiumVisible() {
		t.Fatal("paid premium listing must be premium visible")
	}
	l.IsPremium = false
	if l.PremiumVisible() {
		t.Fatal("non-premium listing must never be premium visible")
	}
}
