package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	PropertyTypeApartment  = "apartment"
	PropertyTypeHouse      = "house"
	PropertyTypeCommercial = "commercial"
)

const (
	PaymentStatusPending  = "pending"
	PaymentStatusComplete = "complete"
)

type Listing struct {
	ID            int       `json:"id"`
	Title         string    `json:"title"`
	Location      string    `json:"location"`
	PriceCents    int64     `json:"price_cents"`
	Description   string    `json:"description"`
	PropertyType  string    `json:"property_type"`
	Contact       string    `json:"contact"`
	IsPremium     bool      `json:"is_premium"`
	PaymentStatus string    `json:"payment_status"`
	CreatedAt     time.Time `json:"created_at"`
}

// PremiumVisible reports whether the listing belongs in the premium section.
// Both flags are required: a premium listing stays hidden until the gateway
// confirms payment.
func (l Listing) PremiumVisible() bool {
	return l.IsPremium && l.PaymentStatus == PaymentStatusComplete
}

func ValidPropertyType(t string) bool {
	switch t {
	case PropertyTypeApartment, PropertyTypeHouse, PropertyTypeCommercial:
		return true
	}
	return false
}

// ValidateListing checks a submitted listing before it is persisted. A nil
// return means the listing is acceptable; otherwise the error is a
// *ValidationError with per-field messages for form redisplay.
func ValidateListing(l Listing) error {
	ve := &ValidationError{}
	if strings.TrimSpace(l.Title) == "" {
		ve.Add("title", "Title is required")
	} else if utf8.RuneCountInString(l.Title) > 100 {
		ve.Add("title", "Title must be 100 characters or less")
	}
	if strings.TrimSpace(l.Location) == "" {
		ve.Add("location", "Location is required")
	} else if utf8.RuneCountInString(l.Location) > 100 {
		ve.Add("location", "Location must be 100 characters or less")
	}
	if l.PriceCents < 0 {
		ve.Add("price", "Price must not be negative")
	}
	if strings.TrimSpace(l.Description) == "" {
		ve.Add("description", "Description is required")
	}
	if !ValidPropertyType(l.PropertyType) {
		ve.Add("type", "Choose a valid property type")
	}
	if strings.TrimSpace(l.Contact) == "" {
		ve.Add("contact", "Contact information is required")
	} else if utf8.RuneCountInString(l.Contact) > 50 {
		ve.Add("contact", "Contact must be 50 characters or less")
	}
	if len(ve.Fields) > 0 {
		return ve
	}
	return nil
}
