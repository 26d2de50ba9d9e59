package services

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"kasiBack/internal/models"
)

type fakeListingStore struct {
	listings map[int]models.Listing
}

func newFakeListingStore(listings ...models.Listing) *fakeListingStore {
	s := &fakeListingStore{listings: make(map[int]models.Listing)}
	for _, l := range listings {
		s.listings[l.ID] = l
	}
	return s
}

func (s *fakeListingStore) GetListingByID(ctx context.Context, id int) (models.Listing, error) {
	l, ok := s.listings[id]
	if !ok {
		return models.Listing{}, models.ErrListingNotFound
	}
	return l, nil
}

func (s *fakeListingStore) UpdatePaymentStatus(ctx context.Context, id int, status string) error {
	l, ok := s.listings[id]
	if !ok {
		return models.ErrListingNotFound
	}
	l.PaymentStatus = status
	s.listings[id] = l
	return nil
}

func (s *fakeListingStore) ClearPremium(ctx context.Context, id int) error {
	l, ok := s.listings[id]
	if !ok {
		return models.ErrListingNotFound
	}
	l.IsPremium = false
	s.listings[id] = l
	return nil
}

type fakeAttemptLog struct {
	attempts []models.PaymentAttempt
}

func (f *fakeAttemptLog) RecordAttempt(ctx context.Context, a models.PaymentAttempt) (models.PaymentAttempt, error) {
	a.ID = len(f.attempts) + 1
	f.attempts = append(f.attempts, a)
	return a, nil
}

func premiumPendingListing(id int) models.Listing {
	return models.Listing{
		ID:            id,
		Title:         "2BR Apartment",
		Location:      "Soweto",
		PriceCents:    450000,
		Description:   "Spacious two bedroom apartment.",
		PropertyType:  models.PropertyTypeApartment,
		Contact:       "0812345678",
		IsPremium:     true,
		PaymentStatus: models.PaymentStatusPending,
	}
}

func newPaymentService(t *testing.T, store ListingStore, passphrase string) (*PaymentService, *fakeAttemptLog) {
	t.Helper()
	attempts := &fakeAttemptLog{}
	return &PaymentService{
		Store:    store,
		Gateway:  newPayFast(t, passphrase),
		Attempts: attempts,
	}, attempts
}

// signedNotification builds an IPN payload the way the gateway would:
// signature computed over all other fields.
func signedNotification(svc *PaymentService, listingID int, status string) map[string]string {
	fields := map[string]string{
		"m_payment_id":   "ref-123",
		"pf_payment_id":  "987654",
		"payment_status": status,
		"amount_gross":   "20.00",
		"custom_int1":    strconv.Itoa(listingID),
	}
	fields["signature"] = svc.Gateway.Signature(copyWithoutSignature(fields))
	return fields
}

func copyWithoutSignature(fields map[string]string) map[string]string {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		if k != "signature" {
			out[k] = v
		}
	}
	return out
}

func TestProcessNotificationComplete(t *testing.T) {
	store := newFakeListingStore(premiumPendingListing(7))
	svc, _ := newPaymentService(t, store, "secret stuff")

	fields := signedNotification(svc, 7, NotificationStatusComplete)
	if err := svc.ProcessNotification(context.Background(), fields); err != nil {
		t.Fatalf("ProcessNotification: %v", err)
	}
	if got := store.listings[7].PaymentStatus; got != models.PaymentStatusComplete {
		t.Fatalf("payment_status = %s, want complete", got)
	}

	// At-least-once redelivery: the same notification again is a no-op that
	// still succeeds.
	if err := svc.ProcessNotification(context.Background(), fields); err != nil {
		t.Fatalf("replayed ProcessNotification: %v", err)
	}
	if got := store.listings[7].PaymentStatus; got != models.PaymentStatusComplete {
		t.Fatalf("payment_status after replay = %s, want complete", got)
	}
}

func TestProcessNotificationInvalidSignature(t *testing.T) {
	store := newFakeListingStore(premiumPendingListing(7))
	svc, _ := newPaymentService(t, store, "secret stuff")

	fields := signedNotification(svc, 7, NotificationStatusComplete)
	fields["amount_gross"] = "9999.00" // tamper after signing

	err := svc.ProcessNotification(context.Background(), fields)
	if !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
	if got := store.listings[7].PaymentStatus; got != models.PaymentStatusPending {
		t.Fatalf("rejected notification must not mutate state, payment_status = %s", got)
	}
}

func TestProcessNotificationNoPassphrase(t *testing.T) {
	store := newFakeListingStore(premiumPendingListing(7))
	svc, _ := newPaymentService(t, store, "")

	// No passphrase configured: verification is skipped entirely, whatever
	// the signature field holds.
	fields := map[string]string{
		"payment_status": NotificationStatusComplete,
		"custom_int1":    "7",
		"signature":      "complete garbage",
	}
	if err := svc.ProcessNotification(context.Background(), fields); err != nil {
		t.Fatalf("ProcessNotification: %v", err)
	}
	if got := store.listings[7].PaymentStatus; got != models.PaymentStatusComplete {
		t.Fatalf("payment_status = %s, want complete", got)
	}
}

func TestProcessNotificationNoOps(t *testing.T) {
	t.Run("unknown listing", func(t *testing.T) {
		store := newFakeListingStore(premiumPendingListing(7))
		svc, _ := newPaymentService(t, store, "secret stuff")

		fields := signedNotification(svc, 99, NotificationStatusComplete)
		if err := svc.ProcessNotification(context.Background(), fields); err != nil {
			t.Fatalf("unknown listing must be a successful no-op, got %v", err)
		}
		if got := store.listings[7].PaymentStatus; got != models.PaymentStatusPending {
			t.Fatalf("payment_status = %s, want pending", got)
		}
	})

	t.Run("non-complete status", func(t *testing.T) {
		store := newFakeListingStore(premiumPendingListing(7))
		svc, _ := newPaymentService(t, store, "secret stuff")

		fields := signedNotification(svc, 7, "FAILED")
		if err := svc.ProcessNotification(context.Background(), fields); err != nil {
			t.Fatalf("non-complete status must be a successful no-op, got %v", err)
		}
		if got := store.listings[7].PaymentStatus; got != models.PaymentStatusPending {
			t.Fatalf("payment_status = %s, want pending", got)
		}
	})

	t.Run("lowercase status is not the success sentinel", func(t *testing.T) {
		store := newFakeListingStore(premiumPendingListing(7))
		svc, _ := newPaymentService(t, store, "secret stuff")

		fields := signedNotification(svc, 7, "complete")
		if err := svc.ProcessNotification(context.Background(), fields); err != nil {
			t.Fatalf("ProcessNotification: %v", err)
		}
		if got := store.listings[7].PaymentStatus; got != models.PaymentStatusPending {
			t.Fatalf("payment_status = %s, want pending", got)
		}
	})
}

func TestConfirmReturn(t *testing.T) {
	store := newFakeListingStore(premiumPendingListing(7))
	svc, _ := newPaymentService(t, store, "secret stuff")

	listing, err := svc.ConfirmReturn(context.Background(), 7)
	if err != nil {
		t.Fatalf("ConfirmReturn: %v", err)
	}
	if listing.PaymentStatus != models.PaymentStatusComplete {
		t.Fatalf("returned listing payment_status = %s, want complete", listing.PaymentStatus)
	}
	if got := store.listings[7].PaymentStatus; got != models.PaymentStatusComplete {
		t.Fatalf("stored payment_status = %s, want complete", got)
	}

	if _, err := svc.ConfirmReturn(context.Background(), 99); !errors.Is(err, models.ErrListingNotFound) {
		t.Fatalf("expected ErrListingNotFound, got %v", err)
	}
}

func TestCancelReturn(t *testing.T) {
	store := newFakeListingStore(premiumPendingListing(7))
	svc, _ := newPaymentService(t, store, "secret stuff")

	listing, err := svc.CancelReturn(context.Background(), 7)
	if err != nil {
		t.Fatalf("CancelReturn: %v", err)
	}
	if listing.IsPremium {
		t.Fatal("cancelled listing must not stay premium")
	}
	stored := store.listings[7]
	if stored.IsPremium {
		t.Fatal("stored listing must not stay premium")
	}
	if stored.PaymentStatus != models.PaymentStatusPending {
		t.Fatalf("cancel must leave payment_status untouched, got %s", stored.PaymentStatus)
	}
}

// A stray notification arriving after the user cancelled still flips the
// payment status, but the compound display rule keeps the listing out of
// the premium section.
func TestStaleNotifyAfterCancel(t *testing.T) {
	store := newFakeListingStore(premiumPendingListing(7))
	svc, _ := newPaymentService(t, store, "secret stuff")

	if _, err := svc.CancelReturn(context.Background(), 7); err != nil {
		t.Fatalf("CancelReturn: %v", err)
	}
	fields := signedNotification(svc, 7, NotificationStatusComplete)
	if err := svc.ProcessNotification(context.Background(), fields); err != nil {
		t.Fatalf("ProcessNotification: %v", err)
	}

	stored := store.listings[7]
	if stored.PaymentStatus != models.PaymentStatusComplete {
		t.Fatalf("payment_status = %s, want complete", stored.PaymentStatus)
	}
	if stored.PremiumVisible() {
		t.Fatal("cancelled listing must never become premium visible")
	}
}

func TestInitiateCheckout(t *testing.T) {
	store := newFakeListingStore(premiumPendingListing(7))
	svc, attempts := newPaymentService(t, store, "secret stuff")

	checkout, err := svc.InitiateCheckout(context.Background(), 7)
	if err != nil {
		t.Fatalf("InitiateCheckout: %v", err)
	}
	if len(attempts.attempts) != 1 {
		t.Fatalf("expected 1 recorded attempt, got %d", len(attempts.attempts))
	}
	attempt := attempts.attempts[0]
	if attempt.ListingID != 7 || attempt.Reference != checkout.Reference || attempt.AmountCents != 2000 {
		t.Fatalf("unexpected attempt %+v", attempt)
	}

	// Initiation is presentation-only: listing state must not change.
	stored := store.listings[7]
	if !stored.IsPremium || stored.PaymentStatus != models.PaymentStatusPending {
		t.Fatalf("listing state changed during initiation: %+v", stored)
	}

	// Each initiation gets a fresh reference.
	second, err := svc.InitiateCheckout(context.Background(), 7)
	if err != nil {
		t.Fatalf("second InitiateCheckout: %v", err)
	}
	if second.Reference == checkout.Reference {
		t.Fatal("expected a fresh reference per attempt")
	}

	if _, err := svc.InitiateCheckout(context.Background(), 99); !errors.Is(err, models.ErrListingNotFound) {
		t.Fatalf("expected ErrListingNotFound, got %v", err)
	}
}
