package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"kasiBack/internal/models"
)

// ErrInvalidSignature means an inbound notification failed signature
// verification. Handlers translate it into a 400 with no state change.
var ErrInvalidSignature = errors.New("payfast: invalid notification signature")

// ListingStore is the slice of the listing store the reconciliation flow
// mutates. Implemented by ListingService in production and by fakes in
// tests.
type ListingStore interface {
	GetListingByID(ctx context.Context, id int) (models.Listing, error)
	UpdatePaymentStatus(ctx context.Context, id int, status string) error
	ClearPremium(ctx context.Context, id int) error
}

type AttemptRecorder interface {
	RecordAttempt(ctx context.Context, attempt models.PaymentAttempt) (models.PaymentAttempt, error)
}

// PaymentService orchestrates the premium checkout: it builds the outbound
// gateway payload and applies the three inbound transitions (return-success,
// return-cancel, async notify) to the listing store.
type PaymentService struct {
	Store    ListingStore
	Gateway  *PayFastService
	Attempts AttemptRecorder
	Logger   *slog.Logger
}

func (s *PaymentService) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// InitiateCheckout builds the redirect payload for a listing and records the
// attempt. The listing itself is untouched: it stays pending until the
// gateway reports back.
func (s *PaymentService) InitiateCheckout(ctx context.Context, listingID int) (CheckoutRequest, error) {
	listing, err := s.Store.GetListingByID(ctx, listingID)
	if err != nil {
		return CheckoutRequest{}, err
	}

	checkout := s.Gateway.BuildCheckout(listing)

	attempt := models.PaymentAttempt{
		ListingID:   listing.ID,
		Reference:   checkout.Reference,
		AmountCents: checkout.AmountCents,
	}
	if _, err := s.Attempts.RecordAttempt(ctx, attempt); err != nil {
		return CheckoutRequest{}, fmt.Errorf("record payment attempt: %w", err)
	}

	s.logger().Info("checkout initiated", "listing_id", listing.ID, "reference", checkout.Reference)
	return checkout, nil
}

// ConfirmReturn handles the browser redirect after a successful checkout.
// The redirect carries no signature, so this is an advisory signal only;
// the async notification remains the authoritative source of the outcome.
func (s *PaymentService) ConfirmReturn(ctx context.Context, listingID int) (models.Listing, error) {
	listing, err := s.Store.GetListingByID(ctx, listingID)
	if err != nil {
		return models.Listing{}, err
	}
	if err := s.Store.UpdatePaymentStatus(ctx, listing.ID, models.PaymentStatusComplete); err != nil {
		return models.Listing{}, err
	}
	listing.PaymentStatus = models.PaymentStatusComplete
	s.logger().Info("payment return confirmed", "listing_id", listing.ID)
	return listing, nil
}

// CancelReturn handles the browser redirect after an aborted checkout. The
// listing drops out of the premium tier; its payment status is left as is,
// which is moot once is_premium is cleared.
func (s *PaymentService) CancelReturn(ctx context.Context, listingID int) (models.Listing, error) {
	listing, err := s.Store.GetListingByID(ctx, listingID)
	if err != nil {
		return models.Listing{}, err
	}
	if err := s.Store.ClearPremium(ctx, listing.ID); err != nil {
		return models.Listing{}, err
	}
	listing.IsPremium = false
	s.logger().Info("payment cancelled", "listing_id", listing.ID)
	return listing, nil
}

// ProcessNotification applies an async gateway notification (IPN). The
// signature is verified first when a passphrase is configured; a mismatch
// aborts with ErrInvalidSignature and no mutation. Anything else — unknown
// listing, non-COMPLETE status, extra fields — is a successful no-op so the
// gateway stops redelivering. The mutation is a flat assignment, so replays
// converge to the same state.
func (s *PaymentService) ProcessNotification(ctx context.Context, fields map[string]string) error {
	payload := make(map[string]string, len(fields))
	for k, v := range fields {
		payload[k] = v
	}
	signature := payload["signature"]
	delete(payload, "signature")

	if !s.Gateway.VerifyNotification(payload, signature) {
		s.logger().Warn("notification rejected", "reason", "signature mismatch")
		return ErrInvalidSignature
	}

	status := payload["payment_status"]
	if status != NotificationStatusComplete {
		s.logger().Info("notification ignored", "payment_status", status)
		return nil
	}

	listingID, err := strconv.Atoi(payload["custom_int1"])
	if err != nil {
		s.logger().Info("notification ignored", "reason", "missing or malformed correlation id")
		return nil
	}

	if _, err := s.Store.GetListingByID(ctx, listingID); err != nil {
		if errors.Is(err, models.ErrListingNotFound) {
			s.logger().Info("notification ignored", "reason", "unknown listing", "listing_id", listingID)
			return nil
		}
		return err
	}

	if err := s.Store.UpdatePaymentStatus(ctx, listingID, models.PaymentStatusComplete); err != nil {
		return err
	}
	s.logger().Info("payment completed", "listing_id", listingID)
	return nil
}
