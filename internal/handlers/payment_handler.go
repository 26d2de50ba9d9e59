package handlers

import (
	"context"
	"errors"
	"net/http"

	"kasiBack/internal/models"
	"kasiBack/internal/services"
)

// PaymentService is what the payment handlers need from the reconciliation
// flow.
type PaymentService interface {
	InitiateCheckout(ctx context.Context, listingID int) (services.CheckoutRequest, error)
	ConfirmReturn(ctx context.Context, listingID int) (models.Listing, error)
	CancelReturn(ctx context.Context, listingID int) (models.Listing, error)
	ProcessNotification(ctx context.Context, fields map[string]string) error
}

type ListingFinder interface {
	GetListingByID(ctx context.Context, id int) (models.Listing, error)
}

type PaymentHandler struct {
	Payments PaymentService
	Listings ListingFinder
	Renderer *TemplateRenderer
}

// GET /premium-payment/:id — confirmation page before redirecting into the
// gateway.
func (h *PaymentHandler) PremiumPayment(w http.ResponseWriter, r *http.Request) {
	id, err := listingID(r)
	if err != nil {
		http.Error(w, "Invalid listing id", http.StatusBadRequest)
		return
	}
	listing, err := h.Listings.GetListingByID(r.Context(), id)
	if errors.Is(err, models.ErrListingNotFound) {
		http.Error(w, "Listing not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Failed to fetch listing", http.StatusInternalServerError)
		return
	}
	h.Renderer.Render(w, http.StatusOK, "premium_payment.tmpl", templateData{Listing: listing})
}

// POST /initiate-payment/:id — renders the auto-submitting form that POSTs
// the checkout fields to the gateway.
func (h *PaymentHandler) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	id, err := listingID(r)
	if err != nil {
		http.Error(w, "Invalid listing id", http.StatusBadRequest)
		return
	}
	checkout, err := h.Payments.InitiateCheckout(r.Context(), id)
	if errors.Is(err, models.ErrListingNotFound) {
		http.Error(w, "Listing not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Failed to initiate payment", http.StatusInternalServerError)
		return
	}
	h.Renderer.Render(w, http.StatusOK, "payfast_redirect.tmpl", templateData{Checkout: checkout})
}

// GET /payment/success/:id — browser return after a successful checkout.
func (h *PaymentHandler) PaymentSuccess(w http.ResponseWriter, r *http.Request) {
	id, err := listingID(r)
	if err != nil {
		http.Error(w, "Invalid listing id", http.StatusBadRequest)
		return
	}
	listing, err := h.Payments.ConfirmReturn(r.Context(), id)
	if errors.Is(err, models.ErrListingNotFound) {
		http.Error(w, "Listing not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Failed to confirm payment", http.StatusInternalServerError)
		return
	}
	h.Renderer.Render(w, http.StatusOK, "payment_success.tmpl", templateData{Listing: listing})
}

// GET /payment/cancel/:id — browser return after an aborted checkout.
func (h *PaymentHandler) PaymentCancel(w http.ResponseWriter, r *http.Request) {
	id, err := listingID(r)
	if err != nil {
		http.Error(w, "Invalid listing id", http.StatusBadRequest)
		return
	}
	listing, err := h.Payments.CancelReturn(r.Context(), id)
	if errors.Is(err, models.ErrListingNotFound) {
		http.Error(w, "Listing not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Failed to cancel payment", http.StatusInternalServerError)
		return
	}
	h.Renderer.Render(w, http.StatusOK, "payment_cancel.tmpl", templateData{Listing: listing})
}

// POST /payment/notify — async server-to-server notification (IPN) from the
// gateway. Responds with a bare OK for every processed payload, including
// no-ops, and 400 only on signature mismatch.
func (h *PaymentHandler) PaymentNotify(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	fields := make(map[string]string, len(r.PostForm))
	for k := range r.PostForm {
		fields[k] = r.PostForm.Get(k)
	}

	err := h.Payments.ProcessNotification(r.Context(), fields)
	if errors.Is(err, services.ErrInvalidSignature) {
		http.Error(w, "Invalid signature", http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, "Failed to process notification", http.StatusInternalServerError)
		return
	}
	w.Write([]byte("OK"))
}
