package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"kasiBack/internal/models"
)

// ListingService is what the listing handlers need from the service layer.
type ListingService interface {
	CreateListing(ctx context.Context, listing models.Listing) (models.Listing, error)
	GetListingByID(ctx context.Context, id int) (models.Listing, error)
	HomeListings(ctx context.Context) ([]models.Listing, []models.Listing, error)
}

type ListingHandler struct {
	Service  ListingService
	Renderer *TemplateRenderer
}

// listingForm carries the raw submitted values back into the template when
// validation fails, so the user does not lose their input.
type listingForm struct {
	Title        string
	Location     string
	Price        string
	Description  string
	PropertyType string
	Contact      string
	IsPremium    bool
	Errors       map[string]string
}

func (h *ListingHandler) Home(w http.ResponseWriter, r *http.Request) {
	premium, standard, err := h.Service.HomeListings(r.Context())
	if err != nil {
		http.Error(w, "Failed to fetch listings", http.StatusInternalServerError)
		return
	}
	h.Renderer.Render(w, http.StatusOK, "home.tmpl", templateData{
		PremiumListings:  premium,
		StandardListings: standard,
	})
}

func (h *ListingHandler) AddListingForm(w http.ResponseWriter, r *http.Request) {
	h.Renderer.Render(w, http.StatusOK, "add_listing.tmpl", templateData{
		Form: listingForm{PropertyType: models.PropertyTypeApartment},
	})
}

func (h *ListingHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	form := listingForm{
		Title:        strings.TrimSpace(r.PostForm.Get("title")),
		Location:     strings.TrimSpace(r.PostForm.Get("location")),
		Price:        strings.TrimSpace(r.PostForm.Get("price")),
		Description:  strings.TrimSpace(r.PostForm.Get("description")),
		PropertyType: r.PostForm.Get("type"),
		Contact:      strings.TrimSpace(r.PostForm.Get("contact")),
		IsPremium:    r.PostForm.Get("premium") != "",
	}

	priceCents, priceErr := parsePriceCents(form.Price)

	listing := models.Listing{
		Title:        form.Title,
		Location:     form.Location,
		PriceCents:   priceCents,
		Description:  form.Description,
		PropertyType: form.PropertyType,
		Contact:      form.Contact,
		IsPremium:    form.IsPremium,
	}

	// An unparseable price must not reach the store; validate the rest of
	// the form locally so the user sees every error at once.
	if priceErr != nil {
		vErr := &models.ValidationError{}
		var fieldErr *models.ValidationError
		if errors.As(models.ValidateListing(listing), &fieldErr) {
			vErr = fieldErr
		}
		vErr.Add("price", "Price must be a non-negative amount")
		form.Errors = vErr.Fields
		h.Renderer.Render(w, http.StatusUnprocessableEntity, "add_listing.tmpl", templateData{Form: form})
		return
	}

	created, err := h.Service.CreateListing(r.Context(), listing)

	var vErr *models.ValidationError
	if errors.As(err, &vErr) {
		form.Errors = vErr.Fields
		h.Renderer.Render(w, http.StatusUnprocessableEntity, "add_listing.tmpl", templateData{Form: form})
		return
	}
	if err != nil {
		http.Error(w, "Failed to create listing", http.StatusInternalServerError)
		return
	}

	if created.IsPremium {
		http.Redirect(w, r, fmt.Sprintf("/premium-payment/%d", created.ID), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *ListingHandler) GetListingByID(w http.ResponseWriter, r *http.Request) {
	id, err := listingID(r)
	if err != nil {
		http.Error(w, "Invalid listing id", http.StatusBadRequest)
		return
	}
	listing, err := h.Service.GetListingByID(r.Context(), id)
	if errors.Is(err, models.ErrListingNotFound) {
		http.Error(w, "Listing not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Failed to fetch listing", http.StatusInternalServerError)
		return
	}
	h.Renderer.Render(w, http.StatusOK, "listing_detail.tmpl", templateData{Listing: listing})
}

// listingID extracts the :id route parameter. pat stores parameters in the
// query string with a leading colon.
func listingID(r *http.Request) (int, error) {
	return strconv.Atoi(r.URL.Query().Get(":id"))
}

// parsePriceCents converts a submitted price like "4500" or "4500.50" into
// integer cents.
func parsePriceCents(raw string) (int64, error) {
	if raw == "" {
		return 0, fmt.Errorf("empty price")
	}
	whole, frac, hasFrac := strings.Cut(raw, ".")
	cents, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, err
	}
	cents *= 100
	if hasFrac {
		if len(frac) == 0 || len(frac) > 2 {
			return 0, fmt.Errorf("invalid price %q", raw)
		}
		for len(frac) < 2 {
			frac += "0"
		}
		f, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, err
		}
		if strings.HasPrefix(strings.TrimSpace(whole), "-") {
			cents -= f
		} else {
			cents += f
		}
	}
	return cents, nil
}
