package repositories

import (
	"context"
	"database/sql"
	"errors"

	"kasiBack/internal/models"
)

type ListingRepository struct {
	DB *sql.DB
}

func (r *ListingRepository) CreateListing(ctx context.Context, listing models.Listing) (models.Listing, error) {
	query := `INSERT INTO listings (title, location, price_cents, description, property_type, contact, is_premium, payment_status, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	          RETURNING id, created_at`
	err := r.DB.QueryRowContext(ctx, query,
		listing.Title, listing.Location, listing.PriceCents, listing.Description,
		listing.PropertyType, listing.Contact, listing.IsPremium, listing.PaymentStatus,
	).Scan(&listing.ID, &listing.CreatedAt)
	if err != nil {
		return models.Listing{}, err
	}
	return listing, nil
}

func (r *ListingRepository) GetListingByID(ctx context.Context, id int) (models.Listing, error) {
	var l models.Listing
	query := `SELECT id, title, location, price_cents, description, property_type, contact, is_premium, payment_status, created_at
	          FROM listings WHERE id = $1`
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&l.ID, &l.Title, &l.Location, &l.PriceCents, &l.Description,
		&l.PropertyType, &l.Contact, &l.IsPremium, &l.PaymentStatus, &l.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Listing{}, models.ErrListingNotFound
	}
	if err != nil {
		return models.Listing{}, err
	}
	return l, nil
}

// GetPremiumListings returns listings for the premium section. Both flags are
// required so an unpaid premium listing never surfaces here.
func (r *ListingRepository) GetPremiumListings(ctx context.Context) ([]models.Listing, error) {
	query := `SELECT id, title, location, price_cents, description, property_type, contact, is_premium, payment_status, created_at
	          FROM listings
	          WHERE is_premium = TRUE AND payment_status = $1
	          ORDER BY id`
	return r.queryListings(ctx, query, models.PaymentStatusComplete)
}

func (r *ListingRepository) GetStandardListings(ctx context.Context) ([]models.Listing, error) {
	query := `SELECT id, title, location, price_cents, description, property_type, contact, is_premium, payment_status, created_at
	          FROM listings
	          WHERE is_premium = FALSE
	          ORDER BY id`
	return r.queryListings(ctx, query)
}

func (r *ListingRepository) UpdatePaymentStatus(ctx context.Context, id int, status string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE listings SET payment_status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrListingNotFound
	}
	return nil
}

// ClearPremium demotes a listing after a cancelled checkout. The is_premium
// guard makes the write a no-op when the listing was already demoted, so a
// repeated cancel converges instead of racing.
func (r *ListingRepository) ClearPremium(ctx context.Context, id int) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE listings SET is_premium = FALSE WHERE id = $1 AND is_premium = TRUE`, id)
	return err
}

func (r *ListingRepository) queryListings(ctx context.Context, query string, args ...any) ([]models.Listing, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []models.Listing
	for rows.Next() {
		var l models.Listing
		if err := rows.Scan(
			&l.ID, &l.Title, &l.Location, &l.PriceCents, &l.Description,
			&l.PropertyType, &l.Contact, &l.IsPremium, &l.PaymentStatus, &l.CreatedAt,
		); err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}
