package repositories

import (
	"context"
	"database/sql"

	"kasiBack/internal/models"
)

type PaymentRepository struct {
	DB *sql.DB
}

func (r *PaymentRepository) RecordAttempt(ctx context.Context, attempt models.PaymentAttempt) (models.PaymentAttempt, error) {
	query := `INSERT INTO payment_attempts (listing_id, reference, amount_cents, created_at)
	          VALUES ($1, $2, $3, NOW())
	          RETURNING id, created_at`
	err := r.DB.QueryRowContext(ctx, query, attempt.ListingID, attempt.Reference, attempt.AmountCents).
		Scan(&attempt.ID, &attempt.CreatedAt)
	if err != nil {
		return models.PaymentAttempt{}, err
	}
	return attempt, nil
}

func (r *PaymentRepository) GetAttemptsByListingID(ctx context.Context, listingID int) ([]models.PaymentAttempt, error) {
	query := `SELECT id, listing_id, reference, amount_cents, created_at
	          FROM payment_attempts WHERE listing_id = $1 ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, query, listingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []models.PaymentAttempt
	for rows.Next() {
		var a models.PaymentAttempt
		if err := rows.Scan(&a.ID, &a.ListingID, &a.Reference, &a.AmountCents, &a.CreatedAt); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
