package models

import "time"

// PaymentAttempt records a single checkout handed off to the gateway. A new
// reference is generated per attempt, so a listing can accumulate several
// rows if the user retries.
type PaymentAttempt struct {
	ID          int       `json:"id"`
	ListingID   int       `json:"listing_id"`
	Reference   string    `json:"reference"`
	AmountCents int64     `json:"amount_cents"`
	CreatedAt   time.Time `json:"created_at"`
}
