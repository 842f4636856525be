package entities

import "time"

// Rating is one user's opinion of a dealer
type Rating struct {
	UserID    string    `json:"user_id" db:"user_id"`
	DealerID  string    `json:"dealer_id" db:"dealer_id"`
	Stars     int       `json:"stars" db:"stars" validate:"gte=1,lte=5"`
	Text      string    `json:"text" db:"text" validate:"max=1000"`
	Username  string    `json:"username,omitempty" db:"username"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// RatingSummary aggregates the ratings of a dealer
type RatingSummary struct {
	DealerID string  `json:"dealer_id"`
	Average  float64 `json:"average"`
	Count    int     `json:"count"`
}
