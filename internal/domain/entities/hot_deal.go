package entities

import "time"

// HotDeal marks a deal as a favourite of a user
type HotDeal struct {
	UserID    string    `json:"user_id" db:"user_id"`
	DealID    string    `json:"deal_id" db:"deal_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// HotDealToggle is the outcome of toggling a hot deal. Deal is set only when
// the deal was marked.
type HotDealToggle struct {
	Marked bool        `json:"marked"`
	Deal   *ActiveDeal `json:"deal,omitempty"`
}
