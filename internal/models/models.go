package models

import "time"

// User is a chat participant who published at least one ad. Upserted on
// every successful ad creation, never deleted.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Ad is a published hosting offer.
type Ad struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone"`
	Area          Area      `json:"area"`
	City          string    `json:"city"`
	Capacity      int       `json:"capacity"`
	DateAvailable string    `json:"date_available"` // YYYY-MM-DD
	CreatedAt     time.Time `json:"created_at"`
}

// Report is a single user's flag on an ad. At most one per (ad, user).
type Report struct {
	AdID       int64     `json:"ad_id"`
	UserID     int64     `json:"user_id"`
	ReportedAt time.Time `json:"reported_at"`
}
