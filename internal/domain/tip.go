package domain

import "time"

// Tip is a one-off monetary appreciation from a fan to an artist. It feeds
// engagement scoring; it confers no entitlement by itself.
type Tip struct {
	ID       string    `json:"id"`
	FanID    string    `json:"fanId"`
	ArtistID string    `json:"artistId"`
	Amount   float64   `json:"amount"`
	TippedAt time.Time `json:"tippedAt"`
}
