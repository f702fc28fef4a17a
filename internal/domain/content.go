package domain

import "time"

// ContentItem is a monetizable unit (song, album, lyric sheet, video, photo)
// owned by exactly one artist.
type ContentItem struct {
	ID              string     `json:"id"`
	OwnerArtistID   string     `json:"ownerArtistId"`
	RequiredTier    int        `json:"requiredTier"`
	IndividualPrice *float64   `json:"individualPrice,omitempty"`
	Active          bool       `json:"active"`
	ExpiresAt       *time.Time `json:"expiresAt,omitempty"`
}

// Consumable reports whether the item can be accessed at all, regardless of
// who is asking.
func (c ContentItem) Consumable(now time.Time) bool {
	if !c.Active {
		return false
	}
	if c.ExpiresAt != nil && !c.ExpiresAt.After(now) {
		return false
	}
	return true
}
