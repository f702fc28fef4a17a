package domain

import (
	"math"
	"time"
)

// MembershipSubscription is a recurring grant from a fan to an artist.
// At most one active subscription per (fan, artist) pair is authoritative
// for access purposes; the most recent EndsAt wins if duplicates exist.
type MembershipSubscription struct {
	ID       string     `json:"id"`
	FanID    string     `json:"fanId"`
	ArtistID string     `json:"artistId"`
	Tier     int        `json:"tier"`
	StartsAt time.Time  `json:"startsAt"`
	EndsAt   *time.Time `json:"endsAt,omitempty"`
	Active   bool       `json:"active"`
}

// ActiveAt reports whether the subscription confers entitlements at now.
func (s MembershipSubscription) ActiveAt(now time.Time) bool {
	if !s.Active {
		return false
	}
	if now.Before(s.StartsAt) {
		return false
	}
	if s.EndsAt != nil && !s.EndsAt.After(now) {
		return false
	}
	return true
}

// SubscribedMonths is the ceiling of elapsed time since the subscription
// started, in months, at now.
func (s MembershipSubscription) SubscribedMonths(now time.Time) int {
	if now.Before(s.StartsAt) {
		return 0
	}
	elapsed := now.Sub(s.StartsAt)
	const month = 30 * 24 * time.Hour
	return int(math.Ceil(float64(elapsed) / float64(month)))
}
