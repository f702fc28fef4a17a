package domain

import "time"

// GrantKind discriminates how an access grant came to be.
type GrantKind string

const (
	GrantMembership     GrantKind = "membership"
	GrantOneOffPurchase GrantKind = "one_off_purchase"
	GrantGift           GrantKind = "gift"
	GrantPromotional    GrantKind = "promotional"
)

// AccessGrant is an immutable audit record created whenever access is
// evaluated as granted through a paid or gifted action. The ledger is
// append-only; grants are never mutated or deleted.
type AccessGrant struct {
	ID        string            `json:"id"`
	ActorID   string            `json:"actorId"`
	ArtistID  string            `json:"artistId"`
	ContentID string            `json:"contentId"`
	Kind      GrantKind         `json:"grantKind"`
	GrantedAt time.Time         `json:"grantedAt"`
	ExpiresAt *time.Time        `json:"expiresAt,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// ValidAt reports whether the grant still satisfies access at now.
// An absent ExpiresAt means perpetual.
func (g AccessGrant) ValidAt(now time.Time) bool {
	return g.ExpiresAt == nil || g.ExpiresAt.After(now)
}

// LedgerScope selects the grants a statistics query aggregates over.
// Exactly one of ContentID or ArtistID should be set.
type LedgerScope struct {
	ContentID string
	ArtistID  string
}

// LedgerStats is the aggregate view over a ledger scope.
type LedgerStats struct {
	Total          int64               `json:"total"`
	ByKind         map[GrantKind]int64 `json:"byKind"`
	DistinctActors int64               `json:"distinctActors"`
	FirstGrantedAt *time.Time          `json:"firstGrantedAt,omitempty"`
	LastGrantedAt  *time.Time          `json:"lastGrantedAt,omitempty"`
}
