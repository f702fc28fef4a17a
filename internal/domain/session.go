package domain

import "time"

// Session is the authenticated-identity record looked up by bearer token.
// It is the external identity source consulted during context resolution.
type Session struct {
	Token     string    `json:"token"`
	ActorID   string    `json:"actorId"`
	Role      ActorRole `json:"role"`
	ArtistID  string    `json:"artistId,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
}
