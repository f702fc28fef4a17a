package domain

// ActorRole classifies the signed-in actor.
type ActorRole string

const (
	RoleArtist  ActorRole = "artist"
	RoleFan     ActorRole = "fan"
	RoleUnknown ActorRole = "unknown"
)

// ParseActorRole maps a wire value to a role, treating anything
// unrecognized as unknown rather than failing.
func ParseActorRole(s string) ActorRole {
	switch s {
	case string(RoleArtist):
		return RoleArtist
	case string(RoleFan):
		return RoleFan
	default:
		return RoleUnknown
	}
}

// Context is the resolved identity/role/view state for the current session.
// It is computed once per view activation, persisted whole-object, and
// recomputed on navigation hand-off.
//
// ArtistID is only set when the actor is an artist, or when a fan is viewing
// one artist's storefront; a generically browsing fan never carries one.
type Context struct {
	ActorRole      ActorRole `json:"actorRole"`
	ActorID        string    `json:"actorId,omitempty"`
	ArtistID       string    `json:"artistId,omitempty"`
	ActiveView     string    `json:"activeView"`
	OriginatingApp string    `json:"originatingApp,omitempty"`
}
