package domain

// Query parameters read by the context resolver. The names are part of the
// cross-frontend navigation contract and are never mutated by this layer.
const (
	QueryUserType = "userType"
	QueryArtistID = "artistaId"
	QueryUserID   = "userId"
	QuerySection  = "section"
)

const (
	ActorIDCtxKey   = "bs-actorId"
	ActorRoleCtxKey = "bs-actorRole"
	ArtistIDCtxKey  = "bs-artistId"
	SessionIDCtxKey = "bs-sessionId"
)

const (
	SessionIDHeader = "x-backstage-session"
)

// ViewLanding is the default landing section when no candidate source
// provides an active view.
const ViewLanding = "home"
