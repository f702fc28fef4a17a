package backstage

// HandoffPayload is the context fragment a peer frontend pushes at the moment
// of navigation. Every field is optional; absent fields fall through the
// resolver's merge order.
type HandoffPayload struct {
	ActorRole      string `json:"actorRole,omitempty"`
	ActorID        string `json:"actorId,omitempty"`
	ArtistID       string `json:"artistId,omitempty"`
	ActiveView     string `json:"activeView,omitempty"`
	OriginatingApp string `json:"originatingApp,omitempty"`
}

// Context is the wire form of the resolved session context returned to
// peer frontends.
type Context struct {
	ActorRole      string `json:"actorRole"`
	ActorID        string `json:"actorId,omitempty"`
	ArtistID       string `json:"artistId,omitempty"`
	ActiveView     string `json:"activeView"`
	OriginatingApp string `json:"originatingApp,omitempty"`
}

const (
	EventSectionChanged = "SectionChanged"
	EventHandoff        = "Handoff"
)

// Event is the message published on the signal channel and fanned out to
// realtime subscribers. Fire-and-forget; no acknowledgment is expected.
type Event struct {
	Type    string `json:"type"`
	Section string `json:"section,omitempty"`
	App     string `json:"app,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

// ChannelForSession names the signal channel for one browser session.
func ChannelForSession(sessionID string) string {
	return "backstage:session:" + sessionID
}
