package usecase

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"

	"github.com/fanlane/backstage"
	"github.com/fanlane/backstage/internal/domain"
)

// ContextStore persists the resolved context for a browser session. Load
// returns domain.ErrNotFound when nothing is stored. Save replaces the
// stored context as a whole object; readers never observe a partial merge.
type ContextStore interface {
	Load(ctx context.Context, sessionID string) (domain.Context, error)
	Save(ctx context.Context, sessionID string, c domain.Context) error
	Clear(ctx context.Context, sessionID string) error
}

// IdentityGateway resolves the authenticated session, if any. Returns
// domain.ErrNotFound when the session is absent or expired.
type IdentityGateway interface {
	Resolve(ctx context.Context, sessionID string) (domain.Session, error)
}

// SignalPublisher posts fire-and-forget events toward peer frontends.
type SignalPublisher interface {
	Publish(ctx context.Context, channel string, event backstage.Event) error
}

// ResolveInput carries the four candidate sources read at view activation.
// Every source is optional; the merge order decides conflicts.
type ResolveInput struct {
	SessionID string
	Handoff   *backstage.HandoffPayload
	Query     url.Values
	Referrer  string
	Path      string
}

// ContextResolver produces the single authoritative Context for a session
// from up to four candidate sources that may disagree. Resolution never
// fails: missing identity information degrades to the unknown role and the
// default landing view.
type ContextResolver struct {
	store    ContextStore
	identity IdentityGateway
	signal   SignalPublisher
	config   domain.Config
}

func NewContextResolver(
	store ContextStore,
	identity IdentityGateway,
	signal SignalPublisher,
	config domain.Config,
) *ContextResolver {
	return &ContextResolver{
		store:    store,
		identity: identity,
		signal:   signal,
		config:   config,
	}
}

// Resolve reads all candidate sources, merges them field by field, persists
// the result whole-object, and returns it. The merge is applied atomically:
// sources are read first, then the context is computed, then persisted.
func (r *ContextResolver) Resolve(ctx context.Context, input ResolveInput) domain.Context {
	var stored *domain.Context
	if input.SessionID != "" {
		loaded, err := r.store.Load(ctx, input.SessionID)
		if err == nil {
			stored = &loaded
		} else if !errors.Is(err, domain.ErrNotFound) {
			slog.WarnContext(ctx, "stored context unavailable, continuing without it",
				slog.String("error", err.Error()),
				slog.String("module", "context"),
			)
		}
	}

	merged := r.merge(ctx, stored, input)

	if input.SessionID != "" {
		if err := r.store.Save(ctx, input.SessionID, merged); err != nil {
			slog.WarnContext(ctx, "failed to persist resolved context",
				slog.String("error", err.Error()),
				slog.String("module", "context"),
			)
		}
	}

	return merged
}

// Reinitialize clears the stored context and repeats the merge from
// scratch. Idempotent; used to recover after an external identity change.
func (r *ContextResolver) Reinitialize(ctx context.Context, input ResolveInput) domain.Context {
	if input.SessionID != "" {
		if err := r.store.Clear(ctx, input.SessionID); err != nil {
			slog.WarnContext(ctx, "failed to clear stored context",
				slog.String("error", err.Error()),
				slog.String("module", "context"),
			)
		}
	}
	return r.Resolve(ctx, input)
}

// Current returns the stored context for the session without re-resolving.
func (r *ContextResolver) Current(ctx context.Context, sessionID string) (domain.Context, error) {
	return r.store.Load(ctx, sessionID)
}

// ChangeView updates the active view on the stored context and notifies
// peers with a SectionChanged event. The notification is fire-and-forget.
func (r *ContextResolver) ChangeView(ctx context.Context, sessionID, section string) (domain.Context, error) {
	current, err := r.store.Load(ctx, sessionID)
	if err != nil {
		return domain.Context{}, err
	}

	current.ActiveView = section
	if err := r.store.Save(ctx, sessionID, current); err != nil {
		return domain.Context{}, err
	}

	event := backstage.Event{
		Type:    backstage.EventSectionChanged,
		Section: section,
		App:     r.config.AppName,
	}
	if err := r.signal.Publish(ctx, backstage.ChannelForSession(sessionID), event); err != nil {
		slog.DebugContext(ctx, "section change notification dropped",
			slog.String("error", err.Error()),
			slog.String("module", "context"),
		)
	}

	return current, nil
}

// merge applies the precedence rules field by field, not source by source.
func (r *ContextResolver) merge(ctx context.Context, stored *domain.Context, input ResolveInput) domain.Context {
	handoff := input.Handoff
	if handoff == nil {
		handoff = &backstage.HandoffPayload{}
	}

	merged := domain.Context{
		ActorRole:  domain.RoleUnknown,
		ActiveView: r.defaultView(),
	}

	// activeView: query > hand-off > stored > heuristic > landing.
	switch {
	case input.Query.Get(domain.QuerySection) != "":
		merged.ActiveView = input.Query.Get(domain.QuerySection)
	case handoff.ActiveView != "":
		merged.ActiveView = handoff.ActiveView
	case stored != nil && stored.ActiveView != "":
		merged.ActiveView = stored.ActiveView
	default:
		if inferred := inferView(input.Path, input.Referrer); inferred != "" {
			merged.ActiveView = inferred
		}
	}

	// actorRole: query > stored.
	if v := input.Query.Get(domain.QueryUserType); v != "" {
		merged.ActorRole = domain.ParseActorRole(v)
	} else if stored != nil && stored.ActorRole != "" {
		merged.ActorRole = stored.ActorRole
	}

	// actorId: query > stored.
	if v := input.Query.Get(domain.QueryUserID); v != "" {
		merged.ActorID = v
	} else if stored != nil {
		merged.ActorID = stored.ActorID
	}

	if handoff.OriginatingApp != "" {
		merged.OriginatingApp = handoff.OriginatingApp
	} else if stored != nil {
		merged.OriginatingApp = stored.OriginatingApp
	}

	// artistId is only resolved for the artist role. A fan context never
	// carries one; artist scoping for fans is explicit per-request.
	if merged.ActorRole == domain.RoleArtist {
		merged.ArtistID = r.resolveArtistID(ctx, handoff, input)
	}

	return merged
}

func (r *ContextResolver) resolveArtistID(ctx context.Context, handoff *backstage.HandoffPayload, input ResolveInput) string {
	if v := input.Query.Get(domain.QueryArtistID); backstage.IsValidID(v) {
		return v
	}

	if handoff.ArtistID != "" {
		return handoff.ArtistID
	}

	if input.SessionID != "" {
		session, err := r.identity.Resolve(ctx, input.SessionID)
		if err == nil && session.ArtistID != "" {
			return session.ArtistID
		}
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			slog.WarnContext(ctx, "identity lookup failed during artist resolution",
				slog.String("error", err.Error()),
				slog.String("module", "context"),
			)
		}
	}

	if r.config.DevMode {
		return r.config.DevArtistID
	}

	return ""
}

func (r *ContextResolver) defaultView() string {
	if r.config.DefaultView != "" {
		return r.config.DefaultView
	}
	return domain.ViewLanding
}

// inferView guesses the active view from the current path, falling back to
// the referring page. Used only when every richer source is silent.
func inferView(path, referrer string) string {
	if section := firstSegment(path); section != "" {
		return section
	}
	if referrer == "" {
		return ""
	}
	u, err := url.Parse(referrer)
	if err != nil {
		return ""
	}
	return firstSegment(u.Path)
}

func firstSegment(path string) string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return ""
	}
	if idx := strings.IndexByte(trimmed, '/'); idx >= 0 {
		return trimmed[:idx]
	}
	return trimmed
}
