package usecase

import (
	"context"
	"net/url"
	"testing"

	"github.com/fanlane/backstage"
	"github.com/fanlane/backstage/internal/domain"
)

// --- mocks ---

type mockContextStore struct {
	stored  *domain.Context
	loadErr error
	saveErr error
	saved   []domain.Context
	cleared int
}

func (m *mockContextStore) Load(ctx context.Context, sessionID string) (domain.Context, error) {
	if m.loadErr != nil {
		return domain.Context{}, m.loadErr
	}
	if m.stored == nil {
		return domain.Context{}, domain.NotFoundError{Resource: "context"}
	}
	return *m.stored, nil
}

func (m *mockContextStore) Save(ctx context.Context, sessionID string, c domain.Context) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, c)
	m.stored = &c
	return nil
}

func (m *mockContextStore) Clear(ctx context.Context, sessionID string) error {
	m.cleared++
	m.stored = nil
	return nil
}

type mockIdentity struct {
	session domain.Session
	err     error
}

func (m *mockIdentity) Resolve(ctx context.Context, sessionID string) (domain.Session, error) {
	if m.err != nil {
		return domain.Session{}, m.err
	}
	return m.session, nil
}

type mockSignal struct {
	events   []backstage.Event
	channels []string
}

func (m *mockSignal) Publish(ctx context.Context, channel string, event backstage.Event) error {
	m.channels = append(m.channels, channel)
	m.events = append(m.events, event)
	return nil
}

func newResolver(store *mockContextStore, identity *mockIdentity, conf domain.Config) (*ContextResolver, *mockSignal) {
	signal := &mockSignal{}
	if identity == nil {
		identity = &mockIdentity{err: domain.ErrNotFound}
	}
	return NewContextResolver(store, identity, signal, conf), signal
}

const testArtistID = "7b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d"

// --- tests ---

func TestResolvePrecedenceActiveView(t *testing.T) {
	// all four sources present and conflicting: the query parameter wins
	store := &mockContextStore{stored: &domain.Context{ActiveView: "stored-view", ActorRole: domain.RoleFan}}
	resolver, _ := newResolver(store, nil, domain.Config{})

	resolved := resolver.Resolve(context.Background(), ResolveInput{
		SessionID: "s1",
		Handoff:   &backstage.HandoffPayload{ActiveView: "handoff-view"},
		Query:     url.Values{domain.QuerySection: {"query-view"}},
		Path:      "/heuristic-view",
		Referrer:  "https://peer.example/referrer-view",
	})

	if resolved.ActiveView != "query-view" {
		t.Fatalf("expected query parameter to win, got %s", resolved.ActiveView)
	}
}

func TestResolvePrecedenceFallthrough(t *testing.T) {
	// each case gets a fresh store: Resolve persists its result, which
	// would otherwise leak into the next case as a stored context
	resolver, _ := newResolver(&mockContextStore{stored: &domain.Context{ActiveView: "stored-view"}}, nil, domain.Config{})
	resolved := resolver.Resolve(context.Background(), ResolveInput{
		SessionID: "s1",
		Handoff:   &backstage.HandoffPayload{ActiveView: "handoff-view"},
		Query:     url.Values{},
	})
	if resolved.ActiveView != "handoff-view" {
		t.Fatalf("expected hand-off to win without query, got %s", resolved.ActiveView)
	}

	resolver, _ = newResolver(&mockContextStore{stored: &domain.Context{ActiveView: "stored-view"}}, nil, domain.Config{})
	resolved = resolver.Resolve(context.Background(), ResolveInput{
		SessionID: "s1",
		Query:     url.Values{},
	})
	if resolved.ActiveView != "stored-view" {
		t.Fatalf("expected stored context to win without hand-off, got %s", resolved.ActiveView)
	}

	resolver, _ = newResolver(&mockContextStore{}, nil, domain.Config{})
	resolved = resolver.Resolve(context.Background(), ResolveInput{
		SessionID: "s1",
		Query:     url.Values{},
		Path:      "/exclusives/track-9",
	})
	if resolved.ActiveView != "exclusives" {
		t.Fatalf("expected heuristic inference from path, got %s", resolved.ActiveView)
	}

	resolver, _ = newResolver(&mockContextStore{}, nil, domain.Config{})
	resolved = resolver.Resolve(context.Background(), ResolveInput{
		SessionID: "s1",
		Query:     url.Values{},
	})
	if resolved.ActiveView != domain.ViewLanding {
		t.Fatalf("expected default landing view, got %s", resolved.ActiveView)
	}
}

func TestResolveFanNeverCarriesArtistID(t *testing.T) {
	store := &mockContextStore{stored: &domain.Context{
		ActorRole: domain.RoleFan,
		ArtistID:  testArtistID,
	}}
	resolver, _ := newResolver(store, nil, domain.Config{DevMode: true, DevArtistID: testArtistID})

	resolved := resolver.Resolve(context.Background(), ResolveInput{
		SessionID: "s1",
		Handoff:   &backstage.HandoffPayload{ArtistID: testArtistID},
		Query: url.Values{
			domain.QueryUserType: {"fan"},
			domain.QueryArtistID: {testArtistID},
		},
	})

	if resolved.ActorRole != domain.RoleFan {
		t.Fatalf("expected fan role, got %s", resolved.ActorRole)
	}
	if resolved.ArtistID != "" {
		t.Fatalf("a fan context must never carry an artistId, got %s", resolved.ArtistID)
	}
}

func TestResolveArtistIDChain(t *testing.T) {
	// valid query parameter wins
	resolver, _ := newResolver(&mockContextStore{}, nil, domain.Config{})
	resolved := resolver.Resolve(context.Background(), ResolveInput{
		SessionID: "s1",
		Handoff:   &backstage.HandoffPayload{ArtistID: "handoff-artist"},
		Query: url.Values{
			domain.QueryUserType: {"artist"},
			domain.QueryArtistID: {testArtistID},
		},
	})
	if resolved.ArtistID != testArtistID {
		t.Fatalf("expected query artist id, got %s", resolved.ArtistID)
	}

	// malformed query parameter falls through to the hand-off value
	resolved = resolver.Resolve(context.Background(), ResolveInput{
		SessionID: "s1",
		Handoff:   &backstage.HandoffPayload{ArtistID: "handoff-artist"},
		Query: url.Values{
			domain.QueryUserType: {"artist"},
			domain.QueryArtistID: {"not-a-uuid"},
		},
	})
	if resolved.ArtistID != "handoff-artist" {
		t.Fatalf("expected hand-off artist id, got %s", resolved.ArtistID)
	}

	// session identity is consulted next
	identity := &mockIdentity{session: domain.Session{ActorID: "actor-1", Role: domain.RoleArtist, ArtistID: testArtistID}}
	resolver, _ = newResolver(&mockContextStore{}, identity, domain.Config{})
	resolved = resolver.Resolve(context.Background(), ResolveInput{
		SessionID: "s1",
		Query:     url.Values{domain.QueryUserType: {"artist"}},
	})
	if resolved.ArtistID != testArtistID {
		t.Fatalf("expected session artist id, got %s", resolved.ArtistID)
	}

	// dev placeholder only in dev mode
	resolver, _ = newResolver(&mockContextStore{}, nil, domain.Config{DevMode: true, DevArtistID: "dev-artist"})
	resolved = resolver.Resolve(context.Background(), ResolveInput{
		SessionID: "s1",
		Query:     url.Values{domain.QueryUserType: {"artist"}},
	})
	if resolved.ArtistID != "dev-artist" {
		t.Fatalf("expected dev placeholder, got %s", resolved.ArtistID)
	}

	resolver, _ = newResolver(&mockContextStore{}, nil, domain.Config{DevMode: false, DevArtistID: "dev-artist"})
	resolved = resolver.Resolve(context.Background(), ResolveInput{
		SessionID: "s1",
		Query:     url.Values{domain.QueryUserType: {"artist"}},
	})
	if resolved.ArtistID != "" {
		t.Fatalf("placeholder must be gated behind dev mode, got %s", resolved.ArtistID)
	}
}

func TestResolveDegradesToUnknown(t *testing.T) {
	resolver, _ := newResolver(&mockContextStore{}, nil, domain.Config{})

	resolved := resolver.Resolve(context.Background(), ResolveInput{
		SessionID: "s1",
		Query:     url.Values{},
	})

	if resolved.ActorRole != domain.RoleUnknown {
		t.Fatalf("missing identity must degrade to unknown, got %s", resolved.ActorRole)
	}
	if resolved.ActiveView != domain.ViewLanding {
		t.Fatalf("expected landing view, got %s", resolved.ActiveView)
	}
}

func TestResolveSurvivesStoreFailure(t *testing.T) {
	store := &mockContextStore{loadErr: domain.UnavailableError{Op: "context.load"}}
	resolver, _ := newResolver(store, nil, domain.Config{})

	resolved := resolver.Resolve(context.Background(), ResolveInput{
		SessionID: "s1",
		Query:     url.Values{domain.QuerySection: {"exclusives"}},
	})

	if resolved.ActiveView != "exclusives" {
		t.Fatalf("resolution must not fail on store errors, got %+v", resolved)
	}
}

func TestResolvePersistsMergedContext(t *testing.T) {
	store := &mockContextStore{}
	resolver, _ := newResolver(store, nil, domain.Config{})

	resolved := resolver.Resolve(context.Background(), ResolveInput{
		SessionID: "s1",
		Query: url.Values{
			domain.QueryUserType: {"fan"},
			domain.QueryUserID:   {"fan-7"},
			domain.QuerySection:  {"merch"},
		},
	})

	if len(store.saved) != 1 {
		t.Fatalf("expected exactly one whole-object save, got %d", len(store.saved))
	}
	if store.saved[0] != resolved {
		t.Fatalf("persisted context differs from the returned one")
	}

	// a reload without query parameters reproduces the same view
	reloaded := resolver.Resolve(context.Background(), ResolveInput{
		SessionID: "s1",
		Query:     url.Values{},
	})
	if reloaded.ActiveView != "merch" || reloaded.ActorID != "fan-7" {
		t.Fatalf("reload should reproduce the stored context, got %+v", reloaded)
	}
}

func TestReinitializeClearsStoredContext(t *testing.T) {
	store := &mockContextStore{stored: &domain.Context{ActiveView: "stale", ActorRole: domain.RoleFan, ActorID: "old"}}
	resolver, _ := newResolver(store, nil, domain.Config{})

	resolved := resolver.Reinitialize(context.Background(), ResolveInput{
		SessionID: "s1",
		Query:     url.Values{},
	})

	if store.cleared != 1 {
		t.Fatalf("expected stored context to be cleared")
	}
	if resolved.ActiveView != domain.ViewLanding || resolved.ActorRole != domain.RoleUnknown {
		t.Fatalf("expected a fresh merge after clear, got %+v", resolved)
	}
}

func TestChangeViewPublishesSectionChanged(t *testing.T) {
	store := &mockContextStore{stored: &domain.Context{ActiveView: "home", ActorRole: domain.RoleFan}}
	resolver, signal := newResolver(store, nil, domain.Config{AppName: "monetize"})

	updated, err := resolver.ChangeView(context.Background(), "s1", "exclusives")
	if err != nil {
		t.Fatalf("change view failed: %v", err)
	}
	if updated.ActiveView != "exclusives" {
		t.Fatalf("expected updated view, got %s", updated.ActiveView)
	}

	if len(signal.events) != 1 {
		t.Fatalf("expected one event, got %d", len(signal.events))
	}
	event := signal.events[0]
	if event.Type != backstage.EventSectionChanged || event.Section != "exclusives" || event.App != "monetize" {
		t.Fatalf("unexpected event %+v", event)
	}
	if signal.channels[0] != backstage.ChannelForSession("s1") {
		t.Fatalf("unexpected channel %s", signal.channels[0])
	}
}
