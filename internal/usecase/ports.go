package usecase

import (
	"context"

	"github.com/fanlane/backstage/internal/domain"
)

// ContentRepository looks up monetizable items.
type ContentRepository interface {
	GetByID(ctx context.Context, id string) (domain.ContentItem, error)
}

// SubscriptionRepository looks up membership subscriptions.
type SubscriptionRepository interface {
	// ActiveForFanArtist returns the authoritative active subscription for
	// the pair, or domain.ErrNotFound when none is active. When duplicates
	// exist the one with the most recent EndsAt wins.
	ActiveForFanArtist(ctx context.Context, fanID, artistID string) (domain.MembershipSubscription, error)
}

// GrantLedger is the append-only store of access grants.
type GrantLedger interface {
	Append(ctx context.Context, grant domain.AccessGrant) error
	FindForActorContent(ctx context.Context, actorID, contentID string) ([]domain.AccessGrant, error)
	FindByNonce(ctx context.Context, actorID, contentID, nonce string) (domain.AccessGrant, error)
	CountForActor(ctx context.Context, actorID string) (int64, error)
	Stats(ctx context.Context, scope domain.LedgerScope) (domain.LedgerStats, error)
}

// TipRepository stores tips and aggregates their amounts for scoring.
type TipRepository interface {
	Record(ctx context.Context, tip domain.Tip) error
	TotalForFanArtist(ctx context.Context, fanID, artistID string) (float64, error)
}

// PaymentGateway is the external payment collaborator. Charge returns an
// opaque transaction reference on success.
type PaymentGateway interface {
	Charge(ctx context.Context, actorID, artistID string, amount float64, method string) (string, error)
}
