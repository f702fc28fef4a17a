package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"go.opentelemetry.io/otel"

	"github.com/fanlane/backstage/internal/domain"
)

var tracer = otel.Tracer("entitlement")

// EntitlementEvaluator decides whether an actor may access a content item
// and records purchased access in the grant ledger.
//
// Membership-derived access is re-evaluated live against the subscription
// table, so a lapsed subscription immediately revokes access. Purchased and
// gifted access is captured once as a permanent ledger entry, so a later
// cancellation never revokes a past purchase. The asymmetry is intentional.
type EntitlementEvaluator struct {
	content ContentRepository
	subs    SubscriptionRepository
	ledger  GrantLedger
	payment PaymentGateway
}

func NewEntitlementEvaluator(
	content ContentRepository,
	subs SubscriptionRepository,
	ledger GrantLedger,
	payment PaymentGateway,
) *EntitlementEvaluator {
	return &EntitlementEvaluator{
		content: content,
		subs:    subs,
		ledger:  ledger,
		payment: payment,
	}
}

// Evaluate answers "may actorID access contentID owned by artistID right
// now?" with a reason on denial. Repeated calls for an already-granted pair
// are idempotent and create no additional ledger entries.
func (e *EntitlementEvaluator) Evaluate(ctx context.Context, actorID, contentID, artistID string) (domain.Decision, error) {
	ctx, span := tracer.Start(ctx, "Entitlement.Evaluate")
	defer span.End()

	now := time.Now()

	item, err := e.content.GetByID(ctx, contentID)
	if err != nil {
		span.RecordError(err)
		return domain.Decision{}, pkgerrors.Wrap(err, "Entitlement.Evaluate: content lookup failed")
	}

	if !item.Consumable(now) {
		return domain.Decision{
			Reason:  domain.DenialContentInactive,
			Message: "this content is no longer available",
		}, nil
	}

	grants, err := e.ledger.FindForActorContent(ctx, actorID, contentID)
	if err != nil {
		span.RecordError(err)
		return domain.Decision{}, pkgerrors.Wrap(err, "Entitlement.Evaluate: grant lookup failed")
	}
	for i := range grants {
		if grants[i].ValidAt(now) {
			return domain.Decision{
				Granted: true,
				Grant:   &grants[i],
			}, nil
		}
	}

	sub, err := e.subs.ActiveForFanArtist(ctx, actorID, artistID)
	switch {
	case err == nil:
		if sub.Tier >= item.RequiredTier {
			// Entitlement flows from the subscription itself; no
			// ledger entry is written here.
			return domain.Decision{Granted: true}, nil
		}
	case errors.Is(err, domain.ErrNotFound):
		// fall through to denial
	default:
		span.RecordError(err)
		return domain.Decision{}, pkgerrors.Wrap(err, "Entitlement.Evaluate: subscription lookup failed")
	}

	decision := domain.Decision{
		Reason:       domain.DenialNoMembership,
		RequiredTier: item.RequiredTier,
		Message:      fmt.Sprintf("membership tier %d or higher required", item.RequiredTier),
	}
	if item.IndividualPrice != nil {
		decision.Purchase = &domain.PurchaseOption{Price: *item.IndividualPrice}
	}
	return decision, nil
}

// PurchaseInput describes one user-initiated standalone purchase. Nonce
// deduplicates retried requests; when empty a fresh one is generated and
// the purchase is not protected against caller-side retries.
type PurchaseInput struct {
	ActorID   string
	ContentID string
	ArtistID  string
	Method    string
	Nonce     string
}

// Purchase charges the actor for standalone access and appends one
// perpetual one-off-purchase grant. If the payment step fails no grant is
// recorded. A repeated request carrying the same nonce returns the grant
// already recorded for it without charging again.
func (e *EntitlementEvaluator) Purchase(ctx context.Context, input PurchaseInput) (domain.AccessGrant, error) {
	ctx, span := tracer.Start(ctx, "Entitlement.Purchase")
	defer span.End()

	item, err := e.content.GetByID(ctx, input.ContentID)
	if err != nil {
		span.RecordError(err)
		return domain.AccessGrant{}, pkgerrors.Wrap(err, "Entitlement.Purchase: content lookup failed")
	}
	if item.IndividualPrice == nil {
		return domain.AccessGrant{}, fmt.Errorf("content %s is not individually purchasable", input.ContentID)
	}

	nonce := input.Nonce
	if nonce != "" {
		existing, err := e.ledger.FindByNonce(ctx, input.ActorID, input.ContentID, nonce)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			span.RecordError(err)
			return domain.AccessGrant{}, pkgerrors.Wrap(err, "Entitlement.Purchase: nonce lookup failed")
		}
	} else {
		nonce = uuid.NewString()
	}

	txRef, err := e.payment.Charge(ctx, input.ActorID, input.ArtistID, *item.IndividualPrice, input.Method)
	if err != nil {
		span.RecordError(err)
		return domain.AccessGrant{}, err
	}

	grant := domain.AccessGrant{
		ID:        uuid.NewString(),
		ActorID:   input.ActorID,
		ArtistID:  input.ArtistID,
		ContentID: input.ContentID,
		Kind:      domain.GrantOneOffPurchase,
		GrantedAt: time.Now(),
		Metadata: map[string]string{
			"paymentRef": txRef,
			"method":     input.Method,
			"nonce":      nonce,
		},
	}

	if err := e.ledger.Append(ctx, grant); err != nil {
		span.RecordError(err)
		return domain.AccessGrant{}, pkgerrors.Wrap(err, "Entitlement.Purchase: ledger append failed")
	}

	return grant, nil
}
