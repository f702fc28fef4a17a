package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"

	"github.com/fanlane/backstage/internal/domain"
)

// EngagementScorer maps an actor's cumulative behavior toward an artist
// into a discrete tier. Scoring is pure and recomputed on every call; its
// inputs mutate continuously, so the result is never cached.
type EngagementScorer struct {
	tips   TipRepository
	subs   SubscriptionRepository
	ledger GrantLedger
}

func NewEngagementScorer(tips TipRepository, subs SubscriptionRepository, ledger GrantLedger) *EngagementScorer {
	return &EngagementScorer{
		tips:   tips,
		subs:   subs,
		ledger: ledger,
	}
}

// TierResult is the computed classification plus the signals behind it.
type TierResult struct {
	Tier    domain.EngagementTier    `json:"tier"`
	Score   float64                  `json:"score"`
	Signals domain.EngagementSignals `json:"signals"`
}

// RecordTip appends one tip. Tips feed scoring only; they confer no
// entitlement.
func (s *EngagementScorer) RecordTip(ctx context.Context, tip domain.Tip) error {
	if tip.Amount <= 0 {
		return fmt.Errorf("tip amount must be positive")
	}
	if tip.ID == "" {
		tip.ID = uuid.NewString()
	}
	if tip.TippedAt.IsZero() {
		tip.TippedAt = time.Now()
	}
	return s.tips.Record(ctx, tip)
}

// Tier gathers the actor's live signals and scores them. A failed read
// surfaces as an error rather than scoring against partial data.
func (s *EngagementScorer) Tier(ctx context.Context, actorID, artistID string) (TierResult, error) {
	tips, err := s.tips.TotalForFanArtist(ctx, actorID, artistID)
	if err != nil {
		return TierResult{}, pkgerrors.Wrap(err, "Engagement.Tier: tip aggregation failed")
	}

	months := 0
	sub, err := s.subs.ActiveForFanArtist(ctx, actorID, artistID)
	switch {
	case err == nil:
		months = sub.SubscribedMonths(time.Now())
	case errors.Is(err, domain.ErrNotFound):
		// no subscription, months stays zero
	default:
		return TierResult{}, pkgerrors.Wrap(err, "Engagement.Tier: subscription lookup failed")
	}

	grants, err := s.ledger.CountForActor(ctx, actorID)
	if err != nil {
		return TierResult{}, pkgerrors.Wrap(err, "Engagement.Tier: grant count failed")
	}

	signals := domain.EngagementSignals{
		TotalTipAmount:       tips,
		SubscribedMonths:     months,
		ExclusiveAccessCount: int(grants),
	}

	return TierResult{
		Tier:    domain.ScoreTier(signals),
		Score:   signals.Score(),
		Signals: signals,
	}, nil
}
