package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/fanlane/backstage/internal/domain"
	"github.com/fanlane/backstage/internal/infra/database/models"
)

// SubscriptionRepository reads membership subscriptions from Postgres.
type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// ActiveForFanArtist returns the authoritative active subscription for the
// pair. When duplicate active rows exist, the one with the most recent
// EndsAt wins; an open-ended subscription outranks any dated one.
func (r *SubscriptionRepository) ActiveForFanArtist(ctx context.Context, fanID, artistID string) (domain.MembershipSubscription, error) {
	var records []models.MembershipSubscription
	err := r.db.WithContext(ctx).
		Where("fan_id = ? AND artist_id = ? AND active = ?", fanID, artistID, true).
		Find(&records).Error
	if err != nil {
		return domain.MembershipSubscription{}, domain.UnavailableError{Op: "subscription.active", Err: err}
	}

	now := time.Now()
	var best *domain.MembershipSubscription
	for _, record := range records {
		sub := toDomainSubscription(record)
		if !sub.ActiveAt(now) {
			continue
		}
		if best == nil || laterEnd(sub.EndsAt, best.EndsAt) {
			s := sub
			best = &s
		}
	}

	if best == nil {
		return domain.MembershipSubscription{}, domain.NotFoundError{Resource: "subscription"}
	}
	return *best, nil
}

func toDomainSubscription(m models.MembershipSubscription) domain.MembershipSubscription {
	return domain.MembershipSubscription{
		ID:       m.ID,
		FanID:    m.FanID,
		ArtistID: m.ArtistID,
		Tier:     m.Tier,
		StartsAt: m.StartsAt,
		EndsAt:   m.EndsAt,
		Active:   m.Active,
	}
}

// laterEnd treats a nil end (open-ended) as later than any dated end.
func laterEnd(a, b *time.Time) bool {
	if a == nil {
		return true
	}
	if b == nil {
		return false
	}
	return a.After(*b)
}
