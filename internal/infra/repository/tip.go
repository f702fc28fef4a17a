package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/fanlane/backstage/internal/domain"
	"github.com/fanlane/backstage/internal/infra/database/models"
)

// TipRepository stores tips and aggregates their amounts for scoring.
type TipRepository struct {
	db *gorm.DB
}

func NewTipRepository(db *gorm.DB) *TipRepository {
	return &TipRepository{db: db}
}

func (r *TipRepository) Record(ctx context.Context, tip domain.Tip) error {
	record := models.Tip{
		ID:       tip.ID,
		FanID:    tip.FanID,
		ArtistID: tip.ArtistID,
		Amount:   tip.Amount,
		TippedAt: tip.TippedAt,
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return domain.UnavailableError{Op: "tip.record", Err: err}
	}
	return nil
}

func (r *TipRepository) TotalForFanArtist(ctx context.Context, fanID, artistID string) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&models.Tip{}).
		Where("fan_id = ? AND artist_id = ?", fanID, artistID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, domain.UnavailableError{Op: "tip.total", Err: err}
	}
	return total, nil
}
