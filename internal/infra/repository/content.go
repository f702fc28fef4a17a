package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"gorm.io/gorm"

	"github.com/fanlane/backstage/internal/domain"
	"github.com/fanlane/backstage/internal/infra/database/models"
)

const contentCacheTTL = 60 * time.Second

// ContentRepository reads content items from Postgres with a short-TTL
// memcached layer in front. Only positive lookups are cached, so a cache
// problem can never turn "exists" into "missing".
type ContentRepository struct {
	db *gorm.DB
	mc *memcache.Client
}

func NewContentRepository(db *gorm.DB, mc *memcache.Client) *ContentRepository {
	return &ContentRepository{db: db, mc: mc}
}

func (r *ContentRepository) GetByID(ctx context.Context, id string) (domain.ContentItem, error) {
	cacheKey := "content:" + id

	if r.mc != nil {
		if item, err := r.mc.Get(cacheKey); err == nil {
			var cached domain.ContentItem
			if err := json.Unmarshal(item.Value, &cached); err == nil {
				return cached, nil
			}
		}
	}

	var record models.ContentItem
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ContentItem{}, domain.NotFoundError{Resource: "content"}
		}
		return domain.ContentItem{}, domain.UnavailableError{Op: "content.get", Err: err}
	}

	item := domain.ContentItem{
		ID:              record.ID,
		OwnerArtistID:   record.OwnerArtistID,
		RequiredTier:    record.RequiredTier,
		IndividualPrice: record.IndividualPrice,
		Active:          record.Active,
		ExpiresAt:       record.ExpiresAt,
	}

	if r.mc != nil {
		if serialized, err := json.Marshal(item); err == nil {
			r.mc.Set(&memcache.Item{
				Key:        cacheKey,
				Value:      serialized,
				Expiration: int32(contentCacheTTL.Seconds()),
			})
		}
	}

	return item, nil
}
