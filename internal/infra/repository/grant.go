package repository

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/gorm"

	"github.com/fanlane/backstage/internal/domain"
	"github.com/fanlane/backstage/internal/infra/database/models"
)

// GrantRepository is the append-only access grant ledger on Postgres.
// Rows are never updated or deleted.
type GrantRepository struct {
	db *gorm.DB
}

func NewGrantRepository(db *gorm.DB) *GrantRepository {
	return &GrantRepository{db: db}
}

func (r *GrantRepository) Append(ctx context.Context, grant domain.AccessGrant) error {
	record, err := toGrantModel(grant)
	if err != nil {
		return err
	}

	err = r.db.WithContext(ctx).Create(&record).Error
	if err != nil {
		// A duplicated nonce means this exact request was already
		// recorded; the ledger entry exists, so the append succeeded.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return domain.UnavailableError{Op: "grant.append", Err: err}
	}
	return nil
}

func (r *GrantRepository) FindForActorContent(ctx context.Context, actorID, contentID string) ([]domain.AccessGrant, error) {
	var records []models.AccessGrant
	err := r.db.WithContext(ctx).
		Where("actor_id = ? AND content_id = ?", actorID, contentID).
		Order("granted_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, domain.UnavailableError{Op: "grant.find", Err: err}
	}

	grants := make([]domain.AccessGrant, 0, len(records))
	for _, record := range records {
		grants = append(grants, toDomainGrant(record))
	}
	return grants, nil
}

func (r *GrantRepository) FindByNonce(ctx context.Context, actorID, contentID, nonce string) (domain.AccessGrant, error) {
	var record models.AccessGrant
	err := r.db.WithContext(ctx).
		Where("actor_id = ? AND content_id = ? AND nonce = ?", actorID, contentID, nonce).
		Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.AccessGrant{}, domain.NotFoundError{Resource: "grant"}
		}
		return domain.AccessGrant{}, domain.UnavailableError{Op: "grant.findByNonce", Err: err}
	}
	return toDomainGrant(record), nil
}

func (r *GrantRepository) CountForActor(ctx context.Context, actorID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AccessGrant{}).
		Where("actor_id = ?", actorID).
		Count(&count).Error
	if err != nil {
		return 0, domain.UnavailableError{Op: "grant.count", Err: err}
	}
	return count, nil
}

// Stats aggregates the ledger for one content or artist scope by scanning
// the matching rows. No materialized counters are kept.
func (r *GrantRepository) Stats(ctx context.Context, scope domain.LedgerScope) (domain.LedgerStats, error) {
	query := r.db.WithContext(ctx).Model(&models.AccessGrant{})
	if scope.ContentID != "" {
		query = query.Where("content_id = ?", scope.ContentID)
	} else {
		query = query.Where("artist_id = ?", scope.ArtistID)
	}

	var records []models.AccessGrant
	if err := query.Find(&records).Error; err != nil {
		return domain.LedgerStats{}, domain.UnavailableError{Op: "grant.stats", Err: err}
	}

	stats := domain.LedgerStats{
		ByKind: map[domain.GrantKind]int64{},
	}
	actors := map[string]struct{}{}
	for _, record := range records {
		stats.Total++
		stats.ByKind[domain.GrantKind(record.Kind)]++
		actors[record.ActorID] = struct{}{}

		grantedAt := record.GrantedAt
		if stats.FirstGrantedAt == nil || grantedAt.Before(*stats.FirstGrantedAt) {
			t := grantedAt
			stats.FirstGrantedAt = &t
		}
		if stats.LastGrantedAt == nil || grantedAt.After(*stats.LastGrantedAt) {
			t := grantedAt
			stats.LastGrantedAt = &t
		}
	}
	stats.DistinctActors = int64(len(actors))

	return stats, nil
}

func toGrantModel(grant domain.AccessGrant) (models.AccessGrant, error) {
	metadata := ""
	if grant.Metadata != nil {
		serialized, err := json.Marshal(grant.Metadata)
		if err != nil {
			return models.AccessGrant{}, err
		}
		metadata = string(serialized)
	}

	record := models.AccessGrant{
		ID:        grant.ID,
		ActorID:   grant.ActorID,
		ArtistID:  grant.ArtistID,
		ContentID: grant.ContentID,
		Kind:      string(grant.Kind),
		GrantedAt: grant.GrantedAt,
		ExpiresAt: grant.ExpiresAt,
		Metadata:  metadata,
	}
	if nonce, ok := grant.Metadata["nonce"]; ok && nonce != "" {
		record.Nonce = &nonce
	}
	return record, nil
}

func toDomainGrant(record models.AccessGrant) domain.AccessGrant {
	var metadata map[string]string
	if record.Metadata != "" {
		// malformed metadata is dropped rather than failing the read
		json.Unmarshal([]byte(record.Metadata), &metadata)
	}

	return domain.AccessGrant{
		ID:        record.ID,
		ActorID:   record.ActorID,
		ArtistID:  record.ArtistID,
		ContentID: record.ContentID,
		Kind:      domain.GrantKind(record.Kind),
		GrantedAt: record.GrantedAt,
		ExpiresAt: record.ExpiresAt,
		Metadata:  metadata,
	}
}
