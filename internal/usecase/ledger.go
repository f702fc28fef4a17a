package usecase

import (
	"context"
	"fmt"

	"github.com/fanlane/backstage/internal/domain"
)

// LedgerUsecase exposes read-side statistics over the append-only grant
// ledger for a content item or artist scope.
type LedgerUsecase struct {
	ledger GrantLedger
}

func NewLedgerUsecase(ledger GrantLedger) *LedgerUsecase {
	return &LedgerUsecase{ledger: ledger}
}

// Stats aggregates the ledger for the requested scope. Exactly one of
// ContentID or ArtistID must be set.
func (u *LedgerUsecase) Stats(ctx context.Context, scope domain.LedgerScope) (domain.LedgerStats, error) {
	if (scope.ContentID == "") == (scope.ArtistID == "") {
		return domain.LedgerStats{}, fmt.Errorf("exactly one of contentId or artistId must be given")
	}
	return u.ledger.Stats(ctx, scope)
}
