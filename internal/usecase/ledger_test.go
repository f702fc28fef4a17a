package usecase

import (
	"context"
	"testing"

	"github.com/fanlane/backstage/internal/domain"
)

func TestLedgerStatsScopeValidation(t *testing.T) {
	ledger := NewLedgerUsecase(&mockLedger{stats: domain.LedgerStats{Total: 3}})

	if _, err := ledger.Stats(context.Background(), domain.LedgerScope{}); err == nil {
		t.Fatalf("empty scope must be rejected")
	}

	if _, err := ledger.Stats(context.Background(), domain.LedgerScope{ContentID: "c1", ArtistID: "a1"}); err == nil {
		t.Fatalf("ambiguous scope must be rejected")
	}

	stats, err := ledger.Stats(context.Background(), domain.LedgerScope{ContentID: "c1"})
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.Total != 3 {
		t.Fatalf("expected delegated stats, got %+v", stats)
	}
}
