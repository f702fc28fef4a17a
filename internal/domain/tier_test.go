package domain

import "testing"

func TestScoreTier(t *testing.T) {
	cases := []struct {
		name    string
		signals EngagementSignals
		score   float64
		tier    EngagementTier
	}{
		{
			name:    "worked example",
			signals: EngagementSignals{TotalTipAmount: 100, SubscribedMonths: 3, ExclusiveAccessCount: 2},
			score:   19,
			tier:    TierRegular,
		},
		{
			name:    "zero signals",
			signals: EngagementSignals{},
			score:   0,
			tier:    TierCasual,
		},
		{
			name:    "just below regular",
			signals: EngagementSignals{TotalTipAmount: 99},
			score:   9.9,
			tier:    TierCasual,
		},
		{
			name:    "regular boundary",
			signals: EngagementSignals{SubscribedMonths: 5},
			score:   10,
			tier:    TierRegular,
		},
		{
			name:    "superfan boundary",
			signals: EngagementSignals{TotalTipAmount: 250},
			score:   25,
			tier:    TierSuperFan,
		},
		{
			name:    "vip boundary",
			signals: EngagementSignals{SubscribedMonths: 25},
			score:   50,
			tier:    TierVIP,
		},
		{
			name:    "vip mixed",
			signals: EngagementSignals{TotalTipAmount: 200, SubscribedMonths: 10, ExclusiveAccessCount: 10},
			score:   55,
			tier:    TierVIP,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.signals.Score(); got != tc.score {
				t.Fatalf("expected score %v got %v", tc.score, got)
			}
			if got := ScoreTier(tc.signals); got != tc.tier {
				t.Fatalf("expected tier %s got %s", tc.tier, got)
			}
		})
	}
}

func tierRank(tier EngagementTier) int {
	switch tier {
	case TierCasual:
		return 0
	case TierRegular:
		return 1
	case TierSuperFan:
		return 2
	case TierVIP:
		return 3
	}
	return -1
}

func TestScoreTierMonotonic(t *testing.T) {
	base := EngagementSignals{TotalTipAmount: 40, SubscribedMonths: 2, ExclusiveAccessCount: 1}

	bumps := []struct {
		name string
		next EngagementSignals
	}{
		{"more tips", EngagementSignals{TotalTipAmount: 400, SubscribedMonths: 2, ExclusiveAccessCount: 1}},
		{"more months", EngagementSignals{TotalTipAmount: 40, SubscribedMonths: 20, ExclusiveAccessCount: 1}},
		{"more grants", EngagementSignals{TotalTipAmount: 40, SubscribedMonths: 2, ExclusiveAccessCount: 30}},
	}

	for _, tc := range bumps {
		t.Run(tc.name, func(t *testing.T) {
			if tierRank(ScoreTier(tc.next)) < tierRank(ScoreTier(base)) {
				t.Fatalf("tier decreased when %s increased", tc.name)
			}
		})
	}
}
