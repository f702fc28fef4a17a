package domain

// EngagementTier is a discrete loyalty classification of a fan, distinct
// from membership tier. It is derived on demand, never stored.
type EngagementTier string

const (
	TierCasual   EngagementTier = "Casual"
	TierRegular  EngagementTier = "Regular"
	TierSuperFan EngagementTier = "SuperFan"
	TierVIP      EngagementTier = "VIP"
)

// EngagementSignals are the cumulative inputs to tier scoring. Amounts are
// in the platform currency throughout.
type EngagementSignals struct {
	TotalTipAmount       float64 `json:"totalTipAmount"`
	SubscribedMonths     int     `json:"subscribedMonths"`
	ExclusiveAccessCount int     `json:"exclusiveAccessCount"`
}

// Score computes the raw engagement score.
func (s EngagementSignals) Score() float64 {
	return 0.1*s.TotalTipAmount + 2*float64(s.SubscribedMonths) + 1.5*float64(s.ExclusiveAccessCount)
}

// ScoreTier maps signals to a tier. Thresholds are evaluated highest-first.
func ScoreTier(s EngagementSignals) EngagementTier {
	score := s.Score()
	switch {
	case score >= 50:
		return TierVIP
	case score >= 25:
		return TierSuperFan
	case score >= 10:
		return TierRegular
	default:
		return TierCasual
	}
}
