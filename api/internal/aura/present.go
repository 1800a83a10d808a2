package aura

import "math"

type Tier string

const (
	TierHigh Tier = "high"
	TierMid  Tier = "mid"
	TierLow  Tier = "low"
)

// TierOf buckets a score the way the web client colours it.
func TierOf(score float64) Tier {
	switch {
	case score >= 40:
		return TierHigh
	case score >= 0:
		return TierMid
	default:
		return TierLow
	}
}

// GaugePercent maps [-100, 100] onto [0, 100].
func GaugePercent(score float64) int {
	return int(math.Round((ClampScore(score) - MinScore) / (MaxScore - MinScore) * 100))
}
