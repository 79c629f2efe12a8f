package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

// Score bounds for every evaluation score.
const (
	MinScore = 1.0
	MaxScore = 10.0
)

// RoundScore rounds to one decimal place, half away from zero.
// Decimal arithmetic keeps 6.25 from becoming 6.2 through binary drift.
func RoundScore(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	f, _ := decimal.NewFromFloat(v).Round(1).Float64()
	return f
}

// ClampScore clamps v into [MinScore, MaxScore].
func ClampScore(v float64) float64 {
	if math.IsNaN(v) {
		return MinScore
	}
	if v < MinScore {
		return MinScore
	}
	if v > MaxScore {
		return MaxScore
	}
	return v
}

// NormalizeScore clamps then rounds.
func NormalizeScore(v float64) float64 { return RoundScore(ClampScore(v)) }

// MeanScore returns the rounded arithmetic mean of scores.
// ok is false for an empty input; callers must not treat that as zero.
func MeanScore(scores []float64) (mean float64, ok bool) {
	if len(scores) == 0 {
		return 0, false
	}
	sum := decimal.Zero
	for _, s := range scores {
		sum = sum.Add(decimal.NewFromFloat(s))
	}
	f, _ := sum.Div(decimal.NewFromInt(int64(len(scores)))).Round(1).Float64()
	return f, true
}
