package strategy

import "WheelSentinel/internal/model"

const scoreDivisor = 100

// Bands maps score thresholds to advisory bands, highest first.
// Each threshold is inclusive.
var Bands = []struct {
	MinScore float64
	Band     model.Band
}{
	{80, model.BandHigh},
	{60, model.BandMedium},
}

// BandFor maps a score to its advisory band.
func BandFor(score float64) model.Band {
	for _, b := range Bands {
		if score >= b.MinScore {
			return b.Band
		}
	}
	return model.BandLow
}

// Factors returns the weighted terms of the suitability score in formula order.
// Terms are not clamped.
func Factors(in model.UserInputs, f model.ScoringInputs) []model.FactorScore {
	return []model.FactorScore{
		scoreIVRank(in.IVRank),
		scoreLiquidity(in.OIScore),
		scoreBeta(f.Beta),
		scoreEPSGrowth(f.EPSGrowth),
		scoreDividend(f.DividendYield),
		scoreTechnical(),
	}
}

// RawScore sums the weighted terms left to right.
func RawScore(factors []model.FactorScore) float64 {
	raw := 0.0
	for _, fs := range factors {
		raw += fs.Weighted
	}
	return raw
}

// Score computes the wheel suitability score for the given sliders and fundamentals.
func Score(in model.UserInputs, f model.ScoringInputs) float64 {
	return RawScore(Factors(in, f)) / scoreDivisor
}

// Evaluate scores a snapshot and selects the matching recommendation.
// It has no side effects. ID and EvaluatedAt are left for the caller.
func Evaluate(snap *model.TickerSnapshot, in model.UserInputs) *model.Evaluation {
	factors := Factors(in, snap.ScoringInputs())
	raw := RawScore(factors)
	score := raw / scoreDivisor

	var ticker string
	var price *float64
	if snap != nil {
		ticker = snap.Symbol
		price = snap.CurrentPrice
	}

	return &model.Evaluation{
		Ticker:         ticker,
		Inputs:         in,
		Factors:        factors,
		Raw:            raw,
		Score:          score,
		Recommendation: Recommend(score, price, ticker),
	}
}
