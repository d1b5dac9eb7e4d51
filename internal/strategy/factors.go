package strategy

import (
	"fmt"
	"math"

	"WheelSentinel/internal/model"
)

// Term weights. They sum to 1.0 over a 0-100 term scale.
const (
	weightIVRank     = 0.25
	weightLiquidity  = 0.20
	weightBeta       = 0.15
	weightEPSGrowth  = 0.15
	weightDividend   = 0.10
	weightTechnical  = 0.15
	idealIVRank      = 40
	neutralTechnical = 80
)

// scoreIVRank rewards a moderate IV Rank near 40.
// Weight: 0.25
func scoreIVRank(ivRank int) model.FactorScore {
	raw := 100 - math.Abs(float64(ivRank-idealIVRank))
	return model.FactorScore{
		Name:       "IV Rank",
		RawScore:   raw,
		Weight:     weightIVRank,
		Weighted:   weightIVRank * raw,
		Commentary: fmt.Sprintf("IVR=%d", ivRank),
	}
}

// scoreLiquidity rewards open interest / liquidity linearly.
// Weight: 0.20
func scoreLiquidity(oiScore int) model.FactorScore {
	raw := float64(oiScore)
	return model.FactorScore{
		Name:       "OI/Liquidity",
		RawScore:   raw,
		Weight:     weightLiquidity,
		Weighted:   weightLiquidity * raw,
		Commentary: fmt.Sprintf("OI=%d", oiScore),
	}
}

// scoreBeta rewards market-like volatility. Goes negative once beta is 2 away from 1.
// Weight: 0.15
func scoreBeta(beta float64) model.FactorScore {
	raw := 100 - math.Abs((beta-1)*100)
	return model.FactorScore{
		Name:       "Beta",
		RawScore:   raw,
		Weight:     weightBeta,
		Weighted:   weightBeta * raw,
		Commentary: fmt.Sprintf("beta=%.2f", beta),
	}
}

// scoreEPSGrowth rewards quarterly EPS growth, floored at zero.
// Weight: 0.15
func scoreEPSGrowth(epsGrowth float64) model.FactorScore {
	raw := math.Max(0, epsGrowth*100+50)
	return model.FactorScore{
		Name:       "EPS Growth",
		RawScore:   raw,
		Weight:     weightEPSGrowth,
		Weighted:   weightEPSGrowth * raw,
		Commentary: fmt.Sprintf("%+.2f%%", epsGrowth*100),
	}
}

// scoreDividend rewards dividend yield with a 25x multiplier on the percentage.
// Weight: 0.10
func scoreDividend(dividendYield float64) model.FactorScore {
	raw := dividendYield * 100 * 25
	return model.FactorScore{
		Name:       "Dividend Yield",
		RawScore:   raw,
		Weight:     weightDividend,
		Weighted:   weightDividend * raw,
		Commentary: fmt.Sprintf("%.2f%%", dividendYield*100),
	}
}

// scoreTechnical is the fixed neutral technical contribution.
// Weight: 0.15
func scoreTechnical() model.FactorScore {
	return model.FactorScore{
		Name:       "Technical",
		RawScore:   neutralTechnical,
		Weight:     weightTechnical,
		Weighted:   weightTechnical * neutralTechnical,
		Commentary: "neutral",
	}
}
