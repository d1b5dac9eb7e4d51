package strategy

import (
	"fmt"

	"github.com/shopspring/decimal"

	"WheelSentinel/internal/model"
)

var (
	putStrikeFactor  = decimal.RequireFromString("0.95")
	callStrikeFactor = decimal.RequireFromString("1.10")
)

// Strikes suggests the short put and covered call strikes for a price,
// rounded to the nearest whole currency unit (half away from zero).
func Strikes(price float64) (put, call float64) {
	p := decimal.NewFromFloat(price)
	put = p.Mul(putStrikeFactor).Round(0).InexactFloat64()
	call = p.Mul(callStrikeFactor).Round(0).InexactFloat64()
	return put, call
}

// Recommend maps a score to its band and advisory text.
// A nil price leaves the strikes unset and prints N/A.
func Recommend(score float64, price *float64, ticker string) model.Recommendation {
	switch BandFor(score) {
	case model.BandHigh:
		return recommendHigh(price, ticker)
	case model.BandMedium:
		return model.Recommendation{
			Band:     model.BandMedium,
			Severity: model.SeverityInfo,
			Title:    "Moderately suitable for the wheel",
			Lines: []string{
				"Strategy: sell puts 8-12% out of the money and watch for assignment; start covered calls only once assigned.",
				"Expiry: weekly or monthly both work.",
				"Caution: when IV runs high, set a stop (exit if price breaks below the 50MA).",
			},
		}
	default:
		return model.Recommendation{
			Band:     model.BandLow,
			Severity: model.SeverityWarning,
			Title:    "Wheel not recommended for now",
			Lines: []string{
				"Likely cause: volatility too high (elevated IV) or thin liquidity.",
				"Action: wait for IV Rank to settle back into the 40-50% range, then re-evaluate.",
				"Alternative: use a bear call spread or long put instead of collecting premium.",
			},
		}
	}
}

func recommendHigh(price *float64, ticker string) model.Recommendation {
	rec := model.Recommendation{
		Band:     model.BandHigh,
		Severity: model.SeveritySuccess,
		Title:    "Highly suitable for the wheel",
		Lines: []string{
			"Strategy: sell puts 5-10% out of the money, then covered calls 10-15% out of the money.",
			"Expiry: favour weeklies and roll the premium every week.",
		},
	}

	if price == nil {
		rec.Lines = append(rec.Lines,
			fmt.Sprintf("Example: %s current price N/A, strike suggestion N/A put and N/A call.", ticker))
		return rec
	}

	put, call := Strikes(*price)
	rec.PutStrike = &put
	rec.CallStrike = &call
	rec.Lines = append(rec.Lines,
		fmt.Sprintf("Example: with %s near $%.2f, consider selling the %.0f put and the %.0f call.",
			ticker, *price, put, call))
	return rec
}
