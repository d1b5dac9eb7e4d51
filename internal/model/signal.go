package model

import "time"

// Band is the advisory band a score falls into.
type Band string

const (
	BandHigh   Band = "HIGH"
	BandMedium Band = "MEDIUM"
	BandLow    Band = "LOW"
)

// Severity tags the advisory block for the presentation layer.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// FactorScore is one weighted term of the suitability score.
type FactorScore struct {
	Name       string
	RawScore   float64
	Weight     float64
	Weighted   float64
	Commentary string
}

// Recommendation is the advisory produced for a band.
// Strikes are only set for BandHigh with a known price.
type Recommendation struct {
	Band       Band
	Severity   Severity
	Title      string
	Lines      []string
	PutStrike  *float64
	CallStrike *float64
}

// Evaluation is the result of scoring one ticker.
type Evaluation struct {
	ID             string
	Ticker         string
	Inputs         UserInputs
	Factors        []FactorScore
	Raw            float64
	Score          float64
	Recommendation Recommendation
	EvaluatedAt    time.Time
}
