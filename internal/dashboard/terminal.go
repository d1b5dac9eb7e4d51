package dashboard

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"

	"WheelSentinel/internal/calculator"
	"WheelSentinel/internal/model"
)

var seriesColors = map[string]asciigraph.AnsiColor{
	SeriesClose: asciigraph.Blue,
	SeriesMA50:  asciigraph.Orange,
	SeriesMA200: asciigraph.Green,
}

var severityIcons = map[model.Severity]string{
	model.SeveritySuccess: "[OK]",
	model.SeverityInfo:    "[INFO]",
	model.SeverityWarning: "[WARN]",
}

// TerminalSink writes the dashboard as plain text with an ASCII line chart.
type TerminalSink struct {
	W           io.Writer
	Color       bool
	ChartHeight int
}

// NewTerminalSink creates a terminal sink writing to w.
func NewTerminalSink(w io.Writer, color bool) *TerminalSink {
	return &TerminalSink{W: w, Color: color, ChartHeight: 15}
}

func (t *TerminalSink) Render(_ context.Context, v *View) error {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("== Wheel Strategy Analyzer: %s ==\n\n", v.Title))

	for i, m := range v.Metrics {
		if i > 0 {
			b.WriteString("   |   ")
		}
		b.WriteString(fmt.Sprintf("%s: %s", m.Label, m.Value))
	}
	b.WriteString("\n\n")

	b.WriteString("-- Price & Moving Averages --\n")
	b.WriteString(t.plot(v))
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("Wheel suitability: %s\n\n", v.ScoreText))

	b.WriteString(fmt.Sprintf("%s %s\n", severityIcons[v.Advisory.Severity], v.Advisory.Title))
	for _, line := range v.Advisory.Lines {
		b.WriteString("  - " + line + "\n")
	}
	b.WriteString("\n")

	b.WriteString("Key indicators:\n")
	tw := tabwriter.NewWriter(&b, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "  Indicator\tValue")
	for _, r := range v.Table {
		fmt.Fprintf(tw, "  %s\t%s\n", r.Indicator, r.Value)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush table: %w", err)
	}

	if len(v.Warnings) > 0 {
		b.WriteString("\nData warnings:\n")
		for _, w := range v.Warnings {
			b.WriteString("  ! " + w + "\n")
		}
	}

	b.WriteString(fmt.Sprintf("\n%s", v.Footer))
	if v.EvaluationID != "" {
		b.WriteString(fmt.Sprintf(" | eval %s", v.EvaluationID))
	}
	b.WriteString("\n")

	_, err := io.WriteString(t.W, b.String())
	return err
}

// plot draws every series that has at least one defined value.
func (t *TerminalSink) plot(v *View) string {
	var (
		data    [][]float64
		colors  []asciigraph.AnsiColor
		legend  []string
		missing []string
	)
	for _, s := range v.Chart.Series {
		if !calculator.HasDefined(s.Values) {
			missing = append(missing, s.Name)
			continue
		}
		data = append(data, s.Values)
		colors = append(colors, seriesColors[s.Name])
		legend = append(legend, s.Name)
	}

	if len(data) == 0 {
		return "(no price history)\n"
	}

	low, high, _ := calculator.PriceRange(data...)
	opts := []asciigraph.Option{
		asciigraph.Height(t.ChartHeight),
		asciigraph.LowerBound(low),
		asciigraph.UpperBound(high),
		asciigraph.Precision(2),
	}
	if t.Color {
		opts = append(opts, asciigraph.SeriesColors(colors...))
	}

	var b strings.Builder
	b.WriteString(asciigraph.PlotMany(data, opts...))
	b.WriteString("\n")
	if n := len(v.Chart.Dates); n > 0 {
		b.WriteString(fmt.Sprintf("  %s .. %s\n", v.Chart.Dates[0].Format("2006-01-02"), v.Chart.Dates[n-1].Format("2006-01-02")))
	}
	b.WriteString("  legend: " + strings.Join(legend, ", "))
	if len(missing) > 0 {
		b.WriteString(" (insufficient history: " + strings.Join(missing, ", ") + ")")
	}
	b.WriteString("\n")
	if summary, ok := v.RangeSummary(); ok {
		b.WriteString("  " + summary + "\n")
	}
	return b.String()
}
