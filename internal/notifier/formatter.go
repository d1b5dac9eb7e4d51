package notifier

import (
	"fmt"
	"html"
	"strings"

	"WheelSentinel/internal/calculator"
	"WheelSentinel/internal/dashboard"
	"WheelSentinel/internal/model"
)

var severityEmoji = map[model.Severity]string{
	model.SeveritySuccess: "✅",
	model.SeverityInfo:    "ℹ️",
	model.SeverityWarning: "⚠️",
}

// HelpText lists the bot commands.
const HelpText = "<b>Wheel Strategy Analyzer</b>\n\n" +
	"/wheel TICKER [ivRank] [oiScore] - score a ticker for the wheel strategy\n" +
	"    ivRank and oiScore are 0-100, defaults 40 and 70\n" +
	"/help - show this message"

// FormatView renders a dashboard view as a Telegram HTML message.
func FormatView(v *dashboard.View) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>%s</b>\n\n", esc(v.Title)))

	for _, m := range v.Metrics {
		b.WriteString(fmt.Sprintf("%s: <b>%s</b>\n", esc(m.Label), esc(m.Value)))
	}
	b.WriteString("\n")

	if line := chartLine(v); line != "" {
		b.WriteString(line + "\n\n")
	}

	b.WriteString(fmt.Sprintf("🎯 <b>Wheel suitability:</b> %s\n\n", esc(v.ScoreText)))

	b.WriteString(fmt.Sprintf("%s <b>%s</b>\n", severityEmoji[v.Advisory.Severity], esc(v.Advisory.Title)))
	for _, line := range v.Advisory.Lines {
		b.WriteString("• " + esc(line) + "\n")
	}
	b.WriteString("\n")

	b.WriteString("<b>Key indicators:</b>\n<pre>")
	width := 0
	for _, r := range v.Table {
		if len(r.Indicator) > width {
			width = len(r.Indicator)
		}
	}
	for _, r := range v.Table {
		b.WriteString(esc(fmt.Sprintf("%-*s  %s", width, r.Indicator, r.Value)) + "\n")
	}
	b.WriteString("</pre>\n")

	if len(v.Warnings) > 0 {
		b.WriteString("\n⚠️ <b>Data warnings:</b>\n")
		for _, w := range v.Warnings {
			b.WriteString("• " + esc(w) + "\n")
		}
	}

	b.WriteString("\n<i>" + esc(v.Footer))
	if v.EvaluationID != "" {
		b.WriteString(" | eval " + esc(v.EvaluationID))
	}
	b.WriteString("</i>")
	return b.String()
}

// FormatError renders a failed command as a short reply.
func FormatError(err error) string {
	return "❌ " + esc(err.Error()) + "\n\n" + HelpText
}

// chartLine summarizes the chart since a message cannot carry the plot.
func chartLine(v *dashboard.View) string {
	var parts []string
	if summary, ok := v.RangeSummary(); ok {
		parts = append(parts, summary)
	}
	for _, s := range v.Chart.Series[min(1, len(v.Chart.Series)):] {
		if last, ok := calculator.LastDefined(s.Values); ok {
			parts = append(parts, fmt.Sprintf("%s %.2f", s.Name, last))
		} else {
			parts = append(parts, s.Name+" n/a")
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return "📈 " + esc(strings.Join(parts, " | "))
}

func esc(s string) string {
	return html.EscapeString(s)
}
