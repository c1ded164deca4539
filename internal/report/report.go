// Package report renders a recommendation for humans. The JSON output of
// the analyze command is the machine contract; this is the --format pretty
// view of the same data.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/gzhole/cryptadvisor/internal/advisor"
)

var (
	colorRed    = lipgloss.Color("#FF5555")
	colorYellow = lipgloss.Color("#F1FA8C")
	colorGreen  = lipgloss.Color("#50FA7B")
	colorCyan   = lipgloss.Color("#8BE9FD")
	colorWhite  = lipgloss.Color("#F8F8F2")
	colorGray   = lipgloss.Color("#6272A4")

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGray).
			Padding(0, 1)

	errorPanelStyle = panelStyle.BorderForeground(colorRed)

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	labelStyle = lipgloss.NewStyle().Foreground(colorGray).Width(18)
	valueStyle = lipgloss.NewStyle().Foreground(colorWhite)
	warnStyle  = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	critStyle  = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(colorGreen)
	dimStyle   = lipgloss.NewStyle().Foreground(colorGray)
)

func confidenceColor(c float64) lipgloss.Style {
	switch {
	case c > 0.8:
		return okStyle
	case c < 0.5:
		return critStyle
	default:
		return warnStyle
	}
}

func yesNo(b bool) string {
	if b {
		return okStyle.Render("yes")
	}
	return dimStyle.Render("no")
}

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value)
}

// Render draws one analysis as a bordered panel.
func Render(t advisor.Trace) string {
	rec := t.Recommendation

	caption := strings.TrimSpace(t.Info.Caption.String())
	if caption == "" {
		caption = "(unnamed disk)"
	}

	var lines []string
	lines = append(lines, titleStyle.Render("Encryption advice for "+caption), "")

	if t.Err == nil {
		size := humanize.IBytes(uint64(t.Features.SizeGB * (1 << 30)))
		lines = append(lines,
			row("Volume", valueStyle.Render(fmt.Sprintf("%s, %s, %s", size, t.Features.FileSystem, t.Features.MediaLabel()))),
			row("Platform", valueStyle.Render(t.System.PlatformOr("Unknown OS"))),
		)
	}

	algo := valueStyle.Bold(true).Render(string(rec.Algorithm))
	if rec.Failed() {
		algo = critStyle.Render(string(rec.Algorithm))
	}
	lines = append(lines,
		row("Algorithm", algo),
		row("Password score", valueStyle.Render(fmt.Sprintf("%d / 100", rec.PasswordStrength))),
		row("USB key", yesNo(rec.SuggestUSBKey)),
		row("Hidden volume", yesNo(rec.SuggestHiddenVolume)),
		row("Confidence", confidenceColor(rec.Confidence).Render(fmt.Sprintf("%.2f", rec.Confidence))),
	)
	if rec.SecurityFocusFactor != nil {
		lines = append(lines, row("Security focus", valueStyle.Render(fmt.Sprintf("%.2f", *rec.SecurityFocusFactor))))
	}
	if t.Classifier != "" {
		lines = append(lines, row("Classifier", dimStyle.Render(fmt.Sprintf("%s (%s)", t.Classifier, t.Outcome))))
	}
	if rec.Error != "" {
		lines = append(lines, row("Error", critStyle.Render(rec.Error)))
	}

	lines = append(lines, "")
	for _, l := range rec.Explanation {
		lines = append(lines, "• "+l)
	}
	lines = append(lines, "", dimStyle.Render(fmt.Sprintf("analysis %s in %d ms", t.ID, rec.RunTimeMs)))

	style := panelStyle
	if rec.Failed() {
		style = errorPanelStyle
	}
	return style.Render(strings.Join(lines, "\n")) + "\n"
}
