package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/abanremit/readycheck/internal/domain"
)

var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3")
	dim     = lipgloss.Color("#6B7280")
	faint   = lipgloss.Color("#3F3F46")
	success = lipgloss.Color("#22C55E")
	danger  = lipgloss.Color("#EF4444")
	warning = lipgloss.Color("#F59E0B")
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	warnStyle     = lipgloss.NewStyle().Foreground(warning)
	readyStyle    = lipgloss.NewStyle().Bold(true).Foreground(success)
	notReadyStyle = lipgloss.NewStyle().Bold(true).Foreground(danger)
	errorTagStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	warnTagStyle  = lipgloss.NewStyle().Foreground(warning).Bold(true)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

// RenderReport renders a ValidationReport for the terminal. Errors are
// always shown; warnings and the auto-fix change log only in verbose
// mode.
func RenderReport(report *domain.ValidationReport, verbose bool) string {
	var b strings.Builder

	verdict := notReadyStyle.Render("NOT PRODUCTION READY")
	if report.ProductionReady {
		verdict = readyStyle.Render("PRODUCTION READY")
	}

	header := headerStyle.Render("readycheck") + "\n" +
		dimStyle.Render("Production Readiness Audit") + "\n\n" + verdict
	if report.CommitHash != "" {
		hash := report.CommitHash
		if len(hash) > 7 {
			hash = hash[:7]
		}
		header += "\n" + faintStyle.Render("frontend @ "+hash)
	}
	b.WriteString(boxStyle.Render(header))
	b.WriteString("\n\n")

	// Summary
	s := report.Summary
	fmt.Fprintf(&b, "  %s  %s  %s  %s\n\n",
		dimStyle.Render(fmt.Sprintf("%d phases", s.TotalPhases)),
		passStyle.Render(fmt.Sprintf("%d passed", s.PassedPhases)),
		failStyle.Render(fmt.Sprintf("%d failed", s.FailedPhases)),
		warnStyle.Render(fmt.Sprintf("%d warnings", s.Warnings)),
	)

	// Per-phase status lines, in the fixed report order.
	for _, pk := range domain.PhaseKeys {
		status, ok := report.Phases[pk.Key]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "  %s %s %s\n",
			statusIcon(status.Status),
			titleStyle.Render(padRight(pk.Name, 30)),
			dimStyle.Render(status.Message),
		)
	}

	if len(report.MissingPages) > 0 {
		b.WriteString("\n  " + titleStyle.Render("Missing Pages") + "\n")
		for _, page := range report.MissingPages {
			b.WriteString("    " + warnStyle.Render("·") + " " + dimStyle.Render(page) + "\n")
		}
	}

	b.WriteString("\n  " + separatorLine + "\n\n")

	if len(report.Errors) > 0 {
		b.WriteString("  " + titleStyle.Render("Errors") + "  " +
			errorTagStyle.Render(fmt.Sprintf("%d", len(report.Errors))) + "\n\n")
		for _, e := range report.Errors {
			fmt.Fprintf(&b, "    %s %s\n", errorTagStyle.Render(e.Code), faintStyle.Render(e.Phase))
			fmt.Fprintf(&b, "      %s\n", dimStyle.Render(e.Message))
		}
		b.WriteString("\n")
	}

	if verbose && len(report.Warnings) > 0 {
		b.WriteString("  " + titleStyle.Render("Warnings") + "  " +
			warnTagStyle.Render(fmt.Sprintf("%d", len(report.Warnings))) + "\n\n")
		for _, w := range report.Warnings {
			fmt.Fprintf(&b, "    %s %s\n", warnTagStyle.Render("warn"), dimStyle.Render(w.Message))
			if w.Suggestion != "" {
				fmt.Fprintf(&b, "      %s\n", faintStyle.Render("→ "+w.Suggestion))
			}
		}
		b.WriteString("\n")
	}

	if verbose && len(report.AutoFixChanges) > 0 {
		b.WriteString("  " + titleStyle.Render("Auto-Fix Changes") + "\n\n")
		for _, c := range report.AutoFixChanges {
			fmt.Fprintf(&b, "    %s %s\n", passStyle.Render(string(c.Type)), dimStyle.Render(c.Path))
		}
		b.WriteString("\n")
	}

	if len(report.Errors) == 0 {
		b.WriteString("  " + passStyle.Render("No errors found.") + "\n")
	}

	return b.String()
}

func statusIcon(status string) string {
	switch status {
	case "OK":
		return passStyle.Render("✓")
	case "FAIL":
		return failStyle.Render("✗")
	default:
		return warnStyle.Render("⚠")
	}
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
