package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pyreview/pyreview/internal/domain"
)

// ── warm terminal palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
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

	gradeColors = map[string]lipgloss.Color{
		"A+": success,
		"A":  success,
		"B":  lipgloss.Color("#A3E635"), // lime
		"C":  warning,
		"D":  lipgloss.Color("#FB923C"), // orange
		"F":  danger,
	}

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	warnStyle     = lipgloss.NewStyle().Foreground(warning)
	codeStyle     = lipgloss.NewStyle().Foreground(warning).Bold(true)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	nameStyle     = lipgloss.NewStyle().Bold(true).Foreground(fg)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

// RenderReport formats a full review report for terminal output.
func RenderReport(report *domain.ReviewReport) string {
	var b strings.Builder

	// ── Header ──
	grade := domain.GradeFor(report.Style.Score)
	title := headerStyle.Render("pyreview")
	subtitle := dimStyle.Render("Code Review Report")
	scoreStyled := lipgloss.NewStyle().
		Bold(true).
		Foreground(gradeColor(grade)).
		Render(fmt.Sprintf("%d / 100", report.Style.Score))
	gradeStyled := lipgloss.NewStyle().
		Bold(true).
		Foreground(gradeColor(grade)).
		Render(grade)

	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + scoreStyled + "  " + gradeStyled))
	b.WriteString("\n\n")

	if report.Attempt > 1 {
		line := fmt.Sprintf("  %s attempt %d", dimStyle.Render("·"), report.Attempt)
		if report.ScoreDelta > 0 {
			line += "  " + passStyle.Render(fmt.Sprintf("↑%d", report.ScoreDelta))
		} else if report.ScoreDelta < 0 {
			line += "  " + failStyle.Render(fmt.Sprintf("↓%d", -report.ScoreDelta))
		}
		b.WriteString(line + "\n\n")
	}

	renderStructure(&b, report.Structure)

	b.WriteString("  " + separatorLine + "\n\n")
	renderStyle(&b, report.Style)

	if report.Tests != nil {
		b.WriteString("\n  " + separatorLine + "\n\n")
		renderTests(&b, report.Tests)
	}

	b.WriteString("\n")
	return b.String()
}

func renderStructure(b *strings.Builder, summary *domain.StructuralSummary) {
	if summary == nil {
		return
	}
	m := summary.Metrics
	b.WriteString("  " + titleStyle.Render("Structure") + "\n\n")
	fmt.Fprintf(b, "    %s %d lines, %d functions, %d classes, %d imports\n",
		dimStyle.Render("·"), m.LineCount, m.FunctionCount, m.ClassCount, m.ImportCount)
	if m.FunctionCount > 0 {
		fmt.Fprintf(b, "    %s average function length %.1f lines\n",
			dimStyle.Render("·"), m.AvgFunctionLength)
	}
	if m.HasMainGuard {
		fmt.Fprintf(b, "    %s has __main__ guard\n", passStyle.Render("●"))
	}

	for _, fn := range summary.Functions {
		icon := passStyle.Render("●")
		note := ""
		if !fn.HasDocstring {
			icon = warnStyle.Render("●")
			note = faintStyle.Render("no docstring")
		}
		name := fn.Name
		if fn.IsAsync {
			name = "async " + name
		}
		fmt.Fprintf(b, "    %s %s(%s)  %s\n",
			icon, nameStyle.Render(name), strings.Join(fn.Params, ", "), note)
	}
	b.WriteString("\n")
}

func renderStyle(b *strings.Builder, style domain.StyleReport) {
	b.WriteString("  " + titleStyle.Render("Style") + "\n\n")

	if style.Status == domain.StatusError {
		fmt.Fprintf(b, "    %s style check unavailable: %s\n",
			warnStyle.Render("●"), dimStyle.Render(style.Error))
		return
	}

	if style.IssueCount == 0 {
		b.WriteString("    " + passStyle.Render("No style issues found.") + "\n")
		return
	}

	fmt.Fprintf(b, "    %s\n\n", warnStyle.Render(fmt.Sprintf("%d issues", style.IssueCount)))
	for _, issue := range style.Issues {
		fmt.Fprintf(b, "    %s %s %s\n",
			codeStyle.Render(issue.Code),
			dimStyle.Render(fmt.Sprintf("line %d, col %d", issue.Line, issue.Column)),
			issue.Message)
	}
	if hidden := style.IssueCount - len(style.Issues); hidden > 0 {
		fmt.Fprintf(b, "    %s\n", faintStyle.Render(fmt.Sprintf("… and %d more", hidden)))
	}
}

func renderTests(b *strings.Builder, tests *domain.TestExecutionResult) {
	b.WriteString("  " + titleStyle.Render("Tests") + "\n\n")

	if tests.Error != "" {
		fmt.Fprintf(b, "    %s %s\n", failStyle.Render("●"), dimStyle.Render(tests.Error))
		return
	}

	rateStyle := passStyle
	if tests.PassRate < 100 {
		rateStyle = warnStyle
	}
	if tests.PassRate < 50 {
		rateStyle = failStyle
	}
	fmt.Fprintf(b, "    %s passed, %d failed of %d  %s\n\n",
		passStyle.Render(fmt.Sprintf("%d", tests.Passed)),
		tests.Failed, tests.Total,
		rateStyle.Render(fmt.Sprintf("%.1f%%", tests.PassRate)))

	for _, d := range tests.Details {
		icon := passStyle.Render("●")
		if !d.Passed {
			icon = failStyle.Render("●")
		}
		line := fmt.Sprintf("    %s %s(%s)", icon, nameStyle.Render(d.Function), d.Input)
		switch {
		case d.Error != "":
			line += "  " + failStyle.Render(d.ErrorType+": "+d.Error)
		case d.ExecutionOnly:
			line += "  " + faintStyle.Render("executed")
		case !d.Passed:
			line += "  " + dimStyle.Render(fmt.Sprintf("got %s, want %s", d.Result, d.Expected))
		}
		b.WriteString(line + "\n")
	}

	for _, e := range tests.ExecutionErrors {
		fmt.Fprintf(b, "    %s %s\n", failStyle.Render("✗"), dimStyle.Render(e))
	}
}

// RenderHistory formats recent review entries for terminal output.
func RenderHistory(entries []domain.ReviewEntry) string {
	if len(entries) == 0 {
		return "  " + dimStyle.Render("No review history found.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Review History") + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 50)) + "\n\n")

	for _, e := range entries {
		hash := e.CommitHash
		if len(hash) > 7 {
			hash = hash[:7]
		}
		if hash == "" {
			hash = "·······"
		}

		scoreStyled := lipgloss.NewStyle().
			Foreground(gradeColor(domain.GradeFor(e.StyleScore))).
			Render(fmt.Sprintf("%d/100", e.StyleScore))

		fmt.Fprintf(&b, "  %s  %s  %s  %s  %s\n",
			dimStyle.Render(e.Timestamp.Format("2006-01-02")),
			faintStyle.Render(hash),
			scoreStyled,
			domain.GradeFor(e.StyleScore),
			dimStyle.Render(fmt.Sprintf("tests %.0f%%", e.PassRate)))
	}

	return b.String()
}

func gradeColor(grade string) lipgloss.Color {
	if c, ok := gradeColors[grade]; ok {
		return c
	}
	return fg
}
