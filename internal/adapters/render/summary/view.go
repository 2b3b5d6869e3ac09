package summary

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/bnema/session-ctx-cli/internal/application"
	"github.com/bnema/session-ctx-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const reductionBarWidth = 24

func summaryView(summary application.Summary, s styles) string {
	lines := []string{
		s.title.Render(fmt.Sprintf("Session Context: %s", summary.Project)),
		s.header.Render(fmt.Sprintf("sessions: %d · updated: %s", summary.SessionCount, orUnknown(summary.Updated))),
	}

	if summary.Current == nil {
		lines = append(lines, s.empty.Render("No session in progress."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	lines = append(lines, s.section.Render(currentSessionView(summary, s)))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func currentSessionView(summary application.Summary, s styles) string {
	current := summary.Current
	parts := []string{
		s.session.Render(fmt.Sprintf("%s: %s", current.ID, current.Goal)),
		detailLine(s, "started", orUnknown(current.Start)),
		detailLine(s, "decisions", fmt.Sprintf("%d", len(current.Decisions))),
		detailLine(s, "files", fmt.Sprintf("%d", len(current.Files))),
		detailLine(s, "patterns", fmt.Sprintf("%d", len(current.Patterns))),
	}

	if open := openBlockers(summary); len(open) > 0 {
		parts = append(parts, s.warning.Render(fmt.Sprintf("blockers: %d open", len(open))))
		for _, blocker := range open {
			parts = append(parts, s.detail.Render(fmt.Sprintf("  %s: %s", blocker.ID, blocker.Desc)))
		}
	}

	if len(current.NextSteps) > 0 {
		parts = append(parts, s.label.Render("next:"))
		for _, step := range current.NextSteps {
			parts = append(parts, s.detail.Render("  - "+step))
		}
	}

	if len(current.KV) > 0 {
		keys := make([]string, 0, len(current.KV))
		for key := range current.KV {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		pairs := make([]string, 0, len(keys))
		for _, key := range keys {
			pairs = append(pairs, fmt.Sprintf("%s=%s", key, current.KV[key]))
		}
		parts = append(parts, s.meta.Render(strings.Join(pairs, " ")))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func openBlockers(summary application.Summary) []domain.Blocker {
	open := []domain.Blocker{}
	for _, blocker := range summary.Current.Blockers {
		if blocker.Status == domain.BlockerOpen {
			open = append(open, blocker)
		}
	}

	return open
}

func detailLine(s styles, label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, s.label.Render(label+": "), s.detail.Render(value))
}

func comparisonView(comparison application.Comparison, s styles) string {
	lines := []string{s.title.Render("Format comparison")}

	if len(comparison.Entries) == 0 {
		lines = append(lines, s.empty.Render("No context files found."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, entry := range comparison.Entries {
		lines = append(lines, comparisonLine(entry, s))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func comparisonLine(entry application.FormatEntry, s styles) string {
	label := s.label.Render(fmt.Sprintf("%-16s", entry.Label))
	size := s.detail.Render(fmt.Sprintf("%9s", formatBytes(entry.Bytes)))
	tokens := s.meta.Render(fmt.Sprintf("~%d tokens", entry.Tokens))
	bar := renderReductionBar(entry.Reduction, reductionBarWidth, s)
	reduction := s.detail.Render(fmt.Sprintf("%5.1f%% smaller", entry.Reduction))

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		label,
		" ",
		size,
		" ",
		bar,
		" ",
		reduction,
		" ",
		tokens,
	)
}

func benchView(report application.BenchReport, s styles) string {
	lines := []string{
		s.title.Render("Codec benchmark"),
		s.header.Render(fmt.Sprintf("sessions: %d · iterations: %d", report.Sessions, report.Iterations)),
	}

	for _, timing := range report.Timings {
		lines = append(lines, detailLine(s, timing.Label, fmt.Sprintf("%s avg", timing.Average)))
	}

	lines = append(lines, s.section.Render(comparisonView(report.Comparison, s)))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderReductionBar fills proportionally to the percent saved against the
// v1 baseline, so the baseline row shows an empty bar.
func renderReductionBar(reduction float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	fraction := clampPercent(reduction) / 100.0
	filled := int(math.Round(float64(width) * fraction))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}

	fillSegment := s.barFill.Render(strings.Repeat("=", filled))
	emptySegment := s.barEmpty.Render(strings.Repeat("-", width-filled))

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		fillSegment,
		emptySegment,
		s.barBracket.Render("]"),
	)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func formatBytes(size int64) string {
	if size < 1024 {
		return fmt.Sprintf("%d B", size)
	}

	return fmt.Sprintf("%.2f KB", float64(size)/1024)
}

func orUnknown(value string) string {
	if value == "" {
		return "unknown"
	}

	return value
}
