// Package report renders verdicts and source listings for the terminal.
package report

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/truthly/internal/ensemble"
	"github.com/abhisek/truthly/internal/news"
	"github.com/abhisek/truthly/internal/sources"
	"github.com/abhisek/truthly/internal/ui/theme"
)

// Verdict renders one aggregate verdict as a card.
func Verdict(title string, v news.AggregateVerdict) string {
	var lines []string
	if title != "" {
		lines = append(lines, theme.Title.Render(title), "")
	}

	lines = append(lines,
		row("Verdict", verdictStyle(v).Render(fmt.Sprintf("%s (%.1f%%)", v.Label, v.Confidence))),
		row("Real / Fake", theme.Body.Render(fmt.Sprintf("%.1f%% / %.1f%%", v.RealProbability, v.FakeProbability))),
		row("Mode", theme.Body.Render(v.Details.Mode)),
		row("Votes", theme.Body.Render(fmt.Sprintf("%d real, %d fake (consensus %.2f)",
			v.Details.RealVotes, v.Details.FakeVotes, v.Details.ConsensusRatio))),
	)
	if v.Summary != "" {
		lines = append(lines, "", theme.Body.Render(v.Summary))
	}

	if len(v.Contributing) > 0 {
		lines = append(lines, "", theme.Title.Render("Sources"))
		for _, p := range v.Contributing {
			lines = append(lines, fmt.Sprintf("  %s %s %s",
				labelStyle(p.Label).Render(string(p.Label)),
				theme.Body.Render(fmt.Sprintf("%-20s %5.1f%%", p.SourceID, p.Confidence)),
				theme.Muted.Render(clip(p.Reasoning, 80))))
		}
	}
	if len(v.Failed) > 0 {
		lines = append(lines, "", theme.Title.Render("Unavailable"))
		for _, f := range v.Failed {
			lines = append(lines, fmt.Sprintf("  %s %s",
				theme.Failed.Render(fmt.Sprintf("%-20s %-12s", f.SourceID, f.Kind)),
				theme.Muted.Render(clip(f.Detail, 80))))
		}
	}

	return theme.Card.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// Batch renders every item of a batch run.
func Batch(items []ensemble.BatchItem) string {
	var b strings.Builder
	ok := 0
	for _, it := range items {
		if it.Verdict == nil {
			b.WriteString(theme.Failed.Render(fmt.Sprintf("#%d %s: %s", it.Index+1, it.Title, it.Error)))
			b.WriteString("\n")
			continue
		}
		ok++
		b.WriteString(Verdict(fmt.Sprintf("#%d %s", it.Index+1, it.Title), *it.Verdict))
		b.WriteString("\n")
	}
	b.WriteString(theme.Hint.Render(fmt.Sprintf("%d of %d articles analyzed", ok, len(items))))
	return b.String()
}

// Sources renders the health listing of the configured ensemble.
func Sources(status []sources.Status) string {
	lines := []string{theme.Title.Render("Sources")}
	available := 0
	for _, s := range status {
		mark := theme.Trustworthy.Render("✓")
		reason := ""
		if s.Available {
			available++
		} else {
			mark = theme.Untrustworthy.Render("✗")
			reason = theme.Muted.Render(clip(s.Reason, 80))
		}
		lines = append(lines, fmt.Sprintf("  %s %s %s", mark,
			theme.Body.Render(fmt.Sprintf("%-20s %-10s", s.ID, s.Class)), reason))
	}
	lines = append(lines, "", theme.Hint.Render(fmt.Sprintf("%d of %d sources available", available, len(status))))
	return theme.Card.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, theme.Label.Render(label), value)
}

func verdictStyle(v news.AggregateVerdict) lipgloss.Style {
	switch {
	case v.Details.Mode == ensemble.ModeFallback:
		return theme.Degraded
	case v.Label.IsReal():
		return theme.Trustworthy
	default:
		return theme.Untrustworthy
	}
}

func labelStyle(l news.Label) lipgloss.Style {
	if l == news.LabelReal {
		return theme.Trustworthy
	}
	return theme.Untrustworthy
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
