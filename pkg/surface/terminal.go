package surface

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ninebox/ninebox/pkg/scoring"
)

// TerminalRenderer renders results as styled terminal output.
// Styling is disabled when NO_COLOR is set.
type TerminalRenderer struct{}

func noColor() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

type palette struct {
	title   lipgloss.Style
	box     lipgloss.Style
	dim     lipgloss.Style
	warn    lipgloss.Style
	good    lipgloss.Style
	fair    lipgloss.Style
	poor    lipgloss.Style
	neutral lipgloss.Style
}

func newPalette() palette {
	if noColor() {
		plain := lipgloss.NewStyle()
		return palette{
			title: plain, box: plain, dim: plain, warn: plain,
			good: plain, fair: plain, poor: plain, neutral: plain,
		}
	}
	return palette{
		title:   lipgloss.NewStyle().Bold(true),
		box:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		dim:     lipgloss.NewStyle().Faint(true),
		warn:    lipgloss.NewStyle().Foreground(lipgloss.Color("11")), // yellow
		good:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")), // green
		fair:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")), // cyan
		poor:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),  // red
		neutral: lipgloss.NewStyle().Foreground(lipgloss.Color("7")),  // gray
	}
}

func (p palette) performance(category int) lipgloss.Style {
	switch category {
	case 2:
		return p.good
	case 1:
		return p.fair
	default:
		return p.poor
	}
}

func (p palette) potential(category int) lipgloss.Style {
	switch category {
	case 3:
		return p.good
	case 2:
		return p.fair
	case 1:
		return p.neutral
	default:
		return p.poor
	}
}

func (r *TerminalRenderer) Render(w io.Writer, result *scoring.ScoreResult) error {
	p := newPalette()
	perfLabel := scoring.PerformanceLabel(result.PerformanceCategory)
	potLabel := scoring.PotentialLabel(result.PotentialCategory)

	header := p.title.Render("Placement: ") +
		p.performance(result.PerformanceCategory).Render(perfLabel) + " / " +
		p.potential(result.PotentialCategory).Render(potLabel)
	fmt.Fprintln(w, p.box.Render(header))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%-12s %3d  %s\n", "Performance", result.PerformanceScore,
		p.dim.Render(fmt.Sprintf("category %d", result.PerformanceCategory)))
	fmt.Fprintf(w, "%-12s %3d  %s\n", "Potential", result.PotentialScore,
		p.dim.Render(fmt.Sprintf("category %d", result.PotentialCategory)))

	if len(result.Breakdown) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, p.title.Render("Breakdown"))
		nameWidth := 0
		for _, rr := range result.Breakdown {
			nameWidth = max(nameWidth, len(rr.Name))
		}
		for _, rr := range result.Breakdown {
			answer := rr.Answer
			if answer == "" {
				answer = "-"
			}
			line := fmt.Sprintf("  %-11s %-*s  %6s  %+d", rr.Axis, nameWidth, rr.Name, answer, rr.Contribution)
			if rr.Contribution == 0 {
				line = p.dim.Render(line)
			}
			fmt.Fprintln(w, line)
		}
	}

	if len(result.Warnings) > 0 {
		fmt.Fprintln(w)
		for _, warning := range result.Warnings {
			fmt.Fprintln(w, p.warn.Render("! "+warning))
		}
	}
	return nil
}

func (r *TerminalRenderer) RenderBatch(w io.Writer, items []Item) error {
	p := newPalette()
	for i, it := range items {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, p.title.Render(it.ID))
		fmt.Fprintln(w, p.dim.Render(strings.Repeat("-", max(len(it.ID), 3))))
		if err := r.Render(w, it.Result); err != nil {
			return err
		}
	}
	return nil
}
