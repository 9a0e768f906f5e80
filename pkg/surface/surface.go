// Package surface defines output rendering for ninebox score results.
// Implementations handle different output targets: terminal, JSON, YAML.
package surface

import (
	"fmt"
	"io"

	"github.com/ninebox/ninebox/pkg/scoring"
)

// Renderer produces formatted output from score results.
type Renderer interface {
	// Render writes a single formatted score result to the writer.
	Render(w io.Writer, result *scoring.ScoreResult) error
	// RenderBatch writes several labelled results, preserving their order.
	RenderBatch(w io.Writer, items []Item) error
}

// Item is one labelled result of a batch run.
type Item struct {
	ID     string               `json:"id" yaml:"id"`
	Result *scoring.ScoreResult `json:"result" yaml:"result"`
}

// view adds the human-readable category labels to a result for the
// structured encoders.
type view struct {
	scoring.ScoreResult `yaml:",inline"`
	PerformanceLabel    string `json:"performance_label" yaml:"performance_label"`
	PotentialLabel      string `json:"potential_label" yaml:"potential_label"`
}

func newView(result *scoring.ScoreResult) view {
	return view{
		ScoreResult:      *result,
		PerformanceLabel: scoring.PerformanceLabel(result.PerformanceCategory),
		PotentialLabel:   scoring.PotentialLabel(result.PotentialCategory),
	}
}

type itemView struct {
	ID     string `json:"id" yaml:"id"`
	Result view   `json:"result" yaml:"result"`
}

func newItemViews(items []Item) []itemView {
	out := make([]itemView, 0, len(items))
	for _, it := range items {
		out = append(out, itemView{ID: it.ID, Result: newView(it.Result)})
	}
	return out
}

// For returns the renderer for an output format name: text, json or yaml.
func For(format string) (Renderer, error) {
	switch format {
	case "", "text":
		return &TerminalRenderer{}, nil
	case "json":
		return &JSONRenderer{}, nil
	case "yaml", "yml":
		return &YAMLRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
	}
}
