package surface

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/ninebox/ninebox/pkg/scoring"
)

// YAMLRenderer marshals results to YAML.
type YAMLRenderer struct{}

func (r *YAMLRenderer) Render(w io.Writer, result *scoring.ScoreResult) error {
	return encodeYAML(w, newView(result))
}

func (r *YAMLRenderer) RenderBatch(w io.Writer, items []Item) error {
	return encodeYAML(w, newItemViews(items))
}

func encodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
