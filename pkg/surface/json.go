package surface

import (
	"encoding/json"
	"io"

	"github.com/ninebox/ninebox/pkg/scoring"
)

// JSONRenderer marshals results to indented JSON.
type JSONRenderer struct{}

func (r *JSONRenderer) Render(w io.Writer, result *scoring.ScoreResult) error {
	return encodeJSON(w, newView(result))
}

func (r *JSONRenderer) RenderBatch(w io.Writer, items []Item) error {
	return encodeJSON(w, newItemViews(items))
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
