package render

import (
	"encoding/json"
	"io"

	sent "github.com/revelaction/parlana/sentence"
)

// JSONRenderer writes annotated sentences as JSON to a writer.
type JSONRenderer struct {
	W io.Writer
}

// NewJSONRenderer creates a JSONRenderer writing to w.
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{W: w}
}

// Render serializes the sentences as a JSON array.
func (r *JSONRenderer) Render(sentences []sent.Sentence) error {
	if sentences == nil {
		sentences = []sent.Sentence{}
	}
	return json.NewEncoder(r.W).Encode(sentences)
}
