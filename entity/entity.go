// Package entity indexes the named-entity spans of one annotated sentence
// and maps engine entity labels to the codes used in TEI <name type="...">.
package entity

// Misc is the code given to entity labels missing from the label table.
const Misc = "MISC"

// DefaultLabels maps the labels emitted by the NLP engine to TEI name types.
var DefaultLabels = map[string]string{
	"PERSON":       "PER",
	"ORGANIZATION": "ORG",
	"LOC":          "LOC",
	"GPE":          "LOC",
}

// Span is a labelled named entity over token positions of one sentence.
// Positions are 1-based, in the same numbering as sentence.Token.Id.
type Span struct {
	Label     string `json:"label"`
	Positions []int  `json:"positions"`
}

// Index answers which span, if any, a token position belongs to.
type Index struct {
	spans []Span

	// position -> ordinal of the span in spans
	byPos map[int]int
}

// NewIndex builds the index. When spans overlap the last one wins.
func NewIndex(spans []Span) *Index {
	n := 0
	for _, sp := range spans {
		n += len(sp.Positions)
	}

	idx := &Index{spans: spans, byPos: make(map[int]int, n)}
	for i, sp := range spans {
		for _, pos := range sp.Positions {
			idx.byPos[pos] = i
		}
	}

	return idx
}

// Lookup returns the span covering pos and its ordinal in the input list.
// Two tokens belong to the same span exactly when their ordinals are equal.
func (x *Index) Lookup(pos int) (Span, int, bool) {
	i, ok := x.byPos[pos]
	if !ok {
		return Span{}, -1, false
	}
	return x.spans[i], i, true
}

// Len returns the number of spans.
func (x *Index) Len() int {
	return len(x.spans)
}

// Mapper maps engine labels to TEI name types.
type Mapper struct {
	labels map[string]string
}

// NewMapper returns a Mapper over DefaultLabels, extended (or overridden) by
// the given labels.
func NewMapper(overrides map[string]string) *Mapper {
	labels := make(map[string]string, len(DefaultLabels)+len(overrides))
	for k, v := range DefaultLabels {
		labels[k] = v
	}
	for k, v := range overrides {
		labels[k] = v
	}
	return &Mapper{labels: labels}
}

// Code returns the TEI name type for label. Unknown labels map to Misc and
// report false.
func (m *Mapper) Code(label string) (string, bool) {
	if code, ok := m.labels[label]; ok {
		return code, true
	}
	return Misc, false
}
