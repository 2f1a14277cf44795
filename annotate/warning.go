package annotate

import (
	"fmt"

	sent "github.com/revelaction/parlana/sentence"
)

// Kind classifies a data-integrity anomaly found while splicing. Anomalies
// do not stop the annotation.
type Kind int

const (
	// DuplicateID: a generated xml:id was already in use in the document.
	DuplicateID Kind = iota + 1

	// UnknownEntityLabel: the engine returned an entity label missing from
	// the label table. The entity is typed MISC.
	UnknownEntityLabel
)

func (k Kind) String() string {
	switch k {
	case DuplicateID:
		return "duplicate id"
	case UnknownEntityLabel:
		return "unknown entity label"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

type Warning struct {
	Kind Kind

	// the offending id or label
	Value string

	// xml:id of the segment being spliced
	Segment string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s %q in segment %s", w.Kind, w.Value, w.Segment)
}

// Result is what splicing produced besides the tree changes.
type Result struct {
	// Sentences in document order, with their Id and SegmentId set.
	Sentences []sent.Sentence

	Warnings []Warning
}

// Add appends the contents of r2 to r.
func (r *Result) Add(r2 Result) {
	r.Sentences = append(r.Sentences, r2.Sentences...)
	r.Warnings = append(r.Warnings, r2.Warnings...)
}
