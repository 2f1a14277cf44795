package sentence

import (
	"strings"

	"github.com/revelaction/parlana/entity"
)

const (
	// Punct is the coarse POS of punctuation tokens.
	Punct = "PUNCT"

	// noFeats is the CoNLL-U placeholder for an empty feature string.
	noFeats = "_"
)

// Doc is an annotated component file: the sentences spliced into its
// segments, in document order.
type Doc struct {
	Id int `json:"id"`

	Title string `json:"title"`

	Labels []string `json:"labels,omitempty"`

	// blake3 hash of the source component file
	SourceHash string `json:"source_hash,omitempty"`

	Sentences []Sentence `json:"sentences"`
}

// Sentence is an ordered sequence of tokens plus the named entities over
// them, as returned by one annotation call.
type Sentence struct {
	// Id is the xml:id of the <s> element. Empty until the sentence is
	// spliced into a segment.
	Id string `json:"id,omitempty"`

	// SegmentId is the xml:id of the owning <seg>.
	SegmentId string `json:"seg,omitempty"`

	Tokens []Token `json:"tokens"`

	Entities []entity.Span `json:"entities,omitempty"`
}

// Token represents a word of the sentence, with POS and metadata.
type Token struct {
	// 1-based position in the sentence
	Id int `json:"id"`

	// Position of the syntactic head, 0 for the root.
	Head int `json:"head"`

	// Coarse (universal) POS tag
	Pos string `json:"pos"`

	// A string containing detailed (language specific) POS data
	Tag string `json:"tag"`

	// Morphological features, "Gender=Masc|Number=Sing", "_" or empty
	Feats string `json:"feats,omitempty"`

	Dep string `json:"dep"`

	// The unmodified word
	Text string `json:"text"`

	// The lemma of the word
	Lemma string `json:"lemma"`
}

// IsPunct reports whether the token is punctuation.
func (t Token) IsPunct() bool {
	return t.Pos == Punct
}

// IsRoot reports whether the token is the syntactic root of its sentence:
// the relation says so, or the head is 0 or the token itself.
func (t Token) IsRoot() bool {
	return strings.EqualFold(t.Dep, "root") || t.Head == 0 || t.Head == t.Id
}

// HasFeats reports whether the token carries morphological features.
func (t Token) HasFeats() bool {
	return t.Feats != "" && t.Feats != noFeats
}

// Msd returns the morphosyntactic descriptor: UPosTag=<pos> followed by
// |<feats> when there are features.
func (t Token) Msd() string {
	if !t.HasFeats() {
		return "UPosTag=" + t.Pos
	}
	return "UPosTag=" + t.Pos + "|" + t.Feats
}

// Text returns the surface forms of the sentence joined by spaces.
func (s Sentence) Text() string {
	words := make([]string, len(s.Tokens))
	for i, t := range s.Tokens {
		words[i] = t.Text
	}
	return strings.Join(words, " ")
}

// Lemmas returns the unique non empty lemmas of the sentence, in order of
// first appearance.
func (s Sentence) Lemmas() []string {
	seen := make(map[string]bool, len(s.Tokens))
	lemmas := []string{}
	for _, t := range s.Tokens {
		if t.Lemma == "" || seen[t.Lemma] {
			continue
		}
		seen[t.Lemma] = true
		lemmas = append(lemmas, t.Lemma)
	}
	return lemmas
}

// NumTokens returns the number of tokens over all sentences of the doc.
func (d Doc) NumTokens() int {
	n := 0
	for _, s := range d.Sentences {
		n += len(s.Tokens)
	}
	return n
}
