package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/revelaction/parlana/entity"
	sent "github.com/revelaction/parlana/sentence"
)

var (
	Red       = "\033[1;31m"
	Teal      = "\033[1;36m"
	Off       = "\033[0m"
	Yellow256 = "\033[1;38;5;130m"
	Grey256   = "\033[1;38;5;145m"
	Green256  = "\033[1;38;5;70m"
)

// attached is the punctuation written without a space before it.
const attached = ".,;:!?)]}»”…"

type Renderer struct {
	HasColor bool

	Out io.Writer

	// maps entity labels to the codes shown in brackets
	Mapper *entity.Mapper
}

func NewRenderer() *Renderer {
	return &Renderer{Out: os.Stdout, Mapper: entity.NewMapper(nil)}
}

// Sentence writes the text of s on one line.
func (r *Renderer) Sentence(s sent.Sentence, prefix string) {
	fmt.Fprintf(r.Out, "%s%s\n", prefix, r.SentenceString(s))
}

// SentenceString returns the tokens of s joined by spaces, named entities
// bracketed with their code:
//
//	[ORG Guvernul României] a aprobat .
func (r *Renderer) SentenceString(s sent.Sentence) string {
	idx := entity.NewIndex(s.Entities)

	var str strings.Builder
	open := -1
	for i, token := range s.Tokens {
		span, ord, inSpan := idx.Lookup(token.Id)

		if open >= 0 && (!inSpan || ord != open) {
			str.WriteString(r.color("]", Yellow256))
			open = -1
		}

		if i > 0 && !(token.IsPunct() && strings.Contains(attached, token.Text) && open < 0) {
			str.WriteString(" ")
		}

		if inSpan && open < 0 {
			code, _ := r.Mapper.Code(span.Label)
			str.WriteString(r.color("["+code, Yellow256) + " ")
			open = ord
		}

		if inSpan {
			str.WriteString(r.color(token.Text, Green256))
		} else {
			str.WriteString(token.Text)
		}
	}

	if open >= 0 {
		str.WriteString(r.color("]", Yellow256))
	}

	return strings.ReplaceAll(str.String(), "\n", " ")
}

// Doc writes every sentence of doc, prefixed with the document title and
// the sentence id.
func (r *Renderer) Doc(doc sent.Doc) {
	for _, s := range doc.Sentences {
		r.Sentence(s, fmt.Sprintf("[%s %s] ", r.title(doc.Title), s.Id))
	}
}

// Tokens writes one line per token of s with its annotation.
func (r *Renderer) Tokens(s sent.Sentence) {
	fmt.Fprintf(r.Out, "%20s %15s %8s %8s %6s %6s %8s %s\n", "text", "lemma", "pos", "tag", "id", "head", "dep", "feats")
	for _, t := range s.Tokens {
		fmt.Fprintf(r.Out, "%20q %15q %8s %8s %6d %6d %8s %s\n", t.Text, t.Lemma, t.Pos, t.Tag, t.Id, t.Head, t.Dep, t.Feats)
	}
}

func (r *Renderer) color(text, color string) string {
	if !r.HasColor {
		return text
	}
	return color + text + Off
}

func (r *Renderer) title(title string) string {
	var part string
	if len([]rune(title)) <= 20 {
		part = fmt.Sprintf("%-20s", title)
	} else {
		part = string([]rune(title)[:20])
	}

	return r.color(part, Grey256)
}
