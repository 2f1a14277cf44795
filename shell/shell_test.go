package shell

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/c-bata/go-prompt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revelaction/parlana/annotate"
	"github.com/revelaction/parlana/entity"
	"github.com/revelaction/parlana/logging"
	"github.com/revelaction/parlana/render"
	sent "github.com/revelaction/parlana/sentence"
)

type echoAnnotator struct{}

// Annotate returns one sentence with one token per word; a capitalized first
// word is a person.
func (echoAnnotator) Annotate(_ context.Context, text string) ([]sent.Sentence, error) {
	var s sent.Sentence
	for i, w := range strings.Fields(text) {
		t := sent.Token{Id: i + 1, Text: w, Lemma: strings.ToLower(w), Pos: "NOUN", Head: 1, Dep: "dep"}
		if i == 0 {
			t.Head, t.Dep = 0, "root"
		}
		s.Tokens = append(s.Tokens, t)
	}
	if len(s.Tokens) > 0 && strings.ToUpper(s.Tokens[0].Text[:1]) == s.Tokens[0].Text[:1] {
		s.Entities = []entity.Span{{Label: "PERSON", Positions: []int{1}}}
	}
	return []sent.Sentence{s}, nil
}

func newHandler(out *bytes.Buffer) *Handler {
	splicer := annotate.NewSplicer(echoAnnotator{}, annotate.WithLogger(logging.Discard()))
	return NewHandler(splicer, render.NewRenderer(), out)
}

func TestEvalTEI(t *testing.T) {
	var out bytes.Buffer
	h := newHandler(&out)

	require.NoError(t, h.Eval(context.Background(), "Ion vorbește"))
	got := out.String()
	assert.True(t, strings.HasPrefix(got, `<seg xml:id="shell.u1.seg1">`), got)
	assert.Contains(t, got, `<s xml:id="shell.u1.seg1.1">`)
	assert.Contains(t, got, `<name type="PER">`)
	assert.Contains(t, got, `<linkGrp`)

	out.Reset()
	require.NoError(t, h.Eval(context.Background(), "a doua"))
	assert.Contains(t, out.String(), `xml:id="shell.u2.seg1"`)
}

func TestEvalInlineMarkup(t *testing.T) {
	var out bytes.Buffer
	h := newHandler(&out)

	require.NoError(t, h.Eval(context.Background(), `<seg>unu <note>(Aplauze)</note> doi</seg>`))
	assert.Contains(t, out.String(), `<note>(Aplauze)</note>`)
	assert.Equal(t, 2, strings.Count(out.String(), "<s "))
}

func TestEvalFormats(t *testing.T) {
	var out bytes.Buffer
	h := newHandler(&out)

	require.NoError(t, h.Eval(context.Background(), ":format text"))
	assert.Equal(t, FormatText, h.Format)

	out.Reset()
	require.NoError(t, h.Eval(context.Background(), "Ion vorbește"))
	assert.Equal(t, "✍  shell.u1.seg1.1 [PER Ion] vorbește\n", out.String())

	h.Format = FormatJSON
	out.Reset()
	require.NoError(t, h.Eval(context.Background(), "Ion vorbește"))
	var sentences []sent.Sentence
	require.NoError(t, json.Unmarshal(out.Bytes(), &sentences))
	require.Len(t, sentences, 1)
	assert.Equal(t, "shell.u2.seg1.1", sentences[0].Id)

	h.Format = FormatTokens
	out.Reset()
	require.NoError(t, h.Eval(context.Background(), "Ion vorbește"))
	assert.Contains(t, out.String(), `"vorbește"`)

	assert.Error(t, h.Eval(context.Background(), ":format yaml"))
	assert.Error(t, h.Eval(context.Background(), ":quit"))
}

func TestNextFormat(t *testing.T) {
	var out bytes.Buffer
	h := newHandler(&out)

	var seen []string
	for range Formats() {
		seen = append(seen, h.Format)
		h.NextFormat()
	}
	assert.Equal(t, Formats(), seen)
	assert.Equal(t, FormatTEI, h.Format)
}

func TestCompleter(t *testing.T) {
	var out bytes.Buffer
	h := newHandler(&out)

	doc := func(text string) prompt.Document {
		buf := prompt.NewBuffer()
		buf.InsertText(text, false, true)
		return *buf.Document()
	}

	assert.Empty(t, h.completer(doc("Ion")))

	s := h.completer(doc(":fo"))
	require.Len(t, s, 1)
	assert.Equal(t, ":format", s[0].Text)

	s = h.completer(doc(":format j"))
	require.Len(t, s, 1)
	assert.Equal(t, FormatJSON, s[0].Text)
}
