// Package shell is an interactive annotation prompt: every line entered is
// annotated as one segment and printed back.
package shell

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/c-bata/go-prompt"

	"github.com/revelaction/parlana/annotate"
	"github.com/revelaction/parlana/ident"
	"github.com/revelaction/parlana/render"
	"github.com/revelaction/parlana/tei"
)

const (
	FormatTEI    = "tei"
	FormatText   = "text"
	FormatTokens = "tokens"
	FormatJSON   = "json"

	// commandPrefix starts a shell command, like :format json
	commandPrefix = ":"

	docID = "shell"
)

var formats = []string{FormatTEI, FormatText, FormatTokens, FormatJSON}

type Handler struct {
	Splicer  *annotate.Splicer
	Renderer *render.Renderer
	Out      io.Writer
	Format   string

	seq *ident.Sequencer
}

func NewHandler(s *annotate.Splicer, r *render.Renderer, out io.Writer) *Handler {
	r.Out = out
	return &Handler{
		Splicer:  s,
		Renderer: r,
		Out:      out,
		Format:   FormatTEI,
		seq:      ident.NewSequencer(docID),
	}
}

// Formats returns the supported output formats.
func Formats() []string {
	return formats
}

// NextFormat cycles through the output formats.
func (h *Handler) NextFormat() {
	for i, f := range formats {
		if f == h.Format {
			h.Format = formats[(i+1)%len(formats)]
			return
		}
	}
	h.Format = formats[0]
}

func (h *Handler) Run(ctx context.Context) error {
	fmt.Fprintln(h.Out, "🔑 Ctrl+F: next format, :format <name>, 🔧 quit")

	history := []string{}

	for {
		in := prompt.Input("      🔖 ", h.completer,
			prompt.OptionTitle("parlana shell"),
			prompt.OptionPrefixTextColor(prompt.Yellow),
			prompt.OptionPreviewSuggestionTextColor(prompt.Blue),
			prompt.OptionSelectedSuggestionBGColor(prompt.LightGray),
			prompt.OptionSuggestionBGColor(prompt.DarkGray),
			prompt.OptionHistory(history),
			prompt.OptionAddKeyBind(prompt.KeyBind{
				Key: prompt.ControlF,
				Fn: func(buf *prompt.Buffer) {
					h.NextFormat()
					fmt.Fprintln(h.Out, "Format set to: "+h.Format)
				}}),
		)

		in = strings.TrimSpace(in)
		if in == "quit" {
			return nil
		}
		if in == "" {
			continue
		}

		history = append(history, in)

		if err := h.Eval(ctx, in); err != nil {
			fmt.Fprintf(h.Out, "❌ %v\n", err)
		}

		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

// Eval annotates one line and writes the result in the current format. A
// line starting with <seg is parsed as a segment with inline markup.
func (h *Handler) Eval(ctx context.Context, line string) error {
	if strings.HasPrefix(line, commandPrefix) {
		return h.command(strings.TrimPrefix(line, commandPrefix))
	}

	seg, err := h.segment(line)
	if err != nil {
		return err
	}

	h.seq.NextUtterance()
	res, err := h.Splicer.Splice(ctx, seg, h.seq)
	if err != nil {
		return err
	}

	switch h.Format {
	case FormatText:
		for _, s := range res.Sentences {
			h.Renderer.Sentence(s, fmt.Sprintf("✍  %s ", s.Id))
		}
	case FormatTokens:
		for _, s := range res.Sentences {
			h.Renderer.Sentence(s, fmt.Sprintf("✍  %s ", s.Id))
			h.Renderer.Tokens(s)
		}
	case FormatJSON:
		if err := render.NewJSONRenderer(h.Out).Render(res.Sentences); err != nil {
			return err
		}
	default:
		if err := tei.WriteNode(h.Out, seg, "  "); err != nil {
			return err
		}
		fmt.Fprintln(h.Out)
	}

	for _, w := range res.Warnings {
		fmt.Fprintf(h.Out, "⚠  %s\n", w)
	}

	return nil
}

func (h *Handler) command(cmd string) error {
	fields := strings.Fields(cmd)
	if len(fields) == 2 && fields[0] == "format" {
		for _, f := range formats {
			if f == fields[1] {
				h.Format = f
				fmt.Fprintln(h.Out, "Format set to: "+h.Format)
				return nil
			}
		}
		return fmt.Errorf("unknown format %q, allowed values are %s", fields[1], strings.Join(formats, ", "))
	}

	return fmt.Errorf("unknown command %q", cmd)
}

func (h *Handler) segment(line string) (*xmlquery.Node, error) {
	if strings.HasPrefix(line, "<seg") {
		doc, err := tei.Parse(strings.NewReader(line))
		if err != nil {
			return nil, err
		}
		return doc.Root(), nil
	}

	seg := tei.NewElement("seg")
	xmlquery.AddChild(seg, &xmlquery.Node{Type: xmlquery.TextNode, Data: line})
	return seg, nil
}

func (h *Handler) completer(in prompt.Document) []prompt.Suggest {
	s := []prompt.Suggest{}
	before := in.TextBeforeCursor()

	if !strings.HasPrefix(before, commandPrefix) {
		return s
	}

	if strings.HasPrefix(before, commandPrefix+"format ") {
		for _, f := range formats {
			s = append(s, prompt.Suggest{Text: f, Description: "output format"})
		}
		return prompt.FilterHasPrefix(s, in.GetWordBeforeCursor(), true)
	}

	s = append(s, prompt.Suggest{Text: commandPrefix + "format", Description: "set the output format"})
	return prompt.FilterHasPrefix(s, before, true)
}
