package corpus

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/revelaction/parlana/annotate"
	"github.com/revelaction/parlana/ident"
	sent "github.com/revelaction/parlana/sentence"
	"github.com/revelaction/parlana/stat"
	"github.com/revelaction/parlana/tei"
)

const (
	SampleTag    = "[ParlaMint SAMPLE]"
	SampleTagAna = "[ParlaMint.ana SAMPLE]"
)

// ComponentAnnotator annotates component files, writing name.ana.xml next
// to each name.xml.
type ComponentAnnotator struct {
	splicer *annotate.Splicer
	tags    []string
	logger  *slog.Logger
}

// Output describes one annotated component file.
type Output struct {
	// path of the annotated file
	Path string

	// the annotated sentences, titled with the annotated file id
	Doc sent.Doc

	Warnings []annotate.Warning

	Stats stat.Stats
}

func NewComponentAnnotator(splicer *annotate.Splicer, tags []string, logger *slog.Logger) *ComponentAnnotator {
	if len(tags) == 0 {
		tags = stat.DefaultTags
	}
	return &ComponentAnnotator{splicer: splicer, tags: tags, logger: logger}
}

// Annotate splices every segment of the component file at path and saves
// the result to its .ana.xml path. Nothing is written on error.
func (c *ComponentAnnotator) Annotate(ctx context.Context, path string) (Output, error) {
	doc, err := tei.Load(path)
	if err != nil {
		return Output{}, err
	}

	out := tei.AnaPath(path)
	anaID := tei.Stem(out)
	logger := c.logger.With("file", path)
	logger.Info("annotating file")

	docID := doc.ID()
	if docID == "" {
		docID = tei.BareName(path)
	}

	seq := ident.NewSequencer(docID)
	for _, id := range ClaimIDs(doc.Root(), seq) {
		logger.Warn("duplicate id in source", "id", id)
	}
	if n := AssignIDs(doc.Root(), seq); n > 0 {
		logger.Info("assigned missing ids", "count", n)
	}

	tei.SetID(doc.Root(), anaID)
	UpdateTitle(doc.Root())

	var result annotate.Result
	for _, seg := range tei.Elements(doc.Root(), "seg") {
		if err := ctx.Err(); err != nil {
			return Output{}, err
		}

		r, err := c.splicer.Splice(ctx, seg, seq)
		if err != nil {
			return Output{}, fmt.Errorf("%s: %w", path, err)
		}
		result.Add(r)
	}

	h := stat.NewHandler()
	h.Aggregate(doc.Root())
	stats := h.Get()
	if !stat.UpdateTagUsage(doc.Root(), stats.Tags, c.tags) {
		logger.Debug("no tagUsage declarations")
	}

	if err := doc.Save(out); err != nil {
		return Output{}, err
	}

	for _, w := range result.Warnings {
		logger.Warn(w.Kind.String(), "value", w.Value, "segment", w.Segment)
	}
	logger.Info("file annotated", "output", out, "sentences", len(result.Sentences), "warnings", len(result.Warnings))

	return Output{
		Path:     out,
		Doc:      sent.Doc{Title: anaID, Sentences: result.Sentences},
		Warnings: result.Warnings,
		Stats:    stats,
	}, nil
}

// UpdateTitle marks the main titles of the header as annotated:
// [ParlaMint SAMPLE] becomes [ParlaMint.ana SAMPLE].
func UpdateTitle(root *xmlquery.Node) {
	stmt := tei.First(root, "titleStmt")
	if stmt == nil {
		return
	}

	for _, title := range tei.Elements(stmt, "title") {
		if tei.Attr(title, "type") != "main" {
			continue
		}
		for c := title.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == xmlquery.TextNode {
				c.Data = strings.ReplaceAll(c.Data, SampleTag, SampleTagAna)
			}
		}
	}
}
