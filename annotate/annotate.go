// Package annotate splices the output of the NLP engine into TEI segments.
//
// A <seg> holds text interleaved with inline markup (notes, vocal events,
// gaps). Splicing annotates each text run and rebuilds the children of the
// segment as the resulting <s> subtrees interleaved with the original
// markup, in the original order:
//
//	<seg>A <note>X</note> B</seg>
//
// becomes
//
//	<seg><s>..A..</s><note>X</note><s>..B..</s></seg>
package annotate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/revelaction/parlana/entity"
	"github.com/revelaction/parlana/ident"
	sent "github.com/revelaction/parlana/sentence"
	"github.com/revelaction/parlana/tei"
)

// Annotator returns the sentences of a text. nlp.Annotator implements it.
type Annotator interface {
	Annotate(ctx context.Context, text string) ([]sent.Sentence, error)
}

type Splicer struct {
	annotator Annotator
	mapper    *entity.Mapper
	logger    *slog.Logger
}

func NewSplicer(a Annotator, opts ...Option) *Splicer {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Splicer{
		annotator: a,
		mapper:    cfg.mapper,
		logger:    cfg.logger,
	}
}

// Splice annotates the text of seg and replaces its children with sentences
// and the original non text children. New ids are taken from seq, which
// must belong to the document of seg. A seg without xml:id gets the next
// segment id of seq.
//
// Blank text runs are dropped without calling the annotator. On error seg
// is left unchanged.
func (s *Splicer) Splice(ctx context.Context, seg *xmlquery.Node, seq *ident.Sequencer) (Result, error) {
	segID := tei.ID(seg)
	assign := segID == ""
	if assign {
		segID = seq.NextSegment()
		seq.Claim(segID)
	}

	b := &builder{
		seq:    seq,
		mapper: s.mapper,
		logger: s.logger,
		segID:  segID,
	}

	var pending []*xmlquery.Node
	var run strings.Builder

	flush := func() error {
		text := strings.TrimSpace(run.String())
		run.Reset()
		if text == "" {
			return nil
		}

		sentences, err := s.annotator.Annotate(ctx, text)
		if err != nil {
			return fmt.Errorf("segment %s: %w", segID, err)
		}

		for _, st := range sentences {
			pending = append(pending, b.sentence(st))
		}
		return nil
	}

	for c := seg.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case xmlquery.TextNode, xmlquery.CharDataNode:
			run.WriteString(c.Data)
			continue
		}

		if err := flush(); err != nil {
			return Result{}, err
		}
		pending = append(pending, c)
	}

	if err := flush(); err != nil {
		return Result{}, err
	}

	if assign {
		tei.SetID(seg, segID)
	}
	tei.SetChildren(seg, pending)

	s.logger.Debug("segment spliced", "segment", segID, "sentences", len(b.result.Sentences))
	return b.result, nil
}
