// Package nlp is the boundary to the external NLP engine. An Engine turns
// plain text into CoNLL-U; the Annotator decodes it into sentence records.
// Nothing of the engine output crosses the Annotator except
// sentence.Sentence values.
package nlp

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/revelaction/parlana/conllu"
	sent "github.com/revelaction/parlana/sentence"
)

// Engine performs sentence segmentation, tokenization, lemmatization,
// tagging, parsing and (optionally) named entity recognition of text in one
// call, returning CoNLL-U.
//
// Engines are built once per process and shared by all documents; they must
// be safe for concurrent use.
type Engine interface {
	Parse(ctx context.Context, text string) ([]byte, error)
}

type Annotator struct {
	engine Engine
	logger *slog.Logger
}

func NewAnnotator(engine Engine, opts ...Option) *Annotator {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Annotator{engine: engine, logger: cfg.logger}
}

// Annotate returns the sentences of text. Blank text yields no sentences and
// no engine call. Engine failures are returned wrapped in ErrEngine.
func (a *Annotator) Annotate(ctx context.Context, text string) ([]sent.Sentence, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []sent.Sentence{}, nil
	}

	out, err := a.engine.Parse(ctx, text)
	if err != nil {
		a.logger.Error("engine call failed", "error", err, "chars", len(text))
		return nil, fmt.Errorf("%w: %w", ErrEngine, err)
	}

	sentences, err := conllu.Decode(bytes.NewReader(out))
	if err != nil {
		a.logger.Error("engine output could not be decoded", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrEngine, err)
	}

	a.logger.Debug("annotated", "chars", len(text), "sentences", len(sentences))
	return sentences, nil
}
