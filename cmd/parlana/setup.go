package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/revelaction/parlana/annotate"
	"github.com/revelaction/parlana/config"
	"github.com/revelaction/parlana/corpus"
	"github.com/revelaction/parlana/entity"
	"github.com/revelaction/parlana/nlp"
	"github.com/revelaction/parlana/storage"
	"github.com/revelaction/parlana/storage/filesystem"
	"github.com/revelaction/parlana/storage/sqlite/zombiezen"
)

// sqliteExts select the sqlite store for a path that does not exist yet.
var sqliteExts = []string{".db", ".sqlite", ".sqlite3"}

// NewDocRepository opens the sentence store at path: a directory of JSON
// files or a sqlite database. With create, a missing store is created.
func NewDocRepository(p *Pool, path string, create bool) (storage.DocRepository, error) {
	info, err := os.Stat(path)
	if err != nil {
		if !create || !os.IsNotExist(err) {
			return nil, fmt.Errorf("repository not found: %s", path)
		}
		if !isSqlitePath(path) {
			return filesystem.NewDocStore(path)
		}
	} else if info.IsDir() {
		return filesystem.NewDocStore(path)
	}

	pool, err := p.Open(path)
	if err != nil {
		return nil, err
	}
	return zombiezen.NewDocStore(pool), nil
}

func isSqlitePath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range sqliteExts {
		if ext == e {
			return true
		}
	}
	return false
}

// newEngine returns the configured NLP engine and a function releasing it.
func newEngine(cfg config.Engine) (nlp.Engine, func() error, error) {
	switch cfg.Kind {
	case config.EngineCommand:
		e := nlp.NewCommandEngine(cfg.Command, cfg.Args...)
		return e, e.Close, nil
	case config.EngineUDPipe:
		e := nlp.NewUDPipeEngine(nlp.UDPipeConfig{
			BaseURL:           cfg.URL,
			Model:             cfg.Model,
			RequestsPerSecond: cfg.RequestsPerSecond,
			Burst:             cfg.Burst,
			Timeout:           time.Duration(cfg.TimeoutSeconds) * time.Second,
		})
		return e, func() error { return nil }, nil
	}
	return nil, nil, fmt.Errorf("unknown engine kind %q", cfg.Kind)
}

func newSplicer(engine nlp.Engine, cfg config.Config, logger *slog.Logger) *annotate.Splicer {
	a := nlp.NewAnnotator(engine, nlp.WithLogger(logger))
	return annotate.NewSplicer(a,
		annotate.WithLogger(logger),
		annotate.WithMapper(entity.NewMapper(cfg.Entities)))
}

// applications returns the appInfo entries of the annotated root: the
// configured ones, or parlana and its engine.
func applications(cfg config.Config) []corpus.Application {
	if len(cfg.Corpus.Applications) > 0 {
		apps := make([]corpus.Application, len(cfg.Corpus.Applications))
		for i, a := range cfg.Corpus.Applications {
			apps[i] = corpus.Application(a)
		}
		return apps
	}

	apps := []corpus.Application{{
		Ident:   "app-parlana",
		Version: BuildTag,
		Label:   "parlana",
		Ref:     "https://github.com/revelaction/parlana",
		Desc:    "splices tokens, lemmas, morphosyntax, dependency links and named entities into ParlaMint segments.",
	}}

	switch cfg.Engine.Kind {
	case config.EngineUDPipe:
		apps = append(apps, corpus.Application{
			Ident:   "app-UDPipe",
			Version: "2",
			Label:   "UDPipe",
			Ref:     "https://lindat.mff.cuni.cz/services/udpipe/",
			Desc:    strings.TrimSpace("tokenizer, tagger, lemmatizer and dependency parser. " + cfg.Engine.Model),
		})
	case config.EngineCommand:
		name := filepath.Base(cfg.Engine.Command)
		apps = append(apps, corpus.Application{
			Ident: "app-" + name,
			Label: name,
			Desc:  "CoNLL-U annotation engine: " + strings.Join(append([]string{cfg.Engine.Command}, cfg.Engine.Args...), " "),
		})
	}

	return apps
}
