package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/gosuri/uiprogress"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/revelaction/parlana/config"
	"github.com/revelaction/parlana/corpus"
	"github.com/revelaction/parlana/logging"
	"github.com/revelaction/parlana/stat"
	"github.com/revelaction/parlana/storage"
	"github.com/revelaction/parlana/tei"
)

type AnnotateOptions struct {
	CorpusDir   string
	RootFile    string
	StorePath   string
	Jobs        int
	KeepGoing   bool
	Incremental bool
	NoProgress  bool
}

// fileResult is the outcome of one component file.
type fileResult struct {
	path     string
	counts   map[string]int
	warnings int
	skipped  bool
	err      error
}

func annotateCmd(ui UI) *cli.Command {
	return &cli.Command{
		Name:  "annotate",
		Usage: "annotate every component file of a corpus and build the annotated root file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "corpus-dir", Aliases: []string{"d"}, Usage: "corpus directory", EnvVars: []string{"PARLANA_CORPUS_DIR"}},
			&cli.StringFlag{Name: "root-file", Aliases: []string{"r"}, Usage: "name of the corpus root file"},
			&cli.StringFlag{Name: "store", Aliases: []string{"s"}, Usage: "sentence store: directory or sqlite file", EnvVars: []string{"PARLANA_STORE"}},
			&cli.IntFlag{Name: "jobs", Aliases: []string{"j"}, Usage: "files annotated in parallel", Value: 1},
			&cli.BoolFlag{Name: "keep-going", Aliases: []string{"k"}, Usage: "continue with the next file when one fails"},
			&cli.BoolFlag{Name: "incremental", Aliases: []string{"i"}, Usage: "skip files unchanged since they were stored"},
			&cli.BoolFlag{Name: "no-progress", Usage: "do not show the progress bar"},
		},
		Action: func(c *cli.Context) error {
			cfg, logger, err := setup(c, ui)
			if err != nil {
				return err
			}

			opts := AnnotateOptions{
				CorpusDir:   cfg.Corpus.Dir,
				RootFile:    cfg.Corpus.RootFile,
				StorePath:   cfg.Store.Path,
				Jobs:        c.Int("jobs"),
				KeepGoing:   c.Bool("keep-going"),
				Incremental: c.Bool("incremental"),
				NoProgress:  c.Bool("no-progress"),
			}
			if v := c.String("corpus-dir"); v != "" {
				opts.CorpusDir = v
			}
			if v := c.String("root-file"); v != "" {
				opts.RootFile = v
			}
			if v := c.String("store"); v != "" {
				opts.StorePath = v
			}

			return annotateCommand(c.Context, opts, cfg, logger, ui)
		},
	}
}

func annotateCommand(ctx context.Context, opts AnnotateOptions, cfg config.Config, logger *slog.Logger, ui UI) error {
	if opts.Incremental && opts.StorePath == "" {
		return errors.New("--incremental needs a sentence store (--store)")
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	logger, runID := logging.WithRunID(logger)

	if err := copyTaxonomies(opts.CorpusDir, cfg.Corpus.TaxonomySources, logger); err != nil {
		return err
	}

	it := corpus.NewIterator(opts.CorpusDir, opts.RootFile, cfg.Corpus.Taxonomies)
	files, err := it.ComponentFiles()
	if err != nil {
		return err
	}
	logger.Info("annotating corpus", "dir", opts.CorpusDir, "files", len(files), "jobs", jobs)

	var repo storage.DocRepository
	pool := &Pool{}
	defer pool.Close()
	if opts.StorePath != "" {
		repo, err = NewDocRepository(pool, opts.StorePath, true)
		if err != nil {
			return err
		}
	}

	engine, closeEngine, err := newEngine(cfg.Engine)
	if err != nil {
		return err
	}
	defer closeEngine()

	annotator := corpus.NewComponentAnnotator(newSplicer(engine, cfg, logger), cfg.Corpus.Tags, logger)

	root, err := corpus.NewRootBuilder(it.RootFile(), it.AnnotatedRootFile(), baseNames(cfg.Corpus.TaxonomySources), applications(cfg))
	if err != nil {
		return err
	}
	root.SetTags(cfg.Corpus.Tags)

	var bar *uiprogress.Bar
	if !opts.NoProgress && len(files) > 0 {
		progress := uiprogress.New()
		progress.SetOut(ui.Err)
		progress.Start()
		defer progress.Stop()

		bar = progress.AddBar(len(files))
		bar.AppendCompleted()
		bar.PrependElapsed()
	}

	results := make([]fileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			res := annotateFile(gctx, path, annotator, repo, opts.Incremental, logger)
			results[i] = res
			if bar != nil {
				bar.Incr()
			}

			if res.err == nil {
				return nil
			}
			if opts.KeepGoing && !errors.Is(res.err, context.Canceled) {
				logger.Error("file failed", "file", path, "err", res.err)
				return nil
			}
			return res.err
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	var annotated, skipped, failed, warnings int
	for _, res := range results {
		if res.err != nil {
			failed++
			continue
		}
		if res.skipped {
			skipped++
		} else {
			annotated++
		}
		warnings += res.warnings

		if err := root.AddComponent(res.path, res.counts); err != nil {
			return err
		}
	}

	if err := root.Save(); err != nil {
		return err
	}

	fmt.Fprintf(ui.Out, "✅ %d annotated, %d unchanged, %d failed, %d warnings, root %s (run %s)\n",
		annotated, skipped, failed, warnings, it.AnnotatedRootFile(), runID)

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}
	return nil
}

// annotateFile annotates one component file and stores its sentences. With
// incremental, a file whose hash matches the stored one and whose annotated
// file exists is skipped.
func annotateFile(ctx context.Context, path string, a *corpus.ComponentAnnotator, repo storage.DocRepository, incremental bool, logger *slog.Logger) fileResult {
	anaPath := tei.AnaPath(path)

	var hash string
	if repo != nil {
		h, err := storage.HashFile(path)
		if err != nil {
			return fileResult{path: anaPath, err: err}
		}
		hash = h
	}

	if incremental {
		if counts, ok := unchanged(anaPath, hash, repo); ok {
			logger.Info("file unchanged", "file", path)
			return fileResult{path: anaPath, counts: counts, skipped: true}
		}
	}

	out, err := a.Annotate(ctx, path)
	if err != nil {
		return fileResult{path: anaPath, err: err}
	}

	if repo != nil {
		out.Doc.SourceHash = hash
		if err := repo.Write(out.Doc); err != nil {
			return fileResult{path: anaPath, err: fmt.Errorf("storing %s: %w", out.Doc.Title, err)}
		}
	}

	return fileResult{path: out.Path, counts: out.Stats.Tags, warnings: len(out.Warnings)}
}

// unchanged returns the tag usage of the annotated file at anaPath if it
// was built from a source with the given hash.
func unchanged(anaPath, hash string, repo storage.DocReader) (map[string]int, bool) {
	stored, err := repo.SourceHash(tei.Stem(anaPath))
	if err != nil || stored != hash {
		return nil, false
	}

	doc, err := tei.Load(anaPath)
	if err != nil {
		return nil, false
	}

	return stat.TagUsage(doc.Root()), true
}

// copyTaxonomies copies the taxonomy files into the corpus directory.
// Missing sources are logged and skipped.
func copyTaxonomies(dir string, sources []string, logger *slog.Logger) error {
	var files []string
	for _, src := range sources {
		if _, err := os.Stat(src); err != nil {
			logger.Warn("taxonomy file not found", "file", src)
			continue
		}
		files = append(files, src)
	}

	return corpus.CopyFiles(dir, files)
}

func baseNames(paths []string) []string {
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	return names
}
