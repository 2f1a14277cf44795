package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/parlana/config"
	"github.com/revelaction/parlana/corpus"
	"github.com/revelaction/parlana/storage"
)

type FileOptions struct {
	StorePath string
}

func fileCmd(ui UI) *cli.Command {
	return &cli.Command{
		Name:      "file",
		Usage:     "annotate one component file into <name>.ana.xml",
		ArgsUsage: "<component.xml>",
		Flags: []cli.Flag{
			storeFlag(),
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return errors.New("file command needs exactly one argument: <component.xml>")
			}

			cfg, logger, err := setup(c, ui)
			if err != nil {
				return err
			}

			opts := FileOptions{StorePath: cfg.Store.Path}
			if v := c.String("store"); v != "" {
				opts.StorePath = v
			}

			return fileCommand(c.Context, c.Args().First(), opts, cfg, logger, ui)
		},
	}
}

func fileCommand(ctx context.Context, path string, opts FileOptions, cfg config.Config, logger *slog.Logger, ui UI) error {
	engine, closeEngine, err := newEngine(cfg.Engine)
	if err != nil {
		return err
	}
	defer closeEngine()

	var repo storage.DocRepository
	pool := &Pool{}
	defer pool.Close()
	if opts.StorePath != "" {
		repo, err = NewDocRepository(pool, opts.StorePath, true)
		if err != nil {
			return err
		}
	}

	annotator := corpus.NewComponentAnnotator(newSplicer(engine, cfg, logger), cfg.Corpus.Tags, logger)
	res := annotateFile(ctx, path, annotator, repo, false, logger)
	if res.err != nil {
		return res.err
	}

	fmt.Fprintf(ui.Out, "✅ %s (%d warnings)\n", res.path, res.warnings)
	return nil
}
