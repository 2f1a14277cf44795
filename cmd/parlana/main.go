package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/parlana/config"
	"github.com/revelaction/parlana/logging"
)

// UI contains the output streams for the application.
// Used for injecting buffers during testing.
type UI struct {
	Out io.Writer
	Err io.Writer
}

func main() {
	ui := UI{Out: os.Stdout, Err: os.Stderr}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args, ui); err != nil {
		fprintErr(ui.Err, err)
		stop()
		os.Exit(1)
	}
}

func fprintErr(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "parlana: %v\n", err)
}

func run(ctx context.Context, args []string, ui UI) error {
	return newApp(ui).RunContext(ctx, args)
}

func newApp(ui UI) *cli.App {
	return &cli.App{
		Name:      "parlana",
		Usage:     "splice linguistic annotation into ParlaMint TEI corpora",
		Version:   BuildTag,
		Writer:    ui.Out,
		ErrWriter: ui.Err,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "TOML configuration file",
				Value:   "parlana.toml",
				EnvVars: []string{"PARLANA_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "debug, info, warn or error",
				EnvVars: []string{"PARLANA_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "text or json",
				EnvVars: []string{"PARLANA_LOG_FORMAT"},
			},
		},
		Commands: []*cli.Command{
			annotateCmd(ui),
			fileCmd(ui),
			idsCmd(ui),
			statsCmd(ui),
			shellCmd(ui),
			docCmd(ui),
			sentenceCmd(ui),
			versionCmd(ui),
		},
	}
}

// setup loads the configuration, applies the global flags over it and
// builds the logger. Logs go to ui.Err.
func setup(c *cli.Context, ui UI) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return cfg, nil, err
	}

	if v := c.String("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if v := c.String("log-format"); v != "" {
		cfg.Log.Format = v
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return cfg, nil, err
	}
	format, err := logging.ParseFormat(cfg.Log.Format)
	if err != nil {
		return cfg, nil, err
	}

	return cfg, logging.New(ui.Err, level, format), nil
}
