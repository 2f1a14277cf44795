package main

import (
	"github.com/urfave/cli/v2"

	"github.com/revelaction/parlana/render"
	"github.com/revelaction/parlana/shell"
)

func shellCmd(ui UI) *cli.Command {
	return &cli.Command{
		Name:  "shell",
		Usage: "annotate lines typed at a prompt and print their TEI",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "no-color", Usage: "do not colour entities"},
		},
		Action: func(c *cli.Context) error {
			cfg, logger, err := setup(c, ui)
			if err != nil {
				return err
			}

			engine, closeEngine, err := newEngine(cfg.Engine)
			if err != nil {
				return err
			}
			defer closeEngine()

			r := render.NewRenderer()
			r.HasColor = !c.Bool("no-color")

			h := shell.NewHandler(newSplicer(engine, cfg, logger), r, ui.Out)
			return h.Run(c.Context)
		},
	}
}
