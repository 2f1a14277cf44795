package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/parlana/render"
	"github.com/revelaction/parlana/storage"
)

func sentenceCmd(ui UI) *cli.Command {
	return &cli.Command{
		Name:      "sentence",
		Usage:     "show the tokens of a stored sentence",
		ArgsUsage: "<docId> <sentenceIndex>",
		Flags:     []cli.Flag{storeFlag()},
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return errors.New("sentence command needs exactly two arguments: <docId> <sentenceIndex>")
			}

			docID, err := strconv.Atoi(c.Args().Get(0))
			if err != nil {
				return fmt.Errorf("invalid docId: %v", err)
			}
			sentID, err := strconv.Atoi(c.Args().Get(1))
			if err != nil {
				return fmt.Errorf("invalid sentenceIndex: %v", err)
			}

			cfg, _, err := setup(c, ui)
			if err != nil {
				return err
			}

			path := cfg.Store.Path
			if v := c.String("store"); v != "" {
				path = v
			}
			if path == "" {
				return errors.New("store path must be specified via --store, PARLANA_STORE or the config file")
			}

			pool := &Pool{}
			defer pool.Close()
			repo, err := NewDocRepository(pool, path, false)
			if err != nil {
				return err
			}

			return sentenceCommand(repo, docID, sentID, ui)
		},
	}
}

func sentenceCommand(repo storage.DocReader, docID, sentID int, ui UI) error {
	doc, err := repo.Read(docID)
	if err != nil {
		return err
	}

	if sentID < 0 || sentID >= len(doc.Sentences) {
		return fmt.Errorf("sentence index %d out of bounds (0-%d)", sentID, len(doc.Sentences)-1)
	}

	s := doc.Sentences[sentID]
	r := render.NewRenderer()
	r.Out = ui.Out
	r.Sentence(s, fmt.Sprintf("✍  %d %s ", sentID, s.Id))
	fmt.Fprintln(ui.Out)
	r.Tokens(s)

	for _, sp := range s.Entities {
		code, _ := r.Mapper.Code(sp.Label)
		fmt.Fprintf(ui.Out, "%8s %-14s %v\n", code, sp.Label, sp.Positions)
	}

	return nil
}
