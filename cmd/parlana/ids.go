package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/parlana/corpus"
	"github.com/revelaction/parlana/ident"
	"github.com/revelaction/parlana/tei"
)

func idsCmd(ui UI) *cli.Command {
	return &cli.Command{
		Name:      "ids",
		Usage:     "give an xml:id to every utterance and segment lacking one",
		ArgsUsage: "<file.xml>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "write to this file instead of in place"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return errors.New("ids command needs exactly one argument: <file.xml>")
			}
			return idsCommand(c.Args().First(), c.String("output"), ui)
		},
	}
}

func idsCommand(path, output string, ui UI) error {
	doc, err := tei.Load(path)
	if err != nil {
		return err
	}

	docID := doc.ID()
	if docID == "" {
		docID = tei.BareName(path)
	}

	seq := ident.NewSequencer(docID)
	for _, id := range corpus.ClaimIDs(doc.Root(), seq) {
		fmt.Fprintf(ui.Err, "⚠  duplicate id %s\n", id)
	}

	n := corpus.AssignIDs(doc.Root(), seq)

	if output == "" {
		output = path
	}
	if err := doc.Save(output); err != nil {
		return err
	}

	fmt.Fprintf(ui.Out, "✅ %d ids assigned, %s\n", n, output)
	return nil
}
