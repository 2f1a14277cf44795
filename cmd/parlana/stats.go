package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/parlana/stat"
	"github.com/revelaction/parlana/tei"
)

type StatsOptions struct {
	Write bool
	Tags  []string
}

func statsCmd(ui UI) *cli.Command {
	return &cli.Command{
		Name:      "stats",
		Usage:     "count the elements of an annotated file",
		ArgsUsage: "<file.ana.xml>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "write", Aliases: []string{"w"}, Usage: "update the tagUsage declarations of the file"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return errors.New("stats command needs exactly one argument: <file.ana.xml>")
			}

			cfg, _, err := setup(c, ui)
			if err != nil {
				return err
			}

			opts := StatsOptions{Write: c.Bool("write"), Tags: cfg.Corpus.Tags}
			return statsCommand(c.Args().First(), opts, ui)
		},
	}
}

func statsCommand(path string, opts StatsOptions, ui UI) error {
	doc, err := tei.Load(path)
	if err != nil {
		return err
	}

	hdl := stat.NewHandler()
	hdl.Aggregate(doc.Root())
	stats := hdl.Get()

	fmt.Fprintf(ui.Out, "Num sentences %d, num tokens per sentence %d\n", stats.NumSentences, stats.TokensPerSentenceMean)
	fmt.Fprintf(ui.Out, "Num tokens %d (words %d, punctuation %d), entities %d, links %d\n",
		stats.NumTokens, stats.NumWords, stats.NumPunct, stats.NumEntities, stats.NumLinks)

	tags := append([]string(nil), opts.Tags...)
	if len(tags) == 0 {
		tags = append(tags, stat.DefaultTags...)
	}
	sort.Strings(tags)
	for _, tag := range tags {
		fmt.Fprintf(ui.Out, "%10s %8d\n", tag, stats.Tags[tag])
	}

	if !opts.Write {
		return nil
	}

	if !stat.UpdateTagUsage(doc.Root(), stats.Tags, tags) {
		return fmt.Errorf("%s declares no tagUsage", path)
	}
	return doc.Save(path)
}
