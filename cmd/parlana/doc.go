package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/parlana/render"
	sent "github.com/revelaction/parlana/sentence"
	"github.com/revelaction/parlana/stat"
	"github.com/revelaction/parlana/storage"
)

type DocOptions struct {
	StorePath string
	Start     int
	Count     int
	JSON      bool
	Stats     bool
}

func storeFlag() cli.Flag {
	return &cli.StringFlag{Name: "store", Aliases: []string{"s"}, Usage: "sentence store: directory or sqlite file", EnvVars: []string{"PARLANA_STORE"}}
}

func docCmd(ui UI) *cli.Command {
	return &cli.Command{
		Name:      "doc",
		Usage:     "list the stored documents, or show the sentences of one",
		ArgsUsage: "[docId]",
		Flags: []cli.Flag{
			storeFlag(),
			&cli.IntFlag{Name: "start", Usage: "index of the first sentence to show"},
			&cli.IntFlag{Name: "n", Usage: "number of sentences to show (-1 for all)", Value: -1},
			&cli.BoolFlag{Name: "json", Usage: "write the sentences as JSON"},
			&cli.BoolFlag{Name: "stats", Usage: "print the sentence, token and entity counts of the document"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() > 1 {
				return errors.New("doc command accepts at most one argument")
			}

			cfg, _, err := setup(c, ui)
			if err != nil {
				return err
			}

			opts := DocOptions{StorePath: cfg.Store.Path, Start: c.Int("start"), Count: c.Int("n"), JSON: c.Bool("json"), Stats: c.Bool("stats")}
			if v := c.String("store"); v != "" {
				opts.StorePath = v
			}
			if opts.StorePath == "" {
				return errors.New("store path must be specified via --store, PARLANA_STORE or the config file")
			}

			pool := &Pool{}
			defer pool.Close()
			repo, err := NewDocRepository(pool, opts.StorePath, false)
			if err != nil {
				return err
			}

			return docCommand(repo, opts, c.Args().First(), ui)
		},
	}
}

func docCommand(repo storage.DocReader, opts DocOptions, arg string, ui UI) error {
	if arg == "" {
		return listDocs(repo, ui)
	}

	id, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("invalid docId %q", arg)
	}

	doc, err := repo.Read(id)
	if err != nil {
		return err
	}

	return renderDoc(doc, opts, ui)
}

func renderDoc(doc sent.Doc, opts DocOptions, ui UI) error {
	if opts.Stats {
		docStats(doc, ui)
		return nil
	}

	start := opts.Start
	if start < 0 {
		start = 0
	}
	if start >= len(doc.Sentences) {
		return nil
	}

	sentences := doc.Sentences[start:]
	if opts.Count >= 0 && opts.Count < len(sentences) {
		sentences = sentences[:opts.Count]
	}

	if opts.JSON {
		return render.NewJSONRenderer(ui.Out).Render(sentences)
	}

	r := render.NewRenderer()
	r.Out = ui.Out
	for i, sentence := range sentences {
		prefix := fmt.Sprintf("✍  %d %s ", start+i, sentence.Id)
		r.Sentence(sentence, prefix)
	}
	return nil
}

func docStats(doc sent.Doc, ui UI) {
	h := stat.NewHandler()
	h.AggregateDoc(doc)
	st := h.Get()

	fmt.Fprintf(ui.Out, "📖 %d %s\n", doc.Id, doc.Title)
	fmt.Fprintf(ui.Out, "Num sentences %d, num tokens per sentence %d\n", st.NumSentences, st.TokensPerSentenceMean)
	fmt.Fprintf(ui.Out, "Num tokens %d (words %d, punctuation %d), entities %d\n",
		st.NumTokens, st.NumWords, st.NumPunct, st.NumEntities)
}

func listDocs(repo storage.DocReader, ui UI) error {
	docs, err := repo.List()
	if err != nil {
		return err
	}

	for _, doc := range docs {
		fmt.Fprintf(ui.Out, "📖 %d %s\n", doc.Id, doc.Title)
	}
	return nil
}
