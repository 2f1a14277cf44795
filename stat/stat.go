// Package stat counts the elements of an annotated TEI document and keeps
// the tagUsage declarations of its header in step with them.
package stat

import (
	"sort"
	"strconv"

	"github.com/antchfx/xmlquery"

	sent "github.com/revelaction/parlana/sentence"
	"github.com/revelaction/parlana/tei"
)

// DefaultTags are the elements whose usage is declared in the header.
var DefaultTags = []string{
	"body", "desc", "div", "gap", "head", "kinesic", "link", "linkGrp",
	"name", "note", "pc", "s", "seg", "text", "u", "w",
}

type Handler struct {
	stats Stats
}

type Stats struct {
	// element local name -> occurrences, the root element excluded
	Tags map[string]int

	NumSentences int
	NumTokens    int
	NumWords     int
	NumPunct     int
	NumEntities  int
	NumLinks     int

	TokensPerSentenceMean int
	TokensPerSentenceDis  map[int]int
}

func (h *Handler) Get() Stats {
	return h.stats
}

func NewHandler() *Handler {
	stats := Stats{Tags: map[string]int{}, TokensPerSentenceDis: map[int]int{}}
	return &Handler{
		stats: stats,
	}
}

// Aggregate adds the elements below root to the counters. It may be called
// for several documents.
func (h *Handler) Aggregate(root *xmlquery.Node) {
	var walk func(*xmlquery.Node)
	walk = func(n *xmlquery.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != xmlquery.ElementNode {
				continue
			}
			h.stats.Tags[c.Data]++

			switch c.Data {
			case "s":
				h.stats.NumSentences++
				h.stats.TokensPerSentenceDis[countTokens(c)]++
			case "w":
				h.stats.NumTokens++
				h.stats.NumWords++
			case "pc":
				h.stats.NumTokens++
				h.stats.NumPunct++
			case "name":
				h.stats.NumEntities++
			case "link":
				h.stats.NumLinks++
			}

			walk(c)
		}
	}
	walk(root)

	h.mean()
}

// AggregateDoc adds the sentences of an annotated doc, as read from a
// store. Only sentence and token counters change.
func (h *Handler) AggregateDoc(doc sent.Doc) {
	h.stats.NumSentences += len(doc.Sentences)
	for _, sentence := range doc.Sentences {
		h.stats.NumTokens += len(sentence.Tokens)
		h.stats.NumEntities += len(sentence.Entities)
		h.stats.TokensPerSentenceDis[len(sentence.Tokens)]++
		for _, t := range sentence.Tokens {
			if t.IsPunct() {
				h.stats.NumPunct++
			} else {
				h.stats.NumWords++
			}
		}
	}

	h.mean()
}

func (h *Handler) mean() {
	if h.stats.NumSentences == 0 {
		h.stats.TokensPerSentenceMean = 0
		return
	}
	h.stats.TokensPerSentenceMean = h.stats.NumTokens / h.stats.NumSentences
}

// countTokens returns the number of w and pc elements below s.
func countTokens(s *xmlquery.Node) int {
	n := 0
	for c := s.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode {
			continue
		}
		switch c.Data {
		case "w", "pc":
			n++
		case "name":
			n += countTokens(c)
		}
	}
	return n
}

// UpdateTagUsage replaces the tagUsage elements of the document with one
// per tag, sorted by name:
//
//	<tagUsage gi="s" occurs="42"/>
//
// The new elements go under the parent of the first existing tagUsage. It
// returns false, changing nothing, when the document declares no tag usage.
func UpdateTagUsage(root *xmlquery.Node, counts map[string]int, tags []string) bool {
	first := tei.First(root, "tagUsage")
	if first == nil {
		return false
	}
	parent := first.Parent

	for _, old := range tei.Children(parent, "tagUsage") {
		tei.Remove(old)
	}

	sorted := append([]string(nil), tags...)
	sort.Strings(sorted)

	for _, tag := range sorted {
		xmlquery.AddChild(parent, tei.NewElement("tagUsage",
			"gi", tag,
			"occurs", strconv.Itoa(counts[tag])))
	}

	return true
}

// TagUsage reads the tagUsage declarations of the document.
func TagUsage(root *xmlquery.Node) map[string]int {
	usage := map[string]int{}
	for _, tu := range tei.Elements(root, "tagUsage") {
		n, err := strconv.Atoi(tei.Attr(tu, "occurs"))
		if err != nil {
			continue
		}
		usage[tei.Attr(tu, "gi")] += n
	}
	return usage
}
