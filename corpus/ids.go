package corpus

import (
	"github.com/antchfx/xmlquery"

	"github.com/revelaction/parlana/ident"
	"github.com/revelaction/parlana/tei"
)

// ClaimIDs registers every xml:id below root in seq and returns the ids
// found more than once.
func ClaimIDs(root *xmlquery.Node, seq *ident.Sequencer) []string {
	var dups []string
	var walk func(*xmlquery.Node)
	walk = func(n *xmlquery.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != xmlquery.ElementNode {
				continue
			}
			if id := tei.ID(c); id != "" && !seq.Claim(id) {
				dups = append(dups, id)
			}
			walk(c)
		}
	}
	walk(root)
	return dups
}

// AssignIDs gives an xml:id to every <u> and <seg> below root lacking one.
// Utterances and their segments are numbered in document order, so that
// the n-th seg of the m-th u is <doc>.u<m>.seg<n>; numbers whose id is
// already in use are skipped. It returns the number of ids assigned.
func AssignIDs(root *xmlquery.Node, seq *ident.Sequencer) int {
	assigned := 0
	for _, u := range tei.Elements(root, "u") {
		uid := seq.NextUtterance()
		if tei.ID(u) == "" {
			for !seq.Claim(uid) {
				uid = seq.NextUtterance()
			}
			tei.SetID(u, uid)
			assigned++
		}

		for _, seg := range tei.Elements(u, "seg") {
			sid := seq.NextSegment()
			if tei.ID(seg) != "" {
				continue
			}
			for !seq.Claim(sid) {
				sid = seq.NextSegment()
			}
			tei.SetID(seg, sid)
			assigned++
		}
	}
	return assigned
}
