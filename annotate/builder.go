package annotate

import (
	"log/slog"

	"github.com/antchfx/xmlquery"

	"github.com/revelaction/parlana/entity"
	"github.com/revelaction/parlana/ident"
	sent "github.com/revelaction/parlana/sentence"
	"github.com/revelaction/parlana/tei"
)

// builder turns annotated sentences into <s> subtrees for one segment.
type builder struct {
	seq    *ident.Sequencer
	mapper *entity.Mapper
	logger *slog.Logger

	segID  string
	result Result
}

// sentence builds
//
//	<s xml:id="seg.k">
//	  <w .../>
//	  <name type="ORG"><w .../><w .../></name>
//	  <pc .../>
//	  <linkGrp ...>...</linkGrp>
//	</s>
func (b *builder) sentence(st sent.Sentence) *xmlquery.Node {
	sid := b.seq.NextSentence(b.segID)
	b.claim(sid)

	s := tei.NewElement("s", "xml:id", sid)
	idx := entity.NewIndex(st.Entities)
	ids := make(map[int]string, len(st.Tokens))

	// the <name> still accepting tokens and the ordinal of its span
	var name *xmlquery.Node
	open := -1

	for _, t := range st.Tokens {
		tid := b.seq.NextToken(sid)
		b.claim(tid)
		ids[t.Id] = tid

		el := tokenElement(t, tid)

		span, ord, ok := idx.Lookup(t.Id)
		if !ok {
			name, open = nil, -1
			xmlquery.AddChild(s, el)
			continue
		}

		if name == nil || ord != open {
			name, open = b.name(span.Label), ord
			xmlquery.AddChild(s, name)
		}
		xmlquery.AddChild(name, el)
	}

	xmlquery.AddChild(s, linkGroup(sid, st.Tokens, ids))

	st.Id = sid
	st.SegmentId = b.segID
	b.result.Sentences = append(b.result.Sentences, st)

	return s
}

func (b *builder) name(label string) *xmlquery.Node {
	code, known := b.mapper.Code(label)
	if !known {
		b.warn(UnknownEntityLabel, label)
	}
	return tei.NewElement("name", "type", code)
}

// claim registers id; a duplicate is reported and otherwise ignored.
func (b *builder) claim(id string) {
	if !b.seq.Claim(id) {
		b.warn(DuplicateID, id)
	}
}

func (b *builder) warn(kind Kind, value string) {
	b.logger.Warn(kind.String(), "value", value, "segment", b.segID)
	b.result.Warnings = append(b.result.Warnings, Warning{Kind: kind, Value: value, Segment: b.segID})
}

// tokenElement returns <pc> for punctuation and <w> otherwise. Only words
// carry a lemma; a missing lemma falls back to the surface form. pos holds
// the language specific tag, or the universal one if the engine gave none.
func tokenElement(t sent.Token, id string) *xmlquery.Node {
	var el *xmlquery.Node
	if t.IsPunct() {
		el = tei.NewElement("pc", "xml:id", id)
	} else {
		lemma := t.Lemma
		if lemma == "" {
			lemma = t.Text
		}
		el = tei.NewElement("w", "xml:id", id, "lemma", lemma)
	}

	pos := t.Tag
	if pos == "" {
		pos = t.Pos
	}
	tei.SetAttr(el, "pos", pos)
	tei.SetAttr(el, "msd", t.Msd())
	tei.SetText(el, t.Text)

	return el
}
