package corpus

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revelaction/parlana/annotate"
	"github.com/revelaction/parlana/ident"
	"github.com/revelaction/parlana/logging"
	sent "github.com/revelaction/parlana/sentence"
	"github.com/revelaction/parlana/stat"
	"github.com/revelaction/parlana/tei"
)

const component = `<?xml version="1.0" encoding="UTF-8"?>
<TEI xmlns="http://www.tei-c.org/ns/1.0" xml:id="ParlaMint-RO_2020-01-01" xml:lang="ro">
  <teiHeader>
    <fileDesc>
      <titleStmt>
        <title type="main" xml:lang="en">Romanian parliamentary corpus ParlaMint-RO, 2020-01-01 [ParlaMint SAMPLE]</title>
        <title type="sub" xml:lang="en">Sitting [ParlaMint SAMPLE]</title>
      </titleStmt>
    </fileDesc>
    <encodingDesc>
      <tagsDecl>
        <namespace name="http://www.tei-c.org/ns/1.0">
          <tagUsage gi="text" occurs="1"/>
          <tagUsage gi="u" occurs="2"/>
        </namespace>
      </tagsDecl>
    </encodingDesc>
  </teiHeader>
  <text>
    <body>
      <div type="debateSection">
        <u who="#A" xml:id="ParlaMint-RO_2020-01-01.u1">
          <seg xml:id="ParlaMint-RO_2020-01-01.u1.seg1">Bună ziua. Începem.</seg>
        </u>
        <u who="#B">
          <seg>Mulțumesc <note>(Aplauze)</note> domnule.</seg>
          <seg>   </seg>
        </u>
      </div>
    </body>
  </text>
</TEI>
`

const rootFile = `<?xml version="1.0" encoding="UTF-8"?>
<teiCorpus xmlns="http://www.tei-c.org/ns/1.0" xmlns:xi="http://www.w3.org/2001/XInclude" xml:id="ParlaMint-RO" xml:lang="ro">
  <teiHeader>
    <fileDesc>
      <titleStmt>
        <title type="main" xml:lang="en">Romanian parliamentary corpus ParlaMint-RO [ParlaMint SAMPLE]</title>
      </titleStmt>
    </fileDesc>
    <encodingDesc>
      <tagsDecl>
        <namespace name="http://www.tei-c.org/ns/1.0">
          <tagUsage gi="text" occurs="2"/>
        </namespace>
      </tagsDecl>
      <classDecl>
        <xi:include href="ParlaMint-taxonomy-subcorpus.xml"/>
      </classDecl>
    </encodingDesc>
  </teiHeader>
  <xi:include href="ParlaMint-RO_2020-01-01.xml"/>
  <xi:include href="ParlaMint-RO_2020-01-02.xml"/>
</teiCorpus>
`

// wordAnnotator splits on whitespace; a trailing period is a punctuation
// token ending the sentence.
type wordAnnotator struct {
	err error
}

func (f *wordAnnotator) Annotate(_ context.Context, text string) ([]sent.Sentence, error) {
	if f.err != nil {
		return nil, f.err
	}

	var out []sent.Sentence
	var cur sent.Sentence
	add := func(text, pos string) {
		t := sent.Token{Id: len(cur.Tokens) + 1, Text: text, Lemma: strings.ToLower(text), Pos: pos, Head: 1, Dep: "dep"}
		if t.Id == 1 {
			t.Head, t.Dep = 0, "root"
		}
		cur.Tokens = append(cur.Tokens, t)
	}

	for _, field := range strings.Fields(text) {
		if strings.HasSuffix(field, ".") {
			add(strings.TrimSuffix(field, "."), "NOUN")
			add(".", sent.Punct)
			out = append(out, cur)
			cur = sent.Sentence{}
			continue
		}
		add(field, "NOUN")
	}
	if len(cur.Tokens) > 0 {
		out = append(out, cur)
	}
	return out, nil
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
}

func newAnnotator(a annotate.Annotator) *ComponentAnnotator {
	splicer := annotate.NewSplicer(a, annotate.WithLogger(logging.Discard()))
	return NewComponentAnnotator(splicer, nil, logging.Discard())
}

func TestComponentAnnotate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ParlaMint-RO_2020-01-01.xml")
	writeFile(t, path, component)

	out, err := newAnnotator(&wordAnnotator{}).Annotate(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "ParlaMint-RO_2020-01-01.ana.xml"), out.Path)
	assert.Equal(t, "ParlaMint-RO_2020-01-01.ana", out.Doc.Title)
	require.Len(t, out.Doc.Sentences, 4)
	assert.Equal(t, "ParlaMint-RO_2020-01-01.u1.seg1.1", out.Doc.Sentences[0].Id)
	assert.Equal(t, "ParlaMint-RO_2020-01-01.u2.seg1.2", out.Doc.Sentences[3].Id)
	assert.Empty(t, out.Warnings)
	assert.Equal(t, 4, out.Stats.NumSentences)

	doc, err := tei.Load(out.Path)
	require.NoError(t, err)
	root := doc.Root()

	assert.Equal(t, "ParlaMint-RO_2020-01-01.ana", doc.ID())

	titles := tei.Elements(root, "title")
	require.Len(t, titles, 2)
	assert.Contains(t, tei.Text(titles[0]), "[ParlaMint.ana SAMPLE]")
	assert.Contains(t, tei.Text(titles[1]), "[ParlaMint SAMPLE]")

	us := tei.Elements(root, "u")
	require.Len(t, us, 2)
	assert.Equal(t, "ParlaMint-RO_2020-01-01.u2", tei.ID(us[1]))

	segs := tei.Elements(root, "seg")
	require.Len(t, segs, 3)
	assert.Equal(t, "ParlaMint-RO_2020-01-01.u2.seg1", tei.ID(segs[1]))
	assert.Equal(t, "ParlaMint-RO_2020-01-01.u2.seg2", tei.ID(segs[2]))
	assert.Empty(t, tei.Children(segs[2], ""))

	var names []string
	for _, c := range tei.Children(segs[1], "") {
		names = append(names, c.Data)
	}
	assert.Equal(t, []string{"s", "note", "s"}, names)

	usage := stat.TagUsage(root)
	assert.Equal(t, 4, usage["s"])
	assert.Equal(t, 5, usage["w"])
	assert.Equal(t, 3, usage["pc"])
	assert.Equal(t, 3, usage["seg"])
	assert.Equal(t, 2, usage["u"])
	assert.Equal(t, 1, usage["note"])
	assert.Equal(t, 4, usage["linkGrp"])
	assert.Equal(t, 8, usage["link"])
	assert.Equal(t, 0, usage["name"])
	assert.Len(t, tei.Elements(root, "tagUsage"), len(stat.DefaultTags))
}

func TestComponentAnnotateErrorWritesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "c.xml")
	writeFile(t, path, component)

	engineErr := errors.New("engine down")
	_, err := newAnnotator(&wordAnnotator{err: engineErr}).Annotate(context.Background(), path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, engineErr))

	_, err = os.Stat(filepath.Join(dir, "c.ana.xml"))
	assert.True(t, os.IsNotExist(err))
}

func TestComponentAnnotateCanceled(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "c.xml")
	writeFile(t, path, component)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newAnnotator(&wordAnnotator{}).Annotate(ctx, path)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestAssignIDs(t *testing.T) {
	doc, err := tei.Parse(strings.NewReader(`<TEI xmlns="http://www.tei-c.org/ns/1.0">
		<u xml:id="d.u2"><seg/></u>
		<u><seg xml:id="d.u2.seg1"/><seg/></u>
	</TEI>`))
	require.NoError(t, err)

	seq := ident.NewSequencer("d")
	assert.Empty(t, ClaimIDs(doc.Root(), seq))
	assert.Equal(t, 3, AssignIDs(doc.Root(), seq))

	var ids []string
	for _, u := range tei.Elements(doc.Root(), "u") {
		ids = append(ids, tei.ID(u))
		for _, seg := range tei.Elements(u, "seg") {
			ids = append(ids, tei.ID(seg))
		}
	}
	// d.u2 is taken, so the second utterance is d.u3; its first segment
	// keeps the id it had
	assert.Equal(t, []string{"d.u2", "d.u1.seg1", "d.u3", "d.u2.seg1", "d.u3.seg2"}, ids)
}

func TestClaimIDsReportsDuplicates(t *testing.T) {
	doc, err := tei.Parse(strings.NewReader(`<TEI><u xml:id="a"/><u xml:id="a"/><u xml:id="b"/></TEI>`))
	require.NoError(t, err)

	seq := ident.NewSequencer("d")
	assert.Equal(t, []string{"a"}, ClaimIDs(doc.Root(), seq))
	assert.True(t, seq.Claimed("b"))
}

func TestRootBuilder(t *testing.T) {
	dir := t.TempDir()
	rootPath := filepath.Join(dir, "ParlaMint-RO.xml")
	writeFile(t, rootPath, rootFile)
	anaRoot := tei.AnaPath(rootPath)

	apps := []Application{{Ident: "app-udpipe", Version: "2", Label: "UDPipe", Ref: "https://lindat.mff.cuni.cz/services/udpipe/", Desc: "tokenizer, tagger and parser"}}
	b, err := NewRootBuilder(rootPath, anaRoot, []string{"data/templates/ParlaMint-taxonomy-NER.ana.xml"}, apps)
	require.NoError(t, err)
	assert.Empty(t, b.Includes())

	require.NoError(t, b.AddComponent(filepath.Join(dir, "ParlaMint-RO_2020-01-01.ana.xml"), map[string]int{"s": 4, "w": 5}))
	require.NoError(t, b.AddComponent(filepath.Join(dir, "ParlaMint-RO_2020-01-02.ana.xml"), map[string]int{"s": 1}))
	assert.Equal(t, []string{"ParlaMint-RO_2020-01-01.ana.xml", "ParlaMint-RO_2020-01-02.ana.xml"}, b.Includes())

	doc, err := tei.Load(anaRoot)
	require.NoError(t, err)
	root := doc.Root()

	assert.Equal(t, "ParlaMint-RO.ana", doc.ID())
	assert.Contains(t, tei.Text(tei.First(root, "title")), "[ParlaMint.ana SAMPLE]")

	var includes []string
	for _, inc := range tei.Children(root, "include") {
		require.True(t, tei.IsInclude(inc))
		includes = append(includes, tei.Attr(inc, "href"))
	}
	assert.Equal(t, b.Includes(), includes)

	var names []string
	for _, c := range tei.Children(tei.First(root, "encodingDesc"), "") {
		names = append(names, c.Data)
	}
	assert.Equal(t, []string{"tagsDecl", "classDecl", "listPrefixDef", "appInfo"}, names)

	taxonomies := tei.Children(tei.First(root, "classDecl"), "include")
	require.Len(t, taxonomies, 2)
	assert.Equal(t, "ParlaMint-taxonomy-NER.ana.xml", tei.Attr(taxonomies[1], "href"))

	prefix := tei.First(root, "prefixDef")
	require.NotNil(t, prefix)
	assert.Equal(t, "ud-syn", tei.Attr(prefix, "ident"))
	assert.Equal(t, "#$1", tei.Attr(prefix, "replacementPattern"))
	ps := tei.Children(prefix, "p")
	require.Len(t, ps, 2)
	assert.Equal(t, "ro", tei.Attr(ps[0], "xml:lang"))

	app := tei.First(root, "application")
	require.NotNil(t, app)
	assert.Equal(t, "app-udpipe", tei.Attr(app, "ident"))
	assert.Equal(t, "https://lindat.mff.cuni.cz/services/udpipe/", tei.Attr(tei.First(app, "ref"), "target"))

	usage := stat.TagUsage(root)
	assert.Equal(t, 5, usage["s"])
	assert.Equal(t, 5, usage["w"])
	assert.Equal(t, 0, usage["text"])
}

func TestRootBuilderNoClassDecl(t *testing.T) {
	dir := t.TempDir()
	rootPath := filepath.Join(dir, "root.xml")
	writeFile(t, rootPath, `<teiCorpus xmlns="http://www.tei-c.org/ns/1.0"><teiHeader/></teiCorpus>`)

	_, err := NewRootBuilder(rootPath, tei.AnaPath(rootPath), nil, nil)
	assert.True(t, errors.Is(err, ErrNoClassDecl))
}

func TestIterator(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"ParlaMint-RO.xml",
		"ParlaMint-RO.ana.xml",
		"b.xml",
		"a.xml",
		"a.ana.xml",
		"ParlaMint-taxonomy-NER.ana.xml",
		"ParlaMint-taxonomy-subcorpus.xml",
		"notes.txt",
	} {
		writeFile(t, filepath.Join(dir, name), "<x/>")
	}

	it := NewIterator(dir, "ParlaMint-RO.xml", []string{"ParlaMint-taxonomy-NER.ana.xml", "data/ParlaMint-taxonomy-subcorpus.xml"})
	assert.Equal(t, filepath.Join(dir, "ParlaMint-RO.xml"), it.RootFile())
	assert.Equal(t, filepath.Join(dir, "ParlaMint-RO.ana.xml"), it.AnnotatedRootFile())

	files, err := it.ComponentFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.xml"), filepath.Join(dir, "b.xml")}, files)

	files, err = it.AnnotatedFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.ana.xml")}, files)

	assert.Equal(t, filepath.Join(dir, "a.xml"), ComponentFor(filepath.Join(dir, "a.ana.xml")))
}

func TestCopyFiles(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(src, "tax.xml"), "<taxonomy/>")

	require.NoError(t, CopyFiles(dst, []string{filepath.Join(src, "tax.xml")}))
	data, err := os.ReadFile(filepath.Join(dst, "tax.xml"))
	require.NoError(t, err)
	assert.Equal(t, "<taxonomy/>", string(data))

	assert.Error(t, CopyFiles(dst, []string{filepath.Join(src, "missing.xml")}))
}
