package corpus

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/antchfx/xmlquery"

	"github.com/revelaction/parlana/annotate"
	"github.com/revelaction/parlana/stat"
	"github.com/revelaction/parlana/tei"
)

var ErrNoClassDecl = errors.New("corpus: root file has no classDecl")

const (
	prefixRo = "Identificatorii privați cu acest prefix trimit la categoriile taxonomiei relațiilor sintactice UD din antetul corpusului."
	prefixEn = "Private URIs with this prefix point to the categories of the UD syntactic relations taxonomy in the corpus header."
)

// Application is one entry of the appInfo block of the annotated root.
type Application struct {
	Ident   string
	Version string
	Label   string
	Ref     string
	Desc    string
}

// RootBuilder builds the annotated root file, which includes the annotated
// component files instead of the source ones.
type RootBuilder struct {
	doc  *tei.Document
	path string
	tags []string

	// summed tag counts of the added components
	counts map[string]int
}

// NewRootBuilder loads rootFile and prepares it as the annotated root saved
// at annotatedRoot: new xml:id and title, no component includes, the
// taxonomies included under classDecl followed by the ud-syn prefix
// declaration and the applications.
func NewRootBuilder(rootFile, annotatedRoot string, taxonomies []string, apps []Application) (*RootBuilder, error) {
	doc, err := tei.Load(rootFile)
	if err != nil {
		return nil, err
	}

	root := doc.Root()
	tei.SetID(root, tei.Stem(annotatedRoot))
	UpdateTitle(root)

	for _, inc := range tei.Children(root, "include") {
		if tei.IsInclude(inc) {
			tei.Remove(inc)
		}
	}

	classDecl := tei.First(root, "classDecl")
	if classDecl == nil {
		return nil, fmt.Errorf("%s: %w", rootFile, ErrNoClassDecl)
	}

	tei.DeclareXInclude(root)
	for _, t := range taxonomies {
		xmlquery.AddChild(classDecl, tei.NewInclude(filepath.Base(t)))
	}

	prefixes := prefixDecl()
	tei.InsertAfter(classDecl, prefixes)
	tei.InsertAfter(prefixes, appInfo(apps))

	return &RootBuilder{
		doc:    doc,
		path:   annotatedRoot,
		tags:   stat.DefaultTags,
		counts: map[string]int{},
	}, nil
}

// SetTags sets the elements whose usage is declared in the root header.
func (b *RootBuilder) SetTags(tags []string) {
	if len(tags) > 0 {
		b.tags = tags
	}
}

// AddComponent includes the annotated component file at path, adds its tag
// counts to the root tagUsage and saves the root.
func (b *RootBuilder) AddComponent(path string, counts map[string]int) error {
	xmlquery.AddChild(b.doc.Root(), tei.NewInclude(filepath.Base(path)))

	for tag, n := range counts {
		b.counts[tag] += n
	}
	stat.UpdateTagUsage(b.doc.Root(), b.counts, b.tags)

	return b.doc.Save(b.path)
}

// Includes returns the files included at the root level, in order.
func (b *RootBuilder) Includes() []string {
	var files []string
	for _, inc := range tei.Children(b.doc.Root(), "include") {
		if tei.IsInclude(inc) {
			files = append(files, tei.Attr(inc, "href"))
		}
	}
	return files
}

// Save writes the root as it is.
func (b *RootBuilder) Save() error {
	return b.doc.Save(b.path)
}

func prefixDecl() *xmlquery.Node {
	list := tei.NewElement("listPrefixDef")
	def := tei.NewElement("prefixDef",
		"ident", annotate.LinkPrefix,
		"matchPattern", "(.+)",
		"replacementPattern", "#$1")
	xmlquery.AddChild(def, tei.NewTextElement("p", prefixRo, "xml:lang", "ro"))
	xmlquery.AddChild(def, tei.NewTextElement("p", prefixEn, "xml:lang", "en"))
	xmlquery.AddChild(list, def)
	return list
}

func appInfo(apps []Application) *xmlquery.Node {
	info := tei.NewElement("appInfo")
	for _, a := range apps {
		app := tei.NewElement("application", "version", a.Version, "ident", a.Ident)
		xmlquery.AddChild(app, tei.NewTextElement("label", a.Label))

		desc := tei.NewElement("desc", "xml:lang", "en")
		if a.Ref != "" {
			xmlquery.AddChild(desc, tei.NewTextElement("ref", a.Label, "target", a.Ref))
		}
		if a.Desc != "" {
			xmlquery.AddChild(desc, &xmlquery.Node{Type: xmlquery.TextNode, Data: " " + a.Desc})
		}
		xmlquery.AddChild(app, desc)

		xmlquery.AddChild(info, app)
	}
	return info
}

// CopyFiles copies files into dir, keeping their names.
func CopyFiles(dir string, files []string) error {
	for _, src := range files {
		if err := copyFile(src, filepath.Join(dir, filepath.Base(src))); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying %s: %w", src, err)
	}

	return out.Close()
}
