// Package tei loads, edits and saves TEI documents held as xmlquery trees.
package tei

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/antchfx/xmlquery"
)

const (
	NamespaceTEI      = "http://www.tei-c.org/ns/1.0"
	NamespaceXML      = "http://www.w3.org/XML/1998/namespace"
	NamespaceXInclude = "http://www.w3.org/2001/XInclude"

	// Ext is the extension of corpus files.
	Ext = ".xml"

	// AnaExt is inserted before Ext in the names of annotated files.
	AnaExt = ".ana"
)

// ErrNoRoot is returned for input without a root element.
var ErrNoRoot = errors.New("tei: document has no root element")

// Document is a parsed TEI file.
type Document struct {
	top  *xmlquery.Node
	root *xmlquery.Node

	// Indent is the indentation unit of element-only content on output.
	Indent string
}

// Parse reads a document from r.
func Parse(r io.Reader) (*Document, error) {
	top, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing XML: %w", err)
	}

	root := rootElement(top)
	if root == nil {
		return nil, ErrNoRoot
	}

	return &Document{top: top, root: root, Indent: "  "}, nil
}

// Load reads the document at path.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return doc, nil
}

// Node returns the document node, parent of the root element.
func (d *Document) Node() *xmlquery.Node {
	return d.top
}

// Root returns the root element.
func (d *Document) Root() *xmlquery.Node {
	return d.root
}

// ID returns the xml:id of the root element.
func (d *Document) ID() string {
	return ID(d.root)
}

// WriteTo writes an XML declaration followed by the document.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	cw := &countWriter{w: w}
	p := &printer{w: cw, indent: d.Indent}
	p.document(d.top)
	return cw.n, p.err
}

// Bytes returns the serialized document.
func (d *Document) Bytes() []byte {
	var buf bytes.Buffer
	_, _ = d.WriteTo(&buf)
	return buf.Bytes()
}

// Save writes the document to path through a temporary file in the same
// directory, so that path is either the old or the complete new content.
func (d *Document) Save(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := d.WriteTo(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}

func rootElement(top *xmlquery.Node) *xmlquery.Node {
	for n := top.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == xmlquery.ElementNode {
			return n
		}
	}
	return nil
}

// Stem returns the file name of path without its last extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// AnaPath returns the path of the annotated version of a corpus file:
// dir/name.xml becomes dir/name.ana.xml.
func AnaPath(path string) string {
	return filepath.Join(filepath.Dir(path), Stem(path)+AnaExt+Ext)
}

// IsAna reports whether .ana is one of the extensions of path.
func IsAna(path string) bool {
	parts := strings.Split(filepath.Base(path), ".")
	for _, p := range parts[1:] {
		if "."+p == AnaExt {
			return true
		}
	}
	return false
}

// BareName returns the file name of path stripped of all its extensions.
func BareName(path string) string {
	base := filepath.Base(path)
	if i := strings.IndexByte(base, '.'); i > 0 {
		return base[:i]
	}
	return base
}

type countWriter struct {
	w io.Writer
	n int64
}

func (c *countWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
