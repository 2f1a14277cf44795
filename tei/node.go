package tei

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// Elements returns the descendant elements of n named local, in document
// order. n itself is not included.
func Elements(n *xmlquery.Node, local string) []*xmlquery.Node {
	var out []*xmlquery.Node
	var walk func(*xmlquery.Node)
	walk = func(p *xmlquery.Node) {
		for c := p.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != xmlquery.ElementNode {
				continue
			}
			if c.Data == local {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// First returns the first descendant element of n named local, or nil.
func First(n *xmlquery.Node, local string) *xmlquery.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode {
			continue
		}
		if c.Data == local {
			return c
		}
		if f := First(c, local); f != nil {
			return f
		}
	}
	return nil
}

// Children returns the child elements of n named local; all child elements
// when local is empty.
func Children(n *xmlquery.Node, local string) []*xmlquery.Node {
	var out []*xmlquery.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && (local == "" || c.Data == local) {
			out = append(out, c)
		}
	}
	return out
}

// HasElementChildren reports whether n has at least one child element.
func HasElementChildren(n *xmlquery.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			return true
		}
	}
	return false
}

// ID returns the xml:id of n, "" if it has none.
func ID(n *xmlquery.Node) string {
	for _, a := range n.Attr {
		if a.Name.Local == "id" && (a.Name.Space == "xml" || a.Name.Space == NamespaceXML) {
			return a.Value
		}
	}
	return ""
}

// SetID sets the xml:id of n.
func SetID(n *xmlquery.Node, id string) {
	for i, a := range n.Attr {
		if a.Name.Local == "id" && (a.Name.Space == "xml" || a.Name.Space == NamespaceXML) {
			n.Attr[i].Value = id
			return
		}
	}
	n.Attr = append(n.Attr, xmlquery.Attr{
		Name:         xml.Name{Space: "xml", Local: "id"},
		Value:        id,
		NamespaceURI: NamespaceXML,
	})
}

// Attr returns the value of the attribute key ("type", "xml:lang"), "" if
// absent.
func Attr(n *xmlquery.Node, key string) string {
	name := attrKey(key)
	for _, a := range n.Attr {
		if a.Name == name {
			return a.Value
		}
	}
	return ""
}

// SetAttr sets the attribute key of n, adding it if absent.
func SetAttr(n *xmlquery.Node, key, value string) {
	name := attrKey(key)
	for i, a := range n.Attr {
		if a.Name == name {
			n.Attr[i].Value = value
			return
		}
	}
	n.Attr = append(n.Attr, xmlquery.Attr{Name: name, Value: value})
}

func attrKey(key string) xml.Name {
	if prefix, local, ok := strings.Cut(key, ":"); ok {
		return xml.Name{Space: prefix, Local: local}
	}
	return xml.Name{Local: key}
}

// NewElement returns a detached TEI element. attrs are key, value pairs;
// keys may be prefixed ("xml:id").
func NewElement(local string, attrs ...string) *xmlquery.Node {
	n := &xmlquery.Node{
		Type:         xmlquery.ElementNode,
		Data:         local,
		NamespaceURI: NamespaceTEI,
	}
	for i := 0; i+1 < len(attrs); i += 2 {
		SetAttr(n, attrs[i], attrs[i+1])
	}
	return n
}

// NewTextElement returns NewElement with text as its only child.
func NewTextElement(local, text string, attrs ...string) *xmlquery.Node {
	n := NewElement(local, attrs...)
	SetText(n, text)
	return n
}

// NewInclude returns an <xi:include href="..."/> element.
func NewInclude(href string) *xmlquery.Node {
	return &xmlquery.Node{
		Type:         xmlquery.ElementNode,
		Data:         "include",
		Prefix:       "xi",
		NamespaceURI: NamespaceXInclude,
		Attr:         []xmlquery.Attr{{Name: xml.Name{Local: "href"}, Value: href}},
	}
}

// IsInclude reports whether n is an XInclude include element.
func IsInclude(n *xmlquery.Node) bool {
	return n.Type == xmlquery.ElementNode && n.Data == "include" &&
		(n.NamespaceURI == NamespaceXInclude || n.Prefix == "xi")
}

// DeclareXInclude adds xmlns:xi to root unless the XInclude namespace is
// already bound.
func DeclareXInclude(root *xmlquery.Node) {
	for _, a := range root.Attr {
		if a.Name.Space == "xmlns" && a.Value == NamespaceXInclude {
			return
		}
	}
	root.Attr = append(root.Attr, xmlquery.Attr{
		Name:  xml.Name{Space: "xmlns", Local: "xi"},
		Value: NamespaceXInclude,
	})
}

// SetText replaces the children of n with a single text node.
func SetText(n *xmlquery.Node, text string) {
	SetChildren(n, []*xmlquery.Node{{Type: xmlquery.TextNode, Data: text}})
}

// SetChildren replaces the children of n with children, in order. The nodes
// are detached from wherever they were.
func SetChildren(n *xmlquery.Node, children []*xmlquery.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		c.Parent, c.PrevSibling, c.NextSibling = nil, nil, nil
		c = next
	}
	n.FirstChild, n.LastChild = nil, nil

	for _, c := range children {
		if c.Parent != nil {
			xmlquery.RemoveFromTree(c)
		}
		xmlquery.AddChild(n, c)
	}
}

// InsertAfter inserts n as the next sibling of ref.
func InsertAfter(ref, n *xmlquery.Node) {
	xmlquery.AddImmediateSibling(ref, n)
}

// Remove detaches n from its tree.
func Remove(n *xmlquery.Node) {
	xmlquery.RemoveFromTree(n)
}

// Text returns the text content of n and its descendants.
func Text(n *xmlquery.Node) string {
	return n.InnerText()
}

// Query evaluates an XPath expression against n. Namespaced documents are
// best queried with local-name() tests:
//
//	//*[local-name()='title'][@type='main']
func Query(n *xmlquery.Node, expr string) ([]*xmlquery.Node, error) {
	e, err := xpath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("xpath %q: %w", expr, err)
	}
	return xmlquery.QuerySelectorAll(n, e), nil
}

// LocalPath builds a local-name() based XPath from element names:
// LocalPath("titleStmt", "title") is
// //*[local-name()='titleStmt']//*[local-name()='title'].
func LocalPath(names ...string) string {
	var b strings.Builder
	for _, name := range names {
		b.WriteString("//*[local-name()='" + name + "']")
	}
	return b.String()
}
