package tei

import (
	"io"
	"strings"

	"github.com/antchfx/xmlquery"
)

const declaration = `<?xml version="1.0" encoding="UTF-8"?>`

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"\n", "&#xA;",
		"\r", "&#xD;",
		"\t", "&#x9;",
	)
)

// printer serializes an xmlquery tree.
//
// Element-only content (children are elements, comments or whitespace) is
// indented, one child per line, and its whitespace text is dropped. Any
// element holding non-blank text is written exactly as it is, descendants
// included.
type printer struct {
	w      io.Writer
	indent string
	err    error
}

func (p *printer) write(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

func (p *printer) document(top *xmlquery.Node) {
	p.write(declaration)
	p.write("\n")

	for n := top.FirstChild; n != nil; n = n.NextSibling {
		switch n.Type {
		case xmlquery.DeclarationNode:
			if n.Data == "xml" {
				continue
			}
		case xmlquery.TextNode:
			if strings.TrimSpace(n.Data) == "" {
				continue
			}
		}
		p.node(n, 0, true)
		p.write("\n")
	}
}

func (p *printer) node(n *xmlquery.Node, depth int, pretty bool) {
	switch n.Type {
	case xmlquery.TextNode:
		p.write(textEscaper.Replace(n.Data))
	case xmlquery.CharDataNode:
		p.write("<![CDATA[" + n.Data + "]]>")
	case xmlquery.CommentNode:
		p.write("<!--" + n.Data + "-->")
	case xmlquery.NotationNode:
		p.write("<!" + n.Data + ">")
	case xmlquery.ProcessingInstruction:
		if n.ProcInst != nil && n.ProcInst.Inst != "" {
			p.write("<?" + n.ProcInst.Target + " " + n.ProcInst.Inst + "?>")
		} else if n.ProcInst != nil {
			p.write("<?" + n.ProcInst.Target + "?>")
		}
	case xmlquery.DeclarationNode:
		// only the leading xml declaration is expected, and it is rewritten
	case xmlquery.ElementNode:
		p.element(n, depth, pretty)
	}
}

func (p *printer) element(n *xmlquery.Node, depth int, pretty bool) {
	name := qname(n)

	p.write("<" + name)
	for _, a := range n.Attr {
		p.write(" " + attrName(a) + `="` + attrEscaper.Replace(a.Value) + `"`)
	}

	if n.FirstChild == nil {
		p.write("/>")
		return
	}
	p.write(">")

	if !pretty || !elementOnly(n) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			p.node(c, depth+1, false)
		}
		p.write("</" + name + ">")
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.TextNode {
			continue
		}
		p.newline(depth + 1)
		p.node(c, depth+1, true)
	}
	p.newline(depth)
	p.write("</" + name + ">")
}

func (p *printer) newline(depth int) {
	p.write("\n" + strings.Repeat(p.indent, depth))
}

// elementOnly reports whether n has child nodes other than whitespace text,
// and no non-blank text or CDATA.
func elementOnly(n *xmlquery.Node) bool {
	found := false
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case xmlquery.TextNode:
			if strings.TrimSpace(c.Data) != "" {
				return false
			}
		case xmlquery.CharDataNode:
			return false
		default:
			found = true
		}
	}
	return found
}

func qname(n *xmlquery.Node) string {
	if n.Prefix == "" {
		return n.Data
	}
	return n.Prefix + ":" + n.Data
}

// attrName returns the qualified name of a. The parser stores the prefix in
// Name.Space; attributes built here may carry the namespace URI instead.
func attrName(a xmlquery.Attr) string {
	switch a.Name.Space {
	case "":
		return a.Name.Local
	case NamespaceXML:
		return "xml:" + a.Name.Local
	case NamespaceXInclude:
		return "xi:" + a.Name.Local
	}
	return a.Name.Space + ":" + a.Name.Local
}

// WriteNode writes n and its descendants without an XML declaration.
func WriteNode(w io.Writer, n *xmlquery.Node, indent string) error {
	p := &printer{w: w, indent: indent}
	p.node(n, 0, true)
	return p.err
}
