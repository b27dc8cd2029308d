package epublocate

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// treeNode is the uniform parsed-document node shared by the two dialects of
// the pipeline: the package descriptor (XML) and the per-page documents
// (HTML-tolerant). Element nodes carry a tag and children; text nodes carry
// raw text and an empty tag. The tree is immutable once built, and the same
// traversal helpers serve both dialects.
type treeNode struct {
	tag      string
	text     string
	parent   *treeNode
	children []*treeNode
}

// isText reports whether n is a text node.
func (n *treeNode) isText() bool { return n.tag == "" }

func (n *treeNode) appendChild(c *treeNode) {
	c.parent = n
	n.children = append(n.children, c)
}

// parseXMLTree parses well-formed XML into a tree and returns the document's
// outermost element. Element tags are local names (namespace prefixes are
// dropped); character data is preserved raw, including whitespace runs.
func parseXMLTree(data []byte) (*treeNode, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	doc := &treeNode{tag: "#document"}
	cur := doc
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := &treeNode{tag: t.Name.Local}
			cur.appendChild(el)
			cur = el
		case xml.EndElement:
			if cur.parent != nil {
				cur = cur.parent
			}
		case xml.CharData:
			// Character data outside the root element is not addressable.
			if cur != doc {
				cur.appendChild(&treeNode{text: string(t)})
			}
		}
	}
	if cur != doc {
		return nil, fmt.Errorf("unclosed element <%s>", cur.tag)
	}

	return detachRoot(doc)
}

// parseHTMLTree parses an HTML or XHTML document into a tree and returns its
// outermost element. Parsing is tolerant: x/net/html normalises the document,
// injecting <html>, <head> and <body> around fragment-like input, so the
// returned root is always named "html". Adjacent text split by inline markup
// stays split across separate text nodes.
func parseHTMLTree(data []byte) (*treeNode, error) {
	src, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	doc := &treeNode{tag: "#document"}
	convertHTMLChildren(src, doc)
	return detachRoot(doc)
}

// convertHTMLChildren copies the element and text children of src into dst,
// preserving document order. Comments, doctypes and processing instructions
// are dropped; they carry no locatable text.
func convertHTMLChildren(src *html.Node, dst *treeNode) {
	for c := src.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			el := &treeNode{tag: c.Data}
			dst.appendChild(el)
			convertHTMLChildren(c, el)
		case html.TextNode:
			dst.appendChild(&treeNode{text: c.Data})
		}
	}
}

// detachRoot extracts the first element child of the synthetic document node
// and detaches it, so that ancestor walks terminate at the document root.
func detachRoot(doc *treeNode) (*treeNode, error) {
	for _, c := range doc.children {
		if !c.isText() {
			c.parent = nil
			return c, nil
		}
	}
	return nil, errors.New("document has no root element")
}

// siblingOrdinal returns the 1-based rank of an element among its preceding
// siblings that share its tag name. The root element has ordinal 1.
func siblingOrdinal(n *treeNode) int {
	ord := 1
	if n.parent == nil {
		return ord
	}
	for _, sib := range n.parent.children {
		if sib == n {
			break
		}
		if !sib.isText() && sib.tag == n.tag {
			ord++
		}
	}
	return ord
}

// firstTextMatch walks the tree depth-first in pre-order (document order) and
// returns the first text node whose raw content contains query as a
// contiguous substring. A query split across adjacent text nodes is not
// matched; each node is examined in isolation.
func firstTextMatch(n *treeNode, query string) *treeNode {
	if n.isText() {
		if strings.Contains(n.text, query) {
			return n
		}
		return nil
	}
	for _, c := range n.children {
		if m := firstTextMatch(c, query); m != nil {
			return m
		}
	}
	return nil
}
