// Package xml wraps xmlquery and xpath for reading OSIS Bible documents.
//
// Parsing goes through Go's encoding/xml (via xmlquery), which does not
// fetch external entities.
package xml

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// Document represents a parsed XML document.
type Document struct {
	root *xmlquery.Node
}

// Node represents an XML node (element, text, attribute, etc.).
type Node struct {
	node *xmlquery.Node
}

var (
	exprMu    sync.Mutex
	exprCache = map[string]*xpath.Expr{}
)

// compile returns a compiled expression, reusing earlier compilations.
func compile(expr string) (*xpath.Expr, error) {
	exprMu.Lock()
	defer exprMu.Unlock()
	if e, ok := exprCache[expr]; ok {
		return e, nil
	}
	e, err := xpath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid xpath: %w", err)
	}
	exprCache[expr] = e
	return e, nil
}

// ParseReader parses XML from r and returns a Document.
func ParseReader(r io.Reader) (*Document, error) {
	root, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing XML: %w", err)
	}
	return &Document{root: root}, nil
}

// Root returns the document element, or nil for an empty document.
func (d *Document) Root() *Node {
	if d == nil || d.root == nil {
		return nil
	}
	for child := d.root.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			return &Node{node: child}
		}
	}
	return nil
}

// XPath executes an XPath query and returns matching nodes in document order.
func (d *Document) XPath(expr string) ([]*Node, error) {
	e, err := compile(expr)
	if err != nil {
		return nil, err
	}
	nodes := xmlquery.QuerySelectorAll(d.root, e)
	result := make([]*Node, len(nodes))
	for i, n := range nodes {
		result[i] = &Node{node: n}
	}
	return result, nil
}

// Name returns the element name without its namespace prefix.
func (n *Node) Name() string {
	if n == nil || n.node == nil {
		return ""
	}
	return n.node.Data
}

// Attr returns the value of a specific attribute.
func (n *Node) Attr(name string) string {
	if n == nil || n.node == nil {
		return ""
	}
	return n.node.SelectAttr(name)
}

// TextExcluding returns the text of the node's descendants, skipping the
// subtrees of elements whose name is listed in skip (for example "note").
func (n *Node) TextExcluding(skip ...string) string {
	if n == nil || n.node == nil {
		return ""
	}
	var b strings.Builder
	for c := n.node.FirstChild; c != nil; c = c.NextSibling {
		collectText(&b, c, skip)
	}
	return b.String()
}

// TextUntil returns the text that follows the node in document order up to,
// but not including, the first element for which stop returns true. Elements
// named in skip are left out. It is used for milestone markup where a verse
// is delimited by empty start and end elements.
func (n *Node) TextUntil(stop func(*Node) bool, skip ...string) string {
	if n == nil || n.node == nil {
		return ""
	}
	var b strings.Builder
	cur := nextInOrder(n.node, true)
	for cur != nil {
		if cur.Type == xmlquery.ElementNode {
			if stop(&Node{node: cur}) {
				break
			}
			if contains(skip, cur.Data) {
				cur = nextInOrder(cur, true)
				continue
			}
		}
		if cur.Type == xmlquery.TextNode || cur.Type == xmlquery.CharDataNode {
			b.WriteString(cur.Data)
		}
		cur = nextInOrder(cur, false)
	}
	return b.String()
}

func collectText(b *strings.Builder, n *xmlquery.Node, skip []string) {
	switch n.Type {
	case xmlquery.TextNode, xmlquery.CharDataNode:
		b.WriteString(n.Data)
	case xmlquery.ElementNode:
		if contains(skip, n.Data) {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collectText(b, c, skip)
		}
	}
}

// nextInOrder returns the node after n in document order. With skipChildren
// the subtree of n is not entered.
func nextInOrder(n *xmlquery.Node, skipChildren bool) *xmlquery.Node {
	if !skipChildren && n.FirstChild != nil {
		return n.FirstChild
	}
	for n != nil {
		if n.NextSibling != nil {
			return n.NextSibling
		}
		n = n.Parent
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
