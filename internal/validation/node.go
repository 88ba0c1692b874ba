// Package validation runs static WCAG checks against HTML markup.
package validation

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Node is the read-only view of a parsed element that rules depend on.
// Implementations must not mutate the underlying tree.
type Node interface {
	// Tag returns the lowercase element name.
	Tag() string
	// Attr returns the attribute value and whether it is present.
	Attr(name string) (string, bool)
	// Text returns the concatenated text of the node and its descendants.
	Text() string
	Children() []Node
	// Find returns descendants matching a CSS selector in document order.
	Find(selector string) []Node
	// Closest returns the nearest ancestor-or-self matching selector.
	Closest(selector string) (Node, bool)
	Matches(selector string) bool
}

// Parse builds a Node tree from HTML source. The returned node is the
// document root, so Find reaches the synthesized html element as well.
// Scripting is disabled so noscript content is parsed as elements.
func Parse(src string) (Node, error) {
	root, err := html.ParseWithOptions(strings.NewReader(src), html.ParseOptionEnableScripting(false))
	if err != nil {
		return nil, &Error{Message: "failed to parse HTML", Cause: err}
	}
	return selectionNode{goquery.NewDocumentFromNode(root).Selection}, nil
}

// FromSelection wraps an existing goquery selection. Only the first node of
// sel is used.
func FromSelection(sel *goquery.Selection) Node {
	return selectionNode{sel.First()}
}

type selectionNode struct {
	sel *goquery.Selection
}

func (n selectionNode) Tag() string {
	return strings.ToLower(goquery.NodeName(n.sel))
}

func (n selectionNode) Attr(name string) (string, bool) {
	return n.sel.Attr(name)
}

func (n selectionNode) Text() string {
	return n.sel.Text()
}

func (n selectionNode) Children() []Node {
	return wrap(n.sel.Children())
}

func (n selectionNode) Find(selector string) []Node {
	return wrap(n.sel.Find(selector))
}

func (n selectionNode) Closest(selector string) (Node, bool) {
	found := n.sel.Closest(selector)
	if found.Length() == 0 {
		return nil, false
	}
	return selectionNode{found}, true
}

func (n selectionNode) Matches(selector string) bool {
	return n.sel.Is(selector)
}

func wrap(sel *goquery.Selection) []Node {
	nodes := make([]Node, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, selectionNode{s})
	})
	return nodes
}

// first returns the first match of selector under root.
func first(root Node, selector string) (Node, bool) {
	nodes := root.Find(selector)
	if len(nodes) == 0 {
		return nil, false
	}
	return nodes[0], true
}

// attrOrEmpty returns the attribute value, or "" when absent.
func attrOrEmpty(n Node, name string) string {
	v, _ := n.Attr(name)
	return v
}
