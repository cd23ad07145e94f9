package engine

import (
	"strings"

	"github.com/roach88/nlquery/internal/grammar"
	"github.com/roach88/nlquery/internal/parsetree"
)

// Capture is one named binding produced by a match.
type Capture struct {
	Kind grammar.Kind
	Text string          // Extracted words for text kinds
	Tree *parsetree.Node // Matched node, set for every kind
}

// Captures maps capture names to their bindings.
type Captures map[string]Capture

// Has reports whether name was bound.
func (c Captures) Has(name string) bool {
	_, ok := c[name]
	return ok
}

// Text returns the text of a capture, "" when absent.
func (c Captures) Text(name string) string {
	return c[name].Text
}

// Tree returns the node of a capture, nil when absent.
func (c Captures) Tree(name string) *parsetree.Node {
	return c[name].Tree
}

// Match attempts to match node against pattern.
//
// The match is determined by:
// 1. Label: the node label must be one of the pattern labels (any for ".")
// 2. Literal: the node's lower-cased text must equal one of the literals
// 3. Children: every pattern child matches the node child at its position
// 4. Anchor: an anchored pattern admits no further node children
//
// Returns the captures bound along the way, or false. Captures of a failed
// attempt are discarded.
func Match(node *parsetree.Node, pattern *grammar.Pattern) (Captures, bool) {
	caps := make(Captures)
	if !match(node, pattern, caps) {
		return nil, false
	}
	return caps, true
}

func match(node *parsetree.Node, p *grammar.Pattern, caps Captures) bool {
	if node == nil || !labelMatches(p.Labels, node.Label) {
		return false
	}
	if len(p.Literals) > 0 && !literalMatches(p.Literals, strings.ToLower(node.Text())) {
		return false
	}

	if len(node.Children) < len(p.Children) {
		return false
	}
	if p.Anchored && len(node.Children) != len(p.Children) {
		return false
	}
	for i, child := range p.Children {
		if !match(node.Children[i], child, caps) {
			return false
		}
	}

	if p.Capture != "" {
		caps[p.Capture] = capture(node, p.Kind)
	}
	return true
}

func labelMatches(labels []string, label string) bool {
	if labels == nil {
		return true
	}
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}

func literalMatches(literals []string, text string) bool {
	for _, lit := range literals {
		if lit == text {
			return true
		}
	}
	return false
}

func capture(node *parsetree.Node, kind grammar.Kind) Capture {
	c := Capture{Kind: kind, Tree: node}
	switch kind {
	case grammar.KindText:
		c.Text = strings.ToLower(objectText(node))
	case grammar.KindSingular:
		c.Text = objectText(node)
	case grammar.KindRaw:
		c.Text = strings.ToLower(node.Text())
	case grammar.KindRawCased:
		c.Text = node.Text()
	}
	return c
}

// objectText joins the words under node, skipping determiners and
// possessive markers: "the wife of Obama" → "wife of Obama".
func objectText(node *parsetree.Node) string {
	var words []string
	var walk func(*parsetree.Node)
	walk = func(n *parsetree.Node) {
		if n.Label == "DT" || n.Label == "POS" {
			return
		}
		if n.IsLeaf() {
			if n.Word != "" {
				words = append(words, n.Word)
			}
			return
		}
		for _, child := range n.Children {
			walk(child)
		}
	}
	walk(node)
	return strings.Join(words, " ")
}
