// Package parsetree holds the constituency parse tree produced by the
// external parser and reads/writes it in Penn Treebank bracket notation.
package parsetree

import (
	"strings"
)

// compactWidth is the widest subtree String renders on a single line.
const compactWidth = 60

// Node is one constituent of a parse tree.
//
// Preterminals (part-of-speech tags) carry the surface word in Word and have
// no children. Phrasal nodes carry children and an empty Word.
// Nodes are immutable once Parse returns them.
type Node struct {
	Label    string
	Word     string
	Children []*Node
}

// Leaf creates a preterminal node, e.g. Leaf("NNP", "Obama").
func Leaf(label, word string) *Node {
	return &Node{Label: label, Word: word}
}

// Phrase creates a phrasal node, e.g. Phrase("NP", Leaf("NNP", "Obama")).
func Phrase(label string, children ...*Node) *Node {
	return &Node{Label: label, Children: children}
}

// IsLeaf reports whether the node is a preterminal.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Len returns the number of children.
func (n *Node) Len() int {
	return len(n.Children)
}

// Words returns the surface words under the node, left to right.
func (n *Node) Words() []string {
	var words []string
	n.walkWords(func(w string) { words = append(words, w) })
	return words
}

// Text joins the surface words with single spaces.
func (n *Node) Text() string {
	return strings.Join(n.Words(), " ")
}

func (n *Node) walkWords(fn func(string)) {
	if n.IsLeaf() {
		if n.Word != "" {
			fn(n.Word)
		}
		return
	}
	for _, child := range n.Children {
		child.walkWords(fn)
	}
}

// Compact renders the subtree on one line: (NP (NNP Barack) (NNP Obama)).
func (n *Node) Compact() string {
	var b strings.Builder
	n.writeCompact(&b)
	return b.String()
}

func (n *Node) writeCompact(b *strings.Builder) {
	b.WriteByte('(')
	b.WriteString(n.Label)
	if n.IsLeaf() {
		if n.Word != "" {
			b.WriteByte(' ')
			b.WriteString(n.Word)
		}
		b.WriteByte(')')
		return
	}
	for _, child := range n.Children {
		b.WriteByte(' ')
		child.writeCompact(b)
	}
	b.WriteByte(')')
}

// String renders the tree in indented bracket form. Subtrees that fit in
// compactWidth columns stay on one line; wider ones put each child on its
// own line, indented two spaces deeper than the parent.
func (n *Node) String() string {
	var b strings.Builder
	n.writeIndented(&b, 0)
	return b.String()
}

func (n *Node) writeIndented(b *strings.Builder, depth int) {
	compact := n.Compact()
	if n.IsLeaf() || len(compact)+2*depth <= compactWidth {
		b.WriteString(compact)
		return
	}
	b.WriteByte('(')
	b.WriteString(n.Label)
	for _, child := range n.Children {
		b.WriteByte('\n')
		b.WriteString(strings.Repeat("  ", depth+1))
		child.writeIndented(b, depth+1)
	}
	b.WriteByte(')')
}
