package parsetree

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// SyntaxError reports malformed bracket notation.
type SyntaxError struct {
	Offset  int    // Byte offset of the offending token
	Message string // Human-readable description
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("parse tree: offset %d: %s", e.Offset, e.Message)
}

// Parse reads a tree in Penn Treebank bracket notation, e.g.
//
//	(ROOT (SBARQ (WHNP (WP Who)) (SQ (VBZ is) (NP (NNP Obama))) (. ?)))
//
// Words are NFC normalized. A ROOT (or unlabeled) wrapper with a single
// child is unwrapped so rule tables can be written against SBARQ.
func Parse(s string) (*Node, error) {
	p := &bracketReader{tokens: tokenize(s)}
	if len(p.tokens) == 0 {
		return nil, &SyntaxError{Offset: 0, Message: "empty input"}
	}

	root, err := p.node()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) {
		return nil, &SyntaxError{Offset: p.tokens[p.pos].offset, Message: "unexpected trailing input"}
	}

	if (root.Label == "ROOT" || root.Label == "") && len(root.Children) == 1 {
		root = root.Children[0]
	}
	return root, nil
}

// MustParse is Parse for trees known to be well formed (tests, fixtures).
func MustParse(s string) *Node {
	n, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return n
}

type token struct {
	text   string
	offset int
}

// tokenize splits bracket notation into "(", ")" and atoms.
func tokenize(s string) []token {
	var tokens []token
	start := -1
	flush := func(end int) {
		if start >= 0 {
			tokens = append(tokens, token{text: s[start:end], offset: start})
			start = -1
		}
	}
	for i, r := range s {
		switch {
		case r == '(' || r == ')':
			flush(i)
			tokens = append(tokens, token{text: string(r), offset: i})
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			flush(i)
		default:
			if start < 0 {
				start = i
			}
		}
	}
	flush(len(s))
	return tokens
}

type bracketReader struct {
	tokens []token
	pos    int
}

func (p *bracketReader) peek() (token, bool) {
	if p.pos >= len(p.tokens) {
		return token{}, false
	}
	return p.tokens[p.pos], true
}

// node reads "(" label (atom | node)* ")".
func (p *bracketReader) node() (*Node, error) {
	open, ok := p.peek()
	if !ok || open.text != "(" {
		return nil, p.errorf("expected '('")
	}
	p.pos++

	n := &Node{}
	if tok, ok := p.peek(); ok && tok.text != "(" && tok.text != ")" {
		n.Label = tok.text
		p.pos++
	}

	var words []string
	for {
		tok, ok := p.peek()
		if !ok {
			return nil, &SyntaxError{Offset: open.offset, Message: fmt.Sprintf("unclosed %q", n.Label)}
		}
		switch tok.text {
		case ")":
			p.pos++
			if len(words) > 0 {
				if len(n.Children) > 0 {
					return nil, &SyntaxError{Offset: tok.offset, Message: fmt.Sprintf("%q mixes words and phrases", n.Label)}
				}
				n.Word = norm.NFC.String(strings.Join(words, " "))
			}
			return n, nil
		case "(":
			child, err := p.node()
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, child)
		default:
			words = append(words, tok.text)
			p.pos++
		}
	}
}

func (p *bracketReader) errorf(format string, args ...any) error {
	offset := 0
	if tok, ok := p.peek(); ok {
		offset = tok.offset
	}
	return &SyntaxError{Offset: offset, Message: fmt.Sprintf(format, args...)}
}
