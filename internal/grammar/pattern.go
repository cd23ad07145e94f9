package grammar

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind selects how a capture's value is extracted from the matched node.
type Kind int

const (
	// KindSubtree binds the matched node itself.
	KindSubtree Kind = iota
	// KindText binds the object words, lower-cased ("-o").
	KindText
	// KindSingular binds the object words with case kept and marks them
	// for singularization ("-O").
	KindSingular
	// KindRaw binds every word, lower-cased ("-r").
	KindRaw
	// KindRawCased binds every word with case kept ("-R").
	KindRawCased
)

var kindSuffixes = map[string]Kind{
	"o": KindText,
	"O": KindSingular,
	"r": KindRaw,
	"R": KindRawCased,
}

// String returns the suffix form of the kind ("" for subtrees).
func (k Kind) String() string {
	for suffix, kind := range kindSuffixes {
		if kind == k {
			return suffix
		}
	}
	return ""
}

// IsText reports whether the kind binds text rather than a subtree.
func (k Kind) IsText() bool {
	return k != KindSubtree
}

// captureName matches legal capture identifiers (prop_match_t, value_units).
var captureName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Pattern is a compiled tree-matching expression.
type Pattern struct {
	// Labels are the acceptable node labels. Nil means any label (".").
	Labels []string

	// Capture names the binding produced by this node ("" = none).
	Capture string

	// Kind selects the capture's value extraction.
	Kind Kind

	// Literals, when non-empty, pin the node's lower-cased raw text.
	Literals []string

	// Anchored forbids node children beyond len(Children) ("$").
	Anchored bool

	// Children are matched positionally against the node's children.
	Children []*Pattern
}

// SyntaxError reports malformed pattern source.
type SyntaxError struct {
	Source  string // Full pattern source
	Offset  int    // Byte offset of the offending token
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("pattern %q: offset %d: %s", e.Source, e.Offset, e.Message)
}

// Compile parses pattern source into a Pattern.
//
// Capture names must be unique within a pattern. A bare head such as
// "NP:subject-o" compiles to a childless pattern.
func Compile(src string) (*Pattern, error) {
	c := &patternCompiler{src: src, tokens: lex(src), seen: make(map[string]bool)}
	if len(c.tokens) == 0 {
		return nil, c.errorf(0, "empty pattern")
	}

	p, err := c.element()
	if err != nil {
		return nil, err
	}
	if c.pos < len(c.tokens) {
		return nil, c.errorf(c.tokens[c.pos].offset, "unexpected %q after pattern", c.tokens[c.pos].text)
	}
	return p, nil
}

// MustCompile is Compile for pattern literals known to be valid.
func MustCompile(src string) *Pattern {
	p, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return p
}

// Captures lists the capture names declared in the pattern, depth-first.
func (p *Pattern) Captures() []string {
	var names []string
	p.walk(func(n *Pattern) {
		if n.Capture != "" {
			names = append(names, n.Capture)
		}
	})
	return names
}

// CaptureKind returns the kind of the named capture.
func (p *Pattern) CaptureKind(name string) (Kind, bool) {
	var (
		kind  Kind
		found bool
	)
	p.walk(func(n *Pattern) {
		if n.Capture == name {
			kind, found = n.Kind, true
		}
	})
	return kind, found
}

func (p *Pattern) walk(fn func(*Pattern)) {
	fn(p)
	for _, child := range p.Children {
		child.walk(fn)
	}
}

// String renders the pattern in canonical source form.
func (p *Pattern) String() string {
	var b strings.Builder
	p.write(&b)
	return b.String()
}

func (p *Pattern) write(b *strings.Builder) {
	b.WriteString("( ")
	b.WriteString(p.head())
	for _, child := range p.Children {
		b.WriteByte(' ')
		child.write(b)
	}
	if p.Anchored {
		b.WriteString(" $")
	}
	b.WriteString(" )")
}

func (p *Pattern) head() string {
	var b strings.Builder
	if p.Labels == nil {
		b.WriteByte('.')
	} else {
		b.WriteString(strings.Join(p.Labels, "/"))
	}
	if p.Capture != "" {
		b.WriteByte(':')
		b.WriteString(p.Capture)
		if suffix := p.Kind.String(); suffix != "" {
			b.WriteByte('-')
			b.WriteString(suffix)
		}
	}
	if len(p.Literals) > 0 {
		b.WriteByte('=')
		b.WriteString(strings.Join(p.Literals, "|"))
	}
	return b.String()
}

type patternToken struct {
	text   string
	offset int
}

// lex splits pattern source into "(", ")" and heads; whitespace separates.
func lex(src string) []patternToken {
	var tokens []patternToken
	start := -1
	flush := func(end int) {
		if start >= 0 {
			tokens = append(tokens, patternToken{text: src[start:end], offset: start})
			start = -1
		}
	}
	for i, r := range src {
		switch {
		case r == '(' || r == ')':
			flush(i)
			tokens = append(tokens, patternToken{text: string(r), offset: i})
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			flush(i)
		default:
			if start < 0 {
				start = i
			}
		}
	}
	flush(len(src))
	return tokens
}

type patternCompiler struct {
	src    string
	tokens []patternToken
	pos    int
	seen   map[string]bool
}

func (c *patternCompiler) errorf(offset int, format string, args ...any) *SyntaxError {
	return &SyntaxError{Source: c.src, Offset: offset, Message: fmt.Sprintf(format, args...)}
}

// element reads either a parenthesized pattern or a bare head.
func (c *patternCompiler) element() (*Pattern, error) {
	tok := c.tokens[c.pos]
	switch tok.text {
	case "(":
		return c.group()
	case ")", "$":
		return nil, c.errorf(tok.offset, "unexpected %q", tok.text)
	default:
		c.pos++
		return c.parseHead(tok)
	}
}

// group reads "(" head child* ["$"] ")".
func (c *patternCompiler) group() (*Pattern, error) {
	open := c.tokens[c.pos]
	c.pos++
	if c.pos >= len(c.tokens) {
		return nil, c.errorf(open.offset, "unclosed '('")
	}

	headTok := c.tokens[c.pos]
	if headTok.text == "(" || headTok.text == ")" || headTok.text == "$" {
		return nil, c.errorf(headTok.offset, "expected node label, got %q", headTok.text)
	}
	c.pos++
	p, err := c.parseHead(headTok)
	if err != nil {
		return nil, err
	}

	for {
		if c.pos >= len(c.tokens) {
			return nil, c.errorf(open.offset, "unclosed '('")
		}
		tok := c.tokens[c.pos]
		switch tok.text {
		case ")":
			c.pos++
			return p, nil
		case "$":
			c.pos++
			if c.pos >= len(c.tokens) || c.tokens[c.pos].text != ")" {
				return nil, c.errorf(tok.offset, "'$' must be the last element before ')'")
			}
			p.Anchored = true
		default:
			child, err := c.element()
			if err != nil {
				return nil, err
			}
			p.Children = append(p.Children, child)
		}
	}
}

// parseHead reads labels[:capture[-kind]][=literal|literal].
func (c *patternCompiler) parseHead(tok patternToken) (*Pattern, error) {
	p := &Pattern{}
	head, literals, hasLiteral := strings.Cut(tok.text, "=")
	if hasLiteral {
		for _, lit := range strings.Split(literals, "|") {
			if lit == "" {
				return nil, c.errorf(tok.offset, "empty literal in %q", tok.text)
			}
			p.Literals = append(p.Literals, strings.ToLower(lit))
		}
	}

	labels, capture, hasCapture := strings.Cut(head, ":")
	if labels == "" {
		return nil, c.errorf(tok.offset, "missing node label in %q", tok.text)
	}
	if labels != "." {
		for _, label := range strings.Split(labels, "/") {
			if label == "" {
				return nil, c.errorf(tok.offset, "empty label alternative in %q", tok.text)
			}
			p.Labels = append(p.Labels, label)
		}
	}

	if hasCapture {
		name := capture
		if i := strings.LastIndex(capture, "-"); i >= 0 {
			kind, ok := kindSuffixes[capture[i+1:]]
			if !ok {
				return nil, c.errorf(tok.offset, "unknown capture kind %q", capture[i+1:])
			}
			name, p.Kind = capture[:i], kind
		}
		if !captureName.MatchString(name) {
			return nil, c.errorf(tok.offset, "invalid capture name %q", name)
		}
		if c.seen[name] {
			return nil, c.errorf(tok.offset, "duplicate capture %q", name)
		}
		c.seen[name] = true
		p.Capture = name
	}
	return p, nil
}
