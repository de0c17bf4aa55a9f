package css

import (
	"fmt"
	"strings"

	"github.com/chrisuehlinger/dropzone/dom"
)

// Selector is a complex selector: compounds joined by descendant or child
// combinators. Parts are stored right to left, the subject first.
type Selector struct {
	parts []compound
	text  string
}

type combinator int

const (
	combNone combinator = iota
	combDescendant
	combChild
)

type attrMatch struct {
	name  string
	value string
	op    string // "" for presence, "=" for equality
}

// compound is a sequence of simple selectors; comb links it to the compound
// on its left.
type compound struct {
	tag     string
	id      string
	classes []string
	attrs   []attrMatch
	comb    combinator
}

// Specificity is the (ids, classes, types) selector weight.
type Specificity [3]int

// Less orders specificities.
func (s Specificity) Less(o Specificity) bool {
	for i := range s {
		if s[i] != o[i] {
			return s[i] < o[i]
		}
	}
	return false
}

// ParseSelector parses a complex selector such as "ul.list > li#a".
func ParseSelector(text string) (*Selector, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("css: empty selector")
	}
	// Left to right: parts[i] is joined to parts[i+1] by combs[i].
	var parts []compound
	var combs []combinator
	pending := combNone
	for _, tok := range splitSelector(text) {
		if tok == ">" {
			if len(parts) == 0 || pending == combChild {
				return nil, fmt.Errorf("css: misplaced combinator in %q", text)
			}
			pending = combChild
			continue
		}
		c, err := parseCompound(tok)
		if err != nil {
			return nil, fmt.Errorf("css: %q: %w", text, err)
		}
		if len(parts) > 0 {
			if pending == combNone {
				pending = combDescendant
			}
			combs = append(combs, pending)
		}
		pending = combNone
		parts = append(parts, c)
	}
	if pending != combNone || len(parts) == 0 {
		return nil, fmt.Errorf("css: dangling combinator in %q", text)
	}

	n := len(parts)
	reversed := make([]compound, n)
	for k := range reversed {
		reversed[k] = parts[n-1-k]
		if k < n-1 {
			reversed[k].comb = combs[n-2-k]
		}
	}
	return &Selector{parts: reversed, text: text}, nil
}

// splitSelector splits on whitespace and '>' outside brackets.
func splitSelector(text string) []string {
	var toks []string
	var cur strings.Builder
	depth := 0
	flush := func() {
		if cur.Len() > 0 {
			toks = append(toks, cur.String())
			cur.Reset()
		}
	}
	for _, r := range text {
		switch {
		case r == '[':
			depth++
			cur.WriteRune(r)
		case r == ']':
			depth--
			cur.WriteRune(r)
		case depth == 0 && (r == ' ' || r == '\t' || r == '\n'):
			flush()
		case depth == 0 && r == '>':
			flush()
			toks = append(toks, ">")
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return toks
}

func parseCompound(s string) (compound, error) {
	var c compound
	i := 0
	readIdent := func() string {
		start := i
		for i < len(s) && isIdentChar(s[i]) {
			i++
		}
		return s[start:i]
	}
	if s[0] == '*' {
		i++
	} else if isIdentChar(s[0]) {
		c.tag = strings.ToLower(readIdent())
	}
	for i < len(s) {
		switch s[i] {
		case '#':
			i++
			if c.id = readIdent(); c.id == "" {
				return c, fmt.Errorf("empty id")
			}
		case '.':
			i++
			cls := readIdent()
			if cls == "" {
				return c, fmt.Errorf("empty class")
			}
			c.classes = append(c.classes, cls)
		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return c, fmt.Errorf("unterminated attribute selector")
			}
			body := s[i+1 : i+end]
			i += end + 1
			name, value, hasValue := strings.Cut(body, "=")
			a := attrMatch{name: strings.ToLower(strings.TrimSpace(name))}
			if hasValue {
				a.op = "="
				a.value = strings.Trim(strings.TrimSpace(value), `"'`)
			}
			c.attrs = append(c.attrs, a)
		default:
			return c, fmt.Errorf("unsupported selector syntax %q", s[i:])
		}
	}
	return c, nil
}

func isIdentChar(b byte) bool {
	return b == '-' || b == '_' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

// String returns the source text.
func (s *Selector) String() string {
	return s.text
}

// Specificity returns the selector's weight.
func (s *Selector) Specificity() Specificity {
	var sp Specificity
	for _, c := range s.parts {
		if c.id != "" {
			sp[0]++
		}
		sp[1] += len(c.classes) + len(c.attrs)
		if c.tag != "" {
			sp[2]++
		}
	}
	return sp
}

// Matches reports whether el is matched by the selector.
func (s *Selector) Matches(el *dom.Element) bool {
	return s.matchFrom(0, el)
}

func (s *Selector) matchFrom(i int, el *dom.Element) bool {
	c := s.parts[i]
	if !c.matches(el) {
		return false
	}
	if i == len(s.parts)-1 {
		return true
	}
	switch c.comb {
	case combChild:
		p := el.ParentElement()
		return p != nil && s.matchFrom(i+1, p)
	default:
		for p := el.ParentElement(); p != nil; p = p.ParentElement() {
			if s.matchFrom(i+1, p) {
				return true
			}
		}
		return false
	}
}

func (c *compound) matches(el *dom.Element) bool {
	if c.tag != "" && c.tag != el.LocalName() {
		return false
	}
	if c.id != "" && c.id != el.Id() {
		return false
	}
	if len(c.classes) > 0 {
		cl := el.ClassList()
		for _, cls := range c.classes {
			if !cl.Contains(cls) {
				return false
			}
		}
	}
	for _, a := range c.attrs {
		v, ok := el.LookupAttribute(a.name)
		if !ok || (a.op == "=" && v != a.value) {
			return false
		}
	}
	return true
}

// QuerySelectorAll returns the elements under root matching text, in tree
// order.
func QuerySelectorAll(doc *dom.Document, text string) ([]*dom.Element, error) {
	sel, err := ParseSelector(text)
	if err != nil {
		return nil, err
	}
	var out []*dom.Element
	doc.Walk(func(e *dom.Element) bool {
		if sel.Matches(e) {
			out = append(out, e)
		}
		return true
	})
	return out, nil
}
