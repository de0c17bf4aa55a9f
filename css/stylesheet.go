// Package css parses stylesheets, matches selectors against dom elements and
// runs the cascade that turns both into computed styles for layout and
// painting.
package css

import (
	"fmt"
	"strings"

	dcss "github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
)

// Stylesheet is a parsed list of style rules.
type Stylesheet struct {
	Rules []*Rule
}

// Rule is one selector paired with its declarations. A source rule with a
// selector list yields one Rule per selector.
type Rule struct {
	Selector     *Selector
	Declarations []Declaration
}

// Declaration is a single property assignment.
type Declaration struct {
	Property  string
	Value     string
	Important bool
}

// Parse parses CSS text. At-rules are skipped, as are rules whose selectors
// this package cannot match.
func Parse(text string) (*Stylesheet, error) {
	parsed, err := parser.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("css: %w", err)
	}
	ss := &Stylesheet{}
	for _, r := range parsed.Rules {
		if r.Kind != dcss.QualifiedRule {
			continue
		}
		decls := convertDeclarations(r.Declarations)
		for _, text := range r.Selectors {
			sel, err := ParseSelector(text)
			if err != nil {
				continue
			}
			ss.Rules = append(ss.Rules, &Rule{Selector: sel, Declarations: decls})
		}
	}
	return ss, nil
}

// MustParse is Parse for stylesheets compiled into the program.
func MustParse(text string) *Stylesheet {
	ss, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return ss
}

// ParseDeclarations parses the body of a style attribute.
func ParseDeclarations(text string) ([]Declaration, error) {
	parsed, err := parser.ParseDeclarations(text)
	if err != nil {
		return nil, fmt.Errorf("css: %w", err)
	}
	return convertDeclarations(parsed), nil
}

func convertDeclarations(in []*dcss.Declaration) []Declaration {
	out := make([]Declaration, 0, len(in))
	for _, d := range in {
		out = append(out, Declaration{
			Property:  strings.ToLower(strings.TrimSpace(d.Property)),
			Value:     strings.TrimSpace(d.Value),
			Important: d.Important,
		})
	}
	return out
}
