package css

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/chrisuehlinger/dropzone/dom"
)

// Cascade layers, lowest precedence first.
const (
	layerUserAgent = iota
	layerAuthor
	layerInline
	layerAuthorImportant
	layerInlineImportant
	layerUserAgentImportant
)

// DefaultFontSize is the root font size in pixels.
const DefaultFontSize = 13

// inherited lists the properties children take from their parent.
var inherited = map[string]bool{
	"color":          true,
	"visibility":     true,
	"pointer-events": true,
	"cursor":         true,
	"font-size":      true,
	"font-weight":    true,
	"white-space":    true,
}

// initial holds properties with a non-empty initial value.
var initial = map[string]string{
	"display":          "block",
	"position":         "static",
	"visibility":       "visible",
	"pointer-events":   "auto",
	"overflow":         "visible",
	"flex-direction":   "row",
	"flex-wrap":        "nowrap",
	"color":            "black",
	"background-color": "transparent",
	"border-style":     "none",
	"width":            "auto",
	"height":           "auto",
	"left":             "auto",
	"top":              "auto",
	"z-index":          "auto",
}

// StyleResolver runs the cascade for elements of one document.
type StyleResolver struct {
	userAgent *Stylesheet
	author    []*Stylesheet
}

// NewStyleResolver creates a resolver holding the default stylesheet.
func NewStyleResolver() *StyleResolver {
	return &StyleResolver{userAgent: MustParse(UserAgentStylesheet)}
}

// AddAuthorStylesheet appends a document stylesheet.
func (sr *StyleResolver) AddAuthorStylesheet(ss *Stylesheet) {
	sr.author = append(sr.author, ss)
}

// ForDocument creates a resolver carrying every stylesheet of doc. Sheets
// that fail to parse are skipped.
func ForDocument(doc *dom.Document) *StyleResolver {
	sr := NewStyleResolver()
	for _, text := range doc.StyleSheets() {
		if ss, err := Parse(text); err == nil {
			sr.AddAuthorStylesheet(ss)
		}
	}
	return sr
}

type matched struct {
	decl        Declaration
	layer       int
	specificity Specificity
	order       int
}

// ResolveStyles computes el's style given its parent's computed style.
func (sr *StyleResolver) ResolveStyles(el *dom.Element, parent *ComputedStyle) *ComputedStyle {
	var decls []matched
	order := 0
	collect := func(ss *Stylesheet, normal, important int) {
		for _, r := range ss.Rules {
			if !r.Selector.Matches(el) {
				continue
			}
			sp := r.Selector.Specificity()
			for _, d := range r.Declarations {
				layer := normal
				if d.Important {
					layer = important
				}
				decls = append(decls, matched{decl: d, layer: layer, specificity: sp, order: order})
				order++
			}
		}
	}
	collect(sr.userAgent, layerUserAgent, layerUserAgentImportant)
	for _, ss := range sr.author {
		collect(ss, layerAuthor, layerAuthorImportant)
	}
	inline := el.Style()
	for _, name := range inline.PropertyNames() {
		value := inline.GetPropertyValue(name)
		layer := layerInline
		if v, ok := strings.CutSuffix(value, "!important"); ok {
			value, layer = strings.TrimSpace(v), layerInlineImportant
		}
		decls = append(decls, matched{decl: Declaration{Property: name, Value: value}, layer: layer, order: order})
		order++
	}

	sort.SliceStable(decls, func(i, j int) bool {
		a, b := decls[i], decls[j]
		if a.layer != b.layer {
			return a.layer < b.layer
		}
		if a.specificity != b.specificity {
			return a.specificity.Less(b.specificity)
		}
		return a.order < b.order
	})

	cs := &ComputedStyle{values: make(map[string]string), parent: parent}
	if parent != nil {
		for prop := range inherited {
			if v, ok := parent.values[prop]; ok {
				cs.values[prop] = v
			}
		}
	}
	for _, m := range decls {
		for _, d := range expandShorthand(m.decl.Property, m.decl.Value) {
			cs.apply(d[0], d[1])
		}
	}
	return cs
}

func (cs *ComputedStyle) apply(prop, value string) {
	switch strings.ToLower(value) {
	case "inherit":
		if cs.parent != nil {
			if v, ok := cs.parent.values[prop]; ok {
				cs.values[prop] = v
				return
			}
		}
		delete(cs.values, prop)
	case "initial":
		delete(cs.values, prop)
	default:
		cs.values[prop] = value
	}
}

// expandShorthand splits margin, padding, border and background into
// longhand pairs.
func expandShorthand(prop, value string) [][2]string {
	sides := [4]string{"top", "right", "bottom", "left"}
	switch prop {
	case "margin", "padding":
		v := boxValues(value)
		out := make([][2]string, 4)
		for i, s := range sides {
			out[i] = [2]string{prop + "-" + s, v[i]}
		}
		return out
	case "border-width", "border-color":
		kind := strings.TrimPrefix(prop, "border-")
		v := boxValues(value)
		out := make([][2]string, 4)
		for i, s := range sides {
			out[i] = [2]string{"border-" + s + "-" + kind, v[i]}
		}
		return out
	case "border":
		var out [][2]string
		for _, f := range strings.Fields(value) {
			switch {
			case isBorderStyle(f):
				out = append(out, [2]string{"border-style", f})
			case isLengthToken(f):
				for _, s := range sides {
					out = append(out, [2]string{"border-" + s + "-width", f})
				}
			default:
				for _, s := range sides {
					out = append(out, [2]string{"border-" + s + "-color", f})
				}
			}
		}
		return out
	case "background":
		return [][2]string{{"background-color", value}}
	}
	return [][2]string{{prop, value}}
}

// boxValues applies the 1-to-4 value expansion of box shorthands.
func boxValues(value string) [4]string {
	f := strings.Fields(value)
	switch len(f) {
	case 1:
		return [4]string{f[0], f[0], f[0], f[0]}
	case 2:
		return [4]string{f[0], f[1], f[0], f[1]}
	case 3:
		return [4]string{f[0], f[1], f[2], f[1]}
	case 4:
		return [4]string{f[0], f[1], f[2], f[3]}
	}
	return [4]string{"0", "0", "0", "0"}
}

func isBorderStyle(s string) bool {
	switch s {
	case "none", "hidden", "solid", "dashed", "dotted", "double":
		return true
	}
	return false
}

func isLengthToken(s string) bool {
	_, ok := parseLength(s, 0)
	return ok
}

// ComputedStyle is the cascaded style of one element.
type ComputedStyle struct {
	values map[string]string
	parent *ComputedStyle
}

// Get returns a property's value, falling back to its initial value.
func (cs *ComputedStyle) Get(prop string) string {
	if v, ok := cs.values[prop]; ok {
		return v
	}
	return initial[prop]
}

// Keyword returns a property's value lower-cased.
func (cs *ComputedStyle) Keyword(prop string) string {
	return strings.ToLower(cs.Get(prop))
}

// Display returns the display keyword.
func (cs *ComputedStyle) Display() string { return cs.Keyword("display") }

// Position returns the position keyword.
func (cs *ComputedStyle) Position() string { return cs.Keyword("position") }

// Visible reports whether visibility is "visible".
func (cs *ComputedStyle) Visible() bool { return cs.Keyword("visibility") == "visible" }

// PointerEvents reports whether the element takes part in hit testing.
func (cs *ComputedStyle) PointerEvents() bool { return cs.Keyword("pointer-events") != "none" }

// Scrolls reports whether the element clips and scrolls its content.
func (cs *ComputedStyle) Scrolls() bool {
	switch cs.Keyword("overflow") {
	case "auto", "scroll", "hidden":
		return true
	}
	return false
}

// FontSize returns the font size in pixels.
func (cs *ComputedStyle) FontSize() float64 {
	v, ok := parseLength(cs.Get("font-size"), DefaultFontSize)
	if !ok {
		return DefaultFontSize
	}
	return v
}

// Length resolves a length property against ref, the size percentages refer
// to. ok is false for auto and for missing or invalid values.
func (cs *ComputedStyle) Length(prop string, ref float64) (float64, bool) {
	return parseLength(cs.Get(prop), ref)
}

// LengthOr is Length with a fallback.
func (cs *ComputedStyle) LengthOr(prop string, ref, fallback float64) float64 {
	if v, ok := cs.Length(prop, ref); ok {
		return v
	}
	return fallback
}

// ZIndex returns the z-index, or 0 for auto.
func (cs *ComputedStyle) ZIndex() int {
	n, err := strconv.Atoi(cs.Get("z-index"))
	if err != nil {
		return 0
	}
	return n
}

// parseLength parses px, unitless, em and percentage lengths.
func parseLength(s string, ref float64) (float64, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "auto" {
		return 0, false
	}
	mul := 1.0
	switch {
	case strings.HasSuffix(s, "px"):
		s = s[:len(s)-2]
	case strings.HasSuffix(s, "em"):
		s, mul = s[:len(s)-2], DefaultFontSize
	case strings.HasSuffix(s, "%"):
		s, mul = s[:len(s)-1], ref/100
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v * mul, true
}
