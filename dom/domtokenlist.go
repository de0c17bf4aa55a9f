package dom

import (
	"fmt"
	"strings"
)

// DOMTokenList is the live, ordered set of space-separated tokens stored in
// one attribute of an element. Element.ClassList returns the one backed by
// the class attribute.
type DOMTokenList struct {
	element  *Element
	attrName string
}

func newDOMTokenList(element *Element, attrName string) *DOMTokenList {
	return &DOMTokenList{element: element, attrName: attrName}
}

func validateToken(token string) error {
	if token == "" {
		return ErrSyntax("the token provided must not be empty")
	}
	if strings.ContainsAny(token, " \t\n\r\f") {
		return ErrInvalidCharacter(fmt.Sprintf("the token %q contains whitespace", token))
	}
	return nil
}

// tokens returns the current tokens, deduplicated, in order.
func (dtl *DOMTokenList) tokens() []string {
	fields := strings.Fields(dtl.element.GetAttribute(dtl.attrName))
	seen := make(map[string]bool, len(fields))
	out := fields[:0]
	for _, f := range fields {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}

func (dtl *DOMTokenList) setTokens(tokens []string) {
	dtl.element.SetAttribute(dtl.attrName, strings.Join(tokens, " "))
}

// Length returns the number of tokens.
func (dtl *DOMTokenList) Length() int {
	return len(dtl.tokens())
}

// Item returns the token at index, or "".
func (dtl *DOMTokenList) Item(index int) string {
	t := dtl.tokens()
	if index < 0 || index >= len(t) {
		return ""
	}
	return t[index]
}

// Contains reports whether token is present.
func (dtl *DOMTokenList) Contains(token string) bool {
	for _, t := range dtl.tokens() {
		if t == token {
			return true
		}
	}
	return false
}

// Add appends the tokens not already present.
func (dtl *DOMTokenList) Add(tokens ...string) error {
	for _, t := range tokens {
		if err := validateToken(t); err != nil {
			return err
		}
	}
	current := dtl.tokens()
	changed := false
	for _, t := range tokens {
		if !containsToken(current, t) {
			current = append(current, t)
			changed = true
		}
	}
	if changed {
		dtl.setTokens(current)
	}
	return nil
}

// Remove drops the given tokens.
func (dtl *DOMTokenList) Remove(tokens ...string) error {
	for _, t := range tokens {
		if err := validateToken(t); err != nil {
			return err
		}
	}
	current := dtl.tokens()
	out := make([]string, 0, len(current))
	for _, t := range current {
		if !containsToken(tokens, t) {
			out = append(out, t)
		}
	}
	if len(out) != len(current) {
		dtl.setTokens(out)
	}
	return nil
}

// Toggle flips token and reports whether it is now present.
func (dtl *DOMTokenList) Toggle(token string) (bool, error) {
	if err := validateToken(token); err != nil {
		return false, err
	}
	if dtl.Contains(token) {
		return false, dtl.Remove(token)
	}
	return true, dtl.Add(token)
}

// Enable adds or removes token according to on.
func (dtl *DOMTokenList) Enable(token string, on bool) error {
	if on {
		return dtl.Add(token)
	}
	return dtl.Remove(token)
}

// Values returns the tokens.
func (dtl *DOMTokenList) Values() []string {
	return dtl.tokens()
}

// String returns the attribute value.
func (dtl *DOMTokenList) String() string {
	return dtl.element.GetAttribute(dtl.attrName)
}

func containsToken(list []string, token string) bool {
	for _, t := range list {
		if t == token {
			return true
		}
	}
	return false
}
