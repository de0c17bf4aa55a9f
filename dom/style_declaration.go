package dom

import (
	"strings"
)

// CSSStyleDeclaration is an element's inline style, kept in sync with its
// style attribute.
type CSSStyleDeclaration struct {
	element *Element
	names   []string
	values  map[string]string
}

func newCSSStyleDeclaration(element *Element) *CSSStyleDeclaration {
	sd := &CSSStyleDeclaration{element: element}
	sd.refresh()
	return sd
}

// refresh reloads the declarations from the style attribute.
func (sd *CSSStyleDeclaration) refresh() {
	sd.names = nil
	sd.values = make(map[string]string)
	for _, part := range strings.Split(sd.element.GetAttribute("style"), ";") {
		name, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		name = normalizePropertyName(strings.TrimSpace(name))
		value = strings.TrimSpace(value)
		if name == "" || value == "" {
			continue
		}
		if _, exists := sd.values[name]; !exists {
			sd.names = append(sd.names, name)
		}
		sd.values[name] = value
	}
}

func (sd *CSSStyleDeclaration) sync() {
	if text := sd.CSSText(); text == "" {
		sd.element.removeAttributeValue("style")
	} else {
		sd.element.setAttributeValue("style", text)
	}
}

// GetPropertyValue returns the value of a property, or "".
func (sd *CSSStyleDeclaration) GetPropertyValue(name string) string {
	return sd.values[normalizePropertyName(name)]
}

// SetProperty sets a property. An empty value removes it.
func (sd *CSSStyleDeclaration) SetProperty(name, value string) {
	name = normalizePropertyName(name)
	value = strings.TrimSpace(value)
	if value == "" {
		sd.RemoveProperty(name)
		return
	}
	if _, exists := sd.values[name]; !exists {
		sd.names = append(sd.names, name)
	}
	sd.values[name] = value
	sd.sync()
}

// RemoveProperty removes a property and returns its old value.
func (sd *CSSStyleDeclaration) RemoveProperty(name string) string {
	name = normalizePropertyName(name)
	old, ok := sd.values[name]
	if !ok {
		return ""
	}
	delete(sd.values, name)
	for i, n := range sd.names {
		if n == name {
			sd.names = append(sd.names[:i], sd.names[i+1:]...)
			break
		}
	}
	sd.sync()
	return old
}

// Length returns the number of declarations.
func (sd *CSSStyleDeclaration) Length() int {
	return len(sd.names)
}

// PropertyNames returns the declared property names in order.
func (sd *CSSStyleDeclaration) PropertyNames() []string {
	return append([]string(nil), sd.names...)
}

// CSSText serializes the declarations.
func (sd *CSSStyleDeclaration) CSSText() string {
	parts := make([]string, len(sd.names))
	for i, n := range sd.names {
		parts[i] = n + ": " + sd.values[n] + ";"
	}
	return strings.Join(parts, " ")
}

// SetCSSText replaces all declarations.
func (sd *CSSStyleDeclaration) SetCSSText(text string) {
	sd.element.SetAttribute("style", text)
}

// Display returns the inline display value.
func (sd *CSSStyleDeclaration) Display() string { return sd.GetPropertyValue("display") }

// SetDisplay sets the inline display value.
func (sd *CSSStyleDeclaration) SetDisplay(v string) { sd.SetProperty("display", v) }

// Visibility returns the inline visibility value.
func (sd *CSSStyleDeclaration) Visibility() string { return sd.GetPropertyValue("visibility") }

// SetVisibility sets the inline visibility value.
func (sd *CSSStyleDeclaration) SetVisibility(v string) { sd.SetProperty("visibility", v) }

// normalizePropertyName lowercases and turns camelCase into kebab-case, so
// "backgroundColor" and "background-color" name the same property.
func normalizePropertyName(name string) string {
	if strings.Contains(name, "-") {
		return strings.ToLower(name)
	}
	var sb strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				sb.WriteByte('-')
			}
			sb.WriteRune(r - 'A' + 'a')
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
