package js

import (
	"fmt"
	"strings"

	"github.com/chrisuehlinger/dropzone/dom"
)

// ExecuteScripts runs every inline script element of the bound document in
// tree order. A failing script does not stop the ones after it.
func (r *Runtime) ExecuteScripts() []error {
	var scripts []*dom.Element
	r.doc.Walk(func(e *dom.Element) bool {
		if e.LocalName() == "script" {
			scripts = append(scripts, e)
		}
		return true
	})

	var errs []error
	for _, script := range scripts {
		if err := r.executeScript(script); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// executeScript executes a single script element.
func (r *Runtime) executeScript(script *dom.Element) error {
	// Check if this is JavaScript (or has no type, which defaults to JavaScript)
	switch script.GetAttribute("type") {
	case "", "text/javascript", "application/javascript":
	default:
		return nil
	}
	if script.HasAttribute("src") {
		src := script.GetAttribute("src")
		if r.fetch == nil {
			return nil
		}
		content, err := r.fetch(src)
		if err != nil {
			err = fmt.Errorf("load script %s: %w", src, err)
			r.report(err)
			return err
		}
		return r.ExecuteExternalScript(content, src)
	}

	code := strings.TrimSpace(script.TextContent())
	if code == "" {
		return nil
	}

	id := script.Id()
	if id == "" {
		id = "inline"
	}
	return r.ExecuteScript(code, id)
}

// ExecuteExternalScript executes script content loaded from name, which is
// used for error reporting.
func (r *Runtime) ExecuteExternalScript(content, name string) error {
	code := strings.TrimSpace(content)
	if code == "" {
		return nil
	}
	return r.ExecuteScript(code, name)
}
