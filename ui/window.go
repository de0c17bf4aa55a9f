// Package ui hosts drag-and-drop pages in a Fyne window, one tab per page.
package ui

import "github.com/chrisuehlinger/dropzone/page"

// Window describes the main window.
type Window struct {
	Width  int
	Height int
	Title  string
}

// Tab is one open page.
type Tab struct {
	Page  *page.Page
	Title string
}

// Workspace is the set of open pages and which one has focus.
type Workspace struct {
	Window *Window
	Tabs   []*Tab
	Active int
}

// NewWorkspace creates an empty workspace.
func NewWorkspace(width, height int) *Workspace {
	return &Workspace{
		Window: &Window{
			Width:  width,
			Height: height,
			Title:  "Drop zone",
		},
		Tabs:   make([]*Tab, 0),
		Active: -1,
	}
}

// Open adds a tab for p and makes it active.
func (w *Workspace) Open(p *page.Page) *Tab {
	tab := &Tab{Page: p, Title: shortTitle(p.Title)}
	w.Tabs = append(w.Tabs, tab)
	w.Active = len(w.Tabs) - 1
	return tab
}

// Close closes the tab at index and releases its page.
func (w *Workspace) Close(index int) {
	if index < 0 || index >= len(w.Tabs) {
		return
	}
	w.Tabs[index].Page.Close()
	w.Tabs = append(w.Tabs[:index], w.Tabs[index+1:]...)
	if w.Active >= len(w.Tabs) {
		w.Active = len(w.Tabs) - 1
	}
}

// Replace swaps the page of the tab at index, closing the old one.
func (w *Workspace) Replace(index int, p *page.Page) {
	if index < 0 || index >= len(w.Tabs) {
		return
	}
	w.Tabs[index].Page.Close()
	w.Tabs[index].Page = p
	w.Tabs[index].Title = shortTitle(p.Title)
}

// ActiveTab returns the focused tab, or nil if none.
func (w *Workspace) ActiveTab() *Tab {
	if w.Active < 0 || w.Active >= len(w.Tabs) {
		return nil
	}
	return w.Tabs[w.Active]
}

// IndexOf returns the index of tab, or -1.
func (w *Workspace) IndexOf(tab *Tab) int {
	for i, t := range w.Tabs {
		if t == tab {
			return i
		}
	}
	return -1
}

func shortTitle(title string) string {
	r := []rune(title)
	if len(r) > 30 {
		return string(r[:27]) + "..."
	}
	return title
}
