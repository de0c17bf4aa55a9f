// Package page loads an HTML document and its scripts into a live page:
// parsed, laid out, scripted and ready for a host to feed pointer input
// and paint.
package page

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/chrisuehlinger/dropzone/config"
	"github.com/chrisuehlinger/dropzone/dom"
	"github.com/chrisuehlinger/dropzone/html"
	"github.com/chrisuehlinger/dropzone/js"
	"github.com/chrisuehlinger/dropzone/layout"
	"github.com/chrisuehlinger/dropzone/network"
	"github.com/chrisuehlinger/dropzone/sched"
)

// Script is extra script content run after the page's inline scripts.
type Script struct {
	Name    string
	Content string
}

type options struct {
	log     *zap.Logger
	cfg     config.Config
	loop    *sched.Loop
	width   float64
	height  float64
	scripts []Script
	prepare []func(*js.Runtime)
	ctx     context.Context
	loader  *network.Loader
	base    string
}

// Option configures Open.
type Option func(*options)

// WithLogger sets the logger shared by layout and scripts.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithConfig sets the engine defaults scripts build on.
func WithConfig(cfg config.Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithLoop drives the page from loop instead of a wall-clock one.
func WithLoop(l *sched.Loop) Option {
	return func(o *options) { o.loop = l }
}

// WithViewport sets the initial viewport size.
func WithViewport(width, height float64) Option {
	return func(o *options) { o.width, o.height = width, height }
}

// WithScript queues a script to run after the inline ones.
func WithScript(name, content string) Option {
	return func(o *options) {
		o.scripts = append(o.scripts, Script{Name: name, Content: content})
	}
}

// WithRuntimeSetup calls fn on the fresh runtime before any script runs,
// so it can install extra globals.
func WithRuntimeSetup(fn func(*js.Runtime)) Option {
	return func(o *options) { o.prepare = append(o.prepare, fn) }
}

// WithLoader fetches the page's external scripts and stylesheets through l.
// Without it only local files and data URLs are read.
func WithLoader(l *network.Loader) Option {
	return func(o *options) { o.loader = l }
}

// WithBase sets the URL relative script and stylesheet references resolve
// against.
func WithBase(url string) Option {
	return func(o *options) { o.base = url }
}

// WithContext bounds the fetches made while loading.
func WithContext(ctx context.Context) Option {
	return func(o *options) { o.ctx = ctx }
}

// Page is a loaded document with its script runtime.
type Page struct {
	Name    string
	Title   string
	Doc     *dom.Document
	Runtime *js.Runtime

	log *zap.Logger
}

// Open parses r as HTML and runs its scripts. Script failures are logged
// and kept on the runtime; only a parse failure fails the load.
func Open(name string, r io.Reader, opts ...Option) (*Page, error) {
	o := options{log: zap.NewNop(), cfg: config.Default(), width: 800, height: 600, ctx: context.Background()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.loader == nil {
		o.loader = network.NewLoader(network.WithLogger(o.log.Named("network")))
	}

	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	if o.loop != nil {
		doc.SetLoop(o.loop)
	}
	doc.SetViewportSize(o.width, o.height)
	layout.Attach(doc, layout.WithLogger(o.log.Named("layout")))

	p := &Page{
		Name:  name,
		Title: titleOf(doc, name),
		Doc:   doc,
		log:   o.log.With(zap.String("page", name)),
	}
	p.Runtime = js.NewRuntime(doc,
		js.WithLogger(o.log.Named("js")),
		js.WithConfig(o.cfg),
		js.WithScriptSource(func(src string) (string, error) {
			res, err := o.loader.Load(o.ctx, o.base, src)
			if err != nil {
				return "", err
			}
			return res.String(), nil
		}))
	for _, fn := range o.prepare {
		fn(p.Runtime)
	}

	errs := p.loadStyleSheets(o)
	errs = append(errs, p.Runtime.ExecuteScripts()...)
	for _, s := range o.scripts {
		if err := p.Runtime.ExecuteExternalScript(s.Content, s.Name); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		p.log.Warn("page resources or scripts failed", zap.Int("count", len(errs)), zap.Errors("errors", errs))
	}
	p.log.Info("page loaded", zap.String("title", p.Title))
	return p, nil
}

// OpenFile opens the HTML file at path.
func OpenFile(path string, opts ...Option) (*Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer f.Close()
	base, err := network.FileURL(path)
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	return Open(filepath.Base(path), f, append([]Option{WithBase(base)}, opts...)...)
}

func titleOf(doc *dom.Document, fallback string) string {
	title := ""
	doc.Walk(func(e *dom.Element) bool {
		if title == "" && e.LocalName() == "title" {
			title = strings.TrimSpace(e.TextContent())
			return false
		}
		return true
	})
	if title == "" {
		return fallback
	}
	return title
}

// Tick runs due timers and tasks and reports how many ran.
func (p *Page) Tick() int {
	return p.Doc.Loop().Process()
}

// Pointer dispatches a host pointer event.
func (p *Page) Pointer(ev *dom.Event) bool {
	return p.Doc.DispatchPointer(ev)
}

// Resize changes the viewport.
func (p *Page) Resize(width, height float64) {
	p.Doc.SetViewportSize(width, height)
}

// Wheel scrolls the innermost scrollable element under the client point,
// or the page when none can move in that direction.
func (p *Page) Wheel(clientX, clientY, dx, dy float64) {
	for el := p.Doc.ElementFromPoint(clientX, clientY); el != nil; el = el.ParentElement() {
		if el == p.Doc.DocumentElement() || el == p.Doc.Body() {
			break
		}
		moved := false
		if dy != 0 && el.ScrollHeight() > el.ClientHeight() {
			before := el.ScrollTop()
			el.SetScrollTop(before + dy)
			moved = el.ScrollTop() != before
		}
		if dx != 0 && el.ScrollWidth() > el.ClientWidth() {
			before := el.ScrollLeft()
			el.SetScrollLeft(before + dx)
			moved = moved || el.ScrollLeft() != before
		}
		if moved {
			return
		}
	}
	p.Doc.ScrollBy(dx, dy)
}

// CancelDrag ends any pointer gesture in progress, as when the user
// presses Escape.
func (p *Page) CancelDrag() {
	p.Doc.LosePointerCapture()
}

// Blur tells the page its window lost focus.
func (p *Page) Blur() {
	p.Doc.Blur()
}

// ScriptErrors returns the errors scripts raised so far.
func (p *Page) ScriptErrors() []error {
	return p.Runtime.Errors()
}

// Close releases everything the page's scripts created.
func (p *Page) Close() {
	p.Runtime.Dispose()
	p.log.Debug("page closed")
}
