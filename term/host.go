// Package term hosts a drag-and-drop page in a terminal. Each cell stands
// for a block of page pixels and shows it as two half-block colors; mouse
// reports drive the page's pointer events.
package term

import (
	"context"
	"image/color"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"go.uber.org/zap"

	"github.com/chrisuehlinger/dropzone/dom"
	"github.com/chrisuehlinger/dropzone/events"
	"github.com/chrisuehlinger/dropzone/page"
	"github.com/chrisuehlinger/dropzone/render"
)

// Cell size in page pixels.
const (
	CellWidth  = 8
	CellHeight = 16
)

const frame = 16 * time.Millisecond

var white = color.RGBA{255, 255, 255, 255}

// Option configures a Host.
type Option func(*Host)

// WithLogger sets the host logger.
func WithLogger(l *zap.Logger) Option {
	return func(h *Host) {
		if l != nil {
			h.log = l
		}
	}
}

// WithBeeper sets the cue player.
func WithBeeper(b Beeper) Option {
	return func(h *Host) {
		if b != nil {
			h.beeper = b
		}
	}
}

// Host runs one page on a tcell screen. The bottom row is a status line.
type Host struct {
	screen tcell.Screen
	page   *page.Page
	log    *zap.Logger
	beeper Beeper
	canvas *render.Canvas
	group  events.Group

	buttons tcell.ButtonMask
	holding bool
	dirty   bool
}

// NewHost binds p to screen. The screen must already be initialized.
func NewHost(screen tcell.Screen, p *page.Page, opts ...Option) *Host {
	h := &Host{
		screen: screen,
		page:   p,
		log:    zap.NewNop(),
		beeper: Silent{},
		dirty:  true,
	}
	for _, opt := range opts {
		opt(h)
	}
	screen.EnableMouse()
	screen.EnableFocus()
	h.resize()

	doc := p.Doc
	h.group.Add(doc, doc.AddEventListener(dom.EventMouseUp, func(*dom.Event) {
		if h.holding {
			h.holding = false
			h.beeper.Play(CueDrop)
		}
	}))
	h.group.Add(doc, doc.AddCaptureListener(dom.EventLostPointerCapture, func(*dom.Event) {
		if h.holding {
			h.holding = false
			h.beeper.Play(CueCancel)
		}
	}))
	return h
}

// Viewport returns the page size the screen can show.
func (h *Host) Viewport() (float64, float64) {
	w, rows := h.screen.Size()
	if rows > 0 {
		rows--
	}
	return float64(w * CellWidth), float64(rows * CellHeight)
}

func (h *Host) resize() {
	w, ht := h.Viewport()
	h.page.Resize(w, ht)
	h.dirty = true
}

// clientPoint maps a cell to the page point at its center.
func clientPoint(x, y int) (float64, float64) {
	return (float64(x) + 0.5) * CellWidth, (float64(y) + 0.5) * CellHeight
}

// HandleEvent applies one terminal event and reports whether to keep
// running.
func (h *Host) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		h.screen.Sync()
		h.resize()
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyCtrlC, ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
			return false
		case ev.Key() == tcell.KeyEscape:
			h.page.CancelDrag()
			h.dirty = true
		}
	case *tcell.EventMouse:
		h.handleMouse(ev)
	case *tcell.EventFocus:
		if !ev.Focused {
			h.page.Blur()
			h.dirty = true
		}
	}
	return true
}

func (h *Host) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	cx, cy := clientPoint(x, y)
	buttons := ev.Buttons()

	const wheel = tcell.WheelUp | tcell.WheelDown | tcell.WheelLeft | tcell.WheelRight
	if buttons&wheel != 0 {
		var dx, dy float64
		switch {
		case buttons&tcell.WheelUp != 0:
			dy = -CellHeight
		case buttons&tcell.WheelDown != 0:
			dy = CellHeight
		case buttons&tcell.WheelLeft != 0:
			dx = -CellWidth
		case buttons&tcell.WheelRight != 0:
			dx = CellWidth
		}
		h.page.Wheel(cx, cy, dx, dy)
		h.dirty = true
		return
	}

	pressed := buttons &^ h.buttons
	released := h.buttons &^ buttons
	h.buttons = buttons

	typ := dom.EventMouseMove
	btn := domButton(buttons)
	switch {
	case pressed != 0:
		typ = dom.EventMouseDown
		btn = domButton(pressed)
	case released != 0:
		typ = dom.EventMouseUp
		btn = domButton(released)
	}

	de := dom.NewPointerEvent(typ, cx, cy)
	de.Button = btn
	mod := ev.Modifiers()
	de.ShiftKey = mod&tcell.ModShift != 0
	de.CtrlKey = mod&tcell.ModCtrl != 0
	de.AltKey = mod&tcell.ModAlt != 0
	de.MetaKey = mod&tcell.ModMeta != 0
	h.page.Pointer(de)

	// A drag holds pointer capture, from the press or from once the pointer
	// has moved far enough.
	if !h.holding && h.buttons != 0 && h.page.Doc.PointerCapture() != nil {
		h.holding = true
		h.beeper.Play(CuePickup)
	}
	h.dirty = true
}

func domButton(b tcell.ButtonMask) int {
	switch {
	case b&tcell.ButtonSecondary != 0:
		return dom.ButtonSecondary
	case b&tcell.ButtonMiddle != 0:
		return dom.ButtonAuxiliary
	}
	return dom.ButtonPrimary
}

// Tick runs due page work and redraws if anything changed.
func (h *Host) Tick() {
	if h.page.Tick() > 0 || h.dirty || h.page.Doc.LayoutDirty() {
		h.Draw()
	}
}

// Draw paints the page into the screen cells.
func (h *Host) Draw() {
	cols, rows := h.screen.Size()
	pw, ph := h.Viewport()
	if cols <= 0 || rows <= 0 || pw <= 0 || ph <= 0 {
		return
	}
	if h.canvas == nil || h.canvas.Width != int(pw) || h.canvas.Height != int(ph) {
		h.canvas = render.NewCanvas(int(pw), int(ph))
	} else {
		h.canvas.Clear(white)
	}
	h.canvas.Paint(h.page.Doc)

	for y := 0; y < rows-1; y++ {
		for x := 0; x < cols; x++ {
			top := h.sample(x, y, 0)
			bottom := h.sample(x, y, CellHeight/2)
			style := tcell.StyleDefault.Foreground(top).Background(bottom)
			h.screen.SetContent(x, y, '▀', nil, style)
		}
	}
	h.drawStatus(cols, rows-1)
	h.screen.Show()
	h.dirty = false
}

// sample averages the pixels of half a cell.
func (h *Host) sample(cx, cy, dy int) tcell.Color {
	var acc colorful.Color
	n := 0
	x0, y0 := cx*CellWidth, cy*CellHeight+dy
	for y := y0; y < y0+CellHeight/2; y += 2 {
		for x := x0; x < x0+CellWidth; x += 2 {
			c, _ := colorful.MakeColor(h.canvas.GetPixel(x, y))
			acc.R += c.R
			acc.G += c.G
			acc.B += c.B
			n++
		}
	}
	if n == 0 {
		return tcell.ColorWhite
	}
	acc.R /= float64(n)
	acc.G /= float64(n)
	acc.B /= float64(n)
	r, g, b := acc.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func (h *Host) drawStatus(cols, row int) {
	text := h.page.Title
	if n := len(h.page.ScriptErrors()); n > 0 {
		text += "  [script errors]"
	}
	if h.holding {
		text += "  [dragging, Esc cancels]"
	}
	style := tcell.StyleDefault.Reverse(true)
	runes := []rune(text)
	for x := 0; x < cols; x++ {
		r := ' '
		if x < len(runes) {
			r = runes[x]
		}
		h.screen.SetContent(x, row, r, nil, style)
	}
}

// Run pumps terminal events and page timers until ctx ends or the user
// quits.
func (h *Host) Run(ctx context.Context) error {
	evs := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				close(evs)
				return
			}
			evs <- ev
		}
	}()

	ticker := time.NewTicker(frame)
	defer ticker.Stop()
	h.Draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-evs:
			if !ok || !h.HandleEvent(ev) {
				h.log.Debug("terminal host stopping")
				return nil
			}
		case <-ticker.C:
			h.Tick()
		}
	}
}

// Close detaches the host from the page.
func (h *Host) Close() {
	h.group.RemoveAll()
	h.beeper.Close()
}
