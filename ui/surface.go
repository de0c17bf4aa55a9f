package ui

import (
	"image"
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/chrisuehlinger/dropzone/dom"
	"github.com/chrisuehlinger/dropzone/events"
	"github.com/chrisuehlinger/dropzone/page"
	"github.com/chrisuehlinger/dropzone/render"
)

var background = color.RGBA{255, 255, 255, 255}

// Surface is a widget that paints a page and feeds it the mouse.
type Surface struct {
	widget.BaseWidget

	page   *page.Page
	image  *canvas.Image
	canvas *render.Canvas

	dirty   bool
	pressed bool
	button  int
	mod     fyne.KeyModifier
	last    fyne.Position
}

var (
	_ desktop.Mouseable = (*Surface)(nil)
	_ desktop.Hoverable = (*Surface)(nil)
	_ fyne.Draggable    = (*Surface)(nil)
	_ fyne.Scrollable   = (*Surface)(nil)
)

// NewSurface creates a surface showing p.
func NewSurface(p *page.Page) *Surface {
	s := &Surface{page: p, dirty: true}
	s.image = canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	s.image.FillMode = canvas.ImageFillStretch
	s.image.ScaleMode = canvas.ImageScalePixels
	s.ExtendBaseWidget(s)
	return s
}

// Page returns the page shown.
func (s *Surface) Page() *page.Page {
	return s.page
}

// CreateRenderer implements fyne.Widget.
func (s *Surface) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(s.image)
}

// MinSize implements fyne.CanvasObject.
func (s *Surface) MinSize() fyne.Size {
	return fyne.NewSize(320, 240)
}

// Resize sizes the widget and the page viewport together.
func (s *Surface) Resize(size fyne.Size) {
	s.BaseWidget.Resize(size)
	s.page.Resize(float64(size.Width), float64(size.Height))
	s.dirty = true
	s.Paint()
}

// Tick runs the page's due timers and repaints when anything changed.
func (s *Surface) Tick() {
	ran := s.page.Tick()
	if ran > 0 || s.dirty || s.page.Doc.LayoutDirty() {
		s.Paint()
	}
}

// Paint renders the page into the widget image.
func (s *Surface) Paint() {
	size := s.Size()
	w, h := int(math.Ceil(float64(size.Width))), int(math.Ceil(float64(size.Height)))
	if w <= 0 || h <= 0 {
		return
	}
	if s.canvas == nil || s.canvas.Width != w || s.canvas.Height != h {
		s.canvas = render.NewCanvas(w, h)
	} else {
		s.canvas.Clear(background)
	}
	s.canvas.Paint(s.page.Doc)
	s.image.Image = s.canvas.ToImage()
	s.image.Refresh()
	s.dirty = false
}

func (s *Surface) dispatch(typ events.Type, pos fyne.Position) {
	s.last = pos
	s.page.Pointer(pointerEvent(typ, pos, s.button, s.mod))
	s.dirty = true
}

// MouseDown implements desktop.Mouseable.
func (s *Surface) MouseDown(ev *desktop.MouseEvent) {
	s.pressed = true
	s.button = domButton(ev.Button)
	s.mod = ev.Modifier
	s.dispatch(dom.EventMouseDown, ev.Position)
}

// MouseUp implements desktop.Mouseable. DragEnd may have already released
// the gesture.
func (s *Surface) MouseUp(ev *desktop.MouseEvent) {
	if !s.pressed {
		return
	}
	s.pressed = false
	s.mod = ev.Modifier
	s.dispatch(dom.EventMouseUp, ev.Position)
}

// MouseIn implements desktop.Hoverable.
func (s *Surface) MouseIn(*desktop.MouseEvent) {}

// MouseMoved implements desktop.Hoverable.
func (s *Surface) MouseMoved(ev *desktop.MouseEvent) {
	s.mod = ev.Modifier
	s.dispatch(dom.EventMouseMove, ev.Position)
}

// MouseOut implements desktop.Hoverable.
func (s *Surface) MouseOut() {}

// Dragged implements fyne.Draggable. Fyne reports moves with a button held
// here rather than through MouseMoved.
func (s *Surface) Dragged(ev *fyne.DragEvent) {
	s.dispatch(dom.EventMouseMove, ev.Position)
}

// DragEnd implements fyne.Draggable.
func (s *Surface) DragEnd() {
	if !s.pressed {
		return
	}
	s.pressed = false
	s.dispatch(dom.EventMouseUp, s.last)
}

// Scrolled implements fyne.Scrollable.
func (s *Surface) Scrolled(ev *fyne.ScrollEvent) {
	dx, dy := wheelDelta(ev.Scrolled)
	s.page.Wheel(float64(ev.Position.X), float64(ev.Position.Y), dx, dy)
	s.dirty = true
}

// CancelDrag aborts the gesture in progress.
func (s *Surface) CancelDrag() {
	s.pressed = false
	s.page.CancelDrag()
	s.dirty = true
}

// Blur tells the page the window lost focus.
func (s *Surface) Blur() {
	s.pressed = false
	s.page.Blur()
	s.dirty = true
}
