package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"github.com/chrisuehlinger/dropzone/dom"
	"github.com/chrisuehlinger/dropzone/events"
)

// domButton maps a Fyne mouse button to a DOM button number.
func domButton(b desktop.MouseButton) int {
	switch {
	case b&desktop.MouseButtonSecondary != 0:
		return dom.ButtonSecondary
	case b&desktop.MouseButtonTertiary != 0:
		return dom.ButtonAuxiliary
	}
	return dom.ButtonPrimary
}

// pointerEvent builds a DOM pointer event at a widget-relative position,
// which is also the viewport position since the surface fills the view.
func pointerEvent(typ events.Type, pos fyne.Position, button int, mod fyne.KeyModifier) *dom.Event {
	ev := dom.NewPointerEvent(typ, float64(pos.X), float64(pos.Y))
	ev.Button = button
	ev.ShiftKey = mod&fyne.KeyModifierShift != 0
	ev.CtrlKey = mod&fyne.KeyModifierControl != 0
	ev.AltKey = mod&fyne.KeyModifierAlt != 0
	ev.MetaKey = mod&fyne.KeyModifierSuper != 0
	return ev
}

// wheelDelta converts a Fyne scroll delta, positive when content should
// move down, into DOM scroll offsets.
func wheelDelta(d fyne.Delta) (dx, dy float64) {
	return -float64(d.DX), -float64(d.DY)
}
