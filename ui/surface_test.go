package ui

import (
	"strings"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisuehlinger/dropzone/dom"
	"github.com/chrisuehlinger/dropzone/page"
)

const listPage = `<html><head><style>
body { margin: 0; }
.item { height: 20px; background: #336699; }
</style></head><body>
<div id="list"><div class="item" id="A"></div><div class="item" id="B"></div><div class="item" id="C"></div></div>
<script>
var g = draglist.group({hysteresis: 0});
g.addDragList(document.getElementById("list"), "down");
g.init();
</script>
</body></html>`

func newSurface(t *testing.T) *Surface {
	t.Helper()
	test.NewTempApp(t)
	p, err := page.Open("list.html", strings.NewReader(listPage))
	require.NoError(t, err)
	t.Cleanup(p.Close)
	s := NewSurface(p)
	s.Resize(fyne.NewSize(200, 100))
	return s
}

func order(s *Surface) string {
	var ids []string
	for _, c := range s.Page().Doc.GetElementById("list").Children() {
		ids = append(ids, c.Id())
	}
	return strings.Join(ids, "")
}

func mouse(x, y float32) *desktop.MouseEvent {
	ev := &desktop.MouseEvent{Button: desktop.MouseButtonPrimary}
	ev.Position = fyne.NewPos(x, y)
	return ev
}

func drag(x, y float32) *fyne.DragEvent {
	ev := &fyne.DragEvent{}
	ev.Position = fyne.NewPos(x, y)
	return ev
}

func TestSurface_ResizeSetsViewportAndPaints(t *testing.T) {
	s := newSurface(t)
	assert.Equal(t, 200.0, s.Page().Doc.ViewportSize().Width)
	require.NotNil(t, s.canvas)
	assert.Equal(t, 200, s.canvas.Width)
	assert.Equal(t, 100, s.canvas.Height)
	assert.False(t, s.dirty)
}

func TestSurface_DragReordersList(t *testing.T) {
	s := newSurface(t)
	ups := 0
	s.Page().Doc.AddEventListener(dom.EventMouseUp, func(*dom.Event) { ups++ })

	s.MouseDown(mouse(10, 5))
	s.Dragged(drag(10, 15))
	s.Dragged(drag(10, 35))
	s.DragEnd()
	s.MouseUp(mouse(10, 35))

	assert.Equal(t, "BAC", order(s))
	assert.Equal(t, 1, ups, "DragEnd and MouseUp should release once")
	assert.True(t, s.dirty)
	s.Tick()
	assert.False(t, s.dirty)
}

func TestSurface_CancelDrag(t *testing.T) {
	s := newSurface(t)
	s.MouseDown(mouse(10, 5))
	s.Dragged(drag(10, 35))
	s.CancelDrag()
	s.MouseUp(mouse(10, 35))

	assert.Equal(t, "ABC", order(s))
}

func TestSurface_BlurCancels(t *testing.T) {
	s := newSurface(t)
	s.MouseDown(mouse(10, 5))
	s.Dragged(drag(10, 35))
	s.Blur()

	assert.Equal(t, "ABC", order(s))
}
