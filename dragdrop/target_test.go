package dragdrop

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chrisuehlinger/dropzone/geom"
)

func boxTarget(top, left, bottom, right float64) *ActiveDropTarget {
	return &ActiveDropTarget{box: geom.Box{Top: top, Right: right, Bottom: bottom, Left: left}, target: &Coordinator{}}
}

func TestClipDummyBox(t *testing.T) {
	tests := []struct {
		name    string
		outer   geom.Box
		targets []*ActiveDropTarget
		x, y    float64
		want    geom.Box
	}{
		{
			name:    "between two targets in a row",
			outer:   geom.Box{Top: 0, Right: 120, Bottom: 20, Left: 0},
			targets: []*ActiveDropTarget{boxTarget(0, 0, 20, 20), boxTarget(0, 100, 20, 120)},
			x:       60, y: 10,
			want: geom.Box{Top: 0, Right: 100, Bottom: 20, Left: 20},
		},
		{
			name:    "between two targets in a column",
			outer:   geom.Box{Top: 0, Right: 20, Bottom: 120, Left: 0},
			targets: []*ActiveDropTarget{boxTarget(0, 0, 20, 20), boxTarget(100, 0, 120, 20)},
			x:       10, y: 60,
			want: geom.Box{Top: 20, Right: 20, Bottom: 100, Left: 0},
		},
		{
			name:    "diagonal target keeps the farther vertical clip",
			outer:   geom.Box{Top: 0, Right: 100, Bottom: 100, Left: 0},
			targets: []*ActiveDropTarget{boxTarget(0, 0, 20, 20)},
			x:       30, y: 60,
			want: geom.Box{Top: 20, Right: 100, Bottom: 100, Left: 0},
		},
		{
			name:    "diagonal target keeps the farther horizontal clip",
			outer:   geom.Box{Top: 0, Right: 100, Bottom: 100, Left: 0},
			targets: []*ActiveDropTarget{boxTarget(0, 0, 20, 20)},
			x:       60, y: 30,
			want: geom.Box{Top: 0, Right: 100, Bottom: 100, Left: 20},
		},
		{
			name:    "equal distances prefer the vertical clip",
			outer:   geom.Box{Top: 0, Right: 100, Bottom: 100, Left: 0},
			targets: []*ActiveDropTarget{boxTarget(0, 0, 20, 20)},
			x:       40, y: 40,
			want: geom.Box{Top: 20, Right: 100, Bottom: 100, Left: 0},
		},
		{
			name:    "target beyond the dummy edge does not grow it",
			outer:   geom.Box{Top: 0, Right: 50, Bottom: 20, Left: 0},
			targets: []*ActiveDropTarget{boxTarget(0, 80, 20, 90)},
			x:       10, y: 10,
			want: geom.Box{Top: 0, Right: 50, Bottom: 20, Left: 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := clipDummyBox(tt.outer, tt.targets, tt.x, tt.y)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Contains(geom.Pt(tt.x, tt.y)))
		})
	}
}

func TestClipDummyBox_UsesContainerViewport(t *testing.T) {
	sc := &ScrollableContainer{box: geom.Box{Top: 0, Right: 100, Bottom: 100, Left: 0}}
	tall := boxTarget(90, 0, 130, 100)
	tall.container = sc

	got := clipDummyBox(tall.box, []*ActiveDropTarget{tall}, 50, 120)
	assert.Equal(t, geom.Box{Top: 100, Right: 100, Bottom: 130, Left: 0}, got)
}

func TestActiveDropTarget_HitSharedEdge(t *testing.T) {
	a := boxTarget(0, 0, 20, 20)
	b := boxTarget(0, 20, 20, 40)

	assert.False(t, a.hit(geom.Pt(20, 10)))
	assert.True(t, b.hit(geom.Pt(20, 10)), "a shared edge belongs to the right-hand target")
	assert.False(t, b.hit(geom.Pt(40, 10)))
	assert.False(t, b.hit(geom.Pt(30, 20)))
}

func TestActiveDropTarget_Hit(t *testing.T) {
	sc := &ScrollableContainer{box: geom.Box{Top: 0, Right: 100, Bottom: 100, Left: 0}}
	tgt := boxTarget(90, 0, 130, 100)
	assert.True(t, tgt.hit(geom.Pt(50, 120)))

	tgt.container = sc
	assert.False(t, tgt.hit(geom.Pt(50, 120)), "scrolled-away part is not hittable")
	assert.True(t, tgt.hit(geom.Pt(50, 95)))
	assert.False(t, tgt.hit(geom.Pt(50, 100)), "the container's bottom edge is outside")
	assert.False(t, tgt.IsDummy())
	assert.True(t, (&ActiveDropTarget{}).IsDummy())
}
