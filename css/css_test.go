package css

import (
	"image/color"
	"testing"

	"github.com/chrisuehlinger/dropzone/dom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTree(t *testing.T) (*dom.Document, *dom.Element, *dom.Element) {
	t.Helper()
	doc := dom.NewDocument()
	list := doc.CreateElement("ul")
	list.SetId("left")
	list.SetClassName("list")
	item := doc.CreateElement("li")
	item.SetClassName("item cur")
	item.SetAttribute("data-kind", "card")
	require.NoError(t, doc.Body().AppendChild(list))
	require.NoError(t, list.AppendChild(item))
	return doc, list, item
}

func TestSelector_Matches(t *testing.T) {
	_, _, item := buildTree(t)
	tests := []struct {
		sel  string
		want bool
	}{
		{"li", true},
		{"*", true},
		{".item", true},
		{"li.item.cur", true},
		{".item.other", false},
		{"#left > li", true},
		{"body > li", false},
		{"body li", true},
		{"ul.list .item", true},
		{"[data-kind]", true},
		{"[data-kind=card]", true},
		{`li[data-kind="box"]`, false},
		{"div li", false},
	}
	for _, tt := range tests {
		t.Run(tt.sel, func(t *testing.T) {
			sel, err := ParseSelector(tt.sel)
			require.NoError(t, err)
			assert.Equal(t, tt.want, sel.Matches(item))
		})
	}
}

func TestSelector_Errors(t *testing.T) {
	for _, s := range []string{"", "> li", "ul >", "a:hover", "ul > > li", ".", "[x"} {
		_, err := ParseSelector(s)
		assert.Error(t, err, s)
	}
}

func TestSelector_Specificity(t *testing.T) {
	sel, err := ParseSelector("#left li.item[data-kind]")
	require.NoError(t, err)
	assert.Equal(t, Specificity{1, 2, 1}, sel.Specificity())
	assert.True(t, Specificity{0, 2, 9}.Less(Specificity{1, 0, 0}))
	assert.False(t, Specificity{1, 0, 0}.Less(Specificity{1, 0, 0}))
}

func TestParse_SkipsUnsupported(t *testing.T) {
	ss, err := Parse(`
		@media print { li { color: red; } }
		li, a:hover { color: blue }
		.item { margin: 2px 4px !important; }
	`)
	require.NoError(t, err)
	require.Len(t, ss.Rules, 2)
	assert.Equal(t, "li", ss.Rules[0].Selector.String())
	assert.True(t, ss.Rules[1].Declarations[0].Important)
}

func TestResolveStyles_Cascade(t *testing.T) {
	doc, list, item := buildTree(t)
	doc.AddStyleSheet(`
		li { color: red; background: #00f; }
		.item { color: green; }
		#left .item { padding: 1px 2px 3px; }
		li { visibility: hidden !important; }
		ul { color: navy; pointer-events: none; border: 2px solid #ccc; }
	`)
	item.Style().SetProperty("color", "white")
	item.Style().SetProperty("visibility", "visible")

	sr := ForDocument(doc)
	listStyle := sr.ResolveStyles(list, nil)
	cs := sr.ResolveStyles(item, listStyle)

	c, ok := cs.Color("color")
	require.True(t, ok)
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, c)
	assert.False(t, cs.Visible())
	assert.False(t, cs.PointerEvents())

	bg, ok := cs.Color("background-color")
	require.True(t, ok)
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, bg)

	assert.Equal(t, 1.0, cs.LengthOr("padding-top", 0, -1))
	assert.Equal(t, 2.0, cs.LengthOr("padding-left", 0, -1))
	assert.Equal(t, 3.0, cs.LengthOr("padding-bottom", 0, -1))

	assert.Equal(t, 2.0, listStyle.LengthOr("border-top-width", 0, 0))
	assert.Equal(t, "solid", listStyle.Keyword("border-style"))
	assert.Equal(t, "block", cs.Display())
}

func TestResolveStyles_InlineImportant(t *testing.T) {
	doc, _, item := buildTree(t)
	doc.AddStyleSheet(`.item { display: flex !important; }`)
	sr := ForDocument(doc)
	assert.Equal(t, "flex", sr.ResolveStyles(item, nil).Display())

	item.Style().SetProperty("display", "none !important")
	assert.Equal(t, "none", sr.ResolveStyles(item, nil).Display())
}

func TestParseLength(t *testing.T) {
	tests := []struct {
		in   string
		ref  float64
		want float64
		ok   bool
	}{
		{"10px", 0, 10, true},
		{"4", 0, 4, true},
		{"50%", 300, 150, true},
		{"2em", 0, 26, true},
		{"auto", 0, 0, false},
		{"wide", 0, 0, false},
	}
	for _, tt := range tests {
		got, ok := parseLength(tt.in, tt.ref)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
		ok   bool
	}{
		{"red", color.RGBA{255, 0, 0, 255}, true},
		{"#0f0", color.RGBA{0, 255, 0, 255}, true},
		{"#336699", color.RGBA{0x33, 0x66, 0x99, 255}, true},
		{"rgb(10, 20, 30)", color.RGBA{10, 20, 30, 255}, true},
		{"rgba(255, 0, 0, 0)", color.RGBA{0, 0, 0, 0}, true},
		{"transparent", color.RGBA{}, true},
		{"#zzz", color.RGBA{}, false},
		{"chartreuse-ish", color.RGBA{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseColor(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
