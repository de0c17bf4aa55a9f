package css

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// NamedColors maps CSS color names to their values.
var NamedColors = map[string]color.RGBA{
	"black":       {0, 0, 0, 255},
	"silver":      {192, 192, 192, 255},
	"gray":        {128, 128, 128, 255},
	"grey":        {128, 128, 128, 255},
	"white":       {255, 255, 255, 255},
	"maroon":      {128, 0, 0, 255},
	"red":         {255, 0, 0, 255},
	"purple":      {128, 0, 128, 255},
	"green":       {0, 128, 0, 255},
	"lime":        {0, 255, 0, 255},
	"olive":       {128, 128, 0, 255},
	"yellow":      {255, 255, 0, 255},
	"navy":        {0, 0, 128, 255},
	"blue":        {0, 0, 255, 255},
	"teal":        {0, 128, 128, 255},
	"aqua":        {0, 255, 255, 255},
	"orange":      {255, 165, 0, 255},
	"gold":        {255, 215, 0, 255},
	"pink":        {255, 192, 203, 255},
	"lightblue":   {173, 216, 230, 255},
	"lightgreen":  {144, 238, 144, 255},
	"lightgray":   {211, 211, 211, 255},
	"lightgrey":   {211, 211, 211, 255},
	"darkgray":    {169, 169, 169, 255},
	"darkgrey":    {169, 169, 169, 255},
	"whitesmoke":  {245, 245, 245, 255},
	"steelblue":   {70, 130, 180, 255},
	"tomato":      {255, 99, 71, 255},
	"transparent": {0, 0, 0, 0},
}

// ParseColor parses a named, hex (#rgb, #rrggbb) or rgb()/rgba() color.
func ParseColor(s string) (color.RGBA, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := NamedColors[s]; ok {
		return c, true
	}
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return color.RGBA{}, false
		}
		r, g, b := c.RGB255()
		return color.RGBA{r, g, b, 255}, true
	}
	if args, ok := functionArgs(s, "rgba"); ok {
		return rgbArgs(args)
	}
	if args, ok := functionArgs(s, "rgb"); ok {
		return rgbArgs(args)
	}
	return color.RGBA{}, false
}

func functionArgs(s, name string) ([]string, bool) {
	if !strings.HasPrefix(s, name+"(") || !strings.HasSuffix(s, ")") {
		return nil, false
	}
	body := s[len(name)+1 : len(s)-1]
	fields := strings.FieldsFunc(body, func(r rune) bool { return r == ',' || r == ' ' || r == '/' })
	return fields, true
}

func rgbArgs(args []string) (color.RGBA, bool) {
	if len(args) != 3 && len(args) != 4 {
		return color.RGBA{}, false
	}
	var ch [4]uint8
	ch[3] = 255
	for i, a := range args {
		v, err := strconv.ParseFloat(strings.TrimSuffix(a, "%"), 64)
		if err != nil {
			return color.RGBA{}, false
		}
		switch {
		case i == 3 && !strings.HasSuffix(a, "%"):
			v *= 255
		case strings.HasSuffix(a, "%"):
			v = v * 255 / 100
		}
		ch[i] = uint8(max(0, min(255, v+0.5)))
	}
	// color.RGBA is alpha-premultiplied.
	a := uint16(ch[3])
	return color.RGBA{
		R: uint8(uint16(ch[0]) * a / 255),
		G: uint8(uint16(ch[1]) * a / 255),
		B: uint8(uint16(ch[2]) * a / 255),
		A: ch[3],
	}, true
}

// Color resolves a color property. ok is false when the value is missing or
// not a color.
func (cs *ComputedStyle) Color(prop string) (color.RGBA, bool) {
	return ParseColor(cs.Get(prop))
}
