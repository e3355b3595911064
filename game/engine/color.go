package engine

import (
	"fmt"
	"sort"
	"strings"
)

// Color identifies a gecko or goal zone color
type Color string

const (
	Red    Color = "red"
	Green  Color = "green"
	Blue   Color = "blue"
	Yellow Color = "yellow"
	Purple Color = "purple"
	Orange Color = "orange"
)

// Draw colors that are not part of the gameplay palette
const (
	WallRGB         uint32 = 0x444444
	PathLightRGB    uint32 = 0xcccccc
	PathDarkRGB     uint32 = 0xaaaaaa
	SuccessFlashRGB uint32 = 0x00ff00
	FailureFlashRGB uint32 = 0xffff00
)

var palette = map[Color]uint32{
	Red:    0xff0000,
	Green:  0x00ff00,
	Blue:   0x0000ff,
	Yellow: 0xffff00,
	Purple: 0xaa00ff,
	Orange: 0xff8800,
}

// PaletteOrder is the order the layout generator hands out zone colors
var PaletteOrder = []Color{Red, Green, Blue, Yellow, Purple, Orange}

// RGB returns the 0xRRGGBB value for the color
func (c Color) RGB() uint32 {
	return palette[c]
}

// Valid reports whether c is a known palette color
func (c Color) Valid() bool {
	_, ok := palette[c]
	return ok
}

// ParseColor validates a color name
func ParseColor(s string) (Color, error) {
	c := Color(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q (known: %s)", ErrUnknownColor, s, strings.Join(KnownColors(), ", "))
	}
	return c, nil
}

// KnownColors returns all palette color names sorted alphabetically
func KnownColors() []string {
	names := make([]string, 0, len(palette))
	for c := range palette {
		names = append(names, string(c))
	}
	sort.Strings(names)
	return names
}

// segmentShade lightens base towards white for body segments behind the head,
// following the 0xff0000, 0xff4444, 0xff8888, 0xffcccc progression.
func segmentShade(base uint32, index int) uint32 {
	if index <= 0 {
		return base
	}
	step := index * 0x44
	if step > 0xcc {
		step = 0xcc
	}
	lift := func(ch uint32) uint32 {
		v := ch + uint32(step)
		if v > 0xff {
			v = 0xff
		}
		return v
	}
	r, g, b := base>>16&0xff, base>>8&0xff, base&0xff
	return lift(r)<<16 | lift(g)<<8 | lift(b)
}

// blendRGB mixes a towards b by t in [0,1]
func blendRGB(a, b uint32, t float32) uint32 {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	mix := func(x, y uint32) uint32 {
		return uint32(float32(x) + (float32(y)-float32(x))*t + 0.5)
	}
	return mix(a>>16&0xff, b>>16&0xff)<<16 | mix(a>>8&0xff, b>>8&0xff)<<8 | mix(a&0xff, b&0xff)
}
