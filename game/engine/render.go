package engine

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Renderer is the single drawing primitive a host must provide
type Renderer interface {
	FillRect(x, y, w, h int, rgb uint32)
}

// Drawable emits draw calls for the current state
type Drawable interface {
	Draw(r Renderer)
}

// Tickable advances by an elapsed frame duration
type Tickable interface {
	Advance(dt time.Duration)
}

// InputReceiver accepts pointer events in board pixel coordinates
type InputReceiver interface {
	PointerDown(x, y int)
	PointerMove(x, y int)
	PointerUp(x, y int)
}

// DrawRect is one recorded FillRect call
type DrawRect struct {
	X   int    `json:"x"`
	Y   int    `json:"y"`
	W   int    `json:"w"`
	H   int    `json:"h"`
	RGB uint32 `json:"rgb"`
}

// DisplayList is a Renderer that records draw calls so thin clients can replay them
type DisplayList struct {
	Width  int        `json:"width"`
	Height int        `json:"height"`
	Rects  []DrawRect `json:"rects"`
}

// NewDisplayList creates an empty list for a board of the given pixel size
func NewDisplayList(width, height int) *DisplayList {
	return &DisplayList{Width: width, Height: height}
}

// FillRect records a filled rectangle
func (d *DisplayList) FillRect(x, y, w, h int, rgb uint32) {
	d.Rects = append(d.Rects, DrawRect{X: x, Y: y, W: w, H: h, RGB: rgb})
}

// Replay sends every recorded call to another renderer
func (d *DisplayList) Replay(r Renderer) {
	for _, rect := range d.Rects {
		r.FillRect(rect.X, rect.Y, rect.W, rect.H, rect.RGB)
	}
}

// segmentInset keeps a visible gap between body segments
const segmentInset = 2

// Draw renders tiles, then zones, then the creature
func (e *GameEngine) Draw(r Renderer) {
	tile := e.grid.TileSize()
	for row := 0; row < e.grid.Height(); row++ {
		for col := 0; col < e.grid.Width(); col++ {
			rgb := WallRGB
			if e.grid.Kind(Cell{Col: col, Row: row}) == Path {
				rgb = PathLightRGB
				if (col+row)%2 == 1 {
					rgb = PathDarkRGB
				}
			}
			r.FillRect(col*tile, row*tile, tile, tile, rgb)
		}
	}

	for _, zone := range e.goals.Zones() {
		rect := SquareAt(zone.Position, e.config.ZoneSize)
		r.FillRect(rect.X, rect.Y, rect.W, rect.H, zone.Color.RGB())
	}

	strength := e.flashStrength()
	target := SuccessFlashRGB
	if e.flash == FlashFailure {
		target = FailureFlashRGB
	}
	base := e.creature.Color().RGB()
	for i, p := range e.creature.Segments() {
		rgb := segmentShade(base, i)
		if strength > 0 {
			rgb = blendRGB(rgb, target, strength)
		}
		rect := SquareAt(p, tile)
		r.FillRect(rect.X+segmentInset, rect.Y+segmentInset, rect.W-2*segmentInset, rect.H-2*segmentInset, rgb)
	}
}

// Frame renders the current state into a fresh display list
func (e *GameEngine) Frame() *DisplayList {
	list := NewDisplayList(e.grid.PixelWidth(), e.grid.PixelHeight())
	e.Draw(list)
	return list
}

// flashStrength eases the active flash from full tint down to none over its duration
func (e *GameEngine) flashStrength() float32 {
	if e.flash == FlashNone {
		return 0
	}
	duration := e.config.Timing.FlashDuration()
	elapsed := e.clock.Now() - e.flashStarted
	if elapsed >= duration {
		return 0
	}
	tween := gween.New(1, 0, float32(duration.Seconds()), ease.OutQuad)
	current, _ := tween.Update(float32(elapsed.Seconds()))
	return current
}
