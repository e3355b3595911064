package engine

// ResolveDrag maps a free-form drag delta to one cardinal direction.
// The axis with the larger magnitude wins and ties go horizontal. The move only
// fires once the dominant displacement exceeds half a tile.
func ResolveDrag(dx, dy, tileSize int) (Direction, bool) {
	ax, ay := abs(dx), abs(dy)
	threshold := tileSize / 2
	if ax >= ay {
		if ax <= threshold {
			return "", false
		}
		if dx > 0 {
			return Right, true
		}
		return Left, true
	}
	if ay <= threshold {
		return "", false
	}
	if dy > 0 {
		return Down, true
	}
	return Up, true
}

// DragGesture tracks one pointer stroke from press to release.
// A gesture yields at most one direction: either when the pointer first crosses
// the threshold while moving, or on release if it never did.
type DragGesture struct {
	startX, startY     int
	currentX, currentY int
	tileSize           int
	fired              bool
	released           bool
}

// NewDragGesture starts tracking at the press position
func NewDragGesture(x, y, tileSize int) *DragGesture {
	return &DragGesture{
		startX:   x,
		startY:   y,
		currentX: x,
		currentY: y,
		tileSize: tileSize,
	}
}

// Move updates the pointer position and returns a direction the first time the threshold is crossed
func (g *DragGesture) Move(x, y int) (Direction, bool) {
	if g.released {
		return "", false
	}
	g.currentX, g.currentY = x, y
	return g.evaluate()
}

// Release ends the gesture. It returns a direction only if none fired during the drag.
func (g *DragGesture) Release(x, y int) (Direction, bool) {
	if g.released {
		return "", false
	}
	g.currentX, g.currentY = x, y
	dir, ok := g.evaluate()
	g.released = true
	return dir, ok
}

// Delta returns the displacement since the press
func (g *DragGesture) Delta() (int, int) {
	return g.currentX - g.startX, g.currentY - g.startY
}

// Fired reports whether the gesture already produced its move
func (g *DragGesture) Fired() bool {
	return g.fired
}

// Released reports whether the pointer was lifted
func (g *DragGesture) Released() bool {
	return g.released
}

func (g *DragGesture) evaluate() (Direction, bool) {
	if g.fired {
		return "", false
	}
	dx, dy := g.Delta()
	dir, ok := ResolveDrag(dx, dy, g.tileSize)
	if ok {
		g.fired = true
	}
	return dir, ok
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
