package engine

// TileGrid holds the static wall/path classification of the board.
// Kinds are indexed [row][col] and never change after construction.
type TileGrid struct {
	width    int
	height   int
	tileSize int
	kinds    [][]TileKind
}

// NewBorderedGrid builds a grid whose border ring is wall and whose strict interior is path
func NewBorderedGrid(width, height, tileSize int) *TileGrid {
	kinds := make([][]TileKind, height)
	for row := 0; row < height; row++ {
		kinds[row] = make([]TileKind, width)
		for col := 0; col < width; col++ {
			if col == 0 || col == width-1 || row == 0 || row == height-1 {
				kinds[row][col] = Wall
			} else {
				kinds[row][col] = Path
			}
		}
	}
	return &TileGrid{width: width, height: height, tileSize: tileSize, kinds: kinds}
}

// Width returns the number of columns
func (g *TileGrid) Width() int { return g.width }

// Height returns the number of rows
func (g *TileGrid) Height() int { return g.height }

// TileSize returns the edge length of one tile in pixels
func (g *TileGrid) TileSize() int { return g.tileSize }

// InBounds reports whether the cell lies inside the grid
func (g *TileGrid) InBounds(c Cell) bool {
	return c.Col >= 0 && c.Col < g.width && c.Row >= 0 && c.Row < g.height
}

// Kind returns the tile kind at c. Out-of-range cells read as Wall.
func (g *TileGrid) Kind(c Cell) TileKind {
	if !g.InBounds(c) {
		return Wall
	}
	return g.kinds[c.Row][c.Col]
}

// IsTraversable reports whether the creature may occupy c
func (g *TileGrid) IsTraversable(c Cell) bool {
	return g.Kind(c) == Path
}

// IsTraversablePos is IsTraversable for a pixel position; misaligned positions fail closed
func (g *TileGrid) IsTraversablePos(p Position) bool {
	if !g.IsAligned(p) {
		return false
	}
	return g.IsTraversable(g.CellOf(p))
}

// CellOf maps a pixel position to the cell containing it
func (g *TileGrid) CellOf(p Position) Cell {
	return Cell{Col: floorDiv(p.X, g.tileSize), Row: floorDiv(p.Y, g.tileSize)}
}

// Center returns the pixel center of a cell
func (g *TileGrid) Center(c Cell) Position {
	half := g.tileSize / 2
	return Position{X: c.Col*g.tileSize + half, Y: c.Row*g.tileSize + half}
}

// IsAligned reports whether p sits exactly on a tile center
func (g *TileGrid) IsAligned(p Position) bool {
	return g.Center(g.CellOf(p)) == p
}

// Snap rounds a free pixel position to the nearest tile center
func (g *TileGrid) Snap(p Position) Position {
	return g.Center(g.CellOf(p))
}

// PixelWidth returns the board width in pixels
func (g *TileGrid) PixelWidth() int { return g.width * g.tileSize }

// PixelHeight returns the board height in pixels
func (g *TileGrid) PixelHeight() int { return g.height * g.tileSize }

// CountTraversable counts the path cells of the grid
func (g *TileGrid) CountTraversable() int {
	count := 0
	for _, row := range g.kinds {
		for _, kind := range row {
			if kind == Path {
				count++
			}
		}
	}
	return count
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
