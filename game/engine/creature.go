package engine

// RejectReason explains why a move attempt left the creature unchanged
type RejectReason string

const (
	RejectNone        RejectReason = ""
	RejectBlocked     RejectReason = "blocked"
	RejectSelfOverlap RejectReason = "self_overlap"
	RejectDirection   RejectReason = "invalid_direction"
	RejectInactive    RejectReason = "inactive"
)

// StepResult describes the outcome of one move attempt
type StepResult struct {
	Moved     bool         `json:"moved"`
	Backtrack bool         `json:"backtrack,omitempty"`
	From      Position     `json:"from"`
	Target    Position     `json:"target"`
	Reason    RejectReason `json:"reason,omitempty"`
}

// Creature is the player-controlled gecko: an ordered run of tile centers, head first.
//
// Invariants after construction and after every accepted move: every segment is
// grid-aligned and traversable, no two segments coincide, consecutive segments
// are orthogonal neighbours, and len(segments) == length.
type Creature struct {
	segments []Position
	length   int
	color    Color

	// trail holds cells vacated by the tail, most recent last
	trail []Position
}

// NewCreature lays out a creature with its head at head and the body trailing
// away from facing. Invalid layouts fall back as described in layoutCreature.
func NewCreature(grid *TileGrid, head Position, length int, facing Direction, color Color) *Creature {
	return &Creature{
		segments: layoutCreature(grid, head, length, facing),
		length:   length,
		color:    color,
	}
}

// NewCreatureFromSegments adopts an explicit body, reconstructing a default
// layout when the body is malformed.
func NewCreatureFromSegments(grid *TileGrid, segments []Position, length int, color Color) *Creature {
	body := append([]Position(nil), segments...)
	if !validBody(grid, body, length) {
		head := Position{}
		if len(segments) > 0 {
			head = segments[0]
		}
		body = layoutCreature(grid, head, length, Right)
	}
	return &Creature{segments: body, length: length, color: color}
}

// layoutCreature tries the requested facing, then every other direction, and
// finally the deterministic default layout.
func layoutCreature(grid *TileGrid, head Position, length int, facing Direction) []Position {
	candidates := []Direction{facing}
	for _, d := range Directions {
		if d != facing {
			candidates = append(candidates, d)
		}
	}
	for _, d := range candidates {
		if !d.Valid() {
			continue
		}
		body := trailingBody(grid, head, length, d)
		if validBody(grid, body, length) {
			return body
		}
	}
	return DefaultLayout(grid, length)
}

// DefaultLayout places the creature on row 1 with its head in column length
// and the body trailing left towards column 1.
func DefaultLayout(grid *TileGrid, length int) []Position {
	body := make([]Position, 0, length)
	for i := 0; i < length; i++ {
		body = append(body, grid.Center(Cell{Col: length - i, Row: 1}))
	}
	return body
}

func trailingBody(grid *TileGrid, head Position, length int, facing Direction) []Position {
	dx, dy := facing.Opposite().Offset()
	tile := grid.TileSize()
	body := make([]Position, 0, length)
	for i := 0; i < length; i++ {
		body = append(body, Position{X: head.X + dx*tile*i, Y: head.Y + dy*tile*i})
	}
	return body
}

func validBody(grid *TileGrid, body []Position, length int) bool {
	if length < 1 || len(body) != length {
		return false
	}
	seen := make(map[Position]bool, len(body))
	for i, p := range body {
		if !grid.IsTraversablePos(p) || seen[p] {
			return false
		}
		seen[p] = true
		if i > 0 && !adjacent(grid, body[i-1], p) {
			return false
		}
	}
	return true
}

func adjacent(grid *TileGrid, a, b Position) bool {
	dx, dy := a.X-b.X, a.Y-b.Y
	tile := grid.TileSize()
	return (dx == 0 && (dy == tile || dy == -tile)) || (dy == 0 && (dx == tile || dx == -tile))
}

// Clone returns an independent copy, used to probe moves without mutating
func (c *Creature) Clone() *Creature {
	return &Creature{
		segments: append([]Position(nil), c.segments...),
		length:   c.length,
		color:    c.color,
		trail:    append([]Position(nil), c.trail...),
	}
}

// Segments returns a copy of the body, head first
func (c *Creature) Segments() []Position {
	return append([]Position(nil), c.segments...)
}

// Head returns the leading segment
func (c *Creature) Head() Position {
	return c.segments[0]
}

// Len returns the fixed segment count
func (c *Creature) Len() int {
	return c.length
}

// Color returns the creature's current color
func (c *Creature) Color() Color {
	return c.color
}

// SetColor recolors the creature
func (c *Creature) SetColor(color Color) {
	c.color = color
}

// Occupies reports whether any segment sits on p
func (c *Creature) Occupies(p Position) bool {
	return indexOf(c.segments, p) >= 0
}

// HeadContains reports whether the pixel point lies inside the head tile
func (c *Creature) HeadContains(grid *TileGrid, x, y int) bool {
	return grid.CellOf(Position{X: x, Y: y}) == grid.CellOf(c.Head())
}

// AttemptMove tries one grid step and reports whether it was applied
func (c *Creature) AttemptMove(grid *TileGrid, dir Direction) bool {
	return c.Step(grid, dir).Moved
}

// Step is AttemptMove with the full outcome. Rejected steps never mutate the creature.
// A step onto any body segment is rejected, except a step onto the neck right
// after a move, which reverses that move and restores the previous segments.
func (c *Creature) Step(grid *TileGrid, dir Direction) StepResult {
	head := c.Head()
	res := StepResult{From: head, Target: head}
	if !dir.Valid() {
		res.Reason = RejectDirection
		return res
	}

	dx, dy := dir.Offset()
	tile := grid.TileSize()
	target := Position{X: head.X + dx*tile, Y: head.Y + dy*tile}
	res.Target = target

	if !grid.IsTraversablePos(target) {
		res.Reason = RejectBlocked
		return res
	}

	idx := indexOf(c.segments, target)
	if idx == 1 && c.canBacktrack() {
		c.backtrack()
		res.Moved = true
		res.Backtrack = true
		return res
	}
	if idx >= 0 {
		res.Reason = RejectSelfOverlap
		return res
	}

	c.segments = append([]Position{target}, c.segments...)
	if len(c.segments) > c.length {
		for _, dropped := range c.segments[c.length:] {
			c.pushTrail(dropped)
		}
		c.segments = c.segments[:c.length]
	}
	res.Moved = true
	return res
}

// canBacktrack reports whether the most recently vacated cell is free to take back
func (c *Creature) canBacktrack() bool {
	if len(c.trail) == 0 || len(c.segments) < 2 {
		return false
	}
	last := c.trail[len(c.trail)-1]
	return indexOf(c.segments[1:], last) < 0
}

// backtrack retracts the head and regrows the tail along the trail
func (c *Creature) backtrack() {
	last := c.trail[len(c.trail)-1]
	c.trail = c.trail[:len(c.trail)-1]
	body := make([]Position, 0, c.length)
	body = append(body, c.segments[1:]...)
	body = append(body, last)
	c.segments = body
}

func (c *Creature) pushTrail(p Position) {
	c.trail = append(c.trail, p)
	if len(c.trail) > MaxTrailLength {
		c.trail = c.trail[len(c.trail)-MaxTrailLength:]
	}
}

func indexOf(list []Position, p Position) int {
	for i, q := range list {
		if q == p {
			return i
		}
	}
	return -1
}
