package engine

import (
	"reflect"
	"testing"
)

func newTestCreature(t *testing.T, grid *TileGrid) *Creature {
	t.Helper()
	c := NewCreature(grid, Position{X: 140, Y: 140}, 3, Right, Red)
	want := []Position{{X: 140, Y: 140}, {X: 100, Y: 140}, {X: 60, Y: 140}}
	if !reflect.DeepEqual(c.Segments(), want) {
		t.Fatalf("Expected initial body %v, got %v", want, c.Segments())
	}
	return c
}

func TestCreature_RightThenLeftRestoresBody(t *testing.T) {
	grid := NewBorderedGrid(20, 15, 40)
	c := newTestCreature(t, grid)
	original := c.Segments()

	if !c.AttemptMove(grid, Right) {
		t.Fatal("Expected move right to succeed")
	}
	if c.Head() != (Position{X: 180, Y: 140}) {
		t.Errorf("Expected head at (180, 140), got %v", c.Head())
	}

	res := c.Step(grid, Left)
	if !res.Moved || !res.Backtrack {
		t.Fatalf("Expected backtrack on reverse move, got %+v", res)
	}
	if !reflect.DeepEqual(c.Segments(), original) {
		t.Errorf("Expected body %v after backtrack, got %v", original, c.Segments())
	}
}

func TestCreature_NeckWithoutTrailIsRejected(t *testing.T) {
	grid := NewBorderedGrid(20, 15, 40)
	c := newTestCreature(t, grid)
	before := c.Segments()

	res := c.Step(grid, Left)
	if res.Moved {
		t.Fatal("Expected reverse move with no trail to be rejected")
	}
	if res.Reason != RejectSelfOverlap {
		t.Errorf("Expected reason %q, got %q", RejectSelfOverlap, res.Reason)
	}
	if !reflect.DeepEqual(c.Segments(), before) {
		t.Errorf("Expected body unchanged, got %v", c.Segments())
	}
}

func TestCreature_BlockedMovesLeaveBodyUnchanged(t *testing.T) {
	grid := NewBorderedGrid(5, 5, 40)
	// head in the top-left interior corner, body trailing down
	c := NewCreatureFromSegments(grid, []Position{{X: 60, Y: 60}, {X: 60, Y: 100}, {X: 60, Y: 140}}, 3, Red)

	for _, dir := range []Direction{Up, Left, Direction("sideways")} {
		before := c.Segments()
		if c.AttemptMove(grid, dir) {
			t.Errorf("Expected move %q to be rejected", dir)
		}
		if !reflect.DeepEqual(c.Segments(), before) {
			t.Errorf("Move %q mutated the body: %v", dir, c.Segments())
		}
	}
}

func TestCreature_SelfOverlapRejected(t *testing.T) {
	grid := NewBorderedGrid(10, 10, 40)
	// a length 4 body folded into a U: moving down from the head hits segment 3
	body := []Position{{X: 100, Y: 100}, {X: 60, Y: 100}, {X: 60, Y: 140}, {X: 100, Y: 140}}
	c := NewCreatureFromSegments(grid, body, 4, Red)
	if !reflect.DeepEqual(c.Segments(), body) {
		t.Fatalf("Expected explicit body to be kept, got %v", c.Segments())
	}

	res := c.Step(grid, Down)
	if res.Moved || res.Reason != RejectSelfOverlap {
		t.Errorf("Expected self overlap rejection, got %+v", res)
	}
}

func TestCreature_LengthInvariant(t *testing.T) {
	grid := NewBorderedGrid(20, 15, 40)
	c := newTestCreature(t, grid)

	moves := []Direction{Down, Down, Right, Right, Up, Left, Left, Down, Right, Up, Up, Up, Left}
	for i, dir := range moves {
		c.AttemptMove(grid, dir)
		segs := c.Segments()
		if len(segs) != 3 {
			t.Fatalf("Move %d: expected length 3, got %d", i, len(segs))
		}
		if !validBody(grid, segs, 3) {
			t.Fatalf("Move %d: body became invalid: %v", i, segs)
		}
	}
}

func TestCreature_SingleSegment(t *testing.T) {
	grid := NewBorderedGrid(5, 5, 40)
	c := NewCreature(grid, Position{X: 100, Y: 100}, 1, Right, Blue)

	if !c.AttemptMove(grid, Right) || !c.AttemptMove(grid, Left) {
		t.Fatal("Expected a single segment to move freely")
	}
	if c.Head() != (Position{X: 100, Y: 100}) {
		t.Errorf("Expected head back at (100, 100), got %v", c.Head())
	}
}

func TestNewCreature_FallbackLayouts(t *testing.T) {
	grid := NewBorderedGrid(20, 15, 40)

	// facing right from column 1 would put the body in the wall, so another facing is used
	c := NewCreature(grid, Position{X: 60, Y: 140}, 3, Right, Red)
	if c.Head() != (Position{X: 60, Y: 140}) || !validBody(grid, c.Segments(), 3) {
		t.Errorf("Expected valid alternate layout at the requested head, got %v", c.Segments())
	}

	// head on a wall cannot be laid out at all
	c = NewCreature(grid, Position{X: 20, Y: 20}, 3, Right, Red)
	if !reflect.DeepEqual(c.Segments(), DefaultLayout(grid, 3)) {
		t.Errorf("Expected default layout, got %v", c.Segments())
	}

	// malformed explicit body is rebuilt
	c = NewCreatureFromSegments(grid, []Position{{X: 140, Y: 140}, {X: 220, Y: 140}, {X: 260, Y: 140}}, 3, Red)
	if !validBody(grid, c.Segments(), 3) {
		t.Errorf("Expected malformed body to be rebuilt, got %v", c.Segments())
	}
}

func TestCreature_CloneIsIndependent(t *testing.T) {
	grid := NewBorderedGrid(20, 15, 40)
	c := newTestCreature(t, grid)
	clone := c.Clone()

	clone.AttemptMove(grid, Down)
	clone.SetColor(Blue)
	if c.Head() != (Position{X: 140, Y: 140}) || c.Color() != Red {
		t.Error("Expected clone moves not to affect the original")
	}
}
