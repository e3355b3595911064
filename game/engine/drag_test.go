package engine

import "testing"

func TestResolveDrag(t *testing.T) {
	tests := []struct {
		name   string
		dx, dy int
		want   Direction
		fires  bool
	}{
		{"right past threshold", 21, 0, Right, true},
		{"left past threshold", -30, 5, Left, true},
		{"down dominant", 3, 25, Down, true},
		{"up dominant", -4, -40, Up, true},
		{"exactly half a tile does not fire", 20, 0, "", false},
		{"tie goes horizontal", 25, 25, Right, true},
		{"tie negative goes horizontal", -25, 25, Left, true},
		{"small jitter", 5, -3, "", false},
		{"dominant axis under threshold", 10, 19, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveDrag(tt.dx, tt.dy, 40)
			if ok != tt.fires || got != tt.want {
				t.Errorf("ResolveDrag(%d, %d) = (%q, %v), expected (%q, %v)", tt.dx, tt.dy, got, ok, tt.want, tt.fires)
			}
		})
	}
}

func TestDragGesture_FiresOncePerGesture(t *testing.T) {
	g := NewDragGesture(140, 140, 40)

	if _, ok := g.Move(150, 142); ok {
		t.Error("Expected no move below threshold")
	}
	dir, ok := g.Move(165, 140)
	if !ok || dir != Right {
		t.Fatalf("Expected right on threshold crossing, got (%q, %v)", dir, ok)
	}
	if _, ok := g.Move(240, 140); ok {
		t.Error("Expected a gesture to fire only once")
	}
	if _, ok := g.Release(240, 140); ok {
		t.Error("Expected release after firing to yield nothing")
	}
	if !g.Fired() || !g.Released() {
		t.Error("Expected gesture to be fired and released")
	}
}

func TestDragGesture_FiresOnRelease(t *testing.T) {
	g := NewDragGesture(140, 140, 40)

	dir, ok := g.Release(140, 100)
	if !ok || dir != Up {
		t.Fatalf("Expected up on release, got (%q, %v)", dir, ok)
	}
	if _, ok := g.Move(140, 60); ok {
		t.Error("Expected no moves after release")
	}
	dx, dy := g.Delta()
	if dx != 0 || dy != -40 {
		t.Errorf("Expected delta (0, -40), got (%d, %d)", dx, dy)
	}
}
