package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/wricardo/gecko-puzzle/game/engine"
)

func TestAnalyzeLevel_Classic(t *testing.T) {
	a := analyzeLevel(engine.DefaultConfig(), 1)

	if a.Start != (engine.Cell{Col: 6, Row: 7}) {
		t.Errorf("Expected head at (6, 7), got %+v", a.Start)
	}
	if a.Color != engine.Red {
		t.Errorf("Expected red creature, got %s", a.Color)
	}

	wantDistances := map[string]int{"zone_0": 5, "zone_1": 3, "zone_2": 7}
	for _, z := range a.Zones {
		if z.Distance != wantDistances[z.ID] {
			t.Errorf("Expected %s distance %d, got %d", z.ID, wantDistances[z.ID], z.Distance)
		}
	}

	// red, then green, then blue
	if a.RouteMoves != 11 {
		t.Errorf("Expected route of 11 moves, got %d", a.RouteMoves)
	}
	if a.Unreachable != 0 || len(a.SharedTiles) != 0 {
		t.Errorf("Expected a clean level, got %d unreachable and %v shared", a.Unreachable, a.SharedTiles)
	}
}

func TestSharedTiles(t *testing.T) {
	config := engine.DefaultConfig()
	grid := engine.NewBorderedGrid(config.GridWidth, config.GridHeight, config.TileSize)

	tests := []struct {
		name  string
		zones []engine.ZoneSpec
		want  int
	}{
		{
			name: "two colors one column apart",
			zones: []engine.ZoneSpec{
				{X: 140, Y: 140, Color: engine.Red},
				{X: 220, Y: 140, Color: engine.Green},
			},
			want: 3,
		},
		{
			name: "same color never penalizes",
			zones: []engine.ZoneSpec{
				{X: 140, Y: 140, Color: engine.Red},
				{X: 220, Y: 140, Color: engine.Red},
			},
			want: 0,
		},
		{
			name: "far apart",
			zones: []engine.ZoneSpec{
				{X: 140, Y: 140, Color: engine.Red},
				{X: 460, Y: 140, Color: engine.Blue},
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sharedTiles(config, grid, engine.LevelSpec{Zones: tt.zones})
			if len(got) != tt.want {
				t.Errorf("Expected %d shared tiles, got %v", tt.want, got)
			}
		})
	}
}

func TestDistancesFrom_Blocked(t *testing.T) {
	grid := engine.NewBorderedGrid(5, 5, 40)
	start := engine.Cell{Col: 1, Row: 1}
	blocked := []engine.Position{grid.Center(engine.Cell{Col: 2, Row: 1})}

	dist := distancesFrom(grid, start, blocked)
	if dist[start] != 0 {
		t.Errorf("Expected start distance 0, got %d", dist[start])
	}
	if _, ok := dist[engine.Cell{Col: 2, Row: 1}]; ok {
		t.Error("Expected blocked cell to be unreachable")
	}
	// around the blocked tile: down, right, right, up
	if d := dist[engine.Cell{Col: 3, Row: 1}]; d != 4 {
		t.Errorf("Expected distance 4 around the block, got %d", d)
	}
	if _, ok := dist[engine.Cell{Col: 0, Row: 0}]; ok {
		t.Error("Expected wall cells to be unreachable")
	}
}

func TestAnalyzeFiles_Report(t *testing.T) {
	dir := t.TempDir()
	classic := writeConfig(t, dir, "classic.json", engine.DefaultConfig())

	tight := engine.DefaultConfig()
	tight.Name = "tight"
	tight.LevelSeconds = 2
	tightPath := writeConfig(t, dir, "tight.json", tight)
	broken := writeConfig(t, dir, "broken.json", `{}`)

	var buf bytes.Buffer
	if err := analyzeFiles(&buf, []string{classic, tightPath, broken}, 1); err != nil {
		t.Fatalf("analyzeFiles() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"=== Analyzing classic.json ===",
		"Grid: 20 x 15 (234 path tiles)",
		"Route: 11 moves",
		"level looks fair",
		"route needs more than 2 moves per second",
		"=== Analyzing broken.json ===",
		"Error:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected report to contain %q, got:\n%s", want, out)
		}
	}
}
