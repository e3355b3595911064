package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/wricardo/gecko-puzzle/game/engine"
)

// comfortablePace is the sustained moves per second a player can manage by dragging
const comfortablePace = 2.0

// LevelAnalysis summarizes one level layout
type LevelAnalysis struct {
	Level       int
	Start       engine.Cell
	Facing      engine.Direction
	Color       engine.Color
	Zones       []ZoneAnalysis
	RouteMoves  int
	Pace        float64
	Unreachable int
	SharedTiles []SharedTile
}

// ZoneAnalysis is one zone with its shortest distance from the start
type ZoneAnalysis struct {
	ID       string
	Color    engine.Color
	Cell     engine.Cell
	Distance int
}

// SharedTile is a path tile that overlaps two zones of different colors
type SharedTile struct {
	Cell  engine.Cell
	First string
	Other string
}

func startingBody(config *engine.GameConfig, grid *engine.TileGrid, layout engine.LevelSpec) []engine.Position {
	if len(layout.Body) > 0 {
		return engine.NewCreatureFromSegments(grid, layout.Body, config.CreatureLength, layout.CreatureColor).Segments()
	}
	facing := layout.Facing
	if facing == "" {
		facing = engine.Right
	}
	return engine.NewCreature(grid, layout.Start, config.CreatureLength, facing, layout.CreatureColor).Segments()
}

// distancesFrom runs a breadth-first search over path tiles from start
func distancesFrom(grid *engine.TileGrid, start engine.Cell, blocked []engine.Position) map[engine.Cell]int {
	closed := make(map[engine.Cell]bool, len(blocked))
	for _, p := range blocked {
		closed[grid.CellOf(p)] = true
	}

	dist := map[engine.Cell]int{start: 0}
	queue := []engine.Cell{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, dir := range engine.Directions {
			dx, dy := dir.Offset()
			next := engine.Cell{Col: current.Col + dx, Row: current.Row + dy}
			if _, seen := dist[next]; seen || closed[next] || !grid.IsTraversable(next) {
				continue
			}
			dist[next] = dist[current] + 1
			queue = append(queue, next)
		}
	}
	return dist
}

// zoneCells lists the path tiles whose square overlaps the zone
func zoneCells(config *engine.GameConfig, grid *engine.TileGrid, zone engine.Position) []engine.Cell {
	zoneRect := engine.SquareAt(zone, config.ZoneSize)
	var cells []engine.Cell
	for row := 0; row < grid.Height(); row++ {
		for col := 0; col < grid.Width(); col++ {
			c := engine.Cell{Col: col, Row: row}
			if grid.IsTraversable(c) && engine.SquareAt(grid.Center(c), config.TileSize).Overlaps(zoneRect) {
				cells = append(cells, c)
			}
		}
	}
	return cells
}

// zoneDistance returns the closest overlapping tile and its distance, if any is reachable
func zoneDistance(config *engine.GameConfig, grid *engine.TileGrid, dist map[engine.Cell]int, zone engine.ZoneSpec) (engine.Cell, bool) {
	var best engine.Cell
	found := false
	for _, c := range zoneCells(config, grid, engine.Position{X: zone.X, Y: zone.Y}) {
		d, ok := dist[c]
		if !ok {
			continue
		}
		if !found || d < dist[best] {
			best, found = c, true
		}
	}
	return best, found
}

// analyzeLevel measures the colour-ordered route a player must walk
func analyzeLevel(config *engine.GameConfig, level int) LevelAnalysis {
	grid := engine.NewBorderedGrid(config.GridWidth, config.GridHeight, config.TileSize)
	layout := config.LevelLayout(level)
	body := startingBody(config, grid, layout)
	head := grid.CellOf(body[0])

	result := LevelAnalysis{
		Level:  level,
		Start:  head,
		Facing: layout.Facing,
		Color:  layout.CreatureColor,
	}
	if result.Facing == "" {
		result.Facing = engine.Right
	}

	fromStart := distancesFrom(grid, head, body[1:])
	for i, zone := range layout.Zones {
		za := ZoneAnalysis{
			ID:       fmt.Sprintf("zone_%d", i),
			Color:    zone.Color,
			Cell:     grid.CellOf(engine.Position{X: zone.X, Y: zone.Y}),
			Distance: -1,
		}
		if c, ok := zoneDistance(config, grid, fromStart, zone); ok {
			za.Distance = fromStart[c]
		} else {
			result.Unreachable++
		}
		result.Zones = append(result.Zones, za)
	}

	result.RouteMoves = routeMoves(config, grid, head, layout)
	if config.LevelSeconds > 0 {
		result.Pace = float64(result.RouteMoves) / float64(config.LevelSeconds)
	}
	result.SharedTiles = sharedTiles(config, grid, layout)
	return result
}

// routeMoves walks zones in the order the creature's colour forces:
// nearest zone of the current colour first, then the first remaining zone's colour.
func routeMoves(config *engine.GameConfig, grid *engine.TileGrid, head engine.Cell, layout engine.LevelSpec) int {
	remaining := append([]engine.ZoneSpec(nil), layout.Zones...)
	color := layout.CreatureColor
	total := 0

	for len(remaining) > 0 {
		dist := distancesFrom(grid, head, nil)
		bestIdx := -1
		var bestCell engine.Cell
		for i, zone := range remaining {
			if zone.Color != color {
				continue
			}
			c, ok := zoneDistance(config, grid, dist, zone)
			if ok && (bestIdx < 0 || dist[c] < dist[bestCell]) {
				bestIdx, bestCell = i, c
			}
		}
		if bestIdx < 0 {
			next := remaining[0].Color
			if next == color {
				break
			}
			color = next
			continue
		}

		total += dist[bestCell]
		head = bestCell
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}
	return total
}

// sharedTiles finds tiles that touch two zones of different colours
func sharedTiles(config *engine.GameConfig, grid *engine.TileGrid, layout engine.LevelSpec) []SharedTile {
	owner := make(map[engine.Cell]int)
	var shared []SharedTile
	for i, zone := range layout.Zones {
		for _, c := range zoneCells(config, grid, engine.Position{X: zone.X, Y: zone.Y}) {
			j, taken := owner[c]
			if !taken {
				owner[c] = i
				continue
			}
			if layout.Zones[j].Color != zone.Color {
				shared = append(shared, SharedTile{
					Cell:  c,
					First: fmt.Sprintf("zone_%d", j),
					Other: fmt.Sprintf("zone_%d", i),
				})
			}
		}
	}
	return shared
}

// analyzeFiles prints a report per configuration file
func analyzeFiles(w io.Writer, files []string, proceduralLevels int) error {
	if proceduralLevels < 1 {
		proceduralLevels = 1
	}
	for _, file := range files {
		fmt.Fprintf(w, "\n=== Analyzing %s ===\n", filepath.Base(file))

		config, err := loadConfig(file)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			continue
		}

		grid := engine.NewBorderedGrid(config.GridWidth, config.GridHeight, config.TileSize)
		fmt.Fprintf(w, "Name: %s\n", config.Name)
		fmt.Fprintf(w, "Grid: %d x %d (%d path tiles)\n", config.GridWidth, config.GridHeight, grid.CountTraversable())
		fmt.Fprintf(w, "Timer: %ds, scoring +%d / -%d / +%d level bonus\n",
			config.LevelSeconds, config.Scoring.Match, config.Scoring.Mismatch, config.Scoring.LevelBonus)

		levels := len(config.Levels)
		if config.IsProcedural() {
			levels = proceduralLevels
		}
		for level := 1; level <= levels; level++ {
			writeLevelAnalysis(w, analyzeLevel(config, level))
		}
	}
	return nil
}

func writeLevelAnalysis(w io.Writer, a LevelAnalysis) {
	fmt.Fprintf(w, "Level %d: head at (%d, %d) facing %s, creature %s\n", a.Level, a.Start.Col, a.Start.Row, a.Facing, a.Color)
	for _, z := range a.Zones {
		if z.Distance < 0 {
			fmt.Fprintf(w, "  %s %s at (%d, %d): unreachable\n", z.ID, z.Color, z.Cell.Col, z.Cell.Row)
			continue
		}
		fmt.Fprintf(w, "  %s %s at (%d, %d): %d moves from start\n", z.ID, z.Color, z.Cell.Col, z.Cell.Row, z.Distance)
	}

	fmt.Fprintf(w, "  Route: %d moves, %.2f moves/s\n", a.RouteMoves, a.Pace)
	if a.Pace > comfortablePace {
		fmt.Fprintf(w, "  ⚠️  route needs more than %.0f moves per second\n", comfortablePace)
	}
	for _, s := range a.SharedTiles {
		fmt.Fprintf(w, "  ⚠️  tile (%d, %d) touches %s and %s: passing it costs a penalty\n", s.Cell.Col, s.Cell.Row, s.First, s.Other)
	}
	if a.Unreachable == 0 && len(a.SharedTiles) == 0 && a.Pace <= comfortablePace {
		fmt.Fprintf(w, "  ✅ level looks fair\n")
	}
}
