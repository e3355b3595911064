package engine

import "math/rand"

// LevelLayout returns the starting layout for a 1-based level number.
// Configured levels repeat cyclically; procedural configs generate a fresh layout.
func (c *GameConfig) LevelLayout(level int) LevelSpec {
	if level < 1 {
		level = 1
	}
	if c.IsProcedural() {
		return GenerateLevel(c, level)
	}
	spec := c.Levels[(level-1)%len(c.Levels)]
	if spec.CreatureColor == "" && len(spec.Zones) > 0 {
		spec.CreatureColor = spec.Zones[0].Color
	}
	return spec
}

// GenerateLevel builds a layout from the config seed and the level number.
// The creature starts centred facing right; zones get distinct palette colors,
// never share a cell and never overlap the starting body.
func GenerateLevel(c *GameConfig, level int) LevelSpec {
	rng := rand.New(rand.NewSource(c.Seed + int64(level)))
	grid := NewBorderedGrid(c.GridWidth, c.GridHeight, c.TileSize)

	spec := LevelSpec{
		Start:  grid.Center(Cell{Col: c.GridWidth / 2, Row: c.GridHeight / 2}),
		Facing: Right,
	}
	creature := buildCreature(c, grid, spec)
	resolver := NewResolver(c.TileSize, c.ZoneSize, Scoring{})
	body := creature.Segments()

	var candidates []Position
	for row := 1; row < c.GridHeight-1; row++ {
		for col := 1; col < c.GridWidth-1; col++ {
			pos := grid.Center(Cell{Col: col, Row: row})
			if resolver.firstOverlap(body, GoalZone{Position: pos}) < 0 {
				candidates = append(candidates, pos)
			}
		}
	}

	count := c.ZonesPerLevel
	if count <= 0 {
		count = DefaultZonesPerLevel
	}
	if count > len(PaletteOrder) {
		count = len(PaletteOrder)
	}
	if count > len(candidates) {
		count = len(candidates)
	}

	colors := rng.Perm(len(PaletteOrder))
	cells := rng.Perm(len(candidates))
	for i := 0; i < count; i++ {
		pos := candidates[cells[i]]
		spec.Zones = append(spec.Zones, ZoneSpec{X: pos.X, Y: pos.Y, Color: PaletteOrder[colors[i]]})
	}
	if len(spec.Zones) > 0 {
		spec.CreatureColor = spec.Zones[0].Color
	}
	return spec
}

// buildCreature lays out the creature described by a level spec
func buildCreature(c *GameConfig, grid *TileGrid, spec LevelSpec) *Creature {
	facing := spec.Facing
	if facing == "" {
		facing = Right
	}
	if len(spec.Body) > 0 {
		return NewCreatureFromSegments(grid, spec.Body, c.CreatureLength, spec.CreatureColor)
	}
	return NewCreature(grid, spec.Start, c.CreatureLength, facing, spec.CreatureColor)
}
