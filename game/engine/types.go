package engine

import (
	"strings"
	"time"
)

// TileKind classifies a grid cell for movement
type TileKind string

const (
	Wall TileKind = "wall"
	Path TileKind = "path"
)

// Phase is the session-level game phase
type Phase string

const (
	PhasePlaying       Phase = "playing"
	PhaseLevelComplete Phase = "level_complete"
	PhaseGameOver      Phase = "game_over"
)

// Direction is one of the four cardinal move directions
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// Directions lists the cardinal directions in a stable order
var Directions = []Direction{Up, Down, Left, Right}

const (
	// Validation constants
	MinGridSize       = 3
	MaxGridSize       = 100
	MinTileSize       = 4
	MaxCreatureLength = 32
	MaxTrailLength    = 64
	MaxZonesPerLevel  = 16
	MaxHistoryEntries = 1000

	// Defaults mirror the original 800x600 board
	DefaultGridWidth      = 20
	DefaultGridHeight     = 15
	DefaultTileSize       = 40
	DefaultCreatureLength = 3
	DefaultLevelSeconds   = 60
	DefaultZoneSize       = 60
	DefaultMatchPoints    = 50
	DefaultMismatch       = 10
	DefaultLevelBonus     = 100
	DefaultZonesPerLevel  = 3

	DefaultTickInterval  = 1000 * time.Millisecond
	DefaultFlashDuration = 200 * time.Millisecond
	DefaultLevelAdvance  = 1000 * time.Millisecond
)

// Position is a pixel coordinate. Grid-aligned positions sit on tile centers.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Cell is an integer grid coordinate
type Cell struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

// Offset returns the unit cell delta for a direction
func (d Direction) Offset() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	}
	return 0, 0
}

// Valid reports whether d is one of the four cardinal directions
func (d Direction) Valid() bool {
	switch d {
	case Up, Down, Left, Right:
		return true
	}
	return false
}

// Opposite returns the reverse direction
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	}
	return d
}

// ParseDirection converts user input to a Direction, ignoring case
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", ErrInvalidDirection
	}
	return d, nil
}

// GoalZone is a colored target the creature must cover to score
type GoalZone struct {
	ID       string   `json:"id"`
	Position Position `json:"position"`
	Color    Color    `json:"color"`
	Active   bool     `json:"active"`
}

// FlashKind names the transient tint applied to the creature
type FlashKind string

const (
	FlashNone    FlashKind = ""
	FlashSuccess FlashKind = "success"
	FlashFailure FlashKind = "failure"
	FlashLevel   FlashKind = "level"
)

// Snapshot is a read-only copy of the session state handed to UI shells
type Snapshot struct {
	Score          int              `json:"score"`
	Level          int              `json:"level"`
	TimeRemaining  int              `json:"time_remaining"`
	Phase          Phase            `json:"phase"`
	Creature       []Position       `json:"creature"`
	CreatureColor  Color            `json:"creature_color"`
	Zones          []GoalZone       `json:"zones"`
	Flash          FlashKind        `json:"flash,omitempty"`
	ConfigName     string           `json:"config_name"`
	GridWidth      int              `json:"grid_width"`
	GridHeight     int              `json:"grid_height"`
	TileSize       int              `json:"tile_size"`
	TotalMoves     int              `json:"total_moves"`
	LevelMoves     int              `json:"level_moves"`
	Revision       uint64           `json:"revision"`
	ClockMillis    int64            `json:"clock_ms"`
	LastCollisions []CollisionEvent `json:"last_collisions,omitempty"`
}

// MoveHistoryEntry represents a single move attempt in the session history
type MoveHistoryEntry struct {
	Action       Direction    `json:"action"`
	FromPosition Position     `json:"from_position"`
	ToPosition   Position     `json:"to_position"`
	Level        int          `json:"level"`
	Score        int          `json:"score"`
	Timestamp    int64        `json:"timestamp"`
	Success      bool         `json:"success"`
	Backtrack    bool         `json:"backtrack,omitempty"`
	Reason       RejectReason `json:"reason,omitempty"`
	MoveNumber   int          `json:"move_number"`
}
