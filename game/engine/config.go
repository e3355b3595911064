package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ZoneSpec places one goal zone at a tile-centre pixel position
type ZoneSpec struct {
	X     int   `json:"x"`
	Y     int   `json:"y"`
	Color Color `json:"color"`
}

// LevelSpec describes the starting layout of one level
type LevelSpec struct {
	Start         Position   `json:"start"`
	Facing        Direction  `json:"facing,omitempty"`
	CreatureColor Color      `json:"creature_color,omitempty"`
	Body          []Position `json:"body,omitempty"`
	Zones         []ZoneSpec `json:"zones"`
}

// TimingConfig holds the scheduled intervals in milliseconds
type TimingConfig struct {
	TickMillis         int `json:"tick_ms"`
	FlashMillis        int `json:"flash_ms"`
	LevelAdvanceMillis int `json:"level_advance_ms"`
}

// GameConfig holds every tunable rule of a game
type GameConfig struct {
	Name           string       `json:"name"`
	Description    string       `json:"description"`
	GridWidth      int          `json:"grid_width"`
	GridHeight     int          `json:"grid_height"`
	TileSize       int          `json:"tile_size"`
	CreatureLength int          `json:"creature_length"`
	LevelSeconds   int          `json:"level_seconds"`
	ZoneSize       int          `json:"zone_size"`
	Scoring        Scoring      `json:"scoring"`
	Timing         TimingConfig `json:"timing"`
	Levels         []LevelSpec  `json:"levels,omitempty"`
	Procedural     bool         `json:"procedural,omitempty"`
	Seed           int64        `json:"seed,omitempty"`
	ZonesPerLevel  int          `json:"zones_per_level,omitempty"`
}

// TickInterval returns the countdown tick period
func (t TimingConfig) TickInterval() time.Duration {
	return millisOr(t.TickMillis, DefaultTickInterval)
}

// FlashDuration returns how long a collision flash lasts
func (t TimingConfig) FlashDuration() time.Duration {
	return millisOr(t.FlashMillis, DefaultFlashDuration)
}

// LevelAdvanceDelay returns the pause between LevelComplete and the next level
func (t TimingConfig) LevelAdvanceDelay() time.Duration {
	return millisOr(t.LevelAdvanceMillis, DefaultLevelAdvance)
}

func millisOr(ms int, def time.Duration) time.Duration {
	if ms <= 0 {
		return def
	}
	return time.Duration(ms) * time.Millisecond
}

// DefaultConfig returns the classic 20x15 board with three holes
func DefaultConfig() *GameConfig {
	return &GameConfig{
		Name:           "classic",
		Description:    "Guide the gecko over the red, green and blue holes before the clock runs out",
		GridWidth:      DefaultGridWidth,
		GridHeight:     DefaultGridHeight,
		TileSize:       DefaultTileSize,
		CreatureLength: DefaultCreatureLength,
		LevelSeconds:   DefaultLevelSeconds,
		ZoneSize:       DefaultZoneSize,
		Scoring: Scoring{
			Match:      DefaultMatchPoints,
			Mismatch:   DefaultMismatch,
			LevelBonus: DefaultLevelBonus,
		},
		Timing: TimingConfig{
			TickMillis:         int(DefaultTickInterval / time.Millisecond),
			FlashMillis:        int(DefaultFlashDuration / time.Millisecond),
			LevelAdvanceMillis: int(DefaultLevelAdvance / time.Millisecond),
		},
		Levels: []LevelSpec{
			{
				Start:         Position{X: 260, Y: 300},
				Facing:        Right,
				CreatureColor: Red,
				Zones: []ZoneSpec{
					{X: 140, Y: 140, Color: Red},
					{X: 300, Y: 140, Color: Green},
					{X: 460, Y: 140, Color: Blue},
				},
			},
		},
		ZonesPerLevel: DefaultZonesPerLevel,
	}
}

// ApplyDefaults fills zero-valued sizes and rules with the package defaults.
// Scoring values are left alone since zero points is a legitimate rule.
func ApplyDefaults(config *GameConfig) {
	if config.GridWidth == 0 {
		config.GridWidth = DefaultGridWidth
	}
	if config.GridHeight == 0 {
		config.GridHeight = DefaultGridHeight
	}
	if config.TileSize == 0 {
		config.TileSize = DefaultTileSize
	}
	if config.CreatureLength == 0 {
		config.CreatureLength = DefaultCreatureLength
	}
	if config.LevelSeconds == 0 {
		config.LevelSeconds = DefaultLevelSeconds
	}
	if config.ZoneSize == 0 {
		config.ZoneSize = DefaultZoneSize
	}
	if config.ZonesPerLevel == 0 {
		config.ZonesPerLevel = DefaultZonesPerLevel
	}
}

// IsProcedural reports whether levels come from the layout generator
func (c *GameConfig) IsProcedural() bool {
	return c.Procedural || len(c.Levels) == 0
}

// Clone returns a deep copy of the config
func (c *GameConfig) Clone() *GameConfig {
	out := *c
	out.Levels = make([]LevelSpec, len(c.Levels))
	for i, lvl := range c.Levels {
		lvl.Body = append([]Position(nil), lvl.Body...)
		lvl.Zones = append([]ZoneSpec(nil), lvl.Zones...)
		out.Levels[i] = lvl
	}
	return &out
}

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return invalidf("config is nil")
	}

	// Validate required fields
	if config.Name == "" {
		return invalidf("name is required")
	}
	if config.Description == "" {
		return invalidf("description is required")
	}

	// Validate board geometry
	if config.GridWidth < MinGridSize || config.GridWidth > MaxGridSize {
		return invalidf("grid_width must be between %d and %d, got %d", MinGridSize, MaxGridSize, config.GridWidth)
	}
	if config.GridHeight < MinGridSize || config.GridHeight > MaxGridSize {
		return invalidf("grid_height must be between %d and %d, got %d", MinGridSize, MaxGridSize, config.GridHeight)
	}
	if config.TileSize < MinTileSize {
		return invalidf("tile_size must be at least %d, got %d", MinTileSize, config.TileSize)
	}
	if config.ZoneSize <= 0 {
		return invalidf("zone_size must be positive, got %d", config.ZoneSize)
	}

	// Validate creature
	if config.CreatureLength < 1 || config.CreatureLength > MaxCreatureLength {
		return invalidf("creature_length must be between 1 and %d, got %d", MaxCreatureLength, config.CreatureLength)
	}
	if config.CreatureLength > config.GridWidth-2 {
		return invalidf("grid of width %d is too small for a creature of length %d", config.GridWidth, config.CreatureLength)
	}

	// Validate rules
	if config.LevelSeconds <= 0 {
		return invalidf("level_seconds must be positive, got %d", config.LevelSeconds)
	}
	if config.Scoring.Match < 0 || config.Scoring.Mismatch < 0 || config.Scoring.LevelBonus < 0 {
		return invalidf("scoring values must not be negative")
	}
	if config.Timing.TickMillis < 0 || config.Timing.FlashMillis < 0 || config.Timing.LevelAdvanceMillis < 0 {
		return invalidf("timing values must not be negative")
	}
	if config.ZonesPerLevel < 0 || config.ZonesPerLevel > len(PaletteOrder) {
		return invalidf("zones_per_level must be between 0 and %d, got %d", len(PaletteOrder), config.ZonesPerLevel)
	}

	grid := NewBorderedGrid(config.GridWidth, config.GridHeight, config.TileSize)
	for i, level := range config.Levels {
		if err := validateLevel(config, grid, level); err != nil {
			return fmt.Errorf("level %d: %w", i+1, err)
		}
	}

	if config.IsProcedural() {
		want := config.ZonesPerLevel
		if want == 0 {
			want = DefaultZonesPerLevel
		}
		if got := len(GenerateLevel(config, 1).Zones); got < want {
			return invalidf("grid has room for %d procedural zones, need %d", got, want)
		}
	}

	return nil
}

func validateLevel(config *GameConfig, grid *TileGrid, level LevelSpec) error {
	if !grid.IsTraversablePos(level.Start) {
		return invalidf("start (%d, %d) is not a path tile centre", level.Start.X, level.Start.Y)
	}
	if level.Facing != "" && !level.Facing.Valid() {
		return invalidf("invalid facing %q", level.Facing)
	}
	if len(level.Body) > 0 && !validBody(grid, level.Body, config.CreatureLength) {
		return invalidf("body must be %d adjacent, distinct path tile centres", config.CreatureLength)
	}
	if len(level.Zones) == 0 || len(level.Zones) > MaxZonesPerLevel {
		return invalidf("a level needs between 1 and %d zones, got %d", MaxZonesPerLevel, len(level.Zones))
	}

	creature := buildCreature(config, grid, level)
	resolver := NewResolver(config.TileSize, config.ZoneSize, Scoring{})

	seen := make(map[Position]bool, len(level.Zones))
	colors := make(map[Color]bool, len(level.Zones))
	for i, zone := range level.Zones {
		pos := Position{X: zone.X, Y: zone.Y}
		if !zone.Color.Valid() {
			return fmt.Errorf("%w: zone %d: %w %q", ErrInvalidConfig, i, ErrUnknownColor, zone.Color)
		}
		if !grid.IsTraversablePos(pos) {
			return invalidf("zone %d at (%d, %d) is not a path tile centre", i, zone.X, zone.Y)
		}
		if seen[pos] {
			return invalidf("zone %d duplicates position (%d, %d)", i, zone.X, zone.Y)
		}
		seen[pos] = true
		colors[zone.Color] = true
		if resolver.firstOverlap(creature.Segments(), GoalZone{Position: pos}) >= 0 {
			return invalidf("zone %d overlaps the starting creature", i)
		}
	}

	if level.CreatureColor != "" {
		if !level.CreatureColor.Valid() {
			return fmt.Errorf("%w: creature_color: %w %q", ErrInvalidConfig, ErrUnknownColor, level.CreatureColor)
		}
		if !colors[level.CreatureColor] {
			return invalidf("creature_color %q matches no zone", level.CreatureColor)
		}
	}
	return nil
}

// LoadGameConfig loads a game configuration from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	// Support CONFIG_DIR environment variable for alternative config directory
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	return ParseGameConfig(data)
}

// ParseGameConfig decodes, defaults and validates a JSON configuration
func ParseGameConfig(data []byte) (*GameConfig, error) {
	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	ApplyDefaults(&config)

	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// LoadConfigByName loads a game configuration by name from the configs directory
func LoadConfigByName(configName string) (*GameConfig, error) {
	if !strings.HasSuffix(configName, ".json") {
		configName = configName + ".json"
	}

	config, err := LoadGameConfig(filepath.Join("configs", configName))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("config file '%s' not found", configName)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid config '%s': %w", configName, err)
	}
	return config, nil
}
