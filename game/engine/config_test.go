package engine

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// cellCenter returns the pixel centre of a 40px tile index
func cellCenter(i int) int {
	return i*40 + 20
}

func createTestConfig() *GameConfig {
	return &GameConfig{
		Name:           "Engine Test Config",
		Description:    "Configuration for engine integration tests",
		GridWidth:      10,
		GridHeight:     8,
		TileSize:       40,
		CreatureLength: 3,
		LevelSeconds:   5,
		ZoneSize:       40,
		Scoring:        Scoring{Match: 50, Mismatch: 10, LevelBonus: 100},
		Timing:         TimingConfig{TickMillis: 1000, FlashMillis: 200, LevelAdvanceMillis: 1000},
		Levels: []LevelSpec{
			{
				Start:         Position{X: cellCenter(4), Y: cellCenter(4)},
				Facing:        Right,
				CreatureColor: Red,
				Zones: []ZoneSpec{
					{X: cellCenter(7), Y: cellCenter(4), Color: Red},
					{X: cellCenter(7), Y: cellCenter(2), Color: Green},
				},
			},
		},
	}
}

func TestValidateGameConfig_ValidConfig(t *testing.T) {
	if err := ValidateGameConfig(createTestConfig()); err != nil {
		t.Errorf("Expected valid config, got error: %v", err)
	}
	if err := ValidateGameConfig(DefaultConfig()); err != nil {
		t.Errorf("Expected default config to be valid, got error: %v", err)
	}
}

func TestValidateGameConfig_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *GameConfig)
		errMsg string
	}{
		{"missing name", func(c *GameConfig) { c.Name = "" }, "name is required"},
		{"missing description", func(c *GameConfig) { c.Description = "" }, "description is required"},
		{"grid too narrow", func(c *GameConfig) { c.GridWidth = 2 }, "grid_width"},
		{"grid too tall", func(c *GameConfig) { c.GridHeight = MaxGridSize + 1 }, "grid_height"},
		{"tiny tiles", func(c *GameConfig) { c.TileSize = 2 }, "tile_size"},
		{"creature too long for grid", func(c *GameConfig) { c.CreatureLength = 9 }, "too small"},
		{"zero level time", func(c *GameConfig) { c.LevelSeconds = 0 }, "level_seconds"},
		{"negative penalty", func(c *GameConfig) { c.Scoring.Mismatch = -1 }, "scoring"},
		{"start on wall", func(c *GameConfig) { c.Levels[0].Start = Position{X: 20, Y: 20} }, "start"},
		{"misaligned zone", func(c *GameConfig) { c.Levels[0].Zones[0].X++ }, "not a path tile centre"},
		{"zone on wall", func(c *GameConfig) { c.Levels[0].Zones[0].Y = 20 }, "not a path tile centre"},
		{"duplicate zones", func(c *GameConfig) { c.Levels[0].Zones[1] = ZoneSpec{X: cellCenter(7), Y: cellCenter(4), Color: Green} }, "duplicates"},
		{"unknown zone color", func(c *GameConfig) { c.Levels[0].Zones[1].Color = "teal" }, "unknown color"},
		{"creature color without zone", func(c *GameConfig) { c.Levels[0].CreatureColor = Blue }, "matches no zone"},
		{"zone under creature", func(c *GameConfig) { c.Levels[0].Zones[0].X = cellCenter(3) }, "overlaps the starting creature"},
		{"no zones", func(c *GameConfig) { c.Levels[0].Zones = nil }, "between 1 and"},
		{"bad facing", func(c *GameConfig) { c.Levels[0].Facing = "north" }, "facing"},
		{"broken body", func(c *GameConfig) {
			c.Levels[0].Body = []Position{{X: cellCenter(4), Y: cellCenter(4)}, {X: cellCenter(6), Y: cellCenter(4)}, {X: cellCenter(7), Y: cellCenter(4)}}
		}, "body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := createTestConfig()
			tt.mutate(config)
			err := ValidateGameConfig(config)
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got: %v", err)
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("Expected error containing %q, got: %v", tt.errMsg, err)
			}
		})
	}
}

func TestValidateGameConfig_Procedural(t *testing.T) {
	config := createTestConfig()
	config.Levels = nil
	config.ZonesPerLevel = 3
	if err := ValidateGameConfig(config); err != nil {
		t.Errorf("Expected procedural config to be valid, got: %v", err)
	}

	config.ZonesPerLevel = len(PaletteOrder) + 1
	if err := ValidateGameConfig(config); err == nil {
		t.Error("Expected error for more zones than palette colors")
	}
}

func TestParseGameConfig_AppliesDefaults(t *testing.T) {
	config, err := ParseGameConfig([]byte(`{
		"name": "Sparse",
		"description": "Only the essentials",
		"scoring": {"match": 50, "mismatch_penalty": 10, "level_bonus": 100},
		"procedural": true,
		"seed": 7
	}`))
	if err != nil {
		t.Fatalf("Expected sparse config to load, got: %v", err)
	}
	if config.GridWidth != DefaultGridWidth || config.TileSize != DefaultTileSize || config.LevelSeconds != DefaultLevelSeconds {
		t.Errorf("Expected defaults to be applied, got %+v", config)
	}
	if config.Timing.TickInterval() != DefaultTickInterval {
		t.Errorf("Expected default tick interval, got %v", config.Timing.TickInterval())
	}

	if _, err := ParseGameConfig([]byte(`{not json`)); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for bad JSON, got: %v", err)
	}
}

func TestLoadConfigByName(t *testing.T) {
	tempDir := t.TempDir()

	oldWd, _ := os.Getwd()
	defer os.Chdir(oldWd)
	os.Chdir(tempDir)
	t.Setenv("CONFIG_DIR", "")

	os.MkdirAll("configs", 0755)

	configContent := `{
		"name": "Test Config",
		"description": "Test description",
		"grid_width": 10,
		"grid_height": 8,
		"tile_size": 40,
		"creature_length": 3,
		"level_seconds": 30,
		"zone_size": 40,
		"scoring": {"match": 50, "mismatch_penalty": 10, "level_bonus": 100},
		"levels": [
			{
				"start": {"x": 180, "y": 180},
				"facing": "right",
				"creature_color": "red",
				"zones": [{"x": 300, "y": 180, "color": "red"}]
			}
		]
	}`

	err := os.WriteFile(filepath.Join("configs", "test.json"), []byte(configContent), 0644)
	if err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	config, err := LoadConfigByName("test")
	if err != nil {
		t.Fatalf("Failed to load config by name: %v", err)
	}
	if config.Name != "Test Config" {
		t.Errorf("Expected config name 'Test Config', got '%s'", config.Name)
	}

	config2, err := LoadConfigByName("test.json")
	if err != nil {
		t.Fatalf("Failed to load config by name with extension: %v", err)
	}
	if len(config2.Levels) != 1 || config2.Levels[0].Zones[0].Color != Red {
		t.Errorf("Expected one level with a red zone, got %+v", config2.Levels)
	}

	_, err = LoadConfigByName("nonexistent")
	if err == nil {
		t.Fatal("Expected error for non-existent config")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("Expected 'not found' error, got: %v", err)
	}
}

func TestLoadGameConfig_ConfigDirOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CONFIG_DIR", dir)

	data := `{"name": "Override", "description": "From CONFIG_DIR", "procedural": true}`
	if err := os.WriteFile(filepath.Join(dir, "override.json"), []byte(data), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	config, err := LoadGameConfig("configs/override.json")
	if err != nil {
		t.Fatalf("Expected CONFIG_DIR override to be used, got: %v", err)
	}
	if config.Name != "Override" {
		t.Errorf("Expected name 'Override', got '%s'", config.Name)
	}
}

func TestGameConfig_CloneIsDeep(t *testing.T) {
	config := createTestConfig()
	clone := config.Clone()
	clone.Levels[0].Zones[0].Color = Blue

	if config.Levels[0].Zones[0].Color != Red {
		t.Error("Expected clone to not share zone slices")
	}
}
