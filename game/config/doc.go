// Package config provides configuration management for the Gecko Puzzle game.
//
// The config package handles:
//   - Loading level configurations from JSON files
//   - Validation through engine.ParseGameConfig
//   - Default configuration selection and caching
//
// Configuration Format:
//
// Each JSON file in the configs directory describes the board (grid_width,
// grid_height, tile_size), the gecko (creature_length), the round timer
// (level_seconds), zone size, scoring and timing, and either a list of
// hand-made levels or "procedural": true with a seed. Omitted numeric fields
// take the engine defaults.
//
// Bundled configurations:
//   - classic: three holes above a three-segment gecko, 60 seconds
//   - solo: a single-segment gecko on a small board
//   - procedural: seeded random layouts with four holes per level
//
// The default configuration is classic.json when present, else the first
// valid file, else engine.DefaultConfig().
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	cfg, err := manager.LoadConfig("classic")
package config
