package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wricardo/gecko-puzzle/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// Errors explains why a file is invalid; Info summarizes a valid one.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
	Info   []string
}

// configFiles resolves explicit arguments, or every *.json file in dir when none are given
func configFiles(dir string, args []string) ([]string, error) {
	if len(args) > 0 {
		files := make([]string, 0, len(args))
		for _, arg := range args {
			if !strings.HasSuffix(arg, ".json") {
				arg += ".json"
			}
			if _, err := os.Stat(arg); err != nil && filepath.Dir(arg) == "." {
				arg = filepath.Join(dir, arg)
			}
			files = append(files, arg)
		}
		return files, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("error finding config files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no configuration files in %s", dir)
	}
	sort.Strings(files)
	return files, nil
}

// loadConfig reads one file through the same decoding and validation the server uses
func loadConfig(path string) (*engine.GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return engine.ParseGameConfig(data)
}

// validateConfig loads and validates a single configuration file, then checks
// that the creature can reach every zone of every level from its start.
func validateConfig(path string) ValidationResult {
	result := ValidationResult{File: filepath.Base(path), Valid: true}

	config, err := loadConfig(path)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	grid := engine.NewBorderedGrid(config.GridWidth, config.GridHeight, config.TileSize)
	levels := len(config.Levels)
	if config.IsProcedural() {
		levels = 1
	}
	for level := 1; level <= levels; level++ {
		for _, msg := range unreachableZones(config, grid, config.LevelLayout(level)) {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("level %d: %s", level, msg))
		}
	}
	if !result.Valid {
		return result
	}

	result.Info = append(result.Info,
		fmt.Sprintf("✓ Name: %s", config.Name),
		fmt.Sprintf("✓ Grid: %dx%d tiles of %dpx", config.GridWidth, config.GridHeight, config.TileSize),
		fmt.Sprintf("✓ Creature length: %d", config.CreatureLength),
		fmt.Sprintf("✓ Timer: %ds per level", config.LevelSeconds),
	)
	if config.IsProcedural() {
		result.Info = append(result.Info, fmt.Sprintf("✓ Levels: procedural, %d zones each (seed %d)", config.ZonesPerLevel, config.Seed))
	} else {
		result.Info = append(result.Info, fmt.Sprintf("✓ Levels: %d", len(config.Levels)))
	}
	result.Info = append(result.Info, "✓ Connectivity: every zone reachable from the start")
	return result
}

// unreachableZones flood-fills path tiles from the head, treating the rest of
// the starting body as blocked, and lists zones no reached tile overlaps.
func unreachableZones(config *engine.GameConfig, grid *engine.TileGrid, layout engine.LevelSpec) []string {
	body := startingBody(config, grid, layout)
	dist := distancesFrom(grid, grid.CellOf(body[0]), body[1:])

	var missing []string
	for i, zone := range layout.Zones {
		if _, ok := zoneDistance(config, grid, dist, zone); !ok {
			missing = append(missing, fmt.Sprintf("%s zone %d at (%d, %d) is unreachable", zone.Color, i, zone.X, zone.Y))
		}
	}
	return missing
}

// validateFiles prints a report for each file and fails if any is invalid
func validateFiles(w io.Writer, files []string) error {
	invalid := 0
	for _, file := range files {
		result := validateConfig(file)

		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)
		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Info {
				fmt.Fprintln(w, "  "+info)
			}
			continue
		}

		invalid++
		fmt.Fprintln(w, "❌ INVALID")
		for _, msg := range result.Errors {
			fmt.Fprintln(w, "  ❌ "+msg)
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if invalid > 0 {
		fmt.Fprintln(w, "❌ Some configurations have errors")
		return fmt.Errorf("%d of %d configurations are invalid", invalid, len(files))
	}
	fmt.Fprintln(w, "✅ All configurations are valid!")
	return nil
}
