package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/gecko-puzzle/game/engine"
)

func writeConfig(t *testing.T, dir, name string, config interface{}) string {
	t.Helper()
	var data []byte
	switch c := config.(type) {
	case string:
		data = []byte(c)
	default:
		var err error
		if data, err = json.Marshal(c); err != nil {
			t.Fatalf("Failed to marshal config: %v", err)
		}
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestValidateConfig_ValidConfig(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "classic.json", engine.DefaultConfig())

	result := validateConfig(path)
	if !result.Valid {
		t.Fatalf("Expected valid config, but got errors: %v", result.Errors)
	}
	if result.File != "classic.json" {
		t.Errorf("Expected file name classic.json, got %s", result.File)
	}

	info := strings.Join(result.Info, "\n")
	for _, want := range []string{"Name: classic", "Grid: 20x15", "Levels: 1", "Connectivity"} {
		if !strings.Contains(info, want) {
			t.Errorf("Expected info to contain %q, got:\n%s", want, info)
		}
	}
}

func TestValidateConfig_Procedural(t *testing.T) {
	config := engine.DefaultConfig()
	config.Levels = nil
	config.Procedural = true
	config.Seed = 7
	path := writeConfig(t, t.TempDir(), "proc.json", config)

	result := validateConfig(path)
	if !result.Valid {
		t.Fatalf("Expected valid config, but got errors: %v", result.Errors)
	}
	if !strings.Contains(strings.Join(result.Info, "\n"), "procedural") {
		t.Errorf("Expected procedural info line, got %v", result.Info)
	}
}

func TestValidateConfig_Invalid(t *testing.T) {
	unknownColor := engine.DefaultConfig()
	unknownColor.Levels[0].Zones[0].Color = "magenta"

	misaligned := engine.DefaultConfig()
	misaligned.Levels[0].Zones[1].X = 301

	tests := []struct {
		name    string
		config  interface{}
		wantErr string
	}{
		{"invalid json", `{"name": "test", invalid json}`, "invalid game config"},
		{"unknown color", unknownColor, "unknown color"},
		{"misaligned zone", misaligned, "not a path tile centre"},
		{"missing description", `{"name": "x"}`, "description is required"},
	}

	dir := t.TempDir()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, dir, strings.ReplaceAll(tt.name, " ", "_")+".json", tt.config)

			result := validateConfig(path)
			if result.Valid {
				t.Fatal("Expected invalid config")
			}
			if len(result.Errors) == 0 || !strings.Contains(result.Errors[0], tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, result.Errors)
			}
		})
	}
}

func TestValidateConfig_MissingFile(t *testing.T) {
	result := validateConfig(filepath.Join(t.TempDir(), "nope.json"))
	if result.Valid {
		t.Fatal("Expected missing file to be invalid")
	}
	if !strings.Contains(result.Errors[0], "failed to read file") {
		t.Errorf("Expected read error, got %v", result.Errors)
	}
}

func TestUnreachableZones(t *testing.T) {
	// A one-tile corridor where the body seals off the right-hand zone
	config := &engine.GameConfig{
		GridWidth:      10,
		GridHeight:     3,
		TileSize:       40,
		ZoneSize:       40,
		CreatureLength: 3,
	}
	grid := engine.NewBorderedGrid(config.GridWidth, config.GridHeight, config.TileSize)
	layout := engine.LevelSpec{
		Start:  engine.Position{X: 140, Y: 60},
		Facing: engine.Left,
		Zones: []engine.ZoneSpec{
			{X: 60, Y: 60, Color: engine.Red},
			{X: 340, Y: 60, Color: engine.Green},
		},
	}

	missing := unreachableZones(config, grid, layout)
	if len(missing) != 1 {
		t.Fatalf("Expected 1 unreachable zone, got %v", missing)
	}
	if !strings.Contains(missing[0], "green zone 1") {
		t.Errorf("Expected the green zone to be unreachable, got %s", missing[0])
	}
}

func TestConfigFiles(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "b.json", engine.DefaultConfig())
	writeConfig(t, dir, "a.json", engine.DefaultConfig())
	writeConfig(t, dir, "notes.txt", "ignored")

	files, err := configFiles(dir, nil)
	if err != nil {
		t.Fatalf("configFiles() error = %v", err)
	}
	if len(files) != 2 || filepath.Base(files[0]) != "a.json" || filepath.Base(files[1]) != "b.json" {
		t.Errorf("Expected [a.json b.json], got %v", files)
	}

	files, err = configFiles(dir, []string{"b"})
	if err != nil {
		t.Fatalf("configFiles() error = %v", err)
	}
	if files[0] != filepath.Join(dir, "b.json") {
		t.Errorf("Expected bare name to resolve inside dir, got %s", files[0])
	}

	if _, err := configFiles(t.TempDir(), nil); err == nil {
		t.Error("Expected error for a directory without configs")
	}
}

func TestValidateFiles_Report(t *testing.T) {
	dir := t.TempDir()
	good := writeConfig(t, dir, "good.json", engine.DefaultConfig())
	bad := writeConfig(t, dir, "bad.json", `{"name": "bad"}`)

	var buf bytes.Buffer
	if err := validateFiles(&buf, []string{good}); err != nil {
		t.Errorf("Expected no error for valid files, got %v", err)
	}
	if !strings.Contains(buf.String(), "All configurations are valid") {
		t.Errorf("Expected success summary, got:\n%s", buf.String())
	}

	buf.Reset()
	if err := validateFiles(&buf, []string{good, bad}); err == nil {
		t.Error("Expected error when a file is invalid")
	}
	out := buf.String()
	if !strings.Contains(out, "❌ INVALID") || !strings.Contains(out, "✅ VALID") {
		t.Errorf("Expected both verdicts in report, got:\n%s", out)
	}
}

func TestApp_Validate(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "classic.json", engine.DefaultConfig())

	var buf bytes.Buffer
	app := newApp()
	app.Writer = &buf
	if err := app.Run(context.Background(), []string{"geckoctl", "validate", "--dir", dir}); err != nil {
		t.Fatalf("validate command failed: %v", err)
	}
	if !strings.Contains(buf.String(), "classic.json") {
		t.Errorf("Expected report for classic.json, got:\n%s", buf.String())
	}
}
