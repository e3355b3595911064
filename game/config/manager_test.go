package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/wricardo/gecko-puzzle/game/engine"
)

func createValidConfig() *engine.GameConfig {
	config := engine.DefaultConfig()
	config.Name = "Test Config"
	config.Description = "Test configuration"
	return config
}

func writeConfigFile(t *testing.T, dir, name string, config *engine.GameConfig) {
	t.Helper()
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal config: %v", err)
	}

	filename := name
	if filepath.Ext(filename) == "" {
		filename = name + ".json"
	}

	if err := os.WriteFile(filepath.Join(dir, filename), data, 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
}

func TestNewManager(t *testing.T) {
	t.Run("valid directory", func(t *testing.T) {
		dir := t.TempDir()
		defaultConfig := createValidConfig()
		defaultConfig.Name = "Classic"
		writeConfigFile(t, dir, "classic", defaultConfig)

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager.GetDefault().Name != "Classic" {
			t.Errorf("Expected classic to be the default, got '%s'", manager.GetDefault().Name)
		}
	})

	t.Run("non-existent directory", func(t *testing.T) {
		if _, err := NewManager("/non/existent/path"); err == nil {
			t.Error("Expected error for non-existent directory")
		}
	})

	t.Run("empty directory falls back to the built-in default", func(t *testing.T) {
		manager, err := NewManager(t.TempDir())
		if err != nil {
			t.Fatalf("NewManager should succeed even without config files, got error: %v", err)
		}
		if manager.GetDefault() == nil || manager.GetDefault().Name != engine.DefaultConfig().Name {
			t.Errorf("Expected built-in default config, got %+v", manager.GetDefault())
		}
	})

	t.Run("first valid file when classic is missing", func(t *testing.T) {
		dir := t.TempDir()
		other := createValidConfig()
		other.Name = "Other"
		writeConfigFile(t, dir, "other", other)

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager.GetDefault().Name != "Other" {
			t.Errorf("Expected 'Other' as default, got '%s'", manager.GetDefault().Name)
		}
	})
}

func TestManager_LoadConfig(t *testing.T) {
	dir := t.TempDir()

	easyConfig := createValidConfig()
	easyConfig.Name = "Easy"
	easyConfig.LevelSeconds = 90
	writeConfigFile(t, dir, "easy", easyConfig)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("load existing config", func(t *testing.T) {
		config, err := manager.LoadConfig("easy")
		if err != nil {
			t.Fatalf("Failed to load config: %v", err)
		}
		if config.Name != "Easy" {
			t.Errorf("Expected config name 'Easy', got '%s'", config.Name)
		}
		if config.LevelSeconds != 90 {
			t.Errorf("Expected 90 level seconds, got %d", config.LevelSeconds)
		}
	})

	t.Run("load with .json extension", func(t *testing.T) {
		config, err := manager.LoadConfig("easy.json")
		if err != nil {
			t.Fatalf("Failed to load config with extension: %v", err)
		}
		if config.Name != "Easy" {
			t.Errorf("Expected config name 'Easy', got '%s'", config.Name)
		}
	})

	t.Run("load from cache", func(t *testing.T) {
		config1, _ := manager.LoadConfig("easy")
		config2, err := manager.LoadConfig("easy")
		if err != nil {
			t.Fatalf("Failed to load config from cache: %v", err)
		}
		if config1 != config2 {
			t.Error("Expected config to be loaded from cache")
		}
	})

	t.Run("load non-existent config", func(t *testing.T) {
		_, err := manager.LoadConfig("non-existent")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("Expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("path traversal is rejected", func(t *testing.T) {
		_, err := manager.LoadConfig("../secrets")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("Expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("load invalid config", func(t *testing.T) {
		invalidData := []byte(`{"name": "", "procedural": true}`)
		if err := os.WriteFile(filepath.Join(dir, "invalid.json"), invalidData, 0644); err != nil {
			t.Fatalf("Failed to write invalid config: %v", err)
		}

		_, err := manager.LoadConfig("invalid")
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("load malformed JSON", func(t *testing.T) {
		malformedData := []byte(`{"name": "Malformed", invalid json}`)
		if err := os.WriteFile(filepath.Join(dir, "malformed.json"), malformedData, 0644); err != nil {
			t.Fatalf("Failed to write malformed config: %v", err)
		}

		_, err := manager.LoadConfig("malformed")
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig for malformed JSON, got %v", err)
		}
	})

	t.Run("sparse config gets defaults", func(t *testing.T) {
		sparse := []byte(`{"name": "Sparse", "description": "defaults only", "procedural": true, "seed": 3}`)
		if err := os.WriteFile(filepath.Join(dir, "sparse.json"), sparse, 0644); err != nil {
			t.Fatalf("Failed to write sparse config: %v", err)
		}

		config, err := manager.LoadConfig("sparse")
		if err != nil {
			t.Fatalf("Failed to load sparse config: %v", err)
		}
		if config.GridWidth != engine.DefaultGridWidth || config.ZonesPerLevel == 0 {
			t.Errorf("Expected defaults to be applied, got %+v", config)
		}
	})
}

func TestManager_ListConfigs(t *testing.T) {
	dir := t.TempDir()

	configs := []struct {
		filename string
		name     string
	}{
		{"classic", "Classic"},
		{"easy", "Easy"},
		{"medium", "Medium"},
		{"hard", "Hard"},
	}
	for _, cfg := range configs {
		config := createValidConfig()
		config.Name = cfg.name
		writeConfigFile(t, dir, cfg.filename, config)
	}

	// Non-JSON files and invalid configs are skipped
	os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("readme"), 0644)
	os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0644)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	configList, err := manager.ListConfigs()
	if err != nil {
		t.Fatalf("Failed to list configs: %v", err)
	}
	if len(configList) != 4 {
		t.Fatalf("Expected 4 configs, got %d", len(configList))
	}

	// Sorted by config id
	if configList[0].ConfigID != "classic" || configList[3].ConfigID != "medium" {
		t.Errorf("Expected configs sorted by id, got %s..%s", configList[0].ConfigID, configList[3].ConfigID)
	}

	info := configList[0]
	if info.GridWidth != engine.DefaultGridWidth || info.CreatureLength != engine.DefaultCreatureLength || info.Levels != 1 {
		t.Errorf("Unexpected config info %+v", info)
	}
}

func TestManager_ReloadConfig(t *testing.T) {
	dir := t.TempDir()

	config := createValidConfig()
	config.Name = "Changeable"
	config.LevelSeconds = 30
	writeConfigFile(t, dir, "changeable", config)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	loaded, _ := manager.LoadConfig("changeable")
	if loaded.LevelSeconds != 30 {
		t.Errorf("Expected initial 30 seconds, got %d", loaded.LevelSeconds)
	}

	config.LevelSeconds = 45
	writeConfigFile(t, dir, "changeable", config)

	if err := manager.ReloadConfig("changeable"); err != nil {
		t.Fatalf("Failed to reload config: %v", err)
	}

	reloaded, _ := manager.LoadConfig("changeable")
	if reloaded.LevelSeconds != 45 {
		t.Errorf("Expected reloaded 45 seconds, got %d", reloaded.LevelSeconds)
	}
}

func TestManager_RefreshCache(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "classic", createValidConfig())

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}
	manager.LoadConfig("classic")

	if err := manager.RefreshCache(); err != nil {
		t.Fatalf("RefreshCache() error = %v", err)
	}
	if manager.GetDefault() == nil {
		t.Error("Expected a default after refresh")
	}
	if manager.Count() != 1 {
		t.Errorf("Expected only the default cached after refresh, got %d", manager.Count())
	}
}

func TestManager_SetDefault(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "classic", createValidConfig())
	solo := createValidConfig()
	solo.Name = "Solo"
	solo.CreatureLength = 1
	writeConfigFile(t, dir, "solo", solo)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	if err := manager.SetDefault("solo"); err != nil {
		t.Fatalf("SetDefault() error = %v", err)
	}
	if got := manager.GetDefault().Name; got != "Solo" {
		t.Errorf("Expected default Solo, got %s", got)
	}

	if err := manager.SetDefault("missing"); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("Expected ErrConfigNotFound, got %v", err)
	}
	if got := manager.GetDefault().Name; got != "Solo" {
		t.Errorf("Expected default to stay Solo, got %s", got)
	}
}

func TestManager_SaveConfig(t *testing.T) {
	dir := t.TempDir()
	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("valid config is written and cached", func(t *testing.T) {
		config := createValidConfig()
		config.Name = "Saved"
		if err := manager.SaveConfig("saved", config); err != nil {
			t.Fatalf("SaveConfig() error = %v", err)
		}
		if _, err := os.Stat(filepath.Join(dir, "saved.json")); err != nil {
			t.Errorf("Expected saved.json on disk: %v", err)
		}
		loaded, err := manager.LoadConfig("saved")
		if err != nil || loaded.Name != "Saved" {
			t.Errorf("Expected cached config 'Saved', got %v %v", loaded, err)
		}
	})

	t.Run("invalid config is rejected", func(t *testing.T) {
		config := createValidConfig()
		config.Levels[0].Zones[0].Color = "teal"
		err := manager.SaveConfig("teal", config)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
		if _, statErr := os.Stat(filepath.Join(dir, "teal.json")); !os.IsNotExist(statErr) {
			t.Error("Expected no file for a rejected config")
		}
	})

	t.Run("bad name is rejected", func(t *testing.T) {
		if err := manager.SaveConfig("../escape", createValidConfig()); err == nil {
			t.Error("Expected error for a name outside the directory")
		}
	})
}

func TestManager_ConcurrentAccess(t *testing.T) {
	dir := t.TempDir()

	for i := 1; i <= 5; i++ {
		config := createValidConfig()
		config.Name = fmt.Sprintf("Config%d", i)
		writeConfigFile(t, dir, fmt.Sprintf("config%d", i), config)
	}

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 50)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if _, err := manager.LoadConfig(fmt.Sprintf("config%d", id%5+1)); err != nil {
				errs <- err
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}
	if manager.Count() != 5 {
		t.Errorf("Expected 5 configs in cache, got %d", manager.Count())
	}
}

// Test-only helpers

func (m *Manager) ReloadConfig(name string) error {
	m.mu.Lock()
	delete(m.configs, name)
	m.mu.Unlock()

	_, err := m.LoadConfig(name)
	return err
}

func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.configs)
}
