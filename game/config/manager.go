package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/wricardo/gecko-puzzle/game/engine"
	"github.com/wricardo/gecko-puzzle/game/service"
	"github.com/wricardo/gecko-puzzle/logger"
)

var (
	ErrConfigNotFound = service.ErrConfigNotFound
	ErrInvalidConfig  = engine.ErrInvalidConfig
)

// defaultConfigName is tried first when picking the default configuration
const defaultConfigName = "classic"

// Manager handles game configuration loading and caching
type Manager struct {
	configDir     string
	defaultConfig *engine.GameConfig
	configs       map[string]*engine.GameConfig
	mu            sync.RWMutex
}

// NewManager creates a new configuration manager
func NewManager(configDir string) (*Manager, error) {
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*engine.GameConfig),
	}

	if err := m.loadDefaultConfig(); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	return m, nil
}

// configKey strips the .json extension and rejects names that would escape the directory
func configKey(name string) (string, error) {
	key := strings.TrimSuffix(name, ".json")
	if key == "" || strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return "", fmt.Errorf("%w: invalid config name %q", ErrConfigNotFound, name)
	}
	return key, nil
}

// LoadConfig loads a configuration by name
func (m *Manager) LoadConfig(name string) (*engine.GameConfig, error) {
	key, err := configKey(name)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	if config, exists := m.configs[key]; exists {
		m.mu.RUnlock()
		return config, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadLocked(key)
}

// loadLocked reads, validates and caches one config; callers hold the write lock
func (m *Manager) loadLocked(key string) (*engine.GameConfig, error) {
	if config, exists := m.configs[key]; exists {
		return config, nil
	}

	data, err := os.ReadFile(filepath.Join(m.configDir, key+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, key)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config, err := engine.ParseGameConfig(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", key, err)
	}

	m.configs[key] = config
	return config, nil
}

// ListConfigs returns information about all available configurations
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var configs []*service.ConfigInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), ".json")
		config, err := m.LoadConfig(name)
		if err != nil {
			logger.Log.WithError(err).WithField("config", name).Warn("skipping invalid config")
			continue
		}

		configs = append(configs, configInfo(entry.Name(), name, config))
	}

	sort.Slice(configs, func(i, j int) bool {
		return configs[i].ConfigID < configs[j].ConfigID
	})
	return configs, nil
}

func configInfo(filename, id string, config *engine.GameConfig) *service.ConfigInfo {
	return &service.ConfigInfo{
		Filename:       filename,
		ConfigID:       id,
		Name:           config.Name,
		Description:    config.Description,
		GridWidth:      config.GridWidth,
		GridHeight:     config.GridHeight,
		CreatureLength: config.CreatureLength,
		LevelSeconds:   config.LevelSeconds,
		Levels:         len(config.Levels),
		Procedural:     config.IsProcedural(),
	}
}

// GetDefault returns the default configuration
func (m *Manager) GetDefault() *engine.GameConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig
}

// SetDefault sets the default configuration by name
func (m *Manager) SetDefault(name string) error {
	config, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultConfig = config
	return nil
}

// RefreshCache drops cached configurations and picks the default again
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.configs = make(map[string]*engine.GameConfig)
	m.mu.Unlock()

	return m.loadDefaultConfig()
}

// loadDefaultConfig picks classic, then the first valid file, then the built-in default
func (m *Manager) loadDefaultConfig() error {
	config, err := m.LoadConfig(defaultConfigName)
	if err != nil {
		configs, listErr := m.ListConfigs()
		if listErr != nil || len(configs) == 0 {
			config = engine.DefaultConfig()
		} else if config, err = m.LoadConfig(configs[0].ConfigID); err != nil {
			config = engine.DefaultConfig()
		}
		logger.Log.WithField("config", config.Name).Info("using fallback default config")
	}

	m.mu.Lock()
	m.defaultConfig = config
	m.mu.Unlock()
	return nil
}

// SaveConfig validates a configuration and writes it to disk
func (m *Manager) SaveConfig(name string, config *engine.GameConfig) error {
	key, err := configKey(name)
	if err != nil {
		return err
	}

	cfg := config.Clone()
	engine.ApplyDefaults(cfg)
	if err := engine.ValidateGameConfig(cfg); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath.Join(m.configDir, key+".json"), data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	m.mu.Lock()
	m.configs[key] = cfg
	m.mu.Unlock()

	logger.Log.WithField("config", key).Info("config saved")
	return nil
}
