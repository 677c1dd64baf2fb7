// hot-reload.go: dynamic configuration with Argus integration
//
// Copyright (c) 2025 Ariadne Contributors
// SPDX-License-Identifier: MPL-2.0

package ariadne

import (
	"fmt"
	"sync"
	"time"

	"github.com/agilira/argus"
)

// Collection is the surface shared by Dictionary and Set that hot reload
// operates on. Only collections from this package implement it.
type Collection interface {
	Len() int
	Capacity() int
	Clear()

	applyInitialCapacity(capacity int)
}

// HotConfig provides dynamic configuration reload capabilities using Argus.
// It watches a configuration file and updates collection settings when
// changes are detected.
//
// The table capacity of a live collection cannot be changed in place (the
// table resizes itself by live density); a reloaded initial_capacity takes
// effect on the next Clear.
type HotConfig struct {
	collection Collection
	watcher    *argus.Watcher
	mu         sync.RWMutex
	config     HotSettings

	// OnReload is called after configuration is successfully reloaded.
	// This callback is optional and must be fast and non-blocking.
	OnReload func(oldConfig, newConfig HotSettings)
}

// HotSettings is the reloadable subset of the configuration.
type HotSettings struct {
	// InitialCapacity is applied by the next Clear.
	InitialCapacity int
}

// HotConfigOptions configures hot reload behavior.
type HotConfigOptions struct {
	// ConfigPath is the path to the configuration file to watch.
	// Supports JSON, YAML, TOML, HCL, INI, Properties formats.
	ConfigPath string

	// PollInterval is how often to check for configuration changes.
	// Default: 1 second. Minimum: 100ms.
	PollInterval time.Duration

	// OnReload is called after configuration is successfully reloaded.
	OnReload func(oldConfig, newConfig HotSettings)
}

// NewHotConfig creates a new hot-reloadable configuration for a collection.
//
// Example configuration file (YAML):
//
//	collection:
//	  initial_capacity: 4096
//
// Supported configuration keys:
//   - collection.initial_capacity (int): table capacity used by Clear
func NewHotConfig(collection Collection, opts HotConfigOptions) (*HotConfig, error) {
	if opts.ConfigPath == "" {
		return nil, fmt.Errorf("config_path is required")
	}

	if opts.PollInterval == 0 {
		opts.PollInterval = 1 * time.Second
	} else if opts.PollInterval < 100*time.Millisecond {
		opts.PollInterval = 100 * time.Millisecond
	}

	hc := &HotConfig{
		collection: collection,
		OnReload:   opts.OnReload,
		config:     HotSettings{InitialCapacity: collection.Capacity()},
	}

	argusConfig := argus.Config{
		PollInterval: opts.PollInterval,
	}

	watcher, err := argus.UniversalConfigWatcherWithConfig(opts.ConfigPath, hc.handleConfigChange, argusConfig)
	if err != nil {
		return nil, err
	}
	hc.watcher = watcher

	return hc, nil
}

// Start begins watching the configuration file for changes.
func (hc *HotConfig) Start() error {
	if hc.watcher.IsRunning() {
		return nil
	}
	return hc.watcher.Start()
}

// Stop stops watching the configuration file.
func (hc *HotConfig) Stop() error {
	return hc.watcher.Stop()
}

// GetSettings returns the current reloadable settings (thread-safe).
func (hc *HotConfig) GetSettings() HotSettings {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	return hc.config
}

// handleConfigChange is called by Argus when configuration changes.
func (hc *HotConfig) handleConfigChange(configData map[string]interface{}) {
	hc.mu.Lock()
	oldConfig := hc.config
	newConfig := hc.parseSettings(configData, oldConfig)
	hc.config = newConfig
	hc.mu.Unlock()

	if newConfig.InitialCapacity != oldConfig.InitialCapacity {
		hc.collection.applyInitialCapacity(newConfig.InitialCapacity)
	}

	if hc.OnReload != nil {
		hc.OnReload(oldConfig, newConfig)
	}
}

// parseIntInRange extracts an integer within the specified range [min, max].
// Supports both int and float64 types (YAML/JSON may vary).
func parseIntInRange(value interface{}, min, max int) (int, bool) {
	switch v := value.(type) {
	case int:
		if v >= min && v <= max {
			return v, true
		}
	case float64:
		if v >= float64(min) && v <= float64(max) {
			return int(v), true
		}
	}
	return 0, false
}

// parseSettings extracts collection configuration from Argus config data.
func (hc *HotConfig) parseSettings(data map[string]interface{}, current HotSettings) HotSettings {
	settings := current

	section, ok := data["collection"].(map[string]interface{})
	if !ok {
		// The whole document may be the collection section.
		if _, has := data["initial_capacity"]; has {
			section = data
		} else {
			return settings
		}
	}

	if capacity, ok := parseIntInRange(section["initial_capacity"], 1, MaxCapacity); ok {
		settings.InitialCapacity = capacity
	}

	return settings
}
