// hot-reload_test.go: tests for Argus-backed dynamic configuration
//
// Copyright (c) 2025 Ariadne Contributors
// SPDX-License-Identifier: MPL-2.0

package ariadne

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
}

func TestNewHotConfig_RequiresPath(t *testing.T) {
	d := newIntDict(t, 8)
	if _, err := NewHotConfig(d, HotConfigOptions{}); err == nil {
		t.Fatal("expected error for missing config path")
	}
}

func TestHotConfig_ReloadAppliesInitialCapacity(t *testing.T) {
	d := newIntDict(t, 8)

	dir := t.TempDir()
	path := filepath.Join(dir, "collection.json")
	writeConfigFile(t, path, `{"collection": {"initial_capacity": 8}}`)

	reloaded := make(chan HotSettings, 4)
	hc, err := NewHotConfig(d, HotConfigOptions{
		ConfigPath:   path,
		PollInterval: 100 * time.Millisecond,
		OnReload: func(_, newSettings HotSettings) {
			reloaded <- newSettings
		},
	})
	if err != nil {
		t.Fatalf("NewHotConfig failed: %v", err)
	}
	if err := hc.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer func() {
		if err := hc.Stop(); err != nil {
			t.Errorf("Stop failed: %v", err)
		}
	}()

	// Let the watcher settle, then change the capacity.
	time.Sleep(300 * time.Millisecond)
	writeConfigFile(t, path, `{"collection": {"initial_capacity": 64}}`)

	deadline := time.After(5 * time.Second)
	for {
		select {
		case settings := <-reloaded:
			if settings.InitialCapacity != 64 {
				continue
			}
			// The reloaded capacity takes effect on the next Clear.
			d.Clear()
			if got := d.Capacity(); got != 64 {
				t.Errorf("Capacity after Clear = %d, want 64", got)
			}
			return
		case <-deadline:
			t.Fatal("timed out waiting for configuration reload")
		}
	}
}

func TestHotConfig_IgnoresOutOfRangeCapacity(t *testing.T) {
	d := newIntDict(t, 8)
	d.applyInitialCapacity(0) // out of range, ignored
	d.applyInitialCapacity(MaxCapacity + 1)
	d.Clear()
	if got := d.Capacity(); got != 8 {
		t.Errorf("Capacity after Clear = %d, want original 8", got)
	}
}

func TestHotConfig_ParseSettings(t *testing.T) {
	hc := &HotConfig{config: HotSettings{InitialCapacity: 16}}

	got := hc.parseSettings(map[string]interface{}{
		"collection": map[string]interface{}{"initial_capacity": float64(128)},
	}, hc.config)
	if got.InitialCapacity != 128 {
		t.Errorf("InitialCapacity = %d, want 128 (float64 form)", got.InitialCapacity)
	}

	// A flat document is accepted too.
	got = hc.parseSettings(map[string]interface{}{"initial_capacity": 256}, hc.config)
	if got.InitialCapacity != 256 {
		t.Errorf("InitialCapacity = %d, want 256 (flat form)", got.InitialCapacity)
	}

	// Unknown or invalid values keep the current settings.
	got = hc.parseSettings(map[string]interface{}{
		"collection": map[string]interface{}{"initial_capacity": -5},
	}, hc.config)
	if got.InitialCapacity != 16 {
		t.Errorf("InitialCapacity = %d, want unchanged 16", got.InitialCapacity)
	}
}
