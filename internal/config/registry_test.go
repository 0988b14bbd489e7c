package config

import (
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/formdrop/formdrop/internal/widget"
)

func TestGetConfigDir(t *testing.T) {
	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	if configDir == "" {
		t.Error("GetConfigDir() returned empty string")
	}

	if !strings.Contains(configDir, "formdrop") {
		t.Errorf("GetConfigDir() = %v, should contain 'formdrop'", configDir)
	}

	// Platform-specific checks
	switch runtime.GOOS {
	case "windows":
		if !strings.Contains(configDir, "AppData") && !strings.Contains(configDir, "Local") {
			t.Errorf("Windows config dir should contain 'AppData' or 'Local', got: %v", configDir)
		}
	case "darwin", "linux":
		if !strings.Contains(configDir, ".config") {
			t.Errorf("Unix config dir should contain '.config', got: %v", configDir)
		}
	}
}

func TestGetConfigPath(t *testing.T) {
	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}

	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	if reg.Version != 1 {
		t.Errorf("NewRegistry().Version = %v, want 1", reg.Version)
	}
	if reg.Profiles == nil {
		t.Error("NewRegistry().Profiles should be initialized")
	}
	if reg.Preferences == nil {
		t.Fatal("NewRegistry().Preferences should be initialized")
	}
	if !reg.Preferences.AutoDiscover {
		t.Error("NewRegistry() should default to auto-discover enabled")
	}
	if reg.Preferences.DefaultProfile != DefaultProfileName {
		t.Errorf("default profile = %v, want %v", reg.Preferences.DefaultProfile, DefaultProfileName)
	}
}

func TestEnsureProfile(t *testing.T) {
	reg := NewRegistry()

	profile := reg.EnsureProfile("photos")
	if profile == nil {
		t.Fatal("EnsureProfile() returned nil")
	}
	if profile.NumberOfFiles != 1 {
		t.Errorf("new profile NumberOfFiles = %d, want 1", profile.NumberOfFiles)
	}
	if profile.InputName != widget.DefaultInputName {
		t.Errorf("new profile InputName = %q, want %q", profile.InputName, widget.DefaultInputName)
	}

	// Second call returns the same entry
	profile.NumberOfFiles = 4
	again := reg.EnsureProfile("photos")
	if again.NumberOfFiles != 4 {
		t.Error("EnsureProfile() should return the existing entry")
	}

	// Works on a registry with a nil map
	bare := &Registry{Version: 1}
	if bare.EnsureProfile("x") == nil {
		t.Error("EnsureProfile() should handle a nil profile map")
	}
}

func TestGetProfile(t *testing.T) {
	reg := NewRegistry()

	if reg.GetProfile("missing") != nil {
		t.Error("GetProfile() for unknown name should return nil")
	}

	reg.SetProfileEndpoint("photos", "http://host:8640/upload")
	profile := reg.GetProfile("photos")
	if profile == nil {
		t.Fatal("GetProfile() returned nil for existing profile")
	}
	if profile.Endpoint != "http://host:8640/upload" {
		t.Errorf("Endpoint = %v", profile.Endpoint)
	}
}

func TestTouchProfile(t *testing.T) {
	reg := NewRegistry()
	before := time.Now().Add(-time.Second)

	reg.TouchProfile("photos")
	profile := reg.GetProfile("photos")
	if profile.LastUsed.Before(before) {
		t.Errorf("TouchProfile() did not update LastUsed: %v", profile.LastUsed)
	}
}

func TestProfileWidgetConfig(t *testing.T) {
	profile := &Profile{
		Endpoint:      "http://host:8640/upload",
		NumberOfFiles: 3,
		Progressive:   true,
		AutoSubmit:    true,
		InputName:     "attachment",
		HiddenFields:  []FieldSpec{{Key: "album", Value: "holiday"}},
	}

	cfg := profile.WidgetConfig()
	if cfg.NumberOfFiles != 3 || !cfg.Progressive || !cfg.AutoSubmit {
		t.Errorf("WidgetConfig() = %+v", cfg)
	}
	if cfg.FormAction != profile.Endpoint {
		t.Errorf("FormAction = %v, want %v", cfg.FormAction, profile.Endpoint)
	}
	if cfg.InputName != "attachment" {
		t.Errorf("InputName = %v", cfg.InputName)
	}
	if len(cfg.HiddenFields) != 1 || cfg.HiddenFields[0] != (widget.Field{Key: "album", Value: "holiday"}) {
		t.Errorf("HiddenFields = %v", cfg.HiddenFields)
	}
}

func TestProfileWidgetConfigDefaults(t *testing.T) {
	cfg := (&Profile{}).WidgetConfig()
	if cfg.NumberOfFiles != 1 {
		t.Errorf("empty profile NumberOfFiles = %d, want 1", cfg.NumberOfFiles)
	}
}
