package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/formdrop/formdrop/internal/config"
)

// writeTestConfig points the registry at a temp config file and reloads it
func writeTestConfig(t *testing.T, yaml string) {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfgDir := filepath.Join(dir, "formdrop")
	if err := os.MkdirAll(cfgDir, 0700); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte(yaml), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := config.ReloadRegistry(); err != nil {
		t.Fatalf("ReloadRegistry: %v", err)
	}
}

func TestResolveFormConfigKeepsProfileInputName(t *testing.T) {
	writeTestConfig(t, `version: 1
profiles:
  default:
    endpoint: http://files.local:8640/upload
    number_of_files: 2
    input_name: photo
preferences:
  auto_discover: false
  default_profile: default
`)

	cfg, name, _, err := resolveFormConfig(formCmd)
	if err != nil {
		t.Fatalf("resolveFormConfig() error = %v", err)
	}

	if name != "default" {
		t.Errorf("profile = %q, want default", name)
	}
	// The unset --name flag must not clobber the profile's input name
	if cfg.InputName != "photo" {
		t.Errorf("InputName = %q, want photo", cfg.InputName)
	}
	if cfg.NumberOfFiles != 2 {
		t.Errorf("NumberOfFiles = %d, want 2", cfg.NumberOfFiles)
	}
	if cfg.FormAction != "http://files.local:8640/upload" {
		t.Errorf("FormAction = %q", cfg.FormAction)
	}
}

func TestResolveFormConfigNameFlagOverridesProfile(t *testing.T) {
	writeTestConfig(t, `version: 1
profiles:
  default:
    endpoint: http://files.local:8640/upload
    input_name: photo
preferences:
  auto_discover: false
  default_profile: default
`)

	if err := formCmd.Flags().Set("name", "attachment"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	defer func() {
		// Flag state is package-global; put it back for other tests
		_ = formCmd.Flags().Set("name", "")
		formCmd.Flags().Lookup("name").Changed = false
	}()

	cfg, _, _, err := resolveFormConfig(formCmd)
	if err != nil {
		t.Fatalf("resolveFormConfig() error = %v", err)
	}

	if cfg.InputName != "attachment" {
		t.Errorf("InputName = %q, want attachment", cfg.InputName)
	}
}
