package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultPaths_EnvOverride(t *testing.T) {
	t.Setenv("QUMUPAM_ROOT", "/tmp/qumupam-test")

	paths, err := DefaultPaths()
	if err != nil {
		t.Fatalf("DefaultPaths() error = %v", err)
	}
	if paths.Root != "/tmp/qumupam-test" {
		t.Errorf("Root = %q, want /tmp/qumupam-test", paths.Root)
	}
	if paths.Config != filepath.Join("/tmp/qumupam-test", "config.yaml") {
		t.Errorf("Config = %q", paths.Config)
	}
}

func TestDefaultPaths_Home(t *testing.T) {
	t.Setenv("QUMUPAM_ROOT", "")

	paths, err := DefaultPaths()
	if err != nil {
		t.Fatalf("DefaultPaths() error = %v", err)
	}
	home, _ := os.UserHomeDir()
	if paths.Root != filepath.Join(home, ".qumupam") {
		t.Errorf("Root = %q, want under home", paths.Root)
	}
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Jobs != 1 {
		t.Errorf("Jobs = %d, want 1", cfg.Jobs)
	}
	if cfg.KeepData == nil || !*cfg.KeepData {
		t.Error("KeepData should default to true")
	}
	if cfg.ADBPath != "" {
		t.Errorf("ADBPath = %q, want empty", cfg.ADBPath)
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `adb_path: /opt/platform-tools/adb
jobs: 4
keep_data: false
protected:
  - "com.oculus.*"
  - "com.meta.handtracking"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ADBPath != "/opt/platform-tools/adb" {
		t.Errorf("ADBPath = %q", cfg.ADBPath)
	}
	if cfg.Jobs != 4 {
		t.Errorf("Jobs = %d, want 4", cfg.Jobs)
	}
	if cfg.KeepData == nil || *cfg.KeepData {
		t.Error("KeepData should be false")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("jobs: [not a number\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid yaml")
	}
}

func TestIsProtected(t *testing.T) {
	cfg := &Config{Protected: []string{"com.oculus.*", "com.meta.handtracking"}}

	tests := []struct {
		pkg  string
		want bool
	}{
		{"com.oculus.browser", true},
		{"com.meta.handtracking", true},
		{"com.beatgames.beatsaber", false},
		{"com.oculus", false},
	}

	for _, tt := range tests {
		if got := cfg.IsProtected(tt.pkg); got != tt.want {
			t.Errorf("IsProtected(%q) = %v, want %v", tt.pkg, got, tt.want)
		}
	}
}
