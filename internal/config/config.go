// Package config manages qumupam configuration and filesystem paths.
//
// The default root is ~/.qumupam/ holding config.yaml. Nothing about device
// state is ever written there; the file only carries operator preferences.
package config

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Paths contains the filesystem paths used by qumupam.
type Paths struct {
	// Root is the base directory for qumupam data (default: ~/.qumupam)
	Root string

	// Config is the path to the config file
	Config string
}

// DefaultPaths returns the default paths. QUMUPAM_ROOT overrides the root
// directory.
func DefaultPaths() (*Paths, error) {
	root := os.Getenv("QUMUPAM_ROOT")
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		root = filepath.Join(home, ".qumupam")
	}

	return &Paths{
		Root:   root,
		Config: filepath.Join(root, "config.yaml"),
	}, nil
}

// EnsureDirectories creates the root directory if it does not exist.
func (p *Paths) EnsureDirectories() error {
	if err := os.MkdirAll(p.Root, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", p.Root, err)
	}
	return nil
}

// Config holds operator preferences.
type Config struct {
	// ADBPath is the adb binary to use; empty means "adb" from PATH
	ADBPath string `yaml:"adb_path"`

	// Jobs is the default number of concurrent operations (1 = sequential)
	Jobs int `yaml:"jobs"`

	// KeepData preserves app data when hiding packages
	KeepData *bool `yaml:"keep_data"`

	// Protected lists package patterns that are never hidden, e.g.
	// "com.oculus.*". Patterns use path.Match syntax.
	Protected []string `yaml:"protected"`
}

// Default returns the built-in configuration: sequential execution, app data
// preserved on hide, no protected packages.
func Default() *Config {
	keep := true
	return &Config{
		Jobs:     1,
		KeepData: &keep,
	}
}

// Load reads the config file at the given path, layered over Default. A
// missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.Jobs < 1 {
		cfg.Jobs = 1
	}
	if cfg.KeepData == nil {
		keep := true
		cfg.KeepData = &keep
	}
	return cfg, nil
}

// IsProtected reports whether pkg matches any protected pattern.
func (c *Config) IsProtected(pkg string) bool {
	for _, pattern := range c.Protected {
		if ok, err := path.Match(pattern, pkg); err == nil && ok {
			return true
		}
	}
	return false
}
