package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the config file name searched in the working
// directory.
const DefaultConfigFile = ".surge.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the YAML config file structure. Every field is optional and
// only seeds the corresponding flag default; explicit flags always win.
type File struct {
	// Concurrent seeds the --concurrent flag.
	Concurrent int `yaml:"concurrent"`

	// TimeoutConnectMS seeds --timeout-connect, in milliseconds.
	TimeoutConnectMS int `yaml:"timeout_connect_ms"`

	// TimeoutMS seeds --timeout, in milliseconds.
	TimeoutMS int `yaml:"timeout_ms"`

	// Headers seeds --header values. Keys are header names.
	Headers map[string]string `yaml:"headers"`

	// Domains seeds the --domains allow-list.
	Domains []string `yaml:"domains"`

	// UserAgent overrides the default User-Agent header.
	UserAgent string `yaml:"user_agent"`
}

// LoadConfigFile loads defaults from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &cf, nil
}

// FindConfigFile locates the configuration file:
//  1. The explicit path, when given.
//  2. .surge.yaml in the current directory.
//  3. config.yaml in the XDG config directory for surge.
//
// Returns the empty string when nothing is found.
func FindConfigFile(explicit string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		path := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	path := filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return path
	}

	return ""
}

// Apply copies the file's values onto the config. Only fields the file
// actually sets are copied; the changed set records which flags the user
// passed explicitly and therefore must not be overridden.
func (f *File) Apply(cfg *Config, changed map[string]bool) {
	if f.Concurrent > 0 && !changed["concurrent"] {
		cfg.Concurrency = f.Concurrent
	}
	if f.TimeoutConnectMS > 0 && !changed["timeout-connect"] {
		cfg.ConnectTimeout = millis(f.TimeoutConnectMS)
	}
	if f.TimeoutMS > 0 && !changed["timeout"] {
		cfg.RequestTimeout = millis(f.TimeoutMS)
	}
	if f.UserAgent != "" {
		cfg.UserAgent = f.UserAgent
	}
	for k, v := range f.Headers {
		if cfg.Headers.Get(k) == "" {
			cfg.Headers.Set(k, v)
		}
	}
}

// millis converts a millisecond count from the config file.
func millis(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}
