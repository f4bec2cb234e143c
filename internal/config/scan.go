package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is the path to the canonical scan defaults file.
const DefaultConfigPath = "config/scan.defaults.json"

const (
	defaultCountRow  = 2000000
	defaultSearchMin = 0
	defaultSearchMax = 4000000
	defaultShardRows = 10000
	defaultListen    = "127.0.0.1:8080"
)

// ScanConfig holds the query parameters and scanner tuning for the beacon
// tool. Every field is optional; the Get* methods supply defaults for
// anything left unset, so partial configs are safe.
type ScanConfig struct {
	// Row counted by the "count" query.
	CountRow *int `json:"count_row,omitempty" yaml:"count_row,omitempty"`

	// Search square for the gap query; used for both rows and columns.
	SearchMin *int `json:"search_min,omitempty" yaml:"search_min,omitempty"`
	SearchMax *int `json:"search_max,omitempty" yaml:"search_max,omitempty"`

	// Worker pool params. Workers <= 0 means one per CPU.
	Workers     *int    `json:"workers,omitempty" yaml:"workers,omitempty"`
	ShardRows   *int    `json:"shard_rows,omitempty" yaml:"shard_rows,omitempty"`
	ScanTimeout *string `json:"scan_timeout,omitempty" yaml:"scan_timeout,omitempty"` // duration string like "10m"

	// HTTP listen address for "serve".
	Listen *string `json:"listen,omitempty" yaml:"listen,omitempty"`
}

// EmptyScanConfig returns a ScanConfig with all fields set to nil.
func EmptyScanConfig() *ScanConfig {
	return &ScanConfig{}
}

// Load reads a ScanConfig from a .json, .yaml or .yml file.
// The file must be under 1MB. The result is validated before it is returned.
func Load(path string) (*ScanConfig, error) {
	cleanPath := filepath.Clean(path)
	ext := filepath.Ext(cleanPath)
	switch ext {
	case ".json", ".yaml", ".yml":
	default:
		return nil, fmt.Errorf("config file must have .json, .yaml or .yml extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyScanConfig()
	if ext == ".json" {
		err = json.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", ext, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical defaults from DefaultConfigPath.
// It searches the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *ScanConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := Load(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *ScanConfig) Validate() error {
	if c.GetSearchMin() > c.GetSearchMax() {
		return fmt.Errorf("search_min (%d) must not exceed search_max (%d)", c.GetSearchMin(), c.GetSearchMax())
	}
	if c.ShardRows != nil && *c.ShardRows <= 0 {
		return fmt.Errorf("shard_rows must be positive, got %d", *c.ShardRows)
	}
	if c.ScanTimeout != nil && *c.ScanTimeout != "" {
		d, err := time.ParseDuration(*c.ScanTimeout)
		if err != nil {
			return fmt.Errorf("invalid scan_timeout '%s': %w", *c.ScanTimeout, err)
		}
		if d < 0 {
			return fmt.Errorf("scan_timeout must be non-negative, got %s", d)
		}
	}
	if c.Listen != nil && *c.Listen == "" {
		return fmt.Errorf("listen must not be empty")
	}
	return nil
}

// GetCountRow returns the count_row value or the default.
func (c *ScanConfig) GetCountRow() int {
	if c.CountRow == nil {
		return defaultCountRow
	}
	return *c.CountRow
}

// GetSearchMin returns the search_min value or the default.
func (c *ScanConfig) GetSearchMin() int {
	if c.SearchMin == nil {
		return defaultSearchMin
	}
	return *c.SearchMin
}

// GetSearchMax returns the search_max value or the default.
func (c *ScanConfig) GetSearchMax() int {
	if c.SearchMax == nil {
		return defaultSearchMax
	}
	return *c.SearchMax
}

// GetWorkers returns the worker count, resolving unset or non-positive values
// to runtime.NumCPU().
func (c *ScanConfig) GetWorkers() int {
	if c.Workers == nil || *c.Workers <= 0 {
		return runtime.NumCPU()
	}
	return *c.Workers
}

// GetShardRows returns the shard_rows value or the default.
func (c *ScanConfig) GetShardRows() int {
	if c.ShardRows == nil {
		return defaultShardRows
	}
	return *c.ShardRows
}

// GetScanTimeout parses and returns ScanTimeout. Zero means no timeout.
func (c *ScanConfig) GetScanTimeout() time.Duration {
	if c.ScanTimeout == nil || *c.ScanTimeout == "" {
		return 0
	}
	d, err := time.ParseDuration(*c.ScanTimeout)
	if err != nil {
		return 0 // default on parse error
	}
	return d
}

// GetListen returns the listen address or the default.
func (c *ScanConfig) GetListen() string {
	if c.Listen == nil {
		return defaultListen
	}
	return *c.Listen
}
