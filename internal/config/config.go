// Package config loads codegraph configuration from .codegraph/config.yml
// with environment variable overrides.
package config

import "path/filepath"

// Config is the complete codegraph configuration.
type Config struct {
	Paths   PathsConfig   `yaml:"paths" mapstructure:"paths"`
	Index   IndexConfig   `yaml:"index" mapstructure:"index"`
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`
}

// PathsConfig defines which files to index and which to skip.
type PathsConfig struct {
	Include []string `yaml:"include" mapstructure:"include"` // glob patterns; empty selects every recognized file
	Exclude []string `yaml:"exclude" mapstructure:"exclude"` // glob patterns to skip
}

// IndexConfig tunes the extraction pipeline.
type IndexConfig struct {
	Workers   int      `yaml:"workers" mapstructure:"workers"`       // 0 means one per CPU
	BatchSize int      `yaml:"batch_size" mapstructure:"batch_size"` // files per write transaction
	Languages []string `yaml:"languages" mapstructure:"languages"`   // optional language tag filter
}

// StorageConfig locates the SQLite database.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path" mapstructure:"database_path"` // relative paths resolve against the workspace root
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			Exclude: []string{
				"node_modules/**",
				"vendor/**",
				"dist/**",
				"build/**",
				"target/**",
				"__pycache__/**",
				"*.min.js",
			},
		},
		Index: IndexConfig{
			Workers:   0,
			BatchSize: 50,
		},
		Storage: StorageConfig{
			DatabasePath: filepath.Join(".codegraph", "index.db"),
		},
	}
}

// DatabasePath resolves the database location against the workspace root.
func (c *Config) DatabasePath(root string) string {
	if filepath.IsAbs(c.Storage.DatabasePath) {
		return c.Storage.DatabasePath
	}
	return filepath.Join(root, c.Storage.DatabasePath)
}
