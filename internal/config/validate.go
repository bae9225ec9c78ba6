package config

import (
	"fmt"

	"github.com/gobwas/glob"

	"github.com/mvp-joe/codegraph/internal/extract/lang"
)

// Validate rejects configurations the pipeline cannot honor.
func Validate(cfg *Config) error {
	for _, pattern := range append(append([]string{}, cfg.Paths.Include...), cfg.Paths.Exclude...) {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			return fmt.Errorf("glob pattern %q: %w", pattern, err)
		}
	}
	if cfg.Index.Workers < 0 {
		return fmt.Errorf("index.workers must not be negative, got %d", cfg.Index.Workers)
	}
	if cfg.Index.BatchSize < 0 {
		return fmt.Errorf("index.batch_size must not be negative, got %d", cfg.Index.BatchSize)
	}

	registered := make(map[string]struct{})
	for _, tag := range lang.Languages() {
		registered[tag] = struct{}{}
	}
	for _, tag := range cfg.Index.Languages {
		if _, ok := registered[tag]; !ok {
			return fmt.Errorf("unknown language tag %q", tag)
		}
	}
	if cfg.Storage.DatabasePath == "" {
		return fmt.Errorf("storage.database_path must not be empty")
	}
	return nil
}
