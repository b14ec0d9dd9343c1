package config

import (
	"fmt"
	"os"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.RapidsRoot == "" {
		return fmt.Errorf("rapids_root is required")
	}
	if c.BuildType != "Debug" && c.BuildType != "Release" {
		return fmt.Errorf("build_type must be Debug or Release, got %q", c.BuildType)
	}
	if c.ParallelLevel < 1 {
		return fmt.Errorf("parallel_level must be at least 1, got %d", c.ParallelLevel)
	}
	return nil
}

// ValidateRoot checks that the rapids root directory exists. Commands
// that only plan (and never touch the checkouts) skip this.
func (c *Config) ValidateRoot() error {
	if _, err := os.Stat(c.RapidsRoot); os.IsNotExist(err) {
		return fmt.Errorf("rapids root does not exist: %s\nHint: create it or use --rapids-root to point at your checkout", c.RapidsRoot)
	}
	return nil
}
