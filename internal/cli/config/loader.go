package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// loggerKey is used to store the logger in a command context.
type loggerKey struct{}

// Package-level koanf instance and config file tracking
var (
	k              = koanf.New(".")
	configFileUsed string
	currentConfig  *Config // Stores the loaded config for access by commands
)

// findConfigFile finds the config file to use.
// Priority: explicit path > ./rapidsdev.yaml > $HOME/.rapidsdev/rapidsdev.yaml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"rapidsdev.yaml", "rapidsdev.yml", ".rapidsdev.yaml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		candidate := filepath.Join(homeDir, ".rapidsdev", "rapidsdev.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	currentConfig = nil
}

// Load resolves the configuration for one invocation.
// Precedence (highest to lowest): flags > exported RAPIDS_* env vars >
// persisted config file > hard-coded fallbacks.
//
// Resolution never fails on missing or invalid values; those fall
// through the precedence chain to the fallback. The returned error only
// covers a config file that exists but cannot be read or parsed.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	// Reset koanf for fresh load
	k = koanf.New(".")

	// 1. Hard-coded fallbacks
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"rapids_root":    DefaultRapidsRoot,
		"build_type":     DefaultBuildType,
		"parallel_level": DefaultParallelLevel,
		"state_path":     DefaultStateFile,
		"output":         DefaultOutput,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Persisted config file
	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Already-exported environment variables (RAPIDS_ prefix)
	// Transform: RAPIDS_BUILD_TYPE -> build_type
	if err := k.Load(env.Provider("RAPIDS_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "RAPIDS_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Explicit flags for this invocation (highest priority)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed {
				return "", nil
			}
			switch f.Name {
			case "config", "debug", "release":
				// Not config keys; debug/release are folded into
				// build_type below.
				return "", nil
			case "state":
				return "state_path", posflag.FlagVal(flags, f)
			case "jobs":
				return "parallel_level", posflag.FlagVal(flags, f)
			case "gcc":
				return "gcc_version", posflag.FlagVal(flags, f)
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// -d/--debug and -r/--release beat every other build_type source.
	// When both are given, the last writer wins is not meaningful here,
	// so release takes precedence for predictability.
	if flags != nil {
		if debug, _ := flags.GetBool("debug"); debug && flags.Changed("debug") {
			cfg.BuildType = "Debug"
		}
		if release, _ := flags.GetBool("release"); release && flags.Changed("release") {
			cfg.BuildType = "Release"
		}
	}

	cfg.normalize()

	// Resolve state path relative to the rapids root unless absolute
	if cfg.StatePath != "" && !filepath.IsAbs(cfg.StatePath) {
		cfg.StatePath = filepath.Join(cfg.RapidsRoot, cfg.StatePath)
	}

	// Store config for access by commands
	currentConfig = &cfg

	return &cfg, nil
}

// normalize coerces invalid values back onto the fallback chain.
// Configuration errors are never fatal.
func (c *Config) normalize() {
	switch strings.ToLower(c.BuildType) {
	case "debug":
		c.BuildType = "Debug"
	case "release":
		c.BuildType = "Release"
	default:
		c.BuildType = DefaultBuildType
	}

	if c.ParallelLevel <= 0 {
		c.ParallelLevel = DefaultParallelLevel
	}

	if c.RapidsRoot == "" {
		c.RapidsRoot = DefaultRapidsRoot
	}
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the currently loaded configuration.
// This is available after Load is called.
func GetCurrentConfig() *Config {
	return currentConfig
}

// NewLogger builds the invocation-wide logger. Verbose switches the
// level to debug; output always goes to stderr so command output stays
// clean on stdout.
func NewLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// IntoContext stores the logger in a context.
func IntoContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}
