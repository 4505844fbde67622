package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variable names that steer loading itself.
const (
	EnvPrefix  = "REFASSIST_"
	EnvConfig  = "REFASSIST_CONFIG"
	EnvDotFile = "REFASSIST_ENV_FILE"
)

// Load builds a Config by layering, low to high precedence:
//  1. defaults (New)
//  2. a .env file (REFASSIST_ENV_FILE, default ".env"), if present
//  3. a YAML file if REFASSIST_CONFIG is set
//  4. REFASSIST_* environment variables
func Load() (*Config, error) {
	dotFile := os.Getenv(EnvDotFile)
	if dotFile == "" {
		dotFile = ".env"
	}
	// godotenv never overrides variables that are already set.
	if err := godotenv.Load(dotFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrLoadConfig, dotFile, err)
	}

	k := koanf.New(".")

	if path := os.Getenv(EnvConfig); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// REFASSIST_REVIEW_DELAY -> review_delay
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *New()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// comma-separated origins from the environment arrive as one string
	if len(cfg.AllowedOrigins) == 1 && strings.Contains(cfg.AllowedOrigins[0], ",") {
		cfg.AllowedOrigins = splitList(cfg.AllowedOrigins[0])
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
