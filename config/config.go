// Package config defines the service configuration and its defaults.
// File: config/config.go
package config

import (
	"fmt"
	"time"
)

// Review clear policies.
const (
	// ReviewClearGuarded applies a delayed review clear only if no newer
	// review replaced the one it was scheduled for.
	ReviewClearGuarded = "guarded"
	// ReviewClearLegacy lets every delayed clear blank the review unconditionally.
	ReviewClearLegacy = "legacy"
)

// Camera policies for the simulated device.
const (
	CameraAllow       = "allow"
	CameraDeny        = "deny"
	CameraUnavailable = "unavailable"
)

// Config contains process configuration.
type Config struct {
	// Addr is the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`
	// Env is the deployment environment; "production" silences debug logs.
	Env string `koanf:"env"`
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogDir, when set, receives a timestamped log file in addition to stdout.
	LogDir string `koanf:"log_dir"`

	ApplicationURL string   `koanf:"application_url"`
	WebsocketURL   string   `koanf:"websocket_url"`
	AllowedOrigins []string `koanf:"allowed_origins"`

	SessionSecret        string `koanf:"session_secret"`
	OperatorUsername     string `koanf:"operator_username"`
	OperatorPasswordHash string `koanf:"operator_password_hash"`

	// MatchFile points at a JSON match fixture; empty uses the built-in match.
	MatchFile string `koanf:"match_file"`
	Language  string `koanf:"language"`

	ReviewDelay       time.Duration `koanf:"review_delay"`
	RecognitionTick   time.Duration `koanf:"recognition_tick"`
	ReviewClearPolicy string        `koanf:"review_clear_policy"`

	CameraPolicy     string `koanf:"camera_policy"`
	CameraFacingMode string `koanf:"camera_facing_mode"`
	CameraWidth      int    `koanf:"camera_width"`
	CameraHeight     int    `koanf:"camera_height"`
	CameraFPS        int    `koanf:"camera_fps"`

	// RandomSeed seeds the simulation; 0 seeds from the clock.
	RandomSeed int64 `koanf:"random_seed"`

	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	CloudWatchEnabled   bool   `koanf:"cloudwatch_enabled"`
	CloudWatchNamespace string `koanf:"cloudwatch_namespace"`
	XRayEnabled         bool   `koanf:"xray_enabled"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Addr:                ":8080",
		Env:                 "development",
		LogLevel:            "info",
		ApplicationURL:      "http://localhost:8080",
		WebsocketURL:        "ws://localhost:8080/ws",
		AllowedOrigins:      []string{"http://localhost:8080"},
		SessionSecret:       "change-me",
		Language:            "ar",
		ReviewDelay:         3000 * time.Millisecond,
		RecognitionTick:     200 * time.Millisecond,
		ReviewClearPolicy:   ReviewClearGuarded,
		CameraPolicy:        CameraAllow,
		CameraFacingMode:    "environment",
		CameraWidth:         1280,
		CameraHeight:        720,
		CameraFPS:           15,
		CloudWatchNamespace: "RefereeAssist",
	}
}

// Validate checks the values that would otherwise fail later at runtime.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.ReviewDelay <= 0 {
		return fmt.Errorf("%w: review_delay must be positive", ErrInvalidConfig)
	}
	if c.RecognitionTick <= 0 {
		return fmt.Errorf("%w: recognition_tick must be positive", ErrInvalidConfig)
	}
	switch c.ReviewClearPolicy {
	case ReviewClearGuarded, ReviewClearLegacy:
	default:
		return fmt.Errorf("%w: unknown review_clear_policy %q", ErrInvalidConfig, c.ReviewClearPolicy)
	}
	switch c.CameraPolicy {
	case CameraAllow, CameraDeny, CameraUnavailable:
	default:
		return fmt.Errorf("%w: unknown camera_policy %q", ErrInvalidConfig, c.CameraPolicy)
	}
	if c.CameraWidth <= 0 || c.CameraHeight <= 0 || c.CameraFPS <= 0 {
		return fmt.Errorf("%w: camera dimensions and fps must be positive", ErrInvalidConfig)
	}
	if c.Language != "ar" && c.Language != "en" {
		return fmt.Errorf("%w: unsupported language %q", ErrInvalidConfig, c.Language)
	}
	return nil
}

// AuthEnabled reports whether operator credentials are configured.
func (c *Config) AuthEnabled() bool {
	return c.OperatorUsername != "" && c.OperatorPasswordHash != ""
}
