package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultSocketPath     = "/tmp/wayice"
	DefaultMaxFrameBytes  = 64 * 1024
	DefaultWindowsSegment = "/wayice_list_windows"
	DefaultOutputsSegment = "/wayice_list_outputs"
	DefaultInterval       = time.Second
	DefaultLogLevel       = "info"

	minInterval = 50 * time.Millisecond
)

// PublishConfig controls the shared-memory publish loop.
type PublishConfig struct {
	WindowsSegment string `yaml:"windows_segment"`
	OutputsSegment string `yaml:"outputs_segment"`
	// Interval between periodic publishes. State-change notifications
	// publish in between.
	Interval time.Duration `yaml:"interval"`
	// LockTimeout bounds the wait for a segment's semaphore; 0 waits forever.
	LockTimeout time.Duration `yaml:"lock_timeout"`
}

// X11Config selects the X server the daemon reads windows from when no
// compositor feeds it.
type X11Config struct {
	Enabled bool `yaml:"enabled"`
	// Display overrides $DISPLAY when set.
	Display string `yaml:"display,omitempty"`
}

type Config struct {
	SocketPath    string        `yaml:"socket_path"`
	MaxFrameBytes int           `yaml:"max_frame_bytes"`
	Publish       PublishConfig `yaml:"publish"`
	X11           X11Config     `yaml:"x11"`
	LogLevel      string        `yaml:"log_level"`
}

func DefaultConfig() *Config {
	return &Config{
		SocketPath:    DefaultSocketPath,
		MaxFrameBytes: DefaultMaxFrameBytes,
		Publish: PublishConfig{
			WindowsSegment: DefaultWindowsSegment,
			OutputsSegment: DefaultOutputsSegment,
			Interval:       DefaultInterval,
		},
		X11: X11Config{
			Enabled: true,
		},
		LogLevel: DefaultLogLevel,
	}
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.SocketPath) == "" {
		return &ValidationError{Path: "socket_path", Err: fmt.Errorf("socket_path is required")}
	}
	if !filepath.IsAbs(c.SocketPath) {
		return &ValidationError{Path: "socket_path", Err: fmt.Errorf("socket_path must be absolute")}
	}
	if c.MaxFrameBytes < 2 {
		return &ValidationError{Path: "max_frame_bytes", Err: fmt.Errorf("max_frame_bytes must be >= 2")}
	}
	if err := validateSegmentName(c.Publish.WindowsSegment); err != nil {
		return &ValidationError{Path: "publish.windows_segment", Err: err}
	}
	if c.Publish.OutputsSegment != "" {
		if err := validateSegmentName(c.Publish.OutputsSegment); err != nil {
			return &ValidationError{Path: "publish.outputs_segment", Err: err}
		}
		if strings.TrimLeft(c.Publish.OutputsSegment, "/") == strings.TrimLeft(c.Publish.WindowsSegment, "/") {
			return &ValidationError{Path: "publish.outputs_segment", Err: fmt.Errorf("outputs_segment must differ from windows_segment")}
		}
	}
	if c.Publish.Interval < minInterval {
		return &ValidationError{Path: "publish.interval", Err: fmt.Errorf("interval must be >= %s", minInterval)}
	}
	if c.Publish.LockTimeout < 0 {
		return &ValidationError{Path: "publish.lock_timeout", Err: fmt.Errorf("lock_timeout must be >= 0")}
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return &ValidationError{Path: "log_level", Err: err}
	}
	return nil
}

// validateSegmentName applies the POSIX object-name rules: at most one
// leading slash is meaningful and the rest must not contain one.
func validateSegmentName(name string) error {
	trimmed := strings.TrimLeft(name, "/")
	if trimmed == "" {
		return fmt.Errorf("segment name is required")
	}
	if strings.Contains(trimmed, "/") {
		return fmt.Errorf("segment name %q must not contain '/' after the leading slash", name)
	}
	if len(trimmed) > 240 {
		return fmt.Errorf("segment name %q is too long", name)
	}
	return nil
}

// ParseLogLevel maps a log_level value to a slog level.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("log_level must be one of: debug, info, warning, error")
	}
}

// SlogLevel returns the configured level, info when invalid.
func (c *Config) SlogLevel() slog.Level {
	level, _ := ParseLogLevel(c.LogLevel)
	return level
}

// Marshal renders the effective configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Save writes the configuration to path, creating its directory.
//
// Note: this marshals the effective config and will not preserve comments or
// includes from the original YAML.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
