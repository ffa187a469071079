package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

// RawConfig mirrors Config with every field optional, so merged files can
// tell "unset" from a zero value.
type RawConfig struct {
	Include       IncludeList       `yaml:"include"`
	SocketPath    *string           `yaml:"socket_path"`
	MaxFrameBytes *int              `yaml:"max_frame_bytes"`
	Publish       *RawPublishConfig `yaml:"publish"`
	X11           *RawX11Config     `yaml:"x11"`
	LogLevel      *string           `yaml:"log_level"`
}

type RawPublishConfig struct {
	WindowsSegment *string        `yaml:"windows_segment"`
	OutputsSegment *string        `yaml:"outputs_segment"`
	Interval       *time.Duration `yaml:"interval"`
	LockTimeout    *time.Duration `yaml:"lock_timeout"`
}

type RawX11Config struct {
	Enabled *bool   `yaml:"enabled"`
	Display *string `yaml:"display"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c
	out.Include = nil

	if overlay.SocketPath != nil {
		out.SocketPath = overlay.SocketPath
	}
	if overlay.MaxFrameBytes != nil {
		out.MaxFrameBytes = overlay.MaxFrameBytes
	}
	if overlay.Publish != nil {
		merged := mergeRawPublish(c.Publish, *overlay.Publish)
		out.Publish = &merged
	}
	if overlay.X11 != nil {
		merged := mergeRawX11(c.X11, *overlay.X11)
		out.X11 = &merged
	}
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	return out
}

func mergeRawPublish(base *RawPublishConfig, overlay RawPublishConfig) RawPublishConfig {
	var out RawPublishConfig
	if base != nil {
		out = *base
	}
	if overlay.WindowsSegment != nil {
		out.WindowsSegment = overlay.WindowsSegment
	}
	if overlay.OutputsSegment != nil {
		out.OutputsSegment = overlay.OutputsSegment
	}
	if overlay.Interval != nil {
		out.Interval = overlay.Interval
	}
	if overlay.LockTimeout != nil {
		out.LockTimeout = overlay.LockTimeout
	}
	return out
}

func mergeRawX11(base *RawX11Config, overlay RawX11Config) RawX11Config {
	var out RawX11Config
	if base != nil {
		out = *base
	}
	if overlay.Enabled != nil {
		out.Enabled = overlay.Enabled
	}
	if overlay.Display != nil {
		out.Display = overlay.Display
	}
	return out
}
