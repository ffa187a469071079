package config

import "fmt"

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// BuildEffectiveConfig applies raw over the defaults.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	if raw.SocketPath != nil {
		cfg.SocketPath = *raw.SocketPath
	}
	if raw.MaxFrameBytes != nil {
		cfg.MaxFrameBytes = *raw.MaxFrameBytes
	}
	if p := raw.Publish; p != nil {
		if p.WindowsSegment != nil {
			cfg.Publish.WindowsSegment = *p.WindowsSegment
		}
		if p.OutputsSegment != nil {
			cfg.Publish.OutputsSegment = *p.OutputsSegment
		}
		if p.Interval != nil {
			cfg.Publish.Interval = *p.Interval
		}
		if p.LockTimeout != nil {
			cfg.Publish.LockTimeout = *p.LockTimeout
		}
	}
	if x := raw.X11; x != nil {
		if x.Enabled != nil {
			cfg.X11.Enabled = *x.Enabled
		}
		if x.Display != nil {
			cfg.X11.Display = *x.Display
		}
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	return cfg
}
