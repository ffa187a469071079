package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths:
//
//	socket_path
//	max_frame_bytes
//	publish.windows_segment
//	publish.outputs_segment
//	publish.interval
//	publish.lock_timeout
//	x11.enabled
//	x11.display
//	log_level
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	switch strings.TrimSpace(path) {
	case "socket_path":
		return cfg.SocketPath, nil
	case "max_frame_bytes":
		return cfg.MaxFrameBytes, nil
	case "publish":
		return cfg.Publish, nil
	case "publish.windows_segment":
		return cfg.Publish.WindowsSegment, nil
	case "publish.outputs_segment":
		return cfg.Publish.OutputsSegment, nil
	case "publish.interval":
		return cfg.Publish.Interval.String(), nil
	case "publish.lock_timeout":
		return cfg.Publish.LockTimeout.String(), nil
	case "x11":
		return cfg.X11, nil
	case "x11.enabled":
		return cfg.X11.Enabled, nil
	case "x11.display":
		return cfg.X11.Display, nil
	case "log_level":
		return cfg.LogLevel, nil
	default:
		return nil, fmt.Errorf("unknown config path %q", path)
	}
}
