package main

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/wayice/wayice/internal/config"
)

func TestWriteJSON(t *testing.T) {
	doc := []byte(`[{"name":"eDP-1","size":{"width":1920,"height":1080},"refresh_rate":60000}]`)

	var compact bytes.Buffer
	if err := writeJSON(&compact, doc, false); err != nil {
		t.Fatalf("writeJSON: %v", err)
	}
	if compact.String() != string(doc)+"\n" {
		t.Fatalf("expected document unchanged, got %q", compact.String())
	}

	var pretty bytes.Buffer
	if err := writeJSON(&pretty, []byte(`{"method":"ping","data":null}`), true); err != nil {
		t.Fatalf("writeJSON: %v", err)
	}
	want := "{\n  \"method\": \"ping\",\n  \"data\": null\n}\n"
	if pretty.String() != want {
		t.Fatalf("unexpected pretty output %q", pretty.String())
	}

	if err := writeJSON(&pretty, []byte("not json"), true); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestParseSendArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		method  string
		data    string
		wantErr bool
	}{
		{name: "method only", args: []string{"ping"}, method: "ping"},
		{name: "with data", args: []string{"window-info", `{"title":"xterm"}`}, method: "window-info", data: `{"title":"xterm"}`},
		{name: "scalar data", args: []string{"window-info", `42`}, method: "window-info", data: `42`},
		{name: "no args", args: nil, wantErr: true},
		{name: "too many", args: []string{"a", "{}", "extra"}, wantErr: true},
		{name: "empty method", args: []string{""}, wantErr: true},
		{name: "bad json", args: []string{"window-info", "{nope"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method, data, err := parseSendArgs(tt.args)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if method != tt.method || string(data) != tt.data {
				t.Fatalf("got (%q, %q), want (%q, %q)", method, data, tt.method, tt.data)
			}
		})
	}
}

func TestFormatSource(t *testing.T) {
	tests := []struct {
		src  config.Source
		want string
	}{
		{config.Source{Kind: config.SourceDefault, Name: "defaults"}, "default:defaults"},
		{config.Source{Kind: config.SourceDefault}, "default"},
		{config.Source{Kind: config.SourceFile, File: "/c.yaml", Line: 3, Column: 5}, "file:/c.yaml:3:5"},
		{config.Source{Kind: config.SourceFile, File: "/c.yaml"}, "file:/c.yaml"},
	}
	for _, tt := range tests {
		if got := formatSource(tt.src); got != tt.want {
			t.Errorf("formatSource(%+v) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestRequiresRestart(t *testing.T) {
	base := config.DefaultConfig()

	next := config.DefaultConfig()
	next.Publish.Interval = 5 * time.Second
	next.Publish.LockTimeout = time.Second
	next.LogLevel = "debug"
	if requiresRestart(base, next) {
		t.Fatal("interval, lock timeout and log level apply live")
	}

	next = config.DefaultConfig()
	next.SocketPath = "/run/wayice.sock"
	if !requiresRestart(base, next) {
		t.Fatal("socket path change needs a restart")
	}

	next = config.DefaultConfig()
	next.X11.Display = ":1"
	if !requiresRestart(base, next) {
		t.Fatal("x11 change needs a restart")
	}
}

func TestLoadConfig_ExplicitMissingPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "none.yaml")
	res, got, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if got != path || res.Config.SocketPath != config.DefaultSocketPath {
		t.Fatalf("unexpected result %q %+v", got, res.Config)
	}
}

func TestLoadConfig_DefaultPathFromXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	_, got, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if got != filepath.Join(dir, "wayice", "config.yaml") {
		t.Fatalf("unexpected path %q", got)
	}
}

func TestInitConfig_WritesDefaultsOnce(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	written, err := initConfig("", false)
	if err != nil {
		t.Fatalf("initConfig: %v", err)
	}
	if written != filepath.Join(dir, "wayice", "config.yaml") {
		t.Fatalf("unexpected path %q", written)
	}

	res, got, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if got != written || len(res.Files) != 1 {
		t.Fatalf("expected %s to be loaded, got %q files=%v", written, got, res.Files)
	}
	if *res.Config != *config.DefaultConfig() {
		t.Fatalf("expected defaults, got %+v", res.Config)
	}

	if _, err := initConfig("", false); err == nil {
		t.Fatal("expected error for existing file without --force")
	}
	if _, err := initConfig("", true); err != nil {
		t.Fatalf("initConfig --force: %v", err)
	}
}
