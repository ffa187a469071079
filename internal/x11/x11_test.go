package x11

import (
	"errors"
	"testing"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgbutil/icccm"

	"github.com/wayice/wayice/internal/snapshot"
	"github.com/wayice/wayice/internal/surface"
)

func TestMetadataFrom(t *testing.T) {
	class := &icccm.WmClass{Instance: "xterm", Class: "XTerm"}

	meta := metadataFrom(42, "net title", "wm title", class, 1234)
	want := surface.X11Metadata{WindowID: 42, Title: "net title", Class: "XTerm", Instance: "xterm", PID: 1234}
	if meta != want {
		t.Fatalf("got %+v, want %+v", meta, want)
	}

	meta = metadataFrom(42, "", "wm title", nil, 0)
	if meta.Title != "wm title" {
		t.Fatalf("expected WM_NAME fallback, got %q", meta.Title)
	}
	if meta.Class != "" || meta.Instance != "" || meta.PID != 0 {
		t.Fatalf("expected empty class and pid, got %+v", meta)
	}
}

func TestIsNormalType(t *testing.T) {
	tests := []struct {
		types []string
		want  bool
	}{
		{nil, true},
		{[]string{"_NET_WM_WINDOW_TYPE_NORMAL"}, true},
		{[]string{"_NET_WM_WINDOW_TYPE_DIALOG"}, true},
		{[]string{"_NET_WM_WINDOW_TYPE_DOCK"}, false},
		{[]string{"_NET_WM_WINDOW_TYPE_DESKTOP"}, false},
		{[]string{"_KDE_NET_WM_WINDOW_TYPE_OVERRIDE", "_NET_WM_WINDOW_TYPE_NORMAL"}, true},
		{[]string{"_NET_WM_WINDOW_TYPE_UTILITY"}, false},
	}
	for _, tt := range tests {
		if got := isNormalType(tt.types); got != tt.want {
			t.Errorf("isNormalType(%v) = %v, want %v", tt.types, got, tt.want)
		}
	}
}

func TestRefreshMilliHz(t *testing.T) {
	// 1920x1080@60 CEA mode line.
	mode := randr.ModeInfo{DotClock: 148500000, Htotal: 2200, Vtotal: 1125}
	if got := refreshMilliHz(mode); got != 60000 {
		t.Fatalf("expected 60000 mHz, got %d", got)
	}

	// 2560x1440@59.951 CVT reduced blanking.
	mode = randr.ModeInfo{DotClock: 241500000, Htotal: 2720, Vtotal: 1481}
	if got := refreshMilliHz(mode); got != 59951 {
		t.Fatalf("expected 59951 mHz, got %d", got)
	}

	interlaced := randr.ModeInfo{DotClock: 74250000, Htotal: 2200, Vtotal: 1125, ModeFlags: randr.ModeFlagInterlace}
	if got := refreshMilliHz(interlaced); got != 60000 {
		t.Fatalf("expected interlaced field rate 60000 mHz, got %d", got)
	}

	if got := refreshMilliHz(randr.ModeInfo{DotClock: 1}); got != 0 {
		t.Fatalf("expected 0 for empty timings, got %d", got)
	}
}

func TestOutputAdapter(t *testing.T) {
	out := Output{Monitor: Monitor{Name: "DP-1", Width: 2560, Height: 1440, Refresh: 59951, MmWidth: 597, MmHeight: 336}}
	mode, ok := out.CurrentMode()
	if !ok || mode != (surface.Mode{Width: 2560, Height: 1440, Refresh: 59951}) {
		t.Fatalf("unexpected mode %+v %v", mode, ok)
	}
	if out.Description() != "DP-1 (597x336 mm)" {
		t.Fatalf("unexpected description %q", out.Description())
	}

	if _, ok := (Output{Monitor: Monitor{Name: "off"}}).CurrentMode(); ok {
		t.Fatal("expected no mode for a zero-sized monitor")
	}

	records := snapshot.Outputs([]surface.Output{out})
	if len(records) != 1 || records[0].Name != "DP-1" || records[0].RefreshRate != 59951 {
		t.Fatalf("unexpected records %+v", records)
	}
}

type resolverFunc func(uint32) (surface.X11Metadata, error)

func (f resolverFunc) Metadata(id uint32) (surface.X11Metadata, error) { return f(id) }

func TestClientsBuildForeignRecords(t *testing.T) {
	meta := &surface.X11Metadata{WindowID: 7, Title: "Terminal", Class: "XTerm", Instance: "xterm", PID: 99}
	windows := []surface.Window{
		Window{Client: NewClient(7, meta)},
		Window{Client: NewClient(8, nil)},
	}

	// Without IncludeUnassociated these have no native surface.
	if got := snapshot.Windows(windows); len(got) != 0 {
		t.Fatalf("expected unassociated clients to be skipped, got %+v", got)
	}

	b := snapshot.Builder{
		IncludeUnassociated: true,
		Resolver: resolverFunc(func(id uint32) (surface.X11Metadata, error) {
			return surface.X11Metadata{}, errors.New("window gone")
		}),
	}
	records := b.Windows(windows)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Kind != snapshot.RecordForeign || records[0].Foreign.WindowID != "7" || records[0].Foreign.PID != 99 {
		t.Fatalf("unexpected foreign record %+v", records[0])
	}
	if records[1].Kind != snapshot.RecordError || records[1].Error != snapshot.ErrInvalidForeign {
		t.Fatalf("expected error record for unreadable window, got %+v", records[1])
	}
}
