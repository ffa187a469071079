package snapshot

import (
	"errors"
	"strings"
	"testing"

	"github.com/wayice/wayice/internal/surface"
	"github.com/wayice/wayice/internal/surface/surfacetest"
)

type fakeResolver map[uint32]surface.X11Metadata

func (f fakeResolver) Metadata(id uint32) (surface.X11Metadata, error) {
	m, ok := f[id]
	if !ok {
		return surface.X11Metadata{}, errors.New("no such window")
	}
	return m, nil
}

func TestWindows_NativePlaceholders(t *testing.T) {
	full := surfacetest.NewSurface("full", 12, 1, nil)
	full.Top = &surface.ToplevelData{
		Title:  surfacetest.Str("Terminal"),
		AppID:  surfacetest.Str("foot"),
		Modal:  true,
		Parent: &surface.ObjectID{Interface: "wl_surface", Protocol: 7},
	}
	bare := surfacetest.NewSurface("bare", 13, 1, nil)
	bare.Top = &surface.ToplevelData{}
	norole := surfacetest.NewSurface("norole", 14, 1, nil)

	records := Windows([]surface.Window{
		surfacetest.NativeWindow(full),
		surfacetest.NativeWindow(bare),
		surfacetest.NativeWindow(norole),
	})

	want := []NativeRecord{
		{SurfaceID: "wl_surface@12", Title: "Terminal", AppID: "foot", IsModal: true, ParentID: "wl_surface@7"},
		{SurfaceID: "wl_surface@13", Title: NoTitle, AppID: NoAppID, ParentID: NoParent},
		{SurfaceID: "wl_surface@14", Title: NoTitle, AppID: NoAppID, ParentID: NoParent},
	}
	if len(records) != len(want) {
		t.Fatalf("got %d records, want %d", len(records), len(want))
	}
	for i, rec := range records {
		if rec.Kind != RecordNative {
			t.Fatalf("record %d kind = %v, want native", i, rec.Kind)
		}
		if rec.Native != want[i] {
			t.Errorf("record %d = %+v, want %+v", i, rec.Native, want[i])
		}
	}
}

func TestWindows_ForeignRecords(t *testing.T) {
	native := surfacetest.NewSurface("assoc", 20, 2, nil)

	withMeta := surfacetest.NewX11("a", 4194305, 2, nil)
	withMeta.Native = native
	withMeta.Meta = &surface.X11Metadata{Title: "xterm", Class: "XTerm", Instance: "xterm", PID: 4242}

	resolved := surfacetest.NewX11("b", 4194306, 2, nil)
	resolved.Native = native

	missing := surfacetest.NewX11("c", 4194307, 2, nil)
	missing.Native = native

	b := Builder{Resolver: fakeResolver{
		4194306: {WindowID: 4194306, Title: "xclock", Class: "XClock", Instance: "xclock", PID: 7},
	}}
	records := b.Windows([]surface.Window{
		surfacetest.X11Window(withMeta),
		surfacetest.X11Window(resolved),
		surfacetest.X11Window(missing),
	})

	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	wantFirst := ForeignRecord{WindowID: "4194305", Title: "xterm", Class: "XTerm", Instance: "xterm", PID: 4242}
	if records[0].Kind != RecordForeign || records[0].Foreign != wantFirst {
		t.Errorf("record 0 = %+v, want %+v", records[0], wantFirst)
	}
	if records[1].Kind != RecordForeign || records[1].Foreign.Title != "xclock" || records[1].Foreign.WindowID != "4194306" {
		t.Errorf("record 1 = %+v, want resolved xclock", records[1])
	}
	if records[2].Kind != RecordError || records[2].Error != ErrInvalidForeign {
		t.Errorf("record 2 = %+v, want error record", records[2])
	}
}

func TestWindows_SkipsWindowsWithoutBackingSurface(t *testing.T) {
	native := surfacetest.NewSurface("n", 1, 1, nil)
	unassociated := surfacetest.NewX11("x", 99, 1, nil)
	unassociated.Meta = &surface.X11Metadata{Title: "t"}

	windows := []surface.Window{
		&surfacetest.Window{},
		surfacetest.X11Window(unassociated),
		surfacetest.NativeWindow(native),
		nil,
	}

	records := Windows(windows)
	if len(records) != 1 || records[0].Native.SurfaceID != "wl_surface@1" {
		t.Fatalf("records = %+v, want only the native window", records)
	}

	b := Builder{IncludeUnassociated: true}
	records = b.Windows(windows)
	if len(records) != 2 {
		t.Fatalf("got %d records with unassociated windows included, want 2", len(records))
	}
	if records[0].Kind != RecordForeign || records[0].Foreign.WindowID != "99" {
		t.Errorf("record 0 = %+v, want x11 window 99", records[0])
	}
}

func TestWindows_PreservesOrderAndDuplicates(t *testing.T) {
	var windows []surface.Window
	for i := 1; i <= 6; i++ {
		s := surfacetest.NewSurface("s", uint32(10-i), 1, nil)
		s.Top = &surface.ToplevelData{Title: surfacetest.Str("same")}
		windows = append(windows, surfacetest.NativeWindow(s))
	}

	records := Windows(windows)
	if len(records) != len(windows) {
		t.Fatalf("got %d records, want %d", len(records), len(windows))
	}
	for i, rec := range records {
		want := surface.ObjectID{Interface: "wl_surface", Protocol: uint32(10 - (i + 1))}.String()
		if rec.Native.SurfaceID != want {
			t.Errorf("record %d surface = %s, want %s", i, rec.Native.SurfaceID, want)
		}
	}
}

func TestEncode_MatchesPublishedFormat(t *testing.T) {
	records := []WindowRecord{
		nativeRecord(NativeRecord{SurfaceID: "wl_surface@3", Title: NoTitle, AppID: NoAppID, ParentID: NoParent}),
		foreignRecord(ForeignRecord{WindowID: "12", Title: "t", Class: "C", Instance: "i", PID: 1}),
		errorRecord(ErrInvalidForeign),
	}
	got, err := Encode(records)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := `[{"surface_id":"wl_surface@3","title":"No Title","app_id":"No App ID","is_modal":false,"parent_id":"None"},` +
		`{"window_id":"12","title":"t","class":"C","instance":"i","pid":1},` +
		`{"error":"invalid foreign surface"}]`
	if got != want {
		t.Fatalf("Encode mismatch\n got: %s\nwant: %s", got, want)
	}

	if err := ValidateWindows([]byte(got)); err != nil {
		t.Fatalf("ValidateWindows: %v", err)
	}

	decoded, err := DecodeWindows([]byte(got))
	if err != nil {
		t.Fatalf("DecodeWindows: %v", err)
	}
	for i := range records {
		if decoded[i] != records[i] {
			t.Errorf("decoded[%d] = %+v, want %+v", i, decoded[i], records[i])
		}
	}
}

func TestEncode_EmptyIsArray(t *testing.T) {
	got, err := Encode(nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got != "[]" {
		t.Fatalf("Encode(nil) = %q, want []", got)
	}
	got, err = EncodeOutputs(nil)
	if err != nil || got != "[]" {
		t.Fatalf("EncodeOutputs(nil) = %q, %v", got, err)
	}
}

func TestOutputs(t *testing.T) {
	outputs := []surface.Output{
		&surfacetest.Output{OutputName: "DP-1", Mode: &surface.Mode{Width: 2560, Height: 1440, Refresh: 144000}},
		&surfacetest.Output{OutputName: "HDMI-A-1"},
		&surfacetest.Output{OutputName: "eDP-1", Mode: &surface.Mode{Width: 1920, Height: 1080, Refresh: 60000}},
	}

	records := Outputs(outputs)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Name != "DP-1" || records[0].Size.Width != 2560 || records[0].RefreshRate != 144000 {
		t.Errorf("record 0 = %+v", records[0])
	}

	doc, err := EncodeOutputs(records)
	if err != nil {
		t.Fatalf("EncodeOutputs: %v", err)
	}
	if !strings.HasPrefix(doc, `[{"name":"DP-1","size":{"width":2560,"height":1440},"refresh_rate":144000}`) {
		t.Fatalf("unexpected document %s", doc)
	}
	if err := ValidateOutputs([]byte(doc)); err != nil {
		t.Fatalf("ValidateOutputs: %v", err)
	}
	back, err := DecodeOutputs([]byte(doc))
	if err != nil || len(back) != 2 || back[1] != records[1] {
		t.Fatalf("DecodeOutputs = %+v, %v", back, err)
	}
}

func TestValidateWindows_RejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "not json", doc: `[{`},
		{name: "object instead of array", doc: `{"error":"x"}`},
		{name: "numeric window id", doc: `[{"window_id":12,"title":"","class":"","instance":"","pid":0}]`},
		{name: "missing parent", doc: `[{"surface_id":"wl_surface@1","title":"","app_id":"","is_modal":false}]`},
		{name: "mixed shape", doc: `[{"error":"x","title":"y"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateWindows([]byte(tt.doc)); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
