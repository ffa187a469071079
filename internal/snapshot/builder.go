package snapshot

import (
	"encoding/json"
	"fmt"

	"github.com/wayice/wayice/internal/surface"
)

// ForeignResolver looks up X11 window metadata the surface itself does not
// carry. The x11 package's Connection implements it.
type ForeignResolver interface {
	Metadata(windowID uint32) (surface.X11Metadata, error)
}

// Builder produces window records. The zero value is ready to use.
type Builder struct {
	// Resolver, when set, is asked for metadata an X11 surface lacks.
	Resolver ForeignResolver

	// IncludeUnassociated keeps X11 windows that have no native surface.
	// A rootless X session has no native surfaces at all, so its window
	// source sets this; the compositor leaves it off.
	IncludeUnassociated bool
}

// Windows returns one record per window that has a backing surface, in the
// order given. The windows are only read.
func Windows(windows []surface.Window) []WindowRecord {
	var b Builder
	return b.Windows(windows)
}

func (b *Builder) Windows(windows []surface.Window) []WindowRecord {
	records := make([]WindowRecord, 0, len(windows))
	for _, w := range windows {
		if w == nil {
			continue
		}
		if rec, ok := b.window(w); ok {
			records = append(records, rec)
		}
	}
	return records
}

func (b *Builder) window(w surface.Window) (WindowRecord, bool) {
	u := w.Underlying()
	switch u.Kind() {
	case surface.UnderlyingX11:
		x, ok := u.X11()
		if !ok {
			return WindowRecord{}, false
		}
		if _, hasNative := x.WlSurface(); !hasNative && !b.IncludeUnassociated {
			return WindowRecord{}, false
		}
		return b.foreign(x), true
	case surface.UnderlyingWayland:
		s, ok := u.Wayland()
		if !ok {
			return WindowRecord{}, false
		}
		return native(s), true
	default:
		return WindowRecord{}, false
	}
}

func (b *Builder) foreign(x surface.X11Surface) WindowRecord {
	meta, ok := x.Metadata()
	if !ok && b.Resolver != nil {
		resolved, err := b.Resolver.Metadata(x.WindowID())
		if err == nil {
			meta, ok = resolved, true
		}
	}
	if !ok {
		return errorRecord(ErrInvalidForeign)
	}
	return foreignRecord(ForeignRecord{
		WindowID: WindowIDString(x.WindowID()),
		Title:    meta.Title,
		Class:    meta.Class,
		Instance: meta.Instance,
		PID:      meta.PID,
	})
}

func native(s surface.WlSurface) WindowRecord {
	rec := NativeRecord{
		SurfaceID: s.ID().String(),
		Title:     NoTitle,
		AppID:     NoAppID,
		ParentID:  NoParent,
	}
	top, ok := s.Toplevel()
	if !ok {
		return nativeRecord(rec)
	}
	if top.Title != nil {
		rec.Title = *top.Title
	}
	if top.AppID != nil {
		rec.AppID = *top.AppID
	}
	rec.IsModal = top.Modal
	if top.Parent != nil {
		rec.ParentID = top.Parent.String()
	}
	return nativeRecord(rec)
}

// Outputs returns one record per output with a current mode.
func Outputs(outputs []surface.Output) []OutputRecord {
	records := make([]OutputRecord, 0, len(outputs))
	for _, o := range outputs {
		if o == nil {
			continue
		}
		mode, ok := o.CurrentMode()
		if !ok {
			continue
		}
		records = append(records, OutputRecord{
			Name:        o.Name(),
			Size:        Size{Width: mode.Width, Height: mode.Height},
			RefreshRate: mode.Refresh,
		})
	}
	return records
}

// Encode serializes window records as a compact JSON array. A nil slice
// encodes as [].
func Encode(records []WindowRecord) (string, error) {
	if records == nil {
		records = []WindowRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("encode windows: %w", err)
	}
	return string(data), nil
}

func EncodeOutputs(records []OutputRecord) (string, error) {
	if records == nil {
		records = []OutputRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("encode outputs: %w", err)
	}
	return string(data), nil
}

// DecodeWindows parses a published window document.
func DecodeWindows(data []byte) ([]WindowRecord, error) {
	var records []WindowRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode windows: %w", err)
	}
	return records, nil
}

func DecodeOutputs(data []byte) ([]OutputRecord, error) {
	var records []OutputRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode outputs: %w", err)
	}
	return records, nil
}
