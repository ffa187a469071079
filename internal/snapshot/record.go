// Package snapshot turns the compositor's window and output tables into the
// JSON documents published to other processes.
package snapshot

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Placeholders used when a native window has not set a field.
const (
	NoTitle  = "No Title"
	NoAppID  = "No App ID"
	NoParent = "None"
)

// ErrInvalidForeign is the message of the record produced for an X11 window
// whose metadata cannot be resolved.
const ErrInvalidForeign = "invalid foreign surface"

// RecordKind selects which part of a WindowRecord is populated.
type RecordKind uint8

const (
	RecordNative RecordKind = iota
	RecordForeign
	RecordError
)

func (k RecordKind) String() string {
	switch k {
	case RecordNative:
		return "native"
	case RecordForeign:
		return "foreign"
	case RecordError:
		return "error"
	default:
		return fmt.Sprintf("RecordKind(%d)", k)
	}
}

// NativeRecord describes a window with a native toplevel surface.
type NativeRecord struct {
	SurfaceID string `json:"surface_id"`
	Title     string `json:"title"`
	AppID     string `json:"app_id"`
	IsModal   bool   `json:"is_modal"`
	ParentID  string `json:"parent_id"`
}

// ForeignRecord describes a window managed through the X11 layer.
// WindowID is the X11 window id in decimal.
type ForeignRecord struct {
	WindowID string `json:"window_id"`
	Title    string `json:"title"`
	Class    string `json:"class"`
	Instance string `json:"instance"`
	PID      int    `json:"pid"`
}

// WindowRecord is one entry of a published window list. It encodes as the
// object of its kind only.
type WindowRecord struct {
	Kind    RecordKind
	Native  NativeRecord
	Foreign ForeignRecord
	Error   string
}

func nativeRecord(r NativeRecord) WindowRecord   { return WindowRecord{Kind: RecordNative, Native: r} }
func foreignRecord(r ForeignRecord) WindowRecord { return WindowRecord{Kind: RecordForeign, Foreign: r} }
func errorRecord(msg string) WindowRecord        { return WindowRecord{Kind: RecordError, Error: msg} }

// Title returns the window title regardless of kind; empty for error records.
func (r WindowRecord) Title() string {
	switch r.Kind {
	case RecordNative:
		return r.Native.Title
	case RecordForeign:
		return r.Foreign.Title
	default:
		return ""
	}
}

type errorJSON struct {
	Error string `json:"error"`
}

func (r WindowRecord) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case RecordNative:
		return json.Marshal(r.Native)
	case RecordForeign:
		return json.Marshal(r.Foreign)
	case RecordError:
		return json.Marshal(errorJSON{Error: r.Error})
	default:
		return nil, fmt.Errorf("snapshot: cannot encode record kind %d", r.Kind)
	}
}

// UnmarshalJSON picks the kind from the keys present: "error" first, then
// "window_id", otherwise native.
func (r *WindowRecord) UnmarshalJSON(data []byte) error {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	*r = WindowRecord{}
	if _, ok := keys["error"]; ok {
		var e errorJSON
		if err := json.Unmarshal(data, &e); err != nil {
			return err
		}
		r.Kind = RecordError
		r.Error = e.Error
		return nil
	}
	if _, ok := keys["window_id"]; ok {
		r.Kind = RecordForeign
		return json.Unmarshal(data, &r.Foreign)
	}
	r.Kind = RecordNative
	return json.Unmarshal(data, &r.Native)
}

// WindowIDString formats an X11 window id the way records carry it.
func WindowIDString(id uint32) string {
	return strconv.FormatUint(uint64(id), 10)
}

// Size is an output mode size in pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// OutputRecord is one entry of a published output list. RefreshRate is in
// millihertz, as the output reports it.
type OutputRecord struct {
	Name        string `json:"name"`
	Size        Size   `json:"size"`
	RefreshRate int    `json:"refresh_rate"`
}
