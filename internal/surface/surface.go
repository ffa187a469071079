// Package surface describes the compositor-owned handles the focus and
// snapshot layers operate on. Implementations live with the compositor; this
// package only fixes their capability surface.
package surface

import (
	"fmt"

	"github.com/wayice/wayice/internal/input"
)

// ClientID identifies a connected protocol client.
type ClientID uint64

// ObjectID identifies a protocol object. It prints as interface@id, the
// form clients see in protocol logs.
type ObjectID struct {
	Interface string
	Protocol  uint32
	Client    ClientID
}

func (id ObjectID) String() string {
	return fmt.Sprintf("%s@%d", id.Interface, id.Protocol)
}

// ToplevelData is the xdg_toplevel role metadata of a native surface.
// Nil Title/AppID/Parent mean the client never set them.
type ToplevelData struct {
	Title  *string
	AppID  *string
	Modal  bool
	Parent *ObjectID
}

// X11Metadata is what the foreign-toolkit layer knows about an X11 window.
type X11Metadata struct {
	WindowID uint32
	Title    string
	Class    string
	Instance string
	PID      int
}

// WlSurface is a native protocol surface.
type WlSurface interface {
	Alive() bool
	ID() ObjectID
	SameClientAs(id ObjectID) bool
	// Toplevel returns the toplevel role data, false when the surface has
	// no toplevel role.
	Toplevel() (ToplevelData, bool)
	input.PointerTarget
	input.TouchTarget
	input.KeyboardTarget
}

// X11Surface is a window managed through the X11 compatibility layer.
type X11Surface interface {
	Alive() bool
	WindowID() uint32
	// WlSurface returns the native surface the X11 window is associated
	// with, false until the association exists.
	WlSurface() (WlSurface, bool)
	SameClientAs(id ObjectID) bool
	// Metadata returns false when the window properties have not been read.
	Metadata() (X11Metadata, bool)
	input.PointerTarget
	input.TouchTarget
	input.KeyboardTarget
}

// Decoration is a compositor-drawn decoration region. It has no protocol
// object of its own.
type Decoration interface {
	Alive() bool
	WlSurface() (WlSurface, bool)
	input.PointerTarget
	input.TouchTarget
}

type LayerSurface interface {
	Alive() bool
	WlSurface() WlSurface
}

type Popup interface {
	Alive() bool
	WlSurface() WlSurface
}

// Window is a mapped window in the compositor's window table.
type Window interface {
	Alive() bool
	Underlying() Underlying
}

// Mode is an output mode. Refresh is in millihertz.
type Mode struct {
	Width   int
	Height  int
	Refresh int
}

type Output interface {
	Name() string
	Description() string
	CurrentMode() (Mode, bool)
}
