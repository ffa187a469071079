package focus

import (
	"github.com/wayice/wayice/internal/input"
	"github.com/wayice/wayice/internal/surface"
)

// KeyboardFocusKind is the active case of a KeyboardFocusTarget.
type KeyboardFocusKind uint8

const (
	KeyboardFocusNone KeyboardFocusKind = iota
	KeyboardFocusWindow
	KeyboardFocusLayerSurface
	KeyboardFocusPopup
)

func (k KeyboardFocusKind) String() string {
	switch k {
	case KeyboardFocusWindow:
		return "window"
	case KeyboardFocusLayerSurface:
		return "layer-surface"
	case KeyboardFocusPopup:
		return "popup"
	default:
		return "none"
	}
}

// KeyboardFocusTarget is the closed set of things keyboard input can be
// routed to. Exactly one handle field is set, selected by kind.
type KeyboardFocusTarget struct {
	kind   KeyboardFocusKind
	window surface.Window
	layer  surface.LayerSurface
	popup  surface.Popup
}

var _ input.KeyboardTarget = KeyboardFocusTarget{}

func (t KeyboardFocusTarget) Kind() KeyboardFocusKind { return t.kind }

func (t KeyboardFocusTarget) Window() (surface.Window, bool) {
	return t.window, t.kind == KeyboardFocusWindow
}

func (t KeyboardFocusTarget) LayerSurface() (surface.LayerSurface, bool) {
	return t.layer, t.kind == KeyboardFocusLayerSurface
}

func (t KeyboardFocusTarget) Popup() (surface.Popup, bool) {
	return t.popup, t.kind == KeyboardFocusPopup
}

func (t KeyboardFocusTarget) Alive() bool {
	switch t.kind {
	case KeyboardFocusWindow:
		return t.window.Alive()
	case KeyboardFocusLayerSurface:
		return t.layer.Alive()
	case KeyboardFocusPopup:
		return t.popup.Alive()
	default:
		return false
	}
}

// WlSurface returns the native surface keyboard events end up on. An X11
// window has one only once associated.
func (t KeyboardFocusTarget) WlSurface() (surface.WlSurface, bool) {
	switch t.kind {
	case KeyboardFocusWindow:
		return surface.BackingSurface(t.window)
	case KeyboardFocusLayerSurface:
		return t.layer.WlSurface(), true
	case KeyboardFocusPopup:
		return t.popup.WlSurface(), true
	default:
		return nil, false
	}
}

func (t KeyboardFocusTarget) SameClientAs(id surface.ObjectID) bool {
	if t.kind == KeyboardFocusWindow {
		if x, ok := t.window.Underlying().X11(); ok {
			return x.SameClientAs(id)
		}
	}
	s, ok := t.WlSurface()
	if !ok || s == nil {
		return false
	}
	return s.SameClientAs(id)
}

// keyboard resolves the handler for the active case. Windows are resolved
// through their underlying surface kind on every call.
func (t KeyboardFocusTarget) keyboard() input.KeyboardTarget {
	switch t.kind {
	case KeyboardFocusWindow:
		u := t.window.Underlying()
		switch u.Kind() {
		case surface.UnderlyingWayland:
			if s, ok := u.Wayland(); ok {
				return s
			}
		case surface.UnderlyingX11:
			if x, ok := u.X11(); ok {
				return x
			}
		}
		return nil
	case KeyboardFocusLayerSurface:
		return t.layer.WlSurface()
	case KeyboardFocusPopup:
		return t.popup.WlSurface()
	default:
		return nil
	}
}

func (t KeyboardFocusTarget) KeyboardEnter(seat *input.Seat, keys []input.Keysym, serial input.Serial) {
	if k := t.keyboard(); k != nil {
		k.KeyboardEnter(seat, keys, serial)
	}
}

func (t KeyboardFocusTarget) KeyboardLeave(seat *input.Seat, serial input.Serial) {
	if k := t.keyboard(); k != nil {
		k.KeyboardLeave(seat, serial)
	}
}

func (t KeyboardFocusTarget) Key(seat *input.Seat, key input.Keysym, state input.KeyState, serial input.Serial, time uint32) {
	if k := t.keyboard(); k != nil {
		k.Key(seat, key, state, serial, time)
	}
}

func (t KeyboardFocusTarget) Modifiers(seat *input.Seat, mods input.Modifiers, serial input.Serial) {
	if k := t.keyboard(); k != nil {
		k.Modifiers(seat, mods, serial)
	}
}
