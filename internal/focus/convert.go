// Package focus routes seat input to the surface that currently holds
// keyboard or pointer focus.
//
// Focus is modelled as two closed tagged unions. KeyboardFocusTarget covers
// windows, layer surfaces and popups; PointerFocusTarget covers native
// surfaces, X11 surfaces and server-side decorations. Both forward every
// event unchanged to the wrapped handle, chosen by the active case only.
// Neither checks liveness before dispatch: callers do (see Router).
//
// Targets compare with ==, so handle implementations must be comparable
// (pointer types in practice).
package focus

import "github.com/wayice/wayice/internal/surface"

// PointerFromSurface wraps a native surface.
func PointerFromSurface(s surface.WlSurface) PointerFocusTarget {
	if s == nil {
		return PointerFocusTarget{}
	}
	return PointerFocusTarget{kind: PointerFocusSurface, surface: s}
}

// PointerFromPopup targets the popup's backing surface.
func PointerFromPopup(p surface.Popup) PointerFocusTarget {
	if p == nil {
		return PointerFocusTarget{}
	}
	return PointerFromSurface(p.WlSurface())
}

func PointerFromX11(x surface.X11Surface) PointerFocusTarget {
	if x == nil {
		return PointerFocusTarget{}
	}
	return PointerFocusTarget{kind: PointerFocusX11, x11: x}
}

func PointerFromDecoration(d surface.Decoration) PointerFocusTarget {
	if d == nil {
		return PointerFocusTarget{}
	}
	return PointerFocusTarget{kind: PointerFocusDecoration, decoration: d}
}

// KeyboardFromWindow wraps a window. Its underlying surface kind is kept and
// resolved again at dispatch.
func KeyboardFromWindow(w surface.Window) KeyboardFocusTarget {
	if w == nil {
		return KeyboardFocusTarget{}
	}
	return KeyboardFocusTarget{kind: KeyboardFocusWindow, window: w}
}

func KeyboardFromLayerSurface(l surface.LayerSurface) KeyboardFocusTarget {
	if l == nil {
		return KeyboardFocusTarget{}
	}
	return KeyboardFocusTarget{kind: KeyboardFocusLayerSurface, layer: l}
}

func KeyboardFromPopup(p surface.Popup) KeyboardFocusTarget {
	if p == nil {
		return KeyboardFocusTarget{}
	}
	return KeyboardFocusTarget{kind: KeyboardFocusPopup, popup: p}
}

// Pointer returns the pointer target this keyboard target corresponds to.
// Native windows map to their toplevel surface and X11 windows to their X11
// surface; layer surfaces and popups map to their backing surface.
func (t KeyboardFocusTarget) Pointer() PointerFocusTarget {
	switch t.kind {
	case KeyboardFocusWindow:
		u := t.window.Underlying()
		switch u.Kind() {
		case surface.UnderlyingWayland:
			s, _ := u.Wayland()
			return PointerFromSurface(s)
		case surface.UnderlyingX11:
			x, _ := u.X11()
			return PointerFromX11(x)
		}
		return PointerFocusTarget{}
	case KeyboardFocusLayerSurface:
		return PointerFromSurface(t.layer.WlSurface())
	case KeyboardFocusPopup:
		return PointerFromPopup(t.popup)
	default:
		return PointerFocusTarget{}
	}
}
