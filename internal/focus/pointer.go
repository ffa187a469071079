package focus

import (
	"github.com/wayice/wayice/internal/input"
	"github.com/wayice/wayice/internal/surface"
)

// PointerFocusKind is the active case of a PointerFocusTarget.
type PointerFocusKind uint8

const (
	PointerFocusNone PointerFocusKind = iota
	PointerFocusSurface
	PointerFocusX11
	PointerFocusDecoration
)

func (k PointerFocusKind) String() string {
	switch k {
	case PointerFocusSurface:
		return "surface"
	case PointerFocusX11:
		return "x11"
	case PointerFocusDecoration:
		return "decoration"
	default:
		return "none"
	}
}

// PointerFocusTarget is the closed set of things pointer and touch input can
// be routed to. Exactly one of the handle fields is set, selected by kind.
// The target references the handle; the compositor owns it.
type PointerFocusTarget struct {
	kind       PointerFocusKind
	surface    surface.WlSurface
	x11        surface.X11Surface
	decoration surface.Decoration
}

var (
	_ input.PointerTarget = PointerFocusTarget{}
	_ input.TouchTarget   = PointerFocusTarget{}
)

func (t PointerFocusTarget) Kind() PointerFocusKind { return t.kind }

// Surface returns the wrapped native surface for the surface case.
func (t PointerFocusTarget) Surface() (surface.WlSurface, bool) {
	return t.surface, t.kind == PointerFocusSurface
}

func (t PointerFocusTarget) X11() (surface.X11Surface, bool) {
	return t.x11, t.kind == PointerFocusX11
}

func (t PointerFocusTarget) Decoration() (surface.Decoration, bool) {
	return t.decoration, t.kind == PointerFocusDecoration
}

// Alive reports the wrapped handle's liveness. The zero target is never alive.
func (t PointerFocusTarget) Alive() bool {
	switch t.kind {
	case PointerFocusSurface:
		return t.surface.Alive()
	case PointerFocusX11:
		return t.x11.Alive()
	case PointerFocusDecoration:
		return t.decoration.Alive()
	default:
		return false
	}
}

// WlSurface returns the native surface behind the target. Decorations have
// none.
func (t PointerFocusTarget) WlSurface() (surface.WlSurface, bool) {
	switch t.kind {
	case PointerFocusSurface:
		return t.surface, true
	case PointerFocusX11:
		return t.x11.WlSurface()
	default:
		return nil, false
	}
}

// SameClientAs reports whether the target belongs to the client owning id.
// A decoration answers through its window's surface and reports false when
// it has none.
func (t PointerFocusTarget) SameClientAs(id surface.ObjectID) bool {
	switch t.kind {
	case PointerFocusSurface:
		return t.surface.SameClientAs(id)
	case PointerFocusX11:
		return t.x11.SameClientAs(id)
	case PointerFocusDecoration:
		s, ok := t.decoration.WlSurface()
		if !ok || s == nil {
			return false
		}
		return s.SameClientAs(id)
	default:
		return false
	}
}

func (t PointerFocusTarget) pointer() input.PointerTarget {
	switch t.kind {
	case PointerFocusSurface:
		return t.surface
	case PointerFocusX11:
		return t.x11
	case PointerFocusDecoration:
		return t.decoration
	default:
		return nil
	}
}

func (t PointerFocusTarget) touch() input.TouchTarget {
	switch t.kind {
	case PointerFocusSurface:
		return t.surface
	case PointerFocusX11:
		return t.x11
	case PointerFocusDecoration:
		return t.decoration
	default:
		return nil
	}
}

func (t PointerFocusTarget) Enter(seat *input.Seat, ev input.MotionEvent) {
	if p := t.pointer(); p != nil {
		p.Enter(seat, ev)
	}
}

func (t PointerFocusTarget) Motion(seat *input.Seat, ev input.MotionEvent) {
	if p := t.pointer(); p != nil {
		p.Motion(seat, ev)
	}
}

func (t PointerFocusTarget) RelativeMotion(seat *input.Seat, ev input.RelativeMotionEvent) {
	if p := t.pointer(); p != nil {
		p.RelativeMotion(seat, ev)
	}
}

func (t PointerFocusTarget) Button(seat *input.Seat, ev input.ButtonEvent) {
	if p := t.pointer(); p != nil {
		p.Button(seat, ev)
	}
}

func (t PointerFocusTarget) Axis(seat *input.Seat, frame input.AxisFrame) {
	if p := t.pointer(); p != nil {
		p.Axis(seat, frame)
	}
}

func (t PointerFocusTarget) Frame(seat *input.Seat) {
	if p := t.pointer(); p != nil {
		p.Frame(seat)
	}
}

func (t PointerFocusTarget) GestureSwipeBegin(seat *input.Seat, ev input.GestureSwipeBeginEvent) {
	if p := t.pointer(); p != nil {
		p.GestureSwipeBegin(seat, ev)
	}
}

func (t PointerFocusTarget) GestureSwipeUpdate(seat *input.Seat, ev input.GestureSwipeUpdateEvent) {
	if p := t.pointer(); p != nil {
		p.GestureSwipeUpdate(seat, ev)
	}
}

func (t PointerFocusTarget) GestureSwipeEnd(seat *input.Seat, ev input.GestureSwipeEndEvent) {
	if p := t.pointer(); p != nil {
		p.GestureSwipeEnd(seat, ev)
	}
}

func (t PointerFocusTarget) GesturePinchBegin(seat *input.Seat, ev input.GesturePinchBeginEvent) {
	if p := t.pointer(); p != nil {
		p.GesturePinchBegin(seat, ev)
	}
}

func (t PointerFocusTarget) GesturePinchUpdate(seat *input.Seat, ev input.GesturePinchUpdateEvent) {
	if p := t.pointer(); p != nil {
		p.GesturePinchUpdate(seat, ev)
	}
}

func (t PointerFocusTarget) GesturePinchEnd(seat *input.Seat, ev input.GesturePinchEndEvent) {
	if p := t.pointer(); p != nil {
		p.GesturePinchEnd(seat, ev)
	}
}

func (t PointerFocusTarget) GestureHoldBegin(seat *input.Seat, ev input.GestureHoldBeginEvent) {
	if p := t.pointer(); p != nil {
		p.GestureHoldBegin(seat, ev)
	}
}

func (t PointerFocusTarget) GestureHoldEnd(seat *input.Seat, ev input.GestureHoldEndEvent) {
	if p := t.pointer(); p != nil {
		p.GestureHoldEnd(seat, ev)
	}
}

func (t PointerFocusTarget) Leave(seat *input.Seat, serial input.Serial, time uint32) {
	if p := t.pointer(); p != nil {
		p.Leave(seat, serial, time)
	}
}

func (t PointerFocusTarget) TouchDown(seat *input.Seat, ev input.TouchDownEvent, seq input.Serial) {
	if h := t.touch(); h != nil {
		h.TouchDown(seat, ev, seq)
	}
}

func (t PointerFocusTarget) TouchUp(seat *input.Seat, ev input.TouchUpEvent, seq input.Serial) {
	if h := t.touch(); h != nil {
		h.TouchUp(seat, ev, seq)
	}
}

func (t PointerFocusTarget) TouchMotion(seat *input.Seat, ev input.TouchMotionEvent, seq input.Serial) {
	if h := t.touch(); h != nil {
		h.TouchMotion(seat, ev, seq)
	}
}

func (t PointerFocusTarget) TouchFrame(seat *input.Seat, seq input.Serial) {
	if h := t.touch(); h != nil {
		h.TouchFrame(seat, seq)
	}
}

func (t PointerFocusTarget) TouchCancel(seat *input.Seat, seq input.Serial) {
	if h := t.touch(); h != nil {
		h.TouchCancel(seat, seq)
	}
}

func (t PointerFocusTarget) TouchShape(seat *input.Seat, ev input.TouchShapeEvent, seq input.Serial) {
	if h := t.touch(); h != nil {
		h.TouchShape(seat, ev, seq)
	}
}

func (t PointerFocusTarget) TouchOrientation(seat *input.Seat, ev input.TouchOrientationEvent, seq input.Serial) {
	if h := t.touch(); h != nil {
		h.TouchOrientation(seat, ev, seq)
	}
}
