// Package surfacetest provides in-memory surface handles for tests. Every
// event a fake receives is appended to its Log as "<name>:<event>".
package surfacetest

import (
	"fmt"
	"sync"

	"github.com/wayice/wayice/internal/input"
	"github.com/wayice/wayice/internal/surface"
)

// Log collects delivered events in order.
type Log struct {
	mu     sync.Mutex
	events []string
}

func (l *Log) add(name, event string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, name+":"+event)
}

// Events returns a copy of the recorded events.
func (l *Log) Events() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.events))
	copy(out, l.events)
	return out
}

func (l *Log) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = nil
}

// handler implements every input target interface by logging.
type handler struct {
	name string
	log  *Log
}

func (h handler) record(event string) {
	if h.log != nil {
		h.log.add(h.name, event)
	}
}

func (h handler) Enter(_ *input.Seat, ev input.MotionEvent) {
	h.record(fmt.Sprintf("enter(%d)", ev.Serial))
}
func (h handler) Motion(_ *input.Seat, ev input.MotionEvent) {
	h.record(fmt.Sprintf("motion(%g,%g)", ev.Location.X, ev.Location.Y))
}
func (h handler) RelativeMotion(*input.Seat, input.RelativeMotionEvent) { h.record("relative-motion") }
func (h handler) Button(_ *input.Seat, ev input.ButtonEvent) {
	h.record(fmt.Sprintf("button(%d)", ev.Button))
}
func (h handler) Axis(*input.Seat, input.AxisFrame) { h.record("axis") }
func (h handler) Frame(*input.Seat)                 { h.record("frame") }
func (h handler) GestureSwipeBegin(*input.Seat, input.GestureSwipeBeginEvent) {
	h.record("swipe-begin")
}
func (h handler) GestureSwipeUpdate(*input.Seat, input.GestureSwipeUpdateEvent) {
	h.record("swipe-update")
}
func (h handler) GestureSwipeEnd(*input.Seat, input.GestureSwipeEndEvent) { h.record("swipe-end") }
func (h handler) GesturePinchBegin(*input.Seat, input.GesturePinchBeginEvent) {
	h.record("pinch-begin")
}
func (h handler) GesturePinchUpdate(*input.Seat, input.GesturePinchUpdateEvent) {
	h.record("pinch-update")
}
func (h handler) GesturePinchEnd(*input.Seat, input.GesturePinchEndEvent)   { h.record("pinch-end") }
func (h handler) GestureHoldBegin(*input.Seat, input.GestureHoldBeginEvent) { h.record("hold-begin") }
func (h handler) GestureHoldEnd(*input.Seat, input.GestureHoldEndEvent)     { h.record("hold-end") }
func (h handler) Leave(_ *input.Seat, serial input.Serial, _ uint32) {
	h.record(fmt.Sprintf("leave(%d)", serial))
}

func (h handler) TouchDown(_ *input.Seat, ev input.TouchDownEvent, _ input.Serial) {
	h.record(fmt.Sprintf("touch-down(%d)", ev.Slot))
}
func (h handler) TouchUp(_ *input.Seat, ev input.TouchUpEvent, _ input.Serial) {
	h.record(fmt.Sprintf("touch-up(%d)", ev.Slot))
}
func (h handler) TouchMotion(*input.Seat, input.TouchMotionEvent, input.Serial) {
	h.record("touch-motion")
}
func (h handler) TouchFrame(*input.Seat, input.Serial)  { h.record("touch-frame") }
func (h handler) TouchCancel(*input.Seat, input.Serial) { h.record("touch-cancel") }
func (h handler) TouchShape(*input.Seat, input.TouchShapeEvent, input.Serial) {
	h.record("touch-shape")
}
func (h handler) TouchOrientation(*input.Seat, input.TouchOrientationEvent, input.Serial) {
	h.record("touch-orientation")
}

func (h handler) KeyboardEnter(_ *input.Seat, keys []input.Keysym, serial input.Serial) {
	h.record(fmt.Sprintf("key-enter(%d,%d)", serial, len(keys)))
}
func (h handler) KeyboardLeave(_ *input.Seat, serial input.Serial) {
	h.record(fmt.Sprintf("key-leave(%d)", serial))
}
func (h handler) Key(_ *input.Seat, key input.Keysym, state input.KeyState, _ input.Serial, _ uint32) {
	h.record(fmt.Sprintf("key(%d,%d)", key.Code, state))
}
func (h handler) Modifiers(*input.Seat, input.Modifiers, input.Serial) { h.record("modifiers") }

// Surface is a fake native surface.
type Surface struct {
	handler
	Object surface.ObjectID
	Dead   bool
	Top    *surface.ToplevelData
}

var _ surface.WlSurface = (*Surface)(nil)

// NewSurface returns a live surface owned by client.
func NewSurface(name string, protocolID uint32, client surface.ClientID, log *Log) *Surface {
	return &Surface{
		handler: handler{name: name, log: log},
		Object:  surface.ObjectID{Interface: "wl_surface", Protocol: protocolID, Client: client},
	}
}

func (s *Surface) Alive() bool          { return !s.Dead }
func (s *Surface) ID() surface.ObjectID { return s.Object }
func (s *Surface) SameClientAs(id surface.ObjectID) bool {
	return s.Object.Client == id.Client
}
func (s *Surface) Toplevel() (surface.ToplevelData, bool) {
	if s.Top == nil {
		return surface.ToplevelData{}, false
	}
	return *s.Top, true
}
func (s *Surface) Kill() { s.Dead = true }

// X11 is a fake X11 surface.
type X11 struct {
	handler
	Window uint32
	Dead   bool
	Native *Surface
	Client surface.ClientID
	Meta   *surface.X11Metadata
}

var _ surface.X11Surface = (*X11)(nil)

func NewX11(name string, window uint32, client surface.ClientID, log *Log) *X11 {
	return &X11{handler: handler{name: name, log: log}, Window: window, Client: client}
}

func (x *X11) Alive() bool      { return !x.Dead }
func (x *X11) WindowID() uint32 { return x.Window }
func (x *X11) WlSurface() (surface.WlSurface, bool) {
	if x.Native == nil {
		return nil, false
	}
	return x.Native, true
}
func (x *X11) SameClientAs(id surface.ObjectID) bool { return x.Client == id.Client }
func (x *X11) Metadata() (surface.X11Metadata, bool) {
	if x.Meta == nil {
		return surface.X11Metadata{}, false
	}
	return *x.Meta, true
}
func (x *X11) Kill() { x.Dead = true }

// Decoration is a fake server-side decoration.
type Decoration struct {
	handler
	Dead   bool
	Window *Surface
}

var _ surface.Decoration = (*Decoration)(nil)

func NewDecoration(name string, window *Surface, log *Log) *Decoration {
	return &Decoration{handler: handler{name: name, log: log}, Window: window}
}

func (d *Decoration) Alive() bool { return !d.Dead }
func (d *Decoration) WlSurface() (surface.WlSurface, bool) {
	if d.Window == nil {
		return nil, false
	}
	return d.Window, true
}
func (d *Decoration) Kill() { d.Dead = true }

// Layer is a fake layer surface.
type Layer struct {
	Surface *Surface
	Dead    bool
}

func (l *Layer) Alive() bool                  { return !l.Dead && l.Surface.Alive() }
func (l *Layer) WlSurface() surface.WlSurface { return l.Surface }
func (l *Layer) Kill()                        { l.Dead = true }

// Popup is a fake popup.
type Popup struct {
	Surface *Surface
	Dead    bool
}

func (p *Popup) Alive() bool                  { return !p.Dead && p.Surface.Alive() }
func (p *Popup) WlSurface() surface.WlSurface { return p.Surface }
func (p *Popup) Kill()                        { p.Dead = true }

// Window is a fake mapped window.
type Window struct {
	Under surface.Underlying
	Dead  bool
}

// NativeWindow wraps s as a native toplevel window.
func NativeWindow(s *Surface) *Window {
	return &Window{Under: surface.WaylandUnderlying(s)}
}

// X11Window wraps x as a foreign-toolkit window.
func X11Window(x *X11) *Window {
	return &Window{Under: surface.X11Underlying(x)}
}

func (w *Window) Alive() bool {
	if w.Dead {
		return false
	}
	if s, ok := w.Under.Wayland(); ok {
		return s.Alive()
	}
	if x, ok := w.Under.X11(); ok {
		return x.Alive()
	}
	return false
}
func (w *Window) Underlying() surface.Underlying { return w.Under }
func (w *Window) Kill()                          { w.Dead = true }

// Output is a fake output.
type Output struct {
	OutputName string
	Desc       string
	Mode       *surface.Mode
}

func (o *Output) Name() string        { return o.OutputName }
func (o *Output) Description() string { return o.Desc }
func (o *Output) CurrentMode() (surface.Mode, bool) {
	if o.Mode == nil {
		return surface.Mode{}, false
	}
	return *o.Mode, true
}

// Str returns a pointer to s, for ToplevelData fields.
func Str(s string) *string { return &s }
