package focus

import (
	"github.com/wayice/wayice/internal/input"
)

// Router holds the current keyboard and pointer focus of one seat and checks
// liveness before handing an event to a target. A target found dead is
// dropped and the event reported as undelivered.
//
// A Router is driven from the seat's input path and is not safe for
// concurrent use.
type Router struct {
	seat     *input.Seat
	keyboard KeyboardFocusTarget
	pointer  PointerFocusTarget
	pressed  []input.Keysym
}

func NewRouter(seat *input.Seat) *Router {
	return &Router{seat: seat}
}

func (r *Router) Seat() *input.Seat { return r.seat }

// KeyboardFocus returns the current keyboard target; the zero target when
// nothing is focused.
func (r *Router) KeyboardFocus() KeyboardFocusTarget { return r.keyboard }

func (r *Router) PointerFocus() PointerFocusTarget { return r.pointer }

// SetKeyboardFocus moves keyboard focus. The previous target gets a leave if
// it is still alive; the new one gets an enter with the keys currently held.
func (r *Router) SetKeyboardFocus(t KeyboardFocusTarget, serial input.Serial) {
	if t == r.keyboard {
		return
	}
	if r.keyboard.Alive() {
		r.keyboard.KeyboardLeave(r.seat, serial)
	}
	r.keyboard = t
	if t.Alive() {
		keys := make([]input.Keysym, len(r.pressed))
		copy(keys, r.pressed)
		t.KeyboardEnter(r.seat, keys, serial)
	} else {
		r.keyboard = KeyboardFocusTarget{}
	}
}

// SetPointerFocus moves pointer focus, sending leave and enter as needed.
func (r *Router) SetPointerFocus(t PointerFocusTarget, ev input.MotionEvent) {
	if t == r.pointer {
		return
	}
	if r.pointer.Alive() {
		r.pointer.Leave(r.seat, ev.Serial, ev.Time)
	}
	r.pointer = t
	if t.Alive() {
		t.Enter(r.seat, ev)
	} else {
		r.pointer = PointerFocusTarget{}
	}
}

// FocusPointerFromKeyboard moves pointer focus to whatever the current
// keyboard target converts to.
func (r *Router) FocusPointerFromKeyboard(ev input.MotionEvent) {
	r.SetPointerFocus(r.keyboard.Pointer(), ev)
}

func (r *Router) liveKeyboard() (KeyboardFocusTarget, bool) {
	if !r.keyboard.Alive() {
		r.keyboard = KeyboardFocusTarget{}
		return KeyboardFocusTarget{}, false
	}
	return r.keyboard, true
}

func (r *Router) livePointer() (PointerFocusTarget, bool) {
	if !r.pointer.Alive() {
		r.pointer = PointerFocusTarget{}
		return PointerFocusTarget{}, false
	}
	return r.pointer, true
}

// Key delivers a key event and tracks held keys for later enters.
func (r *Router) Key(key input.Keysym, state input.KeyState, serial input.Serial, time uint32) bool {
	r.trackKey(key, state)
	t, ok := r.liveKeyboard()
	if !ok {
		return false
	}
	t.Key(r.seat, key, state, serial, time)
	return true
}

func (r *Router) Modifiers(mods input.Modifiers, serial input.Serial) bool {
	t, ok := r.liveKeyboard()
	if !ok {
		return false
	}
	t.Modifiers(r.seat, mods, serial)
	return true
}

func (r *Router) trackKey(key input.Keysym, state input.KeyState) {
	for i, k := range r.pressed {
		if k.Code == key.Code {
			if state == input.KeyReleased {
				r.pressed = append(r.pressed[:i], r.pressed[i+1:]...)
			}
			return
		}
	}
	if state == input.KeyPressed {
		r.pressed = append(r.pressed, key)
	}
}

func (r *Router) Motion(ev input.MotionEvent) bool {
	t, ok := r.livePointer()
	if !ok {
		return false
	}
	t.Motion(r.seat, ev)
	return true
}

func (r *Router) RelativeMotion(ev input.RelativeMotionEvent) bool {
	t, ok := r.livePointer()
	if !ok {
		return false
	}
	t.RelativeMotion(r.seat, ev)
	return true
}

func (r *Router) Button(ev input.ButtonEvent) bool {
	t, ok := r.livePointer()
	if !ok {
		return false
	}
	t.Button(r.seat, ev)
	return true
}

func (r *Router) Axis(frame input.AxisFrame) bool {
	t, ok := r.livePointer()
	if !ok {
		return false
	}
	t.Axis(r.seat, frame)
	return true
}

func (r *Router) Frame() bool {
	t, ok := r.livePointer()
	if !ok {
		return false
	}
	t.Frame(r.seat)
	return true
}

// Touch delivers fn to the pointer target if it is alive. Touch events share
// the pointer focus.
func (r *Router) Touch(fn func(t input.TouchTarget, seat *input.Seat)) bool {
	t, ok := r.livePointer()
	if !ok {
		return false
	}
	fn(t, r.seat)
	return true
}

// Gesture works like Touch for the gesture events of the pointer target.
func (r *Router) Gesture(fn func(t input.PointerTarget, seat *input.Seat)) bool {
	t, ok := r.livePointer()
	if !ok {
		return false
	}
	fn(t, r.seat)
	return true
}
