package input

// PointerTarget receives pointer and gesture events.
type PointerTarget interface {
	Enter(seat *Seat, ev MotionEvent)
	Motion(seat *Seat, ev MotionEvent)
	RelativeMotion(seat *Seat, ev RelativeMotionEvent)
	Button(seat *Seat, ev ButtonEvent)
	Axis(seat *Seat, frame AxisFrame)
	Frame(seat *Seat)
	GestureSwipeBegin(seat *Seat, ev GestureSwipeBeginEvent)
	GestureSwipeUpdate(seat *Seat, ev GestureSwipeUpdateEvent)
	GestureSwipeEnd(seat *Seat, ev GestureSwipeEndEvent)
	GesturePinchBegin(seat *Seat, ev GesturePinchBeginEvent)
	GesturePinchUpdate(seat *Seat, ev GesturePinchUpdateEvent)
	GesturePinchEnd(seat *Seat, ev GesturePinchEndEvent)
	GestureHoldBegin(seat *Seat, ev GestureHoldBeginEvent)
	GestureHoldEnd(seat *Seat, ev GestureHoldEndEvent)
	Leave(seat *Seat, serial Serial, time uint32)
}

// TouchTarget receives touch events. seq is the serial of the touch sequence.
type TouchTarget interface {
	TouchDown(seat *Seat, ev TouchDownEvent, seq Serial)
	TouchUp(seat *Seat, ev TouchUpEvent, seq Serial)
	TouchMotion(seat *Seat, ev TouchMotionEvent, seq Serial)
	TouchFrame(seat *Seat, seq Serial)
	TouchCancel(seat *Seat, seq Serial)
	TouchShape(seat *Seat, ev TouchShapeEvent, seq Serial)
	TouchOrientation(seat *Seat, ev TouchOrientationEvent, seq Serial)
}

// KeyboardTarget receives keyboard focus and key events.
type KeyboardTarget interface {
	KeyboardEnter(seat *Seat, keys []Keysym, serial Serial)
	KeyboardLeave(seat *Seat, serial Serial)
	Key(seat *Seat, key Keysym, state KeyState, serial Serial, time uint32)
	Modifiers(seat *Seat, mods Modifiers, serial Serial)
}
