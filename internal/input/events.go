// Package input defines the seat events delivered to focus targets and the
// handler interfaces surfaces implement to receive them.
package input

// Serial is a protocol event serial.
type Serial uint32

// Seat identifies the seat an event originates from.
type Seat struct {
	Name string
}

// Point is a position or delta in surface-local logical coordinates.
type Point struct {
	X float64
	Y float64
}

// MotionEvent is an absolute pointer position update. It is also the
// payload of pointer enter.
type MotionEvent struct {
	Location Point
	Serial   Serial
	Time     uint32
}

// RelativeMotionEvent carries unaccelerated and accelerated deltas.
type RelativeMotionEvent struct {
	Delta        Point
	DeltaUnaccel Point
	UTime        uint64
}

// ButtonState is pressed or released.
type ButtonState uint8

const (
	ButtonReleased ButtonState = iota
	ButtonPressed
)

type ButtonEvent struct {
	Serial Serial
	Time   uint32
	Button uint32
	State  ButtonState
}

// AxisSource describes the device that produced an axis frame.
type AxisSource uint8

const (
	AxisSourceWheel AxisSource = iota
	AxisSourceFinger
	AxisSourceContinuous
	AxisSourceWheelTilt
)

// AxisFrame groups the scroll values of one logical scroll step.
type AxisFrame struct {
	Source     AxisSource
	Time       uint32
	Horizontal float64
	Vertical   float64
	V120       [2]int32
	Stop       [2]bool
}

type GestureSwipeBeginEvent struct {
	Serial  Serial
	Time    uint32
	Fingers uint32
}

type GestureSwipeUpdateEvent struct {
	Time  uint32
	Delta Point
}

type GestureSwipeEndEvent struct {
	Serial    Serial
	Time      uint32
	Cancelled bool
}

type GesturePinchBeginEvent struct {
	Serial  Serial
	Time    uint32
	Fingers uint32
}

type GesturePinchUpdateEvent struct {
	Time     uint32
	Delta    Point
	Scale    float64
	Rotation float64
}

type GesturePinchEndEvent struct {
	Serial    Serial
	Time      uint32
	Cancelled bool
}

type GestureHoldBeginEvent struct {
	Serial  Serial
	Time    uint32
	Fingers uint32
}

type GestureHoldEndEvent struct {
	Serial    Serial
	Time      uint32
	Cancelled bool
}

// TouchSlot identifies one touch point for the lifetime of a contact.
type TouchSlot int32

type TouchDownEvent struct {
	Slot     TouchSlot
	Location Point
	Serial   Serial
	Time     uint32
}

type TouchUpEvent struct {
	Slot   TouchSlot
	Serial Serial
	Time   uint32
}

type TouchMotionEvent struct {
	Slot     TouchSlot
	Location Point
	Time     uint32
}

// TouchShapeEvent reports the ellipse of a contact.
type TouchShapeEvent struct {
	Slot  TouchSlot
	Major float64
	Minor float64
}

type TouchOrientationEvent struct {
	Slot        TouchSlot
	Orientation float64
}

// KeyState is pressed or released.
type KeyState uint8

const (
	KeyReleased KeyState = iota
	KeyPressed
)

// Keysym is a key as seen by the seat: the raw keycode and the keysym it
// resolved to under the active keymap.
type Keysym struct {
	Code uint32
	Sym  uint32
}

// Modifiers is the serialized modifier state sent to clients.
type Modifiers struct {
	Ctrl     bool
	Alt      bool
	Shift    bool
	Logo     bool
	CapsLock bool
	NumLock  bool
}
