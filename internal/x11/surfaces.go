package x11

import (
	"fmt"

	"github.com/wayice/wayice/internal/input"
	"github.com/wayice/wayice/internal/surface"
)

// Client is a window read from an X server with no compositor in between.
// It has no native surface and takes no input from this process.
type Client struct {
	inert
	id   uint32
	meta *surface.X11Metadata
}

var _ surface.X11Surface = (*Client)(nil)

// NewClient wraps windowID. A nil meta means the properties could not be
// read.
func NewClient(windowID uint32, meta *surface.X11Metadata) *Client {
	return &Client{id: windowID, meta: meta}
}

func (c *Client) Alive() bool                          { return true }
func (c *Client) WindowID() uint32                     { return c.id }
func (c *Client) WlSurface() (surface.WlSurface, bool) { return nil, false }
func (c *Client) SameClientAs(surface.ObjectID) bool   { return false }

func (c *Client) Metadata() (surface.X11Metadata, bool) {
	if c.meta == nil {
		return surface.X11Metadata{}, false
	}
	return *c.meta, true
}

// Window is a Client in the window table.
type Window struct {
	Client *Client
}

func (w Window) Alive() bool { return w.Client.Alive() }
func (w Window) Underlying() surface.Underlying {
	return surface.X11Underlying(w.Client)
}

// Windows lists the managed clients with their metadata read up front.
// Windows that disappear between the list and the read keep nil metadata.
func (c *Connection) Windows() ([]surface.Window, error) {
	ids, err := c.ClientList()
	if err != nil {
		return nil, err
	}
	out := make([]surface.Window, 0, len(ids))
	for _, id := range ids {
		var meta *surface.X11Metadata
		if m, err := c.Metadata(id); err == nil {
			meta = &m
		}
		out = append(out, Window{Client: NewClient(id, meta)})
	}
	return out, nil
}

// Output presents a Monitor as a compositor output.
type Output struct {
	Monitor Monitor
}

var _ surface.Output = Output{}

func (o Output) Name() string { return o.Monitor.Name }

func (o Output) Description() string {
	if o.Monitor.MmWidth == 0 || o.Monitor.MmHeight == 0 {
		return o.Monitor.Name
	}
	return fmt.Sprintf("%s (%dx%d mm)", o.Monitor.Name, o.Monitor.MmWidth, o.Monitor.MmHeight)
}

func (o Output) CurrentMode() (surface.Mode, bool) {
	if o.Monitor.Width <= 0 || o.Monitor.Height <= 0 {
		return surface.Mode{}, false
	}
	return surface.Mode{
		Width:   o.Monitor.Width,
		Height:  o.Monitor.Height,
		Refresh: o.Monitor.Refresh,
	}, true
}

// Outputs returns the active RandR outputs.
func (c *Connection) Outputs() ([]surface.Output, error) {
	monitors, err := c.GetMonitors()
	if err != nil {
		return nil, err
	}
	out := make([]surface.Output, 0, len(monitors))
	for _, m := range monitors {
		out = append(out, Output{Monitor: m})
	}
	return out, nil
}

// inert discards input. The X server delivers input to these windows itself.
type inert struct{}

func (inert) Enter(*input.Seat, input.MotionEvent)                                    {}
func (inert) Motion(*input.Seat, input.MotionEvent)                                   {}
func (inert) RelativeMotion(*input.Seat, input.RelativeMotionEvent)                   {}
func (inert) Button(*input.Seat, input.ButtonEvent)                                   {}
func (inert) Axis(*input.Seat, input.AxisFrame)                                       {}
func (inert) Frame(*input.Seat)                                                       {}
func (inert) GestureSwipeBegin(*input.Seat, input.GestureSwipeBeginEvent)             {}
func (inert) GestureSwipeUpdate(*input.Seat, input.GestureSwipeUpdateEvent)           {}
func (inert) GestureSwipeEnd(*input.Seat, input.GestureSwipeEndEvent)                 {}
func (inert) GesturePinchBegin(*input.Seat, input.GesturePinchBeginEvent)             {}
func (inert) GesturePinchUpdate(*input.Seat, input.GesturePinchUpdateEvent)           {}
func (inert) GesturePinchEnd(*input.Seat, input.GesturePinchEndEvent)                 {}
func (inert) GestureHoldBegin(*input.Seat, input.GestureHoldBeginEvent)               {}
func (inert) GestureHoldEnd(*input.Seat, input.GestureHoldEndEvent)                   {}
func (inert) Leave(*input.Seat, input.Serial, uint32)                                 {}
func (inert) TouchDown(*input.Seat, input.TouchDownEvent, input.Serial)               {}
func (inert) TouchUp(*input.Seat, input.TouchUpEvent, input.Serial)                   {}
func (inert) TouchMotion(*input.Seat, input.TouchMotionEvent, input.Serial)           {}
func (inert) TouchFrame(*input.Seat, input.Serial)                                    {}
func (inert) TouchCancel(*input.Seat, input.Serial)                                   {}
func (inert) TouchShape(*input.Seat, input.TouchShapeEvent, input.Serial)             {}
func (inert) TouchOrientation(*input.Seat, input.TouchOrientationEvent, input.Serial) {}
func (inert) KeyboardEnter(*input.Seat, []input.Keysym, input.Serial)                 {}
func (inert) KeyboardLeave(*input.Seat, input.Serial)                                 {}
func (inert) Key(*input.Seat, input.Keysym, input.KeyState, input.Serial, uint32)     {}
func (inert) Modifiers(*input.Seat, input.Modifiers, input.Serial)                    {}
