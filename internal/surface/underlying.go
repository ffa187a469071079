package surface

// UnderlyingKind tells which protocol backs a window.
type UnderlyingKind uint8

const (
	UnderlyingNone UnderlyingKind = iota
	UnderlyingWayland
	UnderlyingX11
)

func (k UnderlyingKind) String() string {
	switch k {
	case UnderlyingWayland:
		return "wayland"
	case UnderlyingX11:
		return "x11"
	default:
		return "none"
	}
}

// Underlying is the surface behind a window: either a native toplevel
// surface or an X11 surface.
type Underlying struct {
	kind     UnderlyingKind
	toplevel WlSurface
	x11      X11Surface
}

// WaylandUnderlying wraps a native toplevel surface.
func WaylandUnderlying(s WlSurface) Underlying {
	return Underlying{kind: UnderlyingWayland, toplevel: s}
}

// X11Underlying wraps an X11 surface.
func X11Underlying(s X11Surface) Underlying {
	return Underlying{kind: UnderlyingX11, x11: s}
}

func (u Underlying) Kind() UnderlyingKind { return u.kind }

// Wayland returns the toplevel surface of a native window.
func (u Underlying) Wayland() (WlSurface, bool) {
	if u.kind != UnderlyingWayland || u.toplevel == nil {
		return nil, false
	}
	return u.toplevel, true
}

// X11 returns the X11 surface of a foreign-toolkit window.
func (u Underlying) X11() (X11Surface, bool) {
	if u.kind != UnderlyingX11 || u.x11 == nil {
		return nil, false
	}
	return u.x11, true
}

// BackingSurface returns the native surface of a window regardless of its
// kind. X11 windows have one only once associated.
func BackingSurface(w Window) (WlSurface, bool) {
	u := w.Underlying()
	switch u.kind {
	case UnderlyingWayland:
		return u.Wayland()
	case UnderlyingX11:
		x, ok := u.X11()
		if !ok {
			return nil, false
		}
		return x.WlSurface()
	default:
		return nil, false
	}
}

// IsX11 reports whether the window is managed through the X11 layer.
func IsX11(w Window) bool {
	return w.Underlying().kind == UnderlyingX11
}
