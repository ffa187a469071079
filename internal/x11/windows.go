package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"

	"github.com/wayice/wayice/internal/surface"
)

// ClientList returns the managed application windows in _NET_CLIENT_LIST
// order, skipping docks, desktops and other non-application types.
func (c *Connection) ClientList() ([]uint32, error) {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("failed to get client list: %w", err)
	}
	out := make([]uint32, 0, len(clients))
	for _, win := range clients {
		if !c.IsNormalWindow(win) {
			continue
		}
		out = append(out, uint32(win))
	}
	return out, nil
}

// Metadata reads the title, WM_CLASS and _NET_WM_PID of a window. Missing
// properties leave their field empty; only an unreadable window is an error.
func (c *Connection) Metadata(windowID uint32) (surface.X11Metadata, error) {
	win := xproto.Window(windowID)
	if _, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(win)).Reply(); err != nil {
		return surface.X11Metadata{}, fmt.Errorf("window %d: %w", windowID, err)
	}

	netName, _ := ewmh.WmNameGet(c.XUtil, win)
	wmName, _ := icccm.WmNameGet(c.XUtil, win)
	class, _ := icccm.WmClassGet(c.XUtil, win)
	pid, err := ewmh.WmPidGet(c.XUtil, win)
	if err != nil {
		pid = 0
	}
	return metadataFrom(windowID, netName, wmName, class, pid), nil
}

// metadataFrom prefers the UTF-8 _NET_WM_NAME over the legacy WM_NAME.
func metadataFrom(windowID uint32, netName, wmName string, class *icccm.WmClass, pid uint) surface.X11Metadata {
	meta := surface.X11Metadata{
		WindowID: windowID,
		Title:    netName,
		PID:      int(pid),
	}
	if meta.Title == "" {
		meta.Title = wmName
	}
	if class != nil {
		meta.Class = class.Class
		meta.Instance = class.Instance
	}
	return meta
}

// IsNormalWindow checks if a window is a normal application window
func (c *Connection) IsNormalWindow(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		// If we can't determine type, assume it's normal
		return true
	}
	return isNormalType(types)
}

func isNormalType(types []string) bool {
	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_NORMAL", "_NET_WM_WINDOW_TYPE_DIALOG":
			return true
		case "_NET_WM_WINDOW_TYPE_DESKTOP",
			"_NET_WM_WINDOW_TYPE_DOCK",
			"_NET_WM_WINDOW_TYPE_SPLASH",
			"_NET_WM_WINDOW_TYPE_NOTIFICATION":
			return false
		}
	}

	// If no specific type is set, assume it's normal
	return len(types) == 0
}

func (c *Connection) ActiveWindow() (uint32, error) {
	win, err := ewmh.ActiveWindowGet(c.XUtil)
	if err != nil {
		return 0, err
	}
	return uint32(win), nil
}
