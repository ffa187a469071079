package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
)

// Monitor is an active RandR output and the mode its CRTC drives.
type Monitor struct {
	ID       int
	Name     string
	X        int
	Y        int
	Width    int
	Height   int
	MmWidth  int
	MmHeight int
	// Refresh in millihertz, 0 when the mode is unknown.
	Refresh int
}

// GetMonitors retrieves all active monitors using XRandR
func (c *Connection) GetMonitors() ([]Monitor, error) {
	// Initialize RandR if not already done
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	// Get screen resources
	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	modes := make(map[uint32]randr.ModeInfo, len(resources.Modes))
	for _, mode := range resources.Modes {
		modes[mode.Id] = mode
	}

	var monitors []Monitor

	// Query each CRTC for active monitors
	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		// Skip disabled CRTCs
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		mon := Monitor{
			ID:     i,
			Name:   fmt.Sprintf("Monitor%d", i),
			X:      int(crtcInfo.X),
			Y:      int(crtcInfo.Y),
			Width:  int(crtcInfo.Width),
			Height: int(crtcInfo.Height),
		}
		if mode, ok := modes[uint32(crtcInfo.Mode)]; ok {
			mon.Refresh = refreshMilliHz(mode)
		}

		outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply()
		if err == nil {
			mon.Name = string(outputInfo.Name)
			mon.MmWidth = int(outputInfo.MmWidth)
			mon.MmHeight = int(outputInfo.MmHeight)
		}

		monitors = append(monitors, mon)
	}

	return monitors, nil
}

// refreshMilliHz derives the vertical refresh of a mode line.
func refreshMilliHz(mode randr.ModeInfo) int {
	num := uint64(mode.DotClock) * 1000
	den := uint64(mode.Htotal) * uint64(mode.Vtotal)
	if mode.ModeFlags&randr.ModeFlagInterlace != 0 {
		num *= 2
	}
	if mode.ModeFlags&randr.ModeFlagDoubleScan != 0 {
		den *= 2
	}
	if den == 0 {
		return 0
	}
	return int((num + den/2) / den)
}
