package daemon

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/wayice/wayice/internal/surface"
	"github.com/wayice/wayice/internal/x11"
)

// X11Source reads windows and outputs from an X server. The connection is
// opened lazily and reopened after a failure, so the daemon keeps running
// across X server restarts.
type X11Source struct {
	display string
	logger  *slog.Logger

	mu   sync.Mutex
	conn *x11.Connection
}

func NewX11Source(display string, logger *slog.Logger) *X11Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &X11Source{display: display, logger: logger}
}

func (s *X11Source) connection() (*x11.Connection, error) {
	if s.conn != nil {
		return s.conn, nil
	}
	conn, err := x11.NewConnection(s.display)
	if err != nil {
		return nil, err
	}
	s.logger.Info("connected to X server", "display", s.display)
	s.conn = conn
	return conn, nil
}

func (s *X11Source) drop(err error) {
	if s.conn == nil {
		return
	}
	s.logger.Warn("dropping X connection", "error", err)
	s.conn.Close()
	s.conn = nil
}

func (s *X11Source) Windows() ([]surface.Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conn, err := s.connection()
	if err != nil {
		return nil, err
	}
	windows, err := conn.Windows()
	if err != nil {
		s.drop(err)
		return nil, fmt.Errorf("x11 windows: %w", err)
	}
	return windows, nil
}

func (s *X11Source) Outputs() ([]surface.Output, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conn, err := s.connection()
	if err != nil {
		return nil, err
	}
	outputs, err := conn.Outputs()
	if err != nil {
		return nil, fmt.Errorf("x11 outputs: %w", err)
	}
	return outputs, nil
}

// Metadata resolves a window the snapshot could not describe on first read.
func (s *X11Source) Metadata(windowID uint32) (surface.X11Metadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conn, err := s.connection()
	if err != nil {
		return surface.X11Metadata{}, err
	}
	return conn.Metadata(windowID)
}

func (s *X11Source) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
}
