package ipc

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
)

// HandlerFunc processes a decoded request. Its work is side effects only:
// the server always answers with the echoed frame.
type HandlerFunc func(msg *Message)

var errFrameTooLarge = errors.New("frame exceeds maximum size")

// Server accepts connections on a unix socket and answers every well-formed
// newline-delimited request with the request frame itself.
//
// A frame is complete only at its newline or when the client closes its
// write side. A client that writes one object without a trailing newline and
// then waits gets no reply until it shuts down writing.
type Server struct {
	socketPath string
	maxFrame   int
	listener   net.Listener

	handlersMu sync.RWMutex
	handlers   map[string]HandlerFunc

	connsMu sync.Mutex
	conns   map[net.Conn]struct{}
	wg      sync.WaitGroup

	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a server for socketPath. maxFrameBytes <= 0 selects
// DefaultMaxFrameBytes.
func NewServer(socketPath string, maxFrameBytes int) *Server {
	if socketPath == "" {
		socketPath = DefaultSocketPath
	}
	if maxFrameBytes <= 0 {
		maxFrameBytes = DefaultMaxFrameBytes
	}
	s := &Server{
		socketPath: socketPath,
		maxFrame:   maxFrameBytes,
		handlers:   make(map[string]HandlerFunc),
		conns:      make(map[net.Conn]struct{}),
	}
	s.handlers[MethodWindowInfo] = func(msg *Message) {
		log.Printf("IPC: window-info data: %s", msg.Data)
	}
	s.handlers[MethodPing] = func(*Message) {}
	return s
}

// Handle registers fn for method, replacing any previous handler.
func (s *Server) Handle(method string, fn HandlerFunc) {
	s.handlersMu.Lock()
	defer s.handlersMu.Unlock()
	s.handlers[method] = fn
}

func (s *Server) SocketPath() string { return s.socketPath }

// Start begins listening. A socket file left by an earlier run is replaced.
func (s *Server) Start() error {
	if err := removeStaleSocket(s.socketPath); err != nil {
		return err
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("IPC server listening on %s", s.socketPath)

	s.wg.Add(1)
	go s.acceptLoop()

	return nil
}

func removeStaleSocket(path string) error {
	info, err := os.Lstat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat socket path: %w", err)
	}
	if info.Mode()&os.ModeSocket == 0 {
		return fmt.Errorf("refusing to replace non-socket file %s", path)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to remove stale socket: %w", err)
	}
	return nil
}

func (s *Server) isShuttingDown() bool {
	s.shutdownMu.Lock()
	defer s.shutdownMu.Unlock()
	return s.shuttingDown
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.isShuttingDown() || errors.Is(err, net.ErrClosed) {
				return
			}
			log.Printf("IPC accept error: %v", err)
			continue
		}

		if !s.track(conn) {
			conn.Close()
			return
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.untrack(conn)
			s.handleConnection(conn)
		}()
	}
}

func (s *Server) track(conn net.Conn) bool {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	if s.isShuttingDown() {
		return false
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	delete(s.conns, conn)
}

// handleConnection serves frames until the peer closes, a write fails or a
// frame is too large. Malformed frames are logged and skipped.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)
	for {
		frame, err := readFrame(reader, s.maxFrame)
		if errors.Is(err, errFrameTooLarge) {
			log.Printf("IPC: closing connection: %v (limit %d bytes)", err, s.maxFrame)
			return
		}
		if err != nil && !errors.Is(err, io.EOF) {
			if !s.isShuttingDown() {
				log.Printf("IPC read error: %v", err)
			}
			return
		}

		if len(frame) > 0 {
			if werr := s.serveFrame(conn, frame); werr != nil {
				log.Printf("Failed to send response: %v", werr)
				return
			}
		}

		if err != nil {
			return
		}
	}
}

func (s *Server) serveFrame(conn net.Conn, frame []byte) error {
	msg, err := ParseMessage(frame)
	if err != nil {
		log.Printf("IPC: %v", err)
		return nil
	}

	s.dispatch(msg)

	out := make([]byte, 0, len(frame)+1)
	out = append(out, frame...)
	out = append(out, '\n')
	_, err = conn.Write(out)
	return err
}

func (s *Server) dispatch(msg *Message) {
	s.handlersMu.RLock()
	fn, ok := s.handlers[msg.Method]
	s.handlersMu.RUnlock()

	if !ok {
		log.Printf("IPC: unknown method: %s", msg.Method)
		return
	}
	fn(msg)
}

// readFrame returns the next frame without its newline. At EOF it returns
// any unterminated trailing bytes together with io.EOF.
func readFrame(r *bufio.Reader, limit int) ([]byte, error) {
	var frame []byte
	for {
		chunk, err := r.ReadSlice('\n')
		frame = append(frame, chunk...)
		if len(bytes.TrimSuffix(frame, []byte{'\n'})) > limit {
			return nil, errFrameTooLarge
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		frame = bytes.TrimSuffix(frame, []byte{'\n'})
		if len(bytes.TrimSpace(frame)) == 0 {
			frame = nil
		}
		return frame, err
	}
}

// Stop closes the listener and open connections, waits for their
// goroutines and removes the socket file.
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}

	s.connsMu.Lock()
	for conn := range s.conns {
		conn.Close()
	}
	s.connsMu.Unlock()

	s.wg.Wait()
	os.Remove(s.socketPath)
}
