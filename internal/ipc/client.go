package ipc

import (
	"bufio"
	"fmt"
	"net"
	"time"
)

// Client sends requests to a running server.
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for socketPath; empty selects DefaultSocketPath.
func NewClient(socketPath string) *Client {
	if socketPath == "" {
		socketPath = DefaultSocketPath
	}
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

func (c *Client) SetTimeout(d time.Duration) {
	if d > 0 {
		c.timeout = d
	}
}

// SendFrame writes one raw frame and returns the server's reply without its
// newline.
func (c *Client) SendFrame(frame []byte) ([]byte, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	out := make([]byte, 0, len(frame)+1)
	out = append(out, frame...)
	out = append(out, '\n')
	if _, err := conn.Write(out); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	reply, err := readFrame(reader, len(frame)+DefaultMaxFrameBytes)
	if err != nil && len(reply) == 0 {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return reply, nil
}

// Send sends method with data (any JSON-encodable value, or
// json.RawMessage) and returns the echoed message.
func (c *Client) Send(method string, data any) (*Message, error) {
	msg, err := NewMessage(method, data)
	if err != nil {
		return nil, err
	}
	frame, err := msg.Marshal()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reply, err := c.SendFrame(frame)
	if err != nil {
		return nil, err
	}

	echoed, err := ParseMessage(reply)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return echoed, nil
}

// Ping checks that the daemon is answering.
func (c *Client) Ping() error {
	_, err := c.Send(MethodPing, nil)
	return err
}
