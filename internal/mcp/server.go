package mcp

import (
	"context"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wayice/wayice/internal/config"
	"github.com/wayice/wayice/internal/ipc"
	"github.com/wayice/wayice/internal/shm"
)

const (
	ServerName    = "wayice"
	ServerVersion = "0.1.0"

	// defaultReadTimeout bounds the wait for a segment's semaphore.
	defaultReadTimeout = 2 * time.Second
)

// SegmentReader returns the current value of a shared-memory segment.
type SegmentReader func(segment string) ([]byte, error)

// Server is the MCP server exposing the published compositor state.
type Server struct {
	mcpServer *mcpsdk.Server
	config    *config.Config
	client    *ipc.Client
	read      SegmentReader
}

// NewServer creates an MCP server reading the segments and socket named in
// cfg.
func NewServer(cfg *config.Config) *Server {
	timeout := cfg.Publish.LockTimeout
	if timeout <= 0 {
		timeout = defaultReadTimeout
	}
	return newServer(cfg, func(segment string) ([]byte, error) {
		return shm.Read(segment, timeout)
	})
}

func newServer(cfg *config.Config, read SegmentReader) *Server {
	s := &Server{
		config: cfg,
		client: ipc.NewClient(cfg.SocketPath),
		read:   read,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List the compositor's windows from the published shared-memory snapshot. Native windows carry title, app_id, is_modal and parent_id; X11 windows carry window_id, title, class, instance and pid. Optionally filter by a case-insensitive substring of the title, app_id or class.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_outputs",
		Description: "List the compositor's outputs (name, size in pixels, refresh rate in mHz) from the published shared-memory snapshot.",
	}, s.handleListOutputs)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "send_message",
		Description: "Send a {method, data} message to the compositor's request socket and return the echoed frame. Known methods: window-info, refresh, ping.",
	}, s.handleSendMessage)
}
