package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wayice/wayice/internal/config"
	"github.com/wayice/wayice/internal/ipc"
	"github.com/wayice/wayice/internal/snapshot"
)

const windowsDoc = `[{"surface_id":"wl_surface@3","title":"Firefox","app_id":"org.mozilla.firefox","is_modal":false,"parent_id":"None"},` +
	`{"window_id":"4194311","title":"xterm","class":"XTerm","instance":"xterm","pid":42},` +
	`{"error":"invalid foreign surface"}]`

const outputsDoc = `[{"name":"eDP-1","size":{"width":1920,"height":1080},"refresh_rate":60000}]`

func fakeSegments(docs map[string]string) SegmentReader {
	return func(segment string) ([]byte, error) {
		doc, ok := docs[segment]
		if !ok {
			return nil, errors.New("no such file or directory")
		}
		return []byte(doc), nil
	}
}

func testServer(t *testing.T, docs map[string]string) *Server {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.SocketPath = filepath.Join(t.TempDir(), "wayice.sock")
	return newServer(cfg, fakeSegments(docs))
}

func resultText(t *testing.T, res *mcpsdk.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) != 1 {
		t.Fatalf("expected one content item, got %+v", res)
	}
	text, ok := res.Content[0].(*mcpsdk.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return text.Text
}

func TestListWindows_ReturnsPublishedDocument(t *testing.T) {
	s := testServer(t, map[string]string{config.DefaultWindowsSegment: windowsDoc})

	res, _, err := s.handleListWindows(context.Background(), nil, ListWindowsInput{Validate: true})
	if err != nil {
		t.Fatalf("list_windows: %v", err)
	}
	if got := resultText(t, res); got != windowsDoc {
		t.Fatalf("expected published document verbatim, got %s", got)
	}
}

func TestListWindows_Filter(t *testing.T) {
	s := testServer(t, map[string]string{config.DefaultWindowsSegment: windowsDoc})

	tests := []struct {
		filter string
		want   []string
	}{
		{"firefox", []string{"Firefox"}},
		{"XTERM", []string{"xterm"}},
		{"mozilla", []string{"Firefox"}},
		{"nothing", nil},
	}
	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			res, _, err := s.handleListWindows(context.Background(), nil, ListWindowsInput{Filter: tt.filter})
			if err != nil {
				t.Fatalf("list_windows: %v", err)
			}
			records, err := snapshot.DecodeWindows([]byte(resultText(t, res)))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			var titles []string
			for _, r := range records {
				titles = append(titles, r.Title())
			}
			if strings.Join(titles, ",") != strings.Join(tt.want, ",") {
				t.Fatalf("filter %q matched %v, want %v", tt.filter, titles, tt.want)
			}
		})
	}
}

func TestListWindows_InvalidDocument(t *testing.T) {
	s := testServer(t, map[string]string{config.DefaultWindowsSegment: `{"not":"an array"}`})

	if _, _, err := s.handleListWindows(context.Background(), nil, ListWindowsInput{Validate: true}); err == nil {
		t.Fatal("expected schema validation error")
	}
	// Without validation the document is passed through.
	if _, _, err := s.handleListWindows(context.Background(), nil, ListWindowsInput{}); err != nil {
		t.Fatalf("unexpected error without validation: %v", err)
	}
}

func TestListWindows_MissingSegment(t *testing.T) {
	s := testServer(t, nil)
	_, _, err := s.handleListWindows(context.Background(), nil, ListWindowsInput{})
	if err == nil || !strings.Contains(err.Error(), config.DefaultWindowsSegment) {
		t.Fatalf("expected error naming the segment, got %v", err)
	}
}

func TestListOutputs(t *testing.T) {
	s := testServer(t, map[string]string{config.DefaultOutputsSegment: outputsDoc})

	res, _, err := s.handleListOutputs(context.Background(), nil, ListOutputsInput{Validate: true})
	if err != nil {
		t.Fatalf("list_outputs: %v", err)
	}
	if got := resultText(t, res); got != outputsDoc {
		t.Fatalf("unexpected outputs %s", got)
	}

	s.config.Publish.OutputsSegment = ""
	if _, _, err := s.handleListOutputs(context.Background(), nil, ListOutputsInput{}); err == nil {
		t.Fatal("expected error when output publishing is disabled")
	}
}

func TestSendMessage_EchoesThroughSocket(t *testing.T) {
	s := testServer(t, nil)
	srv := ipc.NewServer(s.config.SocketPath, s.config.MaxFrameBytes)
	if err := srv.Start(); err != nil {
		t.Fatalf("start ipc server: %v", err)
	}
	defer srv.Stop()

	res, _, err := s.handleSendMessage(context.Background(), nil, SendMessageInput{
		Method: ipc.MethodWindowInfo,
		Data:   map[string]any{"title": "xterm"},
	})
	if err != nil {
		t.Fatalf("send_message: %v", err)
	}
	msg, err := ipc.ParseMessage([]byte(resultText(t, res)))
	if err != nil {
		t.Fatalf("parse echo: %v", err)
	}
	if msg.Method != ipc.MethodWindowInfo {
		t.Fatalf("unexpected method %q", msg.Method)
	}
	var data map[string]string
	if err := json.Unmarshal(msg.Data, &data); err != nil || data["title"] != "xterm" {
		t.Fatalf("unexpected data %s (%v)", msg.Data, err)
	}

	res, _, err = s.handleSendMessage(context.Background(), nil, SendMessageInput{Method: ipc.MethodPing})
	if err != nil {
		t.Fatalf("ping: %v", err)
	}
	if got := resultText(t, res); got != `{"method":"ping","data":null}` {
		t.Fatalf("unexpected ping echo %s", got)
	}
}

func TestSendMessage_Errors(t *testing.T) {
	s := testServer(t, nil)

	if _, _, err := s.handleSendMessage(context.Background(), nil, SendMessageInput{Method: "  "}); err == nil {
		t.Fatal("expected error for empty method")
	}
	if _, _, err := s.handleSendMessage(context.Background(), nil, SendMessageInput{Method: ipc.MethodPing}); err == nil {
		t.Fatal("expected error with no server listening")
	}
}
