package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wayice/wayice/internal/snapshot"
)

func textResult(text string) *mcpsdk.CallToolResult {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: text},
		},
	}
}

func (s *Server) readDocument(segment string, validate func([]byte) error) ([]byte, error) {
	data, err := s.read(segment)
	if err != nil {
		return nil, fmt.Errorf("read %s (is the compositor running?): %w", segment, err)
	}
	if validate != nil {
		if err := validate(data); err != nil {
			return nil, fmt.Errorf("%s: %w", segment, err)
		}
	}
	return data, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args ListWindowsInput) (*mcpsdk.CallToolResult, any, error) {
	var validate func([]byte) error
	if args.Validate {
		validate = snapshot.ValidateWindows
	}
	data, err := s.readDocument(s.config.Publish.WindowsSegment, validate)
	if err != nil {
		return nil, nil, err
	}

	filter := strings.ToLower(strings.TrimSpace(args.Filter))
	if filter == "" {
		return textResult(string(data)), nil, nil
	}

	records, err := snapshot.DecodeWindows(data)
	if err != nil {
		return nil, nil, fmt.Errorf("decode windows: %w", err)
	}
	matched := make([]snapshot.WindowRecord, 0, len(records))
	for _, rec := range records {
		if matchesWindow(rec, filter) {
			matched = append(matched, rec)
		}
	}
	doc, err := snapshot.Encode(matched)
	if err != nil {
		return nil, nil, err
	}
	return textResult(doc), nil, nil
}

// matchesWindow reports whether filter, already lower-cased, occurs in any
// identifying field of rec.
func matchesWindow(rec snapshot.WindowRecord, filter string) bool {
	var fields []string
	switch rec.Kind {
	case snapshot.RecordNative:
		fields = []string{rec.Native.Title, rec.Native.AppID}
	case snapshot.RecordForeign:
		fields = []string{rec.Foreign.Title, rec.Foreign.Class, rec.Foreign.Instance}
	default:
		return false
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), filter) {
			return true
		}
	}
	return false
}

func (s *Server) handleListOutputs(_ context.Context, _ *mcpsdk.CallToolRequest, args ListOutputsInput) (*mcpsdk.CallToolResult, any, error) {
	segment := s.config.Publish.OutputsSegment
	if segment == "" {
		return nil, nil, fmt.Errorf("output publishing is disabled (publish.outputs_segment is empty)")
	}
	var validate func([]byte) error
	if args.Validate {
		validate = snapshot.ValidateOutputs
	}
	data, err := s.readDocument(segment, validate)
	if err != nil {
		return nil, nil, err
	}
	return textResult(string(data)), nil, nil
}

func (s *Server) handleSendMessage(_ context.Context, _ *mcpsdk.CallToolRequest, args SendMessageInput) (*mcpsdk.CallToolResult, any, error) {
	method := strings.TrimSpace(args.Method)
	if method == "" {
		return nil, nil, fmt.Errorf("method is required")
	}

	reply, err := s.client.Send(method, args.Data)
	if err != nil {
		return nil, nil, err
	}
	frame, err := reply.Marshal()
	if err != nil {
		return nil, nil, err
	}
	return textResult(string(frame)), nil, nil
}
