package mcp

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct {
	Filter   string `json:"filter,omitempty" jsonschema:"Optional case-insensitive substring matched against title, app_id and class"`
	Validate bool   `json:"validate,omitempty" jsonschema:"When true, check the published document against the snapshot schema before returning it"`
}

// ListOutputsInput is the input for the list_outputs tool.
type ListOutputsInput struct {
	Validate bool `json:"validate,omitempty" jsonschema:"When true, check the published document against the snapshot schema before returning it"`
}

// SendMessageInput is the input for the send_message tool.
type SendMessageInput struct {
	Method string `json:"method" jsonschema:"required,Message method (window-info, refresh or ping)"`
	Data   any    `json:"data,omitempty" jsonschema:"Optional JSON payload"`
}
