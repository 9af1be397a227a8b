package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/deskshell/internal/shell"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandOpen         CommandType = "OPEN"
	CommandClose        CommandType = "CLOSE"
	CommandMinimize     CommandType = "MINIMIZE"
	CommandFocus        CommandType = "FOCUS"
	CommandTaskbarClick CommandType = "TASKBAR_CLICK"
	CommandMove         CommandType = "MOVE"
	CommandStartMenu    CommandType = "START_MENU"
	CommandList         CommandType = "LIST"
	CommandGetStatus    CommandType = "GET_STATUS"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// AppPayload is the payload of OPEN, CLOSE, MINIMIZE, FOCUS and TASKBAR_CLICK.
type AppPayload struct {
	AppID string `json:"app_id"`
}

// MovePayload drags a window by its titlebar to a new top-left position.
type MovePayload struct {
	AppID string `json:"app_id"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
}

// ActionData reports the outcome of a lifecycle command. Changed is false when
// the command was a no-op, e.g. closing an application that is not open.
type ActionData struct {
	AppID   string        `json:"app_id"`
	Changed bool          `json:"changed"`
	Focused string        `json:"focused,omitempty"`
	Window  *shell.Window `json:"window,omitempty"`
}

// ListData is the desktop snapshot returned by LIST, with the status line of
// every running application.
type ListData struct {
	shell.State
	AppStatus map[string]string `json:"app_status,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	OpenWindows    int      `json:"open_windows"`
	VisibleWindows int      `json:"visible_windows"`
	Focused        string   `json:"focused,omitempty"`
	Apps           []string `json:"apps"`
	UptimeSeconds  int64    `json:"uptime_seconds"`
	DaemonRunning  bool     `json:"daemon_running"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data any) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	if req.Command == "" {
		return nil, fmt.Errorf("failed to parse request: missing command")
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
