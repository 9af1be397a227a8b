package mcp

// AppInput is the input for tools acting on one application.
type AppInput struct {
	AppID string `json:"app_id" jsonschema:"required,Application id (e.g. notepad, paint, minesweeper, gemini)"`
}

// MoveWindowInput is the input for the move_window tool.
type MoveWindowInput struct {
	AppID string `json:"app_id" jsonschema:"required,Application id of the window to move"`
	X     int    `json:"x" jsonschema:"required,Target left edge in viewport coordinates. Clamped so part of the window stays reachable."`
	Y     int    `json:"y" jsonschema:"required,Target top edge in viewport coordinates. Clamped between the top of the screen and the taskbar."`
}

// WindowOutput is the result of a lifecycle tool.
type WindowOutput struct {
	AppID   string `json:"app_id"`
	Changed bool   `json:"changed"`
	Open    bool   `json:"open"`
	Visible bool   `json:"visible"`
	Focused string `json:"focused,omitempty"`
	X       int    `json:"x,omitempty"`
	Y       int    `json:"y,omitempty"`
	Z       int    `json:"z,omitempty"`
	Message string `json:"message"`
}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct {
	VisibleOnly bool `json:"visible_only,omitempty" jsonschema:"When true, omit minimized windows"`
}

// WindowInfo describes one open window.
type WindowInfo struct {
	AppID    string `json:"app_id"`
	Title    string `json:"title"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Z        int    `json:"z"`
	Visible  bool   `json:"visible"`
	Focused  bool   `json:"focused"`
	Degraded bool   `json:"degraded,omitempty"`
	Status   string `json:"status,omitempty"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows       []WindowInfo `json:"windows"`
	Taskbar       []string     `json:"taskbar"`
	Focused       string       `json:"focused,omitempty"`
	StartMenuOpen bool         `json:"start_menu_open"`
}
