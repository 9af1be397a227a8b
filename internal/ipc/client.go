package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/deskshell/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the default daemon socket.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientWithSocket(socketPath)
}

// NewClientWithSocket creates a client for the daemon listening on socketPath.
func NewClientWithSocket(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}
	return &resp, nil
}

func (c *Client) call(cmd CommandType, payload any, out any) error {
	req := &Request{Command: cmd}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		req.Payload = data
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", cmd, err)
	}
	return nil
}

func (c *Client) appAction(cmd CommandType, appID string) (*ActionData, error) {
	var data ActionData
	if err := c.call(cmd, AppPayload{AppID: appID}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Open opens an application, or focuses it if already open.
func (c *Client) Open(appID string) (*ActionData, error) {
	return c.appAction(CommandOpen, appID)
}

// Close closes an application.
func (c *Client) Close(appID string) (*ActionData, error) {
	return c.appAction(CommandClose, appID)
}

// Minimize hides an application's window.
func (c *Client) Minimize(appID string) (*ActionData, error) {
	return c.appAction(CommandMinimize, appID)
}

// Focus brings an application's window to the front.
func (c *Client) Focus(appID string) (*ActionData, error) {
	return c.appAction(CommandFocus, appID)
}

// TaskbarClick clicks an application's taskbar button.
func (c *Client) TaskbarClick(appID string) (*ActionData, error) {
	return c.appAction(CommandTaskbarClick, appID)
}

// Move drags an application's window to (x, y).
func (c *Client) Move(appID string, x, y int) (*ActionData, error) {
	var data ActionData
	if err := c.call(CommandMove, MovePayload{AppID: appID, X: x, Y: y}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// ToggleStartMenu opens or closes the start menu and reports whether it is open.
func (c *Client) ToggleStartMenu() (bool, error) {
	var data struct {
		Open bool `json:"open"`
	}
	if err := c.call(CommandStartMenu, nil, &data); err != nil {
		return false, err
	}
	return data.Open, nil
}

// List retrieves the desktop snapshot.
func (c *Client) List() (*ListData, error) {
	var data ListData
	if err := c.call(CommandList, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.call(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}
