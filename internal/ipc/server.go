package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/deskshell/internal/runtimepath"
	"github.com/1broseidon/deskshell/internal/shell"
)

// requestTimeout bounds how long a request waits for the shell loop.
const requestTimeout = 5 * time.Second

// Apps reports on the applications behind the shell.
type Apps interface {
	IDs() []shell.AppID
	Status(id shell.AppID) string
}

// ServerOptions configures a Server.
type ServerOptions struct {
	// SocketPath defaults to runtimepath.SocketPath().
	SocketPath string
	Apps       Apps
	Logger     *slog.Logger
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	loop         *shell.Loop
	apps         Apps
	logger       *slog.Logger
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
	conns        sync.WaitGroup
}

// NewServer creates a new IPC server that runs every command on loop.
func NewServer(loop *shell.Loop, opts ServerOptions) (*Server, error) {
	socketPath := opts.SocketPath
	if socketPath == "" {
		p, err := runtimepath.SocketPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
		}
		socketPath = p
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	// Remove a stale socket from a previous run.
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		loop:       loop,
		apps:       opts.Apps,
		logger:     logger.With("component", "ipc"),
		startTime:  time.Now(),
	}, nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)
	go s.acceptLoop()
	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.isShuttingDown() || errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Warn("IPC accept error", "error", err)
			continue
		}

		s.conns.Add(1)
		go func() {
			defer s.conns.Done()
			s.handleConnection(conn)
		}()
	}
}

// handleConnection serves one newline-delimited request.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(2 * requestTimeout))

	reader := bufio.NewReader(conn)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", "error", err)
		return
	}

	var resp *Response
	req, err := ParseRequest(data)
	if err != nil {
		resp = NewErrorResponse(fmt.Sprintf("Invalid request: %v", err))
	} else {
		resp = s.handleCommand(req)
	}

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal response", "error", err)
		return
	}
	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("failed to send response", "error", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	s.logger.Debug("IPC request", "command", string(req.Command))

	switch req.Command {
	case CommandOpen:
		return s.handleAppAction(req.Payload, func(sh *shell.Shell, id shell.AppID) bool {
			return sh.Lifecycle.Open(id)
		})
	case CommandClose:
		return s.handleAppAction(req.Payload, func(sh *shell.Shell, id shell.AppID) bool {
			return sh.Lifecycle.Close(id)
		})
	case CommandMinimize:
		return s.handleAppAction(req.Payload, func(sh *shell.Shell, id shell.AppID) bool {
			return sh.Lifecycle.Minimize(id)
		})
	case CommandFocus:
		return s.handleAppAction(req.Payload, func(sh *shell.Shell, id shell.AppID) bool {
			return sh.Lifecycle.Focus(id)
		})
	case CommandTaskbarClick:
		return s.handleAppAction(req.Payload, func(sh *shell.Shell, id shell.AppID) bool {
			return sh.Lifecycle.TaskbarClick(id)
		})
	case CommandMove:
		return s.handleMove(req.Payload)
	case CommandStartMenu:
		return s.handleStartMenu()
	case CommandList:
		return s.handleList()
	case CommandGetStatus:
		return s.handleGetStatus()
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) do(fn func(sh *shell.Shell)) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	return s.loop.Do(ctx, fn)
}

func (s *Server) handleAppAction(payload json.RawMessage, op func(sh *shell.Shell, id shell.AppID) bool) *Response {
	var p AppPayload
	if err := decodePayload(payload, &p); err != nil {
		return NewErrorResponse(err.Error())
	}
	if p.AppID == "" {
		return NewErrorResponse("app_id is required")
	}
	id := shell.AppID(p.AppID)

	var data ActionData
	err := s.do(func(sh *shell.Shell) {
		data = actionResult(sh, id, op(sh, id))
	})
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("shell unavailable: %v", err))
	}
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleMove(payload json.RawMessage) *Response {
	var p MovePayload
	if err := decodePayload(payload, &p); err != nil {
		return NewErrorResponse(err.Error())
	}
	if p.AppID == "" {
		return NewErrorResponse("app_id is required")
	}
	id := shell.AppID(p.AppID)

	var data ActionData
	err := s.do(func(sh *shell.Shell) {
		moved := sh.Drag.MoveTo(id, shell.Point{X: p.X, Y: p.Y})
		data = actionResult(sh, id, moved)
	})
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("shell unavailable: %v", err))
	}
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleStartMenu() *Response {
	var open bool
	if err := s.do(func(sh *shell.Shell) { open = sh.ToggleStartMenu() }); err != nil {
		return NewErrorResponse(fmt.Sprintf("shell unavailable: %v", err))
	}
	resp, _ := NewOKResponse(map[string]bool{"open": open})
	return resp
}

func (s *Server) handleList() *Response {
	st, err := s.snapshot()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("shell unavailable: %v", err))
	}

	data := ListData{State: st}
	if s.apps != nil {
		data.AppStatus = make(map[string]string)
		for _, w := range st.Windows {
			if status := s.apps.Status(w.App); status != "" {
				data.AppStatus[string(w.App)] = status
			}
		}
	}
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

// handleGetStatus returns current daemon status
func (s *Server) handleGetStatus() *Response {
	st, err := s.snapshot()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("shell unavailable: %v", err))
	}

	status := StatusData{
		OpenWindows:   len(st.Windows),
		Focused:       string(st.Focused),
		Apps:          []string{},
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		DaemonRunning: true,
	}
	for _, w := range st.Windows {
		if w.Visible() {
			status.VisibleWindows++
		}
	}
	if s.apps != nil {
		for _, id := range s.apps.IDs() {
			status.Apps = append(status.Apps, string(id))
		}
	}

	resp, _ := NewOKResponse(status)
	return resp
}

func (s *Server) snapshot() (shell.State, error) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	return s.loop.Snapshot(ctx)
}

func actionResult(sh *shell.Shell, id shell.AppID, changed bool) ActionData {
	data := ActionData{AppID: string(id), Changed: changed, Focused: string(sh.Focused())}
	if w, ok := sh.Snapshot().Window(id); ok {
		data.Window = &w
	}
	return data
}

func decodePayload(payload json.RawMessage, out any) error {
	if len(payload) == 0 {
		return fmt.Errorf("payload is required")
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}

func (s *Server) isShuttingDown() bool {
	s.shutdownMu.Lock()
	defer s.shutdownMu.Unlock()
	return s.shuttingDown
}

// Stop closes the listener, waits for in-flight requests and removes the
// socket.
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	s.conns.Wait()
	os.Remove(s.socketPath)
}
