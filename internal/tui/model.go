package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/deskshell/internal/platform"
	"github.com/1broseidon/deskshell/internal/shell"
)

// dispatchMsg carries work posted from application goroutines back onto the
// program goroutine, where the shell may be mutated.
type dispatchMsg func()

type tickMsg time.Time

const refreshInterval = time.Second

// model is the root bubbletea model. The shell lives inside it and is only
// touched from Update.
type model struct {
	sh     *shell.Shell
	items  []menuItem
	status func(shell.AppID) string
	resize func(platform.Size)
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tick()
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dispatchMsg:
		msg()

	case tickMsg:
		// Application status lines change on their own; redraw periodically.
		return m, tick()

	case tea.WindowSizeMsg:
		size := platform.Size{Width: msg.Width, Height: msg.Height}
		m.sh.Resize(size)
		if m.resize != nil {
			m.resize(size)
		}

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) tea.Cmd {
	st := m.sh.Snapshot()
	switch msg.String() {
	case "ctrl+c", "q":
		return tea.Quit
	case "esc":
		m.sh.Drag.PointerCancel()
		m.sh.CloseStartMenu()
	case "s":
		m.sh.ToggleStartMenu()
	case "tab":
		if next := nextEntry(st); next != "" {
			m.sh.Lifecycle.Focus(next)
		}
	case "m":
		if st.Focused != "" {
			m.sh.Lifecycle.Minimize(st.Focused)
		}
	case "w":
		if st.Focused != "" {
			m.sh.Lifecycle.Close(st.Focused)
		}
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		if !st.StartMenuOpen {
			return nil
		}
		if i := int(msg.Runes[0] - '1'); i < len(m.items) {
			m.sh.CloseStartMenu()
			m.sh.Lifecycle.Open(m.items[i].app)
		}
	}
	return nil
}

// nextEntry returns the taskbar entry after the focused one, wrapping.
func nextEntry(st shell.State) shell.AppID {
	if len(st.Taskbar) == 0 {
		return ""
	}
	for i, e := range st.Taskbar {
		if e.App == st.Focused {
			return st.Taskbar[(i+1)%len(st.Taskbar)].App
		}
	}
	return st.Taskbar[0].App
}

func (m model) handleMouse(msg tea.MouseMsg) {
	p := shell.Point{X: msg.X, Y: msg.Y}
	switch msg.Action {
	case tea.MouseActionMotion:
		m.sh.Drag.PointerMove(p)
		return
	case tea.MouseActionRelease:
		m.sh.Drag.PointerUp()
		return
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
	}

	st := m.sh.Snapshot()
	h := hitTest(st, m.items, p)
	if st.StartMenuOpen && h.kind != hitMenu && h.kind != hitStartButton {
		m.sh.CloseStartMenu()
	}

	switch h.kind {
	case hitMenuItem:
		m.sh.Lifecycle.Open(h.app)
	case hitStartButton:
		m.sh.ToggleStartMenu()
	case hitTaskbarEntry:
		m.sh.Lifecycle.TaskbarClick(h.app)
	case hitMinimize:
		m.sh.Lifecycle.Focus(h.app)
		m.sh.Lifecycle.Minimize(h.app)
	case hitClose:
		m.sh.Lifecycle.Focus(h.app)
		m.sh.Lifecycle.Close(h.app)
	case hitWindow:
		m.sh.Drag.PointerDown(h.app, p, h.region)
	}
}

// View implements tea.Model.
func (m model) View() string {
	return render(m.sh.Snapshot(), m.items, m.status)
}
