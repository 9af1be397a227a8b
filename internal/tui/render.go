package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/deskshell/internal/platform"
	"github.com/1broseidon/deskshell/internal/shell"
)

type styleID int

const (
	styleDesktop styleID = iota
	styleBody
	styleTitle
	styleTitleFocused
	styleControls
	styleTaskbar
	styleStart
	styleEntry
	styleEntryActive
	styleMenu
	styleDegraded
)

var styles = []lipgloss.Style{
	styleDesktop: lipgloss.NewStyle().
		Background(lipgloss.Color("30")),
	styleBody: lipgloss.NewStyle().
		Foreground(lipgloss.Color("236")).
		Background(lipgloss.Color("252")),
	styleTitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")).
		Background(lipgloss.Color("240")),
	styleTitleFocused: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62")),
	styleControls: lipgloss.NewStyle().
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("238")),
	styleTaskbar: lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")).
		Background(lipgloss.Color("235")),
	styleStart: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("28")),
	styleEntry: lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")).
		Background(lipgloss.Color("237")),
	styleEntryActive: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62")),
	styleMenu: lipgloss.NewStyle().
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("236")),
	styleDegraded: lipgloss.NewStyle().
		Foreground(lipgloss.Color("196")).
		Background(lipgloss.Color("252")),
}

type cell struct {
	r     rune
	style styleID
}

// canvas is a fixed grid of styled cells. Writes outside the grid are
// dropped, so windows dragged partly off screen clip at the edges.
type canvas struct {
	width, height int
	cells         []cell
}

func newCanvas(width, height int) *canvas {
	c := &canvas{width: width, height: height, cells: make([]cell, width*height)}
	for i := range c.cells {
		c.cells[i] = cell{r: ' ', style: styleDesktop}
	}
	return c
}

func (c *canvas) set(x, y int, r rune, s styleID) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	c.cells[y*c.width+x] = cell{r: r, style: s}
}

func (c *canvas) fill(x, y, w int, s styleID) {
	for i := 0; i < w; i++ {
		c.set(x+i, y, ' ', s)
	}
}

// text writes s starting at (x, y), truncated to at most w cells.
func (c *canvas) text(x, y, w int, s string, style styleID) {
	i := 0
	for _, r := range s {
		if i >= w {
			return
		}
		c.set(x+i, y, r, style)
		i++
	}
}

// String renders the grid row by row, styling each run of equal style once.
func (c *canvas) String() string {
	var sb strings.Builder
	for y := 0; y < c.height; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		row := c.cells[y*c.width : (y+1)*c.width]
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && row[x].style == row[start].style {
				continue
			}
			var run strings.Builder
			for _, cl := range row[start:x] {
				run.WriteRune(cl.r)
			}
			sb.WriteString(styles[row[start].style].Render(run.String()))
			start = x
		}
	}
	return sb.String()
}

// render draws the desktop: windows in stacking order, the start menu above
// them and the taskbar along the bottom row.
func render(st shell.State, items []menuItem, status func(shell.AppID) string) string {
	if st.Viewport.Width <= 0 || st.Viewport.Height <= 0 {
		return ""
	}
	c := newCanvas(st.Viewport.Width, st.Viewport.Height)

	for _, w := range st.Windows {
		if w.Visible() {
			drawWindow(c, w, status(w.App))
		}
	}
	if st.StartMenuOpen {
		drawMenu(c, items, menuRect(items, st.Viewport))
	}
	drawTaskbar(c, st)
	return c.String()
}

func drawWindow(c *canvas, w shell.Window, status string) {
	b := w.Bounds
	title := styleTitle
	if w.Focused {
		title = styleTitleFocused
	}
	c.fill(b.X, b.Y, b.Width, title)
	c.text(b.X+1, b.Y, b.Width-len(controlsLabel)-2, w.Title, title)
	c.text(controlsStart(w), b.Y, len(controlsLabel), controlsLabel, styleControls)

	for y := b.Y + 1; y < b.Y+b.Height; y++ {
		c.fill(b.X, y, b.Width, styleBody)
	}
	row := b.Y + 2
	if w.Degraded {
		c.text(b.X+1, row, b.Width-2, "! some features failed to start", styleDegraded)
		row++
	}
	for _, line := range wrap(status, b.Width-2) {
		if row >= b.Y+b.Height {
			break
		}
		c.text(b.X+1, row, b.Width-2, line, styleBody)
		row++
	}
}

func drawMenu(c *canvas, items []menuItem, r platform.Rect) {
	for y := r.Y; y < r.Y+r.Height; y++ {
		c.fill(r.X, y, r.Width, styleMenu)
	}
	c.text(r.X+1, r.Y, r.Width-2, "Programs", styleMenu)
	for i, it := range items {
		label := fmt.Sprintf("%2d %s", i+1, it.title)
		c.text(r.X+1, r.Y+1+i, r.Width-2, label, styleMenu)
	}
}

func drawTaskbar(c *canvas, st shell.State) {
	row := taskbarRow(st.Viewport)
	c.fill(0, row, st.Viewport.Width, styleTaskbar)
	c.text(0, row, len(startLabel), startLabel, styleStart)

	active := make(map[shell.AppID]bool, len(st.Taskbar))
	titles := make(map[shell.AppID]string, len(st.Taskbar))
	for _, e := range st.Taskbar {
		active[e.App] = e.Active
		titles[e.App] = e.Title
	}
	for _, s := range taskbarSpans(st.Taskbar, st.Viewport.Width) {
		style := styleEntry
		if active[s.app] {
			style = styleEntryActive
		}
		c.text(s.x0, row, s.x1-s.x0, " "+titles[s.app]+" ", style)
	}
}

// wrap splits s into lines of at most width runes, breaking on spaces.
func wrap(s string, width int) []string {
	if width <= 0 || s == "" {
		return nil
	}
	var lines []string
	var line []rune
	for _, word := range strings.Fields(s) {
		wr := []rune(word)
		switch {
		case len(line) == 0:
			line = wr
		case len(line)+1+len(wr) <= width:
			line = append(append(line, ' '), wr...)
		default:
			lines = append(lines, string(line))
			line = wr
		}
		for len(line) > width {
			lines = append(lines, string(line[:width]))
			line = line[width:]
		}
	}
	if len(line) > 0 {
		lines = append(lines, string(line))
	}
	return lines
}

// Help summarizes the desktop key and mouse bindings.
const Help = "click: focus  drag titlebar: move  [_]/[x]: minimize/close  s: start menu  tab: next window  m: minimize  w: close  q: quit"
