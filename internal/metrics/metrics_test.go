package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/deskshell/internal/platform"
	"github.com/1broseidon/deskshell/internal/shell"
)

func newObservedShell(t *testing.T, m *Metrics, hooks *shell.HookTable) *shell.Shell {
	t.Helper()
	return shell.New(shell.Options{
		Viewport: platform.Size{Width: 800, Height: 600},
		Descriptors: map[shell.AppID]shell.Descriptor{
			"notepad": {Title: "GemNotes"},
			"paint":   {Title: "GemPaint"},
		},
		Hooks:     hooks,
		Observers: []shell.Observer{m},
		Random:    func() float64 { return 0 },
	})
}

func TestWindowGauges(t *testing.T) {
	m := New()
	sh := newObservedShell(t, m, nil)

	sh.Lifecycle.Open("notepad")
	sh.Lifecycle.Open("paint")
	sh.Lifecycle.Minimize("paint")
	assert.Equal(t, 2.0, testutil.ToFloat64(m.WindowsOpen))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WindowsHidden))

	sh.Lifecycle.TaskbarClick("paint")
	assert.Equal(t, 0.0, testutil.ToFloat64(m.WindowsHidden))

	sh.Lifecycle.Minimize("notepad")
	sh.Lifecycle.Close("notepad")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WindowsOpen))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.WindowsHidden))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Events.WithLabelValues("opened")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Events.WithLabelValues("closed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Events.WithLabelValues("restored")))
}

func TestHookFailuresAndResolution(t *testing.T) {
	m := New()
	hooks := shell.NewHookTable()
	hooks.Register("paint", shell.Hooks{
		OnFirstOpen: func(*shell.Lifetime, shell.Window) error { panic("canvas") },
	})
	sh := newObservedShell(t, m, hooks)

	sh.Lifecycle.Open("paint")
	sh.Lifecycle.Open("doom")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HookFailures.WithLabelValues("paint")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Events.WithLabelValues("resolution_failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WindowsOpen))
}

func TestDragDuration(t *testing.T) {
	m := New()
	clock := time.Unix(100, 0)
	m.now = func() time.Time { return clock }
	sh := newObservedShell(t, m, nil)

	sh.Lifecycle.Open("notepad")
	require.True(t, sh.Drag.PointerDown("notepad", shell.Point{X: 30, Y: 25}, shell.RegionTitleBar))
	clock = clock.Add(300 * time.Millisecond)
	sh.Drag.PointerUp()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Events.WithLabelValues("drag_ended")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "deskshell_drag_duration_seconds_count 1")
	assert.Contains(t, rec.Body.String(), "deskshell_drag_duration_seconds_sum 0.3")
}

func TestHandler(t *testing.T) {
	m := New()
	sh := newObservedShell(t, m, nil)
	sh.Lifecycle.Open("notepad")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	assert.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(body, "deskshell_windows_open 1"), body)
	assert.Contains(t, body, `deskshell_events_total{kind="opened"} 1`)
	assert.Contains(t, body, "deskshell_uptime_seconds")
}
