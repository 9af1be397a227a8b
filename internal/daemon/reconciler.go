package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/1broseidon/deskshell/internal/platform"
	"github.com/1broseidon/deskshell/internal/shell"
)

// SizeSource reports the current usable viewport.
type SizeSource func() (platform.Size, error)

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
	// OnResize is called after the shell adopted a new viewport.
	OnResize func(platform.Size)
}

// Reconciler periodically compares the display's usable area with the shell
// viewport and resizes the shell when they drift apart, e.g. after a monitor
// change.
type Reconciler struct {
	interval time.Duration
	loop     *shell.Loop
	size     SizeSource
	onResize func(platform.Size)
	logger   *slog.Logger
}

// NewReconciler creates a reconciler driving loop from size.
func NewReconciler(cfg ReconcilerConfig, loop *shell.Loop, size SizeSource) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Reconciler{
		interval: interval,
		loop:     loop,
		size:     size,
		onResize: cfg.OnResize,
		logger:   logger,
	}
}

// Run starts the reconciliation loop. Blocks until context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reconciler started", "interval", r.interval)
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return
		case <-ticker.C:
			r.reconcile(ctx)
		}
	}
}

// ReconcileNow triggers an immediate reconciliation pass and reports whether
// the viewport changed.
func (r *Reconciler) ReconcileNow(ctx context.Context) bool {
	return r.reconcile(ctx)
}

func (r *Reconciler) reconcile(ctx context.Context) (changed bool) {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("reconciler panic recovered", "error", err)
		}
	}()

	size, err := r.size()
	if err != nil {
		r.logger.Warn("reconciler: failed to read viewport", "error", err)
		return false
	}
	if size.Width <= 0 || size.Height <= 0 {
		return false
	}

	err = r.loop.Do(ctx, func(sh *shell.Shell) {
		if sh.Viewport() == size {
			return
		}
		r.logger.Info("viewport changed", "from", sh.Viewport(), "to", size)
		sh.Resize(size)
		changed = true
	})
	if err != nil {
		r.logger.Warn("reconciler: shell unavailable", "error", err)
		return false
	}
	if changed && r.onResize != nil {
		r.onResize(size)
	}
	return changed
}
