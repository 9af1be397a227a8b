// Package daemon runs a desktop shell in the background: the shell loop, the
// IPC server clients drive it through, the viewport reconciler and the
// metrics endpoint.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/1broseidon/deskshell/internal/apps"
	"github.com/1broseidon/deskshell/internal/config"
	"github.com/1broseidon/deskshell/internal/ipc"
	"github.com/1broseidon/deskshell/internal/metrics"
	"github.com/1broseidon/deskshell/internal/platform"
	"github.com/1broseidon/deskshell/internal/shell"
)

// Options configures a Daemon.
type Options struct {
	Config *config.Config
	// Backend is queried for the viewport when viewport.auto is set. Nil
	// keeps the configured size.
	Backend platform.Backend
	// SocketPath overrides the default IPC socket.
	SocketPath        string
	ReconcileInterval time.Duration
	Apps              apps.Options
	Logger            *slog.Logger
}

// Daemon owns one shell and everything serving it.
type Daemon struct {
	cfg        *config.Config
	logger     *slog.Logger
	loop       *shell.Loop
	catalog    *apps.Catalog
	metrics    *metrics.Metrics
	server     *ipc.Server
	reconciler *Reconciler
	metricsSrv *http.Server
}

// New builds a daemon. Nothing is started until Run.
func New(opts Options) (*Daemon, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	viewport := ResolveViewport(cfg, opts.Backend, logger)
	catalog := apps.FromConfig(cfg, opts.Apps)
	m := metrics.New()

	shellOpts := apps.ShellOptions(cfg, catalog, viewport, logger.With("component", "shell"))
	shellOpts.Observers = []shell.Observer{m}
	loop := shell.NewLoop(shellOpts)

	server, err := ipc.NewServer(loop, ipc.ServerOptions{
		SocketPath: opts.SocketPath,
		Apps:       catalog,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	d := &Daemon{
		cfg:     cfg,
		logger:  logger,
		loop:    loop,
		catalog: catalog,
		metrics: m,
		server:  server,
	}
	if cfg.Viewport.Auto && opts.Backend != nil {
		backend := opts.Backend
		d.reconciler = NewReconciler(ReconcilerConfig{
			Interval: opts.ReconcileInterval,
			Logger:   logger.With("component", "reconciler"),
			OnResize: catalog.Resizes().Notify,
		}, loop, func() (platform.Size, error) {
			return platform.Viewport(backend)
		})
	}
	return d, nil
}

// ResolveViewport returns the usable size of the active display when
// viewport.auto is set and a backend is available, and the configured size
// otherwise.
func ResolveViewport(cfg *config.Config, backend platform.Backend, logger *slog.Logger) platform.Size {
	fallback := platform.Size{Width: cfg.Viewport.Width, Height: cfg.Viewport.Height}
	if !cfg.Viewport.Auto || backend == nil {
		return fallback
	}
	size, err := platform.Viewport(backend)
	if err != nil {
		logger.Warn("viewport detection failed, using configured size", "error", err, "size", fallback)
		return fallback
	}
	return size
}

// Loop returns the shell loop.
func (d *Daemon) Loop() *shell.Loop { return d.loop }

// Catalog returns the application catalog.
func (d *Daemon) Catalog() *apps.Catalog { return d.catalog }

// Metrics returns the lifecycle metrics.
func (d *Daemon) Metrics() *metrics.Metrics { return d.metrics }

// SocketPath returns the IPC socket path.
func (d *Daemon) SocketPath() string { return d.server.SocketPath() }

// Run serves until ctx is cancelled, then closes every open application and
// shuts down.
func (d *Daemon) Run(ctx context.Context) error {
	loopCtx, stopLoop := context.WithCancel(context.Background())
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		_ = d.loop.Run(loopCtx)
	}()
	defer func() {
		stopLoop()
		<-loopDone
	}()

	if err := d.server.Start(); err != nil {
		return err
	}
	defer d.server.Stop()

	if d.cfg.MetricsAddr != "" {
		if err := d.startMetrics(); err != nil {
			return err
		}
		defer d.stopMetrics()
	}

	if d.reconciler != nil {
		go d.reconciler.Run(ctx)
	}

	d.logger.Info("deskshell daemon started", "socket", d.server.SocketPath(), "apps", len(d.catalog.IDs()))
	<-ctx.Done()
	d.logger.Info("shutting down deskshell daemon")

	d.closeAll()
	return nil
}

// closeAll closes every open window so application resources are released.
func (d *Daemon) closeAll() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := d.loop.Do(ctx, func(sh *shell.Shell) {
		for _, id := range sh.Registry().IDs() {
			sh.Lifecycle.Close(id)
		}
	})
	if err != nil {
		d.logger.Warn("failed to close applications", "error", err)
	}
}

func (d *Daemon) startMetrics() error {
	ln, err := net.Listen("tcp", d.cfg.MetricsAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on metrics_addr: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", d.metrics.Handler())
	d.metricsSrv = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := d.metricsSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			d.logger.Error("metrics server failed", "error", err)
		}
	}()
	d.logger.Info("metrics listening", "addr", ln.Addr().String())
	return nil
}

func (d *Daemon) stopMetrics() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := d.metricsSrv.Shutdown(ctx); err != nil {
		d.logger.Warn("metrics shutdown failed", "error", err)
	}
}
