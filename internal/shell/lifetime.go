package shell

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Lifetime is one open lifetime of an application: from the Open that created
// its record to the Close that removed it. Hooks receive it to scope their
// asynchronous work.
type Lifetime struct {
	id     string
	app    AppID
	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger
	wg     sync.WaitGroup

	// report is called from worker goroutines with failures of async work.
	report func(lt *Lifetime, err error)
}

func newLifetime(app AppID, logger *slog.Logger, report func(lt *Lifetime, err error)) *Lifetime {
	ctx, cancel := context.WithCancel(context.Background())
	id := uuid.NewString()
	return &Lifetime{
		id:     id,
		app:    app,
		ctx:    ctx,
		cancel: cancel,
		logger: logger.With("app", string(app), "lifetime", id),
		report: report,
	}
}

// ID returns the unique id of this lifetime.
func (l *Lifetime) ID() string { return l.id }

// App returns the application this lifetime belongs to.
func (l *Lifetime) App() AppID { return l.app }

// Context is cancelled when the lifetime ends, right after the teardown hook.
func (l *Lifetime) Context() context.Context { return l.ctx }

// Logger returns a logger annotated with the app and lifetime ids.
func (l *Lifetime) Logger() *slog.Logger { return l.logger }

// Done reports whether the lifetime has ended.
func (l *Lifetime) Done() bool {
	return l.ctx.Err() != nil
}

// Go runs fn on a new goroutine. A non-nil error other than the lifetime's own
// cancellation is reported as a hook failure against this lifetime.
func (l *Lifetime) Go(fn func(ctx context.Context) error) {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		err := l.runAsync(fn)
		if err == nil || l.ctx.Err() != nil {
			return
		}
		if l.report != nil {
			l.report(l, err)
		}
	}()
}

func (l *Lifetime) runAsync(fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(l.ctx)
}

// Wait blocks until every goroutine started with Go has returned.
func (l *Lifetime) Wait() {
	l.wg.Wait()
}

func (l *Lifetime) end() {
	l.cancel()
}
