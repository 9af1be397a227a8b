package apps

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/1broseidon/deskshell/internal/platform"
	"github.com/1broseidon/deskshell/internal/shell"
)

// Critic comments on the current drawing.
type Critic func(ctx context.Context) (string, error)

var cannedCritiques = []string{
	"Warming up my judging circuits...",
	"Bold use of negative space. Perhaps too bold.",
	"I see what you did there. I think.",
	"Needs more gradients. Everything needs more gradients.",
}

// Paint is the drawing surface. While open it runs a periodic critique timer
// and observes the viewport size to resize its canvas.
type Paint struct {
	Interval time.Duration
	Critic   Critic

	resizes *ResizeHub
}

func (p *Paint) ID() shell.AppID { return "paint" }

func (p *Paint) Descriptor() shell.Descriptor {
	d, _ := Fallback("paint")
	d.Width, d.Height = 560, 420
	return d
}

func (p *Paint) Start(lt *shell.Lifetime, win shell.Window, res *Resources) (Instance, error) {
	inst := &paintInstance{}
	inst.canvas.Store(platform.Size{Width: win.Bounds.Width, Height: win.Bounds.Height})
	inst.setRemark(cannedCritiques[0])

	if p.resizes != nil {
		unsubscribe := p.resizes.Subscribe(func(size platform.Size) {
			inst.canvas.Store(size)
		})
		res.Add(KindObserver, "canvas-resize", unsubscribe)
	}

	interval := p.Interval
	if interval <= 0 {
		interval = 15 * time.Second
	}
	ticker := time.NewTicker(interval)
	res.AddTicker("critique", ticker)
	lt.Go(func(ctx context.Context) error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				n := inst.critiques.Add(1)
				if p.Critic == nil {
					inst.setRemark(cannedCritiques[int(n)%len(cannedCritiques)])
					continue
				}
				remark, err := p.Critic(ctx)
				if err != nil {
					return fmt.Errorf("critique: %w", err)
				}
				inst.setRemark(remark)
			}
		}
	})
	return inst, nil
}

type paintInstance struct {
	critiques atomic.Int64
	canvas    atomic.Value // platform.Size

	mu     sync.Mutex
	remark string
}

func (i *paintInstance) setRemark(s string) {
	i.mu.Lock()
	i.remark = s
	i.mu.Unlock()
}

func (i *paintInstance) Status() string {
	i.mu.Lock()
	remark := i.remark
	i.mu.Unlock()
	size, _ := i.canvas.Load().(platform.Size)
	return fmt.Sprintf("canvas %dx%d | %s", size.Width, size.Height, remark)
}
