package apps

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/1broseidon/deskshell/internal/shell"
)

// Minesweeper holds the game's elapsed-time timer. The game rules live in the
// application itself; the shell only sees the timer it must stop on close.
type Minesweeper struct {
	Rows, Cols, Mines int
	// Tick overrides the timer period, for tests.
	Tick time.Duration
}

func (m *Minesweeper) ID() shell.AppID { return "minesweeper" }

func (m *Minesweeper) Descriptor() shell.Descriptor {
	d, _ := Fallback("minesweeper")
	d.Width, d.Height = 260, 320
	return d
}

func (m *Minesweeper) Start(lt *shell.Lifetime, _ shell.Window, res *Resources) (Instance, error) {
	tick := m.Tick
	if tick <= 0 {
		tick = time.Second
	}
	inst := &minesweeperInstance{rows: m.Rows, cols: m.Cols, mines: m.Mines}

	ticker := time.NewTicker(tick)
	res.AddTicker("elapsed", ticker)
	lt.Go(func(ctx context.Context) error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				inst.elapsed.Add(1)
			}
		}
	})
	return inst, nil
}

type minesweeperInstance struct {
	rows, cols, mines int
	elapsed           atomic.Int64
}

func (i *minesweeperInstance) Status() string {
	return fmt.Sprintf("%dx%d, %d mines | %ds", i.rows, i.cols, i.mines, i.elapsed.Load())
}
