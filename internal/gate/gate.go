package gate

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"

	"github.com/nodesman/voice-recorder/internal/overlay"
	"github.com/nodesman/voice-recorder/internal/session"
)

// Action is what one activation decided to do.
type Action string

const (
	ActionDropped   Action = "dropped"
	ActionCancelled Action = "cancelled"
	ActionFinishing Action = "finishing"
	ActionStarted   Action = "started"
	ActionFailed    Action = "failed"
)

// Controller is the slice of the state machine the gate drives.
type Controller interface {
	RetryPending() bool
	CancelPending(ctx context.Context)
	Stop(ctx context.Context, save bool)
	StartRecording(ctx context.Context) error
}

// Gate serializes global-hotkey activations. Exactly one decision can
// be in flight: a press landing while the lock is held is dropped, not
// queued, so rapid repeats cannot double-start or double-stop.
type Gate struct {
	machine Controller
	window  overlay.Window
	busy    atomic.Bool
}

func New(machine Controller, window overlay.Window) *Gate {
	return &Gate{machine: machine, window: window}
}

// Activate handles one hotkey press. The lock is released once the
// decided action has been dispatched; completion of asynchronous work
// is not awaited.
func (g *Gate) Activate(ctx context.Context) Action {
	if !g.busy.CompareAndSwap(false, true) {
		log.Printf("Gate: activation dropped, previous press still dispatching")
		return ActionDropped
	}
	defer g.busy.Store(false)

	// Decision priority: pending retry beats everything; an active
	// overlay means finish-and-process, never discard.
	switch {
	case g.machine.RetryPending():
		g.machine.CancelPending(ctx)
		return ActionCancelled

	case g.window.Visible():
		g.machine.Stop(ctx, true)
		return ActionFinishing

	default:
		if err := g.show(ctx); err != nil {
			log.Printf("Gate: could not show overlay: %v", err)
			return ActionFailed
		}
		if err := g.machine.StartRecording(ctx); err != nil {
			g.window.Hide(ctx)
			if errors.Is(err, session.ErrBusy) {
				// Press landed after the overlay hid pre-paste but
				// before the attempt finished.
				log.Printf("Gate: activation dropped, attempt still in flight")
				return ActionDropped
			}
			return ActionFailed
		}
		return ActionStarted
	}
}

// show presents the overlay without stealing focus, recreating the
// window once if the first attempt fails.
func (g *Gate) show(ctx context.Context) error {
	err := g.window.ShowWithoutFocus(ctx)
	if err == nil {
		return nil
	}

	log.Printf("Gate: overlay show failed (%v), recreating", err)
	if rerr := g.window.Recreate(ctx); rerr != nil {
		return fmt.Errorf("recreate overlay: %w", rerr)
	}
	return g.window.ShowWithoutFocus(ctx)
}
