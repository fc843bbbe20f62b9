package overlay

import (
	"context"
	"fmt"
	"log"
	"os/exec"
	"sync"
	"time"
)

// Window is the always-on-top recorder overlay. Implementations track
// visibility themselves; the state machine never infers it.
type Window interface {
	Show(ctx context.Context) error
	// ShowWithoutFocus presents the overlay without stealing input focus
	// from the previously active window.
	ShowWithoutFocus(ctx context.Context) error
	Hide(ctx context.Context)
	Visible() bool
	// Recreate tears down and rebuilds the underlying window after a
	// failed show.
	Recreate(ctx context.Context) error
}

// Commands configures the external helper driving the overlay window.
type Commands struct {
	Show        []string
	ShowNoFocus []string
	Hide        []string
	Recreate    []string
	Timeout     time.Duration
}

// commandWindow shells out to an overlay helper (eww, hyprctl, a custom
// script). An empty command list makes the corresponding step a no-op so
// the daemon still works headless.
type commandWindow struct {
	commands Commands

	mu      sync.Mutex
	visible bool
}

func NewCommandWindow(commands Commands) Window {
	if commands.Timeout <= 0 {
		commands.Timeout = 2 * time.Second
	}
	return &commandWindow{commands: commands}
}

func (w *commandWindow) run(ctx context.Context, argv []string) error {
	if len(argv) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, w.commands.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("overlay command %s: %w (%s)", argv[0], err, string(out))
	}
	return nil
}

func (w *commandWindow) Show(ctx context.Context) error {
	if err := w.run(ctx, w.commands.Show); err != nil {
		return err
	}
	w.mu.Lock()
	w.visible = true
	w.mu.Unlock()
	return nil
}

func (w *commandWindow) ShowWithoutFocus(ctx context.Context) error {
	argv := w.commands.ShowNoFocus
	if len(argv) == 0 {
		argv = w.commands.Show
	}
	if err := w.run(ctx, argv); err != nil {
		return err
	}
	w.mu.Lock()
	w.visible = true
	w.mu.Unlock()
	return nil
}

func (w *commandWindow) Hide(ctx context.Context) {
	if err := w.run(ctx, w.commands.Hide); err != nil {
		log.Printf("Overlay: hide failed: %v", err)
	}
	w.mu.Lock()
	w.visible = false
	w.mu.Unlock()
}

func (w *commandWindow) Visible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visible
}

func (w *commandWindow) Recreate(ctx context.Context) error {
	w.mu.Lock()
	w.visible = false
	w.mu.Unlock()
	return w.run(ctx, w.commands.Recreate)
}

// Nop is an overlay that only tracks visibility. Used in tests and when
// no overlay helper is configured.
type Nop struct {
	mu      sync.Mutex
	visible bool

	ShowErr     error // returned by the next Show/ShowWithoutFocus
	RecreateErr error

	Shows     int
	Hides     int
	Recreates int
}

func (n *Nop) Show(ctx context.Context) error {
	return n.show()
}

func (n *Nop) ShowWithoutFocus(ctx context.Context) error {
	return n.show()
}

func (n *Nop) show() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Shows++
	if n.ShowErr != nil {
		err := n.ShowErr
		n.ShowErr = nil
		return err
	}
	n.visible = true
	return nil
}

func (n *Nop) Hide(ctx context.Context) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Hides++
	n.visible = false
}

func (n *Nop) Visible() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.visible
}

func (n *Nop) Recreate(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Recreates++
	return n.RecreateErr
}
