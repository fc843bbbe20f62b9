package retry

import (
	"errors"
	"log"
	"sync"
	"time"
)

// ErrNoPendingRetry is returned when retry is requested with nothing to
// retry.
var ErrNoPendingRetry = errors.New("no transcription attempt pending retry")

// Controller owns the single pending-retry slot: the converted artifact
// of the last retryable failure. At most one artifact is ever held; a
// new occupant displaces (and disposes) the old one.
type Controller struct {
	dispose func(path string)
	hide    func()

	mu        sync.Mutex
	path      string
	createdAt time.Time
}

// New builds a controller. dispose removes an artifact file; hide
// signals the overlay to close.
func New(dispose func(path string), hide func()) *Controller {
	return &Controller{dispose: dispose, hide: hide}
}

// Hold takes ownership of a failed attempt's artifact. Any previously
// held artifact is disposed first so only one can exist.
func (c *Controller) Hold(path string) {
	c.mu.Lock()
	old := c.path
	c.path = path
	c.createdAt = time.Now()
	c.mu.Unlock()

	if old != "" && old != path {
		log.Printf("Retry: displacing stale artifact %s", old)
		c.dispose(old)
	}
}

// Pending reports whether an artifact is waiting for a retry decision.
func (c *Controller) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.path != ""
}

// HeldSince returns the hold timestamp of the current occupant, zero if
// the slot is empty.
func (c *Controller) HeldSince() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.createdAt
}

// Take clears the slot and returns the held path. Clearing before the
// re-attempt guarantees the path never has two owners, even if the
// retry crashes midway.
func (c *Controller) Take() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.path == "" {
		return "", ErrNoPendingRetry
	}
	path := c.path
	c.path = ""
	c.createdAt = time.Time{}
	return path, nil
}

// Cancel disposes any held artifact, clears the slot and signals the
// overlay to hide. Safe to call with an empty slot; the hide signal is
// sent unconditionally.
func (c *Controller) Cancel() {
	c.Discard()
	c.hide()
}

// Discard disposes any held artifact and clears the slot without
// touching the overlay. Used when a new recording displaces an
// unretried failure.
func (c *Controller) Discard() {
	c.mu.Lock()
	path := c.path
	c.path = ""
	c.createdAt = time.Time{}
	c.mu.Unlock()

	if path != "" {
		c.dispose(path)
	}
}

// Shutdown disposes any held artifact before process exit. No artifact
// may outlive the process.
func (c *Controller) Shutdown() {
	c.Discard()
}
