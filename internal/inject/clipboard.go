package inject

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/atotto/clipboard"
)

func newClipboard(backend string, timeout time.Duration) (Clipboard, error) {
	switch backend {
	case "wl-clipboard":
		return &wlClipboard{timeout: timeout}, nil
	case "native":
		return nativeClipboard{}, nil
	case "auto", "":
		if os.Getenv("WAYLAND_DISPLAY") != "" && checkWlClipboardAvailable() == nil {
			return &wlClipboard{timeout: timeout}, nil
		}
		return nativeClipboard{}, nil
	default:
		return nil, fmt.Errorf("unsupported clipboard backend: %s", backend)
	}
}

// wlClipboard copies via wl-copy, the native mechanism on Wayland.
type wlClipboard struct {
	timeout time.Duration
}

func (c *wlClipboard) Copy(ctx context.Context, text string) error {
	if err := checkWlClipboardAvailable(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "wl-copy")
	cmd.Stdin = strings.NewReader(text)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("wl-copy failed: %w", err)
	}
	return nil
}

func checkWlClipboardAvailable() error {
	if _, err := exec.LookPath("wl-copy"); err != nil {
		return fmt.Errorf("wl-copy not found: %w (install wl-clipboard)", err)
	}
	return nil
}

// nativeClipboard uses the pure-Go clipboard (xclip/xsel on X11) for
// sessions without wl-clipboard.
type nativeClipboard struct{}

func (nativeClipboard) Copy(ctx context.Context, text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("clipboard write failed: %w", err)
	}
	return nil
}
