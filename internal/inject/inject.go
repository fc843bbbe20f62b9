package inject

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	Copy(ctx context.Context, text string) error
}

// Paster places text into the foreground window. It must only be
// invoked after the overlay stopped holding focus.
type Paster interface {
	Paste(ctx context.Context, text string) error
}

// PasteBackend is one concrete paste mechanism.
type PasteBackend interface {
	Name() string
	Available() error
	Paste(ctx context.Context, text string, timeout time.Duration) error
}

type Config struct {
	PasteBackends    []string
	ClipboardBackend string // "auto", "wl-clipboard", "native"
	PasteTimeout     time.Duration
	ClipboardTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		PasteBackends:    []string{"ydotool", "wtype"},
		ClipboardBackend: "auto",
		PasteTimeout:     5 * time.Second,
		ClipboardTimeout: 3 * time.Second,
	}
}

// Injector combines a clipboard backend with an ordered chain of paste
// backends. The first available backend wins.
type Injector struct {
	clipboard Clipboard
	backends  []PasteBackend
	timeout   time.Duration
}

func NewInjector(config Config) (*Injector, error) {
	clip, err := newClipboard(config.ClipboardBackend, config.ClipboardTimeout)
	if err != nil {
		return nil, err
	}

	var backends []PasteBackend
	for _, name := range config.PasteBackends {
		switch name {
		case "ydotool":
			backends = append(backends, &ydotoolBackend{})
		case "wtype":
			backends = append(backends, &wtypeBackend{})
		default:
			return nil, fmt.Errorf("unsupported paste backend: %s", name)
		}
	}
	if len(backends) == 0 {
		return nil, fmt.Errorf("no paste backends configured")
	}

	return &Injector{
		clipboard: clip,
		backends:  backends,
		timeout:   config.PasteTimeout,
	}, nil
}

func (i *Injector) Copy(ctx context.Context, text string) error {
	return i.clipboard.Copy(ctx, text)
}

// Paste tries each configured backend in order, skipping unavailable
// ones. Failure of an available backend is final: the caller already
// has the text on the clipboard and a different mechanism retrying the
// same insertion would double-type on flaky setups.
func (i *Injector) Paste(ctx context.Context, text string) error {
	var lastErr error
	for _, b := range i.backends {
		if err := b.Available(); err != nil {
			log.Printf("Inject: backend %s unavailable: %v", b.Name(), err)
			lastErr = err
			continue
		}
		if err := b.Paste(ctx, text, i.timeout); err != nil {
			return fmt.Errorf("%s: %w", b.Name(), err)
		}
		return nil
	}
	return fmt.Errorf("no usable paste backend: %w", lastErr)
}
