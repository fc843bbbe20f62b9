package capture

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"testing"
	"time"
)

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"zero sample rate", func(c *Config) { c.SampleRate = 0 }, true},
		{"zero channels", func(c *Config) { c.Channels = 0 }, true},
		{"zero buffer size", func(c *Config) { c.BufferSize = 0 }, true},
		{"empty format", func(c *Config) { c.Format = "" }, true},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			r := NewRecorder(cfg)

			err := r.validateConfig()
			if (err != nil) != tt.wantErr {
				t.Errorf("validateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBuildArgs(t *testing.T) {
	t.Run("default device", func(t *testing.T) {
		r := NewRecorder(DefaultConfig())
		args := strings.Join(r.buildArgs(), " ")

		for _, want := range []string{"--format s16", "--rate 16000", "--channels 1"} {
			if !strings.Contains(args, want) {
				t.Errorf("args missing %q: %s", want, args)
			}
		}
		if strings.Contains(args, "--target") {
			t.Errorf("args should not contain --target for default device: %s", args)
		}
		if !strings.HasSuffix(args, "-") {
			t.Errorf("args must end with stdout marker: %s", args)
		}
	})

	t.Run("explicit device", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Device = "alsa_input.usb-mic"
		r := NewRecorder(cfg)

		args := strings.Join(r.buildArgs(), " ")
		if !strings.Contains(args, "--target alsa_input.usb-mic") {
			t.Errorf("args missing device target: %s", args)
		}
	})
}

func TestErrorClassification(t *testing.T) {
	inner := errors.New("permission denied")
	err := &Error{Op: "acquire", Err: inner}

	if !strings.Contains(err.Error(), "acquire") {
		t.Errorf("error string should mention the op: %v", err)
	}
	if !errors.Is(err, inner) {
		t.Error("Unwrap should expose the inner error")
	}

	var capErr *Error
	if !errors.As(error(err), &capErr) {
		t.Error("errors.As should match *Error")
	}
}

func TestStopDeliversFullCapture(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	// The payload exceeds a pipe buffer, so the child is often still
	// writing when Stop runs. Stop must let the read loop reach EOF
	// before reaping the process; reaping first closes the pipe under
	// the reader and loses the tail.
	const want = 512 * 1024

	for i := 0; i < 50; i++ {
		cmd := exec.Command("sh", "-c", fmt.Sprintf("head -c %d /dev/zero", want))
		stdout, err := cmd.StdoutPipe()
		if err != nil {
			t.Fatalf("stdout pipe: %v", err)
		}
		if err := cmd.Start(); err != nil {
			t.Fatalf("start: %v", err)
		}

		s := &Session{
			ID:        "test",
			StartedAt: time.Now(),
			Format:    "s16",
			cancel:    func() {},
			cmd:       cmd,
		}
		s.wg.Add(1)
		go s.readLoop(stdout, 8192)

		data, err := s.Stop()
		if err != nil {
			t.Fatalf("iteration %d: Stop failed: %v", i, err)
		}
		if len(data) != want {
			t.Fatalf("iteration %d: got %d bytes, want %d", i, len(data), want)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.SampleRate != 16000 || cfg.Channels != 1 || cfg.Format != "s16" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Timeout != 5*time.Minute {
		t.Errorf("unexpected default timeout: %v", cfg.Timeout)
	}
}
