package notify

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"
)

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	n := Log{}

	t.Run("RecordingStarted", func(t *testing.T) {
		buf.Reset()
		n.RecordingStarted()
		if !strings.Contains(buf.String(), "recording started") {
			t.Errorf("unexpected log output: %s", buf.String())
		}
	})

	t.Run("Transcribed", func(t *testing.T) {
		buf.Reset()
		n.Transcribed(42)
		if !strings.Contains(buf.String(), "42 characters") {
			t.Errorf("unexpected log output: %s", buf.String())
		}
	})

	t.Run("Error", func(t *testing.T) {
		buf.Reset()
		n.Error("boom")
		if !strings.Contains(buf.String(), "boom") {
			t.Errorf("unexpected log output: %s", buf.String())
		}
	})
}

func TestNopNotifier(t *testing.T) {
	n := Nop{}
	n.RecordingStarted()
	n.Processing()
	n.Transcribed(0)
	n.Aborted()
	n.Error("ignored")
}

func TestForType(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		typ     string
		want    Notifier
	}{
		{"disabled", false, "desktop", Nop{}},
		{"log type", true, "log", Log{}},
		{"none type", true, "none", Nop{}},
		{"desktop type", true, "desktop", Desktop{}},
		{"empty type defaults to desktop", true, "", Desktop{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ForType(tt.enabled, tt.typ); got != tt.want {
				t.Errorf("ForType(%v, %q) = %T, want %T", tt.enabled, tt.typ, got, tt.want)
			}
		})
	}
}
