package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nodesman/voice-recorder/internal/config"
)

// TestConfig returns a valid configuration for testing
func TestConfig() *config.Config {
	return &config.Config{
		Recording: config.RecordingConfig{
			SampleRate: 16000,
			Channels:   1,
			Format:     "s16",
			BufferSize: 8192,
			Device:     "",
			Timeout:    5 * time.Minute,
		},
		Conversion: config.ConversionConfig{
			Bitrate:            "24k",
			SilenceThreshold:   "-35dB",
			SilenceMinDuration: 0.2,
		},
		Transcription: config.TranscriptionConfig{
			Provider: "openai",
			Language: "",
			Model:    "whisper-1",
		},
		Providers: map[string]config.ProviderConfig{
			"openai": {APIKey: "test-api-key"},
		},
		Injection: config.InjectionConfig{
			PasteBackends:    []string{"ydotool", "wtype"},
			ClipboardBackend: "native",
			PasteTimeout:     5 * time.Second,
			ClipboardTimeout: 3 * time.Second,
		},
		Overlay: config.OverlayConfig{
			CommandTimeout: 2 * time.Second,
		},
		Notifications: config.NotificationsConfig{
			Enabled: true,
			Type:    "log",
		},
	}
}

// CreateTempConfigFile creates a temporary config file for testing
func CreateTempConfigFile(t *testing.T, configContent string) string {
	t.Helper()

	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.toml")

	err := os.WriteFile(configPath, []byte(configContent), 0644)
	if err != nil {
		t.Fatalf("Failed to create temp config file: %v", err)
	}

	return configPath
}
