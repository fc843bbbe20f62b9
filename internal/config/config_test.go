package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validTestConfig() *Config {
	c := DefaultConfig()
	c.Providers["openai"] = ProviderConfig{APIKey: "test-key"}
	return c
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()

	if c.Recording.SampleRate != 16000 {
		t.Errorf("unexpected default sample rate: %d", c.Recording.SampleRate)
	}
	if c.Conversion.SilenceThreshold != "-35dB" {
		t.Errorf("unexpected default silence threshold: %s", c.Conversion.SilenceThreshold)
	}
	if c.Transcription.Provider != "openai" {
		t.Errorf("unexpected default provider: %s", c.Transcription.Provider)
	}
	if len(c.Injection.PasteBackends) == 0 {
		t.Error("default paste backends should not be empty")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "zero sample rate",
			mutate:  func(c *Config) { c.Recording.SampleRate = 0 },
			wantErr: "sample_rate",
		},
		{
			name:    "empty format",
			mutate:  func(c *Config) { c.Recording.Format = "" },
			wantErr: "format",
		},
		{
			name:    "zero silence min duration",
			mutate:  func(c *Config) { c.Conversion.SilenceMinDuration = 0 },
			wantErr: "silence_min_duration",
		},
		{
			name: "missing api key",
			mutate: func(c *Config) {
				delete(c.Providers, "openai")
			},
			wantErr: "API key required",
		},
		{
			name:    "unsupported provider",
			mutate:  func(c *Config) { c.Transcription.Provider = "acme" },
			wantErr: "unsupported transcription.provider",
		},
		{
			name:    "empty model",
			mutate:  func(c *Config) { c.Transcription.Model = "" },
			wantErr: "model",
		},
		{
			name:    "unknown paste backend",
			mutate:  func(c *Config) { c.Injection.PasteBackends = []string{"xdotool"} },
			wantErr: "paste_backends",
		},
		{
			name:    "unknown clipboard backend",
			mutate:  func(c *Config) { c.Injection.ClipboardBackend = "telepathy" },
			wantErr: "clipboard_backend",
		},
		{
			name:    "zero overlay timeout",
			mutate:  func(c *Config) { c.Overlay.CommandTimeout = 0 },
			wantErr: "command_timeout",
		},
		{
			name:    "bad notifications type",
			mutate:  func(c *Config) { c.Notifications.Type = "carrier-pigeon" },
			wantErr: "notifications.type",
		},
	}

	// Make sure env fallback does not mask the missing key case.
	t.Setenv("OPENAI_API_KEY", "")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validTestConfig()
			tt.mutate(c)

			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestAPIKeyResolution(t *testing.T) {
	t.Run("config key wins", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "env-key")
		c := validTestConfig()
		if got := c.APIKey(); got != "test-key" {
			t.Errorf("APIKey() = %q, want config value", got)
		}
	})

	t.Run("falls back to environment", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "env-key")
		c := DefaultConfig()
		if got := c.APIKey(); got != "env-key" {
			t.Errorf("APIKey() = %q, want env value", got)
		}
	})

	t.Run("groq environment variable", func(t *testing.T) {
		t.Setenv("GROQ_API_KEY", "groq-key")
		c := DefaultConfig()
		c.Transcription.Provider = "groq"
		if got := c.APIKey(); got != "groq-key" {
			t.Errorf("APIKey() = %q, want groq env value", got)
		}
	})
}

func TestLoadFrom(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
[recording]
sample_rate = 48000

[transcription]
provider = "openai"
model = "whisper-1"

[providers.openai]
api_key = "abc123"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	c, err := loadFrom(path)
	if err != nil {
		t.Fatalf("loadFrom failed: %v", err)
	}

	if c.Recording.SampleRate != 48000 {
		t.Errorf("sample rate not overridden: %d", c.Recording.SampleRate)
	}
	// Fields absent from the file keep their defaults.
	if c.Recording.Channels != 1 {
		t.Errorf("channels should keep default: %d", c.Recording.Channels)
	}
	if c.Injection.ClipboardTimeout != 3*time.Second {
		t.Errorf("clipboard timeout should keep default: %v", c.Injection.ClipboardTimeout)
	}
	if c.Providers["openai"].APIKey != "abc123" {
		t.Errorf("provider key not loaded: %q", c.Providers["openai"].APIKey)
	}
}

func TestLoadFromInvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	if err := os.WriteFile(path, []byte("not [valid toml"), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := loadFrom(path); err == nil {
		t.Error("loadFrom should fail on invalid TOML")
	}
}
