package config

import "time"

type Config struct {
	Recording     RecordingConfig           `toml:"recording"`
	Conversion    ConversionConfig          `toml:"conversion"`
	Transcription TranscriptionConfig       `toml:"transcription"`
	Injection     InjectionConfig           `toml:"injection"`
	Overlay       OverlayConfig             `toml:"overlay"`
	Notifications NotificationsConfig       `toml:"notifications"`
	Providers     map[string]ProviderConfig `toml:"providers"`
}

// ProviderConfig holds the API key for a transcription provider.
type ProviderConfig struct {
	APIKey string `toml:"api_key"`
}

type RecordingConfig struct {
	SampleRate int           `toml:"sample_rate"`
	Channels   int           `toml:"channels"`
	Format     string        `toml:"format"`
	Device     string        `toml:"device"`
	BufferSize int           `toml:"buffer_size"`
	Timeout    time.Duration `toml:"timeout"`
}

// ConversionConfig controls the ffmpeg transcode and silence trim.
type ConversionConfig struct {
	Bitrate            string  `toml:"bitrate"`
	SilenceThreshold   string  `toml:"silence_threshold"`
	SilenceMinDuration float64 `toml:"silence_min_duration"`
}

type TranscriptionConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	Language string `toml:"language"`
	BaseURL  string `toml:"base_url"`
}

type InjectionConfig struct {
	PasteBackends    []string      `toml:"paste_backends"`
	ClipboardBackend string        `toml:"clipboard_backend"` // "auto", "wl-clipboard", "native"
	PasteTimeout     time.Duration `toml:"paste_timeout"`
	ClipboardTimeout time.Duration `toml:"clipboard_timeout"`
}

// OverlayConfig names the external commands driving the recorder overlay.
// Empty command lists disable the overlay (state is still tracked).
type OverlayConfig struct {
	ShowCommand        []string      `toml:"show_command"`
	ShowNoFocusCommand []string      `toml:"show_no_focus_command"`
	HideCommand        []string      `toml:"hide_command"`
	RecreateCommand    []string      `toml:"recreate_command"`
	CommandTimeout     time.Duration `toml:"command_timeout"`
}

type NotificationsConfig struct {
	Enabled bool   `toml:"enabled"`
	Type    string `toml:"type"` // "desktop", "log", "none"
}
