package config

import "time"

// DefaultConfig returns the initial configuration written by configure.
func DefaultConfig() *Config {
	return &Config{
		Recording: RecordingConfig{
			SampleRate: 16000,
			Channels:   1,
			Format:     "s16",
			Device:     "",
			BufferSize: 8192,
			Timeout:    5 * time.Minute,
		},
		Conversion: ConversionConfig{
			Bitrate:            "24k",
			SilenceThreshold:   "-35dB",
			SilenceMinDuration: 0.2,
		},
		Transcription: TranscriptionConfig{
			Provider: "openai",
			Model:    "whisper-1",
			Language: "",
			BaseURL:  "",
		},
		Injection: InjectionConfig{
			PasteBackends:    []string{"ydotool", "wtype"},
			ClipboardBackend: "auto",
			PasteTimeout:     5 * time.Second,
			ClipboardTimeout: 3 * time.Second,
		},
		Overlay: OverlayConfig{
			CommandTimeout: 2 * time.Second,
		},
		Notifications: NotificationsConfig{
			Enabled: true,
			Type:    "desktop",
		},
		Providers: make(map[string]ProviderConfig),
	}
}
