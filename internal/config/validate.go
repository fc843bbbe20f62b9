package config

import "fmt"

func (c *Config) Validate() error {
	if c.Recording.SampleRate <= 0 {
		return fmt.Errorf("invalid recording.sample_rate: %d", c.Recording.SampleRate)
	}
	if c.Recording.Channels <= 0 {
		return fmt.Errorf("invalid recording.channels: %d", c.Recording.Channels)
	}
	if c.Recording.BufferSize <= 0 {
		return fmt.Errorf("invalid recording.buffer_size: %d", c.Recording.BufferSize)
	}
	if c.Recording.Format == "" {
		return fmt.Errorf("invalid recording.format: empty")
	}
	if c.Recording.Timeout <= 0 {
		return fmt.Errorf("invalid recording.timeout: %v", c.Recording.Timeout)
	}

	if c.Conversion.Bitrate == "" {
		return fmt.Errorf("invalid conversion.bitrate: empty")
	}
	if c.Conversion.SilenceThreshold == "" {
		return fmt.Errorf("invalid conversion.silence_threshold: empty")
	}
	if c.Conversion.SilenceMinDuration <= 0 {
		return fmt.Errorf("invalid conversion.silence_min_duration: %v", c.Conversion.SilenceMinDuration)
	}

	switch c.Transcription.Provider {
	case "openai":
		if c.APIKey() == "" {
			return fmt.Errorf("OpenAI API key required: not found in config (providers.openai.api_key) or environment variable (OPENAI_API_KEY)")
		}
	case "groq":
		if c.APIKey() == "" {
			return fmt.Errorf("Groq API key required: not found in config (providers.groq.api_key) or environment variable (GROQ_API_KEY)")
		}
	case "":
		return fmt.Errorf("invalid transcription.provider: empty")
	default:
		return fmt.Errorf("unsupported transcription.provider: %s", c.Transcription.Provider)
	}

	if c.Transcription.Model == "" {
		return fmt.Errorf("invalid transcription.model: empty")
	}

	if len(c.Injection.PasteBackends) == 0 {
		return fmt.Errorf("invalid injection.paste_backends: empty")
	}
	for _, b := range c.Injection.PasteBackends {
		if b != "ydotool" && b != "wtype" {
			return fmt.Errorf("invalid injection.paste_backends entry: %s", b)
		}
	}
	switch c.Injection.ClipboardBackend {
	case "auto", "wl-clipboard", "native":
	default:
		return fmt.Errorf("invalid injection.clipboard_backend: %s", c.Injection.ClipboardBackend)
	}
	if c.Injection.PasteTimeout <= 0 {
		return fmt.Errorf("invalid injection.paste_timeout: %v", c.Injection.PasteTimeout)
	}
	if c.Injection.ClipboardTimeout <= 0 {
		return fmt.Errorf("invalid injection.clipboard_timeout: %v", c.Injection.ClipboardTimeout)
	}

	if c.Overlay.CommandTimeout <= 0 {
		return fmt.Errorf("invalid overlay.command_timeout: %v", c.Overlay.CommandTimeout)
	}

	switch c.Notifications.Type {
	case "desktop", "log", "none", "":
	default:
		return fmt.Errorf("invalid notifications.type: %s", c.Notifications.Type)
	}

	return nil
}
