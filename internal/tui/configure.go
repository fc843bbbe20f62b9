package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nodesman/voice-recorder/internal/config"
)

// Color palette for the configure flow
var (
	colorPrimary = lipgloss.Color("#7C3AED") // Purple - main accent
	colorAccent  = lipgloss.Color("#06B6D4") // Cyan - secondary accent
	colorText    = lipgloss.Color("#F8FAFC") // Bright white
	colorMuted   = lipgloss.Color("#94A3B8") // Slate gray
	colorSubtle  = lipgloss.Color("#64748B") // Darker gray
	colorSuccess = lipgloss.Color("#22C55E") // Green
)

var (
	styleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			MarginBottom(1)

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorSuccess)

	styleMuted = lipgloss.NewStyle().
			Foreground(colorMuted)
)

// ConfigureResult holds the configuration result from the TUI
type ConfigureResult struct {
	Config    *config.Config
	Cancelled bool
}

// AllProviders is the list of all supported providers
var AllProviders = []string{"openai", "groq"}

var providerDisplayNames = map[string]string{
	"openai": "OpenAI",
	"groq":   "Groq",
}

// Run starts the interactive configuration flow. The passed config is
// mutated in place; the caller decides whether to save it.
func Run(cfg *config.Config) (*ConfigureResult, error) {
	fmt.Println(styleHeader.Render("voicerec configuration"))

	provider := cfg.Transcription.Provider
	model := cfg.Transcription.Model
	language := cfg.Transcription.Language
	apiKey := ""
	backends := cfg.Injection.PasteBackends
	notifType := cfg.Notifications.Type
	confirm := true

	providerOptions := make([]huh.Option[string], 0, len(AllProviders))
	for _, name := range AllProviders {
		providerOptions = append(providerOptions, huh.NewOption(providerDisplayNames[name], name))
	}

	keyDescription := "Stored in the config file. Leave empty to keep the current key or use the environment variable."
	if existing := cfg.APIKey(); existing != "" {
		keyDescription = fmt.Sprintf("Current: %s. Leave empty to keep it.", maskKey(existing))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Transcription Provider").
				Description("Groq uses the same API shape with a different endpoint").
				Options(providerOptions...).
				Value(&provider),

			huh.NewInput().
				Title("API Key").
				Description(keyDescription).
				EchoMode(huh.EchoModePassword).
				Value(&apiKey),

			huh.NewInput().
				Title("Model").
				Description("Transcription model, e.g. whisper-1").
				Validate(notEmpty("model")).
				Value(&model),

			huh.NewInput().
				Title("Language").
				Description("ISO 639-1 code, empty for auto-detect").
				Value(&language),
		),
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Paste Backends").
				Description("Tried in order; the first available one wins").
				Options(
					huh.NewOption("ydotool", "ydotool"),
					huh.NewOption("wtype", "wtype"),
				).
				Validate(atLeastOne("paste backend")).
				Value(&backends),

			huh.NewSelect[string]().
				Title("Notifications").
				Options(
					huh.NewOption("Desktop (notify-send)", "desktop"),
					huh.NewOption("Log only", "log"),
					huh.NewOption("None", "none"),
				).
				Value(&notifType),

			huh.NewConfirm().
				Title("Save configuration?").
				Affirmative("Save").
				Negative("Discard").
				Value(&confirm),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		if err == huh.ErrUserAborted {
			return &ConfigureResult{Cancelled: true}, nil
		}
		return nil, err
	}

	if !confirm {
		return &ConfigureResult{Cancelled: true}, nil
	}

	cfg.Transcription.Provider = provider
	cfg.Transcription.Model = strings.TrimSpace(model)
	cfg.Transcription.Language = strings.TrimSpace(language)
	cfg.Injection.PasteBackends = backends
	cfg.Notifications.Type = notifType
	cfg.Notifications.Enabled = notifType != "none"

	if key := strings.TrimSpace(apiKey); key != "" {
		if cfg.Providers == nil {
			cfg.Providers = make(map[string]config.ProviderConfig)
		}
		cfg.Providers[provider] = config.ProviderConfig{APIKey: key}
	}

	fmt.Println(styleSuccess.Render("Configuration updated."))
	fmt.Println(styleMuted.Render("Restart the daemon to apply structural changes."))

	return &ConfigureResult{Config: cfg}, nil
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}

func notEmpty(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s must not be empty", field)
		}
		return nil
	}
}

func atLeastOne(field string) func([]string) error {
	return func(s []string) error {
		if len(s) == 0 {
			return fmt.Errorf("select at least one %s", field)
		}
		return nil
	}
}

func getTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(colorMuted)
	t.Focused.Base = lipgloss.NewStyle().BorderForeground(colorPrimary)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(colorAccent)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(colorText)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(colorMuted)
	t.Blurred.Description = lipgloss.NewStyle().Foreground(colorSubtle)

	return t
}
