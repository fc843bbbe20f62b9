package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/nodesman/voice-recorder/internal/bus"
	"github.com/nodesman/voice-recorder/internal/config"
	"github.com/nodesman/voice-recorder/internal/daemon"
	"github.com/nodesman/voice-recorder/internal/deps"
	"github.com/nodesman/voice-recorder/internal/tui"
)

func main() {
	_ = rootCmd.Execute()
}

var rootCmd = &cobra.Command{
	Use:   "voicerec",
	Short: "Push-to-record voice dictation for Wayland",
}

func init() {
	rootCmd.AddCommand(
		serveCmd(),
		toggleCmd(),
		retryCmd(),
		cancelCmd(),
		statusCmd(),
		versionCmd(),
		stopCmd(),
		configureCmd(),
		doctorCmd(),
	)
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			if missing := deps.MissingRequired(); len(missing) > 0 {
				return fmt.Errorf("missing required tools: %s (run voicerec doctor)",
					strings.Join(missing, ", "))
			}

			manager, err := config.NewManager()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			d, err := daemon.New(manager)
			if err != nil {
				return fmt.Errorf("failed to create daemon: %w", err)
			}

			err = d.Run()
			if errors.Is(err, bus.ErrAlreadyRunning) {
				// A daemon already owns the socket. Forward a toggle so a
				// second launch while recording finishes the take instead
				// of fighting over the microphone.
				resp, sendErr := bus.SendCommand(bus.CmdToggle)
				if sendErr != nil {
					return err
				}
				fmt.Print(resp)
				return nil
			}
			return err
		},
	}
}

func toggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle",
		Short: "Start recording, or finish the current take",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := bus.SendCommand(bus.CmdToggle)
			if err != nil {
				return fmt.Errorf("failed to toggle recording: %w", err)
			}
			fmt.Print(resp)
			return nil
		},
	}
}

func retryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "retry",
		Short: "Retry the last failed transcription",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := bus.SendCommand(bus.CmdRetry)
			if err != nil {
				return fmt.Errorf("failed to retry: %w", err)
			}
			fmt.Print(resp)
			return nil
		},
	}
}

func cancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel",
		Short: "Discard the current recording or a pending retry",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := bus.SendCommand(bus.CmdCancel)
			if err != nil {
				return fmt.Errorf("failed to cancel: %w", err)
			}
			fmt.Print(resp)
			return nil
		},
	}
}

var (
	styleStateIdle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E"))
	styleStateBusy  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	styleStateError = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Get the daemon state",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := bus.SendCommand(bus.CmdStatus)
			if err != nil {
				return fmt.Errorf("failed to get status: %w", err)
			}
			fmt.Print(renderStatus(resp))
			return nil
		},
	}
}

// renderStatus colorizes the state field of a STATUS response. Anything
// unexpected passes through untouched.
func renderStatus(resp string) string {
	fields := strings.Fields(strings.TrimSpace(resp))
	if len(fields) < 2 || fields[0] != "STATUS" {
		return resp
	}

	for i, f := range fields[1:] {
		key, value, ok := strings.Cut(f, "=")
		if !ok || key != "state" {
			continue
		}

		switch value {
		case "idle":
			value = styleStateIdle.Render(value)
		case "recording", "processing":
			value = styleStateBusy.Render(value)
		case "error":
			value = styleStateError.Render(value)
		}
		fields[i+1] = key + "=" + value
	}

	return strings.Join(fields, " ") + "\n"
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Get protocol version",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := bus.SendCommand(bus.CmdVersion)
			if err != nil {
				return fmt.Errorf("failed to get version: %w", err)
			}
			fmt.Print(resp)
			return nil
		},
	}
}

func stopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := bus.SendCommand(bus.CmdQuit)
			if err != nil {
				return fmt.Errorf("failed to stop daemon: %w", err)
			}
			fmt.Print(resp)
			return nil
		},
	}
}

func configureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "configure",
		Short: "Interactive configuration setup",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigure()
		},
	}
}

func runConfigure() error {
	cfg, err := config.Load()
	if errors.Is(err, config.ErrConfigNotFound) {
		cfg = config.DefaultConfig()
	} else if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	result, err := tui.Run(cfg)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	if result.Cancelled {
		fmt.Println("Configuration cancelled.")
		return nil
	}

	if err := result.Config.Validate(); err != nil {
		fmt.Printf("Configuration validation failed: %v\n", err)
		return err
	}

	if err := config.Save(result.Config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	configPath, _ := config.GetConfigPath()
	fmt.Printf("Config file location: %s\n", configPath)
	return nil
}

var (
	styleOK      = lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E"))
	styleMissing = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check external tool availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := false
			for _, c := range deps.All() {
				mark := styleOK.Render("ok")
				detail := c.Status.Path
				if c.Status.Version != "" {
					detail += " (" + c.Status.Version + ")"
				}
				if !c.Status.Installed {
					mark = styleMissing.Render("missing")
					detail = "optional"
					if c.Required {
						detail = "required"
						failed = true
					}
				}
				fmt.Printf("%-12s %-8s %s\n", c.Name, mark, detail)
			}
			if failed {
				return errors.New("required tools are missing")
			}
			return nil
		},
	}
}
