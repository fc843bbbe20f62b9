package notify

import (
	"fmt"
	"log"
	"os/exec"
)

// Notifier surfaces recorder lifecycle events to the user. Terminal
// failures go through Error, which uses the critical-urgency style; the
// retryable-error surface belongs to the overlay, not the notifier.
type Notifier interface {
	RecordingStarted()
	Processing()
	Transcribed(chars int)
	Aborted()
	Error(msg string)
}

// Desktop sends notifications via notify-send.
type Desktop struct{}

func (Desktop) send(args ...string) {
	args = append([]string{"-a", "voicerec"}, args...)
	if err := exec.Command("notify-send", args...).Run(); err != nil {
		log.Printf("Notify: failed to send notification: %v", err)
	}
}

func (d Desktop) RecordingStarted() {
	d.send("voicerec: recording")
}

func (d Desktop) Processing() {
	d.send("voicerec: transcribing")
}

func (d Desktop) Transcribed(chars int) {
	if chars == 0 {
		d.send("voicerec: nothing to transcribe")
		return
	}
	d.send(fmt.Sprintf("voicerec: %d characters transcribed", chars))
}

func (d Desktop) Aborted() {
	d.send("voicerec: cancelled")
}

func (d Desktop) Error(msg string) {
	d.send("-u", "critical", fmt.Sprintf("voicerec: %s", msg))
}

// Log writes notifications to the process log instead of the desktop.
type Log struct{}

func (Log) RecordingStarted()     { log.Printf("Notify: recording started") }
func (Log) Processing()           { log.Printf("Notify: transcribing") }
func (Log) Transcribed(chars int) { log.Printf("Notify: %d characters transcribed", chars) }
func (Log) Aborted()              { log.Printf("Notify: cancelled") }
func (Log) Error(msg string)      { log.Printf("Notify: error: %s", msg) }

// Nop is a Notifier that does absolutely nothing.
// Useful in unit tests or headless builds.
type Nop struct{}

func (Nop) RecordingStarted()     {}
func (Nop) Processing()           {}
func (Nop) Transcribed(chars int) {}
func (Nop) Aborted()              {}
func (Nop) Error(msg string)      {}

// ForType returns the notifier matching the configured type.
func ForType(enabled bool, typ string) Notifier {
	if !enabled {
		return Nop{}
	}
	switch typ {
	case "log":
		return Log{}
	case "none":
		return Nop{}
	default:
		return Desktop{}
	}
}
