package transcribe

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/nodesman/voice-recorder/internal/inject"
	"github.com/nodesman/voice-recorder/internal/overlay"
)

// Operation performs exactly one upload+transcribe+deliver attempt on a
// converted artifact. It never touches the artifact file's lifecycle;
// the caller owns the path on every outcome.
type Operation struct {
	uploader Uploader
	clip     inject.Clipboard
	paster   inject.Paster
	window   overlay.Window
}

func NewOperation(uploader Uploader, clip inject.Clipboard, paster inject.Paster, window overlay.Window) *Operation {
	return &Operation{
		uploader: uploader,
		clip:     clip,
		paster:   paster,
		window:   window,
	}
}

// Attempt runs one attempt against the artifact at path.
func (o *Operation) Attempt(ctx context.Context, path string) Result {
	if _, err := os.Stat(path); err != nil {
		// Nothing left to retry with.
		return Result{
			Outcome: OutcomeTerminal,
			Message: fmt.Sprintf("recording artifact is gone (%v); please record again", err),
		}
	}

	text, err := o.uploader.Transcribe(ctx, path)
	if err != nil {
		if isRetryable(err) {
			return Result{
				Outcome: OutcomeRetryable,
				Message: fmt.Sprintf("transcription service unavailable: %v", err),
			}
		}
		return Result{
			Outcome: OutcomeTerminal,
			Message: fmt.Sprintf("transcription failed: %v", err),
		}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		log.Printf("Transcribe: empty transcription, skipping delivery")
		return Result{Outcome: OutcomeEmpty}
	}

	if err := o.clip.Copy(ctx, text); err != nil {
		return Result{
			Outcome: OutcomeTerminal,
			Message: fmt.Sprintf("could not copy text to clipboard: %v", err),
			Text:    text,
		}
	}

	// The paste must not land in the overlay; hide it first.
	o.window.Hide(ctx)

	if err := o.paster.Paste(ctx, text); err != nil {
		return Result{
			Outcome: OutcomeTerminal,
			Message: fmt.Sprintf("paste failed: %v; the transcribed text remains on the clipboard, paste it manually", err),
			Text:    text,
		}
	}

	return Result{Outcome: OutcomeSuccess, Text: text}
}
