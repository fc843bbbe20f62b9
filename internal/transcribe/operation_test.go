package transcribe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/nodesman/voice-recorder/internal/overlay"
)

type fakeUploader struct {
	text string
	err  error
}

func (f *fakeUploader) Transcribe(ctx context.Context, path string) (string, error) {
	return f.text, f.err
}

type fakeClipboard struct {
	copied []string
	err    error
}

func (f *fakeClipboard) Copy(ctx context.Context, text string) error {
	if f.err != nil {
		return f.err
	}
	f.copied = append(f.copied, text)
	return nil
}

type fakePaster struct {
	pasted []string
	err    error
}

func (f *fakePaster) Paste(ctx context.Context, text string) error {
	if f.err != nil {
		return f.err
	}
	f.pasted = append(f.pasted, text)
	return nil
}

func writeArtifact(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audio.ogg")
	if err := os.WriteFile(path, []byte("opus"), 0o600); err != nil {
		t.Fatalf("failed to write artifact: %v", err)
	}
	return path
}

func TestAttempt(t *testing.T) {
	ctx := context.Background()

	t.Run("success delivers trimmed text exactly once", func(t *testing.T) {
		clip := &fakeClipboard{}
		paster := &fakePaster{}
		window := &overlay.Nop{}
		window.ShowWithoutFocus(ctx)

		op := NewOperation(&fakeUploader{text: "  hello world \n"}, clip, paster, window)
		res := op.Attempt(ctx, writeArtifact(t))

		if res.Outcome != OutcomeSuccess {
			t.Fatalf("outcome = %v, want success (%s)", res.Outcome, res.Message)
		}
		if res.Text != "hello world" {
			t.Errorf("text = %q, want trimmed", res.Text)
		}
		if len(clip.copied) != 1 || clip.copied[0] != "hello world" {
			t.Errorf("clipboard should hold the exact trimmed text: %v", clip.copied)
		}
		if len(paster.pasted) != 1 {
			t.Errorf("paste should be invoked exactly once, got %d", len(paster.pasted))
		}
		if window.Visible() {
			t.Error("overlay must be hidden before pasting")
		}
	})

	t.Run("empty transcription skips delivery", func(t *testing.T) {
		clip := &fakeClipboard{}
		paster := &fakePaster{}

		op := NewOperation(&fakeUploader{text: "   \n\t "}, clip, paster, &overlay.Nop{})
		res := op.Attempt(ctx, writeArtifact(t))

		if res.Outcome != OutcomeEmpty {
			t.Fatalf("outcome = %v, want empty", res.Outcome)
		}
		if len(clip.copied) != 0 || len(paster.pasted) != 0 {
			t.Error("empty result must not touch clipboard or paste")
		}
	})

	t.Run("missing artifact is terminal", func(t *testing.T) {
		op := NewOperation(&fakeUploader{}, &fakeClipboard{}, &fakePaster{}, &overlay.Nop{})
		res := op.Attempt(ctx, "/nonexistent/audio.ogg")

		if res.Outcome != OutcomeTerminal {
			t.Fatalf("outcome = %v, want terminal", res.Outcome)
		}
	})

	t.Run("503 is retryable", func(t *testing.T) {
		up := &fakeUploader{err: &openai.APIError{HTTPStatusCode: 503, Message: "unavailable"}}
		op := NewOperation(up, &fakeClipboard{}, &fakePaster{}, &overlay.Nop{})

		res := op.Attempt(ctx, writeArtifact(t))
		if res.Outcome != OutcomeRetryable {
			t.Fatalf("outcome = %v, want retryable", res.Outcome)
		}
		if res.Message == "" {
			t.Error("retryable failure should carry a message")
		}
	})

	t.Run("401 is terminal", func(t *testing.T) {
		up := &fakeUploader{err: &openai.APIError{HTTPStatusCode: 401, Message: "bad key"}}
		op := NewOperation(up, &fakeClipboard{}, &fakePaster{}, &overlay.Nop{})

		res := op.Attempt(ctx, writeArtifact(t))
		if res.Outcome != OutcomeTerminal {
			t.Fatalf("outcome = %v, want terminal", res.Outcome)
		}
	})

	t.Run("clipboard failure is terminal without preserved-text claim", func(t *testing.T) {
		clip := &fakeClipboard{err: errors.New("no clipboard")}
		op := NewOperation(&fakeUploader{text: "hello"}, clip, &fakePaster{}, &overlay.Nop{})

		res := op.Attempt(ctx, writeArtifact(t))
		if res.Outcome != OutcomeTerminal {
			t.Fatalf("outcome = %v, want terminal", res.Outcome)
		}
		if strings.Contains(res.Message, "remains on the clipboard") {
			t.Error("clipboard failure must not claim the text is on the clipboard")
		}
	})

	t.Run("paste failure is terminal and states clipboard contents", func(t *testing.T) {
		clip := &fakeClipboard{}
		paster := &fakePaster{err: errors.New("compositor refused")}
		op := NewOperation(&fakeUploader{text: "hello"}, clip, paster, &overlay.Nop{})

		res := op.Attempt(ctx, writeArtifact(t))
		if res.Outcome != OutcomeTerminal {
			t.Fatalf("outcome = %v, want terminal", res.Outcome)
		}
		if !strings.Contains(res.Message, "remains on the clipboard") {
			t.Errorf("paste failure message must state the text is on the clipboard: %q", res.Message)
		}
		if len(clip.copied) != 1 {
			t.Error("text should have been copied before the paste attempt")
		}
	})
}
