package convert

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// ErrToolNotFound means ffmpeg is not installed. This is terminal and
// surfaced to the user; retrying cannot help.
var ErrToolNotFound = errors.New("ffmpeg not found (install ffmpeg)")

// Error wraps a failed conversion of one specific input. The recording
// has to be redone; the attempt is not retryable.
type Error struct {
	Output string
	Err    error
}

func (e *Error) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("conversion failed: %v: %s", e.Err, e.Output)
	}
	return fmt.Sprintf("conversion failed: %v", e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Config holds the fixed transcode and silence-trim parameters. The raw
// input format fields must match what the capture layer produced.
type Config struct {
	SampleRate         int
	Channels           int
	Bitrate            string
	SilenceThreshold   string
	SilenceMinDuration float64
}

// Result describes one finished conversion. Silent means trimming
// removed all content; the output file exists but is zero bytes, which
// is a success-shaped outcome with nothing to transcribe.
type Result struct {
	Path        string
	InputBytes  int64
	OutputBytes int64
	Silent      bool
}

// Reduction returns the size reduction in percent.
func (r Result) Reduction() float64 {
	if r.InputBytes == 0 {
		return 0
	}
	return 100 * (1 - float64(r.OutputBytes)/float64(r.InputBytes))
}

type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

// Converter transcodes raw PCM captures into compact, silence-trimmed
// Opus files via ffmpeg.
type Converter struct {
	config   Config
	run      runFunc
	look     func(file string) (string, error)
	progress func(Result)
}

func New(config Config) *Converter {
	return &Converter{
		config: config,
		run: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, name, args...).CombinedOutput()
		},
		look: exec.LookPath,
		progress: func(r Result) {
			log.Printf("Convert: %d -> %d bytes (%.1f%% reduction)",
				r.InputBytes, r.OutputBytes, r.Reduction())
		},
	}
}

// OnProgress replaces the size-telemetry callback.
func (c *Converter) OnProgress(fn func(Result)) {
	if fn != nil {
		c.progress = fn
	}
}

// Convert transcodes rawPath into outPath. The caller owns both paths.
func (c *Converter) Convert(ctx context.Context, rawPath, outPath string) (Result, error) {
	if _, err := c.look("ffmpeg"); err != nil {
		return Result{}, ErrToolNotFound
	}

	in, err := os.Stat(rawPath)
	if err != nil {
		return Result{}, &Error{Err: fmt.Errorf("stat input: %w", err)}
	}

	args := c.buildArgs(rawPath, outPath)
	out, err := c.run(ctx, "ffmpeg", args...)
	if err != nil {
		return Result{}, &Error{Output: strings.TrimSpace(string(out)), Err: err}
	}

	st, err := os.Stat(outPath)
	if err != nil {
		return Result{}, &Error{Err: fmt.Errorf("output not produced: %w", err)}
	}

	result := Result{
		Path:        outPath,
		InputBytes:  in.Size(),
		OutputBytes: st.Size(),
		Silent:      st.Size() == 0,
	}
	c.progress(result)

	return result, nil
}

// buildArgs assembles the ffmpeg invocation: raw s16le input, head and
// tail silence removed, Opus output. The areverse pair trims the tail by
// trimming the head of the reversed stream.
func (c *Converter) buildArgs(rawPath, outPath string) []string {
	trim := fmt.Sprintf("silenceremove=start_periods=1:start_threshold=%s:start_duration=%s",
		c.config.SilenceThreshold,
		strconv.FormatFloat(c.config.SilenceMinDuration, 'f', -1, 64))
	filter := strings.Join([]string{trim, "areverse", trim, "areverse"}, ",")

	return []string{
		"-hide_banner", "-loglevel", "error",
		"-f", "s16le",
		"-ar", strconv.Itoa(c.config.SampleRate),
		"-ac", strconv.Itoa(c.config.Channels),
		"-i", rawPath,
		"-af", filter,
		"-c:a", "libopus",
		"-b:a", c.config.Bitrate,
		"-y", outPath,
	}
}
