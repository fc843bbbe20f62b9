package capture

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os/exec"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
)

// Error classifies a failed microphone acquisition or read.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("capture %s: %v", e.Op, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

type Config struct {
	SampleRate int
	Channels   int
	Format     string
	Device     string
	BufferSize int
	Timeout    time.Duration
}

func DefaultConfig() Config {
	return Config{
		SampleRate: 16000,
		Channels:   1,
		Format:     "s16",
		Device:     "",
		BufferSize: 8192,
		Timeout:    5 * time.Minute,
	}
}

// Recorder acquires the microphone via pw-record.
type Recorder struct {
	config Config
}

func NewRecorder(config Config) *Recorder {
	return &Recorder{config: config}
}

// Session is one in-progress recording: the subprocess plus the raw PCM
// accumulated so far. Bytes are append-only until Stop or Abort.
type Session struct {
	ID        string
	StartedAt time.Time
	Format    string

	cancel context.CancelFunc
	cmd    *exec.Cmd
	wg     sync.WaitGroup

	mu      sync.Mutex
	buf     bytes.Buffer
	readErr error
}

// CheckAvailable verifies that PipeWire recording works in this
// environment.
func CheckAvailable(ctx context.Context) error {
	if _, err := exec.LookPath("pw-record"); err != nil {
		return &Error{Op: "acquire", Err: fmt.Errorf("pw-record not found: %w (install pipewire-tools)", err)}
	}
	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := exec.CommandContext(checkCtx, "pw-cli", "info").Run(); err != nil {
		return &Error{Op: "acquire", Err: fmt.Errorf("PipeWire not running or accessible: %w", err)}
	}
	return nil
}

// Begin acquires the microphone and starts accumulating audio. The
// returned session must be finished with Stop or Abort.
func (r *Recorder) Begin(ctx context.Context) (*Session, error) {
	if err := r.validateConfig(); err != nil {
		return nil, &Error{Op: "acquire", Err: err}
	}
	if err := CheckAvailable(ctx); err != nil {
		return nil, err
	}

	sessionCtx, cancel := context.WithTimeout(ctx, r.config.Timeout)

	s := &Session{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		Format:    r.config.Format,
		cancel:    cancel,
	}

	cmd := exec.CommandContext(sessionCtx, "pw-record", r.buildArgs()...)
	cmd.Cancel = func() error {
		// SIGTERM lets pw-record flush instead of dropping the tail.
		return cmd.Process.Signal(syscall.SIGTERM)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, &Error{Op: "acquire", Err: fmt.Errorf("create stdout pipe: %w", err)}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		cancel()
		return nil, &Error{Op: "acquire", Err: fmt.Errorf("create stderr pipe: %w", err)}
	}

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, &Error{Op: "acquire", Err: fmt.Errorf("start pw-record: %w", err)}
	}
	s.cmd = cmd

	go func() {
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			log.Printf("Capture %s: stderr: %s", s.ID, scanner.Text())
		}
	}()

	s.wg.Add(1)
	go s.readLoop(stdout, r.config.BufferSize)

	log.Printf("Capture %s: recording started", s.ID)
	return s, nil
}

func (s *Session) readLoop(stdout io.Reader, bufferSize int) {
	defer s.wg.Done()

	buffer := make([]byte, bufferSize)
	for {
		n, err := stdout.Read(buffer)
		if n > 0 {
			s.mu.Lock()
			s.buf.Write(buffer[:n])
			s.mu.Unlock()
		}
		if err != nil {
			if err != io.EOF {
				s.mu.Lock()
				s.readErr = err
				s.mu.Unlock()
				log.Printf("Capture %s: read error: %v", s.ID, err)
			}
			return
		}
	}
}

// Stop releases the microphone and returns the accumulated bytes.
func (s *Session) Stop() ([]byte, error) {
	s.shutdown()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readErr != nil {
		return nil, &Error{Op: "read", Err: s.readErr}
	}

	data := make([]byte, s.buf.Len())
	copy(data, s.buf.Bytes())
	log.Printf("Capture %s: stopped with %d bytes", s.ID, len(data))
	return data, nil
}

// Abort releases the microphone and discards everything captured.
func (s *Session) Abort() {
	s.shutdown()
	s.mu.Lock()
	s.buf.Reset()
	s.mu.Unlock()
	log.Printf("Capture %s: aborted", s.ID)
}

func (s *Session) shutdown() {
	s.cancel()
	// Drain stdout to EOF before reaping. Wait closes the pipe the
	// moment the child exits, which would drop the tail pw-record
	// flushes on SIGTERM.
	s.wg.Wait()
	if s.cmd != nil {
		_ = s.cmd.Wait()
	}
}

func (r *Recorder) buildArgs() []string {
	args := []string{
		"--format", r.config.Format,
		"--rate", strconv.Itoa(r.config.SampleRate),
		"--channels", strconv.Itoa(r.config.Channels),
	}
	if r.config.Device != "" {
		args = append(args, "--target", r.config.Device)
	}
	return append(args, "-") // stdout
}

func (r *Recorder) validateConfig() error {
	if r.config.SampleRate <= 0 {
		return fmt.Errorf("invalid SampleRate: %d", r.config.SampleRate)
	}
	if r.config.Channels <= 0 {
		return fmt.Errorf("invalid Channels: %d", r.config.Channels)
	}
	if r.config.BufferSize <= 0 {
		return fmt.Errorf("invalid BufferSize: %d", r.config.BufferSize)
	}
	if r.config.Format == "" {
		return fmt.Errorf("invalid Format: empty")
	}
	if r.config.Timeout <= 0 {
		return fmt.Errorf("invalid Timeout: %v", r.config.Timeout)
	}
	return nil
}
