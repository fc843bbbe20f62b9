package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/nodesman/voice-recorder/internal/artifact"
	"github.com/nodesman/voice-recorder/internal/convert"
	"github.com/nodesman/voice-recorder/internal/notify"
	"github.com/nodesman/voice-recorder/internal/overlay"
	"github.com/nodesman/voice-recorder/internal/retry"
	"github.com/nodesman/voice-recorder/internal/transcribe"
)

// ErrBusy is returned when recording is requested while an attempt is
// still in flight.
var ErrBusy = errors.New("an attempt is still in flight")

type State string

const (
	Idle       State = "idle"
	Recording  State = "recording"
	Processing State = "processing"
	Error      State = "error"
)

// Capture is one open microphone take.
type Capture interface {
	Stop() ([]byte, error)
	Abort()
}

// Recorder acquires the microphone.
type Recorder interface {
	Begin(ctx context.Context) (Capture, error)
}

// Converter transcodes a raw capture into an upload artifact.
type Converter interface {
	Convert(ctx context.Context, rawPath, outPath string) (convert.Result, error)
}

// Operation performs one transcription attempt on a converted artifact.
type Operation interface {
	Attempt(ctx context.Context, path string) transcribe.Result
}

// Machine is the recording state machine: idle -> recording ->
// processing -> idle or error, with error -> processing (retry) and
// error -> idle (cancel). All transitions happen here; collaborators
// never move the state on their own. Methods called in a state they are
// not valid in log and do nothing.
type Machine struct {
	recorder  Recorder
	store     *artifact.Store
	converter Converter
	op        Operation
	ctrl      *retry.Controller
	window    overlay.Window
	notifier  notify.Notifier

	mu        sync.Mutex
	state     State
	lastError string
	capture   Capture

	wg sync.WaitGroup
}

func NewMachine(
	recorder Recorder,
	store *artifact.Store,
	converter Converter,
	op Operation,
	ctrl *retry.Controller,
	window overlay.Window,
	notifier notify.Notifier,
) *Machine {
	return &Machine{
		recorder:  recorder,
		store:     store,
		converter: converter,
		op:        op,
		ctrl:      ctrl,
		window:    window,
		notifier:  notifier,
		state:     Idle,
	}
}

func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Machine) LastError() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastError
}

// RetryPending reports whether a failed attempt is waiting for a retry
// decision. True exactly when the machine is in the error state.
func (m *Machine) RetryPending() bool {
	return m.ctrl.Pending()
}

// StartRecording acquires the microphone and enters the recording
// state. Valid from idle; starting over from the error state abandons
// the unretried artifact first. Any other state returns ErrBusy.
func (m *Machine) StartRecording(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case Error:
		// An unretried failure is abandoned the moment the user starts
		// over.
		m.ctrl.Discard()
		m.lastError = ""
	case Idle:
	default:
		m.guard("StartRecording")
		return ErrBusy
	}

	capture, err := m.recorder.Begin(ctx)
	if err != nil {
		m.state = Idle
		m.notifier.Error(fmt.Sprintf("could not start recording: %v", err))
		return err
	}

	m.capture = capture
	m.state = Recording
	m.notifier.RecordingStarted()
	return nil
}

// Stop ends the current recording. With save the captured audio moves
// into the processing pipeline; without it the session is discarded and
// the machine returns to idle.
func (m *Machine) Stop(ctx context.Context, save bool) {
	m.mu.Lock()

	if m.state != Recording {
		m.guard("Stop")
		m.mu.Unlock()
		return
	}

	capture := m.capture
	m.capture = nil

	if !save {
		m.state = Idle
		m.mu.Unlock()

		capture.Abort()
		m.window.Hide(ctx)
		m.notifier.Aborted()
		return
	}

	m.state = Processing
	m.mu.Unlock()

	m.notifier.Processing()
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.process(ctx, capture)
	}()
}

// process runs the save pipeline: drain the capture, write the raw
// file, convert, attempt transcription.
func (m *Machine) process(ctx context.Context, capture Capture) {
	data, err := capture.Stop()
	if err != nil {
		m.fail(ctx, fmt.Sprintf("recording failed: %v", err))
		return
	}

	rawPath, err := m.store.WriteRaw(data)
	if err != nil {
		if errors.Is(err, artifact.ErrEmptyInput) {
			m.fail(ctx, "nothing was recorded")
		} else {
			m.fail(ctx, fmt.Sprintf("could not store recording: %v", err))
		}
		return
	}

	outPath := m.store.ConvertedPath()
	res, err := m.converter.Convert(ctx, rawPath, outPath)

	// The raw capture is never needed again, on any outcome.
	m.store.Dispose(rawPath)

	if err != nil {
		m.store.Dispose(outPath)
		if errors.Is(err, convert.ErrToolNotFound) {
			m.fail(ctx, err.Error())
		} else {
			m.fail(ctx, fmt.Sprintf("could not convert recording: %v", err))
		}
		return
	}

	if res.Silent {
		// Trimming removed everything: success-shaped, nothing to send.
		m.store.Dispose(res.Path)
		m.mu.Lock()
		m.state = Idle
		m.mu.Unlock()
		m.window.Hide(ctx)
		m.notifier.Transcribed(0)
		return
	}

	m.finish(ctx, m.op.Attempt(ctx, res.Path), res.Path)
}

// finish consumes one attempt's result and owns the converted artifact
// path on every outcome.
func (m *Machine) finish(ctx context.Context, res transcribe.Result, path string) {
	m.mu.Lock()

	switch res.Outcome {
	case transcribe.OutcomeRetryable:
		m.ctrl.Hold(path)
		m.state = Error
		m.lastError = res.Message
		m.mu.Unlock()

		// Overlay stays visible showing the inline error.
		log.Printf("Session: attempt failed retryably: %s", res.Message)

	case transcribe.OutcomeTerminal:
		m.state = Idle
		m.lastError = ""
		m.mu.Unlock()

		m.store.Dispose(path)
		m.window.Hide(ctx)
		m.notifier.Error(res.Message)

	default: // success or empty
		m.state = Idle
		m.lastError = ""
		m.mu.Unlock()

		m.store.Dispose(path)
		m.window.Hide(ctx)
		m.notifier.Transcribed(len(res.Text))
	}
}

// Retry re-attempts transcription on the artifact of the last failure.
func (m *Machine) Retry(ctx context.Context) error {
	m.mu.Lock()

	if m.state != Error {
		m.guard("Retry")
		m.mu.Unlock()
		return retry.ErrNoPendingRetry
	}

	// Take clears the slot before the re-attempt so the path never has
	// two owners.
	path, err := m.ctrl.Take()
	if err != nil {
		m.mu.Unlock()
		return err
	}

	m.state = Processing
	m.lastError = ""
	m.mu.Unlock()

	m.notifier.Processing()
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.finish(ctx, m.op.Attempt(ctx, path), path)
	}()
	return nil
}

// CancelPending discards any pending-retry artifact and forces idle.
// Idempotent; the overlay hide signal is sent even when there is
// nothing to cancel.
func (m *Machine) CancelPending(ctx context.Context) {
	m.mu.Lock()

	switch m.state {
	case Recording, Processing:
		m.guard("CancelPending")
		m.mu.Unlock()
		return
	}

	m.state = Idle
	m.lastError = ""
	m.mu.Unlock()

	m.ctrl.Cancel()
	m.notifier.Aborted()
}

// Shutdown releases the microphone if one is unexpectedly open, waits
// for an in-flight attempt and disposes any pending-retry artifact.
func (m *Machine) Shutdown() {
	m.mu.Lock()
	capture := m.capture
	m.capture = nil
	m.mu.Unlock()

	if capture != nil {
		capture.Abort()
	}

	m.wg.Wait()
	m.ctrl.Shutdown()
}

// fail aborts the current attempt: back to idle, overlay down, user
// told what went wrong.
func (m *Machine) fail(ctx context.Context, msg string) {
	m.mu.Lock()
	m.state = Idle
	m.lastError = ""
	m.mu.Unlock()

	m.window.Hide(ctx)
	m.notifier.Error(msg)
}

// guard logs an operation arriving in a state it is not valid in and
// recovers a dangling capture handle instead of crashing.
func (m *Machine) guard(op string) {
	log.Printf("Session: %s ignored in state %s", op, m.state)

	if m.capture != nil && m.state != Recording {
		log.Printf("Session: capture unexpectedly open in state %s, cleaning up", m.state)
		m.capture.Abort()
		m.capture = nil
		m.state = Idle
	}
}
