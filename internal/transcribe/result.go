package transcribe

// Outcome is the discriminator of one transcription attempt. Exactly one
// tag applies to every attempt.
type Outcome int

const (
	// OutcomeSuccess: text transcribed, copied and pasted.
	OutcomeSuccess Outcome = iota
	// OutcomeEmpty: the service returned no text after trimming. This is
	// success-shaped; the clipboard and paste steps are skipped.
	OutcomeEmpty
	// OutcomeRetryable: the attempt failed in a way that may succeed when
	// repeated on the same artifact without new user input.
	OutcomeRetryable
	// OutcomeTerminal: the attempt failed in a way that requires the user
	// to redo the recording.
	OutcomeTerminal
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeEmpty:
		return "empty"
	case OutcomeRetryable:
		return "retryable-failure"
	case OutcomeTerminal:
		return "terminal-failure"
	default:
		return "unknown"
	}
}

// Result is the value produced by one attempt.
type Result struct {
	Outcome Outcome
	Message string
	Text    string
}

// Failed reports whether the attempt ended in any failure outcome.
func (r Result) Failed() bool {
	return r.Outcome == OutcomeRetryable || r.Outcome == OutcomeTerminal
}
