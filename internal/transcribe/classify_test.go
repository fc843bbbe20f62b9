package transcribe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"syscall"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"request timeout 408", &openai.APIError{HTTPStatusCode: 408}, true},
		{"rate limited 429", &openai.APIError{HTTPStatusCode: 429}, true},
		{"server error 500", &openai.APIError{HTTPStatusCode: 500}, true},
		{"bad gateway 502", &openai.APIError{HTTPStatusCode: 502}, true},
		{"unavailable 503", &openai.APIError{HTTPStatusCode: 503}, true},
		{"gateway timeout 504", &openai.APIError{HTTPStatusCode: 504}, true},
		{"unauthorized 401", &openai.APIError{HTTPStatusCode: 401}, false},
		{"forbidden 403", &openai.APIError{HTTPStatusCode: 403}, false},
		{"bad request 400", &openai.APIError{HTTPStatusCode: 400}, false},
		{"payload too large 413", &openai.APIError{HTTPStatusCode: 413}, false},
		{"wrapped api error", fmt.Errorf("request: %w", &openai.APIError{HTTPStatusCode: 503}), true},
		{"request error with 502", &openai.RequestError{HTTPStatusCode: 502, Err: errors.New("bad gateway")}, true},
		{"request error with 401", &openai.RequestError{HTTPStatusCode: 401, Err: errors.New("unauthorized")}, false},
		{"dns failure", &net.DNSError{Err: "no such host", Name: "api.example.com"}, true},
		{"connection reset", &net.OpError{Op: "read", Err: syscall.ECONNRESET}, true},
		{"connection refused", syscall.ECONNREFUSED, true},
		{"deadline exceeded", context.DeadlineExceeded, true},
		{"url transport error", &url.Error{Op: "Post", URL: "https://api.example.com", Err: errors.New("EOF")}, true},
		{"plain error", errors.New("malformed request"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryable(tt.err); got != tt.want {
				t.Errorf("isRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestOutcomeString(t *testing.T) {
	tests := []struct {
		outcome Outcome
		want    string
	}{
		{OutcomeSuccess, "success"},
		{OutcomeEmpty, "empty"},
		{OutcomeRetryable, "retryable-failure"},
		{OutcomeTerminal, "terminal-failure"},
		{Outcome(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.outcome.String(); got != tt.want {
			t.Errorf("Outcome(%d).String() = %q, want %q", tt.outcome, got, tt.want)
		}
	}
}

func TestResultFailed(t *testing.T) {
	if (Result{Outcome: OutcomeSuccess}).Failed() {
		t.Error("success should not be failed")
	}
	if (Result{Outcome: OutcomeEmpty}).Failed() {
		t.Error("empty should not be failed")
	}
	if !(Result{Outcome: OutcomeRetryable}).Failed() {
		t.Error("retryable should be failed")
	}
	if !(Result{Outcome: OutcomeTerminal}).Failed() {
		t.Error("terminal should be failed")
	}
}
