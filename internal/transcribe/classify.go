package transcribe

import (
	"context"
	"errors"
	"net"
	"net/url"
	"syscall"

	openai "github.com/sashabaranov/go-openai"
)

// retryableStatus holds the HTTP status codes for which repeating the
// identical request may succeed: request timeout, rate limiting and
// server-side failures.
var retryableStatus = map[int]bool{
	408: true,
	429: true,
	500: true,
	502: true,
	503: true,
	504: true,
}

// isRetryable classifies a service call failure. Transport-level
// failures (connection reset, timeout, DNS) are retryable; any other
// service response (auth, validation, malformed request) is terminal.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return retryableStatus[apiErr.HTTPStatusCode]
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.HTTPStatusCode != 0 {
			return retryableStatus[reqErr.HTTPStatusCode]
		}
		// No status code at all: the request never completed.
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		// url.Error without a more specific cause above still means the
		// request never produced a service response.
		return true
	}

	return false
}
