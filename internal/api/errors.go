package api

import (
	"errors"
	"fmt"
)

// ErrUnauthorized indicates the provided API token was rejected
var ErrUnauthorized = errors.New("invalid or expired API token")

// ErrRateLimited indicates the API rate limit was exceeded
var ErrRateLimited = errors.New("API rate limit exceeded")

// ServerError represents a 5xx error from the remote API
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error: HTTP %d", e.StatusCode)
}

// SubmissionError is a non-transient rejection of a submission
// (validation failures and the like). It is never retried.
type SubmissionError struct {
	StatusCode int
	Messages   []string
}

func (e *SubmissionError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("submission rejected: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("submission rejected: %v", e.Messages)
}

// IsRetryable reports whether an error is worth another attempt:
// rate limits, 5xx responses and transport failures are; everything
// else (auth failures, validation rejections) is not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var serverErr *ServerError
	if errors.As(err, &serverErr) {
		return true
	}
	if errors.Is(err, ErrUnauthorized) {
		return false
	}
	var submissionErr *SubmissionError
	if errors.As(err, &submissionErr) {
		return false
	}
	var transport *TransportError
	return errors.As(err, &transport)
}

// TransportError wraps a network-level failure (connection refused,
// timeout) so retry classification doesn't have to sniff strings.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
