package providers

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type rateLimitError struct{}

func (e *rateLimitError) Error() string { return "rate limited" }

type authError struct {
	message string
}

func (e *authError) Error() string {
	return "authentication error: " + e.message
}

type apiError struct {
	provider   string
	statusCode int
	body       string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.provider, e.statusCode, e.body)
}

type emptyResponseError struct {
	provider string
}

func (e *emptyResponseError) Error() string {
	return e.provider + ": empty completion in API response"
}

type timeoutError struct {
	provider string
}

func (e *timeoutError) Error() string {
	return fmt.Sprintf("%s: call timed out after %s", e.provider, callTimeout)
}

// IsAuthError checks if an error is an authentication error.
func IsAuthError(err error) bool {
	var e *authError
	return errors.As(err, &e)
}

// IsTimeout checks if an error is a provider-call timeout.
func IsTimeout(err error) bool {
	var e *timeoutError
	return errors.As(err, &e)
}

// IsEmptyResponse checks if an error reports an empty completion body.
func IsEmptyResponse(err error) bool {
	var e *emptyResponseError
	return errors.As(err, &e)
}

// classifyTransportErr maps a failed HTTP round trip to a distinguishable
// error: the call deadline becomes a timeoutError, everything else stays a
// wrapped transport error.
func classifyTransportErr(provider string, ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
		return &timeoutError{provider: provider}
	}
	return fmt.Errorf("sending request: %w", err)
}

// retryWithBackoff retries fn on rate-limit errors with exponential
// backoff. Auth errors and every other failure return immediately.
func retryWithBackoff(ctx context.Context, maxRetries int, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		var rle *rateLimitError
		if !errors.As(lastErr, &rle) {
			return lastErr
		}

		if attempt < maxRetries {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
	}
	return lastErr
}
