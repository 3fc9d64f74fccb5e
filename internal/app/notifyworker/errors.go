package notifyworker

import "errors"

// Retryable error wrapper to signal a queue-level retry of the whole job.
type retryableError struct {
	err error
}

// Error returns the wrapped error's message.
func (e retryableError) Error() string {
	return e.err.Error()
}

// Unwrap returns the wrapped error.
func (e retryableError) Unwrap() error {
	return e.err
}

// Retryable wraps an error to mark it as retryable.
func Retryable(err error) error {
	if err == nil {
		return nil
	}

	return retryableError{err: err}
}

// IsRetryable returns true if the error is marked as retryable.
func IsRetryable(err error) bool {
	var r retryableError
	return errors.As(err, &r)
}

// Terminal error wrapper to signal a permanent job failure (no further attempts).
type terminalError struct {
	err error
}

// Error returns the wrapped error's message.
func (e terminalError) Error() string {
	return e.err.Error()
}

// Unwrap returns the wrapped error.
func (e terminalError) Unwrap() error {
	return e.err
}

// Terminal wraps an error to mark the job as permanently failed.
func Terminal(err error) error {
	if err == nil {
		return nil
	}

	return terminalError{err: err}
}

// IsTerminal returns true if the error is marked as terminal.
func IsTerminal(err error) bool {
	var t terminalError
	return errors.As(err, &t)
}
