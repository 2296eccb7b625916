package cache

import "errors"

// Sentinels shared by the cache backends and the HTTP integrations that
// fill them. pkg/integrations re-exports both, so callers may match on
// either package.
var (
	// ErrNotFound marks a book or resource the upstream does not have.
	ErrNotFound = errors.New("not found")

	// ErrNetwork marks a transport failure, a timeout or a 5xx response.
	ErrNetwork = errors.New("network error")
)

// RetryableError marks a failure that another attempt may fix.
// httputil.Retry retries only errors that carry it.
type RetryableError struct{ Err error }

// Retryable marks err as transient. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err's chain carries a [RetryableError].
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}
