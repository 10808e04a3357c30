package vision

import "errors"

// TransientError is a failure that might not repeat (network, 429, 5xx).
type TransientError struct {
	err error
}

func (e *TransientError) Error() string {
	return e.err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.err
}

func NewTransientError(err error) error {
	return &TransientError{err: err}
}

// FatalError is a failure that will repeat for the same input (auth, bad
// request, unreadable response).
type FatalError struct {
	err error
}

func (e *FatalError) Error() string {
	return e.err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.err
}

func NewFatalError(err error) error {
	return &FatalError{err: err}
}

func IsTransient(err error) bool {
	var transient *TransientError
	return errors.As(err, &transient)
}

func IsFatal(err error) bool {
	var fatal *FatalError
	return errors.As(err, &fatal)
}

var (
	ErrNotConfigured = errors.New("vision service is not configured")
	ErrNoCandidates  = errors.New("no candidates in response")
	ErrSchema        = errors.New("response does not match schema")
)
