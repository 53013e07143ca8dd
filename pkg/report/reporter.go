package report

//go:generate $MOCKGEN -source=reporter.go -destination=mocks/reporter_mock.go

import (
	"context"
	"errors"
	"fmt"
)

// Reporter is the sink for everything a test wants to show in its report.
type Reporter interface {
	// LogInfo adds an informational entry.
	LogInfo(ctx context.Context, text string)
	// LogDebug adds a debug entry.
	LogDebug(ctx context.Context, text string)
	// SaveAttachmentContent stores content as a named attachment described by description.
	SaveAttachmentContent(ctx context.Context, content []byte, filename, description string)
	// LogCheck records the outcome of a check.
	LogCheck(ctx context.Context, description string, passed bool, details string)
	// AbortTest stops the current test. Implementations do not return normally.
	AbortTest(ctx context.Context, reason error)
}

// Static error definitions for better error handling.
var (
	// ErrTestAborted indicates that a test was aborted through a Reporter.
	ErrTestAborted = errors.New("test aborted")
)

// AbortError is the panic value used by reporters that are not bound to testing.TB
// to unwind the current test. Use CatchAbort to turn it back into an error.
type AbortError struct {
	// Reason is the error that caused the abort.
	Reason error
}

// Error implements the error interface.
func (e *AbortError) Error() string {
	if e.Reason == nil {
		return ErrTestAborted.Error()
	}

	return fmt.Sprintf("%s: %v", ErrTestAborted, e.Reason)
}

// Unwrap makes errors.Is(err, ErrTestAborted) and errors.Is(err, reason) work.
func (e *AbortError) Unwrap() []error {
	if e.Reason == nil {
		return []error{ErrTestAborted}
	}

	return []error{ErrTestAborted, e.Reason}
}

// Abort panics with an *AbortError wrapping reason.
func Abort(reason error) {
	panic(&AbortError{Reason: reason})
}

// CatchAbort runs fn and converts an abort raised inside it into a returned *AbortError.
// Any other panic is propagated.
func CatchAbort(fn func()) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}

		abortErr, ok := r.(*AbortError)
		if !ok {
			panic(r)
		}

		err = abortErr
	}()

	fn()

	return nil
}
