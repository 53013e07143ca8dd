package report

import (
	"context"
	"testing"
)

// TestingReporter adapts testing.TB so that sessions can be used directly from go test.
// Failed checks mark the test as failed; aborts call FailNow.
// When combined through Tee, place it last: FailNow ends the goroutine.
type TestingReporter struct {
	tb testing.TB
}

// NewTestingReporter creates a TestingReporter bound to tb.
func NewTestingReporter(tb testing.TB) *TestingReporter {
	return &TestingReporter{tb: tb}
}

// LogInfo implements Reporter.
func (r *TestingReporter) LogInfo(_ context.Context, text string) {
	r.tb.Helper()
	r.tb.Log(text)
}

// LogDebug implements Reporter.
// go test only shows it for failed tests or with -v, like any other test log.
func (r *TestingReporter) LogDebug(_ context.Context, text string) {
	r.tb.Helper()
	r.tb.Log(text)
}

// SaveAttachmentContent implements Reporter.
func (r *TestingReporter) SaveAttachmentContent(_ context.Context, content []byte, filename, description string) {
	r.tb.Helper()
	r.tb.Logf("%s (attachment %s):\n%s", description, filename, content)
}

// LogCheck implements Reporter.
func (r *TestingReporter) LogCheck(_ context.Context, description string, passed bool, details string) {
	r.tb.Helper()

	if passed {
		r.tb.Logf("%s: passed", description)

		return
	}

	r.tb.Errorf("%s: failed, %s", description, details)
}

// AbortTest implements Reporter.
func (r *TestingReporter) AbortTest(_ context.Context, reason error) {
	r.tb.Helper()
	r.tb.Fatalf("test aborted: %v", reason)
}
