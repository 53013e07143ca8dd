package matcher

import (
	"context"
	"errors"
	"fmt"

	"github.com/oshokin/reqcheck/pkg/report"
)

// Static error definitions for better error handling.
var (
	// ErrCheckFailed is the abort reason used by RequireThat and AssertThat.
	ErrCheckFailed = errors.New("check failed")
)

// Checker evaluates matchers and reports the outcome through a report.Reporter.
type Checker struct {
	reporter report.Reporter
}

// NewChecker creates a Checker reporting to reporter.
func NewChecker(reporter report.Reporter) *Checker {
	return &Checker{reporter: reporter}
}

// Reporter returns the underlying reporter.
func (c *Checker) Reporter() report.Reporter {
	return c.reporter
}

// CheckThat records a check, passed or failed, and never aborts.
func (c *Checker) CheckThat(ctx context.Context, hint string, actual any, m Matcher) Result {
	result := m.Match(actual)
	c.reporter.LogCheck(ctx, CheckDescription(hint, m), result.Passed, result.Description)

	return result
}

// RequireThat records a check and aborts the test when it fails.
func (c *Checker) RequireThat(ctx context.Context, hint string, actual any, m Matcher) Result {
	result := c.CheckThat(ctx, hint, actual, m)
	if !result.Passed {
		c.reporter.AbortTest(ctx, newFailure(hint, m, result))
	}

	return result
}

// AssertThat is silent when the match passes. A failure is recorded as a check and aborts the test.
func (c *Checker) AssertThat(ctx context.Context, hint string, actual any, m Matcher) Result {
	result := m.Match(actual)
	if result.Passed {
		return result
	}

	c.reporter.LogCheck(ctx, CheckDescription(hint, m), false, result.Description)
	c.reporter.AbortTest(ctx, newFailure(hint, m, result))

	return result
}

// CheckDescription renders "Expect <hint> <matcher description>".
func CheckDescription(hint string, m Matcher) string {
	return fmt.Sprintf("Expect %s %s", hint, m.Description())
}

func newFailure(hint string, m Matcher, result Result) error {
	return fmt.Errorf("%w: %s, %s", ErrCheckFailed, CheckDescription(hint, m), result.Description)
}
