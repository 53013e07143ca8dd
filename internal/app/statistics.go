package app

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/oshokin/reqcheck/internal/logger"
)

// ProbeOutcome is the verdict of one probe.
type ProbeOutcome string

// Probe outcomes.
const (
	// OutcomePassed means the status code matched.
	OutcomePassed ProbeOutcome = "passed"
	// OutcomeFailed means the status code did not match.
	OutcomeFailed ProbeOutcome = "failed"
	// OutcomeAborted means a require or assert check aborted the probe.
	OutcomeAborted ProbeOutcome = "aborted"
	// OutcomeErrored means the request could not be completed.
	OutcomeErrored ProbeOutcome = "errored"
)

// ProbeResult is the result of probing one target.
type ProbeResult struct {
	// Target is the probed path or URL.
	Target string
	// StatusCode is the received status code, zero when there was no response.
	StatusCode int
	// Elapsed is the response time.
	Elapsed time.Duration
	// Outcome is the verdict.
	Outcome ProbeOutcome
	// Err holds the request error, the status code error or the abort.
	Err error
}

// ProbeStatistics collects the results of a run.
type ProbeStatistics struct {
	mu sync.Mutex
	// results are kept in completion order.
	results []ProbeResult
	// StartTime marks the beginning of the run.
	StartTime time.Time
	// EndTime marks the end of the run.
	EndTime time.Time
}

//nolint:gochecknoglobals // Immutable color printers used as constants.
var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func (s *ProbeStatistics) add(result ProbeResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.results = append(s.results, result)
}

// Results returns a copy of the collected results.
func (s *ProbeStatistics) Results() []ProbeResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]ProbeResult, len(s.results))
	copy(result, s.results)

	return result
}

// Count returns the number of results with the given outcome.
func (s *ProbeStatistics) Count(outcome ProbeOutcome) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int

	for _, r := range s.results {
		if r.Outcome == outcome {
			count++
		}
	}

	return count
}

// Failed reports whether any probe did not pass.
func (s *ProbeStatistics) Failed() bool {
	return s.Count(OutcomePassed) != len(s.Results())
}

// PrintSummary writes one colored line per probe to w and logs the totals.
func (s *ProbeStatistics) PrintSummary(ctx context.Context, w io.Writer) {
	results := s.Results()

	for _, r := range results {
		status := "---"
		if r.StatusCode != 0 {
			status = strconv.Itoa(r.StatusCode)
		}

		_, _ = fmt.Fprintf(w, "%s  %s  %-8s  %s\n", formatOutcome(r.Outcome), bold(status), formatDuration(r.Elapsed), r.Target)

		if r.Err != nil && r.Outcome != OutcomePassed {
			_, _ = fmt.Fprintf(w, "      %s\n", firstLine(r.Err.Error()))
		}
	}

	logger.Info(ctx, "═══════════════════════════════════════════════════════════════")
	logger.Info(ctx, "                       PROBE SUMMARY")
	logger.Info(ctx, "═══════════════════════════════════════════════════════════════")
	logger.Infof(ctx, "Targets:          %d total", len(results))
	logger.Infof(ctx, "  Passed:         %d", s.Count(OutcomePassed))

	if failed := s.Count(OutcomeFailed); failed > 0 {
		logger.Infof(ctx, "  Failed:         %d", failed)
	}

	if aborted := s.Count(OutcomeAborted); aborted > 0 {
		logger.Infof(ctx, "  Aborted:        %d", aborted)
	}

	if errored := s.Count(OutcomeErrored); errored > 0 {
		logger.Infof(ctx, "  Errored:        %d", errored)
	}

	if !s.StartTime.IsZero() && !s.EndTime.IsZero() {
		logger.Infof(ctx, "Duration:         %s", formatDuration(s.EndTime.Sub(s.StartTime)))
	}

	logger.Info(ctx, "═══════════════════════════════════════════════════════════════")
}

func formatOutcome(outcome ProbeOutcome) string {
	switch outcome {
	case OutcomePassed:
		return green("PASS ")
	case OutcomeFailed:
		return red("FAIL ")
	case OutcomeAborted:
		return red("ABORT")
	case OutcomeErrored:
		return yellow("ERROR")
	default:
		return string(outcome)
	}
}

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}

	minutes := int(d.Minutes())
	seconds := d.Seconds() - float64(minutes*60)

	if minutes > 0 {
		return fmt.Sprintf("%dm %.1fs", minutes, seconds)
	}

	return fmt.Sprintf("%.1fs", seconds)
}

func firstLine(text string) string {
	line, _, _ := strings.Cut(text, "\n")

	return line
}
