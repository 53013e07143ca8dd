package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/oshokin/reqcheck/internal/config"
	"github.com/oshokin/reqcheck/internal/logger"
	transport_http "github.com/oshokin/reqcheck/internal/transport/http"
	"github.com/oshokin/reqcheck/internal/utils"
	"github.com/oshokin/reqcheck/internal/version"
	"github.com/oshokin/reqcheck/pkg/report"
	"github.com/oshokin/reqcheck/pkg/requests"
)

// Prober probes targets through a reporting session.
type Prober struct {
	cfg      *config.Config
	session  *requests.Session
	recorder *report.Recorder
	limiter  *rate.Limiter
	// progressOutput receives the progress bar; nil disables it.
	progressOutput io.Writer
}

// NewProber builds the session described by cfg. Entries go both to an in-memory
// recorder, used for the YAML report, and to the process logger.
// Extra session options are applied last.
func NewProber(cfg *config.Config, progressOutput io.Writer, options ...requests.SessionOption) *Prober {
	recorder := report.NewRecorder()
	reporter := report.Tee(recorder, report.NewLoggerReporter(cfg.AttachmentsPath))

	var userAgentProvider utils.UserAgentProvider
	if cfg.UserAgent != "" {
		userAgentProvider = utils.NewSimpleUserAgentProvider(cfg.UserAgent)
	} else {
		userAgentProvider = utils.NewProductUserAgentProvider(transport_http.DefaultProduct, version.Short(), cfg.Hint)
	}

	sessionOptions := []requests.SessionOption{
		requests.WithBaseURL(cfg.BaseURL),
		requests.WithPolicy(cfg.ParsedPolicy),
		requests.WithHint(cfg.Hint),
		requests.WithHTTPClient(transport_http.NewClient(cfg.ParsedTimeout)),
		requests.WithMiddleware(transport_http.UserAgentMiddleware(userAgentProvider)),
	}

	for name, values := range cfg.ParsedHeaders {
		sessionOptions = append(sessionOptions, requests.WithSessionHeader(name, strings.Join(values, ", ")))
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &Prober{
		cfg:            cfg,
		session:        requests.NewSession(reporter, append(sessionOptions, options...)...),
		recorder:       recorder,
		limiter:        limiter,
		progressOutput: progressOutput,
	}
}

// Recorder returns the recorder holding every report entry of the run.
func (p *Prober) Recorder() *report.Recorder {
	return p.recorder
}

// Run probes targets one after another and returns the statistics.
// A cancelled context stops the run; the remaining targets are not probed.
func (p *Prober) Run(ctx context.Context, targets []string) *ProbeStatistics {
	stats := &ProbeStatistics{StartTime: time.Now()}

	var bar *progressbar.ProgressBar

	// Progress bars are only useful for several targets and would interleave with debug logs.
	if p.progressOutput != nil && len(targets) > 1 && logger.Level() >= zap.InfoLevel {
		bar = progressbar.NewOptions(len(targets),
			progressbar.OptionSetWriter(p.progressOutput),
			progressbar.OptionSetDescription("Probing"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	for _, target := range targets {
		if ctx.Err() != nil {
			logger.Warnf(ctx, "Probe run interrupted: %v", ctx.Err())

			break
		}

		stats.add(p.probe(ctx, target))

		if bar != nil {
			_ = bar.Add(1)
		}
	}

	if bar != nil {
		_ = bar.Finish()
	}

	stats.EndTime = time.Now()

	return stats
}

func (p *Prober) probe(ctx context.Context, target string) ProbeResult {
	result := ProbeResult{Target: target}

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			result.Outcome = OutcomeErrored
			result.Err = fmt.Errorf("failed to wait for rate limiter: %w", err)

			return result
		}
	}

	var options []requests.RequestOption

	if p.cfg.Body != "" {
		options = append(options, requests.WithData(p.cfg.Body))
	}

	if p.cfg.ParsedJSONBody != nil {
		options = append(options, requests.WithJSON(p.cfg.ParsedJSONBody))
	}

	var requestErr error

	abortErr := report.CatchAbort(func() {
		var resp *requests.Response

		resp, requestErr = p.session.Request(ctx, p.cfg.Method, target, options...)
		if requestErr != nil {
			result.Outcome = OutcomeErrored

			return
		}

		result.StatusCode = resp.StatusCode
		result.Elapsed = resp.Elapsed
		result.Outcome, requestErr = p.applyExpectation(resp)
	})

	switch {
	case abortErr != nil:
		result.Outcome = OutcomeAborted
		result.Err = abortErr
	case requestErr != nil:
		result.Err = requestErr
	}

	if result.Err != nil {
		logger.ErrorKV(ctx, "Probe did not pass",
			"target", target, "outcome", result.Outcome, "error", firstLine(result.Err.Error()))
	}

	return result
}

// applyExpectation applies the expected status with the configured check mode.
// A failing require or assert check does not return: it aborts through the reporter.
func (p *Prober) applyExpectation(resp *requests.Response) (ProbeOutcome, error) {
	expected := p.cfg.ParsedExpectedStatus
	if expected == nil {
		expected = requests.Is2xx()
	}

	switch p.cfg.ParsedCheckMode {
	case config.CheckModeRequire:
		resp.RequireStatusCode(expected)
	case config.CheckModeAssert:
		resp.AssertStatusCode(expected)
	case config.CheckModeRaise:
		if _, err := resp.ExpectStatusCode(expected); err != nil {
			return OutcomeFailed, err
		}
	case config.CheckModeCheck, "":
		resp.CheckStatusCode(expected)
	}

	if !expected.Match(resp.StatusCode).Passed {
		return OutcomeFailed, fmt.Errorf("%w: got %d", requests.ErrStatusCodeMismatch, resp.StatusCode)
	}

	return OutcomePassed, nil
}
