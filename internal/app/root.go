package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/oshokin/reqcheck/internal/config"
	"github.com/oshokin/reqcheck/internal/constants"
	"github.com/oshokin/reqcheck/internal/logger"
	"github.com/oshokin/reqcheck/pkg/report"
	"github.com/oshokin/reqcheck/pkg/requests"
)

// Static error definitions for better error handling.
var (
	// ErrProbeFailed indicates that at least one target did not pass.
	ErrProbeFailed = errors.New("one or more probes did not pass")
)

// ExecuteRootCommand is the entry point for the application.
// It probes every target, prints the summary to stdout and writes the YAML report when configured.
func ExecuteRootCommand(ctx context.Context, cfg *config.Config, targets []string) error {
	return run(ctx, cfg, targets, os.Stdout, os.Stderr)
}

func run(
	ctx context.Context,
	cfg *config.Config,
	targets []string,
	summaryOutput, progressOutput io.Writer,
	options ...requests.SessionOption,
) error {
	prober := NewProber(cfg, progressOutput, options...)

	expected := cfg.ParsedExpectedStatus
	if expected == nil {
		expected = requests.Is2xx()
	}

	logger.InfoKV(ctx, "Starting probes",
		"targets", len(targets), "method", cfg.Method, "base_url", cfg.BaseURL,
		"expected_status", expected.Description(), "check_mode", cfg.ParsedCheckMode)

	stats := prober.Run(ctx, targets)
	stats.PrintSummary(ctx, summaryOutput)

	if cfg.ReportPath != "" {
		if err := writeReport(prober.Recorder(), cfg.ReportPath); err != nil {
			return err
		}

		logger.Infof(ctx, "Report written to '%s'", cfg.ReportPath)
	}

	if stats.Failed() {
		return ErrProbeFailed
	}

	return nil
}

// writeReport writes the recorder content as YAML to reportPath, creating parent folders.
func writeReport(recorder *report.Recorder, reportPath string) error {
	if err := os.MkdirAll(filepath.Dir(reportPath), constants.DefaultFolderPermissions); err != nil {
		return fmt.Errorf("failed to create report folder: %w", err)
	}

	f, err := os.OpenFile(reportPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, constants.DefaultFilePermissions)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}

	if err = recorder.WriteYAML(f); err != nil {
		_ = f.Close()

		return err
	}

	if err = f.Close(); err != nil {
		return fmt.Errorf("failed to close report file: %w", err)
	}

	return nil
}
