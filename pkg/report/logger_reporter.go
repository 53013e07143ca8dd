package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/oshokin/reqcheck/internal/constants"
	"github.com/oshokin/reqcheck/internal/logger"
	"github.com/oshokin/reqcheck/internal/utils"
)

// LoggerReporter writes report entries through the process logger.
// When an attachments directory is configured, attachments are stored there as files;
// otherwise their content is logged at debug level.
type LoggerReporter struct {
	// attachmentsPath is the directory receiving attachment files.
	attachmentsPath string
}

// NewLoggerReporter creates a LoggerReporter storing attachments under attachmentsPath.
// An empty path disables attachment files.
func NewLoggerReporter(attachmentsPath string) *LoggerReporter {
	return &LoggerReporter{attachmentsPath: attachmentsPath}
}

// LogInfo implements Reporter.
func (r *LoggerReporter) LogInfo(ctx context.Context, text string) {
	logger.Info(ctx, text)
}

// LogDebug implements Reporter.
func (r *LoggerReporter) LogDebug(ctx context.Context, text string) {
	logger.Debug(ctx, text)
}

// SaveAttachmentContent implements Reporter.
func (r *LoggerReporter) SaveAttachmentContent(ctx context.Context, content []byte, filename, description string) {
	size := humanize.Bytes(uint64(len(content)))

	if r.attachmentsPath == "" {
		logger.InfoKV(ctx, description, "attachment", filename, "size", size)
		logger.Debug(ctx, string(content))

		return
	}

	path, err := r.writeAttachment(content, filename)
	if err != nil {
		logger.ErrorKV(ctx, "Failed to save attachment", "attachment", filename, "error", err)
		logger.Info(ctx, string(content))

		return
	}

	logger.InfoKV(ctx, description, "attachment", path, "size", size)
}

// LogCheck implements Reporter.
func (r *LoggerReporter) LogCheck(ctx context.Context, description string, passed bool, details string) {
	if passed {
		logger.InfoKV(ctx, description, "outcome", "passed", "details", details)

		return
	}

	logger.ErrorKV(ctx, description, "outcome", "failed", "details", details)
}

// AbortTest logs the reason and unwinds with an *AbortError.
func (r *LoggerReporter) AbortTest(ctx context.Context, reason error) {
	logger.Errorf(ctx, "Test aborted: %v", reason)

	Abort(reason)
}

func (r *LoggerReporter) writeAttachment(content []byte, filename string) (string, error) {
	if err := os.MkdirAll(r.attachmentsPath, constants.DefaultFolderPermissions); err != nil {
		return "", fmt.Errorf("failed to create attachments directory: %w", err)
	}

	name := uuid.NewString() + "-" + utils.SanitizeFilename(filename)
	path := filepath.Join(r.attachmentsPath, name)

	if err := os.WriteFile(path, content, constants.DefaultFilePermissions); err != nil {
		return "", fmt.Errorf("failed to write attachment: %w", err)
	}

	return path, nil
}
