package report

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoggerReporter_SaveAttachmentContent tests that attachments land in the configured directory.
func TestLoggerReporter_SaveAttachmentContent(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "attachments")
	reporter := NewLoggerReporter(dir)

	reporter.SaveAttachmentContent(context.Background(), []byte("BBBBBBBBBBBBBBBBBBBB"), "response-body.txt",
		"HTTP response body")

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.True(t, strings.HasSuffix(files[0].Name(), "-response-body.txt"))

	content, err := os.ReadFile(filepath.Join(dir, files[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, "BBBBBBBBBBBBBBBBBBBB", string(content))
}

// TestLoggerReporter_SanitizedName tests that unsafe attachment names are sanitized.
func TestLoggerReporter_SanitizedName(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	reporter := NewLoggerReporter(dir)

	reporter.SaveAttachmentContent(context.Background(), []byte("x"), "body:1?.txt", "HTTP request body")

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.True(t, strings.HasSuffix(files[0].Name(), "-body_1_.txt"))
}

// TestLoggerReporter_NoDirectory tests that logging without a directory does not write files.
func TestLoggerReporter_NoDirectory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	reporter := NewLoggerReporter("")

	reporter.LogInfo(ctx, "info")
	reporter.LogDebug(ctx, "debug")
	reporter.LogCheck(ctx, "Expect HTTP status code to be equal to 200", true, "got 200")
	reporter.LogCheck(ctx, "Expect HTTP status code to be equal to 201", false, "got 200")
	reporter.SaveAttachmentContent(ctx, []byte("content"), "request-body.txt", "HTTP request body")
}

// TestLoggerReporter_AbortTest tests that aborting unwinds with the reason.
func TestLoggerReporter_AbortTest(t *testing.T) {
	t.Parallel()

	reason := errors.New("expected 201")

	err := CatchAbort(func() {
		NewLoggerReporter("").AbortTest(context.Background(), reason)
	})
	assert.ErrorIs(t, err, reason)
}
