// Package report defines the test-report sink that HTTP sessions write to.
// A Reporter receives informational and debug entries, named attachments,
// check records, and test-abort signals. The package ships an in-memory Recorder,
// a Reporter backed by the process logger that stores attachments on disk,
// a Reporter adapting testing.TB, and a Tee that fans entries out to several reporters.
package report
