package report

import (
	"context"
	"fmt"
	"io"
	"sync"

	"gopkg.in/yaml.v3"
)

// EntryKind tells what a recorded entry is.
type EntryKind string

// Entry kinds.
const (
	EntryInfo       EntryKind = "info"
	EntryDebug      EntryKind = "debug"
	EntryAttachment EntryKind = "attachment"
	EntryCheck      EntryKind = "check"
	EntryAbort      EntryKind = "abort"
)

// Entry is one recorded report item.
type Entry struct {
	// Kind is the entry kind.
	Kind EntryKind `yaml:"kind"`
	// Text holds the log text, the check description or the abort reason.
	Text string `yaml:"text,omitempty"`
	// Filename is the attachment name, for attachments only.
	Filename string `yaml:"filename,omitempty"`
	// Content is the attachment content, for attachments only.
	Content string `yaml:"content,omitempty"`
	// Passed is the check outcome, for checks only.
	Passed bool `yaml:"passed,omitempty"`
	// Details describes the actual value of a check.
	Details string `yaml:"details,omitempty"`
}

// Summary counts checks by outcome.
type Summary struct {
	// Passed is the number of successful checks.
	Passed int `yaml:"passed"`
	// Failed is the number of failed checks.
	Failed int `yaml:"failed"`
	// Aborted is the number of aborts.
	Aborted int `yaml:"aborted"`
}

// Recorder is an in-memory Reporter. It is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// LogInfo implements Reporter.
func (r *Recorder) LogInfo(_ context.Context, text string) {
	r.add(Entry{Kind: EntryInfo, Text: text})
}

// LogDebug implements Reporter.
func (r *Recorder) LogDebug(_ context.Context, text string) {
	r.add(Entry{Kind: EntryDebug, Text: text})
}

// SaveAttachmentContent implements Reporter.
func (r *Recorder) SaveAttachmentContent(_ context.Context, content []byte, filename, description string) {
	r.add(Entry{
		Kind:     EntryAttachment,
		Text:     description,
		Filename: filename,
		Content:  string(content),
	})
}

// LogCheck implements Reporter.
func (r *Recorder) LogCheck(_ context.Context, description string, passed bool, details string) {
	r.add(Entry{
		Kind:    EntryCheck,
		Text:    description,
		Passed:  passed,
		Details: details,
	})
}

// AbortTest records the abort and unwinds with an *AbortError.
func (r *Recorder) AbortTest(_ context.Context, reason error) {
	text := ErrTestAborted.Error()
	if reason != nil {
		text = reason.Error()
	}

	r.add(Entry{Kind: EntryAbort, Text: text})

	Abort(reason)
}

// Entries returns a copy of the recorded entries.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]Entry, len(r.entries))
	copy(result, r.entries)

	return result
}

// EntriesOf returns the recorded entries of the given kind.
func (r *Recorder) EntriesOf(kind EntryKind) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []Entry

	for _, e := range r.entries {
		if e.Kind == kind {
			result = append(result, e)
		}
	}

	return result
}

// Reset drops every recorded entry.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = nil
}

// Summary counts the recorded checks and aborts.
func (r *Recorder) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	var s Summary

	for _, e := range r.entries {
		switch e.Kind {
		case EntryCheck:
			if e.Passed {
				s.Passed++
			} else {
				s.Failed++
			}
		case EntryAbort:
			s.Aborted++
		case EntryInfo, EntryDebug, EntryAttachment:
		}
	}

	return s
}

// WriteYAML writes the summary and every entry as a YAML document.
func (r *Recorder) WriteYAML(w io.Writer) error {
	document := struct {
		Summary Summary `yaml:"summary"`
		Entries []Entry `yaml:"entries"`
	}{
		Summary: r.Summary(),
		Entries: r.Entries(),
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	if err := encoder.Encode(&document); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to flush report: %w", err)
	}

	return nil
}

func (r *Recorder) add(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, e)
}
