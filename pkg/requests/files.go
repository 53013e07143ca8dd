package requests

import (
	"io"
	"sort"
)

// FilePart is one file of a multipart upload.
type FilePart struct {
	// Filename is the name sent in the Content-Disposition header.
	Filename string
	// Content is the file content. It is only read when the request is sent.
	Content io.Reader
	// ContentType is optional; application/octet-stream is sent when it is empty.
	ContentType string
}

// NamedPart binds a FilePart to its form field name.
type NamedPart struct {
	// Field is the form field name.
	Field string
	// Part is the uploaded file.
	Part FilePart
}

// Files is implemented by the accepted shapes of multipart file input.
type Files interface {
	// Parts returns the parts in transmission order.
	Parts() []NamedPart
}

// FileMap maps form field names to file parts. Parts are sent ordered by field name.
type FileMap map[string]FilePart

// Parts implements Files.
func (m FileMap) Parts() []NamedPart {
	fields := make([]string, 0, len(m))
	for field := range m {
		fields = append(fields, field)
	}

	sort.Strings(fields)

	result := make([]NamedPart, 0, len(fields))
	for _, field := range fields {
		result = append(result, NamedPart{Field: field, Part: m[field]})
	}

	return result
}

// FileList is an ordered list of parts; a field name may repeat.
type FileList []NamedPart

// Parts implements Files.
func (l FileList) Parts() []NamedPart {
	return l
}

// hasFiles reports whether files carries at least one part.
func hasFiles(files Files) bool {
	return files != nil && len(files.Parts()) > 0
}
