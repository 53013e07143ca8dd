package utils

import (
	"math"
	"mime"
	"regexp"
	"strings"
)

var (
	// invalidCharsPattern includes ASCII control characters (0-31) and Windows-restricted characters: < > : " / \ | ? *.
	//nolint:gochecknoglobals // This is immutable, pre-compiled regex pattern and used as a constant.
	invalidCharsPattern = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1F]`)

	// textContentTypePatterns is a slice of regular expressions that match content types
	// considered to be text-based: "text/*", JSON and XML documents (including structured
	// suffixes such as "+json"), JavaScript and URL-encoded forms.
	//nolint:gochecknoglobals // These are immutable, pre-compiled regex patterns and used as constants.
	textContentTypePatterns = []*regexp.Regexp{
		regexp.MustCompile("^text/.+"),
		regexp.MustCompile(`^application/([a-z0-9.\-]+\+)?json$`),
		regexp.MustCompile(`^application/([a-z0-9.\-]+\+)?xml$`),
		regexp.MustCompile(`^application/(x-)?javascript$`),
		regexp.MustCompile(`^application/x-www-form-urlencoded$`),
	}

	// windowsReservedNames is a map of filenames that are reserved on Windows systems.
	//nolint:gochecknoglobals // This is an immutable map used as a constant for validation purposes.
	windowsReservedNames = map[string]struct{}{
		"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
		"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {}, "COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
		"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {}, "LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
	}
)

// SafeUint64ToInt converts a uint64 value to an int safely,
// ensuring that the value does not exceed the maximum limit of int.
func SafeUint64ToInt(val uint64) int {
	if val > math.MaxInt {
		return math.MaxInt
	}

	return int(val)
}

// SanitizeFilename sanitizes a filename to be valid on both Windows and Unix-like systems.
// It replaces invalid characters, handles Windows reserved names, and ensures the filename is not empty.
func SanitizeFilename(name string) string {
	if name == "" {
		return "_"
	}

	result := invalidCharsPattern.ReplaceAllString(name, "_")

	baseName := result
	if dotIndex := strings.LastIndex(result, "."); dotIndex != -1 {
		baseName = result[:dotIndex]
	}

	// If base name is a Windows reserved name, prepend an underscore.
	if _, ok := windowsReservedNames[strings.ToUpper(baseName)]; ok {
		result = "_" + result
	}

	result = strings.TrimRight(result, ".")
	if result == "" {
		result = "_"
	}

	return result
}

// IsTextContentType checks if the given content type represents a text-based format.
// It also checks that the charset, if present, is either "utf-8" or "us-ascii".
func IsTextContentType(contentType string) bool {
	parsedType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	for _, pattern := range textContentTypePatterns {
		if !pattern.MatchString(parsedType) {
			continue
		}

		charset := strings.ToLower(params["charset"])

		return charset == "" || charset == "utf-8" || charset == "us-ascii"
	}

	return false
}

// ContentTypeCharset returns the charset parameter of a content type, lowercased,
// or an empty string when there is none or the content type cannot be parsed.
func ContentTypeCharset(contentType string) string {
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}

	return strings.ToLower(strings.TrimSpace(params["charset"]))
}

// SplitHeader splits a "Name: value" string into its name and value.
// The second result is false when there is no colon or the name is empty.
func SplitHeader(header string) (string, string, bool) {
	name, value, found := strings.Cut(header, ":")
	name = strings.TrimSpace(name)

	if !found || name == "" {
		return "", "", false
	}

	return name, strings.TrimSpace(value), true
}
