package requests

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/oshokin/reqcheck/internal/utils"
)

const (
	// base64LineLength matches the MIME line length used for binary bodies.
	base64LineLength = 76

	notAvailable = "  > n/a"
)

// jsonPrettyOptions renders JSON with a 4-space indent, keeping the source key order.
//
//nolint:gochecknoglobals // Immutable options used as a constant.
var jsonPrettyOptions = &pretty.Options{
	Width:    80,
	Indent:   "    ",
	SortKeys: false,
}

// FormatRequestLine renders the request line: method, URL with encoded params and an optional hint.
func FormatRequestLine(method, rawURL string, params url.Values, hint string) string {
	return fmt.Sprintf("HTTP request%s:\n  > %s %s", formatHint(hint), method, appendQuery(rawURL, params))
}

// FormatRequestHeaders renders the headers as actually sent.
func FormatRequestHeaders(header http.Header) string {
	return "HTTP request headers:\n" + formatHeader(header)
}

// FormatRequestBody renders every body section of the request, or "" when there is none.
// Streams and generators are never consumed.
func FormatRequestBody(r *Request) string {
	if r == nil {
		return ""
	}

	var sections []string

	if r.JSON != nil {
		sections = append(sections, "HTTP request body (JSON):\n"+formatJSONValue(r.JSON))
	}

	switch classifyData(r.Data) {
	case dataMapping:
		sections = append(sections, "HTTP request body (multi-part form parameters):\n"+formatFormFields(formFields(r.Data)))
	case dataGenerator:
		sections = append(sections, "HTTP request body:\n  > <generator>")
	case dataStream:
		sections = append(sections, "HTTP request body:\n  > <IO stream>")
	case dataBinary:
		data, _ := r.Data.([]byte)
		sections = append(sections, "HTTP request body (binary, base64-ified):\n"+formatBinary(data))
	case dataText:
		sections = append(sections, "HTTP request body:\n"+textData(r.Data))
	case dataNone:
	}

	if hasFiles(r.Files) {
		sections = append(sections, "HTTP request body (multipart files):\n"+formatFiles(r.Files))
	}

	return strings.Join(sections, "\n")
}

// FormatResponseLine renders the status code and the elapsed time in seconds.
func FormatResponseLine(resp *Response, hint string) string {
	return fmt.Sprintf("HTTP response%s:\n  > Status: %d\n  > Duration: %.03fs",
		formatHint(hint), resp.StatusCode, resp.Elapsed.Seconds())
}

// FormatResponseHeaders renders the response headers.
func FormatResponseHeaders(header http.Header) string {
	return "HTTP response headers:\n" + formatHeader(header)
}

// FormatResponseBody renders the response body as JSON, text or base64 binary.
func FormatResponseBody(resp *Response) string {
	if len(resp.Content) == 0 {
		return "HTTP response body:\n" + notAvailable
	}

	if gjson.ValidBytes(resp.Content) {
		return "HTTP response body (JSON):\n" + prettyJSON(unescapeJSON(resp.Content))
	}

	if text, ok := decodeText(resp.Content, resp.Header.Get(headerContentType)); ok {
		return "HTTP response body:\n" + text
	}

	return "HTTP response body (binary, base64-ified):\n" + formatBinary(resp.Content)
}

func formatHint(hint string) string {
	if hint == "" {
		return ""
	}

	return " (" + hint + ")"
}

func formatHeader(header http.Header) string {
	names := make([]string, 0, len(header))
	for name := range header {
		names = append(names, name)
	}

	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("- %s: %s", name, strings.Join(header[name], ", ")))
	}

	return strings.Join(lines, "\n")
}

func formatFormFields(fields []formField) string {
	lines := make([]string, 0, len(fields))
	for _, field := range fields {
		lines = append(lines, fmt.Sprintf("- %s: %s", field.name, field.value))
	}

	return strings.Join(lines, "\n")
}

func formatFiles(files Files) string {
	parts := files.Parts()

	lines := make([]string, 0, len(parts))
	for _, named := range parts {
		if named.Part.ContentType == "" {
			lines = append(lines, "- "+named.Part.Filename)

			continue
		}

		lines = append(lines, fmt.Sprintf("- %s (%s)", named.Part.Filename, named.Part.ContentType))
	}

	return strings.Join(lines, "\n")
}

// formatBinary encodes data as base64 split in newline-terminated 76-column lines.
func formatBinary(data []byte) string {
	encoded := base64.StdEncoding.EncodeToString(data)

	var b strings.Builder

	b.Grow(len(encoded) + len(encoded)/base64LineLength + 1)

	for len(encoded) > 0 {
		n := min(base64LineLength, len(encoded))
		b.WriteString(encoded[:n])
		b.WriteByte('\n')
		encoded = encoded[n:]
	}

	return b.String()
}

// formatJSONValue marshals a Go value without HTML escaping and pretty-prints it.
// Values that cannot be marshaled are rendered with fmt.
func formatJSONValue(value any) string {
	var buf bytes.Buffer

	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(value); err != nil {
		return fmt.Sprint(value)
	}

	return prettyJSON(buf.Bytes())
}

func prettyJSON(data []byte) string {
	return strings.TrimRight(string(pretty.PrettyOptions(data, jsonPrettyOptions)), "\n")
}

// unescapeJSON rewrites a valid JSON document with its string escapes resolved,
// so non-ASCII text reads literally. Key order and number literals are kept.
func unescapeJSON(data []byte) []byte {
	var buf bytes.Buffer

	writeLiteralJSON(&buf, gjson.ParseBytes(data))

	return buf.Bytes()
}

func writeLiteralJSON(buf *bytes.Buffer, value gjson.Result) {
	switch {
	case value.IsObject():
		buf.WriteByte('{')

		first := true

		value.ForEach(func(key, item gjson.Result) bool {
			if !first {
				buf.WriteByte(',')
			}

			first = false

			writeJSONString(buf, key.String())
			buf.WriteByte(':')
			writeLiteralJSON(buf, item)

			return true
		})

		buf.WriteByte('}')
	case value.IsArray():
		buf.WriteByte('[')

		for i, item := range value.Array() {
			if i > 0 {
				buf.WriteByte(',')
			}

			writeLiteralJSON(buf, item)
		}

		buf.WriteByte(']')
	case value.Type == gjson.String:
		writeJSONString(buf, value.String())
	default:
		buf.WriteString(value.Raw)
	}
}

// writeJSONString quotes s escaping only what JSON requires.
func writeJSONString(buf *bytes.Buffer, s string) {
	encoder := json.NewEncoder(buf)
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(s); err != nil {
		buf.WriteString(`""`)

		return
	}

	// Encode terminates every value with a newline.
	buf.Truncate(buf.Len() - 1)
}

// isInvalidUTF8 reports whether content declared as UTF-8 is not. The UTF-8 decoder
// would otherwise replace the invalid bytes instead of failing.
func isInvalidUTF8(enc encoding.Encoding, content []byte) bool {
	name, err := htmlindex.Name(enc)

	return err == nil && name == "utf-8" && !utf8.Valid(content)
}

// decodeText returns the body as text when it looks textual.
// A declared charset is honored; otherwise the content must be valid UTF-8.
func decodeText(content []byte, contentType string) (string, bool) {
	sniffed := http.DetectContentType(content)

	if charset := utils.ContentTypeCharset(contentType); charset != "" && strings.HasPrefix(sniffed, "text/") {
		if enc, err := htmlindex.Get(charset); err == nil && !isInvalidUTF8(enc, content) {
			if decoded, err := enc.NewDecoder().Bytes(content); err == nil {
				return string(decoded), true
			}
		}
	}

	if utf8.Valid(content) && utils.IsTextContentType(sniffed) {
		return string(content), true
	}

	return "", false
}
