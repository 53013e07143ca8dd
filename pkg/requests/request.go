package requests

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"sync"
)

// Static error definitions for better error handling.
var (
	// ErrUnsupportedFormData indicates that files were combined with a non-mapping data payload.
	ErrUnsupportedFormData = errors.New("files can only be combined with mapping form data")
	// ErrNilRequest indicates that a nil request was passed to a session.
	ErrNilRequest = errors.New("request is nil")
)

const (
	headerContentType = "Content-Type"

	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded"
)

// Request is the outgoing request as described by the caller, before transport defaults are merged.
// It is kept on the Response so that failed checks can show what was sent.
type Request struct {
	// Method is the HTTP method. Empty means GET.
	Method string
	// URL is the target URL, already prefixed with the session base URL once sent.
	URL string
	// Params are appended to the URL query string.
	Params url.Values
	// Header holds caller supplied headers.
	Header http.Header
	// JSON is marshaled as the body when neither Data nor Files are set.
	JSON any
	// Data is the form data or raw body: a string-keyed map, a generator
	// (iter.Seq[[]byte] or iter.Seq[string]), an io.Reader, a []byte or text.
	Data any
	// Files are sent as multipart/form-data, along with mapping Data as form fields.
	Files Files
	// Policy overrides the session logging policy for this call only.
	Policy *Policy
}

// RequestOption customizes a Request built by the session verb helpers.
type RequestOption func(*Request)

// WithParams adds query string parameters.
func WithParams(params url.Values) RequestOption {
	return func(r *Request) {
		if r.Params == nil {
			r.Params = url.Values{}
		}

		for name, values := range params {
			r.Params[name] = append(r.Params[name], values...)
		}
	}
}

// WithHeader sets a single header.
func WithHeader(name, value string) RequestOption {
	return func(r *Request) {
		if r.Header == nil {
			r.Header = http.Header{}
		}

		r.Header.Set(name, value)
	}
}

// WithHeaders merges headers into the request headers.
func WithHeaders(header http.Header) RequestOption {
	return func(r *Request) {
		if r.Header == nil {
			r.Header = http.Header{}
		}

		for name, values := range header {
			for _, value := range values {
				r.Header.Add(name, value)
			}
		}
	}
}

// WithJSON sets the JSON payload.
func WithJSON(payload any) RequestOption {
	return func(r *Request) {
		r.JSON = payload
	}
}

// WithData sets the form data or raw body.
func WithData(data any) RequestOption {
	return func(r *Request) {
		r.Data = data
	}
}

// WithFiles sets multipart file parts.
func WithFiles(files Files) RequestOption {
	return func(r *Request) {
		r.Files = files
	}
}

// WithCallPolicy overrides the session logging policy for this call only.
func WithCallPolicy(policy *Policy) RequestOption {
	return func(r *Request) {
		r.Policy = policy
	}
}

// NewRequest builds a Request from a method, a URL and options.
func NewRequest(method, rawURL string, options ...RequestOption) *Request {
	r := &Request{
		Method: method,
		URL:    rawURL,
	}

	for _, option := range options {
		option(r)
	}

	return r
}

// FullURL returns the URL with the encoded Params appended, using "&" when the URL already has a query.
func (r *Request) FullURL() string {
	return appendQuery(r.URL, r.Params)
}

// method returns the normalized HTTP method.
func (r *Request) method() string {
	if r.Method == "" {
		return http.MethodGet
	}

	return strings.ToUpper(r.Method)
}

// clone returns a shallow copy with its own Header and Params maps.
func (r *Request) clone() *Request {
	c := *r
	c.Method = r.method()
	c.Header = r.Header.Clone()

	if r.Params != nil {
		c.Params = make(url.Values, len(r.Params))
		for name, values := range r.Params {
			c.Params[name] = append([]string(nil), values...)
		}
	}

	return &c
}

// build turns the Request into an *http.Request bound to ctx.
func (r *Request) build(ctx context.Context) (*http.Request, error) {
	body, contentType, err := r.encodeBody()
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, r.method(), r.FullURL(), body)
	if err != nil {
		// Only bodies created here are closed; a caller's io.Reader is left alone.
		if generator, ok := body.(*generatorReader); ok {
			_ = generator.Close()
		}

		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	for name, values := range r.Header {
		httpReq.Header[textproto.CanonicalMIMEHeaderKey(name)] = append([]string(nil), values...)
	}

	if contentType != "" && httpReq.Header.Get(headerContentType) == "" {
		httpReq.Header.Set(headerContentType, contentType)
	}

	return httpReq, nil
}

// encodeBody picks the transmitted body: files first, then form data, then the JSON payload.
func (r *Request) encodeBody() (io.Reader, string, error) {
	kind := classifyData(r.Data)

	if hasFiles(r.Files) {
		if kind != dataNone && kind != dataMapping {
			return nil, "", ErrUnsupportedFormData
		}

		return encodeMultipart(r.Data, r.Files)
	}

	switch kind {
	case dataMapping:
		return strings.NewReader(urlValues(r.Data).Encode()), contentTypeForm, nil
	case dataGenerator:
		return generatorBody(r.Data), "", nil
	case dataStream:
		reader, _ := r.Data.(io.Reader)

		return reader, "", nil
	case dataBinary:
		data, _ := r.Data.([]byte)

		return bytes.NewReader(data), "", nil
	case dataText:
		return strings.NewReader(textData(r.Data)), "", nil
	case dataNone:
	}

	if r.JSON == nil {
		return nil, "", nil
	}

	payload, err := json.Marshal(r.JSON)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode JSON payload: %w", err)
	}

	return bytes.NewReader(payload), contentTypeJSON, nil
}

// quoteEscaper escapes Content-Disposition parameter values the way mime/multipart does.
//
//nolint:gochecknoglobals // Immutable replacer used as a constant.
var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func encodeMultipart(data any, files Files) (io.Reader, string, error) {
	var (
		buf    bytes.Buffer
		writer = multipart.NewWriter(&buf)
	)

	for _, field := range formFields(data) {
		if err := writer.WriteField(field.name, field.value); err != nil {
			return nil, "", fmt.Errorf("failed to write form field %q: %w", field.name, err)
		}
	}

	for _, named := range files.Parts() {
		contentType := named.Part.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(named.Field), quoteEscaper.Replace(named.Part.Filename)))
		header.Set(headerContentType, contentType)

		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create part for %q: %w", named.Part.Filename, err)
		}

		if named.Part.Content == nil {
			continue
		}

		if _, err = io.Copy(part, named.Part.Content); err != nil {
			return nil, "", fmt.Errorf("failed to read content of %q: %w", named.Part.Filename, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish multipart body: %w", err)
	}

	return &buf, writer.FormDataContentType(), nil
}

// generatorBody streams a generator payload. The producer starts on the first Read,
// so a request that is never sent leaves no goroutine behind.
func generatorBody(data any) io.ReadCloser {
	return &generatorReader{data: data}
}

// generatorReader feeds a generator through a pipe once the transport starts reading.
type generatorReader struct {
	data   any
	once   sync.Once
	reader *io.PipeReader
}

func (g *generatorReader) Read(p []byte) (int, error) {
	g.once.Do(g.start)

	return g.reader.Read(p)
}

// Close stops the producer. Closing before the first Read never starts it.
func (g *generatorReader) Close() error {
	g.once.Do(func() {
		g.reader, _ = io.Pipe()
	})

	return g.reader.Close()
}

func (g *generatorReader) start() {
	reader, writer := io.Pipe()
	g.reader = reader

	go func() {
		var writeErr error

		drainGenerator(g.data, func(chunk []byte) bool {
			_, writeErr = writer.Write(chunk)

			return writeErr == nil
		})

		writer.CloseWithError(writeErr) //nolint:errcheck // CloseWithError always returns nil.
	}()
}

func textData(data any) string {
	if s, ok := data.(string); ok {
		return s
	}

	return fmt.Sprint(data)
}

func appendQuery(rawURL string, params url.Values) string {
	if len(params) == 0 {
		return rawURL
	}

	separator := "?"
	if strings.Contains(rawURL, "?") {
		separator = "&"
	}

	return rawURL + separator + params.Encode()
}
