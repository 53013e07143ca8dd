package requests

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/oshokin/reqcheck/pkg/matcher"
)

// statusCodeHint names the checked value in report entries.
const statusCodeHint = "HTTP status code"

// Static error definitions for better error handling.
var (
	// ErrNilResponse indicates that a nil *http.Response was wrapped.
	ErrNilResponse = errors.New("response is nil")
	// ErrNilChecker indicates that a response was wrapped without a checker.
	ErrNilChecker = errors.New("checker is nil")
)

// Response is an *http.Response with its body read into Content and status code helpers.
type Response struct {
	*http.Response

	// Content is the whole response body. Body is replaced with a reader over it.
	Content []byte
	// Elapsed is the time between sending the request and receiving the response headers.
	Elapsed time.Duration
	// Outgoing is the request as described by the caller.
	Outgoing *Request

	checker *matcher.Checker
}

// WrapResponse reads and closes the body of raw and returns the wrapper.
// checker reports the Check, Require and Assert helpers and is required.
func WrapResponse(raw *http.Response, outgoing *Request, checker *matcher.Checker, elapsed time.Duration) (*Response, error) {
	if raw == nil {
		return nil, ErrNilResponse
	}

	if checker == nil {
		return nil, ErrNilChecker
	}

	var content []byte

	if raw.Body != nil {
		data, err := io.ReadAll(raw.Body)
		closeErr := raw.Body.Close()

		if err != nil {
			return nil, fmt.Errorf("failed to read response body: %w", err)
		}

		if closeErr != nil {
			return nil, fmt.Errorf("failed to close response body: %w", closeErr)
		}

		content = data
	}

	raw.Body = io.NopCloser(bytes.NewReader(content))

	return &Response{
		Response: raw,
		Content:  content,
		Elapsed:  elapsed,
		Outgoing: outgoing,
		checker:  checker,
	}, nil
}

// Text returns the body decoded as text, falling back to the raw bytes.
func (r *Response) Text() string {
	if text, ok := decodeText(r.Content, r.Header.Get(headerContentType)); ok {
		return text
	}

	return string(r.Content)
}

// JSON unmarshals the body into v.
func (r *Response) JSON(v any) error {
	if err := json.Unmarshal(r.Content, v); err != nil {
		return fmt.Errorf("failed to decode response body as JSON: %w", err)
	}

	return nil
}

// CheckStatusCode records a check of the status code against expected, an int or a matcher.Matcher.
func (r *Response) CheckStatusCode(expected any) *Response {
	r.checker.CheckThat(r.context(), statusCodeHint, r.StatusCode, matcher.Is(expected))

	return r
}

// CheckOK records a check that the status code is 2xx.
func (r *Response) CheckOK() *Response {
	return r.CheckStatusCode(Is2xx())
}

// RequireStatusCode records a check and aborts the test when it fails.
func (r *Response) RequireStatusCode(expected any) *Response {
	r.checker.RequireThat(r.context(), statusCodeHint, r.StatusCode, matcher.Is(expected))

	return r
}

// RequireOK requires a 2xx status code.
func (r *Response) RequireOK() *Response {
	return r.RequireStatusCode(Is2xx())
}

// AssertStatusCode aborts the test when the status code does not match. Nothing is recorded on success.
func (r *Response) AssertStatusCode(expected any) *Response {
	r.checker.AssertThat(r.context(), statusCodeHint, r.StatusCode, matcher.Is(expected))

	return r
}

// AssertOK asserts a 2xx status code.
func (r *Response) AssertOK() *Response {
	return r.AssertStatusCode(Is2xx())
}

// ExpectStatusCode returns a *StatusCodeError when the status code does not match.
// Nothing is reported; the caller decides what to do with the error.
func (r *Response) ExpectStatusCode(expected any) (*Response, error) {
	m := matcher.Is(expected)

	result := m.Match(r.StatusCode)
	if !result.Passed {
		return r, &StatusCodeError{
			Response: r,
			Matcher:  m,
			Result:   result,
		}
	}

	return r, nil
}

// ExpectOK returns a *StatusCodeError unless the status code is 2xx.
func (r *Response) ExpectOK() (*Response, error) {
	return r.ExpectStatusCode(Is2xx())
}

func (r *Response) context() context.Context {
	if r.Request != nil {
		return r.Request.Context()
	}

	return context.Background()
}
