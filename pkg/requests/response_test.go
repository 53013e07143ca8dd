package requests

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/reqcheck/pkg/matcher"
	"github.com/oshokin/reqcheck/pkg/report"
)

func newCheckedResponse(t *testing.T, status int, reporter report.Reporter) *Response {
	t.Helper()

	outgoing := &Request{
		Method: http.MethodPost,
		URL:    "http://www.example.net/users",
		Params: map[string][]string{"dry": {"1"}},
		Header: http.Header{"Foo": {"bar"}},
		Data:   "payload",
	}

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, outgoing.FullURL(), nil)
	require.NoError(t, err)
	req.Header.Set("Foo", "bar")

	resp, err := WrapResponse(&http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": {"application/json"}},
		Body:       io.NopCloser(bytes.NewReader([]byte(`{"id":1}`))),
		Request:    req,
	}, outgoing, matcher.NewChecker(reporter), 20*time.Millisecond)
	require.NoError(t, err)

	return resp
}

// TestWrapResponse tests that the body is buffered and stays readable.
func TestWrapResponse(t *testing.T) {
	t.Parallel()

	resp := newCheckedResponse(t, http.StatusOK, report.NewRecorder())

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1}`, string(body))
	assert.Equal(t, body, resp.Content)
	assert.Equal(t, `{"id":1}`, resp.Text())

	var decoded struct {
		ID int `json:"id"`
	}

	require.NoError(t, resp.JSON(&decoded))
	assert.Equal(t, 1, decoded.ID)

	_, err = WrapResponse(nil, nil, nil, 0)
	require.ErrorIs(t, err, ErrNilResponse)
}

// TestWrapResponse_NilChecker tests that a response cannot be wrapped without a checker.
func TestWrapResponse_NilChecker(t *testing.T) {
	t.Parallel()

	body := &closeTracker{Reader: strings.NewReader("ok")}

	resp, err := WrapResponse(&http.Response{StatusCode: http.StatusOK, Body: body}, nil, nil, 0)
	require.ErrorIs(t, err, ErrNilChecker)
	assert.Nil(t, resp)
	assert.False(t, body.closed)
}

// closeTracker records whether Close was called.
type closeTracker struct {
	io.Reader
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true

	return nil
}

// TestResponse_CheckStatusCode tests that checks are recorded and chain.
func TestResponse_CheckStatusCode(t *testing.T) {
	t.Parallel()

	recorder := report.NewRecorder()
	resp := newCheckedResponse(t, http.StatusOK, recorder)

	assert.Same(t, resp, resp.CheckStatusCode(200).CheckStatusCode(201).CheckOK())

	checks := recorder.EntriesOf(report.EntryCheck)
	require.Len(t, checks, 3)

	assert.Equal(t, "Expect HTTP status code to be equal to 200", checks[0].Text)
	assert.True(t, checks[0].Passed)
	assert.Equal(t, "Expect HTTP status code to be equal to 201", checks[1].Text)
	assert.False(t, checks[1].Passed)
	assert.Equal(t, "got 200", checks[1].Details)
	assert.Equal(t, "Expect HTTP status code to be 2xx", checks[2].Text)
	assert.True(t, checks[2].Passed)
}

// TestResponse_RequireStatusCode tests that a failed requirement is recorded then aborts.
func TestResponse_RequireStatusCode(t *testing.T) {
	t.Parallel()

	recorder := report.NewRecorder()
	resp := newCheckedResponse(t, http.StatusNotFound, recorder)

	err := report.CatchAbort(func() {
		resp.RequireStatusCode(Is4xx())
	})
	require.NoError(t, err)

	err = report.CatchAbort(func() {
		resp.RequireOK()
	})
	require.ErrorIs(t, err, report.ErrTestAborted)

	assert.Equal(t, report.Summary{Passed: 1, Failed: 1, Aborted: 1}, recorder.Summary())
}

// TestResponse_AssertStatusCode tests that assertions are silent on success.
func TestResponse_AssertStatusCode(t *testing.T) {
	t.Parallel()

	recorder := report.NewRecorder()
	resp := newCheckedResponse(t, http.StatusInternalServerError, recorder)

	err := report.CatchAbort(func() {
		resp.AssertStatusCode(matcher.AnyOf(500, 503))
	})
	require.NoError(t, err)
	assert.Empty(t, recorder.Entries())

	err = report.CatchAbort(func() {
		resp.AssertOK()
	})
	require.ErrorIs(t, err, report.ErrTestAborted)
	assert.Equal(t, 1, recorder.Summary().Aborted)
}

// TestResponse_ExpectStatusCode tests the error returned on mismatch.
func TestResponse_ExpectStatusCode(t *testing.T) {
	t.Parallel()

	recorder := report.NewRecorder()
	resp := newCheckedResponse(t, http.StatusOK, recorder)

	same, err := resp.ExpectStatusCode(200)
	require.NoError(t, err)
	assert.Same(t, resp, same)

	_, err = resp.ExpectOK()
	require.NoError(t, err)

	_, err = resp.ExpectStatusCode(201)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrStatusCodeMismatch)
	assert.Regexp(t, `^expected .*201.* .*200.*`, err.Error())

	var statusErr *StatusCodeError

	require.True(t, errors.As(err, &statusErr))
	assert.Same(t, resp, statusErr.Response)
	assert.False(t, statusErr.Result.Passed)

	expected := "expected status code to be equal to 201, got 200\n\n" +
		"HTTP request:\n  > POST http://www.example.net/users?dry=1\n\n" +
		"HTTP request headers:\n- Foo: bar\n\n" +
		"HTTP request body:\npayload\n\n" +
		"HTTP response:\n  > Status: 200\n  > Duration: 0.020s\n\n" +
		"HTTP response headers:\n- Content-Type: application/json\n\n" +
		"HTTP response body (JSON):\n{\n    \"id\": 1\n}"
	assert.Equal(t, expected, err.Error())

	assert.Empty(t, recorder.Entries())
}
