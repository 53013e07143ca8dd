package requests

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/oshokin/reqcheck/pkg/report"
	mock_report "github.com/oshokin/reqcheck/pkg/report/mocks"
)

// toggles lists the six category switches of a policy.
func toggles(p *Policy) [6]bool {
	return [6]bool{
		p.RequestLineLogging, p.RequestHeadersLogging, p.RequestBodyLogging,
		p.ResponseCodeLogging, p.ResponseHeadersLogging, p.ResponseBodyLogging,
	}
}

// TestPolicyPresets tests that the presets only differ where they should.
func TestPolicyPresets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		policy   *Policy
		expected [6]bool
	}{
		{
			name:     "on",
			policy:   PolicyOn(),
			expected: [6]bool{true, true, true, true, true, true},
		},
		{
			name:     "off",
			policy:   PolicyOff(),
			expected: [6]bool{false, false, false, false, false, false},
		},
		{
			name:     "no headers",
			policy:   PolicyNoHeaders(),
			expected: [6]bool{true, false, true, true, false, true},
		},
		{
			name:     "no response body",
			policy:   PolicyNoResponseBody(),
			expected: [6]bool{true, true, true, true, true, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, toggles(tt.policy))
			assert.Equal(t, DefaultMaxInlineSize, tt.policy.MaxInlineSize)
			assert.False(t, tt.policy.Debug)
		})
	}
}

// TestParsePolicy tests preset lookup by name.
func TestParsePolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected *Policy
		wantErr  bool
	}{
		{name: "empty means on", input: "", expected: PolicyOn()},
		{name: "on", input: "on", expected: PolicyOn()},
		{name: "off with spaces", input: " OFF ", expected: PolicyOff()},
		{name: "no headers", input: "no-headers", expected: PolicyNoHeaders()},
		{name: "no response body", input: "no-response-body", expected: PolicyNoResponseBody()},
		{name: "unknown", input: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			policy, err := ParsePolicy(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownPolicy)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, policy)
		})
	}
}

// TestPolicyPresetsAreFresh tests that presets and clones do not share state.
func TestPolicyPresetsAreFresh(t *testing.T) {
	t.Parallel()

	first := PolicyOn()
	first.RequestLineLogging = false

	assert.True(t, PolicyOn().RequestLineLogging)

	clone := first.Clone()
	clone.ResponseBodyLogging = false

	assert.True(t, first.ResponseBodyLogging)
	assert.False(t, clone.RequestLineLogging)
}

// TestPolicy_LogRequest tests the request categories in order.
func TestPolicy_LogRequest(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	mockReporter := mock_report.NewMockReporter(ctrl)

	outgoing := &Request{
		Method: http.MethodPost,
		URL:    "http://www.example.net/x",
		Header: http.Header{"Foo": {"outgoing"}},
		Data:   "foobar",
	}
	prepared, err := http.NewRequestWithContext(ctx, http.MethodPost, outgoing.URL, nil)
	require.NoError(t, err)
	prepared.Header.Set("Foo", "prepared")

	gomock.InOrder(
		mockReporter.EXPECT().LogInfo(ctx, "HTTP request (hint):\n  > POST http://www.example.net/x"),
		mockReporter.EXPECT().LogInfo(ctx, "HTTP request headers:\n- Foo: prepared"),
		mockReporter.EXPECT().LogInfo(ctx, "HTTP request body:\nfoobar"),
	)

	PolicyOn().LogRequest(ctx, mockReporter, outgoing, prepared, "hint")
}

// TestPolicy_LogRequestSkipsEmptyBody tests that a request without body emits no body entry.
func TestPolicy_LogRequestSkipsEmptyBody(t *testing.T) {
	t.Parallel()

	recorder := report.NewRecorder()
	PolicyOn().LogRequest(context.Background(), recorder, &Request{URL: "http://www.example.net"}, nil, "")

	assert.Len(t, recorder.Entries(), 2)
}

// TestPolicy_ResponseHeaders tests that response headers are logged only when enabled.
func TestPolicy_ResponseHeaders(t *testing.T) {
	t.Parallel()

	resp := newTestResponse(t, http.StatusOK, http.Header{"Foo": {"bar"}}, nil)

	enabled := report.NewRecorder()
	PolicyOn().LogResponse(context.Background(), enabled, resp, "")

	entries := enabled.Entries()
	require.Len(t, entries, 3)
	assert.Contains(t, entries[1].Text, "Foo")
	assert.Contains(t, entries[1].Text, "bar")

	disabled := report.NewRecorder()
	PolicyNoHeaders().LogResponse(context.Background(), disabled, resp, "")

	for _, entry := range disabled.Entries() {
		assert.NotContains(t, entry.Text, "HTTP response headers")
	}

	assert.Len(t, disabled.Entries(), 2)
}

// TestPolicy_MaxInlineSize tests the inline threshold on the rendered body.
func TestPolicy_MaxInlineSize(t *testing.T) {
	t.Parallel()

	body := "HTTP request body:\n" + strings.Repeat("é", 10)
	size := len([]rune(body))

	tests := []struct {
		name          string
		maxInlineSize int
		debug         bool
		attached      bool
	}{
		{name: "at threshold", maxInlineSize: size, attached: false},
		{name: "above threshold", maxInlineSize: size - 1, attached: true},
		{name: "no threshold", maxInlineSize: 0, attached: false},
		{name: "debug keeps inline", maxInlineSize: 1, debug: true, attached: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			policy := &Policy{RequestBodyLogging: true, MaxInlineSize: tt.maxInlineSize, Debug: tt.debug}
			recorder := report.NewRecorder()

			policy.LogRequest(context.Background(), recorder, &Request{Data: strings.Repeat("é", 10)}, nil, "")

			attachments := recorder.EntriesOf(report.EntryAttachment)
			if !tt.attached {
				assert.Empty(t, attachments)

				return
			}

			require.Len(t, attachments, 1)
			assert.Equal(t, "request-body.txt", attachments[0].Filename)
			assert.Equal(t, "HTTP request body", attachments[0].Text)
			assert.Equal(t, body, attachments[0].Content)
		})
	}
}

// TestPolicy_Debug tests that debug policies use the debug channel.
func TestPolicy_Debug(t *testing.T) {
	t.Parallel()

	policy := PolicyOn()
	policy.Debug = true

	recorder := report.NewRecorder()
	resp := newTestResponse(t, http.StatusOK, nil, []byte("ok"))

	policy.LogResponse(context.Background(), recorder, resp, "")

	assert.Len(t, recorder.EntriesOf(report.EntryDebug), 3)
	assert.Empty(t, recorder.EntriesOf(report.EntryInfo))
}
