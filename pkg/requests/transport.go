package requests

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/oshokin/reqcheck/pkg/report"
)

// callState is what one Session call carries through the transport.
type callState struct {
	// reporter receives the request entries.
	reporter report.Reporter
	// policy is the effective policy of the call.
	policy *Policy
	// hint annotates the entries.
	hint string
	// outgoing is the caller-side request.
	outgoing *Request
	// logged is set once the request has been reported, so redirect hops are not.
	logged atomic.Bool
}

type callStateKey struct{}

func withCallState(ctx context.Context, state *callState) context.Context {
	return context.WithValue(ctx, callStateKey{}, state)
}

func callStateFrom(ctx context.Context) *callState {
	state, _ := ctx.Value(callStateKey{}).(*callState)

	return state
}

// Middleware wraps the session transport. Middlewares run before the request is reported,
// so headers they set show up in the logged request.
type Middleware func(next http.RoundTripper) http.RoundTripper

// logTransport reports the request of a Session call right before it is sent.
type logTransport struct {
	// next is the underlying HTTP round tripper.
	next http.RoundTripper
}

// newLogTransport wraps next with request reporting.
func newLogTransport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}

	return &logTransport{next: next}
}

// RoundTrip implements http.RoundTripper.
// Requests issued outside a Session call are forwarded untouched.
func (t *logTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	state := callStateFrom(req.Context())
	if state != nil && state.logged.CompareAndSwap(false, true) {
		state.policy.LogRequest(req.Context(), state.reporter, state.outgoing, req, state.hint)
	}

	return t.next.RoundTrip(req)
}
