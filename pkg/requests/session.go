package requests

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/oshokin/reqcheck/pkg/matcher"
	"github.com/oshokin/reqcheck/pkg/report"
)

// Session issues HTTP calls and reports each of them.
// It holds no per-call state and is safe for concurrent use.
type Session struct {
	reporter report.Reporter
	checker  *matcher.Checker
	client   *http.Client
	baseURL  string
	policy   *Policy
	hint     string
	header   http.Header
}

// sessionOptions collects what SessionOption values configure.
type sessionOptions struct {
	baseURL     string
	policy      *Policy
	hint        string
	client      *http.Client
	transport   http.RoundTripper
	middlewares []Middleware
	header      http.Header
}

// SessionOption configures a Session.
type SessionOption func(*sessionOptions)

// WithBaseURL prefixes every call URL with baseURL.
func WithBaseURL(baseURL string) SessionOption {
	return func(o *sessionOptions) {
		o.baseURL = baseURL
	}
}

// WithPolicy sets the session-wide logging policy. The default is PolicyOn.
func WithPolicy(policy *Policy) SessionOption {
	return func(o *sessionOptions) {
		o.policy = policy
	}
}

// WithHint labels every entry reported by the session.
func WithHint(hint string) SessionOption {
	return func(o *sessionOptions) {
		o.hint = hint
	}
}

// WithHTTPClient sets the client used to send requests. Its Transport is wrapped, not modified.
func WithHTTPClient(client *http.Client) SessionOption {
	return func(o *sessionOptions) {
		o.client = client
	}
}

// WithTransport replaces the client transport, e.g. with a test double.
func WithTransport(transport http.RoundTripper) SessionOption {
	return func(o *sessionOptions) {
		o.transport = transport
	}
}

// WithMiddleware adds transport middlewares. The first one is the outermost.
func WithMiddleware(middlewares ...Middleware) SessionOption {
	return func(o *sessionOptions) {
		o.middlewares = append(o.middlewares, middlewares...)
	}
}

// WithSessionHeader sets a header sent with every call unless the call sets it.
func WithSessionHeader(name, value string) SessionOption {
	return func(o *sessionOptions) {
		if o.header == nil {
			o.header = http.Header{}
		}

		o.header.Set(name, value)
	}
}

// NewSession creates a Session reporting to reporter.
func NewSession(reporter report.Reporter, options ...SessionOption) *Session {
	opts := sessionOptions{}
	for _, option := range options {
		option(&opts)
	}

	client := &http.Client{}
	if opts.client != nil {
		c := *opts.client
		client = &c
	}

	transport := client.Transport
	if opts.transport != nil {
		transport = opts.transport
	}

	transport = newLogTransport(transport)
	for i := len(opts.middlewares) - 1; i >= 0; i-- {
		transport = opts.middlewares[i](transport)
	}

	client.Transport = transport

	policy := opts.policy
	if policy == nil {
		policy = PolicyOn()
	}

	return &Session{
		reporter: reporter,
		checker:  matcher.NewChecker(reporter),
		client:   client,
		baseURL:  opts.baseURL,
		policy:   policy,
		hint:     opts.hint,
		header:   opts.header,
	}
}

// Policy returns the session-wide policy.
func (s *Session) Policy() *Policy {
	return s.policy
}

// Do sends req and reports it with the session policy, or req.Policy when set.
// req itself is not modified. Transport errors are returned as is.
func (s *Session) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	outgoing := req.clone()
	outgoing.URL = s.baseURL + req.URL
	outgoing.Policy = nil

	for name, values := range s.header {
		if outgoing.Header.Get(name) != "" {
			continue
		}

		if outgoing.Header == nil {
			outgoing.Header = http.Header{}
		}

		outgoing.Header[name] = append([]string(nil), values...)
	}

	policy := s.policy
	if req.Policy != nil {
		policy = req.Policy
	}

	state := &callState{
		reporter: s.reporter,
		policy:   policy,
		hint:     s.hint,
		outgoing: outgoing,
	}

	httpReq, err := outgoing.build(withCallState(ctx, state))
	if err != nil {
		return nil, err
	}

	startTime := time.Now()

	//nolint:bodyclose // The body is drained and closed by WrapResponse.
	raw, err := s.client.Do(httpReq)
	if err != nil {
		return nil, err
	}

	resp, err := WrapResponse(raw, outgoing, s.checker, time.Since(startTime))
	if err != nil {
		return nil, err
	}

	policy.LogResponse(ctx, s.reporter, resp, s.hint)

	return resp, nil
}

// Request builds a request from method, url and options and sends it.
func (s *Session) Request(ctx context.Context, method, url string, options ...RequestOption) (*Response, error) {
	return s.Do(ctx, NewRequest(strings.ToUpper(method), url, options...))
}

// Get sends a GET request.
func (s *Session) Get(ctx context.Context, url string, options ...RequestOption) (*Response, error) {
	return s.Request(ctx, http.MethodGet, url, options...)
}

// Options sends an OPTIONS request.
func (s *Session) Options(ctx context.Context, url string, options ...RequestOption) (*Response, error) {
	return s.Request(ctx, http.MethodOptions, url, options...)
}

// Head sends a HEAD request.
func (s *Session) Head(ctx context.Context, url string, options ...RequestOption) (*Response, error) {
	return s.Request(ctx, http.MethodHead, url, options...)
}

// Delete sends a DELETE request.
func (s *Session) Delete(ctx context.Context, url string, options ...RequestOption) (*Response, error) {
	return s.Request(ctx, http.MethodDelete, url, options...)
}

// Post sends a POST request with data as form data or raw body. data may be nil.
func (s *Session) Post(ctx context.Context, url string, data any, options ...RequestOption) (*Response, error) {
	return s.Request(ctx, http.MethodPost, url, withPayload(data, options)...)
}

// Put sends a PUT request with data as form data or raw body. data may be nil.
func (s *Session) Put(ctx context.Context, url string, data any, options ...RequestOption) (*Response, error) {
	return s.Request(ctx, http.MethodPut, url, withPayload(data, options)...)
}

// Patch sends a PATCH request with data as form data or raw body. data may be nil.
func (s *Session) Patch(ctx context.Context, url string, data any, options ...RequestOption) (*Response, error) {
	return s.Request(ctx, http.MethodPatch, url, withPayload(data, options)...)
}

func withPayload(data any, options []RequestOption) []RequestOption {
	if data == nil {
		return options
	}

	return append([]RequestOption{WithData(data)}, options...)
}
