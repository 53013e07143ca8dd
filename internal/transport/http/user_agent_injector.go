package http

import (
	"net/http"
	"time"

	"github.com/oshokin/reqcheck/internal/utils"
	"github.com/oshokin/reqcheck/pkg/requests"
)

// UserAgentInjector is a custom http.RoundTripper that sets a User-Agent header on requests that have none.
// The request is cloned before it is changed.
type UserAgentInjector struct {
	// next is the underlying HTTP round tripper.
	next http.RoundTripper
	// userAgentProvider provides the User-Agent string to inject.
	userAgentProvider utils.UserAgentProvider
}

// NewUserAgentInjector creates and returns a new instance of UserAgentInjector.
func NewUserAgentInjector(next http.RoundTripper, userAgentProvider utils.UserAgentProvider) http.RoundTripper {
	return &UserAgentInjector{
		next:              next,
		userAgentProvider: userAgentProvider,
	}
}

// UserAgentMiddleware returns a session middleware injecting the provider's User-Agent.
func UserAgentMiddleware(userAgentProvider utils.UserAgentProvider) requests.Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return NewUserAgentInjector(next, userAgentProvider)
	}
}

// RoundTrip executes a single HTTP transaction and injects a User-Agent header if it is missing.
// It implements the http.RoundTripper interface.
func (t *UserAgentInjector) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get(userAgentHeader) == "" {
		req = req.Clone(req.Context())
		req.Header.Set(userAgentHeader, t.userAgentProvider.GetUserAgent())
	}

	return t.next.RoundTrip(req)
}

// NewClient returns an HTTP client with the given timeout, falling back to DefaultTimeout.
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &http.Client{Timeout: timeout}
}
