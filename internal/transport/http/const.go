package http

import "time"

const (
	// DefaultTimeout is the default timeout duration for probe requests.
	DefaultTimeout = 30 * time.Second

	// DefaultProduct is the product token of the default User-Agent.
	DefaultProduct = "reqcheck"

	// userAgentHeader is the HTTP header name for User-Agent.
	userAgentHeader = "User-Agent"
)
