package utils

//go:generate $MOCKGEN -source=user_agent_provider.go -destination=mocks/user_agent_provider_mock.go

import (
	"runtime"
	"strings"
)

// UserAgentProvider is an interface that defines a method for retrieving a User-Agent string.
type UserAgentProvider interface {
	// GetUserAgent returns a User-Agent string.
	GetUserAgent() string
}

// SimpleUserAgentProvider returns a fixed User-Agent string.
type SimpleUserAgentProvider struct {
	// userAgent is the User-Agent string to return.
	userAgent string
}

// NewSimpleUserAgentProvider creates a provider that always returns userAgent.
func NewSimpleUserAgentProvider(userAgent string) UserAgentProvider {
	return &SimpleUserAgentProvider{userAgent: userAgent}
}

// GetUserAgent returns a User-Agent string.
func (p *SimpleUserAgentProvider) GetUserAgent() string {
	return p.userAgent
}

// ProductUserAgentProvider builds a "product/version (os; arch[; comment])" User-Agent,
// so the target service can tell probe traffic apart in its own logs.
type ProductUserAgentProvider struct {
	// userAgent is the pre-rendered User-Agent string.
	userAgent string
}

// NewProductUserAgentProvider creates a provider for the given product, version and optional comment.
func NewProductUserAgentProvider(product, version, comment string) UserAgentProvider {
	details := []string{runtime.GOOS, runtime.GOARCH}
	if comment = strings.TrimSpace(comment); comment != "" {
		details = append(details, comment)
	}

	return &ProductUserAgentProvider{
		userAgent: product + "/" + version + " (" + strings.Join(details, "; ") + ")",
	}
}

// GetUserAgent returns a User-Agent string.
func (p *ProductUserAgentProvider) GetUserAgent() string {
	return p.userAgent
}
