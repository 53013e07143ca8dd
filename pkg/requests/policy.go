package requests

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/oshokin/reqcheck/internal/constants"
	"github.com/oshokin/reqcheck/pkg/report"
)

// DefaultMaxInlineSize is the body size, in characters, above which the presets divert a body to an attachment.
const DefaultMaxInlineSize = 2048

// Policy names accepted by ParsePolicy.
const (
	PolicyNameOn             = "on"
	PolicyNameOff            = "off"
	PolicyNameNoHeaders      = "no-headers"
	PolicyNameNoResponseBody = "no-response-body"
)

const (
	requestBodyDescription  = "HTTP request body"
	responseBodyDescription = "HTTP response body"
)

// Static error definitions for better error handling.
var (
	// ErrUnknownPolicy indicates that a policy name is not one of the presets.
	ErrUnknownPolicy = errors.New("unknown logging policy")
)

// Policy decides which parts of a call are written to the report.
// Each toggle gates its own category only.
type Policy struct {
	// RequestLineLogging logs the method and URL.
	RequestLineLogging bool
	// RequestHeadersLogging logs the headers as sent.
	RequestHeadersLogging bool
	// RequestBodyLogging logs the request body.
	RequestBodyLogging bool
	// ResponseCodeLogging logs the status code and duration.
	ResponseCodeLogging bool
	// ResponseHeadersLogging logs the response headers.
	ResponseHeadersLogging bool
	// ResponseBodyLogging logs the response body.
	ResponseBodyLogging bool
	// MaxInlineSize is the number of characters above which a rendered body is saved
	// as an attachment instead of being logged inline. Zero keeps every body inline.
	MaxInlineSize int
	// Debug sends every entry to the debug channel of the reporter and keeps bodies inline.
	Debug bool
}

// PolicyOn logs everything.
func PolicyOn() *Policy {
	return &Policy{
		RequestLineLogging:     true,
		RequestHeadersLogging:  true,
		RequestBodyLogging:     true,
		ResponseCodeLogging:    true,
		ResponseHeadersLogging: true,
		ResponseBodyLogging:    true,
		MaxInlineSize:          DefaultMaxInlineSize,
	}
}

// PolicyOff logs nothing.
func PolicyOff() *Policy {
	return &Policy{MaxInlineSize: DefaultMaxInlineSize}
}

// PolicyNoHeaders logs everything but request and response headers.
func PolicyNoHeaders() *Policy {
	p := PolicyOn()
	p.RequestHeadersLogging = false
	p.ResponseHeadersLogging = false

	return p
}

// PolicyNoResponseBody logs everything but the response body.
func PolicyNoResponseBody() *Policy {
	p := PolicyOn()
	p.ResponseBodyLogging = false

	return p
}

// ParsePolicy returns a fresh preset by name.
func ParsePolicy(name string) (*Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case PolicyNameOn, "":
		return PolicyOn(), nil
	case PolicyNameOff:
		return PolicyOff(), nil
	case PolicyNameNoHeaders:
		return PolicyNoHeaders(), nil
	case PolicyNameNoResponseBody:
		return PolicyNoResponseBody(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}

// Clone returns a copy of the policy.
func (p *Policy) Clone() *Policy {
	c := *p

	return &c
}

// LogRequest reports the enabled request categories. Headers are taken from prepared,
// the request about to be sent, when it is available.
func (p *Policy) LogRequest(
	ctx context.Context,
	reporter report.Reporter,
	outgoing *Request,
	prepared *http.Request,
	hint string,
) {
	if p.RequestLineLogging {
		p.emit(ctx, reporter, FormatRequestLine(outgoing.method(), outgoing.URL, outgoing.Params, hint))
	}

	if p.RequestHeadersLogging {
		header := outgoing.Header
		if prepared != nil {
			header = prepared.Header
		}

		p.emit(ctx, reporter, FormatRequestHeaders(header))
	}

	if p.RequestBodyLogging {
		if body := FormatRequestBody(outgoing); body != "" {
			p.emitBody(ctx, reporter, body, constants.RequestBodyAttachmentName, requestBodyDescription)
		}
	}
}

// LogResponse reports the enabled response categories.
func (p *Policy) LogResponse(ctx context.Context, reporter report.Reporter, resp *Response, hint string) {
	if p.ResponseCodeLogging {
		p.emit(ctx, reporter, FormatResponseLine(resp, hint))
	}

	if p.ResponseHeadersLogging {
		p.emit(ctx, reporter, FormatResponseHeaders(resp.Header))
	}

	if p.ResponseBodyLogging {
		p.emitBody(ctx, reporter, FormatResponseBody(resp), constants.ResponseBodyAttachmentName, responseBodyDescription)
	}
}

func (p *Policy) emit(ctx context.Context, reporter report.Reporter, text string) {
	if p.Debug {
		reporter.LogDebug(ctx, text)

		return
	}

	reporter.LogInfo(ctx, text)
}

func (p *Policy) emitBody(ctx context.Context, reporter report.Reporter, body, filename, description string) {
	if !p.Debug && p.MaxInlineSize > 0 && utf8.RuneCountInString(body) > p.MaxInlineSize {
		reporter.SaveAttachmentContent(ctx, []byte(body), filename, description)

		return
	}

	p.emit(ctx, reporter, body)
}
