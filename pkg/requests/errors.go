package requests

import (
	"errors"
	"fmt"
	"strings"

	"github.com/oshokin/reqcheck/pkg/matcher"
)

// Static error definitions for better error handling.
var (
	// ErrStatusCodeMismatch is matched by every *StatusCodeError.
	ErrStatusCodeMismatch = errors.New("status code mismatch")
)

// StatusCodeError is returned by the Expect* helpers when the status code does not match.
type StatusCodeError struct {
	// Response is the checked response.
	Response *Response
	// Matcher is the expectation.
	Matcher matcher.Matcher
	// Result is the match outcome.
	Result matcher.Result
}

// Error renders the expectation followed by the full request and response.
func (e *StatusCodeError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "expected status code %s, %s", e.Matcher.Description(), e.Result.Description)

	if sections := e.sections(); len(sections) > 0 {
		b.WriteString("\n\n")
		b.WriteString(strings.Join(sections, "\n\n"))
	}

	return b.String()
}

// Unwrap makes errors.Is(err, ErrStatusCodeMismatch) hold.
func (e *StatusCodeError) Unwrap() error {
	return ErrStatusCodeMismatch
}

func (e *StatusCodeError) sections() []string {
	resp := e.Response
	if resp == nil || resp.Response == nil {
		return nil
	}

	var candidates []string

	if outgoing := resp.Outgoing; outgoing != nil {
		candidates = append(candidates, FormatRequestLine(outgoing.method(), outgoing.URL, outgoing.Params, ""))
	}

	if resp.Request != nil {
		candidates = append(candidates, FormatRequestHeaders(resp.Request.Header))
	} else if resp.Outgoing != nil {
		candidates = append(candidates, FormatRequestHeaders(resp.Outgoing.Header))
	}

	candidates = append(candidates,
		FormatRequestBody(resp.Outgoing),
		FormatResponseLine(resp, ""),
		FormatResponseHeaders(resp.Header),
		FormatResponseBody(resp),
	)

	sections := make([]string, 0, len(candidates))

	for _, section := range candidates {
		if section != "" {
			sections = append(sections, section)
		}
	}

	return sections
}
