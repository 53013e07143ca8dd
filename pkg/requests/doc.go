// Package requests wraps net/http with test-report logging and status code checks.
//
// A Session logs every call it issues through a report.Reporter: the request line,
// the headers actually sent, the request body, the response status with its duration,
// the response headers and the response body. What gets logged is decided by a Policy,
// set per session and overridable per call. Large bodies are stored as attachments.
//
// Responses come back as *Response, which adds chainable status code helpers
// with four severities: Check*, Require*, Assert* and Expect*.
package requests
