// Package utils provides small helpers shared by the report and transport layers:
// content-type classification, filename sanitizing for attachments,
// header parsing, safe integer conversion and User-Agent providers.
package utils
