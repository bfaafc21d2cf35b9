package models

import "fmt"

// Quote failure categories. Every failure of the quote fetcher is converted
// into a QuoteError carrying one of these, never surfaced as a panic.
const (
	QuoteErrUpstream  = "upstream_unavailable"
	QuoteErrMalformed = "malformed_payload"
)

// QuoteError is the structured failure result of the single-symbol quote
// fetcher. Category is machine-readable, Message human-readable. Raw carries
// the offending value for diagnostics when the payload parsed but the price
// cell was unusable.
type QuoteError struct {
	Category string `json:"error"`
	Message  string `json:"message"`
	Raw      string `json:"-"`
}

func (e *QuoteError) Error() string {
	if e.Raw != "" {
		return fmt.Sprintf("%s: %s (raw: %q)", e.Category, e.Message, e.Raw)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

// NewUpstreamError builds a QuoteError for transport failures and non-success
// upstream statuses.
func NewUpstreamError(format string, args ...any) *QuoteError {
	return &QuoteError{Category: QuoteErrUpstream, Message: fmt.Sprintf(format, args...)}
}

// NewMalformedError builds a QuoteError for structurally invalid or incomplete
// payloads after decoding and repair.
func NewMalformedError(format string, args ...any) *QuoteError {
	return &QuoteError{Category: QuoteErrMalformed, Message: fmt.Sprintf(format, args...)}
}
