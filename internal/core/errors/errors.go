package errors

import "errors"

const (
	HttpInternalError     = "internal_error"
	HttpInvalidQueryError = "invalid_query"
	HttpNotFoundError     = "not_found"
)

// ErrorResponse is the error response body for the mirror query API.
type ErrorResponse struct {
	ErrorType string      `json:"error_type"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}

// Source-side classification. Source adapters wrap their failures with one of
// these two so the retry combinator can decide without knowing the transport.
var (
	// ErrTransient marks timeouts, connection failures and rate limiting.
	ErrTransient = errors.New("transient source failure")

	// ErrPermanent marks any other failure, including empty or absent payloads.
	ErrPermanent = errors.New("permanent source failure")
)

// Outcomes surfaced by retry.Do and the store layer.
var (
	// ErrSourceUnavailable is returned for a permanent failure. Callers treat
	// it as "no data" for that identity.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrRetryExhausted is returned when every attempt failed transiently.
	// Callers treat it like ErrSourceUnavailable and move on.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrInvalidDeletionFilter guards destructive deletes with an empty filter.
	ErrInvalidDeletionFilter = errors.New("deletion filter must set at least one of steam id, bucket year or bucket month")

	// ErrPersistence wraps any storage failure. It is fatal for the run.
	ErrPersistence = errors.New("persistence failure")
)

// IsSourceMiss reports whether err means the source had nothing usable,
// either permanently or after exhausting retries.
func IsSourceMiss(err error) bool {
	return errors.Is(err, ErrSourceUnavailable) || errors.Is(err, ErrRetryExhausted)
}
