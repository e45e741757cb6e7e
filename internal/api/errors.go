package api

import "errors"

var (
	// ErrRateLimited is returned on HTTP 429. Expected background noise
	// under the API's undocumented abuse threshold; retryable, never an
	// operational incident.
	ErrRateLimited = errors.New("rate limited by external API")

	// ErrMalformedResponse is returned when a 200 response is missing the
	// expected identifier field. Retryable.
	ErrMalformedResponse = errors.New("malformed external API response")

	// ErrNotFound is returned on HTTP 404.
	ErrNotFound = errors.New("not found on external API")
)
