package fetcher

import (
	"context"
	"io"
)

// Fetcher issues single-attempt HTTP requests against JSON APIs.
type Fetcher interface {
	// Download performs a GET and returns the response body. Non-2xx
	// responses are returned as *StatusError.
	Download(ctx context.Context, url string) (io.ReadCloser, error)

	// PostJSON marshals payload, POSTs it with a JSON content type, and
	// returns the response body. Non-2xx responses are returned as *StatusError.
	PostJSON(ctx context.Context, url string, payload any) (io.ReadCloser, error)
}
