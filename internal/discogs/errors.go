package discogs

import "fmt"

// APIError indicates a non-success HTTP status from the Discogs API.
// It is fatal for the current run; no retry is attempted.
type APIError struct {
	URL        string
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("GET %s failed (%d)", e.URL, e.StatusCode)
}

// TimeoutError indicates a request exceeded its wall-clock ceiling.
type TimeoutError struct {
	URL   string
	Cause error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("GET %s timed out: %v", e.URL, e.Cause)
}

func (e *TimeoutError) Unwrap() error { return e.Cause }
