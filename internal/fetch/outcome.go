package fetch

import "context"

// Outcome is the result of one fetch attempt. Strategies always
// return an Outcome, never panic, and never return a Go error
// directly: transport failures are recorded in Err so the cascade can
// inspect them without unwinding.
type Outcome struct {
	// Body is the response body, possibly empty.
	Body string

	// StatusCode is the HTTP status code, or 0 when the request never
	// completed.
	StatusCode int

	// Err records a transport-level failure (DNS, TLS, timeout).
	Err error

	// Strategy names the strategy that produced this outcome.
	Strategy string
}

// OK reports whether the attempt produced a body worth validating:
// no transport error and a non-empty body.
func (o Outcome) OK() bool {
	return o.Err == nil && o.Body != ""
}

// Strategy is one concrete method of retrieving markup for a URL.
// Implementations carry their own transport configuration (identity
// headers, timeouts, proxying) and share no mutable state between
// invocations.
type Strategy interface {
	// Name returns the strategy name recorded in outcomes and logs.
	Name() string

	// Fetch attempts to retrieve markup for the URL. It blocks until
	// the attempt completes or ctx is done, and always returns an
	// Outcome.
	Fetch(ctx context.Context, url string) Outcome
}
