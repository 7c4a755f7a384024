package fetch

import (
	"errors"
	"fmt"
)

// Failure taxonomy for provider calls. Everything a provider can do wrong is
// folded into one of these before it leaves this package; the orchestrator
// only ever sees settled outcomes.

// ErrNoMatch means the provider answered but had no result for the query.
// It is a valid empty outcome, not a fault.
var ErrNoMatch = errors.New("no match found")

// ErrNotConfigured means the provider's credential is absent and the client is
// permanently degraded for this process.
var ErrNotConfigured = errors.New("provider not configured")

// ErrAllProvidersFailed marks a research pass in which literally every
// provider failed. The engine still returns a record; this is informational.
var ErrAllProvidersFailed = errors.New("all providers failed")

// NetworkError covers timeouts and connection-level failures reaching a provider.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error fetching %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ProtocolError covers unexpected provider responses: non-2xx status from a
// structured API, or a payload whose shape cannot be decoded.
type ProtocolError struct {
	Provider string
	Status   int
	Message  string
}

func (e *ProtocolError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.Status, e.Message)
	}
	return fmt.Sprintf("%s protocol error: %s", e.Provider, e.Message)
}
