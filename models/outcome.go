package models

// Outcome is the settled result of one provider call: either a payload or the
// error that prevented one. Provider failures are always carried as outcomes,
// never propagated past the orchestrator.
type Outcome[T any] struct {
	Value T
	Err   error
}

// Settled wraps a successful payload.
func Settled[T any](v T) Outcome[T] {
	return Outcome[T]{Value: v}
}

// Failed wraps a provider failure.
func Failed[T any](err error) Outcome[T] {
	return Outcome[T]{Err: err}
}

// OK reports whether the provider produced a payload.
func (o Outcome[T]) OK() bool {
	return o.Err == nil
}
