package domain

// Result carries a value together with the reason it may be degraded.
//
// Pipeline operations never fail outright: on a provider failure or bad input
// they return an empty Value and set Failure so callers and tests can observe
// what went wrong without parsing logs. A lookup that simply found nothing has
// a nil Failure.
type Result[T any] struct {
	Value   T
	Failure error
}

// OK wraps a successful value.
func OK[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

// Degraded wraps a fallback value with the failure that produced it.
func Degraded[T any](v T, err error) Result[T] {
	return Result[T]{Value: v, Failure: err}
}

// Failed reports whether the result carries a failure.
func (r Result[T]) Failed() bool {
	return r.Failure != nil
}
