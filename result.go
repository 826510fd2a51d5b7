package fromremote

// Result carries either a value or the error that prevented it. Generated
// conversions keep Err and convert Value.
type Result[T any] struct {
	Value T
	Err   error
}

// Ok returns a successful Result.
func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

// Fail returns a failed Result.
func Fail[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

// Get returns the value and error.
func (r Result[T]) Get() (T, error) {
	return r.Value, r.Err
}

// IsOk returns true if r carries a value.
func (r Result[T]) IsOk() bool {
	return r.Err == nil
}

// Map converts the value of a successful Result and passes the error of a
// failed one through unchanged.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	if r.Err != nil {
		return Result[U]{Err: r.Err}
	}

	return Result[U]{Value: fn(r.Value)}
}
