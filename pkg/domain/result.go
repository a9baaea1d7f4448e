package domain

// Result is a tagged success-or-failure value. Err holds the failure code
// when set; Value is meaningful only on success. Expected failures travel as
// results, never as panics.
type Result[T any] struct {
	Value T
	Err   string
}

// Ok wraps a success value.
func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

// Fail wraps a failure code.
func Fail[T any](code string) Result[T] {
	return Result[T]{Err: code}
}

// FailErr wraps an error's code form.
func FailErr[T any](err error) Result[T] {
	return Result[T]{Err: err.Error()}
}

// ResultOf folds a (value, error) pair into a result.
func ResultOf[T any](v T, err error) Result[T] {
	if err != nil {
		return FailErr[T](err)
	}
	return Ok(v)
}

// Failed reports whether the result carries a failure code.
func (r Result[T]) Failed() bool { return r.Err != "" }

// Unwrap splits the result back into a (value, error) pair.
func (r Result[T]) Unwrap() (T, error) {
	if r.Failed() {
		var zero T
		return zero, Failure(r.Err)
	}
	return r.Value, nil
}
