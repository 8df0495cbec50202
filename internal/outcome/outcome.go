// Package outcome models the result of an operation that may succeed, succeed
// with a fallback value, or fail outright.
package outcome

type Status int

const (
	Ok Status = iota
	Degraded
	Fatal
)

func (s Status) String() string {
	switch s {
	case Ok:
		return "ok"
	case Degraded:
		return "degraded"
	default:
		return "fatal"
	}
}

type Outcome[T any] struct {
	Value  T
	Status Status
	Reason string
}

func OK[T any](v T) Outcome[T] {
	return Outcome[T]{Value: v, Status: Ok}
}

// Degrade carries a usable fallback value together with why it was needed.
func Degrade[T any](v T, reason string) Outcome[T] {
	return Outcome[T]{Value: v, Status: Degraded, Reason: reason}
}

func Fail[T any](reason string) Outcome[T] {
	return Outcome[T]{Status: Fatal, Reason: reason}
}

func (o Outcome[T]) Usable() bool {
	return o.Status != Fatal
}
