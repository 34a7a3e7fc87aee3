package views

// Status enumerates the three mutually exclusive render branches of a view.
type Status int

const (
	StatusLoading Status = iota
	StatusFailed
	StatusReady
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusFailed:
		return "failed"
	case StatusReady:
		return "ready"
	default:
		return ""
	}
}

// Result is the discriminated outcome of a fetch. Exactly one of the three
// states holds at any time; Ready always carries a non-nil payload, so a
// successful response that decoded to nothing never renders the ready branch.
type Result[T any] struct {
	status  Status
	payload *T
	reason  string
}

// Loading returns an unresolved result.
func Loading[T any]() Result[T] {
	return Result[T]{status: StatusLoading}
}

// Failed returns a failed result carrying the reason verbatim for display.
func Failed[T any](reason string) Result[T] {
	return Result[T]{status: StatusFailed, reason: reason}
}

// Ready returns a resolved result. A nil payload is coerced to a failure so
// the ready branch can assume its payload exists.
func Ready[T any](payload *T) Result[T] {
	if payload == nil {
		return Failed[T]("server returned an empty response")
	}
	return Result[T]{status: StatusReady, payload: payload}
}

// Status returns which branch the result selects.
func (r Result[T]) Status() Status { return r.status }

// Reason returns the failure message, or "" when not failed.
func (r Result[T]) Reason() string { return r.reason }

// Payload returns the fetched value and whether the result is ready.
func (r Result[T]) Payload() (*T, bool) {
	if r.status != StatusReady {
		return nil, false
	}
	return r.payload, true
}
