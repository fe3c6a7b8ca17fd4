package console

import "errors"

var (
	// ErrNotFound is returned when no entry has the requested name.
	ErrNotFound = errors.New("console: not found")

	// ErrTypeMismatch is returned when a value's kind does not fit the entry.
	ErrTypeMismatch = errors.New("console: type mismatch")

	// ErrGateRejected is returned when a flag callback vetoed the operation.
	ErrGateRejected = errors.New("console: rejected by flag callback")

	// ErrDuplicate is returned when a name is registered twice in an
	// incompatible way.
	ErrDuplicate = errors.New("console: duplicate registration")

	// ErrFlagsExhausted is returned once every bit of Flag is allocated.
	ErrFlagsExhausted = errors.New("console: flag registry exhausted")

	// ErrArchiveIO wraps failures writing or reading config files.
	ErrArchiveIO = errors.New("console: archive io")

	// ErrInvalidArgs is returned when command arguments cannot be parsed
	// into the entry's kind.
	ErrInvalidArgs = errors.New("console: invalid arguments")
)

// Result is the outcome of a value mutation.
type Result int

const (
	ResultOk Result = iota
	ResultNotFound
	ResultTypeMismatch
	ResultGateRejected
)

func (r Result) String() string {
	switch r {
	case ResultOk:
		return "ok"
	case ResultNotFound:
		return "not found"
	case ResultTypeMismatch:
		return "type mismatch"
	case ResultGateRejected:
		return "gate rejected"
	default:
		return "unknown"
	}
}

// Err maps the result to its sentinel error, nil for ResultOk.
func (r Result) Err() error {
	switch r {
	case ResultOk:
		return nil
	case ResultNotFound:
		return ErrNotFound
	case ResultTypeMismatch:
		return ErrTypeMismatch
	case ResultGateRejected:
		return ErrGateRejected
	default:
		return errors.New("console: unknown result")
	}
}
