// Package usage describes command-line mistakes and their exit codes.
package usage

import "fmt"

// ErrorKind represents the type of usage error.
type ErrorKind int

const (
	ErrUnknown ErrorKind = iota
	ErrUnknownFlag
	ErrInvalidFlag
	ErrMissingArgument
	ErrUnexpectedArgument
)

// Exit codes:
//
//	Exit 1: unknown errors
//	Exit 2: user input errors (flags and arguments)
var exitCodes = map[ErrorKind]int{
	ErrUnknown:            1,
	ErrUnknownFlag:        2,
	ErrInvalidFlag:        2,
	ErrMissingArgument:    2,
	ErrUnexpectedArgument: 2,
}

// Error represents a user-facing usage error with semantic type information.
type Error struct {
	Kind    ErrorKind
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// ExitCode returns the process exit code for this error.
func (e *Error) ExitCode() int {
	if code, ok := exitCodes[e.Kind]; ok {
		return code
	}
	return 1
}

// UnknownFlag is returned for a flag the program does not define.
func UnknownFlag(flag string) *Error {
	return &Error{Kind: ErrUnknownFlag, Message: fmt.Sprintf("unknown flag %q", flag)}
}

// InvalidFlag is returned when a flag is used the wrong way.
func InvalidFlag(flag, reason string) *Error {
	return &Error{Kind: ErrInvalidFlag, Message: fmt.Sprintf("flag %s %s", flag, reason)}
}

// MissingArgument is returned when a flag value is not provided.
func MissingArgument(flag, hint string) *Error {
	return &Error{Kind: ErrMissingArgument, Message: fmt.Sprintf("flag %s needs a value %s", flag, hint)}
}

// UnexpectedArgument is returned for a positional argument.
func UnexpectedArgument(arg string) *Error {
	return &Error{Kind: ErrUnexpectedArgument, Message: fmt.Sprintf("unexpected argument %q", arg)}
}

var _ error = (*Error)(nil)
