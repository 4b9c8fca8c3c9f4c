package exitcode

import "errors"

const (
	Success         = 0
	UsageError      = 1
	ValidationError = 2
	BackendError    = 3
	StoreError      = 4
	RenderError     = 5
	FindingsFound   = 6
)

// Error carries the process exit code a command failed with. Commands log
// the failure and return an Error so deferred cleanup runs before main exits.
type Error struct {
	Code int
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "exit status"
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap tags err with code.
func Wrap(code int, err error) error {
	return &Error{Code: code, Err: err}
}

// Code maps err to an exit code. Untagged errors are usage errors since
// cobra reports flag and argument problems that way.
func Code(err error) int {
	if err == nil {
		return Success
	}
	var exitErr *Error
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return UsageError
}

// Logged reports whether err was already reported by the command.
func Logged(err error) bool {
	var exitErr *Error
	return errors.As(err, &exitErr)
}
