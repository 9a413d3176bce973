package testdef

import "fmt"

// ValidationError reports a bad or missing local input: a file that cannot
// be read or parsed, or an invalid combination of options.
type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e *ValidationError) Error() string {
	msg := e.Msg
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("validation error: %s: %v", msg, e.Err)
	}
	return "validation error: " + msg
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Invalid is shorthand for a ValidationError without a cause.
func Invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}
