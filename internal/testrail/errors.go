package testrail

import (
	"errors"
	"fmt"
)

// RemoteAPIError is returned for every transport failure, non-2xx status or
// unparsable response.
type RemoteAPIError struct {
	Op         string // Logical operation, e.g. "add_case"
	Path       string
	StatusCode int    // Zero when no HTTP response was received
	Message    string // Remote "error" field or a parse diagnostic
	Err        error
}

func (e *RemoteAPIError) Error() string {
	msg := "remote API error"
	if e.Op != "" {
		msg += " in " + e.Op
	}
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RemoteAPIError) Unwrap() error {
	return e.Err
}

// withOp tags err with the logical operation, converting foreign errors from
// custom transports into RemoteAPIError.
func withOp(op, path string, err error) error {
	if err == nil {
		return nil
	}
	var apiErr *RemoteAPIError
	if errors.As(err, &apiErr) {
		tagged := *apiErr
		if tagged.Op == "" {
			tagged.Op = op
		}
		if tagged.Path == "" {
			tagged.Path = path
		}
		return &tagged
	}
	return &RemoteAPIError{Op: op, Path: path, Err: err}
}
