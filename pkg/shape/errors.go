package shape

import (
	"errors"
	"fmt"
)

// ErrEmptySampleSet is returned when inference is asked to run without samples.
var ErrEmptySampleSet = errors.New("empty sample set")

// MalformedInputError reports a value that is not a valid JSON value tree,
// such as NaN, a cyclic container, or an unsupported Go type.
type MalformedInputError struct {
	Path   string // JSON path of the offending node, e.g. $.items[2].price
	Reason string
	Err    error
}

func (e *MalformedInputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed input at %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed input at %s: %s", e.Path, e.Reason)
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

func malformed(path, format string, args ...any) error {
	return &MalformedInputError{Path: path, Reason: fmt.Sprintf(format, args...)}
}
