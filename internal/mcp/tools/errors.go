package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alperekinci99/typefetch-cli/internal/infer"
	"github.com/alperekinci99/typefetch-cli/pkg/client"
	"github.com/alperekinci99/typefetch-cli/pkg/shape"
)

// Error codes for MCP tool responses.
const (
	ErrCodeInvalidInput   = "INVALID_INPUT"
	ErrCodeEmptySampleSet = "EMPTY_SAMPLE_SET"
	ErrCodeMalformedInput = "MALFORMED_INPUT"
	ErrCodeLimitExceeded  = "LIMIT_EXCEEDED"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeTimeout        = "TIMEOUT"
	ErrCodeFetchFailed    = "FETCH_FAILED"
)

// CodedError is an error with an associated error code.
type CodedError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CodedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CodedError) Unwrap() error {
	return e.Cause
}

// WrapInferError converts a pipeline error to a coded error.
func WrapInferError(err error) error {
	if err == nil {
		return nil
	}

	var coded *CodedError
	if errors.As(err, &coded) {
		return coded
	}

	var malformed *shape.MalformedInputError
	switch {
	case errors.Is(err, shape.ErrEmptySampleSet):
		coded = &CodedError{Code: ErrCodeEmptySampleSet, Message: "no samples to infer from", Cause: err}
	case errors.As(err, &malformed):
		coded = &CodedError{Code: ErrCodeMalformedInput, Message: "sample is not valid JSON", Cause: err}
	case errors.Is(err, infer.ErrTooManySamples), errors.Is(err, infer.ErrSampleTooLarge):
		coded = &CodedError{Code: ErrCodeLimitExceeded, Message: "sample limits exceeded", Cause: err}
	case errors.Is(err, context.DeadlineExceeded):
		coded = &CodedError{Code: ErrCodeTimeout, Message: "inference timed out", Cause: err}
	default:
		coded = &CodedError{Code: ErrCodeInvalidInput, Message: "inference failed", Cause: err}
	}

	slog.Warn("inference error",
		slog.String("code", coded.Code),
		slog.String("error", err.Error()),
	)

	return coded
}

// WrapFetchError converts a sample fetch error to a coded error.
func WrapFetchError(err error) error {
	if err == nil {
		return nil
	}

	var (
		notJSON  *client.NotJSONError
		tooLarge *client.BodyTooLargeError
		coded    *CodedError
	)
	switch {
	case errors.As(err, &notJSON):
		coded = &CodedError{Code: ErrCodeMalformedInput, Message: "response is not JSON", Cause: err}
	case errors.As(err, &tooLarge):
		coded = &CodedError{Code: ErrCodeLimitExceeded, Message: "response too large", Cause: err}
	case errors.Is(err, context.DeadlineExceeded):
		coded = &CodedError{Code: ErrCodeTimeout, Message: "fetch timed out", Cause: err}
	default:
		coded = &CodedError{Code: ErrCodeFetchFailed, Message: "fetch failed", Cause: err}
	}

	slog.Warn("fetch error",
		slog.String("code", coded.Code),
		slog.String("error", err.Error()),
	)

	return coded
}

// ErrNotFound creates a not found error.
func ErrNotFound(resource, id string) error {
	return &CodedError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, id),
	}
}

// ErrInvalidInput creates an invalid input error.
func ErrInvalidInput(message string) error {
	return &CodedError{
		Code:    ErrCodeInvalidInput,
		Message: message,
	}
}

// ErrEmptySampleSet creates an empty sample set error.
func ErrEmptySampleSet(message string) error {
	return &CodedError{
		Code:    ErrCodeEmptySampleSet,
		Message: message,
		Cause:   shape.ErrEmptySampleSet,
	}
}
