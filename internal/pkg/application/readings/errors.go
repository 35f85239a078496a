package readings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/opsflow/temperature-compliance/pkg/types"
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidInput       = errors.New("invalid input data")
	ErrSensorNotFound     = errors.New("sensor not found or access denied")
	ErrPersistenceFailure = errors.New("persistence failure")
)

// ValidationError lists every field of a submission that failed validation.
type ValidationError struct {
	Details []types.ValidationDetail
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		fields = append(fields, fmt.Sprintf("%s: %s", d.Path, d.Message))
	}
	return fmt.Sprintf("%s (%s)", ErrInvalidInput.Error(), strings.Join(fields, ", "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

func (e *ValidationError) add(path, code, message string) {
	e.Details = append(e.Details, types.ValidationDetail{
		Path:    path,
		Code:    code,
		Message: message,
	})
}

func (e *ValidationError) empty() bool {
	return len(e.Details) == 0
}

const (
	CodeRequired      string = "required"
	CodeTooLong       string = "too_long"
	CodeInvalidFormat string = "invalid_format"
	CodeOutOfRange    string = "out_of_range"
	CodeInvalidRange  string = "invalid_range"
	CodeInvalidDate   string = "invalid_date"
	CodeInvalidType   string = "invalid_type"
	CodeInvalidJSON   string = "invalid_json"
)
