package trace

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig marks every validation failure reported before tracing starts.
	ErrConfig = errors.New("trace: invalid configuration")

	// ErrStepCount indicates a step budget below one.
	ErrStepCount = errors.New("trace: step count must be at least 1")

	// ErrStepSize indicates a step size that is not a positive finite number.
	ErrStepSize = errors.New("trace: step size must be positive and finite")

	// ErrSeed indicates a seed position that is empty or not finite.
	ErrSeed = errors.New("trace: seed must be a non-empty finite position")

	// ErrDirection indicates a direction other than Forward, Backward or Both.
	ErrDirection = errors.New("trace: unknown direction")

	// ErrNilField indicates a trace request without a field.
	ErrNilField = errors.New("trace: nil field")

	// ErrCanceled indicates the trace was interrupted by its context.
	ErrCanceled = errors.New("trace: canceled by context")
)

// ConfigError reports which trace parameter was rejected.
type ConfigError struct {
	Param   string
	Value   any
	Wrapped error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s=%v: %v", e.Param, e.Value, e.Wrapped)
}

func (e *ConfigError) Unwrap() []error {
	return []error{ErrConfig, e.Wrapped}
}

func configErr(param string, value any, err error) error {
	return &ConfigError{Param: param, Value: value, Wrapped: err}
}
