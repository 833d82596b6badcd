package gen

import (
	"errors"
	"fmt"
)

// Phase names the step of the pipeline an error occurred in.
type Phase string

// Pipeline phases.
const (
	PhaseCheck  Phase = "check"
	PhaseRender Phase = "render"
	PhaseFormat Phase = "format"
	PhaseWrite  Phase = "write"
)

var (
	// ErrMissingConfig is matched by every ConfigError.
	ErrMissingConfig = errors.New("gen: invalid configuration")
	// ErrGenerationFailed is matched by every GenerationError.
	ErrGenerationFailed = errors.New("gen: generation failed")
)

// ConfigError reports an invalid or missing generator option.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("gen: option %s = %v: %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("gen: option %s: %s", e.Option, e.Message)
}

// Is matches ErrMissingConfig.
func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

// NewConfigError returns a ConfigError for option. A nil value is left
// out of the message.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{Option: option, Value: value, Message: message}
}

// GenerationError reports a failure in one phase of the pipeline. File is
// the generated file name, or the output directory, and is empty when the
// failure concerns the whole graph.
type GenerationError struct {
	Phase   Phase
	File    string
	Message string
	Cause   error
}

func (e *GenerationError) Error() string {
	msg := "gen: " + string(e.Phase)
	if e.File != "" {
		msg += " " + e.File
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the cause.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is matches ErrGenerationFailed.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// NewGenerationError returns a GenerationError. cause may be nil.
func NewGenerationError(phase Phase, file, message string, cause error) *GenerationError {
	return &GenerationError{Phase: phase, File: file, Message: message, Cause: cause}
}

// IsConfigError reports whether err is or wraps a ConfigError.
func IsConfigError(err error) bool {
	var e *ConfigError
	return errors.As(err, &e)
}

// IsGenerationError reports whether err is or wraps a GenerationError.
func IsGenerationError(err error) bool {
	var e *GenerationError
	return errors.As(err, &e)
}
