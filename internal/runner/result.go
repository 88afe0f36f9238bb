package runner

import (
	"errors"
	"fmt"
	"time"
)

// Kind classifies a failed Result. Successful results carry KindNone.
type Kind string

const (
	KindNone            Kind = ""
	KindBinaryNotFound  Kind = "binary_not_found"
	KindExecutionFailed Kind = "execution_failed"
	KindTimeout         Kind = "timeout"
	KindInvalidInput    Kind = "invalid_input"
)

// Reserved exit codes for failures that never reached a normal process exit.
const (
	CodeInvalidInput   = 64
	CodeTimeout        = 124
	CodeCancelled      = 130
	CodeBinaryNotFound = 127
)

var (
	ErrBinaryNotFound  = errors.New("binary not found")
	ErrExecutionFailed = errors.New("execution failed")
	ErrTimeout         = errors.New("timeout")
	ErrInvalidInput    = errors.New("invalid input")
)

// Result is the outcome of one process invocation. Failures are data: every
// call path returns a Result and none of them panics.
type Result struct {
	Success  bool          `json:"success"`
	Stdout   string        `json:"stdout"`
	Stderr   string        `json:"stderr"`
	Code     int           `json:"code"`
	Kind     Kind          `json:"kind,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

func Invalid(format string, args ...any) Result {
	return Result{
		Success: false,
		Stderr:  "Invalid input: " + fmt.Sprintf(format, args...),
		Code:    CodeInvalidInput,
		Kind:    KindInvalidInput,
	}
}

func NotFound(binary string) Result {
	return Result{
		Success: false,
		Stderr:  "Command not found: " + binary,
		Code:    CodeBinaryNotFound,
		Kind:    KindBinaryNotFound,
	}
}

// ExecError is the error form of a failed Result.
type ExecError struct {
	Kind   Kind
	Code   int
	Stderr string
}

func (e *ExecError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s (code %d)", e.Kind, e.Code)
	}
	return fmt.Sprintf("%s (code %d): %s", e.Kind, e.Code, e.Stderr)
}

func (e *ExecError) Unwrap() error {
	switch e.Kind {
	case KindBinaryNotFound:
		return ErrBinaryNotFound
	case KindTimeout:
		return ErrTimeout
	case KindInvalidInput:
		return ErrInvalidInput
	default:
		return ErrExecutionFailed
	}
}

// Err returns nil for a successful result and an *ExecError otherwise.
func (r Result) Err() error {
	if r.Success {
		return nil
	}
	kind := r.Kind
	if kind == KindNone {
		kind = KindExecutionFailed
	}
	return &ExecError{Kind: kind, Code: r.Code, Stderr: r.Stderr}
}
