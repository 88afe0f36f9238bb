package adapter

import "github.com/hyperpolymath/qed-ssg/internal/runner"

// Kind classifies a failed Result. The taxonomy is owned by the runner and
// re-exported here so adapter callers need only one import.
type Kind = runner.Kind

const (
	KindBinaryNotFound  = runner.KindBinaryNotFound
	KindExecutionFailed = runner.KindExecutionFailed
	KindTimeout         = runner.KindTimeout
	KindInvalidInput    = runner.KindInvalidInput
)

var (
	ErrBinaryNotFound  = runner.ErrBinaryNotFound
	ErrExecutionFailed = runner.ErrExecutionFailed
	ErrTimeout         = runner.ErrTimeout
	ErrInvalidInput    = runner.ErrInvalidInput
)
