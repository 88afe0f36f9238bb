package tools

import "github.com/hyperpolymath/qed-ssg/internal/adapter"

func ReadOnlyAnnotations() map[string]bool {
	return map[string]bool{
		"readOnlyHint":    true,
		"destructiveHint": false,
		"idempotentHint":  true,
		"openWorldHint":   false,
	}
}

func DestructiveAnnotations() map[string]bool {
	return map[string]bool{
		"readOnlyHint":    false,
		"destructiveHint": true,
		"idempotentHint":  true,
		"openWorldHint":   false,
	}
}

func SafeWriteAnnotations() map[string]bool {
	return map[string]bool{
		"readOnlyHint":    false,
		"destructiveHint": false,
		"idempotentHint":  true,
		"openWorldHint":   false,
	}
}

func NonIdempotentWriteAnnotations() map[string]bool {
	return map[string]bool{
		"readOnlyHint":    false,
		"destructiveHint": false,
		"idempotentHint":  false,
		"openWorldHint":   false,
	}
}

// ProcessAnnotations describe tools that start long-running processes.
func ProcessAnnotations() map[string]bool {
	return map[string]bool{
		"readOnlyHint":    false,
		"destructiveHint": false,
		"idempotentHint":  false,
		"openWorldHint":   true,
	}
}

func AnnotationsForOp(op adapter.Op) map[string]bool {
	switch op {
	case adapter.OpVersion, adapter.OpCheck:
		return ReadOnlyAnnotations()
	case adapter.OpClean:
		return DestructiveAnnotations()
	case adapter.OpBuild:
		return SafeWriteAnnotations()
	case adapter.OpServe:
		return ProcessAnnotations()
	default:
		return NonIdempotentWriteAnnotations()
	}
}
