package validate

import (
	"fmt"

	"github.com/reoring/hasprops"
)

func typeMismatch(expected string, v any) error {
	return hasprops.NewIssue(hasprops.CodeTypeMismatch, fmt.Sprintf("expected %s, got %T", expected, v), map[string]any{"expected": expected, "got": v})
}

func coercionFailed(target string, v any, why string) error {
	hint := fmt.Sprintf("cannot coerce %v to %s", v, target)
	if why != "" {
		hint += ": " + why
	}
	return hasprops.NewIssue(hasprops.CodeCoercionFailed, hint, map[string]any{"target": target, "got": v})
}

func constraint(hint string, params map[string]any) error {
	return hasprops.NewIssue(hasprops.CodeConstraint, hint, params)
}
