package hasprops

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/hasprops/i18n"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	// Validation stages.
	CodeTypeMismatch   = "type_mismatch"
	CodeCoercionFailed = "coercion_failed"
	CodeOutOfRange     = "out_of_range"
	CodeConstraint     = "constraint_violation"
	// Composite validators.
	CodeCompositeFailed = "composite_failed"
	// Schema access.
	CodeUnknownProp = "unknown_prop"
	// Declaration time (schema definition, registry).
	CodeInvalidDefault = "invalid_default"
	CodeDuplicateProp  = "duplicate_prop"
	CodeInvalidName    = "invalid_name"
	CodeDuplicateType  = "duplicate_schema"
)

// Issue represents a single validation entry.
type Issue struct {
	Path    string // JSON Pointer (for example: /height or /metadata/unit).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: offending value, bounds, expression.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"min":0, "max":10, "got":15})
	// so editors can render their own messages.
	Params map[string]any
	// Causes holds the per-alternative failures of a composite validator, in
	// alternative order.
	Causes Issues
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. out_of_range at /height (15 not in [0, 10])
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
		if it.Hint != "" {
			fmt.Fprintf(b, " (%s)", it.Hint)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Rebase prefixes every issue path (and nested composite causes) with base.
// base must be a JSON Pointer such as "/height".
func (iss Issues) Rebase(base string) Issues {
	if len(iss) == 0 || base == "" || base == "/" {
		return iss
	}
	out := make(Issues, 0, len(iss))
	for _, it := range iss {
		p := it.Path
		switch {
		case p == "" || p == "/":
			p = base
		case p[0] == '/':
			p = base + p
		default:
			p = base + "/" + p
		}
		it.Path = p
		it.Causes = it.Causes.Rebase(base)
		out = append(out, it)
	}
	return out
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// IssuesFromErr converts an error into Issues, wrapping foreign errors with
// fallback as the code.
func IssuesFromErr(path, fallback string, err error) Issues {
	if err == nil {
		return nil
	}
	if iss, ok := AsIssues(err); ok {
		return iss
	}
	return Issues{{Path: path, Code: fallback, Message: err.Error(), Cause: err}}
}

// HasCode reports whether err carries an issue with the given code at the top
// level.
func HasCode(err error, code string) bool {
	iss, ok := AsIssues(err)
	if !ok {
		return false
	}
	for _, it := range iss {
		if it.Code == code {
			return true
		}
	}
	return false
}

// NewIssue builds a root-level single issue error with a translated message.
func NewIssue(code, hint string, params map[string]any) Issues {
	return Issues{{Path: "/", Code: code, Message: i18n.T(code, nil), Hint: hint, Params: params}}
}
