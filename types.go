package hasprops

import js "github.com/reoring/hasprops/jsonschema"

// Kind tags the closed set of validator variants. Editors switch on it to pick
// an input control.
type Kind int

const (
	KindRange      Kind = iota // Inclusive numeric bounds.
	KindEnum                   // One of a fixed set of text choices.
	KindCollection             // Text-keyed mapping with validated keys and values.
	KindText                   // Canonical text.
	KindBool                   // Boolean with text/integer coercion.
	KindNull                   // The null marker.
	KindComposite              // Ordered alternatives (OR).
	KindExpr                   // Inner validator plus an expression constraint.
)

var kindNames = [...]string{
	KindRange:      "range",
	KindEnum:       "enum",
	KindCollection: "collection",
	KindText:       "text",
	KindBool:       "bool",
	KindNull:       "null",
	KindComposite:  "composite",
	KindExpr:       "expr",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Validator checks and coerces a single candidate value.
//
// Validate runs three stages in order: type check (CodeTypeMismatch),
// coercion (CodeCoercionFailed) and value check (CodeOutOfRange or
// CodeConstraint). It returns the canonical value or Issues rooted at "/".
// Validators are immutable once constructed.
type Validator interface {
	Kind() Kind
	Validate(v any) (any, error)
	// JSONSchema projects the validator for editor introspection.
	JSONSchema() (*js.Schema, error)
}

// Values is a name to value configuration used for construction and bulk
// updates.
type Values map[string]any

// Field is one enumerated (name, value) pair.
type Field struct {
	Name  string
	Value any
}

// FromFields converts an enumeration back into Values for construction.
func FromFields(fields []Field) Values {
	out := make(Values, len(fields))
	for _, f := range fields {
		out[f.Name] = f.Value
	}
	return out
}
