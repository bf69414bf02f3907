package validate

import (
	"github.com/reoring/hasprops"
	js "github.com/reoring/hasprops/jsonschema"
)

type nullValidator struct{}

var _ hasprops.Validator = nullValidator{}

// Null returns the null marker validator. It accepts only nil and is meant
// as an alternative inside AnyOf, e.g. "a bound or automatic".
func Null() hasprops.Validator { return nullValidator{} }

func (nullValidator) Kind() hasprops.Kind { return hasprops.KindNull }

func (nullValidator) Validate(v any) (any, error) {
	if v != nil {
		return nil, typeMismatch("null", v)
	}
	return nil, nil
}

func (nullValidator) JSONSchema() (*js.Schema, error) { return &js.Schema{Type: "null"}, nil }
