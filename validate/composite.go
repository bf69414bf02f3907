package validate

import (
	"fmt"

	"github.com/reoring/hasprops"
	"github.com/reoring/hasprops/i18n"
	js "github.com/reoring/hasprops/jsonschema"
)

// CompositeValidator tries its children in order and returns the first
// successful coercion. The order is part of the contract: with
// AnyOf(Range(0, 10), Text()) the input "5" becomes the number 5.
type CompositeValidator struct {
	children []hasprops.Validator
}

var _ hasprops.Validator = (*CompositeValidator)(nil)

// AnyOf returns a composite over children. Nil children are dropped.
func AnyOf(children ...hasprops.Validator) *CompositeValidator {
	c := &CompositeValidator{children: make([]hasprops.Validator, 0, len(children))}
	for _, ch := range children {
		if ch != nil {
			c.children = append(c.children, ch)
		}
	}
	return c
}

func (c *CompositeValidator) Kind() hasprops.Kind { return hasprops.KindComposite }

// Children returns the alternatives in order.
func (c *CompositeValidator) Children() []hasprops.Validator {
	return append([]hasprops.Validator(nil), c.children...)
}

// Validate returns the first accepting child's value. When every child
// rejects, the single composite_failed issue lists each child's failure in
// Causes, in child order.
func (c *CompositeValidator) Validate(v any) (any, error) {
	causes := make(hasprops.Issues, 0, len(c.children))
	for i, ch := range c.children {
		cv, err := ch.Validate(v)
		if err == nil {
			return cv, nil
		}
		iss := hasprops.IssuesFromErr("/", hasprops.CodeConstraint, err)
		cause := hasprops.Issue{
			Path:    "/",
			Code:    iss[0].Code,
			Message: iss[0].Message,
			Hint:    iss.Error(),
			Cause:   err,
			Params:  map[string]any{"alternative": i, "kind": ch.Kind().String()},
		}
		if len(iss) > 1 || len(iss[0].Causes) > 0 {
			cause.Causes = iss
		}
		causes = append(causes, cause)
	}
	return nil, hasprops.Issues{{
		Path:    "/",
		Code:    hasprops.CodeCompositeFailed,
		Message: i18n.T(hasprops.CodeCompositeFailed, nil),
		Hint:    fmt.Sprintf("%v rejected by all %d alternatives", v, len(c.children)),
		Params:  map[string]any{"got": v},
		Causes:  causes,
	}}
}

func (c *CompositeValidator) JSONSchema() (*js.Schema, error) {
	out := &js.Schema{AnyOf: make([]*js.Schema, 0, len(c.children))}
	for _, ch := range c.children {
		s, err := ch.JSONSchema()
		if err != nil {
			return nil, err
		}
		out.AnyOf = append(out.AnyOf, s)
	}
	return out, nil
}
