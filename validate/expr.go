package validate

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/reoring/hasprops"
	js "github.com/reoring/hasprops/jsonschema"
)

// ExprValidator runs an inner validator and then a boolean expr-lang
// expression over the coerced value, bound as `value`.
type ExprValidator struct {
	inner      hasprops.Validator
	expression string
	program    *vm.Program
}

var _ hasprops.Validator = (*ExprValidator)(nil)

// Expr compiles expression once. The expression must evaluate to a bool,
// for example `value % 2 == 0` or `len(value) > 0 && value != "none"`.
// `value` is the only identifier in scope besides the expr-lang builtins.
func Expr(inner hasprops.Validator, expression string) (*ExprValidator, error) {
	if inner == nil {
		return nil, fmt.Errorf("validate: Expr needs an inner validator")
	}
	prg, err := expr.Compile(expression, expr.Env(map[string]any{"value": nil}))
	if err != nil {
		return nil, fmt.Errorf("validate: compile %q: %w", expression, err)
	}
	return &ExprValidator{inner: inner, expression: expression, program: prg}, nil
}

// MustExpr is like Expr but panics on error.
func MustExpr(inner hasprops.Validator, expression string) *ExprValidator {
	e, err := Expr(inner, expression)
	if err != nil {
		panic(err)
	}
	return e
}

func (e *ExprValidator) Kind() hasprops.Kind       { return hasprops.KindExpr }
func (e *ExprValidator) Inner() hasprops.Validator { return e.inner }
func (e *ExprValidator) Expression() string        { return e.expression }

func (e *ExprValidator) Validate(v any) (any, error) {
	cv, err := e.inner.Validate(v)
	if err != nil {
		return nil, err
	}
	params := map[string]any{"got": cv, "expr": e.expression}
	res, err := expr.Run(e.program, map[string]any{"value": cv})
	if err != nil {
		iss := hasprops.NewIssue(hasprops.CodeConstraint, fmt.Sprintf("%s: %v", e.expression, err), params)
		iss[0].Cause = err
		return nil, iss
	}
	ok, isBool := res.(bool)
	if !isBool {
		return nil, constraint(fmt.Sprintf("%s evaluated to %T, not bool", e.expression, res), params)
	}
	if !ok {
		return nil, constraint(fmt.Sprintf("%v violates %s", cv, e.expression), params)
	}
	return cv, nil
}

func (e *ExprValidator) JSONSchema() (*js.Schema, error) {
	s, err := e.inner.JSONSchema()
	if err != nil {
		return nil, err
	}
	if s == nil {
		s = &js.Schema{}
	}
	s.Constraint = e.expression
	return s, nil
}
