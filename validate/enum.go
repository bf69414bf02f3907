package validate

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/reoring/hasprops"
	js "github.com/reoring/hasprops/jsonschema"
)

// EnumValidator accepts one of a fixed list of text choices.
type EnumValidator struct {
	choices []string
	set     map[string]struct{}
}

var _ hasprops.Validator = (*EnumValidator)(nil)

// Enum returns a validator accepting exactly the given choices. Choices are
// stored in NFC so they compare equal to coerced input.
func Enum(choices ...string) *EnumValidator {
	e := &EnumValidator{choices: make([]string, 0, len(choices)), set: make(map[string]struct{}, len(choices))}
	for _, c := range choices {
		c = norm.NFC.String(c)
		if _, dup := e.set[c]; dup {
			continue
		}
		e.set[c] = struct{}{}
		e.choices = append(e.choices, c)
	}
	return e
}

func (e *EnumValidator) Kind() hasprops.Kind { return hasprops.KindEnum }

// Choices returns the allowed values in declaration order.
func (e *EnumValidator) Choices() []string { return append([]string(nil), e.choices...) }

func (e *EnumValidator) Validate(v any) (any, error) {
	s, err := toText(v)
	if err != nil {
		return nil, err
	}
	if _, ok := e.set[s]; !ok {
		return nil, constraint(fmt.Sprintf("%q not one of [%s]", s, strings.Join(e.choices, ", ")),
			map[string]any{"got": s, "allowed": e.Choices()})
	}
	return s, nil
}

func (e *EnumValidator) JSONSchema() (*js.Schema, error) {
	out := &js.Schema{Type: "string", Enum: make([]any, len(e.choices))}
	for i, c := range e.choices {
		out.Enum[i] = c
	}
	return out, nil
}
