package validate

import (
	"fmt"
	"reflect"
	"strconv"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/reoring/hasprops"
	js "github.com/reoring/hasprops/jsonschema"
)

// TextValidator accepts text-like values and stores them in Unicode NFC.
type TextValidator struct {
	minLen int
	maxLen int // 0 means unbounded
}

var _ hasprops.Validator = (*TextValidator)(nil)

// Text returns an unbounded text validator.
func Text() *TextValidator { return &TextValidator{} }

// MinLen returns a copy requiring at least n runes.
func (t *TextValidator) MinLen(n int) *TextValidator {
	c := *t
	c.minLen = n
	return &c
}

// MaxLen returns a copy allowing at most n runes.
func (t *TextValidator) MaxLen(n int) *TextValidator {
	c := *t
	c.maxLen = n
	return &c
}

func (t *TextValidator) Kind() hasprops.Kind { return hasprops.KindText }

func (t *TextValidator) Validate(v any) (any, error) {
	s, err := toText(v)
	if err != nil {
		return nil, err
	}
	n := utf8.RuneCountInString(s)
	if n < t.minLen {
		return nil, constraint(fmt.Sprintf("length %d < %d", n, t.minLen), map[string]any{"got": s, "minLen": t.minLen})
	}
	if t.maxLen > 0 && n > t.maxLen {
		return nil, constraint(fmt.Sprintf("length %d > %d", n, t.maxLen), map[string]any{"got": s, "maxLen": t.maxLen})
	}
	return s, nil
}

func (t *TextValidator) JSONSchema() (*js.Schema, error) {
	out := &js.Schema{Type: "string"}
	if t.minLen > 0 {
		out.MinLength = js.Int(t.minLen)
	}
	if t.maxLen > 0 {
		out.MaxLength = js.Int(t.maxLen)
	}
	return out, nil
}

// toText is the type check and coercion stage shared by text-based validators.
// Strings, byte slices, fmt.Stringer and numbers have a sensible text form;
// nil, booleans and containers do not.
func toText(v any) (string, error) {
	var s string
	switch t := v.(type) {
	case nil:
		return "", typeMismatch("text", v)
	case string:
		s = t
	case []byte:
		s = string(t)
	case fmt.Stringer:
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return "", typeMismatch("text", v)
		}
		s = t.String()
	default:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.String:
			s = rv.String()
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			s = strconv.FormatInt(rv.Int(), 10)
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			s = strconv.FormatUint(rv.Uint(), 10)
		case reflect.Float32:
			s = strconv.FormatFloat(rv.Float(), 'g', -1, 32)
		case reflect.Float64:
			s = strconv.FormatFloat(rv.Float(), 'g', -1, 64)
		default:
			return "", typeMismatch("text", v)
		}
	}
	if !utf8.ValidString(s) {
		return "", coercionFailed("text", v, "invalid UTF-8")
	}
	return norm.NFC.String(s), nil
}
