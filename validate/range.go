package validate

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/reoring/hasprops"
	js "github.com/reoring/hasprops/jsonschema"
)

// Number is the set of canonical numeric representations a Range can target.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

// Bounded is implemented by validators with numeric bounds, so editors can
// configure spin boxes and sliders without knowing the target type.
type Bounded interface {
	Bounds() (min, max float64)
}

// RangeValidator accepts numbers within [min, max] and coerces them to T.
type RangeValidator[T Number] struct {
	min, max T
	integer  bool
}

var _ hasprops.Validator = (*RangeValidator[int])(nil)

// Range returns an inclusive range validator. It panics when min > max or a
// bound is NaN, since that is a programming error in a schema declaration.
func Range[T Number](min, max T) *RangeValidator[T] {
	if math.IsNaN(float64(min)) || math.IsNaN(float64(max)) || min > max {
		panic(fmt.Sprintf("validate: invalid range [%v, %v]", min, max))
	}
	k := reflect.TypeOf(min).Kind()
	return &RangeValidator[T]{min: min, max: max, integer: k >= reflect.Int && k <= reflect.Int64}
}

func (r *RangeValidator[T]) Kind() hasprops.Kind { return hasprops.KindRange }
func (r *RangeValidator[T]) Min() T              { return r.min }
func (r *RangeValidator[T]) Max() T              { return r.max }
func (r *RangeValidator[T]) Bounds() (min, max float64) {
	return float64(r.min), float64(r.max)
}

func (r *RangeValidator[T]) Validate(v any) (any, error) {
	n, err := toNumber(v)
	if err != nil {
		return nil, err
	}
	if r.integer {
		if n.isInt {
			if n.i < int64(r.min) || n.i > int64(r.max) {
				return nil, r.outOfRange(v, n)
			}
			return T(n.i), nil
		}
		if n.f != math.Trunc(n.f) {
			return nil, coercionFailed("integer", v, "fractional value")
		}
		if n.f < float64(r.min) || n.f > float64(r.max) {
			return nil, r.outOfRange(v, n)
		}
		return T(n.f), nil
	}
	out := T(n.float())
	if float64(out) < float64(r.min) || float64(out) > float64(r.max) {
		return nil, r.outOfRange(v, n)
	}
	return out, nil
}

func (r *RangeValidator[T]) outOfRange(v any, n number) error {
	return hasprops.NewIssue(hasprops.CodeOutOfRange,
		fmt.Sprintf("%s not in [%v, %v]", n, r.min, r.max),
		map[string]any{"got": v, "min": r.min, "max": r.max})
}

func (r *RangeValidator[T]) JSONSchema() (*js.Schema, error) {
	t := "number"
	if r.integer {
		t = "integer"
	}
	return &js.Schema{Type: t, Minimum: js.Float(float64(r.min)), Maximum: js.Float(float64(r.max))}, nil
}

// number is a coerced numeric candidate before conversion to the target type.
type number struct {
	i     int64
	f     float64
	isInt bool
}

func (n number) float() float64 {
	if n.isInt {
		return float64(n.i)
	}
	return n.f
}

func (n number) String() string {
	if n.isInt {
		return strconv.FormatInt(n.i, 10)
	}
	return strconv.FormatFloat(n.f, 'g', -1, 64)
}

// toNumber is the type check and coercion stage shared by numeric validators.
// Integer and float kinds pass through, numeric text (string, []byte,
// json.Number) is parsed, everything else is a type mismatch.
func toNumber(v any) (number, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return number{}, typeMismatch("number", v)
	}
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return number{i: rv.Int(), isInt: true}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return number{f: float64(u)}, nil
		}
		return number{i: int64(u), isInt: true}, nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) {
			return number{}, coercionFailed("number", v, "NaN")
		}
		return number{f: f}, nil
	case reflect.String:
		return parseNumber(v, rv.String())
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return parseNumber(v, string(rv.Bytes()))
		}
	}
	return number{}, typeMismatch("number", v)
}

func parseNumber(orig any, s string) (number, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return number{}, coercionFailed("number", orig, "empty text")
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return number{i: i, isInt: true}, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return number{}, coercionFailed("number", orig, "not numeric")
	}
	return number{f: f}, nil
}
