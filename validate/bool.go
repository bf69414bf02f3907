package validate

import (
	"reflect"
	"strings"

	"github.com/reoring/hasprops"
	js "github.com/reoring/hasprops/jsonschema"
)

type boolValidator struct{}

var _ hasprops.Validator = boolValidator{}

// Bool returns the boolean validator.
func Bool() hasprops.Validator { return boolValidator{} }

var boolWords = map[string]bool{
	"true": true, "yes": true, "on": true, "1": true,
	"false": false, "no": false, "off": false, "0": false,
}

func (boolValidator) Kind() hasprops.Kind { return hasprops.KindBool }

func (boolValidator) Validate(v any) (any, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil, typeMismatch("bool", v)
	}
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.String:
		return boolFromText(v, rv.String())
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return boolFromText(v, string(rv.Bytes()))
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		switch rv.Int() {
		case 0:
			return false, nil
		case 1:
			return true, nil
		}
		return nil, coercionFailed("bool", v, "only 0 and 1 are boolean")
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		switch rv.Uint() {
		case 0:
			return false, nil
		case 1:
			return true, nil
		}
		return nil, coercionFailed("bool", v, "only 0 and 1 are boolean")
	}
	return nil, typeMismatch("bool", v)
}

func boolFromText(orig any, s string) (any, error) {
	b, ok := boolWords[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return nil, coercionFailed("bool", orig, "")
	}
	return b, nil
}

func (boolValidator) JSONSchema() (*js.Schema, error) { return &js.Schema{Type: "boolean"}, nil }
