package validate

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/reoring/hasprops"
	"github.com/reoring/hasprops/i18n"
	js "github.com/reoring/hasprops/jsonschema"
)

// MapValidator validates text-keyed mappings: every key through a key
// validator and, when set, every value through a value validator. The
// canonical form is a fresh map[string]any.
type MapValidator struct {
	keys   hasprops.Validator
	values hasprops.Validator // nil accepts any value, copied into plain form
}

var _ hasprops.Validator = (*MapValidator)(nil)

// Map returns a typed-collection validator. keys defaults to Text() when nil;
// it must canonicalise keys to strings. values may be nil.
func Map(keys, values hasprops.Validator) *MapValidator {
	if keys == nil {
		keys = Text()
	}
	return &MapValidator{keys: keys, values: values}
}

func (m *MapValidator) Kind() hasprops.Kind          { return hasprops.KindCollection }
func (m *MapValidator) Keys() hasprops.Validator     { return m.keys }
func (m *MapValidator) ValuesOf() hasprops.Validator { return m.values }

func (m *MapValidator) Validate(v any) (any, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Map {
		return nil, typeMismatch("mapping", v)
	}
	type entry struct {
		label string
		key   reflect.Value
	}
	entries := make([]entry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		entries = append(entries, entry{label: fmt.Sprint(iter.Key().Interface()), key: iter.Key()})
	}
	// stable issue order regardless of map iteration
	sort.Slice(entries, func(i, j int) bool { return entries[i].label < entries[j].label })

	out := make(map[string]any, len(entries))
	var iss hasprops.Issues
	for _, e := range entries {
		base := hasprops.Pointer(e.label)
		kv, err := m.keys.Validate(e.key.Interface())
		if err != nil {
			iss = hasprops.AppendIssues(iss, hasprops.IssuesFromErr("/", hasprops.CodeConstraint, err).Rebase(base)...)
			continue
		}
		k, ok := kv.(string)
		if !ok {
			iss = hasprops.AppendIssues(iss, hasprops.Issue{Path: base, Code: hasprops.CodeTypeMismatch, Message: i18n.T(hasprops.CodeTypeMismatch, nil), Hint: "keys must canonicalise to text"})
			continue
		}
		if _, dup := out[k]; dup {
			iss = hasprops.AppendIssues(iss, hasprops.Issue{Path: base, Code: hasprops.CodeConstraint, Message: i18n.T(hasprops.CodeConstraint, nil), Hint: fmt.Sprintf("key %q duplicated after coercion", k)})
			continue
		}
		val := rv.MapIndex(e.key).Interface()
		if m.values != nil {
			cv, err := m.values.Validate(val)
			if err != nil {
				iss = hasprops.AppendIssues(iss, hasprops.IssuesFromErr("/", hasprops.CodeConstraint, err).Rebase(base)...)
				continue
			}
			val = cv
		} else {
			val = plainValue(reflect.ValueOf(val))
		}
		out[k] = val
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func (m *MapValidator) JSONSchema() (*js.Schema, error) {
	ks, err := m.keys.JSONSchema()
	if err != nil {
		return nil, err
	}
	out := &js.Schema{Type: "object", PropertyNames: ks, AdditionalProperties: true}
	if m.values != nil {
		vs, err := m.values.JSONSchema()
		if err != nil {
			return nil, err
		}
		out.AdditionalProperties = vs
	}
	return out, nil
}

// plainValue deep-copies v into map[string]any and []any containers so that a
// stored value never shares memory with the caller. Pointers are followed.
// Structs are stored as value copies.
func plainValue(rv reflect.Value) any {
	if !rv.IsValid() {
		return nil
	}
	switch rv.Kind() {
	case reflect.Interface, reflect.Pointer:
		if rv.IsNil() {
			return nil
		}
		return plainValue(rv.Elem())
	case reflect.Map:
		if rv.IsNil() {
			return nil
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := iter.Key()
			label := fmt.Sprint(k.Interface())
			if k.Kind() == reflect.String {
				label = k.String()
			}
			out[label] = plainValue(iter.Value())
		}
		return out
	case reflect.Slice:
		if rv.IsNil() {
			return nil
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return append([]byte(nil), rv.Bytes()...)
		}
		fallthrough
	case reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = plainValue(rv.Index(i))
		}
		return out
	}
	return rv.Interface()
}
