package hasprops

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/reoring/hasprops/i18n"
)

// ResolveStructKey applies the repository-wide rule to resolve a struct field's
// prop name.
// Priority: prop:"name" > json tag name > field name; "-" disables the field.
func ResolveStructKey(sf reflect.StructField) string {
	if pt := sf.Tag.Get("prop"); pt != "" {
		if i := strings.IndexByte(pt, ','); i >= 0 {
			return pt[:i]
		}
		return pt
	}
	if jt := sf.Tag.Get("json"); jt != "" {
		if jt == "-" {
			return "-"
		}
		if i := strings.IndexByte(jt, ','); i >= 0 {
			return jt[:i]
		}
		return jt
	}
	return sf.Name
}

func hasOmitEmpty(sf reflect.StructField) bool {
	for _, tag := range []string{sf.Tag.Get("prop"), sf.Tag.Get("json")} {
		parts := strings.Split(tag, ",")
		for _, p := range parts[1:] {
			if strings.TrimSpace(p) == "omitempty" {
				return true
			}
		}
	}
	return false
}

// StructValues reads the exported fields of a struct (or pointer to struct)
// into Values, ready for New or Update. Zero fields tagged omitempty are left
// out so their props keep their current values.
func StructValues(src any) (Values, error) {
	rv := reflect.ValueOf(src)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, bindIssue("/", "nil struct pointer")
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, bindIssue("/", fmt.Sprintf("expected struct, got %s", rv.Kind()))
	}
	rt := rv.Type()
	out := Values{}
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		key := ResolveStructKey(sf)
		if key == "-" {
			continue
		}
		fv := rv.Field(i)
		if hasOmitEmpty(sf) && fv.IsZero() {
			continue
		}
		out[key] = fv.Interface()
	}
	return out, nil
}

// Bind copies the current values into the matching fields of the struct dst
// points to. It gives renderers a statically typed view; the Instance stays
// the only writable copy. Fields without a matching prop are left alone.
func (inst *Instance) Bind(dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return bindIssue("/", "Bind needs a non-nil pointer to a struct")
	}
	rv = rv.Elem()
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		key := ResolveStructKey(sf)
		idx, ok := inst.schema.index[key]
		if key == "-" || !ok {
			continue
		}
		if err := assignValue(rv.Field(i), cloneValue(inst.values[idx])); err != nil {
			return bindIssue(Pointer(key), err.Error())
		}
	}
	return nil
}

// assignValue stores v into dst using assignment, conversion, or element-wise
// map conversion (map[string]any into map[string]string and friends).
func assignValue(dst reflect.Value, v any) error {
	if v == nil {
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	}
	sv := reflect.ValueOf(v)
	st := sv.Type()
	dt := dst.Type()
	switch {
	case st.AssignableTo(dt):
		dst.Set(sv)
		return nil
	case dt.Kind() == reflect.Interface && st.Implements(dt):
		dst.Set(sv)
		return nil
	case st.Kind() == reflect.Map && dt.Kind() == reflect.Map:
		out := reflect.MakeMapWithSize(dt, sv.Len())
		iter := sv.MapRange()
		for iter.Next() {
			k := reflect.New(dt.Key()).Elem()
			if err := assignValue(k, iter.Key().Interface()); err != nil {
				return err
			}
			e := reflect.New(dt.Elem()).Elem()
			if err := assignValue(e, iter.Value().Interface()); err != nil {
				return err
			}
			out.SetMapIndex(k, e)
		}
		dst.Set(out)
		return nil
	case convertibleScalar(st.Kind(), dt.Kind()):
		dst.Set(sv.Convert(dt))
		return nil
	}
	return fmt.Errorf("cannot assign %s to %s", st, dt)
}

func convertibleScalar(from, to reflect.Kind) bool {
	num := func(k reflect.Kind) bool {
		return (k >= reflect.Int && k <= reflect.Uint64) || k == reflect.Float32 || k == reflect.Float64
	}
	switch {
	case num(from) && num(to):
		return true
	case from == to && (from == reflect.String || from == reflect.Bool):
		return true
	}
	return false
}

func bindIssue(path, hint string) Issues {
	return Issues{{Path: path, Code: CodeTypeMismatch, Message: i18n.T(CodeTypeMismatch, nil), Hint: hint}}
}
