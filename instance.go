package hasprops

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/reoring/hasprops/i18n"
)

// Instance is the per-object storage of a Schema. Every stored value has passed
// its Prop's Validator; the only writers are New, Set and Update.
//
// An Instance is not safe for concurrent mutation. Callers confine all access
// to one object graph to a single goroutine (typically the UI event loop).
type Instance struct {
	schema    *Schema
	values    []any  // by Prop position
	explicit  []bool // slot assigned through New/Set/Update
	editMark  bool
	observers []observerEntry
	nextObsID int
}

// Option configures an Instance at construction.
type Option func(*Instance)

// New constructs an Instance of s. Every cfg entry is validated through its
// Prop in declaration order; names absent from cfg keep their defaults. Any
// unknown name or invalid value fails the whole construction and no Instance
// is returned. A new Instance starts with the edit mark cleared and
// construction emits no change events.
func New(s *Schema, cfg Values, opts ...Option) (*Instance, error) {
	if s == nil {
		return nil, Issues{{Path: "/", Code: CodeInvalidName, Message: i18n.T(CodeInvalidName, nil), Hint: "nil schema"}}
	}
	staged, err := s.stage(cfg)
	if err != nil {
		return nil, err
	}
	inst := &Instance{
		schema:   s,
		values:   make([]any, len(s.props)),
		explicit: make([]bool, len(s.props)),
	}
	for i, p := range s.props {
		inst.values[i] = cloneValue(p.def)
	}
	for _, st := range staged {
		inst.values[st.idx] = st.value
		inst.explicit[st.idx] = true
	}
	for _, o := range opts {
		if o != nil {
			o(inst)
		}
	}
	return inst, nil
}

// MustNew is like New but panics on error.
func MustNew(s *Schema, cfg Values, opts ...Option) *Instance {
	inst, err := New(s, cfg, opts...)
	if err != nil {
		panic(err)
	}
	return inst
}

type stagedValue struct {
	idx   int
	value any
}

// stage validates every entry of vals without touching any Instance. Results
// are in declaration order; issues cover unknown names (sorted) followed by
// validation failures (declaration order).
func (s *Schema) stage(vals Values) ([]stagedValue, error) {
	if len(vals) == 0 {
		return nil, nil
	}
	var iss Issues
	var unknown []string
	for name := range vals {
		if !s.Has(name) {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		iss = AppendIssues(iss, s.unknown(name)...)
	}
	staged := make([]stagedValue, 0, len(vals))
	for i, p := range s.props {
		v, ok := vals[p.name]
		if !ok {
			continue
		}
		cv, err := p.validate(v)
		if err != nil {
			iss = AppendIssues(iss, IssuesFromErr(Pointer(p.name), CodeConstraint, err)...)
			continue
		}
		staged = append(staged, stagedValue{idx: i, value: cv})
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return staged, nil
}

// Schema returns the Instance's schema.
func (inst *Instance) Schema() *Schema { return inst.schema }

// Get returns the current value of name: the last committed assignment or the
// Prop's default.
func (inst *Instance) Get(name string) (any, error) {
	i, ok := inst.schema.index[name]
	if !ok {
		return nil, inst.schema.unknown(name)
	}
	return cloneValue(inst.values[i]), nil
}

// MustGet is like Get but panics on an unknown name.
func (inst *Instance) MustGet(name string) any {
	v, err := inst.Get(name)
	if err != nil {
		panic(err)
	}
	return v
}

// GetAs returns the value of name asserted to T.
func GetAs[T any](inst *Instance, name string) (T, error) {
	var zero T
	v, err := inst.Get(name)
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	t, ok := v.(T)
	if !ok {
		return zero, Issues{{
			Path:    Pointer(name),
			Code:    CodeTypeMismatch,
			Message: i18n.T(CodeTypeMismatch, nil),
			Hint:    fmt.Sprintf("%s holds %T, not %T", name, v, zero),
		}}
	}
	return t, nil
}

// Set validates v through name's Prop and commits the coerced value. On
// failure nothing changes and no event is emitted. On success the edit mark is
// set and one Change is delivered to every observer before Set returns, even
// when the new value equals the old one.
func (inst *Instance) Set(name string, v any) error {
	i, ok := inst.schema.index[name]
	if !ok {
		return inst.schema.unknown(name)
	}
	cv, err := inst.schema.props[i].validate(v)
	if err != nil {
		return err
	}
	return inst.commit([]stagedValue{{idx: i, value: cv}})
}

// Update applies several assignments atomically: all entries are validated
// before any is committed, so a single invalid entry leaves the Instance
// untouched. One Change per assigned name is delivered in declaration order.
func (inst *Instance) Update(vals Values) error {
	staged, err := inst.schema.stage(vals)
	if err != nil {
		return err
	}
	return inst.commit(staged)
}

func (inst *Instance) commit(staged []stagedValue) error {
	if len(staged) == 0 {
		return nil
	}
	changes := make([]Change, 0, len(staged))
	for _, st := range staged {
		old := inst.values[st.idx]
		inst.values[st.idx] = st.value
		inst.explicit[st.idx] = true
		changes = append(changes, Change{Name: inst.schema.props[st.idx].name, Old: old, New: cloneValue(st.value)})
	}
	inst.editMark = true
	for _, c := range changes {
		inst.notify(c)
	}
	return nil
}

// IsSet reports whether name was explicitly assigned rather than holding its
// default.
func (inst *Instance) IsSet(name string) bool {
	i, ok := inst.schema.index[name]
	return ok && inst.explicit[i]
}

// EditMark reports whether the Instance has been mutated since construction
// or the last ClearEditMark.
func (inst *Instance) EditMark() bool { return inst.editMark }

// ClearEditMark resets the edit mark, typically after the owning document has
// been saved.
func (inst *Instance) ClearEditMark() { inst.editMark = false }

// Enumerate returns the (name, value) pairs in declaration order. This is the
// contract persistence and introspection consumers rely on.
func (inst *Instance) Enumerate() []Field {
	out := make([]Field, len(inst.values))
	for i, p := range inst.schema.props {
		out[i] = Field{Name: p.name, Value: cloneValue(inst.values[i])}
	}
	return out
}

// Values returns the current values keyed by name.
func (inst *Instance) Values() Values {
	out := make(Values, len(inst.values))
	for i, p := range inst.schema.props {
		out[p.name] = cloneValue(inst.values[i])
	}
	return out
}

// Equal reports whether other has the same schema and equal values for every
// Prop. Edit marks and observers are not compared.
func (inst *Instance) Equal(other *Instance) bool {
	if inst == nil || other == nil {
		return inst == other
	}
	if inst.schema != other.schema {
		return false
	}
	return reflect.DeepEqual(inst.values, other.values)
}

// Clone returns a copy of the Instance without its observers.
func (inst *Instance) Clone() *Instance {
	out := &Instance{
		schema:   inst.schema,
		values:   make([]any, len(inst.values)),
		explicit: append([]bool(nil), inst.explicit...),
		editMark: inst.editMark,
	}
	for i, v := range inst.values {
		out.values[i] = cloneValue(v)
	}
	return out
}

func (inst *Instance) String() string {
	b := &strings.Builder{}
	b.WriteString(inst.schema.name)
	b.WriteByte('{')
	for i, p := range inst.schema.props {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(b, "%s=%v", p.name, inst.values[i])
	}
	b.WriteByte('}')
	return b.String()
}

// cloneValue copies the mutable canonical containers so callers cannot
// modify stored state behind the validators' back.
func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = cloneValue(vv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, vv := range t {
			out[i] = cloneValue(vv)
		}
		return out
	case []byte:
		return append([]byte(nil), t...)
	default:
		return v
	}
}
