package hasprops

import (
	"github.com/reoring/hasprops/i18n"
	js "github.com/reoring/hasprops/jsonschema"
)

// Schema is the closed, ordered set of Props of one document type, including
// the Props inherited from its parent.
type Schema struct {
	name   string
	parent *Schema
	props  []*Prop
	index  map[string]int
}

type propDecl struct {
	prop  *Prop // set when the Prop was declared up front via Add
	name  string
	v     Validator
	def   any
	short string
	long  string
}

type schemaBuilder struct {
	name   string
	parent *Schema
	decls  []*propDecl
}

type propStep struct {
	b *schemaBuilder
	d *propDecl
}

// Define starts a schema declaration. Props are declared with Prop(...) steps
// and the schema is closed by Build.
func Define(name string) *schemaBuilder {
	return &schemaBuilder{name: name}
}

// Extends makes the schema a subtype of parent: parent Props come first, and a
// Prop redeclared here replaces the parent's Prop at the parent's position.
func (b *schemaBuilder) Extends(parent *Schema) *schemaBuilder {
	b.parent = parent
	return b
}

// Prop declares a Prop validated by v. Without a Default step the default is
// nil, which v must accept.
func (b *schemaBuilder) Prop(name string, v Validator) *propStep {
	d := &propDecl{name: name, v: v}
	b.decls = append(b.decls, d)
	return &propStep{b: b, d: d}
}

// Add appends Props declared with NewProp.
func (b *schemaBuilder) Add(props ...*Prop) *schemaBuilder {
	for _, p := range props {
		if p == nil {
			continue
		}
		b.decls = append(b.decls, &propDecl{prop: p, name: p.name})
	}
	return b
}

// Default sets the default of the current Prop.
func (f *propStep) Default(v any) *propStep {
	f.d.def = v
	return f
}

// Doc sets the short and long documentation of the current Prop.
func (f *propStep) Doc(short, long string) *propStep {
	f.d.short = short
	f.d.long = long
	return f
}

func (f *propStep) Prop(name string, v Validator) *propStep { return f.b.Prop(name, v) }
func (f *propStep) Add(props ...*Prop) *schemaBuilder       { return f.b.Add(props...) }
func (f *propStep) Build() (*Schema, error)                 { return f.b.Build() }
func (f *propStep) MustBuild() *Schema                      { return f.b.MustBuild() }

// Build validates every declaration and closes the schema.
func (b *schemaBuilder) Build() (*Schema, error) {
	if b.name == "" {
		return nil, Issues{{Path: "/", Code: CodeInvalidName, Message: i18n.T(CodeInvalidName, nil), Hint: "schema name is empty"}}
	}
	s := &Schema{name: b.name, parent: b.parent, index: map[string]int{}}
	if b.parent != nil {
		s.props = append(s.props, b.parent.props...)
		for k, i := range b.parent.index {
			s.index[k] = i
		}
	}
	var iss Issues
	own := make(map[string]struct{}, len(b.decls))
	for _, d := range b.decls {
		if _, dup := own[d.name]; dup {
			iss = AppendIssues(iss, Issue{Path: Pointer(d.name), Code: CodeDuplicateProp, Message: i18n.T(CodeDuplicateProp, nil), Hint: "declared twice in " + b.name})
			continue
		}
		own[d.name] = struct{}{}
		p := d.prop
		if p == nil {
			var err error
			p, err = NewProp(d.name, d.v, d.def, WithDoc(d.short, d.long))
			if err != nil {
				iss = AppendIssues(iss, IssuesFromErr(Pointer(d.name), CodeInvalidDefault, err)...)
				continue
			}
		}
		if i, ok := s.index[p.name]; ok {
			s.props[i] = p
			continue
		}
		s.index[p.name] = len(s.props)
		s.props = append(s.props, p)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return s, nil
}

// MustBuild is like Build but panics on error.
func (b *schemaBuilder) MustBuild() *Schema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) Name() string    { return s.name }
func (s *Schema) Parent() *Schema { return s.parent }
func (s *Schema) Len() int        { return len(s.props) }

// Props returns the Props in declaration order.
func (s *Schema) Props() []*Prop {
	out := make([]*Prop, len(s.props))
	copy(out, s.props)
	return out
}

// Prop returns the Prop registered under name.
func (s *Schema) Prop(name string) (*Prop, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.props[i], true
}

// Has reports whether name is declared on s or an ancestor.
func (s *Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// IsA reports whether s is other or derives from it.
func (s *Schema) IsA(other *Schema) bool {
	for cur := s; cur != nil; cur = cur.parent {
		if cur == other {
			return true
		}
	}
	return false
}

func (s *Schema) unknown(name string) Issues {
	return Issues{{
		Path:    Pointer(name),
		Code:    CodeUnknownProp,
		Message: i18n.T(CodeUnknownProp, map[string]string{"prop": name}),
		Hint:    name + " is not declared on " + s.name,
		Params:  map[string]any{"prop": name, "schema": s.name},
	}}
}

// JSONSchema projects the schema as a JSON Schema object with one property per
// Prop, keeping declaration order in PropertyOrder.
func (s *Schema) JSONSchema() (*js.Schema, error) {
	out := &js.Schema{
		Type:                 "object",
		Title:                s.name,
		Properties:           make(map[string]*js.Schema, len(s.props)),
		PropertyOrder:        make([]string, 0, len(s.props)),
		AdditionalProperties: false,
	}
	for _, p := range s.props {
		ps, err := p.validator.JSONSchema()
		if err != nil {
			return nil, err
		}
		if ps == nil {
			ps = &js.Schema{}
		}
		ps.Default = p.Default()
		ps.Title = p.short
		ps.Description = p.long
		out.Properties[p.name] = ps
		out.PropertyOrder = append(out.PropertyOrder, p.name)
	}
	return out, nil
}
