package hasprops

import (
	"github.com/reoring/hasprops/i18n"
)

// Prop is a named schema slot: one Validator, a validated default and optional
// documentation. A Prop is immutable once declared.
type Prop struct {
	name      string
	validator Validator
	def       any
	short     string
	long      string
}

// PropOption configures a Prop at declaration time.
type PropOption func(*Prop)

// WithDoc attaches short and long documentation strings.
func WithDoc(short, long string) PropOption {
	return func(p *Prop) {
		p.short = short
		p.long = long
	}
}

// NewProp declares a Prop. The default is run through v once, here, and the
// coerced result becomes the stored default.
func NewProp(name string, v Validator, def any, opts ...PropOption) (*Prop, error) {
	if name == "" {
		return nil, Issues{{Path: "/", Code: CodeInvalidName, Message: i18n.T(CodeInvalidName, nil), Hint: "prop name is empty"}}
	}
	if v == nil {
		return nil, Issues{{Path: Pointer(name), Code: CodeInvalidDefault, Message: i18n.T(CodeInvalidDefault, nil), Hint: "validator is nil"}}
	}
	cd, err := v.Validate(def)
	if err != nil {
		return nil, Issues{{
			Path:    Pointer(name),
			Code:    CodeInvalidDefault,
			Message: i18n.T(CodeInvalidDefault, nil),
			Hint:    err.Error(),
			Cause:   err,
			Causes:  IssuesFromErr("/", CodeConstraint, err).Rebase(Pointer(name)),
		}}
	}
	p := &Prop{name: name, validator: v, def: cd}
	for _, o := range opts {
		if o != nil {
			o(p)
		}
	}
	return p, nil
}

// MustProp is like NewProp but panics on error.
func MustProp(name string, v Validator, def any, opts ...PropOption) *Prop {
	p, err := NewProp(name, v, def, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Prop) Name() string         { return p.name }
func (p *Prop) Validator() Validator { return p.validator }
func (p *Prop) Short() string        { return p.short }
func (p *Prop) Long() string         { return p.long }

// Default returns a copy of the coerced default.
func (p *Prop) Default() any { return cloneValue(p.def) }

// Get returns inst's value for this prop's name.
func (p *Prop) Get(inst *Instance) (any, error) { return inst.Get(p.name) }

// Set assigns v to this prop's name on inst through the validation pipeline.
func (p *Prop) Set(inst *Instance, v any) error { return inst.Set(p.name, v) }

// validate runs the validator and rebases failures under the prop's path.
func (p *Prop) validate(v any) (any, error) {
	cv, err := p.validator.Validate(v)
	if err != nil {
		return nil, IssuesFromErr("/", CodeConstraint, err).Rebase(Pointer(p.name))
	}
	return cv, nil
}

// PropInfo is a flat description of a Prop for listings and editors.
type PropInfo struct {
	Name    string `json:"name" yaml:"name"`
	Kind    string `json:"kind" yaml:"kind"`
	Default any    `json:"default" yaml:"default"`
	Short   string `json:"short,omitempty" yaml:"short,omitempty"`
	Long    string `json:"long,omitempty" yaml:"long,omitempty"`
}

// Describe returns the PropInfo for p.
func (p *Prop) Describe() PropInfo {
	return PropInfo{Name: p.name, Kind: p.validator.Kind().String(), Default: p.Default(), Short: p.short, Long: p.long}
}
