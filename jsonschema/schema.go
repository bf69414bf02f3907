package jsonschema

// Schema is a minimal JSON Schema representation used for export to editors
// and external tooling. Keep this struct small and extend incrementally.
type Schema struct {
	// Core
	Type        string `json:"type,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Default     any    `json:"default,omitempty"`

	// Numbers
	Minimum *float64 `json:"minimum,omitempty"`
	Maximum *float64 `json:"maximum,omitempty"`

	// Text
	MinLength *int `json:"minLength,omitempty"`
	MaxLength *int `json:"maxLength,omitempty"`

	// Enumerations
	Enum []any `json:"enum,omitempty"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty"`
	PropertyOrder        []string           `json:"propertyOrder,omitempty"`
	PropertyNames        *Schema            `json:"propertyNames,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty"`

	// Union
	AnyOf []*Schema `json:"anyOf,omitempty"`

	// Extensions
	Constraint string `json:"x-constraint,omitempty"`
}

// Float returns a pointer to v for Minimum/Maximum.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v for MinLength/MaxLength.
func Int(v int) *int { return &v }
