// Package codec persists hasprops instances as JSON or YAML documents.
//
// Encoding walks Instance.Enumerate, so object keys follow declaration
// order. Decoding builds the instance with hasprops.New: every value goes
// through its validator, unknown keys are reported as unknown_prop and a key
// given twice is reported as duplicate_prop.
package codec

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/reoring/hasprops"
)

// Format selects the document syntax.
type Format int

const (
	JSON Format = iota
	YAML
)

func (f Format) String() string {
	if f == YAML {
		return "yaml"
	}
	return "json"
}

// ParseFormat maps "json", "yaml" or "yml" to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return JSON, fmt.Errorf("codec: unknown format %q", s)
}

// FormatFromPath picks a Format by file extension, defaulting to YAML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return JSON
	}
	return YAML
}

// Option configures encoding.
type Option func(*options)

type options struct {
	preserve bool
	indent   string
}

// Preserve omits slots that were never assigned explicitly, so a document
// only records what its author set and picks up new defaults later.
func Preserve() Option { return func(o *options) { o.preserve = true } }

// Indent pretty-prints JSON output with the given indent. YAML output is
// always block style.
func Indent(indent string) Option { return func(o *options) { o.indent = indent } }

func buildOptions(opts []Option) options {
	var o options
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

// fields returns the slots to encode, in declaration order.
func fields(inst *hasprops.Instance, o options) []hasprops.Field {
	all := inst.Enumerate()
	if !o.preserve {
		return all
	}
	out := all[:0]
	for _, f := range all {
		if inst.IsSet(f.Name) {
			out = append(out, f)
		}
	}
	return out
}

// Marshal encodes inst in the given format.
func Marshal(f Format, inst *hasprops.Instance, opts ...Option) ([]byte, error) {
	if f == YAML {
		return MarshalYAML(inst, opts...)
	}
	return MarshalJSON(inst, opts...)
}

// Unmarshal decodes data in the given format into a new instance of s.
func Unmarshal(f Format, s *hasprops.Schema, data []byte, opts ...hasprops.Option) (*hasprops.Instance, error) {
	if f == YAML {
		return UnmarshalYAML(s, data, opts...)
	}
	return UnmarshalJSON(s, data, opts...)
}

func duplicateKey(key, where string) hasprops.Issue {
	return hasprops.IssueAt(hasprops.CodeDuplicateProp, fmt.Sprintf("key %q given twice%s", key, where), map[string]any{"prop": key}, key)
}

func notObject(got string) error {
	return hasprops.NewIssue(hasprops.CodeTypeMismatch, "document must be an object, got "+got, nil)
}
