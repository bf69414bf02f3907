package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	j "github.com/goccy/go-json"

	"github.com/reoring/hasprops"
)

// MarshalJSON encodes inst as a JSON object keyed in declaration order.
// Nested mappings are written with sorted keys.
func MarshalJSON(inst *hasprops.Instance, opts ...Option) ([]byte, error) {
	o := buildOptions(opts)
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range fields(inst, o) {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := j.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		v, err := j.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("codec: encode %s: %w", f.Name, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	if o.indent == "" {
		return buf.Bytes(), nil
	}
	var out bytes.Buffer
	if err := j.Indent(&out, buf.Bytes(), "", o.indent); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object into a new instance of s. Numbers are
// kept as json.Number until their validator coerces them.
func UnmarshalJSON(s *hasprops.Schema, data []byte, opts ...hasprops.Option) (*hasprops.Instance, error) {
	vals, err := readJSONObject(data)
	if err != nil {
		return nil, err
	}
	return hasprops.New(s, vals, opts...)
}

// readJSONObject reads the top-level object entry by entry so that repeated
// keys are reported instead of silently overwritten.
func readJSONObject(data []byte) (hasprops.Values, error) {
	dec := j.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("codec: %w", err)
	}
	if d, ok := tok.(j.Delim); !ok || d != '{' {
		return nil, notObject(fmt.Sprintf("%v", tok))
	}
	vals := hasprops.Values{}
	var dups hasprops.Issues
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("codec: %w", err)
		}
		key, _ := kt.(string)
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("codec: value of %q: %w", key, err)
		}
		if _, seen := vals[key]; seen {
			dups = hasprops.AppendIssues(dups, duplicateKey(key, ""))
			continue
		}
		vals[key] = v
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("codec: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("codec: trailing data after object")
	}
	if len(dups) > 0 {
		return nil, dups
	}
	return vals, nil
}
