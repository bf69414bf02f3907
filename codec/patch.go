package codec

import (
	"fmt"
	"reflect"

	jsonpatch "github.com/evanphx/json-patch"

	"github.com/reoring/hasprops"
)

// ApplyPatch applies an RFC 6902 JSON Patch to inst. The patch runs against
// the JSON encoding of inst and the result is committed with a single Update,
// so either every change is accepted or inst is left untouched. Removing a
// property resets it to its default.
func ApplyPatch(inst *hasprops.Instance, patch []byte) error {
	ops, err := jsonpatch.DecodePatch(patch)
	if err != nil {
		return fmt.Errorf("codec: decode patch: %w", err)
	}
	return patchWith(inst, ops.Apply)
}

// ApplyMergePatch applies an RFC 7386 JSON Merge Patch to inst with the same
// all-or-nothing semantics as ApplyPatch. A null member resets the property
// to its default.
func ApplyMergePatch(inst *hasprops.Instance, patch []byte) error {
	return patchWith(inst, func(doc []byte) ([]byte, error) {
		return jsonpatch.MergePatch(doc, patch)
	})
}

func patchWith(inst *hasprops.Instance, apply func([]byte) ([]byte, error)) error {
	doc, err := MarshalJSON(inst)
	if err != nil {
		return err
	}
	before, err := readJSONObject(doc)
	if err != nil {
		return err
	}
	out, err := apply(doc)
	if err != nil {
		return fmt.Errorf("codec: apply patch: %w", err)
	}
	after, err := readJSONObject(out)
	if err != nil {
		return err
	}
	// only entries the patch touched are assigned, so untouched slots keep
	// their presence
	changes := hasprops.Values{}
	for name, v := range after {
		if old, ok := before[name]; !ok || !reflect.DeepEqual(old, v) {
			changes[name] = v
		}
	}
	// a removed member resets to its default; slots already holding their
	// default without an assignment stay unset
	for _, p := range inst.Schema().Props() {
		if _, ok := after[p.Name()]; ok {
			continue
		}
		if inst.IsSet(p.Name()) || !reflect.DeepEqual(inst.MustGet(p.Name()), p.Default()) {
			changes[p.Name()] = p.Default()
		}
	}
	return inst.Update(changes)
}
