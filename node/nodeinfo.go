// Package node shows how arbitrary document objects become documentable and
// dirty-trackable: they hold a NodeInfo, a small hasprops instance with a
// label, free-form metadata and the edit mark.
package node

import (
	"github.com/reoring/hasprops"
	"github.com/reoring/hasprops/validate"
)

// InfoSchema is the schema behind every NodeInfo.
var InfoSchema = hasprops.MustRegister(hasprops.Define("NodeInfo").
	Prop("label", validate.Text()).Default("").
	Doc("Label", "Human readable label shown in the document tree").
	Prop("metadata", validate.Map(validate.Text().MinLen(1), validate.Text())).Default(map[string]any{}).
	Doc("Metadata", "Free-form text key/value annotations").
	MustBuild())

// NodeInfo is the reusable label/metadata/edit-mark block.
type NodeInfo struct {
	props *hasprops.Instance
}

// NewInfo builds a NodeInfo from optional initial values.
func NewInfo(cfg hasprops.Values, opts ...hasprops.Option) (*NodeInfo, error) {
	inst, err := hasprops.New(InfoSchema, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &NodeInfo{props: inst}, nil
}

// InfoFrom wraps an existing NodeInfo instance, e.g. one decoded by codec.
// It fails when inst was built from another schema.
func InfoFrom(inst *hasprops.Instance) (*NodeInfo, error) {
	if inst == nil || !inst.Schema().IsA(InfoSchema) {
		return nil, hasprops.NewIssue(hasprops.CodeTypeMismatch, "instance is not a NodeInfo", nil)
	}
	return &NodeInfo{props: inst}, nil
}

// Props exposes the underlying instance to persistence and editors.
func (n *NodeInfo) Props() *hasprops.Instance { return n.props }

func (n *NodeInfo) Label() string {
	s, _ := hasprops.GetAs[string](n.props, "label")
	return s
}

func (n *NodeInfo) SetLabel(label string) error { return n.props.Set("label", label) }

// Metadata returns a copy of the metadata.
func (n *NodeInfo) Metadata() map[string]string {
	m, _ := hasprops.GetAs[map[string]any](n.props, "metadata")
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k], _ = v.(string)
	}
	return out
}

// Meta returns one metadata value.
func (n *NodeInfo) Meta(key string) (string, bool) {
	v, ok := n.Metadata()[key]
	return v, ok
}

// SetMeta sets one metadata entry through the metadata prop.
func (n *NodeInfo) SetMeta(key, value string) error {
	m, _ := hasprops.GetAs[map[string]any](n.props, "metadata")
	if m == nil {
		m = map[string]any{}
	}
	m[key] = value
	return n.props.Set("metadata", m)
}

// DeleteMeta removes one metadata entry. Removing a missing key is a no-op.
func (n *NodeInfo) DeleteMeta(key string) error {
	m, _ := hasprops.GetAs[map[string]any](n.props, "metadata")
	if _, ok := m[key]; !ok {
		return nil
	}
	delete(m, key)
	return n.props.Set("metadata", m)
}

func (n *NodeInfo) EditMark() bool { return n.props.EditMark() }
func (n *NodeInfo) ClearEditMark() { n.props.ClearEditMark() }
