package node_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/hasprops"
	"github.com/reoring/hasprops/node"
	"github.com/reoring/hasprops/validate"
)

func TestNodeInfo_DefaultsAndMeta(t *testing.T) {
	info, err := node.NewInfo(nil)
	if err != nil {
		t.Fatalf("new info: %v", err)
	}
	if info.Label() != "" || len(info.Metadata()) != 0 || info.EditMark() {
		t.Fatalf("unexpected fresh info: %v", info.Props())
	}
	if err := info.SetLabel("Raw data"); err != nil {
		t.Fatalf("set label: %v", err)
	}
	if err := info.SetMeta("source", "detector-1"); err != nil {
		t.Fatalf("set meta: %v", err)
	}
	if err := info.SetMeta("unit", "nm"); err != nil {
		t.Fatalf("set meta: %v", err)
	}
	want := map[string]string{"source": "detector-1", "unit": "nm"}
	if diff := cmp.Diff(want, info.Metadata()); diff != "" {
		t.Fatalf("metadata (-want +got):\n%s", diff)
	}
	if !info.EditMark() {
		t.Fatalf("edit mark must be set")
	}
	if err := info.DeleteMeta("unit"); err != nil {
		t.Fatalf("delete meta: %v", err)
	}
	if _, ok := info.Meta("unit"); ok {
		t.Fatalf("unit still present")
	}
	if err := info.DeleteMeta("missing"); err != nil {
		t.Fatalf("delete of a missing key: %v", err)
	}
}

func TestNodeInfo_RejectsEmptyMetaKey(t *testing.T) {
	info, _ := node.NewInfo(nil)
	info.ClearEditMark()
	err := info.SetMeta("", "x")
	if !hasprops.HasCode(err, hasprops.CodeConstraint) {
		t.Fatalf("expected constraint_violation for empty key, got %v", err)
	}
	if info.EditMark() || len(info.Metadata()) != 0 {
		t.Fatalf("failed SetMeta changed state")
	}
}

func TestNodeInfo_MetadataIsACopy(t *testing.T) {
	info, _ := node.NewInfo(hasprops.Values{"metadata": map[string]any{"a": "1"}})
	m := info.Metadata()
	m["a"] = "changed"
	if v, _ := info.Meta("a"); v != "1" {
		t.Fatalf("metadata aliased: %q", v)
	}
}

func TestInfoFrom(t *testing.T) {
	inst := hasprops.MustNew(node.InfoSchema, hasprops.Values{"label": "x"})
	info, err := node.InfoFrom(inst)
	if err != nil || info.Label() != "x" {
		t.Fatalf("InfoFrom: %v", err)
	}
	other := hasprops.MustNew(hasprops.Define("Other").MustBuild(), nil)
	if _, err := node.InfoFrom(other); !hasprops.HasCode(err, hasprops.CodeTypeMismatch) {
		t.Fatalf("expected type_mismatch, got %v", err)
	}
}

func TestNode_DirtyAggregation(t *testing.T) {
	style := hasprops.Define("Style").Prop("width", validate.Range(0, 10)).Default(1).MustBuild()
	root := node.New("doc")
	a := node.New("a")
	b := node.New("b").WithProps(hasprops.MustNew(style, nil))
	root.Add(a.Add(b))

	if root.Dirty() {
		t.Fatalf("fresh tree must be clean")
	}
	if b.Path() != "/doc/a/b" || b.Parent() != a {
		t.Fatalf("unexpected path %q", b.Path())
	}

	if err := b.Props.Set("width", 3); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !root.Dirty() || !a.Dirty() {
		t.Fatalf("edit in a leaf must dirty its ancestors")
	}
	root.ClearDirty()
	if root.Dirty() {
		t.Fatalf("ClearDirty left marks behind")
	}

	if err := a.Info.SetLabel("renamed"); err != nil {
		t.Fatalf("set label: %v", err)
	}
	if !root.Dirty() || b.Dirty() {
		t.Fatalf("dirty state mismatch: root=%v b=%v", root.Dirty(), b.Dirty())
	}
}

func TestNode_WalkStopsEarly(t *testing.T) {
	root := node.New("r").Add(node.New("x"), nil, node.New("y"))
	var seen []string
	root.Walk(func(n *node.Node) bool {
		seen = append(seen, n.Name)
		return n.Name != "x"
	})
	if diff := cmp.Diff([]string{"r", "x"}, seen); diff != "" {
		t.Fatalf("walk (-want +got):\n%s", diff)
	}
	if len(root.Children()) != 2 {
		t.Fatalf("nil child must be skipped")
	}
}
