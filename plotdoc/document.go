package plotdoc

import (
	"github.com/reoring/hasprops"
	"github.com/reoring/hasprops/node"
)

// Plot is a plotting document: a root node holding the two axes and one node
// per series. Every node is dirty-tracked through its NodeInfo.
type Plot struct {
	Root *node.Node
	X    *node.Node
	Y    *node.Node
}

// NewPlot builds an empty plot with default axes.
func NewPlot(title string, opts ...hasprops.Option) (*Plot, error) {
	root := node.New("plot")
	if err := root.Info.SetLabel(title); err != nil {
		return nil, err
	}
	x, err := axisNode("x", opts)
	if err != nil {
		return nil, err
	}
	y, err := axisNode("y", opts)
	if err != nil {
		return nil, err
	}
	root.Add(x, y)
	root.ClearDirty()
	return &Plot{Root: root, X: x, Y: y}, nil
}

func axisNode(name string, opts []hasprops.Option) (*node.Node, error) {
	inst, err := hasprops.New(Axis, nil, opts...)
	if err != nil {
		return nil, err
	}
	return node.New(name).WithProps(inst), nil
}

// AddSeries appends a series. data configures a Dataset (label, metadata,
// source, columns), style a LineStyle. The Dataset instance doubles as the
// node's NodeInfo. Nothing is added when either fails validation.
func (p *Plot) AddSeries(name string, data, style hasprops.Values, opts ...hasprops.Option) (*node.Node, error) {
	ds, err := hasprops.New(Dataset, data, opts...)
	if err != nil {
		return nil, err
	}
	st, err := hasprops.New(LineStyle, style, opts...)
	if err != nil {
		return nil, err
	}
	info, err := node.InfoFrom(ds)
	if err != nil {
		return nil, err
	}
	n := &node.Node{Name: name, Info: info, Props: st}
	p.Root.Add(n)
	return n, nil
}

// Series returns the series nodes in insertion order.
func (p *Plot) Series() []*node.Node {
	var out []*node.Node
	for _, c := range p.Root.Children() {
		if c != p.X && c != p.Y {
			out = append(out, c)
		}
	}
	return out
}

// Dirty reports whether anything in the document changed since the last
// MarkSaved.
func (p *Plot) Dirty() bool { return p.Root.Dirty() }

// MarkSaved clears every edit mark.
func (p *Plot) MarkSaved() { p.Root.ClearDirty() }
