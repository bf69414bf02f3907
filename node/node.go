package node

import "github.com/reoring/hasprops"

// Node is a document tree element. It is not a hasprops instance itself; it
// holds one in Info and gets labelling and dirty tracking from it.
type Node struct {
	Name     string
	Info     *NodeInfo
	Props    *hasprops.Instance // optional type-specific properties
	children []*Node
	parent   *Node
}

// New returns a Node with an empty NodeInfo.
func New(name string) *Node {
	info, err := NewInfo(nil)
	if err != nil {
		// InfoSchema defaults always validate.
		panic(err)
	}
	return &Node{Name: name, Info: info}
}

// WithProps attaches type-specific properties and returns n.
func (n *Node) WithProps(inst *hasprops.Instance) *Node {
	n.Props = inst
	return n
}

// Add appends children and returns n.
func (n *Node) Add(children ...*Node) *Node {
	for _, c := range children {
		if c == nil {
			continue
		}
		c.parent = n
		n.children = append(n.children, c)
	}
	return n
}

func (n *Node) Parent() *Node { return n.parent }

// Children returns the direct children in insertion order.
func (n *Node) Children() []*Node { return append([]*Node(nil), n.children...) }

// Path returns the slash separated names from the root to n.
func (n *Node) Path() string {
	if n.parent == nil {
		return "/" + n.Name
	}
	return n.parent.Path() + "/" + n.Name
}

// Walk visits n and its descendants depth-first, stopping early when fn
// returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// Dirty reports whether any node in the subtree carries an edit mark, either
// on its NodeInfo or on its type-specific properties.
func (n *Node) Dirty() bool {
	dirty := false
	n.Walk(func(x *Node) bool {
		if x.Info.EditMark() || (x.Props != nil && x.Props.EditMark()) {
			dirty = true
			return false
		}
		return true
	})
	return dirty
}

// ClearDirty clears every edit mark in the subtree, typically after a save.
func (n *Node) ClearDirty() {
	n.Walk(func(x *Node) bool {
		x.Info.ClearEditMark()
		if x.Props != nil {
			x.Props.ClearEditMark()
		}
		return true
	})
}
