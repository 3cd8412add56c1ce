// Package scene assembles the phone mockup: a small scene graph of nodes
// carrying meshes and point clouds, the camera and lights, and an Assembler
// that turns animation state into one rendered frame per call.
package scene

import (
	"slices"

	"github.com/taigrr/phonemock/pkg/math3d"
)

// Node is a transform in the scene graph with an optional drawable.
// Rotation is Euler XYZ in radians.
type Node struct {
	Name     string
	Position math3d.Vec3
	Rotation math3d.Vec3
	Drawable Drawable

	parent   *Node
	children []*Node
}

// NewNode creates a node. d may be nil for pure groups.
func NewNode(name string, d Drawable) *Node {
	return &Node{Name: name, Drawable: d}
}

// Add attaches children, detaching each from its previous parent.
func (n *Node) Add(children ...*Node) {
	for _, c := range children {
		if c.parent != nil {
			c.parent.Remove(c)
		}
		c.parent = n
		n.children = append(n.children, c)
	}
}

// Remove detaches child. It reports whether child was attached to n.
func (n *Node) Remove(child *Node) bool {
	i := slices.Index(n.children, child)
	if i < 0 {
		return false
	}
	n.children = slices.Delete(n.children, i, i+1)
	child.parent = nil
	return true
}

// Children returns the attached children. The slice must not be modified.
func (n *Node) Children() []*Node {
	return n.children
}

// Parent returns the parent node, or nil for a root or detached node.
func (n *Node) Parent() *Node {
	return n.parent
}

// Local returns the node's transform relative to its parent.
func (n *Node) Local() math3d.Mat4 {
	return math3d.Translate(n.Position).Mul(math3d.EulerXYZ(n.Rotation))
}

// Walk visits n and its descendants depth first, passing each node's world
// transform. Returning false from fn skips that node's children.
func (n *Node) Walk(parent math3d.Mat4, fn func(node *Node, world math3d.Mat4) bool) {
	world := parent.Mul(n.Local())
	if !fn(n, world) {
		return
	}
	for _, c := range n.children {
		c.Walk(world, fn)
	}
}

// detach removes every descendant link below n.
func (n *Node) detach() {
	for _, c := range n.children {
		c.detach()
		c.parent = nil
	}
	n.children = nil
}
