// Package topology exposes the tree primitives the hosting environment
// provides: who is my parent, who are my children, is that realm me. The
// relay never learns the whole tree shape; fan-out emerges from each realm
// forwarding to its immediate neighbors.
package topology

// Realm is an opaque handle to one execution context in the tree.
type Realm interface {
	ID() string
}

// Topology answers neighborhood questions about realms.
type Topology interface {
	// Parent returns the realm embedding r, or false at the top of the tree.
	Parent(r Realm) (Realm, bool)
	// Children returns the realms directly embedded by r.
	Children(r Realm) []Realm
	// IsSelf reports whether a and b are the same realm.
	IsSelf(a, b Realm) bool
}

// Nop topology describes a lone realm: no parent, no children.
type Nop struct{}

var _ Topology = (*Nop)(nil)

func (n *Nop) Parent(r Realm) (Realm, bool) { return nil, false }
func (n *Nop) Children(r Realm) []Realm     { return nil }
func (n *Nop) IsSelf(a, b Realm) bool {
	return a != nil && b != nil && a.ID() == b.ID()
}
