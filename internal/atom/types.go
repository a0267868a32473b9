package atom

import (
	"fmt"
	"strconv"
)

// Handle identifies a node or link owned by a store.
// Handles are immutable once issued and never reused within one store.
type Handle uint64

// Undefined is the zero handle. No store ever issues it; it is used as the
// padding sentinel when walking outgoing sets of unequal length.
const Undefined Handle = 0

// IsUndefined reports whether h is the Undefined sentinel.
func (h Handle) IsUndefined() bool {
	return h == Undefined
}

// String renders the handle as "#<n>".
func (h Handle) String() string {
	if h == Undefined {
		return "#undefined"
	}
	return "#" + strconv.FormatUint(uint64(h), 10)
}

// Type names an atom type, e.g. "ConceptNode" or "InheritanceLink".
type Type string

// Kind distinguishes nodes (leaves with a name) from links (ordered outgoing set).
type Kind uint8

const (
	// KindNode is a leaf atom with a type and a name.
	KindNode Kind = iota + 1
	// KindLink is an internal atom with a type and an ordered outgoing set.
	KindLink
)

// String returns "node" or "link".
func (k Kind) String() string {
	switch k {
	case KindNode:
		return "node"
	case KindLink:
		return "link"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// View is a read-only snapshot of one atom.
//
// Name is set for nodes only. Outgoing is set for links only and is a copy
// owned by the caller; a link may legitimately have an empty outgoing set.
type View struct {
	Handle   Handle
	Type     Type
	Kind     Kind
	Name     string
	Outgoing []Handle
}

// IsLink reports whether the view describes a link.
func (v View) IsLink() bool {
	return v.Kind == KindLink
}

// IsNode reports whether the view describes a node.
func (v View) IsNode() bool {
	return v.Kind == KindNode
}

// Arity returns the length of the outgoing set (0 for nodes).
func (v View) Arity() int {
	return len(v.Outgoing)
}
