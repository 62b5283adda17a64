// Package trie implements the ownership tree used to index hidden API flag
// rows by signature. Interior nodes represent packages and classes, leaves
// hold the value associated with one specific class member.
//
// Adding the value [public-api] for "Ljava/lang/Object;->hashCode()I" creates:
//
//	root
//	^- package:java
//	   ^- package:lang
//	      ^- class:Object
//	         ^- member:hashCode()I -> leaf([public-api])
//
// A trie is built once from its input and read-only afterwards; Seal makes
// that explicit by rejecting any further insertion.
package trie

import (
	"fmt"

	"hiddenapi-tools/internal/signature"
)

// NodeType is the structural role of an interior node.
type NodeType string

const (
	TypeRoot    NodeType = "root"
	TypePackage NodeType = "package"
	TypeClass   NodeType = "class"
)

// node is either an *Interior or a leaf. The two variants have disjoint
// operation sets; type switches distinguish them exhaustively.
type node[V any] interface {
	appendValues(dst *[]V, sel func(signature.Element) bool)
}

// Interior is a package or class node. It owns its children in a map keyed
// by element; insertion order is kept so traversals are deterministic.
type Interior[V any] struct {
	typ      NodeType
	selector string
	order    []signature.Element
	children map[signature.Element]node[V]
}

// leaf is a terminal node holding the value for one member signature.
type leaf[V any] struct {
	value V
}

func (l *leaf[V]) appendValues(dst *[]V, _ func(signature.Element) bool) {
	*dst = append(*dst, l.value)
}

func newInterior[V any](typ NodeType, selector string) *Interior[V] {
	return &Interior[V]{
		typ:      typ,
		selector: selector,
		children: make(map[signature.Element]node[V]),
	}
}

// Type reports whether this node is a package or a class node.
func (n *Interior[V]) Type() NodeType { return n.typ }

// Selector is the canonical path from the root to this node, e.g. "java/lang"
// or "java/lang/Character$UnicodeScript". It is fixed at node creation.
func (n *Interior[V]) Selector() string { return n.selector }

// ChildNodes returns the interior children in insertion order.
func (n *Interior[V]) ChildNodes() []*Interior[V] {
	var out []*Interior[V]
	for _, key := range n.order {
		if child, ok := n.children[key].(*Interior[V]); ok {
			out = append(out, child)
		}
	}
	return out
}

func (n *Interior[V]) appendValues(dst *[]V, sel func(signature.Element) bool) {
	for _, key := range n.order {
		if sel(key) {
			n.children[key].appendValues(dst, func(signature.Element) bool { return true })
		}
	}
}

// GetMatchingRows returns the values selected by pattern, relative to this
// node. The pattern may be a full member signature (one value), a class
// (every member of the class and its nested classes), a package ending in
// "/*" (the package's own classes only) or in "/**" (the package and all its
// sub-packages). A bare "*" or "**" selects relative to the node itself.
//
// A pattern whose path does not exist selects nothing; that is not an error.
func (n *Interior[V]) GetMatchingRows(pattern string) ([]V, error) {
	elements, err := signature.ParseElements(pattern)
	if err != nil {
		return nil, err
	}

	// Include values from every child by default.
	sel := func(signature.Element) bool { return true }

	if last := elements[len(elements)-1]; last.Kind == signature.KindWildcard {
		elements = elements[:len(elements)-1]
		if last.Value == "*" {
			// Do not include values from sub-packages.
			sel = func(e signature.Element) bool { return e.Kind != signature.KindPackage }
		}
	}

	cur := node[V](n)
	for _, e := range elements {
		interior, ok := cur.(*Interior[V])
		if !ok {
			return nil, nil
		}
		child, ok := interior.children[e]
		if !ok {
			return nil, nil
		}
		cur = child
	}

	var values []V
	switch target := cur.(type) {
	case *leaf[V]:
		values = append(values, target.value)
	case *Interior[V]:
		target.appendValues(&values, sel)
	}
	return values, nil
}

func (n *Interior[V]) add(sig string, value V, onlyIfMatches bool) error {
	elements, err := signature.ParseElements(sig)
	if err != nil {
		return err
	}

	last := elements[len(elements)-1]
	if last.Kind != signature.KindMember {
		return fmt.Errorf("invalid signature '%s': does not identify a specific member", sig)
	}

	// Walk or create the interior nodes for everything before the member.
	cur := n
	for i, e := range elements[:len(elements)-1] {
		next, ok := cur.children[e].(*Interior[V])
		if !ok {
			if onlyIfMatches && i == 0 {
				// The top-level namespace is unknown to this trie; skip.
				return nil
			}
			typ := TypePackage
			if e.Kind == signature.KindClass {
				typ = TypeClass
			}
			next = newInterior[V](typ, signature.ElementsToSelector(elements[:i+1]))
			cur.children[e] = next
			cur.order = append(cur.order, e)
		}
		cur = next
	}

	if _, ok := cur.children[last]; ok {
		return fmt.Errorf("duplicate signature '%s'", sig)
	}
	cur.children[last] = &leaf[V]{value: value}
	cur.order = append(cur.order, last)
	return nil
}

// Trie is the root of an ownership tree. It is safe to query from the root
// or from any interior node reached via ChildNodes.
type Trie[V any] struct {
	root   *Interior[V]
	sealed bool
}

// New returns an empty trie.
func New[V any]() *Trie[V] {
	return &Trie[V]{root: newInterior[V](TypeRoot, "")}
}

// Add associates value with the given member signature. The signature must
// end in a member element; inserting the same signature twice is an error.
func (t *Trie[V]) Add(sig string, value V) error {
	if t.sealed {
		return fmt.Errorf("cannot add '%s': trie is sealed", sig)
	}
	return t.root.add(sig, value, false)
}

// AddOnlyIfMatches behaves like Add except that the value is silently dropped
// when the signature's top-level package is not already present. Used when
// merging a secondary, provenance-only data set: only namespaces the primary
// data set already touches are of interest.
func (t *Trie[V]) AddOnlyIfMatches(sig string, value V) error {
	if t.sealed {
		return fmt.Errorf("cannot add '%s': trie is sealed", sig)
	}
	return t.root.add(sig, value, true)
}

// Seal marks the end of the build phase. Every Add after Seal fails.
func (t *Trie[V]) Seal() { t.sealed = true }

// GetMatchingRows queries from the root. See Interior.GetMatchingRows.
func (t *Trie[V]) GetMatchingRows(pattern string) ([]V, error) {
	return t.root.GetMatchingRows(pattern)
}

// ChildNodes returns the trie's top-level interior nodes in insertion order.
func (t *Trie[V]) ChildNodes() []*Interior[V] {
	return t.root.ChildNodes()
}
