package treedict

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// DefaultSeparator is the separator used when joining nested key paths
// in to a single flattened key.
const DefaultSeparator = "/"

var ErrEmptyPath = errors.New("key path must contain at least one segment")

// StructuralConflictError indicates that two values were inserted at the
// same key path with incompatible shapes (e.g. a scalar where a subtree
// already exists, or two differing scalars at the same leaf). This is an
// authoring bug in the code producing the keys and is never recovered.
type StructuralConflictError struct {
	Path string
}

func (e *StructuralConflictError) Error() string {
	return fmt.Sprintf("structural conflict at key path '%s'", e.Path)
}

// Tree is an insertion-ordered nested mapping. Values are either leaf
// scalars (any JSON-safe value) or nested *Tree instances. The ordering
// of sibling keys is stable so that serialized output is deterministic.
type Tree struct {
	keys   []string
	values map[string]any
}

func New() *Tree {
	return &Tree{
		keys:   make([]string, 0),
		values: make(map[string]any),
	}
}

func (tree *Tree) Len() int {
	return len(tree.keys)
}

// Keys returns the top-level keys in insertion order. The returned slice
// is a copy and may be freely mutated by the caller.
func (tree *Tree) Keys() []string {
	keys := make([]string, len(tree.keys))
	copy(keys, tree.keys)

	return keys
}

func (tree *Tree) Get(key string) (any, bool) {
	value, ok := tree.values[key]
	return value, ok
}

func (tree *Tree) Has(key string) bool {
	_, ok := tree.values[key]
	return ok
}

// Set inserts or replaces the value at a top-level key. A key that is
// already present keeps its original position in the ordering.
func (tree *Tree) Set(key string, value any) {
	if _, ok := tree.values[key]; !ok {
		tree.keys = append(tree.keys, key)
	}

	tree.values[key] = value
}

// AddNode inserts 'value' at the location described by the ordered path
// segments, creating intermediate subtrees as needed.
//
// Inserting at a path whose prefix already holds a leaf value fails with
// a StructuralConflictError rather than silently coercing the leaf to a
// subtree. Re-inserting an equal value at the same path is a no-op;
// inserting a differing value at an occupied path is a conflict.
func (tree *Tree) AddNode(path []string, value any) error {
	if len(path) == 0 {
		return ErrEmptyPath
	}

	current := tree
	for i, segment := range path[:len(path)-1] {
		existing, ok := current.values[segment]
		if !ok {
			subtree := New()
			current.Set(segment, subtree)
			current = subtree
			continue
		}

		subtree, ok := existing.(*Tree)
		if !ok {
			return &StructuralConflictError{Path: strings.Join(path[:i+1], DefaultSeparator)}
		}
		current = subtree
	}

	leaf := path[len(path)-1]
	if existing, ok := current.values[leaf]; ok {
		if _, isSubtree := existing.(*Tree); isSubtree || !reflect.DeepEqual(existing, value) {
			return &StructuralConflictError{Path: strings.Join(path, DefaultSeparator)}
		}

		return nil
	}

	current.Set(leaf, value)
	return nil
}

// AddPath is a convenience over AddNode for callers holding pre-joined
// keys (e.g. the dotted 'Exif.Image.Make' namespaces emitted by tag
// extraction libraries).
func (tree *Tree) AddPath(joined string, sep string, value any) error {
	if sep == "" {
		sep = DefaultSeparator
	}

	return tree.AddNode(strings.Split(joined, sep), value)
}

// Flatten walks the tree depth-first and produces a single-level tree
// whose keys are the fully-joined paths of each leaf. Sibling ordering
// is preserved, so flattening is deterministic.
func (tree *Tree) Flatten(sep string) *Tree {
	if sep == "" {
		sep = DefaultSeparator
	}

	flat := New()
	tree.flattenInto(flat, "", sep)

	return flat
}

func (tree *Tree) flattenInto(flat *Tree, prefix string, sep string) {
	for _, key := range tree.keys {
		joined := key
		if prefix != "" {
			joined = prefix + sep + key
		}

		if subtree, ok := tree.values[key].(*Tree); ok {
			subtree.flattenInto(flat, joined, sep)
		} else {
			flat.Set(joined, tree.values[key])
		}
	}
}

// Update unions the top-level entries of 'other' in to this tree with
// last-write-wins semantics. Used when the producing steps are known to
// emit disjoint keys by design.
func (tree *Tree) Update(other *Tree) {
	for _, key := range other.keys {
		tree.Set(key, other.values[key])
	}
}

// Merge unions the top-level entries of 'other' in to this tree,
// rejecting any key that is already present with a differing value.
func (tree *Tree) Merge(other *Tree) error {
	for _, key := range other.keys {
		if existing, ok := tree.values[key]; ok && !reflect.DeepEqual(existing, other.values[key]) {
			return &StructuralConflictError{Path: key}
		}

		tree.Set(key, other.values[key])
	}

	return nil
}

// MarshalJSON serializes the tree as a JSON object whose keys appear in
// insertion order.
func (tree *Tree) MarshalJSON() ([]byte, error) {
	buffer := bytes.Buffer{}
	buffer.WriteByte('{')

	for i, key := range tree.keys {
		if i > 0 {
			buffer.WriteByte(',')
		}

		encodedKey, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		encodedValue, err := json.Marshal(tree.values[key])
		if err != nil {
			return nil, err
		}

		buffer.Write(encodedKey)
		buffer.WriteByte(':')
		buffer.Write(encodedValue)
	}

	buffer.WriteByte('}')
	return buffer.Bytes(), nil
}
