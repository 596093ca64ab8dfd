// File: lixenwraith/bind/provider.go
package bind

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Separator divides segments of a binding key.
const Separator = ":"

var (
	// ErrNotFound indicates a binding key has no value in the provider.
	ErrNotFound = errors.New("bind: key not found")
	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("bind: config file not found")
	// ErrShape indicates a target type descriptor with an unrecognized shape.
	ErrShape = errors.New("bind: unsupported target shape")
	// ErrNotRegistered indicates a required service is missing from a Registry.
	ErrNotRegistered = errors.New("bind: service not registered")
)

// Child is one immediate child entry under a binding key, in provider
// order. Has is false for section children that carry no value of
// their own (their values live deeper in the tree).
type Child struct {
	Name  string
	Value string
	Has   bool
}

// Provider exposes key-based and children-based lookup over a
// hierarchical settings tree. Keys use colon-separated paths
// ("Section:SubKey"). Implementations must be safe for concurrent
// reads and must yield children in a stable order.
type Provider interface {
	// Get returns the raw string at the exact key, or false if the key
	// has no value there.
	Get(key string) (string, bool)

	// Children returns the immediate child entries under the key, in
	// provider order. A key with no children yields an empty slice.
	Children(key string) []Child
}

// joinKey appends a segment to a binding key.
func joinKey(key, name string) string {
	if key == "" {
		return name
	}
	return key + Separator + name
}

// splitKey breaks a binding key into its segments.
func splitKey(key string) []string {
	if key == "" {
		return nil
	}
	return strings.Split(key, Separator)
}

// node is one entry in an in-memory configuration tree.
type node struct {
	value    string
	leaf     bool
	children map[string]*node
	order    []string // child names in insertion order
}

func newNode() *node {
	return &node{children: make(map[string]*node)}
}

// child returns the named child, creating it if necessary.
func (n *node) child(name string) *node {
	if c, ok := n.children[name]; ok {
		return c
	}
	c := newNode()
	n.children[name] = c
	n.order = append(n.order, name)
	return c
}

// Tree is an immutable in-memory Provider built from a nested
// map[string]any, typically the output of a file parser. Map keys
// become named children (inserted in sorted order for determinism,
// since Go maps carry none), slices become indexed children
// "0","1",..., and leaves are rendered to their string form.
type Tree struct {
	root *node
}

// NewTree builds a Tree from nested maps and slices.
func NewTree(data map[string]any) *Tree {
	root := newNode()
	insertMap(root, data)
	return &Tree{root: root}
}

func insertMap(n *node, data map[string]any) {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		insertValue(n.child(k), data[k])
	}
}

func insertValue(n *node, value any) {
	switch v := value.(type) {
	case map[string]any:
		insertMap(n, v)
	case map[any]any:
		// Older YAML decoders produce this key type
		m := make(map[string]any, len(v))
		for k, val := range v {
			m[fmt.Sprintf("%v", k)] = val
		}
		insertMap(n, m)
	case []any:
		for i, item := range v {
			insertValue(n.child(strconv.Itoa(i)), item)
		}
	default:
		n.value = formatScalar(value)
		n.leaf = true
	}
}

// formatScalar renders a parsed scalar back to its raw string form.
func formatScalar(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", value)
	}
}

// lookup walks the key segments from the root.
func (t *Tree) lookup(key string) *node {
	current := t.root
	for _, segment := range splitKey(key) {
		next, ok := current.children[segment]
		if !ok {
			return nil
		}
		current = next
	}
	return current
}

// Get returns the raw string at the exact key.
func (t *Tree) Get(key string) (string, bool) {
	n := t.lookup(key)
	if n == nil || !n.leaf {
		return "", false
	}
	return n.value, true
}

// Children returns the immediate child entries under the key in
// insertion order.
func (t *Tree) Children(key string) []Child {
	n := t.lookup(key)
	if n == nil {
		return nil
	}

	out := make([]Child, 0, len(n.order))
	for _, name := range n.order {
		c := n.children[name]
		out = append(out, Child{Name: name, Value: c.value, Has: c.leaf})
	}
	return out
}

// Set places a raw value at the key, creating intermediate sections.
// Intended for building trees by hand in tests and small programs;
// Tree is not safe for concurrent mutation.
func (t *Tree) Set(key, value string) {
	current := t.root
	for _, segment := range splitKey(key) {
		current = current.child(segment)
	}
	current.value = value
	current.leaf = true
}

// Layered composes providers with first-wins precedence: Get returns
// the value from the first layer that has one, and Children come from
// the first layer with any children under the key. No merging across
// layers is attempted.
type Layered struct {
	layers []Provider
}

// NewLayered builds a Layered provider. Earlier providers take
// precedence over later ones.
func NewLayered(layers ...Provider) *Layered {
	return &Layered{layers: layers}
}

// Get returns the value from the highest-precedence layer that has one.
func (l *Layered) Get(key string) (string, bool) {
	for _, p := range l.layers {
		if v, ok := p.Get(key); ok {
			return v, true
		}
	}
	return "", false
}

// Children returns the children from the highest-precedence layer that
// has any under the key.
func (l *Layered) Children(key string) []Child {
	for _, p := range l.layers {
		if children := p.Children(key); len(children) > 0 {
			return children
		}
	}
	return nil
}
