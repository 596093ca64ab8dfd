// File: lixenwraith/bind/shape.go
package bind

import (
	"reflect"
)

// Shape tags how a target type should be materialized. Exactly one
// shape applies to any declared type; resolution never guesses a shape
// from the runtime value.
type Shape int

const (
	// ShapeScalar coerces the single raw value at the exact key.
	ShapeScalar Shape = iota
	// ShapeNullable yields a typed nil pointer for an absent key and a
	// pointer to the coerced value otherwise.
	ShapeNullable
	// ShapeEnum coerces the raw value through a registered enum table.
	ShapeEnum
	// ShapeArray materializes the children into a slice of exactly the
	// child count (or fills a fixed-size Go array up to its length).
	ShapeArray
	// ShapeList appends each coerced child into an initially empty slice.
	ShapeList
	// ShapeReadOnlyList wraps the coerced children in an immutable
	// ReadOnly sequence.
	ShapeReadOnlyList
)

// String returns the shape name.
func (s Shape) String() string {
	switch s {
	case ShapeScalar:
		return "scalar"
	case ShapeNullable:
		return "nullable"
	case ShapeEnum:
		return "enum"
	case ShapeArray:
		return "array"
	case ShapeList:
		return "list"
	case ShapeReadOnlyList:
		return "readonly-list"
	default:
		return "unknown"
	}
}

// Type describes a resolution target: a shape tag plus the leaf
// element type the scalar coercer works with. Collection shapes carry
// the element type in Elem; scalar shapes carry the type itself.
type Type struct {
	Shape Shape
	Elem  reflect.Type

	// target is the full Go type to materialize (pointer type for
	// nullable, slice or fixed array for collections, container type
	// for read-only lists).
	target reflect.Type
}

// Target returns the full Go type this descriptor materializes.
func (t Type) Target() reflect.Type {
	return t.target
}

// TypeFor derives the Type descriptor for T once, at declaration time:
// ReadOnly[E] maps to ShapeReadOnlyList, *E to ShapeNullable, []E and
// [N]E to ShapeArray, enum-registered types to ShapeEnum, and
// everything else to ShapeScalar. Use ListOf to request append-style
// list materialization for a slice.
func TypeFor[T any]() Type {
	var zero T
	if ro, ok := any(zero).(readOnlyContainer); ok {
		return Type{Shape: ShapeReadOnlyList, Elem: ro.elemType(), target: reflect.TypeOf((*T)(nil)).Elem()}
	}

	t := reflect.TypeOf((*T)(nil)).Elem()
	switch t.Kind() {
	case reflect.Ptr:
		return Type{Shape: ShapeNullable, Elem: t.Elem(), target: t}
	case reflect.Slice, reflect.Array:
		return Type{Shape: ShapeArray, Elem: t.Elem(), target: t}
	}

	if hasEnum(t) {
		return Type{Shape: ShapeEnum, Elem: t, target: t}
	}
	return Type{Shape: ShapeScalar, Elem: t, target: t}
}

// ScalarOf declares a plain scalar target.
func ScalarOf[T any]() Type {
	t := reflect.TypeOf((*T)(nil)).Elem()
	return Type{Shape: ShapeScalar, Elem: t, target: t}
}

// NullableOf declares a *T target: absent keys resolve to nil.
func NullableOf[T any]() Type {
	t := reflect.TypeOf((*T)(nil)).Elem()
	return Type{Shape: ShapeNullable, Elem: t, target: reflect.PointerTo(t)}
}

// EnumOf declares an enum target. The enum table for T must be
// registered via RegisterEnum before resolution.
func EnumOf[T comparable]() Type {
	t := reflect.TypeOf((*T)(nil)).Elem()
	return Type{Shape: ShapeEnum, Elem: t, target: t}
}

// ArrayOf declares a []E target materialized at exactly the child count.
func ArrayOf[E any]() Type {
	e := reflect.TypeOf((*E)(nil)).Elem()
	return Type{Shape: ShapeArray, Elem: e, target: reflect.SliceOf(e)}
}

// ListOf declares a []E target built by appending into an empty slice.
func ListOf[E any]() Type {
	e := reflect.TypeOf((*E)(nil)).Elem()
	return Type{Shape: ShapeList, Elem: e, target: reflect.SliceOf(e)}
}

// ReadOnlyListOf declares a ReadOnly[E] target.
func ReadOnlyListOf[E any]() Type {
	return Type{
		Shape:  ShapeReadOnlyList,
		Elem:   reflect.TypeOf((*E)(nil)).Elem(),
		target: reflect.TypeOf((*ReadOnly[E])(nil)).Elem(),
	}
}

// readOnlyContainer lets the non-generic resolver core construct a
// ReadOnly[E] without knowing E statically.
type readOnlyContainer interface {
	elemType() reflect.Type
	fillFrom(items reflect.Value) any
}

// ReadOnly is an immutable ordered sequence of T. The zero value is an
// empty sequence. Values returned by accessors are copies; nothing can
// mutate the sequence after construction.
type ReadOnly[T any] struct {
	items []T
}

// NewReadOnly copies items into an immutable sequence.
func NewReadOnly[T any](items ...T) ReadOnly[T] {
	cp := make([]T, len(items))
	copy(cp, items)
	return ReadOnly[T]{items: cp}
}

// Len returns the number of elements.
func (l ReadOnly[T]) Len() int {
	return len(l.items)
}

// At returns the element at index i.
func (l ReadOnly[T]) At(i int) T {
	return l.items[i]
}

// Values returns a copy of the elements in order.
func (l ReadOnly[T]) Values() []T {
	cp := make([]T, len(l.items))
	copy(cp, l.items)
	return cp
}

func (l ReadOnly[T]) elemType() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func (l ReadOnly[T]) fillFrom(items reflect.Value) any {
	return ReadOnly[T]{items: items.Interface().([]T)}
}
