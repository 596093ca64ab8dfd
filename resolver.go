// File: lixenwraith/bind/resolver.go
package bind

import (
	"fmt"
	"log/slog"
	"reflect"
)

// CoercionError reports a raw value that could not be coerced to its
// target type. In lenient mode it is logged and swallowed; in strict
// mode it is returned to the caller.
type CoercionError struct {
	Key    string
	Target reflect.Type
	Raw    string
	Err    error
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("cannot coerce %q at key %q to %s: %v", e.Raw, e.Key, e.Target, e.Err)
}

func (e *CoercionError) Unwrap() error {
	return e.Err
}

// Resolver resolves binding keys against a Provider. A Resolver holds
// no state between calls; every resolution is independent and
// reentrant.
type Resolver struct {
	provider Provider
	strict   bool
	logger   *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// Strict makes coercion failures and missing scalar keys return errors
// instead of zero values.
func Strict() Option {
	return func(r *Resolver) {
		r.strict = true
	}
}

// WithLogger sets the logger used for lenient-mode diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver creates a Resolver over the given provider. The default
// policy is lenient: unparseable values yield the target's zero value
// plus a diagnostic log entry, and resolution itself never fails.
func NewResolver(provider Provider, opts ...Option) *Resolver {
	r := &Resolver{
		provider: provider,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve produces a value matching the declared type descriptor from
// the configuration at key. The dynamic type of the result is
// t.Target(): the element type for scalars, *E for nullable, []E (or a
// fixed array) for collections, and ReadOnly[E] for read-only lists.
// An unrecognized shape fails fast with ErrShape regardless of policy.
func (r *Resolver) Resolve(key string, t Type) (any, error) {
	switch t.Shape {
	case ShapeScalar, ShapeEnum:
		return r.resolveScalar(key, t)
	case ShapeNullable:
		return r.resolveNullable(key, t)
	case ShapeArray, ShapeList:
		out, err := r.materialize(key, t)
		if err != nil {
			return reflect.Zero(t.target).Interface(), err
		}
		return out.Interface(), nil
	case ShapeReadOnlyList:
		return r.resolveReadOnly(key, t)
	default:
		return nil, fmt.Errorf("%w: %s", ErrShape, t.Shape)
	}
}

// As resolves key to a value of type T, deriving the type descriptor
// via TypeFor.
func As[T any](r *Resolver, key string) (T, error) {
	var zero T

	v, err := r.Resolve(key, TypeFor[T]())
	if err != nil {
		return zero, err
	}

	out, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("resolved %T for key %q, want %T", v, key, zero)
	}
	return out, nil
}

func (r *Resolver) resolveScalar(key string, t Type) (any, error) {
	zero := reflect.Zero(t.Elem).Interface()

	raw, ok := r.provider.Get(key)
	if !ok {
		if r.strict {
			return zero, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return zero, nil
	}

	v, err := coerceScalar(t.Elem, raw)
	if err != nil {
		cerr := &CoercionError{Key: key, Target: t.Elem, Raw: raw, Err: err}
		if r.strict {
			return zero, cerr
		}
		r.logger.Warn("using zero value for unparseable configuration value",
			"key", key, "type", t.Elem.String(), "raw", raw, "error", err)
		return zero, nil
	}
	return v.Interface(), nil
}

func (r *Resolver) resolveNullable(key string, t Type) (any, error) {
	nilPtr := reflect.Zero(t.target).Interface()

	raw, ok := r.provider.Get(key)
	if !ok {
		// Absent is the nullable empty state, not an error
		return nilPtr, nil
	}

	v, err := coerceScalar(t.Elem, raw)
	if err != nil {
		cerr := &CoercionError{Key: key, Target: t.Elem, Raw: raw, Err: err}
		if r.strict {
			return nilPtr, cerr
		}
		r.logger.Warn("using nil for unparseable configuration value",
			"key", key, "type", t.Elem.String(), "raw", raw, "error", err)
		return nilPtr, nil
	}

	ptr := reflect.New(t.Elem)
	ptr.Elem().Set(v)
	return ptr.Interface(), nil
}

// materialize coerces the ordered children under key into t.target.
// Array shape allocates the exact child count up front (fixed-size Go
// arrays fill up to their length); list shape appends into an
// initially empty slice.
func (r *Resolver) materialize(key string, t Type) (reflect.Value, error) {
	children := r.provider.Children(key)

	if t.Shape == ShapeList {
		out := reflect.MakeSlice(t.target, 0, len(children))
		for _, child := range children {
			v, err := r.coerceChild(key, child, t.Elem)
			if err != nil {
				return reflect.Value{}, err
			}
			out = reflect.Append(out, v)
		}
		return out, nil
	}

	if t.target.Kind() == reflect.Array {
		out := reflect.New(t.target).Elem()
		n := min(len(children), t.target.Len())
		for i := 0; i < n; i++ {
			v, err := r.coerceChild(key, children[i], t.Elem)
			if err != nil {
				return reflect.Value{}, err
			}
			out.Index(i).Set(v)
		}
		return out, nil
	}

	out := reflect.MakeSlice(t.target, len(children), len(children))
	for i, child := range children {
		v, err := r.coerceChild(key, child, t.Elem)
		if err != nil {
			return reflect.Value{}, err
		}
		out.Index(i).Set(v)
	}
	return out, nil
}

// coerceChild applies scalar coercion to one child entry, honoring the
// lenient/strict policy per element.
func (r *Resolver) coerceChild(key string, child Child, elem reflect.Type) (reflect.Value, error) {
	childKey := joinKey(key, child.Name)

	if !child.Has {
		if r.strict {
			return reflect.Value{}, fmt.Errorf("%w: %s", ErrNotFound, childKey)
		}
		return reflect.Zero(elem), nil
	}

	v, err := coerceScalar(elem, child.Value)
	if err != nil {
		cerr := &CoercionError{Key: childKey, Target: elem, Raw: child.Value, Err: err}
		if r.strict {
			return reflect.Value{}, cerr
		}
		r.logger.Warn("using zero value for unparseable configuration value",
			"key", childKey, "type", elem.String(), "raw", child.Value, "error", err)
		return reflect.Zero(elem), nil
	}
	return v, nil
}

func (r *Resolver) resolveReadOnly(key string, t Type) (any, error) {
	container, ok := reflect.Zero(t.target).Interface().(readOnlyContainer)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a ReadOnly sequence", ErrShape, t.target)
	}

	arrayType := Type{Shape: ShapeArray, Elem: t.Elem, target: reflect.SliceOf(t.Elem)}
	items, err := r.materialize(key, arrayType)
	if err != nil {
		return container.fillFrom(reflect.MakeSlice(arrayType.target, 0, 0)), err
	}
	return container.fillFrom(items), nil
}
