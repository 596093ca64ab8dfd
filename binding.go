// File: lixenwraith/bind/binding.go
package bind

import (
	"fmt"
)

// Param is a declared binding site: a configuration key fixed at
// declaration time, paired with a statically derived target type.
// Declare once, resolve per construction:
//
//	var maxAttempts = bind.NewParam[int]("Retry:MaxAttempts")
//
//	n, err := maxAttempts.Resolve(reg)
//
// A Param is immutable and safe to share.
type Param[T any] struct {
	key  string
	typ  Type
	opts []Option
}

// NewParam declares a binding for key with the type descriptor derived
// from T. Options apply to every resolution through this Param.
func NewParam[T any](key string, opts ...Option) Param[T] {
	return Param[T]{key: key, typ: TypeFor[T](), opts: opts}
}

// Key returns the binding key.
func (p Param[T]) Key() string {
	return p.key
}

// Type returns the declared type descriptor.
func (p Param[T]) Type() Type {
	return p.typ
}

// Resolve fetches the Provider from the registry and resolves the
// binding against it. A registry without a Provider is fatal: the
// error propagates and object construction should fail with it.
func (p Param[T]) Resolve(reg *Registry) (T, error) {
	var zero T

	var provider Provider
	if err := reg.GetRequired(&provider); err != nil {
		return zero, fmt.Errorf("cannot resolve %q: %w", p.key, err)
	}
	return p.From(provider)
}

// From resolves the binding directly against a provider.
func (p Param[T]) From(provider Provider) (T, error) {
	var zero T

	r := NewResolver(provider, p.opts...)
	v, err := r.Resolve(p.key, p.typ)
	if err != nil {
		return zero, err
	}

	out, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("resolved %T for key %q, want %T", v, p.key, zero)
	}
	return out, nil
}
