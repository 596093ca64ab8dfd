// File: lixenwraith/bind/registry.go
package bind

import (
	"fmt"
	"reflect"
	"sync"
)

// Registry is a minimal service registry, just enough for binding
// sites to locate the live Provider (or any other collaborator) at
// resolution time. Lookup is by exact dynamic type first, then by
// assignability so interface requests find concrete registrations.
type Registry struct {
	mu       sync.RWMutex
	services map[reflect.Type]any
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		services: make(map[reflect.Type]any),
	}
}

// Register stores value keyed by its dynamic type, replacing any
// earlier registration of the same type.
func (r *Registry) Register(value any) {
	if value == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.services[reflect.TypeOf(value)] = value
}

// RegisterAs stores value keyed by T, which may be an interface type.
func RegisterAs[T any](r *Registry, value T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.services[reflect.TypeOf((*T)(nil)).Elem()] = value
}

// GetRequired sets the required service via the pointer, returning
// ErrNotRegistered if no registration satisfies the requested type.
func (r *Registry) GetRequired(varPtr any) error {
	rv := reflect.ValueOf(varPtr)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("GetRequired target must be a non-nil pointer, got %T", varPtr)
	}
	target := rv.Elem()

	r.mu.RLock()
	defer r.mu.RUnlock()

	if service, ok := r.services[target.Type()]; ok {
		target.Set(reflect.ValueOf(service))
		return nil
	}

	// Fall back to assignability for interface requests
	for t, service := range r.services {
		if t.AssignableTo(target.Type()) {
			target.Set(reflect.ValueOf(service))
			return nil
		}
	}

	return fmt.Errorf("%w: %s", ErrNotRegistered, target.Type())
}

// Get retrieves the service registered for T.
func Get[T any](r *Registry) (T, error) {
	var out T
	err := r.GetRequired(&out)
	return out, err
}

// MustGet is like Get but panics when the service is missing.
func MustGet[T any](r *Registry) T {
	out, err := Get[T](r)
	if err != nil {
		panic(fmt.Sprintf("bind: %v", err))
	}
	return out
}
