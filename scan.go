// File: lixenwraith/bind/scan.go
package bind

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/mitchellh/mapstructure"
)

// Scan decodes the configuration subtree under basePath into the
// target struct or map. The target must be a non-nil pointer. Fields
// map through the "cfg" struct tag, and scalar conversion runs through
// the same coercion registry the Resolver uses, so registered types
// (durations, UUIDs, URLs, enums, custom coercers) decode identically
// in both paths.
func Scan(provider Provider, basePath string, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("target of Scan must be a non-nil pointer, got %T", target)
	}

	sectionData := subtree(provider, basePath)
	sectionMap, ok := sectionData.(map[string]any)
	if !ok {
		return fmt.Errorf("configuration path %q does not refer to a scannable section, but to %T", basePath, sectionData)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "cfg",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			registryDecodeHook(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(sectionMap); err != nil {
		return fmt.Errorf("failed to scan section %q into %T: %w", basePath, target, err)
	}

	return nil
}

// subtree materializes the provider subtree under key as nested maps,
// turning sequentially indexed children ("0","1",...) back into slices.
func subtree(provider Provider, key string) any {
	children := provider.Children(key)
	if len(children) == 0 {
		if v, ok := provider.Get(key); ok {
			return v
		}
		return map[string]any{}
	}

	if indexed(children) {
		out := make([]any, 0, len(children))
		for _, child := range children {
			out = append(out, childValue(provider, key, child))
		}
		return out
	}

	out := make(map[string]any, len(children))
	for _, child := range children {
		out[child.Name] = childValue(provider, key, child)
	}
	return out
}

func childValue(provider Provider, key string, child Child) any {
	if child.Has {
		return child.Value
	}
	return subtree(provider, joinKey(key, child.Name))
}

// indexed reports whether the children form a 0..n-1 index sequence.
func indexed(children []Child) bool {
	for i, child := range children {
		if child.Name != strconv.Itoa(i) {
			return false
		}
	}
	return len(children) > 0
}

// registryDecodeHook routes string inputs through the coercion
// registry, handling pointer targets by coercing the element type.
func registryDecodeHook() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		raw := data.(string)

		isPtr := t.Kind() == reflect.Ptr
		targetType := t
		if isPtr {
			targetType = t.Elem()
		}

		_, hasCoercer := lookupCoercer(targetType)
		if !hasCoercer && !hasEnum(targetType) {
			return data, nil
		}

		v, err := coerceScalar(targetType, raw)
		if err != nil {
			return nil, err
		}
		if isPtr {
			ptr := reflect.New(targetType)
			ptr.Elem().Set(v)
			return ptr.Interface(), nil
		}
		return v.Interface(), nil
	}
}
