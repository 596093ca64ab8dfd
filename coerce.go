// File: lixenwraith/bind/coerce.go
package bind

import (
	"encoding"
	"fmt"
	"net"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// coercerFunc converts one raw string into one typed value.
type coercerFunc func(raw string) (reflect.Value, error)

// enumTable maps member names to values for one enum type.
type enumTable struct {
	exact  map[string]reflect.Value
	folded map[string]reflect.Value
}

var (
	coerceMu sync.RWMutex
	coercers = make(map[reflect.Type]coercerFunc)
	enums    = make(map[reflect.Type]enumTable)
)

var (
	stringType          = reflect.TypeOf((*string)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// RegisterCoercer adds (or replaces) the coercion function for T in
// the package-wide registry. Registration is intended to happen once
// at startup, before the first resolution.
func RegisterCoercer[T any](fn func(raw string) (T, error)) {
	t := reflect.TypeOf((*T)(nil)).Elem()

	coerceMu.Lock()
	defer coerceMu.Unlock()

	coercers[t] = func(raw string) (reflect.Value, error) {
		v, err := fn(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(v), nil
	}
}

// RegisterEnum declares the member names of enum type T. Matching is
// case-insensitive, with an exact-case match preferred when both
// exist. Unmatched names are a coercion error, subject to the
// resolver's lenient/strict policy like any other scalar.
func RegisterEnum[T comparable](names map[string]T) {
	t := reflect.TypeOf((*T)(nil)).Elem()

	table := enumTable{
		exact:  make(map[string]reflect.Value, len(names)),
		folded: make(map[string]reflect.Value, len(names)),
	}
	for name, value := range names {
		rv := reflect.ValueOf(value)
		table.exact[name] = rv
		table.folded[strings.ToLower(name)] = rv
	}

	coerceMu.Lock()
	defer coerceMu.Unlock()
	enums[t] = table
}

func lookupCoercer(t reflect.Type) (coercerFunc, bool) {
	coerceMu.RLock()
	defer coerceMu.RUnlock()
	fn, ok := coercers[t]
	return fn, ok
}

func lookupEnum(t reflect.Type) (enumTable, bool) {
	coerceMu.RLock()
	defer coerceMu.RUnlock()
	table, ok := enums[t]
	return table, ok
}

// hasEnum reports whether an enum table is registered for t.
func hasEnum(t reflect.Type) bool {
	_, ok := lookupEnum(t)
	return ok
}

// coerceScalar converts one raw string into a value of type t.
// Strategy order: string identity, registered coercer, enum table,
// primitive conversion by kind, encoding.TextUnmarshaler fallback.
func coerceScalar(t reflect.Type, raw string) (reflect.Value, error) {
	if t == stringType {
		return reflect.ValueOf(raw), nil
	}

	if fn, ok := lookupCoercer(t); ok {
		return fn(raw)
	}

	if table, ok := lookupEnum(t); ok {
		if v, ok := table.exact[raw]; ok {
			return v, nil
		}
		if v, ok := table.folded[strings.ToLower(raw)]; ok {
			return v, nil
		}
		return reflect.Value{}, fmt.Errorf("no enum member %q for type %s", raw, t)
	}

	switch t.Kind() {
	case reflect.String:
		return reflect.ValueOf(raw).Convert(t), nil

	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("cannot convert %q to bool: %w", raw, err)
		}
		return reflect.ValueOf(b).Convert(t), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		// Base 0 for auto-detection (e.g., "0xFF")
		i, err := strconv.ParseInt(raw, 0, t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("cannot convert %q to %s: %w", raw, t, err)
		}
		out := reflect.New(t).Elem()
		out.SetInt(i)
		return out, nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := strconv.ParseUint(raw, 0, t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("cannot convert %q to %s: %w", raw, t, err)
		}
		out := reflect.New(t).Elem()
		out.SetUint(u)
		return out, nil

	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("cannot convert %q to %s: %w", raw, t, err)
		}
		out := reflect.New(t).Elem()
		out.SetFloat(f)
		return out, nil
	}

	if reflect.PointerTo(t).Implements(textUnmarshalerType) {
		ptr := reflect.New(t)
		if err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(raw)); err != nil {
			return reflect.Value{}, fmt.Errorf("UnmarshalText failed for %s: %w", t, err)
		}
		return ptr.Elem(), nil
	}

	return reflect.Value{}, fmt.Errorf("no coercion strategy for type %s", t)
}

func init() {
	RegisterCoercer(time.ParseDuration)
	RegisterCoercer(func(raw string) (time.Time, error) {
		return time.Parse(time.RFC3339, raw)
	})
	RegisterCoercer(uuid.Parse)
	RegisterCoercer(parseURL)
	RegisterCoercer(parseIP)
	RegisterCoercer(parseCIDR)
}

func parseURL(raw string) (url.URL, error) {
	if len(raw) > 2048 {
		return url.URL{}, fmt.Errorf("URL too long: %d bytes", len(raw))
	}
	u, err := url.Parse(raw)
	if err != nil {
		return url.URL{}, fmt.Errorf("invalid URL: %w", err)
	}
	return *u, nil
}

func parseIP(raw string) (net.IP, error) {
	if len(raw) > 45 { // Max IPv6 length
		return nil, fmt.Errorf("invalid IP length: %d", len(raw))
	}
	ip := net.ParseIP(raw)
	if ip == nil {
		return nil, fmt.Errorf("invalid IP address: %s", raw)
	}
	return ip, nil
}

func parseCIDR(raw string) (net.IPNet, error) {
	if len(raw) > 49 { // Max IPv6 CIDR length
		return net.IPNet{}, fmt.Errorf("invalid CIDR length: %d", len(raw))
	}
	_, ipnet, err := net.ParseCIDR(raw)
	if err != nil {
		return net.IPNet{}, fmt.Errorf("invalid CIDR: %w", err)
	}
	return *ipnet, nil
}
