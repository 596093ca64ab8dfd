// File: lixenwraith/bind/doc.go

// Package bind resolves typed values from hierarchical configuration
// sources. Given a colon-separated binding key ("Retry:Timeout"), a
// declared target type, and a Provider, it coerces the raw string (or
// the ordered child values under the key) into the requested Go value.
//
// Features:
//   - Explicit target shapes: scalar, nullable, enum, array, list,
//     read-only list — declared statically via generics, never guessed
//     from runtime reflection at resolve time
//   - Closed coercion registry for well-known types (time.Duration,
//     time.Time, uuid.UUID, url.URL, net.IP, net.IPNet) plus custom
//     coercers and enum tables registered at startup
//   - encoding.TextUnmarshaler fallback for types with their own
//     textual grammars
//   - Lenient mode (default): unparseable values yield the zero value
//     and a diagnostic; strict mode surfaces a *CoercionError instead
//   - Providers for in-memory trees, TOML/JSON/YAML files, environment
//     variables, and command-line arguments, plus layered precedence
//   - Struct binding via Scan for decoding whole subtrees
//
// Quick Start:
//
//	tree, err := bind.LoadFile("config.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	r := bind.NewResolver(tree)
//	attempts, _ := bind.As[int](r, "Retry:MaxAttempts")
//	timeout, _ := bind.As[time.Duration](r, "Retry:Timeout")
//	tags, _ := bind.As[[]string](r, "Feature:Tags")
//
// Injection sites declare parameters once and resolve them against a
// service registry that holds the live Provider:
//
//	var maxAttempts = bind.NewParam[int]("Retry:MaxAttempts")
//
//	reg := bind.NewRegistry()
//	reg.Register(tree)
//	n, err := maxAttempts.Resolve(reg)
//
// Thread Safety:
// Resolution is a pure function of (key, type, provider snapshot) and
// holds no state between calls; concurrent resolutions are safe as long
// as the underlying Provider is safe for concurrent reads. Coercer and
// enum registration is guarded by a mutex but intended to happen once
// at startup, before the first resolution.
package bind
