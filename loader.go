// File: lixenwraith/bind/loader.go
package bind

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// LoadFile reads a configuration file into a Tree. The format is
// detected from the file extension first, then from the content.
// Returns ErrConfigNotFound if the file does not exist.
func LoadFile(path string) (*Tree, error) {
	fileData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	format := detectFileFormat(path)
	if format == "" {
		format = detectFormatFromContent(fileData)
		if format == "" {
			return nil, fmt.Errorf("unable to determine config format for file '%s'", path)
		}
	}

	fileConfig := make(map[string]any)
	switch format {
	case "toml":
		if err := toml.Unmarshal(fileData, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse TOML config file '%s': %w", path, err)
		}
	case "json":
		decoder := json.NewDecoder(bytes.NewReader(fileData))
		decoder.UseNumber() // Preserve number precision
		if err := decoder.Decode(&fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config file '%s': %w", path, err)
		}
	case "yaml":
		if err := yaml.Unmarshal(fileData, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config file '%s': %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unable to determine config format for file '%s'", path)
	}

	return NewTree(fileConfig), nil
}

// detectFileFormat determines format from file extension
func detectFileFormat(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".toml", ".tml":
		return "toml"
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return ""
	}
}

// detectFormatFromContent attempts to detect format by parsing
func detectFormatFromContent(data []byte) string {
	// Try JSON first (strict format)
	var jsonTest any
	if err := json.Unmarshal(data, &jsonTest); err == nil {
		return "json"
	}

	// Try TOML before YAML, since YAML accepts almost anything
	var tomlTest any
	if err := toml.Unmarshal(data, &tomlTest); err == nil {
		return "toml"
	}

	var yamlTest any
	if err := yaml.Unmarshal(data, &yamlTest); err == nil {
		return "yaml"
	}

	return ""
}

// EnvTransformFunc converts a binding key to an environment variable name.
type EnvTransformFunc func(key string) string

// defaultEnvTransform maps "Retry:MaxAttempts" to "PREFIX_RETRY_MAXATTEMPTS".
func defaultEnvTransform(prefix string) EnvTransformFunc {
	return func(key string) string {
		env := strings.ReplaceAll(key, Separator, "_")
		env = strings.ToUpper(env)
		if prefix != "" {
			env = prefix + env
		}
		return env
	}
}

// Env is a Provider backed by process environment variables.
// "Retry:MaxAttempts" resolves from PREFIX_RETRY_MAXATTEMPTS by
// default; a custom transform may replace that mapping. Child
// enumeration scans the environment for variables one underscore
// segment below the key, with numeric names ordered numerically.
type Env struct {
	transform EnvTransformFunc
}

// NewEnv creates an environment variable provider with the default
// key transform and the given prefix (e.g. "MYAPP_").
func NewEnv(prefix string) *Env {
	return &Env{transform: defaultEnvTransform(prefix)}
}

// NewEnvTransform creates an environment variable provider with a
// custom key transform.
func NewEnvTransform(transform EnvTransformFunc) *Env {
	return &Env{transform: transform}
}

// Get returns the value of the environment variable mapped from key.
func (e *Env) Get(key string) (string, bool) {
	return os.LookupEnv(e.transform(key))
}

// Children enumerates environment variables nested one level under the
// key. A variable PREFIX_FEATURE_TAGS_0 appears as child "0" of
// "Feature:Tags"; deeper variables surface their first segment as a
// section child.
func (e *Env) Children(key string) []Child {
	envPrefix := e.transform(key) + "_"

	type entry struct {
		value string
		leaf  bool
	}
	found := make(map[string]entry)

	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, envPrefix) {
			continue
		}
		rest := strings.TrimPrefix(name, envPrefix)
		if rest == "" {
			continue
		}

		segment, _, nested := strings.Cut(rest, "_")
		if nested {
			// Deeper variable, surface the section only
			if _, exists := found[segment]; !exists {
				found[segment] = entry{}
			}
		} else {
			found[segment] = entry{value: value, leaf: true}
		}
	}

	names := make([]string, 0, len(found))
	for name := range found {
		names = append(names, name)
	}
	sortChildNames(names)

	out := make([]Child, 0, len(names))
	for _, name := range names {
		ent := found[name]
		out = append(out, Child{Name: name, Value: ent.value, Has: ent.leaf})
	}
	return out
}

// sortChildNames orders names numerically when all are integers,
// lexically otherwise, so indexed children keep their list order.
func sortChildNames(names []string) {
	allNumeric := true
	for _, n := range names {
		if _, err := strconv.Atoi(n); err != nil {
			allNumeric = false
			break
		}
	}

	sort.Slice(names, func(i, j int) bool {
		if allNumeric {
			a, _ := strconv.Atoi(names[i])
			b, _ := strconv.Atoi(names[j])
			return a < b
		}
		return names[i] < names[j]
	})
}

// ParseArgs builds a Tree from command-line arguments. Supported
// forms: "--retry:maxattempts=5", "--retry:timeout 30s", and bare
// "--feature:enabled" as a boolean true shorthand. Non-flag arguments
// are skipped.
func ParseArgs(args []string) (*Tree, error) {
	tree := NewTree(nil)

	i := 0
	for i < len(args) {
		arg := args[i]
		if !strings.HasPrefix(arg, "--") {
			// Skip non-flag arguments
			i++
			continue
		}

		argContent := strings.TrimPrefix(arg, "--")
		if argContent == "" {
			// Skip "--" argument if used as a separator
			i++
			continue
		}

		var keyPath string
		var valueStr string

		// Check for "--key=value" format
		if strings.Contains(argContent, "=") {
			parts := strings.SplitN(argContent, "=", 2)
			keyPath = parts[0]
			valueStr = parts[1]
			i++ // Consume only this argument
		} else {
			keyPath = argContent
			// Boolean shorthand when the next arg is another flag or absent
			if i+1 >= len(args) || strings.HasPrefix(args[i+1], "--") {
				valueStr = "true"
				i++
			} else {
				valueStr = args[i+1]
				i += 2
			}
		}

		if keyPath == "" {
			// Skip invalid flags like --=value
			continue
		}

		for _, segment := range splitKey(keyPath) {
			if !isValidKeySegment(segment) {
				return nil, fmt.Errorf("invalid command-line key segment %q in path %q", segment, keyPath)
			}
		}

		// Always store the raw string; coercion happens at resolve time
		tree.Set(keyPath, valueStr)
	}

	return tree, nil
}

// isValidKeySegment checks if a single path segment is a valid bare key.
func isValidKeySegment(s string) bool {
	if len(s) == 0 {
		return false
	}

	for _, r := range s {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		isUnderscore := r == '_'
		isDash := r == '-'

		if !(isLetter || isDigit || isUnderscore || isDash) {
			return false
		}
	}
	return true
}
