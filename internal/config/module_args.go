package config

import (
	"fmt"
	"maps"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// KeyLoadSample is the module argument that enables sample loading.
const KeyLoadSample = "loadSample"

// ModuleArgs holds the module-specific arguments supplied at startup.
// It is built once before serving and only read afterwards.
type ModuleArgs map[string]string

// GetOrDefault returns the value for key, or fallback when absent.
func (a ModuleArgs) GetOrDefault(key, fallback string) string {
	if v, ok := a[key]; ok {
		return v
	}
	return fallback
}

// LoadModuleArgs merges module arguments from, lowest precedence first:
// the TOML file at path (if non-empty), the AUDIT_LOAD_SAMPLE environment
// variable, and positional "key=value" arguments.
func LoadModuleArgs(path string, positional []string) (ModuleArgs, error) {
	args := ModuleArgs{}
	if path != "" {
		fromFile, err := readModuleArgsFile(path)
		if err != nil {
			return nil, err
		}
		maps.Copy(args, fromFile)
	}
	if v := strings.TrimSpace(os.Getenv("AUDIT_LOAD_SAMPLE")); v != "" {
		args[KeyLoadSample] = v
	}
	fromArgs, err := ParseModuleArgs(positional)
	if err != nil {
		return nil, err
	}
	maps.Copy(args, fromArgs)
	return args, nil
}

// ParseModuleArgs parses "key=value" pairs. Later pairs override earlier ones.
func ParseModuleArgs(pairs []string) (ModuleArgs, error) {
	args := ModuleArgs{}
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid module argument %q (want key=value)", p)
		}
		args[k] = strings.TrimSpace(v)
	}
	return args, nil
}

// readModuleArgsFile decodes a flat TOML table of module arguments.
// Non-string values are rendered with their TOML text form, so
// `loadSample = true` and `loadSample = "true"` are equivalent.
func readModuleArgsFile(path string) (ModuleArgs, error) {
	var raw map[string]any
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, fmt.Errorf("read module args %s: %w", path, err)
	}
	args := make(ModuleArgs, len(raw))
	for k, v := range raw {
		switch v := v.(type) {
		case string:
			args[k] = v
		case bool, int64, float64:
			args[k] = fmt.Sprint(v)
		default:
			return nil, fmt.Errorf("read module args %s: key %q has unsupported type %T", path, k, v)
		}
	}
	return args, nil
}
