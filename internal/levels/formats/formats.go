// Package formats provides pluggable level file format decoders.
// Decoders are strict: unknown keys are reported instead of silently dropped.
package formats

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// DecodeYAML decodes a YAML level document into v.
func DecodeYAML(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("yaml unmarshal: %w", err)
	}
	return nil
}

// DecodeTOML decodes a TOML level document into v.
func DecodeTOML(data []byte, v any) error {
	md, err := toml.Decode(string(data), v)
	if err != nil {
		return fmt.Errorf("toml decode: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return fmt.Errorf("toml decode: unknown keys %s", strings.Join(keys, ", "))
	}
	return nil
}

// Decode routes to the decoder registered for a file extension.
func Decode(ext string, data []byte, v any) error {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return DecodeYAML(data, v)
	case ".toml":
		return DecodeTOML(data, v)
	default:
		return fmt.Errorf("unsupported extension: %s", ext)
	}
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml", ".toml"}
}

// IsSupported checks if an extension has a decoder.
func IsSupported(ext string) bool {
	ext = strings.ToLower(ext)
	for _, supported := range FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}
