package inkwell

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Options is an untyped tool configuration map. Tools read it once at
// construction into their own typed config; unknown names are ignored.
type Options map[string]any

// Float returns the named number, or def if absent or not numeric.
// Numeric strings are accepted.
func (o Options) Float(name string, def float64) float64 {
	switch v := o[name].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case uint64:
		return float64(v)
	case string:
		if f, err := ParseNumber(v); err == nil {
			return f
		}
	}
	return def
}

// Bool returns the named flag, or def if absent or not a bool.
func (o Options) Bool(name string, def bool) bool {
	switch v := o[name].(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(v) {
		case "true", "yes", "on", "1":
			return true
		case "false", "no", "off", "0":
			return false
		}
	}
	return def
}

// String returns the named string, or def if absent.
func (o Options) String(name, def string) string {
	if v, ok := o[name].(string); ok {
		return v
	}
	return def
}

// Color returns the named color, or def if absent or malformed.
func (o Options) Color(name string, def color.NRGBA) color.NRGBA {
	switch v := o[name].(type) {
	case string:
		if c, err := ParseColor(v); err == nil {
			return c
		}
	case color.NRGBA:
		return v
	}
	return def
}

// ToolOptions maps tool names to their options.
type ToolOptions map[string]Options

// For returns the options for the named tool; never nil.
func (t ToolOptions) For(tool string) Options {
	if o, ok := t[tool]; ok && o != nil {
		return o
	}
	return Options{}
}

// LoadToolOptions reads a YAML (.yaml, .yml) or TOML (.toml) file whose
// top-level keys are tool names.
func LoadToolOptions(path string) (ToolOptions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load tool options: %w", err)
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	opts, err := ParseToolOptions(data, format)
	if err != nil {
		return nil, fmt.Errorf("load tool options %s: %w", path, err)
	}
	return opts, nil
}

// ParseToolOptions decodes tool options in the given format ("yaml", "yml"
// or "toml").
func ParseToolOptions(data []byte, format string) (ToolOptions, error) {
	raw := map[string]map[string]any{}
	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	case "toml":
		if err := toml.NewDecoder(bytes.NewReader(data)).Decode(&raw); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported options format %q", format)
	}
	out := make(ToolOptions, len(raw))
	for name, o := range raw {
		out[name] = Options(o)
	}
	return out, nil
}
