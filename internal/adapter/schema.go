package adapter

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

type PropertyType string

const (
	TypeString  PropertyType = "string"
	TypeBoolean PropertyType = "boolean"
	TypeInteger PropertyType = "integer"
	TypeNumber  PropertyType = "number"
	TypeArray   PropertyType = "array"
)

type Property struct {
	Type        PropertyType `json:"type"`
	Description string       `json:"description,omitempty"`
	Items       *Property    `json:"items,omitempty"`
	Enum        []string     `json:"enum,omitempty"`
	Minimum     *float64     `json:"minimum,omitempty"`
	Maximum     *float64     `json:"maximum,omitempty"`

	// IsPath marks a filesystem path. Path inputs are checked against the
	// allowed-root policy before any process is spawned.
	IsPath bool `json:"-"`
}

// Schema is the object schema published as a tool's inputSchema.
type Schema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required,omitempty"`
}

func ObjectSchema(props map[string]Property, required ...string) Schema {
	if props == nil {
		props = map[string]Property{}
	}
	return Schema{Type: "object", Properties: props, Required: required}
}

// Validate checks that every required field is present and every supplied
// field is declared and of the declared type. String values reach argv as
// their own tokens, so none of them may start with '-' and be read as an
// option by the wrapped toolchain.
func (s Schema) Validate(in Input) error {
	for _, name := range s.Required {
		v, ok := in[name]
		if !ok || v == nil {
			return fmt.Errorf("missing required field %q", name)
		}
	}

	names := make([]string, 0, len(in))
	for name := range in {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		prop, ok := s.Properties[name]
		if !ok {
			return fmt.Errorf("unknown field %q", name)
		}
		if in[name] == nil {
			continue
		}
		if err := prop.check(name, in[name]); err != nil {
			return err
		}
	}
	return nil
}

func (p Property) check(name string, v any) error {
	switch p.Type {
	case TypeString:
		s, ok := v.(string)
		if !ok {
			return typeError(name, p.Type, v)
		}
		if strings.HasPrefix(s, "-") {
			return fmt.Errorf("field %q must not start with '-' (write ./%s for a relative path)", name, s)
		}
		if len(p.Enum) > 0 && !contains(p.Enum, s) {
			return fmt.Errorf("field %q must be one of %s", name, strings.Join(p.Enum, ", "))
		}
	case TypeBoolean:
		if _, ok := v.(bool); !ok {
			return typeError(name, p.Type, v)
		}
	case TypeInteger:
		n, ok := toFloat(v)
		if !ok || n != math.Trunc(n) {
			return typeError(name, p.Type, v)
		}
		return p.checkRange(name, n)
	case TypeNumber:
		n, ok := toFloat(v)
		if !ok {
			return typeError(name, p.Type, v)
		}
		return p.checkRange(name, n)
	case TypeArray:
		items, ok := toSlice(v)
		if !ok {
			return typeError(name, p.Type, v)
		}
		if p.Items != nil {
			for i, item := range items {
				if err := p.Items.check(fmt.Sprintf("%s[%d]", name, i), item); err != nil {
					return err
				}
			}
		}
	default:
		return fmt.Errorf("field %q has unsupported schema type %q", name, p.Type)
	}
	return nil
}

func (p Property) checkRange(name string, n float64) error {
	if p.Minimum != nil && n < *p.Minimum {
		return fmt.Errorf("field %q must be >= %v", name, *p.Minimum)
	}
	if p.Maximum != nil && n > *p.Maximum {
		return fmt.Errorf("field %q must be <= %v", name, *p.Maximum)
	}
	return nil
}

func typeError(name string, want PropertyType, got any) error {
	return fmt.Errorf("field %q must be %s, got %T", name, want, got)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	default:
		return 0, false
	}
}

func toSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []string:
		out := make([]any, len(s))
		for i, item := range s {
			out[i] = item
		}
		return out, true
	default:
		return nil, false
	}
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
