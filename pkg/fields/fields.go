package fields

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kind is the expected value type of a field
type Kind string

const (
	Number Kind = "number"
	Bool   Kind = "bool"
	Text   Kind = "text"
)

// Valid reports whether k is one of the supported kinds
func (k Kind) Valid() bool {
	switch k {
	case Number, Bool, Text:
		return true
	}
	return false
}

// Spec declares a single named field and its kind
type Spec struct {
	Name        string `yaml:"name" json:"name"`
	Kind        Kind   `yaml:"type" json:"type"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Schema is the ordered set of fields a rule set may reference
type Schema struct {
	specs []Spec
	index map[string]int
}

// NewSchema builds a schema, rejecting duplicate names and unknown kinds
func NewSchema(specs []Spec) (Schema, error) {
	s := Schema{
		specs: make([]Spec, 0, len(specs)),
		index: make(map[string]int, len(specs)),
	}
	for _, sp := range specs {
		name := strings.TrimSpace(sp.Name)
		if name == "" {
			return Schema{}, fmt.Errorf("field with empty name")
		}
		if !sp.Kind.Valid() {
			return Schema{}, fmt.Errorf("field %q: unknown type %q", name, sp.Kind)
		}
		if _, dup := s.index[name]; dup {
			return Schema{}, fmt.Errorf("field %q declared twice", name)
		}
		sp.Name = name
		s.index[name] = len(s.specs)
		s.specs = append(s.specs, sp)
	}
	return s, nil
}

// Lookup returns the spec for name
func (s Schema) Lookup(name string) (Spec, bool) {
	i, ok := s.index[name]
	if !ok {
		return Spec{}, false
	}
	return s.specs[i], true
}

// Specs returns a copy of the declared fields in declaration order
func (s Schema) Specs() []Spec {
	out := make([]Spec, len(s.specs))
	copy(out, s.specs)
	return out
}

// Len is the number of declared fields
func (s Schema) Len() int { return len(s.specs) }

// Mapping holds the values extracted from one report, keyed by field name.
// Values are checked against a Schema only when they are read through Get.
type Mapping map[string]any

// Clone returns a shallow copy of m
func (m Mapping) Clone() Mapping {
	out := make(Mapping, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Keys returns the sorted field names present in m
func (m Mapping) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get reads field spec.Name from m and coerces it to spec.Kind.
// Numbers come back as float64, booleans as bool and text as string.
func (m Mapping) Get(spec Spec) (any, error) {
	raw, ok := m[spec.Name]
	if !ok {
		return nil, &MissingFieldError{Field: spec.Name}
	}
	v, ok := coerce(spec.Kind, raw)
	if !ok {
		return nil, &InvalidFieldError{Field: spec.Name, Want: spec.Kind, Value: raw}
	}
	return v, nil
}

func coerce(kind Kind, raw any) (any, bool) {
	switch kind {
	case Number:
		f, ok := toFloat(raw)
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, false
		}
		return f, true
	case Bool:
		switch v := raw.(type) {
		case bool:
			return v, true
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return nil, false
			}
			return b, true
		}
		return nil, false
	case Text:
		switch v := raw.(type) {
		case string:
			return v, true
		case fmt.Stringer:
			return v.String(), true
		}
		return nil, false
	}
	return nil, false
}

func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	}
	return 0, false
}
