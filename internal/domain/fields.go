package domain

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed fields.yaml
var defaultCatalog []byte

// FieldDescriptor names one form field and how it is presented.
type FieldDescriptor struct {
	Name        string   `yaml:"name"`
	Label       string   `yaml:"label,omitempty"`
	Help        string   `yaml:"help,omitempty"`
	Suggestions []string `yaml:"suggestions,omitempty"`
}

type catalog struct {
	Fields []FieldDescriptor `yaml:"fields"`
}

var loadDefaultFields = sync.OnceValues(func() ([]FieldDescriptor, error) {
	return ParseFields(defaultCatalog)
})

// DefaultFields returns the ordered prediction request fields. The returned
// slice is a copy and may be modified by the caller.
func DefaultFields() []FieldDescriptor {
	fields, err := loadDefaultFields()
	if err != nil {
		panic(fmt.Sprintf("domain: embedded field catalog: %v", err))
	}
	out := make([]FieldDescriptor, len(fields))
	copy(out, fields)
	return out
}

// ParseFields decodes a YAML field catalog. Field names must be non-empty and
// unique; a missing label is derived from the name.
func ParseFields(data []byte) ([]FieldDescriptor, error) {
	var c catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse field catalog: %w", err)
	}
	if len(c.Fields) == 0 {
		return nil, errors.New("field catalog is empty")
	}

	seen := make(map[string]struct{}, len(c.Fields))
	for i := range c.Fields {
		f := &c.Fields[i]
		f.Name = strings.TrimSpace(f.Name)
		if f.Name == "" {
			return nil, fmt.Errorf("field %d has no name", i)
		}
		if _, dup := seen[f.Name]; dup {
			return nil, fmt.Errorf("duplicate field %q", f.Name)
		}
		seen[f.Name] = struct{}{}
		if f.Label == "" {
			f.Label = LabelFor(f.Name)
		}
	}
	return c.Fields, nil
}

// DisplayLabel returns the label, or the one derived from the name when unset.
func (f FieldDescriptor) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return LabelFor(f.Name)
}

// LabelFor derives a display label from a field name: "total_donations"
// becomes "total donations".
func LabelFor(name string) string {
	return strings.ReplaceAll(name, "_", " ")
}

// FieldNames returns the names of fields in order.
func FieldNames(fields []FieldDescriptor) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}
