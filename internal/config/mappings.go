package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v2"
)

//go:embed default_mappings.yaml
var defaultMappingsYAML []byte

// Mappings holds the lookup tables used by the field normalizers.
// They are data, not code: operators can ship their own YAML file.
type Mappings struct {
	Technicians TechnicianMappings `yaml:"technicians"`
	FaultTypes  map[string]string  `yaml:"fault_types"`
	Parts       PartsMappings      `yaml:"parts"`
}

// TechnicianMappings resolves abbreviated technician names
type TechnicianMappings struct {
	// Aliases maps a known raw spelling to the canonical "First Last"
	Aliases map[string]string `yaml:"aliases"`
	// Initials expands the first-name initial of "I.Last" spellings
	Initials map[string]string `yaml:"initials"`
}

// PartsMappings configures the replaced-parts column
type PartsMappings struct {
	NoneLabel  string   `yaml:"none_label"`
	NoneTokens []string `yaml:"none_tokens"`
}

// DefaultMappings returns the built-in tables
func DefaultMappings() *Mappings {
	m, err := ParseMappings(defaultMappingsYAML)
	if err != nil {
		// the embedded file is part of the build
		panic(fmt.Sprintf("embedded mappings are invalid: %v", err))
	}
	return m
}

// LoadMappings reads a mappings file. An empty path returns the defaults.
// Sections missing from the file fall back to the built-in tables.
func LoadMappings(path string) (*Mappings, error) {
	if path == "" {
		return DefaultMappings(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mappings %s: %w", path, err)
	}

	m, err := ParseMappings(data)
	if err != nil {
		return nil, fmt.Errorf("parse mappings %s: %w", path, err)
	}

	defaults := DefaultMappings()
	if len(m.Technicians.Aliases) == 0 {
		m.Technicians.Aliases = defaults.Technicians.Aliases
	}
	if len(m.Technicians.Initials) == 0 {
		m.Technicians.Initials = defaults.Technicians.Initials
	}
	if len(m.FaultTypes) == 0 {
		m.FaultTypes = defaults.FaultTypes
	}
	if m.Parts.NoneLabel == "" {
		m.Parts.NoneLabel = defaults.Parts.NoneLabel
	}
	if len(m.Parts.NoneTokens) == 0 {
		m.Parts.NoneTokens = defaults.Parts.NoneTokens
	}

	return m, nil
}

// ParseMappings decodes and validates mapping YAML
func ParseMappings(data []byte) (*Mappings, error) {
	var m Mappings
	if err := yaml.UnmarshalStrict(data, &m); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate rejects tables the normalizers cannot use
func (m *Mappings) Validate() error {
	for initial, first := range m.Technicians.Initials {
		if utf8.RuneCountInString(initial) != 1 {
			return fmt.Errorf("technician initial %q must be a single letter", initial)
		}
		if strings.TrimSpace(first) == "" {
			return fmt.Errorf("technician initial %q maps to an empty name", initial)
		}
	}
	for raw, canonical := range m.Technicians.Aliases {
		if strings.TrimSpace(canonical) == "" {
			return fmt.Errorf("technician alias %q maps to an empty name", raw)
		}
	}
	for raw, canonical := range m.FaultTypes {
		if strings.TrimSpace(canonical) == "" {
			return fmt.Errorf("fault type %q maps to an empty label", raw)
		}
	}
	if strings.ContainsAny(m.Parts.NoneLabel, ",;|") {
		return fmt.Errorf("parts none label %q must not contain a delimiter", m.Parts.NoneLabel)
	}
	return nil
}
