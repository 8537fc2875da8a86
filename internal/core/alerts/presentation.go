package alerts

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed presentation.yaml
var defaultPresentation []byte

// Presentation controls how an alert of one error type looks in email.
type Presentation struct {
	Emoji   string   `yaml:"emoji"`
	Title   string   `yaml:"title"`
	Color   string   `yaml:"color"`
	Urgency string   `yaml:"urgency"`
	Actions []string `yaml:"actions"`
}

type Catalog map[ErrorType]Presentation

// LoadCatalog parses a YAML catalog. Every error type must be present.
func LoadCatalog(raw []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse presentation catalog: %w", err)
	}
	for _, t := range errorTypes {
		if _, ok := c[t]; !ok {
			return nil, fmt.Errorf("presentation catalog: missing %s", t)
		}
	}
	return c, nil
}

// DefaultCatalog returns the embedded catalog.
func DefaultCatalog() Catalog {
	c, err := LoadCatalog(defaultPresentation)
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup falls back to the ERROR entry for unknown types.
func (c Catalog) Lookup(t ErrorType) Presentation {
	if p, ok := c[t]; ok {
		return p
	}
	return c[TypeError]
}
