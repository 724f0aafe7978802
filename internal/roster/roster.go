// Package roster holds the static catalog of unit templates loaded from
// configuration at startup. The catalog is read-only after creation and is
// the source for team building, starter sets and reward pools.
package roster

import (
	"fmt"
	"strings"
)

// Template describes a collectible unit type. Rarity is the fraction of
// drops this template represents (lower = rarer); 0 marks limited
// editions that never appear in reward pools.
type Template struct {
	Name    string  `json:"name" mapstructure:"name"`
	Health  int     `json:"health" mapstructure:"health"`
	Attack  int     `json:"attack" mapstructure:"attack"`
	Rarity  float64 `json:"rarity" mapstructure:"rarity"`
	Enabled bool    `json:"enabled" mapstructure:"enabled"`
}

// Catalog is an immutable, name-indexed set of templates.
type Catalog struct {
	ordered []Template
	byName  map[string]Template
}

// NewCatalog validates the templates and builds the catalog. Names must be
// unique (case-insensitive) and stats positive.
func NewCatalog(templates []Template) (*Catalog, error) {
	if len(templates) == 0 {
		return nil, fmt.Errorf("unit catalog is empty")
	}
	c := &Catalog{
		ordered: make([]Template, 0, len(templates)),
		byName:  make(map[string]Template, len(templates)),
	}
	for _, tpl := range templates {
		key := strings.ToLower(strings.TrimSpace(tpl.Name))
		if key == "" {
			return nil, fmt.Errorf("unit template missing name")
		}
		if _, exists := c.byName[key]; exists {
			return nil, fmt.Errorf("duplicate unit template %q", tpl.Name)
		}
		if tpl.Health <= 0 || tpl.Attack <= 0 {
			return nil, fmt.Errorf("unit template %q: health and attack must be positive", tpl.Name)
		}
		if tpl.Rarity < 0 || tpl.Rarity > 1 {
			return nil, fmt.Errorf("unit template %q: rarity must be within [0,1]", tpl.Name)
		}
		c.byName[key] = tpl
		c.ordered = append(c.ordered, tpl)
	}
	return c, nil
}

// Get looks a template up by name (case-insensitive).
func (c *Catalog) Get(name string) (Template, bool) {
	tpl, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	return tpl, ok
}

// All returns the templates in definition order.
func (c *Catalog) All() []Template {
	out := make([]Template, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// Droppable returns the enabled templates with a non-zero rarity, the set
// eligible for reward and bonus drops.
func (c *Catalog) Droppable() []Template {
	out := make([]Template, 0, len(c.ordered))
	for _, tpl := range c.ordered {
		if tpl.Enabled && tpl.Rarity > 0 {
			out = append(out, tpl)
		}
	}
	return out
}
