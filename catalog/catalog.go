// Package catalog holds the fixed set of project templates offered to the user.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/BurntSushi/toml"
)

type (
	Template struct {
		ID          string `toml:"id"`
		URL         string `toml:"url"`
		Description string `toml:"description"`
	}

	// Catalog is immutable once built. Iteration order is the order entries were given in.
	Catalog struct {
		templates []Template
		index     map[string]int
	}

	document struct {
		Templates []Template `toml:"template"`
	}
)

var (
	ErrInvalidCatalog = errors.New("invalid template catalog")

	//go:embed templates.toml
	builtin []byte
)

// Non-nil returned error wraps [ErrInvalidCatalog].
func New(templates ...Template) (*Catalog, error) {
	c := Catalog{
		templates: make([]Template, 0, len(templates)),
		index:     make(map[string]int, len(templates)),
	}

	for _, t := range templates {
		if strings.TrimSpace(t.ID) == "" {
			return nil, fmt.Errorf("%w: template with URL %q has an empty id", ErrInvalidCatalog, t.URL)
		}

		if _, ok := c.index[t.ID]; ok {
			return nil, fmt.Errorf("%w: duplicate template id %q", ErrInvalidCatalog, t.ID)
		}

		if t.URL == "" {
			return nil, fmt.Errorf("%w: template %q has no source location", ErrInvalidCatalog, t.ID)
		}

		if _, err := url.Parse(t.URL); err != nil {
			return nil, fmt.Errorf("%w: template %q has an unparsable source location: %w", ErrInvalidCatalog, t.ID, err)
		}

		c.index[t.ID] = len(c.templates)
		c.templates = append(c.templates, t)
	}

	if len(c.templates) == 0 {
		return nil, fmt.Errorf("%w: no templates", ErrInvalidCatalog)
	}

	return &c, nil
}

// Non-nil returned error wraps [ErrInvalidCatalog].
func Parse(data []byte) (*Catalog, error) {
	var doc document

	if _, err := toml.Decode(string(data), &doc); err != nil {
		return nil, fmt.Errorf("%w: failed to decode TOML: %w", ErrInvalidCatalog, err)
	}

	return New(doc.Templates...)
}

// Default returns the catalog compiled into the binary.
func Default() *Catalog {
	c, err := Parse(builtin)
	if err != nil {
		panic(err)
	}

	return c
}

func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.templates))

	for i := range c.templates {
		ids[i] = c.templates[i].ID
	}

	return ids
}

func (c *Catalog) Templates() []Template {
	out := make([]Template, len(c.templates))
	copy(out, c.templates)

	return out
}

func (c *Catalog) Lookup(id string) (Template, bool) {
	i, ok := c.index[id]
	if !ok {
		return Template{}, false
	}

	return c.templates[i], true
}
