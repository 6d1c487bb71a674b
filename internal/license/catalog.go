// Package license holds the catalog of license templates that can be
// stamped into a FITS header.
package license

import (
	"errors"
	"fmt"
	"sync"
)

// ErrUnknown is returned when a license identifier is not in the catalog.
var ErrUnknown = errors.New("unknown license")

// Template describes one license.
type Template struct {
	ID      string
	Name    string
	Version string
	URL     string
}

// String formats the template as "{name} {version} ({url})".
func (t Template) String() string {
	return fmt.Sprintf("%s %s (%s)", t.Name, t.Version, t.URL)
}

// Catalog is an ordered, read-only set of templates.
type Catalog struct {
	templates []Template
	index     map[string]int
}

// New builds a catalog from templates, keeping their order. A later
// template with an already seen ID replaces the earlier one in place.
func New(templates ...Template) *Catalog {
	c := &Catalog{
		templates: make([]Template, 0, len(templates)),
		index:     make(map[string]int, len(templates)),
	}
	for _, t := range templates {
		c.put(t)
	}
	return c
}

func (c *Catalog) put(t Template) {
	if i, ok := c.index[t.ID]; ok {
		c.templates[i] = t
		return
	}
	c.index[t.ID] = len(c.templates)
	c.templates = append(c.templates, t)
}

// Lookup returns the template registered under id.
func (c *Catalog) Lookup(id string) (Template, bool) {
	i, ok := c.index[id]
	if !ok {
		return Template{}, false
	}
	return c.templates[i], true
}

// MustLookup is like Lookup but returns an error wrapping ErrUnknown.
func (c *Catalog) MustLookup(id string) (Template, error) {
	t, ok := c.Lookup(id)
	if !ok {
		return Template{}, fmt.Errorf("%w: %q", ErrUnknown, id)
	}
	return t, nil
}

// Templates returns a copy of the templates in catalog order.
func (c *Catalog) Templates() []Template {
	out := make([]Template, len(c.templates))
	copy(out, c.templates)
	return out
}

// Len returns the number of templates.
func (c *Catalog) Len() int { return len(c.templates) }

// Merge returns a new catalog with the templates of other appended to c.
// Templates of other sharing an ID with c replace them at c's position.
func (c *Catalog) Merge(other *Catalog) *Catalog {
	merged := New(c.templates...)
	if other != nil {
		for _, t := range other.templates {
			merged.put(t)
		}
	}
	return merged
}

var builtin = []Template{
	{ID: "cc0", Name: "CC0", Version: "1.0", URL: "http://creativecommons.org/publicdomain/zero/1.0/"},
	{ID: "cc_by", Name: "CC BY", Version: "3.0", URL: "http://creativecommons.org/licenses/by/3.0/"},
	{ID: "cc_by_sa", Name: "CC BY-SA", Version: "3.0", URL: "http://creativecommons.org/licenses/by-sa/3.0/"},
	{ID: "cc_by_nd", Name: "CC BY-ND", Version: "3.0", URL: "http://creativecommons.org/licenses/by-nd/3.0/"},
	{ID: "cc_by_nc", Name: "CC BY-NC", Version: "3.0", URL: "http://creativecommons.org/licenses/by-nc/3.0/"},
	{ID: "cc_by_nc_sa", Name: "CC BY-NC-SA", Version: "3.0", URL: "http://creativecommons.org/licenses/by-nc-sa/3.0/"},
	{ID: "cc_by_nc_nd", Name: "CC BY-NC-ND", Version: "3.0", URL: "http://creativecommons.org/licenses/by-nc-nd/3.0/"},
	{ID: "pdm", Name: "Public Domain Mark", Version: "1.0", URL: "http://creativecommons.org/publicdomain/mark/1.0/"},
}

var defaultCatalog = sync.OnceValue(func() *Catalog { return New(builtin...) })

// Default returns the built-in catalog. It is shared and must not be
// modified; use Merge to extend it.
func Default() *Catalog {
	return defaultCatalog()
}
