package license

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidCatalog is returned when a catalog file cannot be used.
var ErrInvalidCatalog = errors.New("invalid license catalog")

type yamlCatalog struct {
	Licenses []yamlTemplate `yaml:"licenses"`
}

type yamlTemplate struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	URL     string `yaml:"url"`
}

// LoadFile reads extra templates from a YAML file.
func LoadFile(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("license: read catalog %s: %w", path, err)
	}
	return Parse(path, b)
}

// Parse decodes a YAML catalog. name is only used in error messages.
func Parse(name string, b []byte) (*Catalog, error) {
	var dto yamlCatalog
	if err := yaml.Unmarshal(b, &dto); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidCatalog, name, err)
	}

	seen := make(map[string]bool, len(dto.Licenses))
	templates := make([]Template, 0, len(dto.Licenses))
	for i, l := range dto.Licenses {
		t := Template{
			ID:      strings.TrimSpace(l.ID),
			Name:    strings.TrimSpace(l.Name),
			Version: strings.TrimSpace(l.Version),
			URL:     strings.TrimSpace(l.URL),
		}
		switch {
		case t.ID == "":
			return nil, invalidField(name, i, "id")
		case t.Name == "":
			return nil, invalidField(name, i, "name")
		case t.URL == "":
			return nil, invalidField(name, i, "url")
		}
		if seen[t.ID] {
			return nil, fmt.Errorf("%w: %s: duplicate id %q", ErrInvalidCatalog, name, t.ID)
		}
		seen[t.ID] = true
		templates = append(templates, t)
	}
	return New(templates...), nil
}

func invalidField(name string, i int, field string) error {
	return fmt.Errorf("%w: %s: licenses[%d].%s is required", ErrInvalidCatalog, name, i, field)
}
