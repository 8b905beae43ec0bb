package schema

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// File is the on-disk YAML layout:
//
//	resources:
//	  /player: [wiki, conditions, limit]
//	  match: [wiki, rawstreams]
type File struct {
	Resources map[string][]string `yaml:"resources"`
}

// Load reads a schema YAML file.
func Load(path string) (*Schema, error) {
	// #nosec G304 -- path is provided by trusted config/flag.
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("parse schema %q: %w", path, err)
	}
	return s, nil
}

// Parse decodes a schema YAML document.
func Parse(b []byte) (*Schema, error) {
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, err
	}
	if len(f.Resources) == 0 {
		return nil, errors.New("resources is empty")
	}
	m := make(map[Resource][]string, len(f.Resources))
	for name, params := range f.Resources {
		r := Resource(name).Normalize()
		if r == "" {
			return nil, errors.New("resource name is empty")
		}
		if _, dup := m[r]; dup {
			return nil, fmt.Errorf("resource %q declared twice", r)
		}
		clean := make([]string, 0, len(params))
		for _, p := range params {
			if p = strings.TrimSpace(p); p != "" {
				clean = append(clean, p)
			}
		}
		if len(clean) == 0 {
			return nil, fmt.Errorf("resource %q has no parameters", r)
		}
		m[r] = clean
	}
	return New(m), nil
}
