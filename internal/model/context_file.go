package model

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"
)

// LoadContextFile reads a Context from a JSON or YAML file.
// Used for offline generation from the CLI and in CI pipelines.
func LoadContextFile(path string) (*Context, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading context file: %w", err)
	}

	var c Context
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing context file: %w", err)
	}

	if c.GroupBy != "" {
		d, err := ParseDimension(string(c.GroupBy))
		if err != nil {
			return nil, fmt.Errorf("parsing context file: %w", err)
		}
		c.GroupBy = d
	}
	resources := make(map[Dimension]string, len(c.Resources))
	for k, v := range c.Resources {
		d, err := ParseDimension(string(k))
		if err != nil {
			return nil, fmt.Errorf("parsing context file resources: %w", err)
		}
		resources[d] = v
	}
	c.Resources = resources

	filters := make(map[Dimension][]string, len(c.Filters))
	for k, v := range c.Filters {
		d, err := ParseDimension(string(k))
		if err != nil {
			return nil, fmt.Errorf("parsing context file filters: %w", err)
		}
		filters[d] = v
	}
	c.Filters = filters

	return &c, nil
}
