package cmd

import (
	"fmt"
	"strings"

	"github.com/guimove/scenequery/internal/model"
)

// parseResources parses repeated "dimension=value" flags. Values are kept verbatim,
// so they may contain "|" alternations and commas.
func parseResources(args []string) (map[model.Dimension]string, error) {
	out := make(map[model.Dimension]string, len(args))
	for _, a := range args {
		k, v, ok := strings.Cut(a, "=")
		if !ok {
			return nil, fmt.Errorf("resource %q: expected dimension=value", a)
		}
		d, err := model.ParseDimension(k)
		if err != nil {
			return nil, fmt.Errorf("resource %q: %w", a, err)
		}
		out[d] = strings.TrimSpace(v)
	}
	return out, nil
}

// parseFilters parses repeated "dimension=v1,v2" flags; repeated dimensions accumulate.
func parseFilters(args []string) (map[model.Dimension][]string, error) {
	out := make(map[model.Dimension][]string, len(args))
	for _, a := range args {
		k, v, ok := strings.Cut(a, "=")
		if !ok {
			return nil, fmt.Errorf("filter %q: expected dimension=v1,v2", a)
		}
		d, err := model.ParseDimension(k)
		if err != nil {
			return nil, fmt.Errorf("filter %q: %w", a, err)
		}
		for _, value := range strings.Split(v, ",") {
			if value = strings.TrimSpace(value); value != "" {
				out[d] = append(out[d], value)
			}
		}
	}
	return out, nil
}

// parseDimensions parses dimension names given as arguments or a list flag.
func parseDimensions(args []string) ([]model.Dimension, error) {
	out := make([]model.Dimension, 0, len(args))
	for _, a := range args {
		d, err := model.ParseDimension(a)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
