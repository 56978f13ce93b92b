package model

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidContext = errors.New("invalid generator context")

// Context is the input bundle of one chart render cycle. Generators only read it.
type Context struct {
	// Target cluster, injected into every label selector.
	ClusterID string `json:"cluster_id"`

	// The dimension the chart is broken down by.
	GroupBy Dimension `json:"group_by"`

	// Active filter values per dimension. Only the network scene looks at these.
	Filters map[Dimension][]string `json:"filters,omitempty"`

	// Already-resolved regex alternatives per dimension, e.g. "node-1|node-2".
	Resources map[Dimension]string `json:"resources"`
}

// Validate checks the preconditions every generator relies on.
func (c *Context) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: nil context", ErrInvalidContext)
	}
	if c.GroupBy == "" {
		return fmt.Errorf("%w: group_by is not set", ErrInvalidContext)
	}
	if len(c.Resources) == 0 {
		return fmt.Errorf("%w: resources are empty", ErrInvalidContext)
	}
	if c.Resource(c.GroupBy) == "" {
		return fmt.Errorf("%w: no resolved resource for group_by %q", ErrInvalidContext, c.GroupBy)
	}
	if c.Cluster() == "" {
		return fmt.Errorf("%w: cluster_id is empty", ErrInvalidContext)
	}
	return nil
}

// Cluster returns the cluster ID without surrounding spaces.
func (c *Context) Cluster() string {
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.ClusterID)
}

// Resource returns the resolved value for d, or "".
func (c *Context) Resource(d Dimension) string {
	if c == nil || c.Resources == nil {
		return ""
	}
	return strings.TrimSpace(c.Resources[d])
}

// Filtered reports whether any non-empty filter value is set for d.
func (c *Context) Filtered(d Dimension) bool {
	if c == nil {
		return false
	}
	for _, v := range c.Filters[d] {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

// FilterValues returns the non-empty filter values for d.
func (c *Context) FilterValues(d Dimension) []string {
	if c == nil {
		return nil
	}
	var out []string
	for _, v := range c.Filters[d] {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
