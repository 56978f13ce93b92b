package config

import (
	"fmt"
	"strings"

	"github.com/guimove/scenequery/internal/model"
)

// Config is the top-level configuration for scenequery.
type Config struct {
	Context    ContextConfig    `mapstructure:"context" yaml:"context"`
	Targets    TargetsConfig    `mapstructure:"targets" yaml:"targets"`
	Kubernetes KubernetesConfig `mapstructure:"kubernetes" yaml:"kubernetes"`
	Server     ServerConfig     `mapstructure:"server" yaml:"server"`
	Output     OutputConfig     `mapstructure:"output" yaml:"output"`
	Log        LogConfig        `mapstructure:"log" yaml:"log"`
}

// ContextConfig holds defaults for contexts built from CLI flags.
type ContextConfig struct {
	ClusterID string `mapstructure:"cluster_id" yaml:"cluster_id"`
	GroupBy   string `mapstructure:"group_by" yaml:"group_by"`
}

type TargetsConfig struct {
	API      string `mapstructure:"api" yaml:"api"`
	Interval string `mapstructure:"interval" yaml:"interval"`
}

type KubernetesConfig struct {
	Kubeconfig string `mapstructure:"kubeconfig" yaml:"kubeconfig"`
	Context    string `mapstructure:"context" yaml:"context"`
	Namespace  string `mapstructure:"namespace" yaml:"namespace"` // empty = all namespaces
}

type ServerConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format"`
}

type LogConfig struct {
	Verbosity int `mapstructure:"verbosity" yaml:"verbosity"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Context: ContextConfig{
			GroupBy: string(model.DimensionCluster),
		},
		Targets: TargetsConfig{
			API:      "grafana.graphUnifyQuery",
			Interval: model.DefaultInterval,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Output: OutputConfig{
			Format: "json",
		},
	}
}

// Validate checks the config for consistency.
func (c *Config) Validate() error {
	if c.Context.GroupBy != "" {
		d, err := model.ParseDimension(c.Context.GroupBy)
		if err != nil {
			return fmt.Errorf("context.group_by: %w", err)
		}
		c.Context.GroupBy = string(d)
	}
	if strings.TrimSpace(c.Targets.API) == "" {
		return fmt.Errorf("targets.api must not be empty")
	}
	if c.Targets.Interval == "" {
		c.Targets.Interval = model.DefaultInterval
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	validFormats := map[string]bool{"table": true, "json": true, "yaml": true}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("output format must be table, json, or yaml, got %q", c.Output.Format)
	}
	if c.Log.Verbosity < 0 {
		return fmt.Errorf("log verbosity must be non-negative, got %d", c.Log.Verbosity)
	}
	return nil
}
