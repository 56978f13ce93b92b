package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guimove/scenequery/internal/generator"
	"github.com/guimove/scenequery/internal/kube"
	"github.com/guimove/scenequery/internal/model"
	"github.com/guimove/scenequery/internal/report"
	"github.com/guimove/scenequery/internal/targets"
)

type generateOptions struct {
	scene       string
	metric      string
	groupBy     string
	contextFile string
	resources   []string
	filters     []string
	resolve     []string
	namespace   string
	selector    string
	aux         bool
	explain     bool
}

var genOpts generateOptions

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the chart targets of one metric",
	Long: `Generate builds the PromQL expression of a metric for a chart context and prints
it wrapped as chart targets.

The context comes from --context-file, from flags, or both (flags win). Resource
values are regex alternations such as "node-1|node-2"; --resolve fills them from
the cluster instead.`,
	Example: `  scenequery generate --scene capacity --metric node_cpu_usage_ratio \
    --cluster-id BCS-K8S-001 --group-by node --resource 'node=node-1|node-2'

  scenequery generate --scene performance --metric container_cpu_usage_seconds_total \
    --group-by workload --resolve workload,namespace -n prod --aux -o table`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.StringVar(&genOpts.scene, "scene", string(model.ScenePerformance), "scene: performance, network, capacity")
	f.StringVar(&genOpts.metric, "metric", "", "metric name (see 'scenequery metrics')")
	f.StringVar(&genOpts.groupBy, "group-by", "", "dimension the chart is grouped by (default from config)")
	f.StringVar(&genOpts.contextFile, "context-file", "", "JSON or YAML context document")
	f.StringArrayVar(&genOpts.resources, "resource", nil, "resolved value as dimension=value (repeatable)")
	f.StringArrayVar(&genOpts.filters, "filter", nil, "filter values as dimension=v1,v2 (repeatable)")
	f.StringSliceVar(&genOpts.resolve, "resolve", nil, "dimensions to resolve from the cluster")
	f.StringVarP(&genOpts.namespace, "namespace", "n", "", "namespace for --resolve (default: all)")
	f.StringVarP(&genOpts.selector, "selector", "l", "", "label selector for --resolve")
	f.BoolVar(&genOpts.aux, "aux", false, "add limit/request/capacity reference lines")
	f.BoolVar(&genOpts.explain, "explain", false, "list the series each target reads")
	_ = generateCmd.MarkFlagRequired("metric")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	scene, err := model.ParseScene(genOpts.scene)
	if err != nil {
		return err
	}

	c, err := buildContext(ctx, genOpts)
	if err != nil {
		return err
	}
	if err := generator.CheckContext(c); err != nil {
		return err
	}

	b := targets.NewBuilder(cfg.Targets.API, cfg.Targets.Interval)
	out := b.CreateTargetsPanelList(scene, genOpts.metric, c, genOpts.aux)
	if len(out) == 0 {
		return fmt.Errorf("scene %s has no metric %q (see 'scenequery metrics %s')", scene, genOpts.metric, scene)
	}

	meta := report.ReportMeta{
		Scene:     scene,
		Metric:    genOpts.metric,
		ClusterID: c.ClusterID,
		GroupBy:   c.GroupBy,
	}
	if genOpts.explain {
		meta.Selectors = make(map[string][]string, len(out))
		for _, t := range out {
			sel, err := generator.Selectors(t.PromQL())
			if err != nil {
				return fmt.Errorf("explaining %s: %w", t.Alias(), err)
			}
			meta.Selectors[t.Alias()] = sel
		}
	}

	return report.NewReporter(cfg.Output.Format, cmd.OutOrStdout()).Report(ctx, out, meta)
}

// buildContext layers the context file, the config defaults, the flags and the
// cluster lookups, in that order.
func buildContext(ctx context.Context, o generateOptions) (*model.Context, error) {
	c := &model.Context{}
	if o.contextFile != "" {
		loaded, err := model.LoadContextFile(o.contextFile)
		if err != nil {
			return nil, err
		}
		c = loaded
	}

	// An explicit --cluster-id beats the file; the config default only fills a gap.
	if c.ClusterID == "" || rootCmd.PersistentFlags().Changed("cluster-id") {
		c.ClusterID = cfg.Context.ClusterID
	}
	switch {
	case o.groupBy != "":
		d, err := model.ParseDimension(o.groupBy)
		if err != nil {
			return nil, err
		}
		c.GroupBy = d
	case c.GroupBy == "":
		c.GroupBy = model.Dimension(cfg.Context.GroupBy)
	}

	resources, err := parseResources(o.resources)
	if err != nil {
		return nil, err
	}
	if c.Resources == nil {
		c.Resources = make(map[model.Dimension]string, len(resources))
	}
	for d, v := range resources {
		c.Resources[d] = v
	}
	// The cluster dimension resolves to the cluster itself.
	if c.GroupBy == model.DimensionCluster && c.Resource(model.DimensionCluster) == "" && c.ClusterID != "" {
		c.Resources[model.DimensionCluster] = c.Cluster()
	}

	filters, err := parseFilters(o.filters)
	if err != nil {
		return nil, err
	}
	if len(filters) > 0 && c.Filters == nil {
		c.Filters = make(map[model.Dimension][]string, len(filters))
	}
	for d, v := range filters {
		c.Filters[d] = append(c.Filters[d], v...)
	}

	if len(o.resolve) > 0 {
		dims, err := parseDimensions(o.resolve)
		if err != nil {
			return nil, err
		}
		client, kubeContext, err := kube.NewClient(cfg.Kubernetes.Kubeconfig, cfg.Kubernetes.Context)
		if err != nil {
			return nil, fmt.Errorf("connecting to Kubernetes: %w", err)
		}
		log.V(1).Info("resolving from cluster", "context", kubeContext, "dimensions", o.resolve)
		if err := kube.ResolveInto(ctx, client, c, dims, resolveOptions(o.namespace, o.selector)); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func resolveOptions(namespace, selector string) kube.ResolveOptions {
	if namespace == "" {
		namespace = cfg.Kubernetes.Namespace
	}
	return kube.ResolveOptions{Namespace: namespace, LabelSelector: selector}
}
