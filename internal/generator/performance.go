package generator

import (
	corev1 "k8s.io/api/core/v1"

	"github.com/guimove/scenequery/internal/model"
)

// Performance generates container CPU and memory usage expressions.
type Performance struct {
	formulas map[string]formula
}

// NewPerformance returns the performance scene generator.
func NewPerformance() *Performance {
	return &Performance{formulas: map[string]formula{
		"container_cpu_usage_seconds_total":  containerCPUUsage,
		"container_memory_working_set_bytes": containerGauge("container_memory_working_set_bytes"),
		"container_memory_rss":               containerGauge("container_memory_rss"),
		"container_cpu_cfs_throttled_ratio":  cfsThrottledRatio,
		"kube_pod_cpu_requests_ratio":        usageRatio(corev1.ResourceCPU, Requests),
		"kube_pod_cpu_limits_ratio":          usageRatio(corev1.ResourceCPU, Limits),
		"kube_pod_memory_requests_ratio":     usageRatio(corev1.ResourceMemory, Requests),
		"kube_pod_memory_limits_ratio":       usageRatio(corev1.ResourceMemory, Limits),
	}}
}

func (p *Performance) Scene() model.Scene { return model.ScenePerformance }

func (p *Performance) Metrics() []string { return metricNames(p.formulas) }

func (p *Performance) Generate(metric string, ctx *model.Context) string {
	return generate(model.ScenePerformance, p.formulas, metric, ctx)
}

// containerCPUUsage is the CPU cores used, as a rate of the cAdvisor counter.
func containerCPUUsage(ctx *model.Context) string {
	opts := SelectorOptions{ExcludePause: true}
	return BuildAggregation(ctx, opts) + "(" + rate("container_cpu_usage_seconds_total", BuildSelector(ctx, opts)) + ")"
}

func containerGauge(metric string) formula {
	return func(ctx *model.Context) string {
		opts := SelectorOptions{ExcludePause: true}
		return BuildAggregation(ctx, opts) + "(" + instant(metric, BuildSelector(ctx, opts)) + ")"
	}
}

// cfsThrottledRatio is the share of CFS periods in which the container was throttled.
func cfsThrottledRatio(ctx *model.Context) string {
	opts := SelectorOptions{ExcludePause: true}
	cols := GroupingColumns(ctx, opts)
	sel := BuildSelector(ctx, opts)
	return reduce(cols, percent(
		sumBy(cols, increase("container_cpu_cfs_throttled_periods_total", sel)),
		sumBy(cols, increase("container_cpu_cfs_periods_total", sel)),
	))
}

// containerUsage is the per-series usage of a resource read from cAdvisor.
func containerUsage(resource corev1.ResourceName, sel string) string {
	if resource == corev1.ResourceMemory {
		return instant(usageSeries(resource), sel)
	}
	return rate(usageSeries(resource), sel)
}

// usageRatio divides usage by the configured limits or requests, in percent.
// Workload groupings need WorkloadResource because resource series carry no workload labels.
func usageRatio(resource corev1.ResourceName, kind ResourceKind) formula {
	return func(ctx *model.Context) string {
		opts := SelectorOptions{PodLabel: true, ExcludePause: true}
		cols := GroupingColumns(ctx, opts)
		usage := sumBy(cols, containerUsage(resource, BuildSelector(ctx, opts)))
		return reduce(cols, percent(usage, ConfiguredResource(ctx, resource, kind)))
	}
}
