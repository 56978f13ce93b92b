package targets

import (
	corev1 "k8s.io/api/core/v1"

	"github.com/guimove/scenequery/internal/generator"
	"github.com/guimove/scenequery/internal/model"
)

// Aliases of the reference lines drawn next to a usage metric.
const (
	AliasLimit    = "limit"
	AliasRequest  = "request"
	AliasCapacity = "capacity"
)

// AuxiliaryLine is a reference query drawn alongside a primary usage metric.
type AuxiliaryLine struct {
	Alias  string
	PromQL string
}

type auxiliaryBuilder func(ctx *model.Context) []AuxiliaryLine

// Only these metrics have meaningful reference lines.
var auxiliaryTable = map[string]auxiliaryBuilder{
	"node_cpu_seconds_total":             nodeLines(corev1.ResourceCPU),
	"node_memory_working_set_bytes":      nodeLines(corev1.ResourceMemory),
	"container_cpu_usage_seconds_total":  containerLines(corev1.ResourceCPU),
	"container_memory_working_set_bytes": containerLines(corev1.ResourceMemory),
}

// nodeLines are the limit, request and capacity totals, node-scoped or cluster-scoped.
func nodeLines(resource corev1.ResourceName) auxiliaryBuilder {
	return func(ctx *model.Context) []AuxiliaryLine {
		return []AuxiliaryLine{
			{Alias: AliasLimit, PromQL: generator.NodeConfiguredResourceLine(ctx, resource, generator.Limits)},
			{Alias: AliasRequest, PromQL: generator.NodeConfiguredResourceLine(ctx, resource, generator.Requests)},
			{Alias: AliasCapacity, PromQL: generator.NodeAllocatableLine(ctx, resource)},
		}
	}
}

// containerLines are the limit and request totals on the chart's own grouping.
func containerLines(resource corev1.ResourceName) auxiliaryBuilder {
	return func(ctx *model.Context) []AuxiliaryLine {
		return []AuxiliaryLine{
			{Alias: AliasLimit, PromQL: generator.ConfiguredResourceLine(ctx, resource, generator.Limits)},
			{Alias: AliasRequest, PromQL: generator.ConfiguredResourceLine(ctx, resource, generator.Requests)},
		}
	}
}

// AuxiliaryLines returns the reference lines of metric for ctx, in drawing order.
// Metrics without reference lines and invalid contexts give none.
func AuxiliaryLines(metric string, ctx *model.Context) []AuxiliaryLine {
	build, ok := auxiliaryTable[metric]
	if !ok {
		return nil
	}
	if err := generator.CheckContext(ctx); err != nil {
		log.V(1).Info("invalid context, no auxiliary lines", "metric", metric, "reason", err.Error())
		return nil
	}
	return build(ctx)
}

// HasAuxiliaryLines reports whether metric defines reference lines.
func HasAuxiliaryLines(metric string) bool {
	_, ok := auxiliaryTable[metric]
	return ok
}
