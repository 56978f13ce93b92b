package generator

import (
	corev1 "k8s.io/api/core/v1"

	"github.com/guimove/scenequery/internal/model"
)

// ConfiguredResource sums container limits or requests on the grouping of ctx.
func ConfiguredResource(ctx *model.Context, resource corev1.ResourceName, kind ResourceKind) string {
	if isWorkloadGrouping(ctx) {
		return WorkloadResource(ctx, resource, kind)
	}
	cols := GroupingColumns(ctx, SelectorOptions{PodLabel: true})
	return sumBy(cols, instant(kind.Metric(),
		BuildSelector(ctx, SelectorOptions{PodLabel: true}),
		eq("resource", string(resource))))
}

// ConfiguredResourceLine is ConfiguredResource under the caller-chosen reducer.
func ConfiguredResourceLine(ctx *model.Context, resource corev1.ResourceName, kind ResourceKind) string {
	cols := GroupingColumns(ctx, SelectorOptions{PodLabel: true})
	return reduce(cols, ConfiguredResource(ctx, resource, kind))
}

// NodeConfiguredResourceLine sums container limits or requests per node, or for the
// whole cluster when the chart is not grouped by node.
func NodeConfiguredResourceLine(ctx *model.Context, resource corev1.ResourceName, kind ResourceKind) string {
	cols := nodeColumns(ctx)
	return reduce(cols, sumBy(cols, instant(kind.Metric(), nodeSelector(ctx), eq("resource", string(resource)))))
}

// NodeAllocatableLine sums allocatable capacity per node or for the whole cluster.
func NodeAllocatableLine(ctx *model.Context, resource corev1.ResourceName) string {
	cols := nodeColumns(ctx)
	return reduce(cols, sumBy(cols, instant("kube_node_status_allocatable", nodeSelector(ctx), eq("resource", string(resource)))))
}
