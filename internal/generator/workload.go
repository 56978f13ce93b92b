package generator

import (
	"fmt"

	corev1 "k8s.io/api/core/v1"

	"github.com/guimove/scenequery/internal/model"
)

// ResourceKind picks the kube-state-metrics resource series.
type ResourceKind string

const (
	Limits   ResourceKind = "limits"
	Requests ResourceKind = "requests"
)

// Metric returns the kube-state-metrics series name for the kind.
func (k ResourceKind) Metric() string { return "kube_pod_container_resource_" + string(k) }

// usageSeries is the cAdvisor series whose presence proves a pod of a workload is live.
func usageSeries(resource corev1.ResourceName) string {
	if resource == corev1.ResourceMemory {
		return "container_memory_working_set_bytes"
	}
	return "container_cpu_usage_seconds_total"
}

// WorkloadResource returns the per-workload total of container limits or requests.
//
// kube-state-metrics never labels resource series with the owning workload, while the
// cAdvisor series do. The workload identity is therefore carried over in two steps:
// a per-pod presence indicator (always 1) taken from the usage series is joined
// group_right on (pod, namespace) against the resource series, then the result is
// summed by the workload grouping of ctx.
func WorkloadResource(ctx *model.Context, resource corev1.ResourceName, kind ResourceKind) string {
	opts := SelectorOptions{PodLabel: true, ExcludePause: true}
	cols := GroupingColumns(ctx, opts)
	if !isWorkloadGrouping(ctx) {
		cols = []string{labelWorkloadKind, labelWorkloadName}
	}

	presence := fmt.Sprintf("count %s(%s) * 0 + 1",
		by([]string{labelWorkloadKind, labelWorkloadName, labelPod, labelNamespace}),
		instant(usageSeries(resource), BuildSelector(ctx, opts)))

	limits := instant(kind.Metric(),
		BuildSelector(ctx, SelectorOptions{NamespaceOnly: true}),
		eq("resource", string(resource)))

	joined := fmt.Sprintf("(%s) * on(%s,%s) group_right(%s,%s) %s",
		presence, labelPod, labelNamespace, labelWorkloadKind, labelWorkloadName, limits)

	return sumBy(cols, joined)
}
