package generator

import (
	"fmt"
	"strings"

	"github.com/prometheus/prometheus/model/labels"
	corev1 "k8s.io/api/core/v1"

	"github.com/guimove/scenequery/internal/model"
)

const (
	// Roles marking control-plane nodes across Kubernetes versions.
	controlPlaneRoles = "master|control-plane"

	// Loopback and veth pairs would count pod traffic twice.
	virtualDevices = "lo|veth.*"

	// Pods in these phases no longer hold their requests.
	finishedPhases = "Failed|Succeeded"
)

// Capacity generates node-level usage, bin-packing and node count expressions.
type Capacity struct {
	formulas map[string]formula
}

// NewCapacity returns the capacity scene generator.
func NewCapacity() *Capacity {
	return &Capacity{formulas: map[string]formula{
		"node_cpu_seconds_total":              nodeCPUUsage,
		"node_cpu_usage_ratio":                nodeCPUUsageRatio,
		"node_cpu_capacity_ratio":             binPackingRatio(corev1.ResourceCPU),
		"node_memory_working_set_bytes":       nodeMemoryUsage,
		"node_memory_usage_ratio":             nodeMemoryUsageRatio,
		"node_memory_capacity_ratio":          binPackingRatio(corev1.ResourceMemory),
		"node_pod_usage":                      nodePodUsage,
		"master_node_count":                   masterNodeCount,
		"worker_node_count":                   workerNodeCount,
		"node_network_receive_bytes_total":    nodeNetworkCounter("node_network_receive_bytes_total"),
		"node_network_transmit_bytes_total":   nodeNetworkCounter("node_network_transmit_bytes_total"),
		"node_network_receive_packets_total":  nodeNetworkCounter("node_network_receive_packets_total"),
		"node_network_transmit_packets_total": nodeNetworkCounter("node_network_transmit_packets_total"),
	}}
}

func (c *Capacity) Scene() model.Scene { return model.SceneCapacity }

func (c *Capacity) Metrics() []string { return metricNames(c.formulas) }

func (c *Capacity) Generate(metric string, ctx *model.Context) string {
	return generate(model.SceneCapacity, c.formulas, metric, ctx)
}

// NodeScope narrows ctx to what node-level series can be grouped by:
// per node when grouping by node, otherwise the whole cluster.
func NodeScope(ctx *model.Context) *model.Context {
	if ctx.GroupBy == model.DimensionNode {
		return ctx
	}
	return &model.Context{
		ClusterID: ctx.Cluster(),
		GroupBy:   model.DimensionCluster,
		Resources: map[model.Dimension]string{model.DimensionCluster: ctx.Cluster()},
	}
}

// nodeSelector and nodeColumns are the capacity counterparts of BuildSelector and GroupingColumns.
func nodeSelector(ctx *model.Context) string {
	return BuildSelector(NodeScope(ctx), SelectorOptions{ClusterScoped: true})
}

func nodeColumns(ctx *model.Context) []string {
	return GroupingColumns(NodeScope(ctx), SelectorOptions{ClusterScoped: true})
}

func nodeCPUUsage(ctx *model.Context) string {
	cols := nodeColumns(ctx)
	busy := rate("node_cpu_seconds_total", nodeSelector(ctx), match(labels.MatchNotEqual, "mode", "idle"))
	return reduce(cols, sumBy(cols, busy))
}

// nodeCPUUsageRatio divides busy CPU time by the number of CPUs, which is the
// number of idle-mode series.
func nodeCPUUsageRatio(ctx *model.Context) string {
	cols := nodeColumns(ctx)
	sel := nodeSelector(ctx)
	busy := sumBy(cols, rate("node_cpu_seconds_total", sel, match(labels.MatchNotEqual, "mode", "idle")))
	cpus := "count " + by(cols) + "(" + instant("node_cpu_seconds_total", sel, eq("mode", "idle")) + ")"
	return reduce(cols, percent(busy, cpus))
}

func nodeMemoryUsage(ctx *model.Context) string {
	cols := nodeColumns(ctx)
	sel := nodeSelector(ctx)
	used := instant("node_memory_MemTotal_bytes", sel) + " - " + instant("node_memory_MemAvailable_bytes", sel)
	return reduce(cols, sumBy(cols, used))
}

func nodeMemoryUsageRatio(ctx *model.Context) string {
	cols := nodeColumns(ctx)
	sel := nodeSelector(ctx)
	return reduce(cols, fmt.Sprintf("(1 - %s / %s) * 100",
		sumBy(cols, instant("node_memory_MemAvailable_bytes", sel)),
		sumBy(cols, instant("node_memory_MemTotal_bytes", sel))))
}

// binPackingRatio is requested capacity over allocatable capacity. Requests are only
// counted for live pods: the phase series is reduced to one sample per pod and joined
// group_left on (namespace, pod), so finished or evicted pods drop out.
func binPackingRatio(resource corev1.ResourceName) formula {
	return func(ctx *model.Context) string {
		cols := nodeColumns(ctx)
		sel := nodeSelector(ctx)
		podKey := []string{labelNamespace, labelPod}
		// Phase series carry no node label, so only the cluster is matched there.
		live := fmt.Sprintf("max %s(%s == 1)", by(podKey),
			instant("kube_pod_status_phase", eq(labelCluster, ctx.Cluster()), match(labels.MatchNotRegexp, "phase", finishedPhases)))
		requested := instant(Requests.Metric(), sel, eq("resource", string(resource))) +
			" * on(" + strings.Join(podKey, ",") + ") group_left() " + live
		allocatable := instant("kube_node_status_allocatable", sel, eq("resource", string(resource)))
		return reduce(cols, percent(sumBy(cols, requested), sumBy(cols, allocatable)))
	}
}

func nodePodUsage(ctx *model.Context) string {
	cols := nodeColumns(ctx)
	sel := nodeSelector(ctx)
	return reduce(cols, percent(
		sumBy(cols, instant("kubelet_running_pods", sel)),
		sumBy(cols, instant("kube_node_status_allocatable", sel, eq("resource", string(corev1.ResourcePods))))))
}

func controlPlaneNodes(sel string) string {
	return instant("kube_node_role", sel, match(labels.MatchRegexp, "role", controlPlaneRoles))
}

// masterNodeCount counts nodes carrying a control-plane role, once per node.
func masterNodeCount(ctx *model.Context) string {
	cols := nodeColumns(ctx)
	perNode := fmt.Sprintf("max %s(%s)", by(union(cols, []string{labelNode})), controlPlaneNodes(nodeSelector(ctx)))
	return reduce(cols, "count "+by(cols)+"("+perNode+")")
}

// workerNodeCount is every labeled node minus the control-plane nodes.
func workerNodeCount(ctx *model.Context) string {
	cols := nodeColumns(ctx)
	sel := nodeSelector(ctx)
	workers := instant("kube_node_labels", sel) + " unless on(" + labelNode + ") " + controlPlaneNodes(sel)
	return reduce(cols, "count "+by(cols)+"("+workers+")")
}

func nodeNetworkCounter(metric string) formula {
	return func(ctx *model.Context) string {
		cols := nodeColumns(ctx)
		r := rate(metric, nodeSelector(ctx), match(labels.MatchNotRegexp, "device", virtualDevices))
		return reduce(cols, sumBy(cols, r))
	}
}
