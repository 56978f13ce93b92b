package generator

import (
	"fmt"

	"github.com/guimove/scenequery/internal/model"
)

// Relation series published by the monitoring agent, valued 1 per relation.
const (
	ingressServiceRelation = "ingress_with_service_relation"
	podServiceRelation     = "pod_with_service_relation"
)

// Direction selects the receive or transmit side of container network counters.
type Direction string

const (
	Receive  Direction = "receive"
	Transmit Direction = "transmit"
)

func (d Direction) counter(kind string) string {
	return "container_network_" + string(d) + "_" + kind + "_total"
}

// Network generates container network traffic expressions. Container counters only
// carry pod identity, so service and ingress views join them through relation series.
type Network struct {
	formulas map[string]formula
}

// NewNetwork returns the network scene generator.
func NewNetwork() *Network {
	f := map[string]formula{}
	for _, d := range []Direction{Receive, Transmit} {
		for _, kind := range []string{"bytes", "packets", "errors", "packets_dropped"} {
			f[d.counter(kind)] = networkCounter(d.counter(kind))
		}
		f["container_network_"+string(d)+"_errors_ratio"] = networkErrorRatio(d)
	}
	return &Network{formulas: f}
}

func (n *Network) Scene() model.Scene { return model.SceneNetwork }

func (n *Network) Metrics() []string { return metricNames(n.formulas) }

func (n *Network) Generate(metric string, ctx *model.Context) string {
	return generate(model.SceneNetwork, n.formulas, metric, ctx)
}

// FilterLevel returns the most specific dimension constrained by the grouping or the
// filters, checked in the order ingress, service, namespace. Pod is the default.
func FilterLevel(ctx *model.Context) model.Dimension {
	for _, d := range []model.Dimension{model.DimensionIngress, model.DimensionService, model.DimensionNamespace} {
		if ctx.GroupBy == d || ctx.Filtered(d) {
			return d
		}
	}
	return model.DimensionPod
}

func networkCounter(metric string) formula {
	return func(ctx *model.Context) string {
		return networkExpr(ctx, metric)
	}
}

// networkErrorRatio divides errors by packets, both built with the same join shape.
func networkErrorRatio(d Direction) formula {
	return func(ctx *model.Context) string {
		return fmt.Sprintf("(%s) / (%s) * 100",
			networkExpr(ctx, d.counter("errors")),
			networkExpr(ctx, d.counter("packets")))
	}
}

// networkExpr renders the per-level shape for one counter.
//
// Relations are many-to-many: a pod may back several services and a service may sit
// behind several ingresses. Joins therefore keep the relation rows on the many side
// and per-pod or per-service traffic on the one side. When the relation only filters
// and its label is not grouped on, it is applied with "and", which accepts duplicates.
func networkExpr(ctx *model.Context, metric string) string {
	opts := SelectorOptions{PodLabel: true}
	cols := GroupingColumns(ctx, opts)
	podKey := []string{labelNamespace, labelPod}
	level := FilterLevel(ctx)

	switch level {
	case model.DimensionIngress, model.DimensionService:
		inner := union(podKey, without(cols, labelIngress, labelService))
		traffic := sumBy(inner, rate(metric, BuildSelector(ctx, SelectorOptions{PodLabel: true, NamespaceOnly: true})))
		if level == model.DimensionIngress && ctx.GroupBy != model.DimensionIngress {
			traffic = fmt.Sprintf("(%s and on(%s,%s) %s)", traffic, labelNamespace, labelPod, podsOfIngresses(ctx))
		}
		switch ctx.GroupBy {
		case model.DimensionIngress:
			return reduce(cols, ingressTraffic(ctx, traffic))
		case model.DimensionService:
			return reduce(cols, serviceTraffic(ctx, traffic))
		}
		if level == model.DimensionIngress {
			return reduce(cols, traffic)
		}
		return reduce(cols, fmt.Sprintf("%s and on(%s,%s) %s", traffic, labelNamespace, labelPod, podsOfServices(ctx)))

	case model.DimensionNamespace:
		inner := union([]string{labelNamespace}, cols)
		return reduce(cols, sumBy(inner, rate(metric, BuildSelector(ctx, opts))))

	default:
		inner := union(podKey, cols)
		return reduce(cols, sumBy(inner, rate(metric, BuildSelector(ctx, opts))))
	}
}

// podsOfServices maps pods to their services, one sample valued 1 per (service, namespace, pod).
func podsOfServices(ctx *model.Context) string {
	rel := instant(podServiceRelation, relationSelector(ctx, model.DimensionService, labelService))
	return "group " + by([]string{labelService, labelNamespace, labelPod}) + "(" + rel + ")"
}

// servicesOfIngresses maps services to their ingresses, one sample valued 1 per
// (ingress, service, namespace).
func servicesOfIngresses(ctx *model.Context) string {
	rel := instant(ingressServiceRelation, relationSelector(ctx, model.DimensionIngress, labelIngress))
	return "group " + by([]string{labelIngress, labelService, labelNamespace}) + "(" + rel + ")"
}

// podsOfIngresses lists the pod relations whose service is behind a selected ingress.
func podsOfIngresses(ctx *model.Context) string {
	pods := instant(podServiceRelation, relationSelector(ctx, model.DimensionService, labelService))
	ingresses := instant(ingressServiceRelation, relationSelector(ctx, model.DimensionIngress, labelIngress))
	return fmt.Sprintf("(%s and on(%s,%s) %s)", pods, labelService, labelNamespace, ingresses)
}

// serviceTraffic spreads per-pod traffic over the services of each pod. The result
// has one series per (service, namespace, pod).
func serviceTraffic(ctx *model.Context, podTraffic string) string {
	return fmt.Sprintf("%s * on(%s,%s) group_left() %s",
		podsOfServices(ctx), labelNamespace, labelPod, podTraffic)
}

// ingressTraffic sums traffic per service first, then spreads it over the ingresses
// of each service. A pod backing two services of one ingress counts once per service.
func ingressTraffic(ctx *model.Context, podTraffic string) string {
	perService := sumBy([]string{labelService, labelNamespace}, serviceTraffic(ctx, podTraffic))
	return fmt.Sprintf("%s * on(%s,%s) group_left() %s",
		servicesOfIngresses(ctx), labelService, labelNamespace, perService)
}
