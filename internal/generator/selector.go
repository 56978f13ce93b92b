package generator

import (
	"fmt"
	"strings"

	"github.com/prometheus/prometheus/model/labels"

	"github.com/guimove/scenequery/internal/model"
)

// Label names carried by the exporters the generated expressions read.
const (
	labelCluster       = "bcs_cluster_id"
	labelNamespace     = "namespace"
	labelNode          = "node"
	labelPod           = "pod"
	labelPodName       = "pod_name"
	labelContainer     = "container"
	labelContainerName = "container_name"
	labelWorkloadKind  = "workload_kind"
	labelWorkloadName  = "workload_name"
	labelService       = "service"
	labelIngress       = "ingress"

	// cAdvisor reports the sandbox of every pod as a container with this name.
	pauseContainer = "POD"
)

// SelectorOptions tunes BuildSelector and GroupingColumns for one call site.
type SelectorOptions struct {
	// NamespaceOnly stops after the cluster and namespace matchers.
	NamespaceOnly bool

	// ExcludePause drops the pause container series.
	ExcludePause bool

	// PodLabel matches pods and containers on "pod"/"container" instead of
	// "pod_name"/"container_name". The caller knows which exporter is read.
	PodLabel bool

	// ClusterScoped omits the namespace matcher, for node-level series.
	ClusterScoped bool
}

func (o SelectorOptions) podLabel() string {
	if o.PodLabel {
		return labelPod
	}
	return labelPodName
}

func (o SelectorOptions) containerLabel() string {
	if o.PodLabel {
		return labelContainer
	}
	return labelContainerName
}

// matcherList collects rendered matchers and keeps the first error.
type matcherList struct {
	ms  []string
	err error
}

func (l *matcherList) add(t labels.MatchType, name, value string) {
	if l.err != nil {
		return
	}
	m, err := labels.NewMatcher(t, name, value)
	if err != nil {
		l.err = fmt.Errorf("matcher for %s: %w", name, err)
		return
	}
	l.ms = append(l.ms, m.String())
}

// addResolved adds an anchored regex matcher for a resolved value, if any.
func (l *matcherList) addResolved(name, value string) {
	if value == "" {
		return
	}
	l.add(labels.MatchRegexp, name, anchor(value))
}

func (l *matcherList) String() string { return strings.Join(l.ms, ",") }

func anchor(value string) string { return "^(" + value + ")$" }

// BuildSelector renders the label matchers shared by every scene, without braces.
// Resolved values are expected to have passed CheckContext.
func BuildSelector(ctx *model.Context, opts SelectorOptions) string {
	l := selectorMatchers(ctx, opts)
	if l.err != nil {
		log.V(1).Info("dropping unusable matcher", "error", l.err.Error())
	}
	return l.String()
}

func selectorMatchers(ctx *model.Context, opts SelectorOptions) *matcherList {
	l := &matcherList{}
	l.add(labels.MatchEqual, labelCluster, ctx.Cluster())
	if !opts.ClusterScoped {
		l.addResolved(labelNamespace, ctx.Resource(model.DimensionNamespace))
	}
	if opts.NamespaceOnly {
		return l
	}

	switch ctx.GroupBy {
	case model.DimensionContainer:
		l.addResolved(opts.podLabel(), ctx.Resource(model.DimensionPod))
		l.addResolved(opts.containerLabel(), ctx.Resource(model.DimensionContainer))
		return l
	case model.DimensionPod:
		l.addResolved(opts.podLabel(), ctx.Resource(model.DimensionPod))
	case model.DimensionWorkload:
		kinds, names := splitWorkloads(ctx)
		if kinds == "" {
			l.add(labels.MatchNotEqual, labelWorkloadKind, "")
		} else {
			l.addResolved(labelWorkloadKind, kinds)
		}
		l.addResolved(labelWorkloadName, names)
	case model.DimensionIngress:
		l.addResolved(labelIngress, ctx.Resource(model.DimensionIngress))
	case model.DimensionService:
		l.addResolved(labelService, ctx.Resource(model.DimensionService))
	case model.DimensionNode:
		l.addResolved(labelNode, ctx.Resource(model.DimensionNode))
	}

	if opts.ExcludePause {
		l.add(labels.MatchNotEqual, opts.containerLabel(), pauseContainer)
	}
	return l
}

// splitWorkloads separates "Kind:name" tokens of the resolved workload value.
// An explicit workload_kind resource takes precedence over the kinds found there.
func splitWorkloads(ctx *model.Context) (kinds, names string) {
	var kindList, nameList []string
	seen := map[string]bool{}
	for _, tok := range strings.Split(ctx.Resource(model.DimensionWorkload), "|") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		kind, name, ok := strings.Cut(tok, ":")
		if !ok {
			nameList = append(nameList, tok)
			continue
		}
		if !seen[kind] {
			seen[kind] = true
			kindList = append(kindList, kind)
		}
		nameList = append(nameList, name)
	}
	if k := ctx.Resource(model.DimensionWorkloadKind); k != "" {
		return k, strings.Join(nameList, "|")
	}
	return strings.Join(kindList, "|"), strings.Join(nameList, "|")
}

// relationSelector matches a relation series on cluster, namespace and dimension d.
// The value of d comes from the resolved resources, falling back to the active filters.
func relationSelector(ctx *model.Context, d model.Dimension, label string) string {
	l := &matcherList{}
	l.add(labels.MatchEqual, labelCluster, ctx.Cluster())
	l.addResolved(labelNamespace, ctx.Resource(model.DimensionNamespace))
	value := ctx.Resource(d)
	if value == "" {
		value = strings.Join(ctx.FilterValues(d), "|")
	}
	l.addResolved(label, value)
	if l.err != nil {
		log.V(1).Info("dropping unusable matcher", "error", l.err.Error())
	}
	return l.String()
}

// CheckContext validates ctx and every resolved value it carries.
func CheckContext(ctx *model.Context) error {
	if err := ctx.Validate(); err != nil {
		return err
	}
	l := &matcherList{}
	l.add(labels.MatchEqual, labelCluster, ctx.Cluster())
	for _, d := range model.Dimensions {
		l.addResolved(string(d), ctx.Resource(d))
		if vs := ctx.FilterValues(d); len(vs) > 0 {
			l.addResolved(string(d), strings.Join(vs, "|"))
		}
	}
	if l.err != nil {
		return fmt.Errorf("%w: %v", model.ErrInvalidContext, l.err)
	}
	return nil
}
