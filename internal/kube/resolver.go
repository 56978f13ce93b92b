package kube

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/guimove/scenequery/internal/logging"
	"github.com/guimove/scenequery/internal/model"
)

var log = logging.Log()

// ErrUnsupportedDimension is returned for dimensions that have no Kubernetes object behind them.
var ErrUnsupportedDimension = errors.New("dimension cannot be resolved from the cluster")

// ResolveOptions narrows the objects listed by Resolve.
type ResolveOptions struct {
	Namespace     string // empty = all namespaces
	LabelSelector string
}

func (o ResolveOptions) list() metav1.ListOptions {
	return metav1.ListOptions{LabelSelector: o.LabelSelector}
}

// workloadKind lists the names of one kind of pod controller.
type workloadKind struct {
	kind string
	list func(ctx context.Context, client kubernetes.Interface, opts ResolveOptions) ([]string, error)
}

var workloadKinds = []workloadKind{
	{
		kind: "Deployment",
		list: func(ctx context.Context, client kubernetes.Interface, opts ResolveOptions) ([]string, error) {
			l, err := client.AppsV1().Deployments(opts.Namespace).List(ctx, opts.list())
			if err != nil {
				return nil, err
			}
			names := make([]string, 0, len(l.Items))
			for _, o := range l.Items {
				names = append(names, o.Name)
			}
			return names, nil
		},
	},
	{
		kind: "StatefulSet",
		list: func(ctx context.Context, client kubernetes.Interface, opts ResolveOptions) ([]string, error) {
			l, err := client.AppsV1().StatefulSets(opts.Namespace).List(ctx, opts.list())
			if err != nil {
				return nil, err
			}
			names := make([]string, 0, len(l.Items))
			for _, o := range l.Items {
				names = append(names, o.Name)
			}
			return names, nil
		},
	},
	{
		kind: "DaemonSet",
		list: func(ctx context.Context, client kubernetes.Interface, opts ResolveOptions) ([]string, error) {
			l, err := client.AppsV1().DaemonSets(opts.Namespace).List(ctx, opts.list())
			if err != nil {
				return nil, err
			}
			names := make([]string, 0, len(l.Items))
			for _, o := range l.Items {
				names = append(names, o.Name)
			}
			return names, nil
		},
	},
	{
		kind: "Job",
		list: func(ctx context.Context, client kubernetes.Interface, opts ResolveOptions) ([]string, error) {
			l, err := client.BatchV1().Jobs(opts.Namespace).List(ctx, opts.list())
			if err != nil {
				return nil, err
			}
			names := make([]string, 0, len(l.Items))
			for _, o := range l.Items {
				names = append(names, o.Name)
			}
			return names, nil
		},
	},
}

// Resolve lists the cluster objects behind dimension d and returns their names as a
// "|"-joined alternation, regex-quoted, deduplicated and sorted. Workloads come out as
// "Kind:name" tokens. An empty result is not an error.
func Resolve(ctx context.Context, client kubernetes.Interface, d model.Dimension, opts ResolveOptions) (string, error) {
	names, err := resolveNames(ctx, client, d, opts)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", d, err)
	}
	if len(names) == 0 {
		log.V(1).Info("no objects found", "dimension", d, "namespace", opts.Namespace, "selector", opts.LabelSelector)
	}
	return joinNames(names), nil
}

// ResolveInto resolves every dimension in dims and stores the values in c.Resources.
func ResolveInto(ctx context.Context, client kubernetes.Interface, c *model.Context, dims []model.Dimension, opts ResolveOptions) error {
	if c.Resources == nil {
		c.Resources = make(map[model.Dimension]string, len(dims))
	}
	for _, d := range dims {
		v, err := Resolve(ctx, client, d, opts)
		if err != nil {
			return err
		}
		c.Resources[d] = v
	}
	return nil
}

func resolveNames(ctx context.Context, client kubernetes.Interface, d model.Dimension, opts ResolveOptions) ([]string, error) {
	switch d {
	case model.DimensionNode:
		l, err := client.CoreV1().Nodes().List(ctx, opts.list())
		if err != nil {
			return nil, err
		}
		var names []string
		for _, n := range l.Items {
			names = append(names, quote(n.Name))
		}
		return names, nil

	case model.DimensionNamespace:
		l, err := client.CoreV1().Namespaces().List(ctx, opts.list())
		if err != nil {
			return nil, err
		}
		var names []string
		for _, ns := range l.Items {
			if opts.Namespace == "" || ns.Name == opts.Namespace {
				names = append(names, quote(ns.Name))
			}
		}
		return names, nil

	case model.DimensionPod, model.DimensionContainer:
		l, err := client.CoreV1().Pods(opts.Namespace).List(ctx, opts.list())
		if err != nil {
			return nil, err
		}
		var names []string
		for _, p := range l.Items {
			if d == model.DimensionPod {
				names = append(names, quote(p.Name))
				continue
			}
			for _, c := range p.Spec.Containers {
				names = append(names, quote(c.Name))
			}
		}
		return names, nil

	case model.DimensionService:
		l, err := client.CoreV1().Services(opts.Namespace).List(ctx, opts.list())
		if err != nil {
			return nil, err
		}
		var names []string
		for _, s := range l.Items {
			names = append(names, quote(s.Name))
		}
		return names, nil

	case model.DimensionIngress:
		l, err := client.NetworkingV1().Ingresses(opts.Namespace).List(ctx, opts.list())
		if err != nil {
			return nil, err
		}
		var names []string
		for _, i := range l.Items {
			names = append(names, quote(i.Name))
		}
		return names, nil

	case model.DimensionWorkload, model.DimensionWorkloadKind:
		var names []string
		for _, wk := range workloadKinds {
			found, err := wk.list(ctx, client, opts)
			if err != nil {
				return nil, fmt.Errorf("listing %s: %w", wk.kind, err)
			}
			if d == model.DimensionWorkloadKind {
				if len(found) > 0 {
					names = append(names, wk.kind)
				}
				continue
			}
			for _, n := range found {
				names = append(names, wk.kind+":"+quote(n))
			}
		}
		return names, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnsupportedDimension, d)
}

func quote(name string) string { return regexp.QuoteMeta(name) }

func joinNames(names []string) string {
	seen := make(map[string]bool, len(names))
	out := names[:0]
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return strings.Join(out, "|")
}
