package kube

import (
	"context"
	"errors"
	"testing"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/guimove/scenequery/internal/model"
)

func meta(name, namespace string, labels map[string]string) metav1.ObjectMeta {
	return metav1.ObjectMeta{Name: name, Namespace: namespace, Labels: labels}
}

func pod(name, namespace string, containers ...string) *corev1.Pod {
	p := &corev1.Pod{ObjectMeta: meta(name, namespace, map[string]string{"app": "api"})}
	for _, c := range containers {
		p.Spec.Containers = append(p.Spec.Containers, corev1.Container{Name: c})
	}
	return p
}

func testObjects() []runtime.Object {
	return []runtime.Object{
		&corev1.Node{ObjectMeta: meta("node-2", "", nil)},
		&corev1.Node{ObjectMeta: meta("node-1", "", nil)},
		&corev1.Namespace{ObjectMeta: meta("prod", "", nil)},
		&corev1.Namespace{ObjectMeta: meta("dev", "", nil)},
		pod("api-0", "prod", "app", "sidecar"),
		pod("api-1", "prod", "app", "sidecar"),
		pod("web-0", "dev", "web"),
		&corev1.Service{ObjectMeta: meta("api", "prod", nil)},
		&networkingv1.Ingress{ObjectMeta: meta("api.example.com", "prod", nil)},
		&appsv1.Deployment{ObjectMeta: meta("api", "prod", nil)},
		&appsv1.StatefulSet{ObjectMeta: meta("db", "prod", nil)},
		&appsv1.Deployment{ObjectMeta: meta("web", "dev", nil)},
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		dim  model.Dimension
		opts ResolveOptions
		want string
	}{
		{"nodes sorted", model.DimensionNode, ResolveOptions{}, "node-1|node-2"},
		{"namespaces", model.DimensionNamespace, ResolveOptions{}, "dev|prod"},
		{"single namespace", model.DimensionNamespace, ResolveOptions{Namespace: "prod"}, "prod"},
		{"pods in namespace", model.DimensionPod, ResolveOptions{Namespace: "prod"}, "api-0|api-1"},
		{"pods by label", model.DimensionPod, ResolveOptions{LabelSelector: "app=api"}, "api-0|api-1|web-0"},
		{"containers deduplicated", model.DimensionContainer, ResolveOptions{Namespace: "prod"}, "app|sidecar"},
		{"services", model.DimensionService, ResolveOptions{}, "api"},
		{"ingress names quoted", model.DimensionIngress, ResolveOptions{}, `api\.example\.com`},
		{"workloads", model.DimensionWorkload, ResolveOptions{}, "Deployment:api|Deployment:web|StatefulSet:db"},
		{"workloads in namespace", model.DimensionWorkload, ResolveOptions{Namespace: "dev"}, "Deployment:web"},
		{"workload kinds", model.DimensionWorkloadKind, ResolveOptions{}, "Deployment|StatefulSet"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := fake.NewSimpleClientset(testObjects()...) //nolint:staticcheck // NewClientset requires generated apply configs
			got, err := Resolve(context.Background(), client, tt.dim, tt.opts)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolve_Empty(t *testing.T) {
	client := fake.NewSimpleClientset() //nolint:staticcheck // NewClientset requires generated apply configs
	got, err := Resolve(context.Background(), client, model.DimensionPod, ResolveOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty value, got %q", got)
	}
}

func TestResolve_Unsupported(t *testing.T) {
	client := fake.NewSimpleClientset() //nolint:staticcheck // NewClientset requires generated apply configs
	_, err := Resolve(context.Background(), client, model.DimensionCluster, ResolveOptions{})
	if !errors.Is(err, ErrUnsupportedDimension) {
		t.Errorf("expected ErrUnsupportedDimension, got %v", err)
	}
}

func TestResolveInto(t *testing.T) {
	client := fake.NewSimpleClientset(testObjects()...) //nolint:staticcheck // NewClientset requires generated apply configs
	c := &model.Context{ClusterID: "BCS-K8S-001", GroupBy: model.DimensionPod}

	err := ResolveInto(context.Background(), client, c,
		[]model.Dimension{model.DimensionPod, model.DimensionNamespace},
		ResolveOptions{Namespace: "prod"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Resource(model.DimensionPod) != "api-0|api-1" || c.Resource(model.DimensionNamespace) != "prod" {
		t.Errorf("got resources %v", c.Resources)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("resolved context should be valid: %v", err)
	}
}
