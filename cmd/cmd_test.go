package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/guimove/scenequery/internal/model"
)

func TestParseResources(t *testing.T) {
	got, err := parseResources([]string{"node=node-1|node-2", " Namespace = prod", "workload=Deployment:api,x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[model.Dimension]string{
		model.DimensionNode:      "node-1|node-2",
		model.DimensionNamespace: "prod",
		model.DimensionWorkload:  "Deployment:api,x",
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s: got %q, want %q", k, got[k], v)
		}
	}

	if _, err := parseResources([]string{"node"}); err == nil {
		t.Error("expected error for missing '='")
	}
	if _, err := parseResources([]string{"deployment=api"}); !errors.Is(err, model.ErrUnknownDimension) {
		t.Errorf("expected ErrUnknownDimension, got %v", err)
	}
}

func TestParseFilters(t *testing.T) {
	got, err := parseFilters([]string{"service=api, web", "service=db", "namespace="})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s := strings.Join(got[model.DimensionService], ","); s != "api,web,db" {
		t.Errorf("service filters: got %q", s)
	}
	if len(got[model.DimensionNamespace]) != 0 {
		t.Errorf("blank filter should be dropped, got %q", got[model.DimensionNamespace])
	}

	if _, err := parseFilters([]string{"service"}); err == nil {
		t.Error("expected error for missing '='")
	}
}

func TestParseDimensions(t *testing.T) {
	got, err := parseDimensions([]string{"pod", "Workload"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != model.DimensionPod || got[1] != model.DimensionWorkload {
		t.Errorf("got %v", got)
	}
	if _, err := parseDimensions([]string{"cronjob"}); err == nil {
		t.Error("expected error for unknown dimension")
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestGenerateCommand(t *testing.T) {
	out, err := run(t, "generate",
		"--scene", "capacity",
		"--metric", "node_cpu_usage_ratio",
		"--cluster-id", "BCS-K8S-001",
		"--group-by", "node",
		"--resource", "node=node-1|node-2",
		"--aux=false",
		"-o", "json")
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, out)
	}

	var doc struct {
		Targets []model.Target `json:"targets"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(doc.Targets) != 1 {
		t.Fatalf("targets: got %d, want 1", len(doc.Targets))
	}
	promql := doc.Targets[0].PromQL()
	for _, want := range []string{`bcs_cluster_id="BCS-K8S-001"`, `node=~"^(node-1|node-2)$"`} {
		if !strings.Contains(promql, want) {
			t.Errorf("expression %q does not contain %q", promql, want)
		}
	}
	if strings.Contains(promql, "workload_kind") {
		t.Errorf("expression %q should not reference workload_kind", promql)
	}
}

func TestMetricsCommand(t *testing.T) {
	out, err := run(t, "metrics", "capacity")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "* node_cpu_seconds_total") {
		t.Errorf("expected node_cpu_seconds_total marked with reference lines:\n%s", out)
	}
	if strings.Contains(out, "container_cpu_usage_seconds_total") {
		t.Errorf("performance metrics listed for capacity:\n%s", out)
	}
}
