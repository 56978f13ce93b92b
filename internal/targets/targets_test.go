package targets

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guimove/scenequery/internal/generator"
	"github.com/guimove/scenequery/internal/model"
)

func nodeContext() *model.Context {
	return &model.Context{
		ClusterID: "BCS-K8S-001",
		GroupBy:   model.DimensionNode,
		Resources: map[model.Dimension]string{model.DimensionNode: "node-1|node-2"},
	}
}

func podContext() *model.Context {
	return &model.Context{
		ClusterID: "BCS-K8S-001",
		GroupBy:   model.DimensionPod,
		Resources: map[model.Dimension]string{
			model.DimensionPod:       "api-0|api-1",
			model.DimensionNamespace: "prod",
		},
	}
}

func testBuilder() *Builder {
	b := NewBuilder("", "")
	b.Factory = generator.NewFactory()
	return b
}

func aliases(targets []model.Target) []string {
	var out []string
	for _, t := range targets {
		out = append(out, t.Alias())
	}
	return out
}

func TestNewBuilder_Defaults(t *testing.T) {
	b := NewBuilder("", "")
	assert.Equal(t, DefaultAPI, b.API)
	assert.Equal(t, model.DefaultInterval, b.Interval)

	b = NewBuilder("custom.api", "30")
	assert.Equal(t, "custom.api", b.API)
	assert.Equal(t, "30", b.Interval)
}

func TestCreateTargetsPanelList(t *testing.T) {
	tests := []struct {
		name   string
		scene  model.Scene
		metric string
		ctx    *model.Context
		aux    bool
		want   []string
	}{
		{"node cpu with reference lines", model.SceneCapacity, "node_cpu_seconds_total", nodeContext(), true, []string{"A", "limit", "request", "capacity"}},
		{"node cpu without reference lines", model.SceneCapacity, "node_cpu_seconds_total", nodeContext(), false, []string{"A"}},
		{"node memory with reference lines", model.SceneCapacity, "node_memory_working_set_bytes", nodeContext(), true, []string{"A", "limit", "request", "capacity"}},
		{"container cpu with reference lines", model.ScenePerformance, "container_cpu_usage_seconds_total", podContext(), true, []string{"A", "limit", "request"}},
		{"container memory with reference lines", model.ScenePerformance, "container_memory_working_set_bytes", podContext(), true, []string{"A", "limit", "request"}},
		{"metric without reference lines", model.ScenePerformance, "container_memory_rss", podContext(), true, []string{"A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := testBuilder().CreateTargetsPanelList(tt.scene, tt.metric, tt.ctx, tt.aux)
			require.Len(t, got, len(tt.want))
			assert.Equal(t, tt.want, aliases(got))

			for _, target := range got {
				assert.Equal(t, DefaultAPI, target.API)
				assert.Equal(t, model.PrimaryAlias, target.Data.Expression)
				assert.Equal(t, model.DefaultInterval, target.Data.QueryConfigs[0].Interval)
				_, err := generator.Parse(target.PromQL())
				assert.NoError(t, err, target.PromQL())
			}
		})
	}
}

func TestCreateTargetsPanelList_PrimaryMatchesGenerator(t *testing.T) {
	b := testBuilder()
	got := b.CreateTargetsPanelList(model.SceneCapacity, "node_cpu_seconds_total", nodeContext(), true)
	require.NotEmpty(t, got)

	want := generator.NewCapacity().Generate("node_cpu_seconds_total", nodeContext())
	assert.Equal(t, want, got[0].PromQL())
}

func TestCreateTargetsPanelList_ReferenceLines(t *testing.T) {
	got := testBuilder().CreateTargetsPanelList(model.SceneCapacity, "node_cpu_seconds_total", nodeContext(), true)
	require.Len(t, got, 4)

	assert.Contains(t, got[1].PromQL(), "kube_pod_container_resource_limits{")
	assert.Contains(t, got[2].PromQL(), "kube_pod_container_resource_requests{")
	assert.Contains(t, got[3].PromQL(), "kube_node_status_allocatable{")
	for _, target := range got[1:] {
		assert.Contains(t, target.PromQL(), `resource="cpu"`)
		assert.Contains(t, target.PromQL(), "$method by(node)(")
	}
}

func TestCreateTargetsPanelList_NoExpression(t *testing.T) {
	b := testBuilder()
	assert.Nil(t, b.CreateTargetsPanelList(model.SceneCapacity, "does_not_exist", nodeContext(), true))
	assert.Nil(t, b.CreateTargetsPanelList(model.SceneCapacity, "node_cpu_seconds_total", nil, true))

	invalid := nodeContext()
	invalid.ClusterID = ""
	assert.Nil(t, b.CreateTargetsPanelList(model.SceneCapacity, "node_cpu_seconds_total", invalid, true))
}

func TestCreateTargetsPanelList_UnknownSceneIsPerformance(t *testing.T) {
	got := testBuilder().CreateTargetsPanelList(model.Scene("storage"), "container_cpu_usage_seconds_total", podContext(), false)
	require.Len(t, got, 1)
	assert.Contains(t, got[0].PromQL(), "container_cpu_usage_seconds_total{")
}

func TestAuxiliaryLines(t *testing.T) {
	assert.True(t, HasAuxiliaryLines("node_cpu_seconds_total"))
	assert.False(t, HasAuxiliaryLines("container_memory_rss"))
	assert.Nil(t, AuxiliaryLines("container_memory_rss", podContext()))
	assert.Nil(t, AuxiliaryLines("node_cpu_seconds_total", &model.Context{GroupBy: model.DimensionNode}))

	lines := AuxiliaryLines("container_memory_working_set_bytes", podContext())
	require.Len(t, lines, 2)
	assert.Equal(t, AliasLimit, lines[0].Alias)
	assert.Equal(t, AliasRequest, lines[1].Alias)
	assert.Contains(t, lines[0].PromQL, `resource="memory"`)
}

func TestTargetJSON(t *testing.T) {
	got := testBuilder().CreateTargetsPanelList(model.SceneCapacity, "node_cpu_seconds_total", nodeContext(), false)
	require.Len(t, got, 1)

	data, err := json.Marshal(got[0])
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "time_series", raw["datasource"])
	assert.Equal(t, "time_series", raw["data_type"])
	assert.Equal(t, DefaultAPI, raw["api"])

	body := raw["data"].(map[string]any)
	assert.Equal(t, "A", body["expression"])
	configs := body["query_configs"].([]any)
	require.Len(t, configs, 1)
	qc := configs[0].(map[string]any)
	assert.Equal(t, "prometheus", qc["data_source_label"])
	assert.Equal(t, "time_series", qc["data_type_label"])
	assert.Equal(t, "$interval_second", qc["interval"])
	assert.Equal(t, "A", qc["alias"])
	assert.Equal(t, map[string]any{}, qc["filter_dict"])
	assert.NotEmpty(t, qc["promql"])
}

func TestTargetJSON_ReferenceLine(t *testing.T) {
	got := testBuilder().CreateTargetsPanelList(model.SceneCapacity, "node_cpu_seconds_total", nodeContext(), true)
	require.Len(t, got, 4)

	data, err := json.Marshal(got[3])
	require.NoError(t, err)

	var raw struct {
		Data struct {
			Expression   string `json:"expression"`
			QueryConfigs []struct {
				Alias string `json:"alias"`
			} `json:"query_configs"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "A", raw.Data.Expression)
	require.Len(t, raw.Data.QueryConfigs, 1)
	assert.Equal(t, AliasCapacity, raw.Data.QueryConfigs[0].Alias)
}
