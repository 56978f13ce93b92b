package generator

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guimove/scenequery/internal/model"
)

func allGenerators() []Generator {
	return []Generator{NewPerformance(), NewNetwork(), NewCapacity()}
}

// Every metric of every scene must be valid PromQL once placeholders are filled in.
func TestGenerate_AllMetricsParse(t *testing.T) {
	for _, g := range allGenerators() {
		for _, metric := range g.Metrics() {
			for _, d := range model.Dimensions {
				ctx := fullContext(d)
				expr := g.Generate(metric, ctx)
				require.NotEmpty(t, expr, "%s %s by %s", g.Scene(), metric, d)

				_, err := Parse(expr)
				assert.NoError(t, err, "%s %s by %s:\n%s", g.Scene(), metric, d, expr)
				assert.Contains(t, expr, `bcs_cluster_id="BCS-K8S-001"`)
			}
		}
	}
}

func TestGenerate_InvalidContext(t *testing.T) {
	contexts := map[string]*model.Context{
		"nil":              nil,
		"no group by":      {ClusterID: testCluster, Resources: map[model.Dimension]string{model.DimensionPod: "a"}},
		"no resources":     {ClusterID: testCluster, GroupBy: model.DimensionPod},
		"group unresolved": testContext(model.DimensionPod, map[model.Dimension]string{model.DimensionNode: "n"}),
		"blank resolved":   testContext(model.DimensionPod, map[model.Dimension]string{model.DimensionPod: "  "}),
		"no cluster": {
			GroupBy:   model.DimensionPod,
			Resources: map[model.Dimension]string{model.DimensionPod: "a"},
		},
		"bad regex": testContext(model.DimensionPod, map[model.Dimension]string{model.DimensionPod: "a)"}),
	}

	for _, g := range allGenerators() {
		for name, ctx := range contexts {
			for _, metric := range g.Metrics() {
				assert.Empty(t, g.Generate(metric, ctx), "%s %s with %s", g.Scene(), metric, name)
			}
		}
	}
}

func TestGenerate_UnknownMetric(t *testing.T) {
	for _, g := range allGenerators() {
		assert.Empty(t, g.Generate("does_not_exist", fullContext(model.DimensionPod)))
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	for _, g := range allGenerators() {
		for _, metric := range g.Metrics() {
			ctx := fullContext(model.DimensionWorkload)
			ctx.Filters = map[model.Dimension][]string{model.DimensionService: {"a", "b"}}
			assert.Equal(t, g.Generate(metric, ctx), g.Generate(metric, ctx))
		}
	}
}

func TestGenerate_DoesNotModifyContext(t *testing.T) {
	ctx := fullContext(model.DimensionPod)
	before := fullContext(model.DimensionPod)
	for _, g := range allGenerators() {
		for _, metric := range g.Metrics() {
			g.Generate(metric, ctx)
		}
	}
	assert.Equal(t, before, ctx)
}

func TestGenerate_CountsOutcomes(t *testing.T) {
	ok := GeneratedExpressions.WithLabelValues(string(model.SceneCapacity), outcomeOK)
	unknown := GeneratedExpressions.WithLabelValues(string(model.SceneCapacity), outcomeUnknownMetric)
	invalid := GeneratedExpressions.WithLabelValues(string(model.SceneCapacity), outcomeInvalidContext)
	okBefore, unknownBefore, invalidBefore := testutil.ToFloat64(ok), testutil.ToFloat64(unknown), testutil.ToFloat64(invalid)

	c := NewCapacity()
	c.Generate("node_cpu_usage_ratio", nodeContext())
	c.Generate("does_not_exist", nodeContext())
	c.Generate("node_cpu_usage_ratio", nil)

	assert.Equal(t, okBefore+1, testutil.ToFloat64(ok))
	assert.Equal(t, unknownBefore+1, testutil.ToFloat64(unknown))
	assert.Equal(t, invalidBefore+1, testutil.ToFloat64(invalid))
}

func TestMetrics_Sorted(t *testing.T) {
	for _, g := range allGenerators() {
		assert.IsNonDecreasing(t, g.Metrics())
		assert.NotEmpty(t, g.Metrics())
	}
}

func TestFactory(t *testing.T) {
	f := NewFactory()

	perf := f.Get(model.ScenePerformance)
	assert.Same(t, perf, f.Get(model.ScenePerformance))
	assert.Equal(t, model.SceneNetwork, f.Get(model.SceneNetwork).Scene())
	assert.Equal(t, model.SceneCapacity, f.Get(model.SceneCapacity).Scene())

	// Unknown scenes fall back to the cached performance generator.
	assert.Same(t, perf, f.Get(model.Scene("storage")))

	f.Clear()
	again := f.Get(model.ScenePerformance)
	assert.NotSame(t, perf, again)
	assert.Equal(t, model.ScenePerformance, again.Scene())
}

func TestFactory_Concurrent(t *testing.T) {
	f := NewFactory()
	var wg sync.WaitGroup
	got := make([]Generator, 16)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = f.Get(model.SceneNetwork)
		}(i)
	}
	wg.Wait()
	for _, g := range got {
		assert.Same(t, got[0], g)
	}
}

func TestGetInstance(t *testing.T) {
	ClearInstances()
	g := GetInstance(model.SceneCapacity)
	assert.Same(t, g, GetInstance(model.SceneCapacity))
	ClearInstances()
	assert.NotSame(t, g, GetInstance(model.SceneCapacity))
}

func TestSelectors(t *testing.T) {
	expr := NewCapacity().Generate("node_cpu_seconds_total", nodeContext())

	got, err := Selectors(expr)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Contains(t, got[0], "node_cpu_seconds_total{")
	assert.Contains(t, got[0], `mode!="idle"`)
	assert.Contains(t, got[0], `node=~"^(node-1|node-2)$"`)

	_, err = Selectors("sum(")
	assert.Error(t, err)
}
