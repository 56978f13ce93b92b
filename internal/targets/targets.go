// Package targets wraps generated expressions into the target objects the charting
// subsystem hands to the query-execution layer.
package targets

import (
	"github.com/guimove/scenequery/internal/generator"
	"github.com/guimove/scenequery/internal/logging"
	"github.com/guimove/scenequery/internal/model"
)

var log = logging.Log()

// DefaultAPI is the execution endpoint targets are addressed to unless configured.
const DefaultAPI = "grafana.graphUnifyQuery"

// Builder creates panel targets.
type Builder struct {
	// API identifies the execution endpoint.
	API string

	// Interval is the interval placeholder of every query config.
	Interval string

	// Factory resolves scenes to generators. Nil uses the process-wide factory.
	Factory *generator.Factory
}

// NewBuilder returns a Builder using the process-wide generator cache.
func NewBuilder(api, interval string) *Builder {
	if api == "" {
		api = DefaultAPI
	}
	if interval == "" {
		interval = model.DefaultInterval
	}
	return &Builder{API: api, Interval: interval}
}

func (b *Builder) generatorFor(scene model.Scene) generator.Generator {
	if b.Factory != nil {
		return b.Factory.Get(scene)
	}
	return generator.GetInstance(scene)
}

// CreateTargetsPanelList returns the primary target for metric, aliased "A", followed
// by the metric's reference lines when needAuxiliaryLine is set. It returns nil when
// no expression can be generated.
func (b *Builder) CreateTargetsPanelList(scene model.Scene, metric string, ctx *model.Context, needAuxiliaryLine bool) []model.Target {
	promql := b.generatorFor(scene).Generate(metric, ctx)
	if promql == "" {
		log.V(1).Info("no expression, no targets", "scene", scene, "metric", metric)
		return nil
	}

	targets := []model.Target{model.NewTarget(b.API, b.Interval, model.PrimaryAlias, promql)}
	if !needAuxiliaryLine {
		return targets
	}
	for _, line := range AuxiliaryLines(metric, ctx) {
		targets = append(targets, model.NewTarget(b.API, b.Interval, line.Alias, line.PromQL))
	}
	return targets
}
