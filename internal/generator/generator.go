// Package generator turns a scene, a metric name and a chart context into a PromQL
// expression. Expressions keep the $method, $interval and $time_shift placeholders
// for the query-execution layer to substitute.
package generator

import (
	"sort"

	"github.com/guimove/scenequery/internal/logging"
	"github.com/guimove/scenequery/internal/model"
)

var log = logging.Log()

// Generator maps the metrics of one scene to PromQL expressions.
type Generator interface {
	// Scene returns the scene served by the generator.
	Scene() model.Scene

	// Generate returns the expression for metric, or "" when ctx is invalid or the
	// metric is unknown to the scene. Equal inputs give identical output.
	Generate(metric string, ctx *model.Context) string

	// Metrics lists the metric names the scene knows, sorted.
	Metrics() []string
}

// formula builds the expression of one metric from a validated context.
type formula func(ctx *model.Context) string

// generate is the path shared by every scene: validate, look up, build.
func generate(scene model.Scene, formulas map[string]formula, metric string, ctx *model.Context) string {
	if err := CheckContext(ctx); err != nil {
		log.V(1).Info("invalid context, no expression generated", "scene", scene, "metric", metric, "reason", err.Error())
		observe(scene, outcomeInvalidContext)
		return ""
	}

	f, ok := formulas[metric]
	if !ok {
		log.V(1).Info("unknown metric for scene", "scene", scene, "metric", metric)
		observe(scene, outcomeUnknownMetric)
		return ""
	}

	observe(scene, outcomeOK)
	return f(ctx)
}

func metricNames(formulas map[string]formula) []string {
	names := make([]string, 0, len(formulas))
	for name := range formulas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
