package generator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/guimove/scenequery/internal/model"
)

const (
	outcomeOK             = "ok"
	outcomeInvalidContext = "invalid_context"
	outcomeUnknownMetric  = "unknown_metric"
)

// GeneratedExpressions counts Generate calls per scene and outcome.
var GeneratedExpressions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "scenequery_generated_expressions_total",
	Help: "Generate calls by scene and outcome (ok, invalid_context, unknown_metric).",
}, []string{"scene", "outcome"})

func observe(scene model.Scene, outcome string) {
	GeneratedExpressions.WithLabelValues(string(scene), outcome).Inc()
}
