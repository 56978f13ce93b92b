package report

import (
	"context"
	"io"

	"github.com/guimove/scenequery/internal/model"
)

// Reporter formats and writes generated targets to an output destination.
type Reporter interface {
	Report(ctx context.Context, targets []model.Target, meta ReportMeta) error
}

// ReportMeta describes the request the targets were generated for.
type ReportMeta struct {
	Scene     model.Scene     `json:"scene"`
	Metric    string          `json:"metric"`
	ClusterID string          `json:"cluster_id"`
	GroupBy   model.Dimension `json:"group_by"`

	// Vector selectors read by each target, keyed by alias (nil unless requested)
	Selectors map[string][]string `json:"selectors,omitempty"`
}

// NewReporter creates a reporter for the given format writing to w.
func NewReporter(format string, w io.Writer) Reporter {
	switch format {
	case "json":
		return &JSONReporter{w: w}
	case "yaml":
		return &YAMLReporter{w: w}
	default:
		return &TableReporter{w: w}
	}
}

// output is the document written by the structured reporters.
type output struct {
	Meta    ReportMeta     `json:"meta"`
	Targets []model.Target `json:"targets"`
}
