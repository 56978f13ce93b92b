package report

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/guimove/scenequery/internal/model"
)

// TableReporter outputs targets as a terminal listing.
type TableReporter struct {
	w io.Writer
}

func (r *TableReporter) Report(ctx context.Context, targets []model.Target, meta ReportMeta) error {
	// Header
	fmt.Fprintf(r.w, "\n")
	fmt.Fprintf(r.w, "Scene:     %s\n", meta.Scene)
	fmt.Fprintf(r.w, "Metric:    %s\n", meta.Metric)
	fmt.Fprintf(r.w, "Cluster:   %s\n", meta.ClusterID)
	fmt.Fprintf(r.w, "Group by:  %s\n", meta.GroupBy)
	fmt.Fprintf(r.w, "%s\n\n", strings.Repeat("=", 60))

	if len(targets) == 0 {
		fmt.Fprintf(r.w, "No targets generated.\n")
		return nil
	}

	fmt.Fprintf(r.w, "%-10s %-18s %s\n", "Alias", "Interval", "PromQL")
	fmt.Fprintf(r.w, "%s\n", strings.Repeat("-", 100))

	for _, t := range targets {
		for _, qc := range t.Data.QueryConfigs {
			fmt.Fprintf(r.w, "%-10s %-18s %s\n", qc.Alias, qc.Interval, qc.PromQL)
			for _, sel := range meta.Selectors[qc.Alias] {
				fmt.Fprintf(r.w, "%-10s %-18s   reads %s\n", "", "", sel)
			}
		}
	}

	fmt.Fprintf(r.w, "%s\n\n", strings.Repeat("-", 100))
	return nil
}
