package generator

import (
	"strings"

	"github.com/guimove/scenequery/internal/model"
)

// Placeholders substituted by the query-execution layer, never by this package.
const (
	MethodPlaceholder    = "$method"
	IntervalPlaceholder  = "$interval"
	TimeShiftPlaceholder = "$time_shift"
)

// GroupingColumns returns the label columns a chart grouped by ctx.GroupBy aggregates on.
// They always agree with the matcher branch BuildSelector picks for the same options.
func GroupingColumns(ctx *model.Context, opts SelectorOptions) []string {
	switch ctx.GroupBy {
	case model.DimensionCluster:
		return []string{labelCluster}
	case model.DimensionPod:
		return []string{opts.podLabel()}
	case model.DimensionContainer:
		return []string{opts.podLabel(), opts.containerLabel()}
	case model.DimensionWorkload:
		return []string{labelWorkloadKind, labelWorkloadName}
	case model.DimensionIngress:
		return []string{labelIngress, labelNamespace}
	default:
		return []string{string(ctx.GroupBy)}
	}
}

// BuildAggregation returns the "$method by(...)" prefix for ctx.
func BuildAggregation(ctx *model.Context, opts SelectorOptions) string {
	return method(GroupingColumns(ctx, opts))
}

func method(cols []string) string { return MethodPlaceholder + " " + by(cols) }

func by(cols []string) string { return "by(" + strings.Join(cols, ",") + ")" }

// union returns the columns of every list in order, without duplicates.
func union(lists ...[]string) []string {
	var out []string
	seen := map[string]bool{}
	for _, l := range lists {
		for _, c := range l {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	return out
}

// without returns cols minus the excluded labels.
func without(cols []string, excluded ...string) []string {
	var out []string
	for _, c := range cols {
		skip := false
		for _, e := range excluded {
			if c == e {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, c)
		}
	}
	return out
}

func isWorkloadGrouping(ctx *model.Context) bool {
	return ctx.GroupBy == model.DimensionWorkload || ctx.GroupBy == model.DimensionWorkloadKind
}
