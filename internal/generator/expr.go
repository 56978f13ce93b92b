package generator

import (
	"fmt"
	"strings"

	"github.com/prometheus/prometheus/model/labels"
)

// match renders a constant matcher. Values are literals of this package.
func match(t labels.MatchType, name, value string) string {
	return labels.MustNewMatcher(t, name, value).String()
}

func eq(name, value string) string { return match(labels.MatchEqual, name, value) }

// selector joins matcher fragments into braces, skipping empty ones.
func selector(parts ...string) string {
	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return "{" + strings.Join(nonEmpty, ",") + "}"
}

// instant is a shifted instant vector: metric{...} $time_shift
func instant(metric string, matchers ...string) string {
	return metric + selector(matchers...) + " " + TimeShiftPlaceholder
}

// ranged applies fn over a shifted range: fn(metric{...}[$interval] $time_shift)
func ranged(fn, metric string, matchers ...string) string {
	return fmt.Sprintf("%s(%s%s[%s] %s)", fn, metric, selector(matchers...), IntervalPlaceholder, TimeShiftPlaceholder)
}

func rate(metric string, matchers ...string) string { return ranged("rate", metric, matchers...) }

func increase(metric string, matchers ...string) string {
	return ranged("increase", metric, matchers...)
}

// sumBy renders sum by(cols)(expr).
func sumBy(cols []string, expr string) string { return "sum " + by(cols) + "(" + expr + ")" }

// reduce wraps expr with the caller-chosen reducer grouped on cols.
func reduce(cols []string, expr string) string { return method(cols) + "(" + expr + ")" }

// percent renders numerator / denominator * 100.
func percent(numerator, denominator string) string {
	return numerator + " / " + denominator + " * 100"
}
