package generator

import (
	"strings"

	"github.com/prometheus/prometheus/promql/parser"
)

// sampleValues stands in for the placeholders so an expression can be parsed.
// Longer tokens come first: Replacer tries the pairs in argument order.
var sampleValues = strings.NewReplacer(
	"$interval_second", "60",
	IntervalPlaceholder, "1m",
	TimeShiftPlaceholder, "",
	MethodPlaceholder, "sum",
)

// Parse parses expr with sample values in place of the placeholders.
func Parse(expr string) (parser.Expr, error) {
	return parser.ParseExpr(sampleValues.Replace(expr))
}

// Selectors returns the vector selectors expr reads, in the order they appear.
func Selectors(expr string) ([]string, error) {
	e, err := Parse(expr)
	if err != nil {
		return nil, err
	}
	var selectors []string
	parser.Inspect(e, func(node parser.Node, _ []parser.Node) error {
		if vs, ok := node.(*parser.VectorSelector); ok {
			selectors = append(selectors, vs.String())
		}
		return nil
	})
	return selectors, nil
}
