package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/guimove/scenequery/internal/model"
)

// JSONReporter outputs targets as JSON.
type JSONReporter struct {
	w io.Writer
}

func (r *JSONReporter) Report(ctx context.Context, targets []model.Target, meta ReportMeta) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(output{Meta: meta, Targets: nonNil(targets)}); err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}
	return nil
}

// nonNil keeps "no targets" an empty list rather than null.
func nonNil(targets []model.Target) []model.Target {
	if targets == nil {
		return []model.Target{}
	}
	return targets
}
