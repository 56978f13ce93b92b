package report

import (
	"context"
	"fmt"
	"io"

	"sigs.k8s.io/yaml"

	"github.com/guimove/scenequery/internal/model"
)

// YAMLReporter outputs targets as YAML, with the same field names as JSON.
type YAMLReporter struct {
	w io.Writer
}

func (r *YAMLReporter) Report(ctx context.Context, targets []model.Target, meta ReportMeta) error {
	data, err := yaml.Marshal(output{Meta: meta, Targets: nonNil(targets)})
	if err != nil {
		return fmt.Errorf("encoding YAML output: %w", err)
	}
	if _, err := r.w.Write(data); err != nil {
		return fmt.Errorf("writing YAML output: %w", err)
	}
	return nil
}
