package server

import "github.com/guimove/scenequery/internal/model"

// TargetsRequest is the body of POST /api/v1/targets.
type TargetsRequest struct {
	Scene             string         `json:"scene" binding:"required"`
	Metric            string         `json:"metric" binding:"required"`
	Context           *model.Context `json:"context" binding:"required"`
	NeedAuxiliaryLine bool           `json:"need_auxiliary_line"`
}

// TargetsResponse carries the generated panel targets.
type TargetsResponse struct {
	Targets []model.Target `json:"targets"`
}

// Metric describes one metric a scene can generate.
type Metric struct {
	Name           string `json:"name"`
	AuxiliaryLines bool   `json:"auxiliary_lines"`
}

// SceneMetrics lists the metrics of a scene.
type SceneMetrics struct {
	Scene   model.Scene `json:"scene"`
	Metrics []Metric    `json:"metrics"`
}
