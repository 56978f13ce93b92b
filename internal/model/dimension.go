package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownDimension = errors.New("unknown dimension")
	ErrUnknownScene     = errors.New("unknown scene")
)

// Dimension is a resource axis a chart can be grouped or filtered by.
type Dimension string

const (
	DimensionCluster      Dimension = "cluster"
	DimensionNode         Dimension = "node"
	DimensionPod          Dimension = "pod"
	DimensionContainer    Dimension = "container"
	DimensionWorkload     Dimension = "workload"
	DimensionWorkloadKind Dimension = "workload_kind"
	DimensionNamespace    Dimension = "namespace"
	DimensionService      Dimension = "service"
	DimensionIngress      Dimension = "ingress"
)

// Dimensions lists every known dimension.
var Dimensions = []Dimension{
	DimensionCluster,
	DimensionNode,
	DimensionPod,
	DimensionContainer,
	DimensionWorkload,
	DimensionWorkloadKind,
	DimensionNamespace,
	DimensionService,
	DimensionIngress,
}

// ParseDimension accepts a dimension name case-insensitively.
func ParseDimension(s string) (Dimension, error) {
	d := Dimension(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Dimensions {
		if d == known {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDimension, s)
}

// Scene is a named bundle of related metrics sharing formula conventions.
type Scene string

const (
	ScenePerformance Scene = "performance"
	SceneNetwork     Scene = "network"
	SceneCapacity    Scene = "capacity"
)

// Scenes lists every known scene.
var Scenes = []Scene{ScenePerformance, SceneNetwork, SceneCapacity}

// ParseScene accepts a scene name case-insensitively.
func ParseScene(s string) (Scene, error) {
	sc := Scene(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Scenes {
		if sc == known {
			return sc, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownScene, s)
}
