package generator

import (
	"sync"

	"github.com/guimove/scenequery/internal/model"
)

// Factory hands out one generator per scene, built on first use.
type Factory struct {
	mu        sync.Mutex
	instances map[model.Scene]Generator
}

// NewFactory returns an empty factory.
func NewFactory() *Factory {
	return &Factory{instances: make(map[model.Scene]Generator)}
}

// Get returns the cached generator for scene. Unknown scenes get the performance generator.
func (f *Factory) Get(scene model.Scene) Generator {
	switch scene {
	case model.ScenePerformance, model.SceneNetwork, model.SceneCapacity:
	default:
		scene = model.ScenePerformance
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if g, ok := f.instances[scene]; ok {
		return g
	}

	var g Generator
	switch scene {
	case model.SceneNetwork:
		g = NewNetwork()
	case model.SceneCapacity:
		g = NewCapacity()
	default:
		g = NewPerformance()
	}
	f.instances[scene] = g
	return g
}

// Clear drops every cached generator.
func (f *Factory) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.instances = make(map[model.Scene]Generator)
}

var defaultFactory = NewFactory()

// GetInstance returns the process-wide generator for scene.
func GetInstance(scene model.Scene) Generator { return defaultFactory.Get(scene) }

// ClearInstances resets the process-wide cache.
func ClearInstances() { defaultFactory.Clear() }
