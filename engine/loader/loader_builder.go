package loader

import (
	"github.com/Carmen-Shannon/oxy-hexpick/engine/gpu"
	"github.com/Carmen-Shannon/oxy-hexpick/engine/mesh"
	"github.com/Carmen-Shannon/oxy-hexpick/engine/model"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithDevice is an option builder that makes the Loader upload every loaded model as a Mesh.
//
// Parameters:
//   - d: the device
//   - options: mesh options applied to every uploaded mesh
//
// Returns:
//   - LoaderBuilderOption: a function that applies the device option to a loader
func WithDevice(d gpu.Device, options ...mesh.MeshBuilderOption) LoaderBuilderOption {
	return func(l *loader) {
		l.device = d
		l.meshOptions = options
	}
}

// WithModel is an option builder that pre-populates the model cache with a model.
// Pre-populated models are never uploaded.
//
// Parameters:
//   - key: the cache key for the model
//   - model: the model to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the model option to a loader
func WithModel(key string, model model.Model) LoaderBuilderOption {
	return func(l *loader) {
		l.modelCache[key] = model
	}
}
