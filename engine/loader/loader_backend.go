package loader

import (
	"io"

	"github.com/Carmen-Shannon/oxy-hexpick/engine/model"
)

// loaderBackend defines the generic interface for loading models from files or streams.
// Concrete implementations (e.g., objLoaderBackendImpl) handle format-specific details.
type loaderBackend interface {
	// Load performs a full model import from the given file path.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - model.Model: the imported model, named after path
	//   - error: error if loading fails
	Load(path string) (model.Model, error)

	// LoadReader imports a model from a reader stream.
	//
	// Parameters:
	//   - name: the model name used in errors and as Model.Name
	//   - r: the reader providing model data
	//
	// Returns:
	//   - model.Model: the imported model
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader) (model.Model, error)
}
