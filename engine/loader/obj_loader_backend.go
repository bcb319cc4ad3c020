package loader

import (
	"io"
	"os"

	"github.com/Carmen-Shannon/oxy-hexpick/engine/model"
)

// objLoaderBackendImpl is the implementation of objLoaderBackend.
type objLoaderBackendImpl struct{}

// objLoaderBackend is a loaderBackend implementation for Wavefront OBJ files.
type objLoaderBackend interface {
	loaderBackend
}

var _ objLoaderBackend = &objLoaderBackendImpl{}

// newOBJLoaderBackend creates a new OBJ loader backend.
//
// Returns:
//   - objLoaderBackend: the loader backend for OBJ files
func newOBJLoaderBackend() objLoaderBackend {
	return &objLoaderBackendImpl{}
}

func (b *objLoaderBackendImpl) Load(path string) (model.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return model.ParseOBJ(path, f)
}

func (b *objLoaderBackendImpl) LoadReader(name string, r io.Reader) (model.Model, error) {
	return model.ParseOBJ(name, r)
}
