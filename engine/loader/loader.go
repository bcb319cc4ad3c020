package loader

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-hexpick/common"
	"github.com/Carmen-Shannon/oxy-hexpick/engine/gpu"
	"github.com/Carmen-Shannon/oxy-hexpick/engine/mesh"
	"github.com/Carmen-Shannon/oxy-hexpick/engine/model"
)

// LoaderBackendType identifies the model file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeOBJ selects the Wavefront OBJ loader backend.
	BackendTypeOBJ LoaderBackendType = iota
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	device      gpu.Device
	meshOptions []mesh.MeshBuilderOption

	modelCache map[string]model.Model
	meshCache  map[string]mesh.Mesh

	backend loaderBackend
}

// Loader defines the public-facing interface for loading and caching models.
// It abstracts the file format behind a backend and manages a cache of previously loaded models.
// When a device is configured, every loaded model is also uploaded as a Mesh; uploads happen on the
// calling goroutine, which must own the graphics context.
type Loader interface {
	// Load imports a model file and caches the result.
	// If the model is already cached (by file path), the cached version is returned.
	// The backend is selected based on the file extension (.obj).
	//
	// Parameters:
	//   - path: the file path to the model file
	//
	// Returns:
	//   - model.Model: the loaded and cached model
	//   - error: a model parse asset error, or a wrapped I/O or device error
	Load(path string) (model.Model, error)

	// LoadReader imports a model from a reader stream and caches it by the given name.
	//
	// Parameters:
	//   - name: the cache key for the loaded model
	//   - r: the reader providing model data
	//
	// Returns:
	//   - model.Model: the loaded model
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader) (model.Model, error)

	// Get retrieves a cached model by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - model.Model: the cached model or nil
	Get(name string) model.Model

	// Mesh retrieves the uploaded mesh for a cached model. Returns nil if not found or no device is configured.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - mesh.Mesh: the mesh or nil
	Mesh(name string) mesh.Mesh

	// Models returns a copy of the model cache.
	//
	// Returns:
	//   - map[string]model.Model: all cached models keyed by name
	Models() map[string]model.Model

	// Close releases every uploaded mesh and empties both caches.
	Close()
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeOBJ)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:         sync.RWMutex{},
		modelCache: make(map[string]model.Model),
		meshCache:  make(map[string]mesh.Mesh),
	}

	switch backendType {
	case BackendTypeOBJ:
		l.backend = newOBJLoaderBackend()
	}

	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) Load(path string) (model.Model, error) {
	l.mu.RLock()
	if cached, ok := l.modelCache[path]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil, err
	}

	m, err := backend.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loader: failed to load %s: %w", path, err)
	}
	return l.store(path, m)
}

func (l *loader) LoadReader(name string, r io.Reader) (model.Model, error) {
	l.mu.RLock()
	if cached, ok := l.modelCache[name]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	m, err := l.backend.LoadReader(name, r)
	if err != nil {
		return nil, fmt.Errorf("loader: failed to load from reader %q: %w", name, err)
	}
	return l.store(name, m)
}

func (l *loader) Get(name string) model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.modelCache[name]
}

func (l *loader) Mesh(name string) mesh.Mesh {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.meshCache[name]
}

func (l *loader) Models() map[string]model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]model.Model, len(l.modelCache))
	for k, v := range l.modelCache {
		result[k] = v
	}
	return result
}

func (l *loader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.meshCache {
		m.Close()
	}
	l.meshCache = make(map[string]mesh.Mesh)
	l.modelCache = make(map[string]model.Model)
}

// store uploads m when a device is configured and caches it under key.
func (l *loader) store(key string, m model.Model) (model.Model, error) {
	var msh mesh.Mesh
	if l.device != nil {
		var err error
		if msh, err = UploadModel(l.device, m, l.meshOptions...); err != nil {
			return nil, fmt.Errorf("loader: failed to upload %s: %w", key, err)
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if cached, ok := l.modelCache[key]; ok {
		// another caller finished first
		if msh != nil {
			msh.Close()
		}
		return cached, nil
	}
	l.modelCache[key] = m
	if msh != nil {
		l.meshCache[key] = msh
	}
	common.Logger().Info("loader: model loaded", "name", key, "faces", m.FaceCount(), "uploaded", msh != nil)
	return m, nil
}

// resolveBackend selects an appropriate loader backend based on the file extension.
// Currently only OBJ is supported.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".obj":
		return l.backend, nil
	default:
		return nil, fmt.Errorf("loader: unsupported model format: %s", ext)
	}
}

// UploadModel creates a Mesh from a model's built positions and, when present, its texture coordinates.
//
// Parameters:
//   - d: the device to upload to
//   - m: the model
//   - options: mesh options, e.g. attribute names matching the drawing program
//
// Returns:
//   - mesh.Mesh: the uploaded mesh, owned by the caller
//   - error: an error if the upload is rejected; no buffers are leaked
func UploadModel(d gpu.Device, m model.Model, options ...mesh.MeshBuilderOption) (mesh.Mesh, error) {
	msh := mesh.NewMesh(d, options...)
	if err := msh.Init(m.Build()); err != nil {
		msh.Close()
		return nil, err
	}
	if len(m.TexCoords()) > 0 {
		if err := msh.SetTexCoords(m.BuildTexCoords()); err != nil {
			msh.Close()
			return nil, err
		}
	}
	return msh, nil
}
