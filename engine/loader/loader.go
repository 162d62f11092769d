package loader

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/Carmen-Shannon/oxy-shade/engine/model"
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	documents map[string]*gltfDocument

	meshOptions   []model.MeshBuilderOption
	boneTextures  bool
	morphTextures bool
}

// Loader imports glTF 2.0 assets (.gltf JSON or .glb containers) as configured meshes: the
// vertex buffers each primitive declares, the skin as a Skeleton with its influencer count,
// and the morph targets with their morphed channels. Vertex data itself is not uploaded; the
// meshes carry what the define deriver and binder read.
//
// Parsed documents are cached by path or name. Every Load call builds new meshes.
type Loader interface {
	// Load imports the asset at path. External buffers are resolved next to the file.
	//
	// Parameters:
	//   - path: the .gltf or .glb file
	//
	// Returns:
	//   - []model.Mesh: one mesh per node referencing a glTF mesh, in node order
	//   - error: error if reading or decoding fails
	Load(path string) ([]model.Mesh, error)

	// LoadReader imports an asset from r and caches the parsed document under name. External
	// buffers are resolved against the working directory.
	//
	// Parameters:
	//   - name: the cache key
	//   - r: the reader providing glTF JSON or GLB data
	//
	// Returns:
	//   - []model.Mesh: one mesh per node referencing a glTF mesh, in node order
	//   - error: error if reading or decoding fails
	LoadReader(name string, r io.Reader) ([]model.Mesh, error)

	// Cached reports whether a parsed document is cached under name.
	//
	// Parameters:
	//   - name: the path or name the document was loaded with
	//
	// Returns:
	//   - bool: true if cached
	Cached(name string) bool

	// Evict drops the cached document of name.
	//
	// Parameters:
	//   - name: the path or name the document was loaded with
	Evict(name string)
}

var _ Loader = &loader{}

// NewLoader creates a new Loader with the provided options applied.
//
// Parameters:
//   - options: variadic list of LoaderBuilderOption functions
//
// Returns:
//   - Loader: a new Loader instance
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		documents: make(map[string]*gltfDocument),
	}
	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) Load(path string) ([]model.Mesh, error) {
	if doc := l.cached(path); doc != nil {
		return l.importDocument(doc)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: read %q: %w", path, err)
	}
	return l.parseAndImport(path, filepath.Dir(path), data)
}

func (l *loader) LoadReader(name string, r io.Reader) ([]model.Mesh, error) {
	if doc := l.cached(name); doc != nil {
		return l.importDocument(doc)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("loader: read %q: %w", name, err)
	}
	return l.parseAndImport(name, "", buf.Bytes())
}

func (l *loader) Cached(name string) bool {
	return l.cached(name) != nil
}

func (l *loader) Evict(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.documents, name)
}

func (l *loader) cached(name string) *gltfDocument {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.documents[name]
}

func (l *loader) parseAndImport(name, baseDir string, data []byte) ([]model.Mesh, error) {
	p := &gltfParser{baseDir: baseDir}
	doc, err := p.parse(data)
	if err != nil {
		return nil, fmt.Errorf("loader: %q: %w", name, err)
	}
	meshes, err := l.importDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("loader: %q: %w", name, err)
	}

	l.mu.Lock()
	l.documents[name] = doc
	l.mu.Unlock()

	common.Logger().Debug("loader: imported asset", "name", name, "meshes", len(meshes), "generator", doc.Asset.Generator)
	return meshes, nil
}
