package renderer

// RendererBackendType identifies the compile backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU compiles program variants into WebGPU shader modules.
	BackendTypeWGPU RendererBackendType = iota

	// BackendTypeCustom uses a caller supplied Backend.
	BackendTypeCustom
)

// Backend turns resolved WGSL code into a backend program object.
// Compile may be called concurrently from compile workers.
type Backend interface {
	// Compile compiles one program variant.
	//
	// Parameters:
	//   - label: the debug label of the variant
	//   - code: the resolved WGSL code
	//
	// Returns:
	//   - any: the backend object of the compiled variant
	//   - func(): releases the backend object, may be nil
	//   - error: the compile error
	Compile(label, code string) (any, func(), error)

	// Release frees every backend resource. Compile must not be called afterwards.
	Release()
}

// capsProvider is implemented by backends that can report device capabilities.
type capsProvider interface {
	Caps() Caps
}

// BackendFunc adapts a plain function to the Backend interface.
type BackendFunc func(label, code string) (any, func(), error)

var _ Backend = BackendFunc(nil)

// Compile calls f.
func (f BackendFunc) Compile(label, code string) (any, func(), error) {
	return f(label, code)
}

// Release does nothing.
func (f BackendFunc) Release() {}
