package renderer

import (
	"github.com/Carmen-Shannon/oxy-shade/engine/profiler"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/shader"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithBackend sets the compile backend, skipping creation of the WebGPU device.
//
// Parameters:
//   - b: the backend compiling resolved variants
//
// Returns:
//   - RendererBuilderOption: a function that applies the backend option to a renderer
func WithBackend(b Backend) RendererBuilderOption {
	return func(r *renderer) {
		r.backend = b
		r.backendType = BackendTypeCustom
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe). Ignored when WithBackend is used.
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - RendererBuilderOption: a function that applies the force software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}

// WithCompileWorkers compiles program variants on a worker pool of n goroutines instead of
// inline in CreateProgram. Values below 1 keep inline compilation.
//
// Parameters:
//   - n: the number of compile workers
//
// Returns:
//   - RendererBuilderOption: a function that applies the worker count to a renderer
func WithCompileWorkers(n int) RendererBuilderOption {
	return func(r *renderer) {
		r.compileWorkers = n
	}
}

// WithCaps overrides the capabilities reported by the backend.
//
// Parameters:
//   - caps: the engine capabilities
//
// Returns:
//   - RendererBuilderOption: a function that applies the caps option to a renderer
func WithCaps(caps Caps) RendererBuilderOption {
	return func(r *renderer) {
		r.caps = caps
		r.capsSet = true
	}
}

// WithProfiler attaches a profiler receiving compile, reuse, failure and fallback counts.
//
// Parameters:
//   - p: the profiler
//
// Returns:
//   - RendererBuilderOption: a function that applies the profiler option to a renderer
func WithProfiler(p *profiler.Profiler) RendererBuilderOption {
	return func(r *renderer) {
		r.profiler = p
	}
}

// WithPreProcessor replaces the pre-processor shared by every registered shader.
//
// Parameters:
//   - pp: the pre-processor
//
// Returns:
//   - RendererBuilderOption: a function that applies the pre-processor option to a renderer
func WithPreProcessor(pp shader.PreProcessor) RendererBuilderOption {
	return func(r *renderer) {
		if pp != nil {
			r.pp = pp
		}
	}
}

// WithShader pre-registers a shader source under name.
//
// Parameters:
//   - name: the shader name
//   - source: the WGSL source
//
// Returns:
//   - RendererBuilderOption: a function that registers the shader on a renderer
func WithShader(name, source string) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingShaders = append(r.pendingShaders, [2]string{name, source})
	}
}
