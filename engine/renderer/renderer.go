package renderer

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/Carmen-Shannon/oxy-shade/engine/profiler"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/effect"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/shader"
)

var (
	// ErrShaderNotFound is reported by programs requested for a shader name that was never registered.
	ErrShaderNotFound = errors.New("renderer: shader not found")

	// ErrClosed is reported by programs requested after Close.
	ErrClosed = errors.New("renderer: closed")
)

// compileQueueSize is the task queue length of the compile worker pool.
const compileQueueSize = 256

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	shaders  map[string]shader.Shader
	programs map[string]*effect.Program
	pp       shader.PreProcessor

	pendingShaders [][2]string

	backendType          RendererBackendType
	backend              Backend
	forceFallbackAdapter bool

	caps       Caps
	capsSet    bool
	colorWrite bool

	compileWorkers int
	compilePool    worker.DynamicWorkerPool
	pooled         bool
	nextTaskID     int

	profiler *profiler.Profiler
	closed   bool
}

// Renderer is the program factory of the engine. It owns the registered shader sources, the
// cache of compiled program variants keyed by shader name and define set, the compile backend
// and the engine capabilities the define deriver consults.
//
// Identical (shader name, define set) requests always return the same *effect.Program. Programs
// are compiled inline or on a worker pool; either way callers observe readiness only by polling
// Program.IsReady.
type Renderer interface {
	effect.Factory

	// RegisterShader registers WGSL source containing pre-processor directives under name.
	// Registering a name again replaces the source for programs requested afterwards.
	//
	// Parameters:
	//   - name: the shader name used in CreateProgram
	//   - source: the WGSL source
	//
	// Returns:
	//   - shader.Shader: the registered shader
	RegisterShader(name, source string) shader.Shader

	// RegisterInclude registers an include chunk available to every shader. Includes must be
	// registered before programs using them are requested.
	//
	// Parameters:
	//   - name: the name used in #include<name>
	//   - source: the chunk source
	RegisterInclude(name, source string)

	// Shader retrieves a registered shader, or nil if none is registered under name.
	//
	// Parameters:
	//   - name: the shader name
	//
	// Returns:
	//   - shader.Shader: the shader, or nil
	Shader(name string) shader.Shader

	// Caps retrieves the engine capabilities.
	//
	// Returns:
	//   - Caps: the capabilities reported by the backend or configured with WithCaps
	Caps() Caps

	// ColorWrite reports whether color output is currently enabled. A disabled color write
	// selects depth-only program variants.
	//
	// Returns:
	//   - bool: true if color writes are enabled
	ColorWrite() bool

	// SetColorWrite enables or disables color output.
	//
	// Parameters:
	//   - enabled: true to enable color writes
	SetColorWrite(enabled bool)

	// CachedProgramCount returns the number of cached program variants.
	//
	// Returns:
	//   - int: the cache size
	CachedProgramCount() int

	// ReleaseProgram removes a program from the cache and disposes it. Ownership of disposal
	// belongs to the caller; the cache never disposes a program on its own.
	//
	// Parameters:
	//   - p: the program to release
	ReleaseProgram(p *effect.Program)

	// Profiler retrieves the profiler receiving compile statistics, or nil.
	//
	// Returns:
	//   - *profiler.Profiler: the profiler
	Profiler() *profiler.Profiler

	// FallbackApplied records a fallback reduction step in the profiler.
	FallbackApplied()

	// Close disposes every cached program and releases the backend. Programs requested afterwards
	// fail with ErrClosed.
	Close()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer configured with the provided options. Without WithBackend a
// headless WebGPU backend is created.
//
// Parameters:
//   - options: variadic list of RendererBuilderOption functions
//
// Returns:
//   - Renderer: the new renderer
//   - error: an error if the WebGPU backend could not be created
func NewRenderer(options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:         &sync.Mutex{},
		shaders:    make(map[string]shader.Shader),
		programs:   make(map[string]*effect.Program),
		pp:         shader.NewPreProcessor(),
		colorWrite: true,
	}
	for _, opt := range options {
		opt(r)
	}
	for _, ps := range r.pendingShaders {
		r.shaders[ps[0]] = shader.NewShader(ps[0], ps[1], r.pp)
	}
	r.pendingShaders = nil

	if r.backend == nil {
		b, err := NewWGPUBackend(r.forceFallbackAdapter)
		if err != nil {
			return nil, err
		}
		r.backend = b
		r.backendType = BackendTypeWGPU
	}
	if !r.capsSet {
		r.caps = DefaultCaps()
		if cp, ok := r.backend.(capsProvider); ok {
			r.caps = cp.Caps()
		}
	}
	if r.compileWorkers > 0 {
		r.compilePool = worker.NewDynamicWorkerPool(r.compileWorkers, compileQueueSize, 1*time.Second)
		r.pooled = true
	}
	return r, nil
}

func (r *renderer) RegisterShader(name, source string) shader.Shader {
	s := shader.NewShader(name, source, r.pp)
	r.mu.Lock()
	r.shaders[name] = s
	r.mu.Unlock()
	return s
}

func (r *renderer) RegisterInclude(name, source string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pp.RegisterInclude(name, source)
}

func (r *renderer) Shader(name string) shader.Shader {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.shaders[name]
}

func (r *renderer) Caps() Caps {
	return r.caps
}

func (r *renderer) ColorWrite() bool {
	return r.colorWrite
}

func (r *renderer) SetColorWrite(enabled bool) {
	r.colorWrite = enabled
}

func (r *renderer) CachedProgramCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.programs)
}

func (r *renderer) Profiler() *profiler.Profiler {
	return r.profiler
}

func (r *renderer) FallbackApplied() {
	if r.profiler != nil {
		r.profiler.FallbackApplied()
	}
}

func (r *renderer) CreateProgram(shaderName string, opts effect.Options) *effect.Program {
	key := shaderName + "\x00" + opts.Defines.String()

	r.mu.Lock()
	if p, ok := r.programs[key]; ok && p.Status() != effect.StatusDisposed {
		r.mu.Unlock()
		p.AddCallbacks(opts.OnCompiled, opts.OnError)
		if r.profiler != nil {
			r.profiler.ProgramReused()
		}
		return p
	}
	p := effect.NewProgram(shaderName, key, opts)
	r.programs[key] = p
	s := r.shaders[shaderName]
	closed := r.closed
	pooled := r.pooled
	id := r.nextTaskID
	if pooled {
		r.nextTaskID++
	}
	r.mu.Unlock()

	if r.profiler != nil {
		r.profiler.CompileRequested()
	}

	switch {
	case closed:
		r.fail(p, ErrClosed)
	case s == nil:
		r.fail(p, fmt.Errorf("%w: %q", ErrShaderNotFound, shaderName))
	case pooled:
		r.compilePool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				r.compile(p, s, opts)
				return nil, p.Err()
			},
		})
	default:
		r.compile(p, s, opts)
	}
	return p
}

// compile resolves the variant source and hands it to the backend. It may run on a compile worker
// and only touches the program through Complete.
func (r *renderer) compile(p *effect.Program, s shader.Shader, opts effect.Options) {
	code, err := s.Variant(opts.Defines, opts.IndexParameters)
	if err != nil {
		r.fail(p, fmt.Errorf("renderer: pre-process %q: %w", s.Key(), err))
		return
	}
	handle, release, err := r.backend.Compile(s.Key(), code)
	if err != nil {
		r.fail(p, err)
		return
	}
	p.Complete(handle, release, nil)
}

func (r *renderer) fail(p *effect.Program, err error) {
	common.Logger().Debug("renderer: program compile failed", "shader", p.Name(), "err", err)
	if r.profiler != nil {
		r.profiler.CompileFailed()
	}
	p.Complete(nil, nil, err)
}

func (r *renderer) ReleaseProgram(p *effect.Program) {
	if p == nil {
		return
	}
	r.mu.Lock()
	if cached, ok := r.programs[p.Key()]; ok && cached == p {
		delete(r.programs, p.Key())
	}
	r.mu.Unlock()
	p.Dispose()
}

func (r *renderer) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	programs := r.programs
	r.programs = make(map[string]*effect.Program)
	// idle compile workers exit after the pool's idle timeout; tasks still queued run
	// against the released backend
	r.pooled = false
	r.mu.Unlock()

	for _, p := range programs {
		p.Dispose()
	}
	r.backend.Release()
}
