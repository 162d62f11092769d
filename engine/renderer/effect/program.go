package effect

import (
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/defines"
	"github.com/go-gl/mathgl/mgl32"
)

// Status is the compile status of a Program.
type Status int32

const (
	StatusCompiling Status = iota
	StatusReady
	StatusFailed
	StatusDisposed
)

func (s Status) String() string {
	switch s {
	case StatusCompiling:
		return "compiling"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	case StatusDisposed:
		return "disposed"
	}
	return "unknown"
}

// Program is a compiled (or compiling) shader variant together with the uniform values
// the Binder last pushed into it.
//
// The compile path may finish on another goroutine; it publishes its result through
// Complete. Everything else, callbacks included, runs on the goroutine that polls IsReady.
type Program struct {
	name    string
	key     string
	defines defines.Set

	attributes         []string
	uniformNames       []string
	uniformBufferNames []string
	samplers           []string
	indexParameters    map[string]int
	uniformIndex       map[string]int
	samplerIndex       map[string]int

	status  atomic.Int32
	mu      sync.Mutex
	handle  any
	release func()
	err     error

	onCompiled []func(*Program)
	onError    []func(*Program, error)

	forcedToCPU bool

	uniforms map[string]any
	textures map[string]any
}

// NewProgram creates a compiling Program for the request. Factories call this and then
// publish the compile result through Complete.
//
// Parameters:
//   - name: the shader name
//   - key: the factory cache key identifying the variant
//   - opts: the request the program is compiled from
//
// Returns:
//   - *Program: a program in StatusCompiling
func NewProgram(name, key string, opts Options) *Program {
	p := &Program{
		name:               name,
		key:                key,
		defines:            opts.Defines,
		attributes:         opts.Attributes,
		uniformNames:       opts.UniformNames,
		uniformBufferNames: opts.UniformBufferNames,
		samplers:           opts.Samplers,
		indexParameters:    opts.IndexParameters,
		uniformIndex:       make(map[string]int, len(opts.UniformNames)),
		samplerIndex:       make(map[string]int, len(opts.Samplers)),
		uniforms:           make(map[string]any),
		textures:           make(map[string]any),
	}
	for i, u := range opts.UniformNames {
		if _, ok := p.uniformIndex[u]; !ok {
			p.uniformIndex[u] = i
		}
	}
	for i, s := range opts.Samplers {
		if _, ok := p.samplerIndex[s]; !ok {
			p.samplerIndex[s] = i
		}
	}
	p.AddCallbacks(opts.OnCompiled, opts.OnError)
	return p
}

// Name returns the shader name the program was compiled from.
func (p *Program) Name() string {
	return p.name
}

// Key returns the factory cache key of the variant.
func (p *Program) Key() string {
	return p.key
}

// Defines returns the define set the variant was compiled with.
func (p *Program) Defines() defines.Set {
	return p.defines
}

// Attributes returns the vertex attribute names in binding order.
func (p *Program) Attributes() []string {
	return p.attributes
}

// UniformNames returns the declared uniform names.
func (p *Program) UniformNames() []string {
	return p.uniformNames
}

// UniformBufferNames returns the declared uniform buffer names.
func (p *Program) UniformBufferNames() []string {
	return p.uniformBufferNames
}

// Samplers returns the declared sampler names.
func (p *Program) Samplers() []string {
	return p.samplers
}

// IndexParameters returns the loop bounds the source was expanded with.
func (p *Program) IndexParameters() map[string]int {
	return p.indexParameters
}

// UniformIndex returns the slot of a uniform, or -1 when the program does not declare it.
func (p *Program) UniformIndex(name string) int {
	if i, ok := p.uniformIndex[name]; ok {
		return i
	}
	return -1
}

// SamplerIndex returns the slot of a sampler, or -1 when the program does not declare it.
func (p *Program) SamplerIndex(name string) int {
	if i, ok := p.samplerIndex[name]; ok {
		return i
	}
	return -1
}

// AddCallbacks attaches completion callbacks. Nil callbacks are ignored. Callbacks attached
// after completion fire on the next IsReady poll.
func (p *Program) AddCallbacks(onCompiled func(*Program), onError func(*Program, error)) {
	if onCompiled != nil {
		p.onCompiled = append(p.onCompiled, onCompiled)
	}
	if onError != nil {
		p.onError = append(p.onError, onError)
	}
}

// Complete publishes the compile result. Only the first call has any effect.
//
// Parameters:
//   - handle: the backend object for the compiled variant, nil on error
//   - release: frees handle, may be nil
//   - err: the compile error, nil on success
func (p *Program) Complete(handle any, release func(), err error) {
	next := StatusReady
	if err != nil {
		next = StatusFailed
	}

	p.mu.Lock()
	if !p.status.CompareAndSwap(int32(StatusCompiling), int32(next)) {
		p.mu.Unlock()
		if release != nil {
			release()
		}
		return
	}
	p.handle = handle
	p.release = release
	p.err = err
	p.mu.Unlock()
}

// Status returns the current compile status without firing callbacks.
func (p *Program) Status() Status {
	return Status(p.status.Load())
}

// IsReady polls the compile status and reports whether the program can be drawn with.
// Pending callbacks fire here, on the caller's goroutine.
func (p *Program) IsReady() bool {
	switch p.Status() {
	case StatusReady:
		cbs := p.onCompiled
		p.onCompiled, p.onError = nil, nil
		for _, cb := range cbs {
			cb(p)
		}
		return true
	case StatusFailed:
		cbs := p.onError
		p.onCompiled, p.onError = nil, nil
		err := p.Err()
		for _, cb := range cbs {
			cb(p, err)
		}
	}
	return false
}

// Err returns the compile error, if any.
func (p *Program) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Handle returns the backend object of a ready program.
func (p *Program) Handle() any {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.handle
}

// Dispose releases the backend object. The program must not be drawn with afterwards.
func (p *Program) Dispose() {
	p.mu.Lock()
	release := p.release
	p.release = nil
	p.handle = nil
	p.status.Store(int32(StatusDisposed))
	p.mu.Unlock()
	if release != nil {
		release()
	}
}

// BonesComputationForcedToCPU reports whether a fallback switched skinning for this program to the CPU.
func (p *Program) BonesComputationForcedToCPU() bool {
	return p.forcedToCPU
}

func (p *Program) setBonesComputationForcedToCPU() {
	p.forcedToCPU = true
}

func (p *Program) set(name string, v any) {
	if _, ok := p.uniformIndex[name]; !ok {
		return
	}
	p.uniforms[name] = v
}

// Uniform returns the last value pushed into a uniform.
func (p *Program) Uniform(name string) (any, bool) {
	v, ok := p.uniforms[name]
	return v, ok
}

// Texture returns the texture last bound to a sampler.
func (p *Program) Texture(name string) (any, bool) {
	v, ok := p.textures[name]
	return v, ok
}

// SetFloat stores a float uniform. Unknown uniforms are ignored, as for every setter below.
func (p *Program) SetFloat(name string, v float32) {
	p.set(name, v)
}

// SetFloat2 stores a vec2 uniform.
func (p *Program) SetFloat2(name string, x, y float32) {
	p.set(name, mgl32.Vec2{x, y})
}

// SetFloat3 stores a vec3 uniform.
func (p *Program) SetFloat3(name string, x, y, z float32) {
	p.set(name, mgl32.Vec3{x, y, z})
}

// SetFloat4 stores a vec4 uniform.
func (p *Program) SetFloat4(name string, x, y, z, w float32) {
	p.set(name, mgl32.Vec4{x, y, z, w})
}

// SetInt stores an integer uniform.
func (p *Program) SetInt(name string, v int32) {
	p.set(name, v)
}

// SetVector3 stores a vec3 uniform.
func (p *Program) SetVector3(name string, v mgl32.Vec3) {
	p.set(name, v)
}

// SetColor3 stores an RGB color uniform.
func (p *Program) SetColor3(name string, c mgl32.Vec3) {
	p.set(name, c)
}

// SetColor4 stores an RGBA color uniform built from c and alpha.
func (p *Program) SetColor4(name string, c mgl32.Vec3, alpha float32) {
	p.set(name, c.Vec4(alpha))
}

// SetMatrix stores a 4x4 matrix uniform.
func (p *Program) SetMatrix(name string, m mgl32.Mat4) {
	p.set(name, m)
}

// SetMatrices stores a flattened array of 4x4 matrices.
func (p *Program) SetMatrices(name string, flat []float32) {
	p.set(name, flat)
}

// SetFloatArray stores a float array uniform.
func (p *Program) SetFloatArray(name string, v []float32) {
	p.set(name, v)
}

// SetTexture binds a texture to a sampler. Unknown samplers are ignored.
func (p *Program) SetTexture(name string, tex any) {
	if _, ok := p.samplerIndex[name]; !ok {
		return
	}
	p.textures[name] = tex
}
