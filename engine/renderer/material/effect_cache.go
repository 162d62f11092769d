package material

import (
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/defines"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/effect"
)

// State is the position of an EffectCache in its reuse/recompile cycle.
type State int

const (
	// StateNoProgram means no program was ever requested.
	StateNoProgram State = iota
	// StateCompiling means a program was requested and is not ready yet.
	StateCompiling
	// StateReady means the current program is ready and matches the define table.
	StateReady
	// StateStale means the define table moved away from the current program.
	StateStale
	// StateFailed means the current request failed to compile.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNoProgram:
		return "no-program"
	case StateCompiling:
		return "compiling"
	case StateReady:
		return "ready"
	case StateStale:
		return "stale"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Texture is a texture dependency of a material. A program only becomes ready for
// drawing once every texture it samples reports ready.
type Texture interface {
	IsReady() bool
}

// Request describes the program an EffectCache asks its factory for. Defines and
// Fallbacks of Options are filled in by the cache.
type Request struct {
	ShaderName string
	Options    effect.Options
}

// EffectCache owns the compiled program of a material and decides, from a define table
// snapshot, whether that program can be reused or a new one must be requested.
//
// The cache is driven from the render goroutine only.
type EffectCache struct {
	factory effect.Factory

	state     State
	current   *effect.Program
	bound     *effect.Program
	key       string
	defines   defines.Set
	fallbacks *effect.Fallbacks
	request   Request
}

// NewEffectCache creates an empty cache that requests programs from factory.
//
// Parameters:
//   - factory: the compiled-program factory
//
// Returns:
//   - *EffectCache: a cache in StateNoProgram
func NewEffectCache(factory effect.Factory) *EffectCache {
	if factory == nil {
		panic("material: effect cache requires a program factory")
	}
	return &EffectCache{factory: factory}
}

// NeedsCompile reports whether a new program must be requested for t. That is the case
// when no program was requested yet, when the table key differs from the key the current
// program was requested with, or when the table was changed or marked unprocessed since
// the last request. A ready cache becomes stale.
//
// Parameters:
//   - t: the material's define table
//
// Returns:
//   - bool: true if Compile must be called
func (c *EffectCache) NeedsCompile(t *defines.Table) bool {
	if c.current == nil {
		return true
	}
	if !t.IsDirty() && !t.RebuildPending() && t.Key() == c.key {
		return false
	}
	if c.state == StateReady {
		c.state = StateStale
	}
	return true
}

// Compile marks t processed and requests the program for its active define set.
//
// Parameters:
//   - t: the material's define table
//   - req: the shader name, attributes, uniforms and samplers of the variant
//   - fallbacks: the degradation plan prepared with the table, may be nil
func (c *EffectCache) Compile(t *defines.Table, req Request, fallbacks *effect.Fallbacks) {
	t.MarkAsProcessed()
	c.key = t.Key()
	c.defines = t.Active()
	c.fallbacks = fallbacks
	c.request = req
	c.requestProgram()
}

func (c *EffectCache) requestProgram() {
	opts := c.request.Options
	opts.Defines = c.defines
	opts.Fallbacks = c.fallbacks
	c.current = c.factory.CreateProgram(c.request.ShaderName, opts)
	c.state = StateCompiling
}

// IsReady polls the current program. A compiling program becomes ready only once it is
// compiled and every texture dependency is ready. A texture that is not ready yet leaves
// the state unchanged and consumes no fallback. After a failed compile, IsReady reports
// whether a previously ready program is still bound.
//
// Parameters:
//   - textures: the texture dependencies of the variant
//
// Returns:
//   - bool: true if the material can draw
func (c *EffectCache) IsReady(textures ...Texture) bool {
	switch c.state {
	case StateNoProgram, StateStale:
		return false
	case StateFailed:
		return c.bound != nil
	case StateCompiling:
		if !c.current.IsReady() {
			if c.current.Status() == effect.StatusFailed {
				c.state = StateFailed
				return c.bound != nil
			}
			return false
		}
		if !texturesReady(textures) {
			return false
		}
		c.bound = c.current
		c.state = StateReady
		return true
	}
	return texturesReady(textures)
}

// ApplyFallback reduces the current define set by one fallback step and requests the
// reduced variant. The table key recorded at Compile is kept, so the next NeedsCompile
// does not undo the reduction while the table is unchanged.
//
// Returns:
//   - bool: false when no program was requested or no fallback remains
func (c *EffectCache) ApplyFallback() bool {
	if c.current == nil || c.fallbacks == nil || !c.fallbacks.HasMoreFallbacks() {
		return false
	}
	c.defines = c.fallbacks.Reduce(c.defines, c.current)
	c.requestProgram()
	if n, ok := c.factory.(interface{ FallbackApplied() }); ok {
		n.FallbackApplied()
	}
	return true
}

// State returns the cache state.
func (c *EffectCache) State() State {
	return c.state
}

// Current returns the last requested program, ready or not.
func (c *EffectCache) Current() *effect.Program {
	return c.current
}

// Bound returns the last program that became ready, which stays usable after a failed
// compile until a new program becomes ready.
func (c *EffectCache) Bound() *effect.Program {
	return c.bound
}

// Key returns the table key the current program was requested for.
func (c *EffectCache) Key() string {
	return c.key
}

// Defines returns the define set of the current request, fallbacks applied.
func (c *EffectCache) Defines() defines.Set {
	return c.defines
}

// Fallbacks returns the degradation plan of the current request.
func (c *EffectCache) Fallbacks() *effect.Fallbacks {
	return c.fallbacks
}

func texturesReady(textures []Texture) bool {
	for _, tex := range textures {
		if tex != nil && !tex.IsReady() {
			return false
		}
	}
	return true
}
