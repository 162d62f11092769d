// Package effect holds the compiled shader program handle, the factory contract that
// produces programs from a define set, and the rank-ordered fallback plan used to
// degrade a program when it is too expensive to compile or run.
package effect

import "github.com/Carmen-Shannon/oxy-shade/engine/renderer/defines"

// Options describes one program request handed to a Factory.
type Options struct {
	// Attributes lists the vertex attribute names in slot order.
	Attributes []string

	// UniformNames lists every uniform the Binder may write.
	UniformNames []string

	// UniformBufferNames lists the uniform blocks the program binds.
	UniformBufferNames []string

	// Samplers lists the texture sampler names.
	Samplers []string

	// Defines is the structured define set selecting the variant.
	Defines defines.Set

	// Fallbacks is the degradation plan accumulated while preparing the request. May be nil.
	Fallbacks *Fallbacks

	// OnCompiled is invoked once, on the polling goroutine, when the program becomes ready.
	OnCompiled func(p *Program)

	// OnError is invoked once, on the polling goroutine, when compilation fails.
	OnError func(p *Program, err error)

	// IndexParameters carries integer loop bounds for indexed includes (e.g. maxSimultaneousLights).
	IndexParameters map[string]int
}

// Factory produces compiled programs from a shader name and a request.
type Factory interface {
	// CreateProgram returns the program for shaderName and the request's define set.
	// Identical (shaderName, defines) pairs must return the same *Program. The returned
	// program is observed through polling IsReady; compile errors reach the caller only
	// through opts.OnError and Program.Err.
	//
	// Parameters:
	//   - shaderName: the registered shader source name
	//   - opts: the attribute, uniform, sampler and define description of the variant
	//
	// Returns:
	//   - *Program: the program handle, possibly still compiling
	CreateProgram(shaderName string, opts Options) *Program
}
