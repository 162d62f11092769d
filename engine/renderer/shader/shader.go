package shader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/defines"
	"github.com/cogentcore/webgpu/wgpu"
)

// Stage identifies a shader entry point stage.
type Stage int

const (
	// StageVertex is the vertex stage of a render program.
	StageVertex Stage = iota

	// StageFragment is the fragment stage of a render program.
	StageFragment

	// StageCompute is a compute entry point.
	StageCompute
)

// shader is the implementation of the Shader interface.
type shader struct {
	key         string
	source      string
	entryPoints map[Stage]string

	pp PreProcessor
}

// Shader is a registered WGSL source with pre-processor directives from which program
// variants are produced.
type Shader interface {
	// Key retrieves the unique identifier for this shader.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the unprocessed source, directives included.
	//
	// Returns:
	//   - string: the raw shader source
	Source() string

	// EntryPoint returns the entry point name declared for stage, or "" if none.
	//
	// Parameters:
	//   - stage: the stage to look up
	//
	// Returns:
	//   - string: the entry point name
	EntryPoint(stage Stage) string

	// Variant resolves the source against a define set.
	//
	// Parameters:
	//   - defs: the active define set of the variant
	//   - indexParameters: named loop bounds for indexed includes, may be nil
	//
	// Returns:
	//   - string: the WGSL code of the variant
	//   - error: a pre-processor error
	Variant(defs defines.Set, indexParameters map[string]int) (string, error)
}

var _ Shader = &shader{}

// NewShader creates a Shader from WGSL source. Entry points are read from the source with
// comments stripped.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - source: the WGSL source containing pre-processor directives
//   - pp: the pre-processor resolving variants, a fresh one when nil
//
// Returns:
//   - Shader: the new shader
func NewShader(key, source string, pp PreProcessor) Shader {
	if source == "" {
		panic(fmt.Sprintf("shader: %s must have a non-empty source", key))
	}
	if pp == nil {
		pp = NewPreProcessor()
	}
	s := &shader{
		key:         key,
		source:      source,
		entryPoints: make(map[Stage]string, 3),
		pp:          pp,
	}
	for _, stage := range []Stage{StageVertex, StageFragment, StageCompute} {
		if ep := parseEntryPoint(source, stage); ep != "" {
			s.entryPoints[stage] = ep
		}
	}
	return s
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) EntryPoint(stage Stage) string {
	return s.entryPoints[stage]
}

func (s *shader) Variant(defs defines.Set, indexParameters map[string]int) (string, error) {
	return s.pp.Process(s.source, defs, indexParameters)
}

// ModuleDescriptor builds the WebGPU shader module descriptor of a resolved variant.
//
// Parameters:
//   - label: the debug label of the module
//   - code: the resolved WGSL code
//
// Returns:
//   - *wgpu.ShaderModuleDescriptor: the descriptor to pass to Device.CreateShaderModule
func ModuleDescriptor(label, code string) *wgpu.ShaderModuleDescriptor {
	return &wgpu.ShaderModuleDescriptor{
		Label: label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: code,
		},
	}
}
