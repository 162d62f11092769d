package standard_material

import (
	_ "embed"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer"
)

// ShaderName is the name the standard shader is registered under.
const ShaderName = "standard"

//go:embed assets/standard.wgsl
var standardSource string

//go:embed assets/light_ubo_declaration.wgsl
var lightUboDeclarationSource string

//go:embed assets/light_fragment.wgsl
var lightFragmentSource string

//go:embed assets/bones_declaration.wgsl
var bonesDeclarationSource string

//go:embed assets/bones_vertex.wgsl
var bonesVertexSource string

//go:embed assets/clip_plane_declaration.wgsl
var clipPlaneDeclarationSource string

//go:embed assets/clip_plane_fragment.wgsl
var clipPlaneFragmentSource string

// RegisterShaders registers the standard shader and its include chunks with r unless
// a shader named ShaderName is already registered.
//
// Parameters:
//   - r: the renderer to register with
func RegisterShaders(r renderer.Renderer) {
	if r.Shader(ShaderName) != nil {
		return
	}
	r.RegisterInclude("lightUboDeclaration", lightUboDeclarationSource)
	r.RegisterInclude("lightFragment", lightFragmentSource)
	r.RegisterInclude("bonesDeclaration", bonesDeclarationSource)
	r.RegisterInclude("bonesVertex", bonesVertexSource)
	r.RegisterInclude("clipPlaneDeclaration", clipPlaneDeclarationSource)
	r.RegisterInclude("clipPlaneFragment", clipPlaneFragmentSource)
	r.RegisterShader(ShaderName, standardSource)
}
