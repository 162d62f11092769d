package material_helper

import (
	"strconv"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/Carmen-Shannon/oxy-shade/engine/camera"
	"github.com/Carmen-Shannon/oxy-shade/engine/light"
	"github.com/Carmen-Shannon/oxy-shade/engine/model"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/defines"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/effect"
	"github.com/Carmen-Shannon/oxy-shade/engine/scene"
	"github.com/chewxy/math32"
)

// clipPlaneUniforms are the uniform names of the clip plane slots, slot 0 first.
var clipPlaneUniforms = [common.MaxClipPlanes]string{
	"vClipPlane", "vClipPlane2", "vClipPlane3", "vClipPlane4", "vClipPlane5", "vClipPlane6",
}

// BindLightsWithTable binds the lights affecting mesh, reading the specular switch from t.
//
// Parameters:
//   - s: the scene the mesh is drawn in
//   - mesh: the mesh being drawn
//   - p: the program to bind into
//   - t: the derived define table
//   - maxSimultaneousLights: the number of light slots of the material
func BindLightsWithTable(s scene.Scene, mesh model.Mesh, p *effect.Program, t *defines.Table, maxSimultaneousLights int) {
	BindLightsWithFlag(s, mesh, p, t.Bool(defines.SpecularTerm), maxSimultaneousLights)
}

// BindLightsWithFlag binds the lights affecting mesh with an explicit specular switch.
//
// Parameters:
//   - s: the scene the mesh is drawn in
//   - mesh: the mesh being drawn
//   - p: the program to bind into
//   - useSpecular: whether to bind the specular color
//   - maxSimultaneousLights: the number of light slots of the material
func BindLightsWithFlag(s scene.Scene, mesh model.Mesh, p *effect.Program, useSpecular bool, maxSimultaneousLights int) {
	for i, l := range mesh.LightSources() {
		if i >= maxSimultaneousLights {
			break
		}
		BindLight(l, i, s, p, useSpecular, mesh.ReceiveShadows())
	}
}

// BindLight writes the uniforms of light slot i and, when the mesh receives shadows,
// the shadow uniforms of the light's generator.
//
// Parameters:
//   - l: the light in slot i
//   - i: the light slot index
//   - s: the scene the mesh is drawn in
//   - p: the program to bind into
//   - useSpecular: whether to bind the specular color
//   - receiveShadows: whether the mesh samples shadow maps
func BindLight(l light.Light, i int, s scene.Scene, p *effect.Program, useSpecular, receiveShadows bool) {
	idx := strconv.Itoa(i)

	switch l.Type() {
	case light.LightTypePoint:
		pos := l.Position()
		p.SetFloat4("vLightData"+idx, pos.X(), pos.Y(), pos.Z(), 0)
		p.SetFloat4("vLightFalloff"+idx, l.Range(), inverseSquared(l.Range()), 0, 0)
	case light.LightTypeDirectional:
		dir := l.Direction()
		p.SetFloat4("vLightData"+idx, dir.X(), dir.Y(), dir.Z(), 1)
	case light.LightTypeSpot:
		pos, dir := l.Position(), l.Direction()
		p.SetFloat4("vLightData"+idx, pos.X(), pos.Y(), pos.Z(), 0)
		p.SetFloat4("vLightDirection"+idx, dir.X(), dir.Y(), dir.Z(), l.OuterCone())
		p.SetFloat4("vLightFalloff"+idx, l.Range(), inverseSquared(l.Range()), l.InnerCone(), l.OuterCone())
	case light.LightTypeHemispheric:
		dir := l.Direction()
		p.SetFloat4("vLightData"+idx, dir.X(), dir.Y(), dir.Z(), 0)
		p.SetColor3("vLightGround"+idx, l.GroundColor().Mul(l.Intensity()))
	}

	p.SetColor4("vLightDiffuse"+idx, l.Diffuse().Mul(l.Intensity()), l.Range())
	if useSpecular {
		p.SetColor4("vLightSpecular"+idx, l.Specular().Mul(l.Intensity()), l.Radius())
	}

	if receiveShadows && s.ShadowsEnabled() && l.ShadowEnabled() {
		if gen := l.ShadowGenerator(); gen != nil {
			gen.Bind(p, i)
		}
	}
}

func inverseSquared(v float32) float32 {
	if v == 0 {
		return 0
	}
	return 1 / (v * v)
}

// BindFogParameters writes the fog uniforms when fog applies to mesh.
//
// Parameters:
//   - s: the scene the mesh is drawn in
//   - mesh: the mesh being drawn
//   - p: the program to bind into
//   - linearSpace: true to convert the fog color to linear space
func BindFogParameters(s scene.Scene, mesh model.Mesh, p *effect.Program, linearSpace bool) {
	fog := s.Fog()
	if !s.FogEnabled() || !mesh.ApplyFog() || fog.Mode == scene.FogNone {
		return
	}
	p.SetFloat4("vFogInfos", float32(fog.Mode), fog.Start, fog.End, fog.Density)
	color := fog.Color
	if linearSpace {
		for c := range color {
			color[c] = math32.Pow(color[c], common.GammaToLinear)
		}
	}
	p.SetColor3("vFogColor", color)
}

// BindBonesParameters writes the skinning matrices of mesh. A mesh still skinned on the GPU
// whose program was compiled by the CPU skinning fallback is switched to CPU skinning.
//
// Parameters:
//   - mesh: the mesh being drawn
//   - p: the program to bind into
func BindBonesParameters(mesh model.Mesh, p *effect.Program) {
	if p == nil || mesh == nil {
		return
	}
	if mesh.ComputeBonesUsingShaders() && p.BonesComputationForcedToCPU() {
		mesh.SetComputeBonesUsingShaders(false)
	}

	sk := mesh.Skeleton()
	if !mesh.UseBones() || !mesh.ComputeBonesUsingShaders() || sk == nil {
		return
	}

	if sk.UseTextureToStoreBoneMatrices() && p.SamplerIndex("boneSampler") > -1 {
		tex := sk.TransformMatrixTexture()
		p.SetTexture("boneSampler", tex)
		p.SetFloat("boneTextureWidth", float32(tex.Width()))
		return
	}
	p.SetMatrices("mBones", sk.TransformMatrices())
}

// BindMorphTargetParameters writes the morph target weights of mesh. The weight array is
// padded with zeros to the influencer count the program was compiled for.
//
// Parameters:
//   - mesh: the mesh being drawn
//   - p: the program to bind into
func BindMorphTargetParameters(mesh model.Mesh, p *effect.Program) {
	mgr := mesh.MorphTargetManager()
	if mgr == nil || p == nil {
		return
	}
	n := mgr.Influencers()
	if n == 0 {
		return
	}
	weights := make([]float32, n)
	copy(weights, mgr.Influences())
	p.SetFloatArray("morphTargetInfluences", weights)
	if mgr.IsUsingTextureForTargets() {
		p.SetFloat("morphTargetCount", float32(len(mgr.Targets())))
	}
}

// BindClipPlanes writes the equation of every filled clip plane slot.
//
// Parameters:
//   - s: the scene the mesh is drawn in
//   - p: the program to bind into
func BindClipPlanes(s scene.Scene, p *effect.Program) {
	for i, name := range clipPlaneUniforms {
		if plane := s.ClipPlane(i); plane != nil {
			p.SetFloat4(name, plane.Normal.X(), plane.Normal.Y(), plane.Normal.Z(), plane.Distance)
		}
	}
}

// BindLogDepth writes the logarithmic depth constant when t selects logarithmic depth.
// Orthographic cameras are not supported and log a warning.
//
// Parameters:
//   - t: the derived define table
//   - p: the program to bind into
//   - s: the scene the mesh is drawn in
func BindLogDepth(t *defines.Table, p *effect.Program, s scene.Scene) {
	if !t.Bool(defines.LogarithmicDepth) {
		return
	}
	cam := s.Camera()
	if cam == nil {
		return
	}
	if cam.Mode() == camera.ModeOrthographic {
		common.Logger().Warn("material_helper: logarithmic depth is not compatible with orthographic cameras",
			"scene", s.Name())
	}
	p.SetFloat("logarithmicDepthConstant", 2/math32.Log2(cam.MaxZ()+1))
}
