// Package material_helper derives the define table of a material from the scene, mesh and
// engine state, builds the attribute, uniform and sampler lists of a program request and
// binds the per-draw uniforms. Every function is stateless; the table carries the state.
package material_helper

import (
	"github.com/Carmen-Shannon/oxy-shade/engine/light"
	"github.com/Carmen-Shannon/oxy-shade/engine/model"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/defines"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/effect"
	"github.com/Carmen-Shannon/oxy-shade/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// LightState accumulates what the per-light pass found while walking the light slots.
type LightState struct {
	NeedNormals     bool
	NeedRebuild     bool
	ShadowEnabled   bool
	SpecularEnabled bool
	LightmapMode    bool
}

// lightSubTypes are the sub-type bases reset before a light declares its own.
var lightSubTypes = []defines.Name{
	defines.PointLight, defines.DirLight, defines.SpotLight, defines.HemiLight,
}

// lightFalloffs are the falloff bases, at most one of which is set per slot.
var lightFalloffs = []defines.Name{
	defines.LightFalloffPhys, defines.LightFalloffGLTF, defines.LightFalloffStd,
}

// PrepareDefinesForLights derives the light defines of t for the lights affecting mesh.
// It does nothing unless t.AreLightsDirty is set and returns the previous normals
// requirement in that case. Slots between the light count and maxSimultaneousLights
// are reset to false.
//
// Parameters:
//   - s: the scene the mesh is drawn in
//   - mesh: the mesh being drawn
//   - t: the define table to update
//   - specularSupported: whether the material can render a specular term
//   - maxSimultaneousLights: the number of light slots of the material
//   - disableLighting: true to derive as if the mesh had no lights
//
// Returns:
//   - bool: whether the lit shader needs vertex normals
func PrepareDefinesForLights(s scene.Scene, mesh model.Mesh, t *defines.Table, specularSupported bool, maxSimultaneousLights int, disableLighting bool) bool {
	if !t.AreLightsDirty {
		return t.NeedNormals
	}

	state := &LightState{}
	lightIndex := 0
	if s.LightsEnabled() && !disableLighting {
		for _, l := range mesh.LightSources() {
			if lightIndex >= maxSimultaneousLights {
				break
			}
			PrepareDefinesForLight(s, mesh, l, lightIndex, t, specularSupported, state)
			lightIndex++
		}
	}

	t.SetBool(defines.SpecularTerm, state.SpecularEnabled)
	t.SetBool(defines.Shadows, state.ShadowEnabled)

	for i := lightIndex; i < maxSimultaneousLights; i++ {
		resetLightSlot(t, i)
	}

	if !t.Has(defines.ShadowFloat) {
		state.NeedRebuild = true
	}
	t.SetBool(defines.ShadowFloat, state.ShadowEnabled && s.Renderer().Caps().SupportsShadowFloat())
	t.SetBool(defines.LightmapExcluded, state.LightmapMode)

	if state.NeedRebuild {
		t.Rebuild()
	}
	t.AreLightsDirty = false
	return state.NeedNormals
}

// PrepareDefinesForLight derives the defines of light slot i for l. The slot is staged
// and merged into t so that resetting and re-setting the same flag leaves t clean.
//
// Parameters:
//   - s: the scene the mesh is drawn in
//   - mesh: the mesh being drawn
//   - l: the light occupying slot i
//   - i: the light slot index
//   - t: the define table to update
//   - specularSupported: whether the material can render a specular term
//   - state: the accumulated light pass state
func PrepareDefinesForLight(s scene.Scene, mesh model.Mesh, l light.Light, i int, t *defines.Table, specularSupported bool, state *LightState) {
	state.NeedNormals = true

	slot := defines.Indexed(defines.Light, i)
	if !t.Has(slot) {
		state.NeedRebuild = true
	}

	staged := defines.NewTable()
	staged.SetBool(slot, true)

	for _, base := range lightSubTypes {
		staged.SetBool(defines.Indexed(base, i), false)
	}
	l.PrepareLightSpecificDefines(staged, i)

	for _, base := range lightFalloffs {
		staged.SetBool(defines.Indexed(base, i), false)
	}
	switch l.Falloff() {
	case light.FalloffPhysical:
		staged.SetBool(defines.Indexed(defines.LightFalloffPhys, i), true)
	case light.FalloffGLTF:
		staged.SetBool(defines.Indexed(defines.LightFalloffGLTF, i), true)
	case light.FalloffStandard:
		staged.SetBool(defines.Indexed(defines.LightFalloffStd, i), true)
	}

	if specularSupported && l.Specular() != (mgl32.Vec3{}) {
		state.SpecularEnabled = true
	}

	for _, base := range defines.ShadowSlotBases {
		staged.SetBool(defines.Indexed(base, i), false)
	}
	if mesh.ReceiveShadows() && s.ShadowsEnabled() && l.ShadowEnabled() {
		if gen := l.ShadowGenerator(); gen != nil {
			if sm := gen.ShadowMap(); sm != nil && sm.IsActive() {
				state.ShadowEnabled = true
				gen.PrepareDefines(staged, i, s.ShadowsEnabled())
			}
		}
	}

	if l.LightmapMode() != light.LightmapDefault {
		state.LightmapMode = true
		staged.SetBool(defines.Indexed(defines.LightmapExcludedN, i), true)
		staged.SetBool(defines.Indexed(defines.LightmapNoSpecular, i), l.LightmapMode() == light.LightmapShadowsOnly)
	} else {
		staged.SetBool(defines.Indexed(defines.LightmapExcludedN, i), false)
		staged.SetBool(defines.Indexed(defines.LightmapNoSpecular, i), false)
	}

	t.Merge(staged)
}

// resetLightSlot turns off slot i. LIGHTi is always written so the table records the slot
// as vacated; the other per-slot flags are only cleared when the table already has them.
func resetLightSlot(t *defines.Table, i int) {
	t.SetBool(defines.Indexed(defines.Light, i), false)
	off := func(base defines.Name) {
		if n := defines.Indexed(base, i); t.Has(n) {
			t.SetBool(n, false)
		}
	}
	for _, base := range lightSubTypes {
		off(base)
	}
	for _, base := range lightFalloffs {
		off(base)
	}
	for _, base := range defines.ShadowSlotBases {
		off(base)
	}
	off(defines.LightmapExcludedN)
	off(defines.LightmapNoSpecular)
}

// shadowQualityBases are the per-slot shadow defines a shadows fallback strips together.
var shadowQualityBases = []defines.Name{
	defines.Shadow, defines.ShadowPCF, defines.ShadowPCSS, defines.ShadowPoisson,
	defines.ShadowESM, defines.ShadowCloseESM,
}

// HandleFallbacksForShadows registers the shadow and extra light fallbacks of t. The set
// shadow defines of every lit slot are removed at rank; light slot i > 0 is removed at
// rank + i, so the last lights go last.
//
// Parameters:
//   - t: the derived define table
//   - fb: the fallback plan to extend
//   - maxSimultaneousLights: the number of light slots of the material
//   - rank: the rank of the first shadow fallback
//
// Returns:
//   - int: the first rank after the registered fallbacks
func HandleFallbacksForShadows(t *defines.Table, fb *effect.Fallbacks, maxSimultaneousLights, rank int) int {
	last := rank
	for i := 0; i < maxSimultaneousLights; i++ {
		if !t.Bool(defines.Indexed(defines.Light, i)) {
			break
		}
		if i > 0 {
			last = rank + i
			fb.AddFallback(last, defines.Indexed(defines.Light, i))
		}
		if !t.Bool(defines.Indexed(defines.Shadow, i)) {
			continue
		}
		for _, base := range shadowQualityBases {
			if n := defines.Indexed(base, i); t.Bool(n) {
				fb.AddFallback(rank, n)
			}
		}
	}
	return last + 1
}

// ShadowMaps returns the shadow maps sampled by the shadowed light slots of t, in slot order.
// A program bound with them draws only once every map is ready.
//
// Parameters:
//   - mesh: the mesh being drawn
//   - t: the derived define table
//   - maxSimultaneousLights: the number of light slots of the material
//
// Returns:
//   - []*light.ShadowMap: the sampled shadow maps
func ShadowMaps(mesh model.Mesh, t *defines.Table, maxSimultaneousLights int) []*light.ShadowMap {
	var out []*light.ShadowMap
	for i, l := range mesh.LightSources() {
		if i >= maxSimultaneousLights {
			break
		}
		if !t.Bool(defines.Indexed(defines.Shadow, i)) {
			continue
		}
		if gen := l.ShadowGenerator(); gen != nil && gen.ShadowMap() != nil {
			out = append(out, gen.ShadowMap())
		}
	}
	return out
}

// PrepareUniformsAndSamplersForLight appends the uniforms and samplers of light slot i.
//
// Parameters:
//   - i: the light slot index
//   - opts: the program request to extend
//   - projectedLightTexture: whether the slot samples a projection texture
func PrepareUniformsAndSamplersForLight(i int, opts *effect.Options, projectedLightTexture bool) {
	idx := func(name string) string { return string(defines.Indexed(defines.Name(name), i)) }

	opts.UniformBufferNames = append(opts.UniformBufferNames, idx("Light"))
	opts.UniformNames = append(opts.UniformNames,
		idx("vLightData"), idx("vLightDiffuse"), idx("vLightSpecular"), idx("vLightDirection"),
		idx("vLightFalloff"), idx("vLightGround"), idx("lightMatrix"), idx("shadowsInfo"),
		idx("depthValues"), idx("viewFrustumZ"), idx("cascadeBlendFactor"),
		idx("lightSizeUVCorrection"), idx("depthCorrection"), idx("penumbraDarkness"),
		idx("frustumLengths"),
	)
	opts.Samplers = append(opts.Samplers, idx("shadowSampler"), idx("depthSampler"))
	if projectedLightTexture {
		opts.Samplers = append(opts.Samplers, idx("projectionLightSampler"))
		opts.UniformNames = append(opts.UniformNames, idx("textureProjectionMatrix"))
	}
}

// PrepareUniformsAndSamplersList appends the light, morph target and bone uniforms and
// samplers t selects to opts. Light slots are walked until the first unset one.
//
// Parameters:
//   - opts: the program request to extend
//   - t: the derived define table
//   - maxSimultaneousLights: the number of light slots of the material
func PrepareUniformsAndSamplersList(opts *effect.Options, t *defines.Table, maxSimultaneousLights int) {
	for i := 0; i < maxSimultaneousLights; i++ {
		if !t.Bool(defines.Indexed(defines.Light, i)) {
			break
		}
		PrepareUniformsAndSamplersForLight(i, opts, t.Bool(defines.Indexed(defines.ProjectedLightTex, i)))
	}
	if t.Int(defines.NumMorphInfluencers) > 0 {
		opts.UniformNames = append(opts.UniformNames, "morphTargetInfluences")
	}
	if t.Bool(defines.MorphTargetsTexture) {
		opts.UniformNames = append(opts.UniformNames, "morphTargetTextureInfo", "morphTargetTextureIndices")
		opts.Samplers = append(opts.Samplers, "morphTargets")
	}
	if t.Int(defines.NumBoneInfluencers) > 0 {
		if t.Bool(defines.BoneTexture) {
			opts.UniformNames = append(opts.UniformNames, "boneTextureWidth")
			opts.Samplers = append(opts.Samplers, "boneSampler")
		} else {
			opts.UniformNames = append(opts.UniformNames, "mBones")
		}
	}
	if opts.IndexParameters == nil {
		opts.IndexParameters = make(map[string]int)
	}
	opts.IndexParameters["maxSimultaneousLights"] = maxSimultaneousLights
}
