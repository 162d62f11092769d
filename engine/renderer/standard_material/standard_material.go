package standard_material

import (
	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/Carmen-Shannon/oxy-shade/engine/model"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/defines"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/effect"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/material_helper"
	"github.com/Carmen-Shannon/oxy-shade/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// DiffuseTextureName is the texture slot sampled by the DIFFUSE variant.
const DiffuseTextureName = "diffuse"

// Schema is the define table baseline of the standard material. BONETEXTURE is declared
// so skinned meshes may read their matrices from a texture.
var Schema = []defines.Entry{
	{Name: defines.Diffuse, Value: defines.Bool(false)},
	{Name: defines.BoneTexture, Value: defines.Bool(false)},
	{Name: defines.NumBoneInfluencers, Value: defines.Int(0)},
	{Name: defines.BonesPerMesh, Value: defines.Int(0)},
	{Name: defines.NumMorphInfluencers, Value: defines.Int(0)},
}

// standardUniforms are the material and scene uniforms of the standard shader.
var standardUniforms = []string{
	"world", "viewProjection", "vEyePosition", "vDiffuseColor", "vSpecularColor",
	"alphaCutOff", "pointSize", "vFogInfos", "vFogColor", "logarithmicDepthConstant",
	"vClipPlane", "vClipPlane2", "vClipPlane3", "vClipPlane4", "vClipPlane5", "vClipPlane6",
}

// standardMaterial is the implementation of the StandardMaterial interface.
type standardMaterial struct {
	material.Material

	r renderer.Renderer

	diffuseColor  mgl32.Vec3
	specularColor mgl32.Vec3
	specularPower float32
	alpha         float32
	alphaCutOff   float32
	pointSize     float32
}

// StandardMaterial is the lit material archetype: a diffuse color or texture, a specular
// term and every light, shadow, skinning, morph, fog and clip plane variant the define
// deriver selects.
type StandardMaterial interface {
	material.Material

	// IsReadyForMesh derives the define table for drawing mesh in s, requests the matching
	// program when the variant changed and reports whether the material can draw. A failed
	// compile degrades the variant by one fallback step and reports false until the reduced
	// program is ready.
	//
	// Parameters:
	//   - mesh: the mesh to draw
	//   - s: the scene the mesh is drawn in
	//   - useInstances: whether the draw is instanced
	//
	// Returns:
	//   - bool: true if Bind may be called for this draw
	IsReadyForMesh(mesh model.Mesh, s scene.Scene, useInstances bool) bool

	// Bind writes the per-draw uniforms of mesh into the bound program.
	//
	// Parameters:
	//   - mesh: the mesh to draw
	//   - s: the scene the mesh is drawn in
	//   - world: the world matrix of the draw
	Bind(mesh model.Mesh, s scene.Scene, world mgl32.Mat4)

	// DiffuseColor returns the base color.
	DiffuseColor() mgl32.Vec3

	// SetDiffuseColor sets the base color.
	SetDiffuseColor(c mgl32.Vec3)

	// SpecularColor returns the specular color.
	SpecularColor() mgl32.Vec3

	// SetSpecularColor sets the specular color.
	SetSpecularColor(c mgl32.Vec3)

	// SpecularPower returns the specular exponent.
	SpecularPower() float32

	// Alpha returns the material opacity.
	Alpha() float32

	// SetAlpha sets the material opacity.
	SetAlpha(a float32)

	// SetDiffuseTexture sets the texture modulating the base color. Pass nil to remove it.
	SetDiffuseTexture(tex material.Texture)
}

var _ StandardMaterial = &standardMaterial{}

// NewStandardMaterial creates a StandardMaterial compiling with r and registers the standard
// shader with r if needed.
//
// Parameters:
//   - r: the renderer compiling the material's programs
//   - options: functional options to configure the material
//
// Returns:
//   - StandardMaterial: the new material
func NewStandardMaterial(r renderer.Renderer, options ...StandardMaterialBuilderOption) StandardMaterial {
	if r == nil {
		panic("standard_material: NewStandardMaterial requires a non-nil Renderer")
	}
	RegisterShaders(r)

	b := &standardMaterialBuilder{
		standardMaterial: &standardMaterial{
			r:             r,
			diffuseColor:  mgl32.Vec3{1, 1, 1},
			specularColor: mgl32.Vec3{1, 1, 1},
			specularPower: 64,
			alpha:         1,
			alphaCutOff:   0.4,
			pointSize:     1,
		},
	}
	for _, option := range options {
		option(b)
	}
	base := append([]material.MaterialBuilderOption{material.WithSchema(Schema...)}, b.materialOptions...)
	b.standardMaterial.Material = material.NewMaterial(r, base...)
	return b.standardMaterial
}

func (m *standardMaterial) IsReadyForMesh(mesh model.Mesh, s scene.Scene, useInstances bool) bool {
	t := m.Defines()
	cache := m.Cache()

	if cache.State() == material.StateReady && !t.IsDirty() && t.RenderID() == s.RenderID() {
		return true
	}

	if t.AreTexturesDirty {
		t.NeedUVs = false
		diffuse := m.Texture(DiffuseTextureName)
		if diffuse != nil {
			t.NeedUVs = true
		}
		t.SetBool(defines.Diffuse, diffuse != nil)
		t.AreTexturesDirty = false
	}

	maxLights := m.MaxSimultaneousLights()
	t.NeedNormals = material_helper.PrepareDefinesForLights(s, mesh, t, m.SpecularSupported(), maxLights, m.DisableLighting())
	material_helper.PrepareDefinesForMultiview(s, t)
	material_helper.PrepareDefinesForPrePass(s, t, m.CanRenderToMRT())
	material_helper.PrepareDefinesForMisc(mesh, s, m.UseLogarithmicDepth(), m.PointsCloud(), m.FogEnabled(), m.AlphaTest(), t)
	material_helper.PrepareDefinesForCamera(s, t)
	material_helper.PrepareDefinesForFrameBoundValues(s, t, useInstances, m.ClipPlaneOverride(), mesh.HasThinInstances())
	material_helper.PrepareDefinesForAttributes(mesh, t, true, true, true, true)
	t.AreImageProcessingDirty = false

	if cache.NeedsCompile(t) {
		m.compile(mesh, t, maxLights)
	}

	textures := m.Textures()
	for _, sm := range material_helper.ShadowMaps(mesh, t, maxLights) {
		textures = append(textures, sm)
	}
	ready := cache.IsReady(textures...)
	if cache.State() == material.StateFailed && cache.ApplyFallback() {
		common.Logger().Debug("standard_material: compile failed, falling back",
			"material", m.Name(), "rank", cache.Fallbacks().CurrentRank())
		ready = cache.IsReady(textures...)
	}
	if ready {
		t.SetRenderID(s.RenderID())
	}
	return ready
}

// compile builds the fallbacks, attributes, uniforms and samplers of the current variant
// and hands them to the effect cache.
func (m *standardMaterial) compile(mesh model.Mesh, t *defines.Table, maxLights int) {
	fb := effect.NewFallbacks()
	if t.Bool(defines.Fog) {
		fb.AddFallback(1, defines.Fog)
	}
	if t.Bool(defines.PointSize) {
		fb.AddFallback(0, defines.PointSize)
	}
	if t.Bool(defines.LogarithmicDepth) {
		fb.AddFallback(0, defines.LogarithmicDepth)
	}
	if t.Bool(defines.SpecularTerm) {
		fb.AddFallback(0, defines.SpecularTerm)
	}
	if t.Bool(defines.Multiview) {
		fb.AddFallback(0, defines.Multiview)
	}
	material_helper.HandleFallbacksForShadows(t, fb, maxLights, 0)

	attribs := []string{string(model.KindPosition)}
	if t.Bool(defines.Normal) {
		attribs = append(attribs, string(model.KindNormal))
	}
	if t.Bool(defines.Tangent) {
		attribs = append(attribs, string(model.KindTangent))
	}
	for i, kind := range model.UVKinds {
		if t.Bool(defines.Indexed(defines.UV, i+1)) {
			attribs = append(attribs, string(kind))
		}
	}
	if t.Bool(defines.VertexColor) {
		attribs = append(attribs, string(model.KindColor))
	}
	if t.Bool(defines.InstancesColor) {
		attribs = append(attribs, string(model.KindColorInstance))
	}
	attribs = material_helper.PrepareAttributesForBones(attribs, mesh, t, fb)
	attribs = material_helper.PrepareAttributesForInstances(attribs, t)
	attribs = material_helper.PrepareAttributesForMorphTargets(attribs, mesh, t, m.r.Caps().MaxVertexAttribs)

	opts := effect.Options{
		Attributes:   attribs,
		UniformNames: append([]string(nil), standardUniforms...),
		Samplers:     []string{"diffuseSampler"},
		OnError:      m.OnError(),
	}
	material_helper.PrepareUniformsAndSamplersList(&opts, t, maxLights)

	m.Cache().Compile(t, material.Request{ShaderName: ShaderName, Options: opts}, fb)
}

func (m *standardMaterial) Bind(mesh model.Mesh, s scene.Scene, world mgl32.Mat4) {
	p := m.BoundProgram()
	if p == nil {
		return
	}
	t := m.Defines()

	p.SetMatrix("world", world)
	if cam := s.Camera(); cam != nil {
		p.SetMatrix("viewProjection", cam.ViewProjectionMatrix())
		p.SetColor4("vEyePosition", cam.Position(), 1)
	}
	p.SetColor4("vDiffuseColor", m.diffuseColor, m.alpha)
	p.SetColor4("vSpecularColor", m.specularColor, m.specularPower)
	if tex := m.Texture(DiffuseTextureName); tex != nil && t.Bool(defines.Diffuse) {
		p.SetTexture("diffuseSampler", tex)
	}
	if t.Bool(defines.AlphaTest) {
		p.SetFloat("alphaCutOff", m.alphaCutOff)
	}
	if t.Bool(defines.PointSize) {
		p.SetFloat("pointSize", m.pointSize)
	}

	material_helper.BindClipPlanes(s, p)
	material_helper.BindBonesParameters(mesh, p)
	material_helper.BindMorphTargetParameters(mesh, p)
	if !m.DisableLighting() {
		material_helper.BindLightsWithTable(s, mesh, p, t, m.MaxSimultaneousLights())
	}
	material_helper.BindFogParameters(s, mesh, p, false)
	material_helper.BindLogDepth(t, p, s)
}

func (m *standardMaterial) DiffuseColor() mgl32.Vec3 {
	return m.diffuseColor
}

func (m *standardMaterial) SetDiffuseColor(c mgl32.Vec3) {
	m.diffuseColor = c
}

func (m *standardMaterial) SpecularColor() mgl32.Vec3 {
	return m.specularColor
}

func (m *standardMaterial) SetSpecularColor(c mgl32.Vec3) {
	m.specularColor = c
}

func (m *standardMaterial) SpecularPower() float32 {
	return m.specularPower
}

func (m *standardMaterial) Alpha() float32 {
	return m.alpha
}

func (m *standardMaterial) SetAlpha(a float32) {
	m.alpha = common.Clamp(a, 0, 1)
}

func (m *standardMaterial) SetDiffuseTexture(tex material.Texture) {
	m.SetTexture(DiffuseTextureName, tex)
}
