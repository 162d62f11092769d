package model

import (
	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/Carmen-Shannon/oxy-shade/engine/light"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/effect"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

// Container is the view of the owning scene a mesh needs.
type Container interface {
	// Meshes returns every mesh of the scene.
	Meshes() []Mesh

	// PrePassExcludes reports whether a prepass renderer is active and whether m is
	// excluded from its skinned velocity output.
	PrePassExcludes(m Mesh) (active, excluded bool)

	// SupportsFloatTextures reports whether the renderer can sample float textures,
	// which bone and morph target textures require.
	SupportsFloatTextures() bool
}

// Instance is a lightweight copy of a mesh drawn with the source mesh's material.
type Instance interface {
	Name() string
	WorldMatrix() mgl32.Mat4
}

// mesh is the implementation of the Mesh interface.
type mesh struct {
	name  string
	scene Container

	kinds map[VertexKind]bool

	skeleton                 *Skeleton
	numBoneInfluencers       int
	computeBonesUsingShaders bool
	morphTargetManager       *MorphTargetManager

	lightSources      []light.Light
	receiveShadows    bool
	applyFog          bool
	nonUniformScaling bool
	useVertexColors   bool
	hasVertexAlpha    bool

	instances         []Instance
	thinInstanceCount int
	renderingGroupID  int

	material    material.Material
	worldMatrix mgl32.Mat4
}

// Mesh defines the interface for a drawable mesh as the define deriver and the binder
// read it: vertex buffer kinds, skinning and morph configuration, affecting lights and
// per-mesh switches.
//
// Setters mark the define groups of the mesh's material that depend on them as dirty.
type Mesh interface {
	effect.SkinnedMesh

	// Name retrieves the mesh identifier.
	//
	// Returns:
	//   - string: the mesh name
	Name() string

	// Scene returns the scene the mesh was added to, or nil.
	//
	// Returns:
	//   - Container: the owning scene
	Scene() Container

	// SetScene records the owning scene. Called by the scene when the mesh is added.
	//
	// Parameters:
	//   - c: the owning scene, or nil when removed
	SetScene(c Container)

	// IsVerticesDataPresent reports whether the mesh carries a vertex buffer of kind.
	//
	// Parameters:
	//   - kind: the vertex buffer kind
	//
	// Returns:
	//   - bool: true if the buffer is present
	IsVerticesDataPresent(kind VertexKind) bool

	// SetVerticesData declares or removes a vertex buffer kind.
	//
	// Parameters:
	//   - kind: the vertex buffer kind
	//   - present: true to declare the buffer, false to remove it
	SetVerticesData(kind VertexKind, present bool)

	// Skeleton returns the bone hierarchy driving the mesh, or nil.
	Skeleton() *Skeleton

	// SetSkeleton attaches a skeleton. Pass nil to detach.
	SetSkeleton(s *Skeleton)

	// SetNumBoneInfluencers sets the number of bones per vertex, clamped to [0, MaxBoneInfluencers].
	SetNumBoneInfluencers(n int)

	// UseBones reports whether the mesh is skinned: a skeleton, at least one influencer
	// and both bone index and weight buffers.
	UseBones() bool

	// MorphTargetManager returns the morph target manager, or nil.
	MorphTargetManager() *MorphTargetManager

	// SetMorphTargetManager attaches a morph target manager. Pass nil to detach.
	SetMorphTargetManager(m *MorphTargetManager)

	// LightSources returns the lights affecting the mesh, in scene order.
	LightSources() []light.Light

	// SetLightSources replaces the lights affecting the mesh.
	SetLightSources(lights []light.Light)

	// ReceiveShadows reports whether the mesh samples shadow maps.
	ReceiveShadows() bool

	// SetReceiveShadows sets whether the mesh samples shadow maps.
	SetReceiveShadows(b bool)

	// ApplyFog reports whether the mesh opts in to scene fog.
	ApplyFog() bool

	// SetApplyFog sets whether the mesh opts in to scene fog.
	SetApplyFog(b bool)

	// NonUniformScaling reports whether the world matrix scales axes differently.
	NonUniformScaling() bool

	// UseVertexColors reports whether vertex colors are used when present.
	UseVertexColors() bool

	// SetUseVertexColors sets whether vertex colors are used when present.
	SetUseVertexColors(b bool)

	// HasVertexAlpha reports whether the vertex colors carry alpha.
	HasVertexAlpha() bool

	// SetHasVertexAlpha sets whether the vertex colors carry alpha.
	SetHasVertexAlpha(b bool)

	// Instances returns the instances of the mesh.
	Instances() []Instance

	// AddInstance registers an instance drawn with this mesh.
	AddInstance(i Instance)

	// RemoveInstance unregisters an instance.
	RemoveInstance(i Instance)

	// HasInstances reports whether the mesh has instances.
	HasInstances() bool

	// ThinInstanceCount returns the number of thin instances.
	ThinInstanceCount() int

	// SetThinInstanceCount sets the number of thin instances.
	SetThinInstanceCount(n int)

	// HasThinInstances reports whether the mesh has thin instances.
	HasThinInstances() bool

	// RenderingGroupID returns the rendering group of the mesh.
	RenderingGroupID() int

	// SetRenderingGroupID sets the rendering group of the mesh.
	SetRenderingGroupID(id int)

	// Material returns the material of the mesh, or nil.
	Material() material.Material

	// SetMaterial assigns a material. Pass nil to clear it.
	SetMaterial(m material.Material)

	// WorldMatrix returns the world matrix.
	WorldMatrix() mgl32.Mat4

	// SetTransform sets the world matrix from translation, rotation and scale.
	//
	// Parameters:
	//   - t: translation
	//   - r: rotation quaternion
	//   - s: scale
	SetTransform(t mgl32.Vec3, r mgl32.Quat, s mgl32.Vec3)
}

var _ Mesh = &mesh{}

// NewMesh creates a new Mesh with the specified options applied. The mesh computes
// bones on the GPU, applies fog and uses vertex colors unless configured otherwise.
//
// Parameters:
//   - options: a variadic list of MeshBuilderOption functions to configure the Mesh
//
// Returns:
//   - Mesh: a new Mesh instance
func NewMesh(options ...MeshBuilderOption) Mesh {
	m := &mesh{
		kinds:                    map[VertexKind]bool{KindPosition: true},
		computeBonesUsingShaders: true,
		applyFog:                 true,
		useVertexColors:          true,
		worldMatrix:              mgl32.Ident4(),
	}
	for _, opt := range options {
		opt(m)
	}
	if m.morphTargetManager != nil {
		m.morphTargetManager.onChange = m.markAttributesDirty
	}
	return m
}

func (m *mesh) Name() string {
	return m.name
}

func (m *mesh) Scene() Container {
	return m.scene
}

func (m *mesh) SetScene(c Container) {
	m.scene = c
}

func (m *mesh) IsVerticesDataPresent(kind VertexKind) bool {
	return m.kinds[kind]
}

func (m *mesh) SetVerticesData(kind VertexKind, present bool) {
	if m.kinds[kind] == present {
		return
	}
	if present {
		m.kinds[kind] = true
	} else {
		delete(m.kinds, kind)
	}
	m.markAttributesDirty()
}

func (m *mesh) Skeleton() *Skeleton {
	return m.skeleton
}

func (m *mesh) SetSkeleton(s *Skeleton) {
	if m.skeleton == s {
		return
	}
	m.skeleton = s
	m.markAttributesDirty()
}

func (m *mesh) NumBoneInfluencers() int {
	return m.numBoneInfluencers
}

func (m *mesh) SetNumBoneInfluencers(n int) {
	n = common.Clamp(n, 0, MaxBoneInfluencers)
	if m.numBoneInfluencers == n {
		return
	}
	m.numBoneInfluencers = n
	m.markAttributesDirty()
}

func (m *mesh) ComputeBonesUsingShaders() bool {
	return m.computeBonesUsingShaders
}

func (m *mesh) SetComputeBonesUsingShaders(b bool) {
	if m.computeBonesUsingShaders == b {
		return
	}
	m.computeBonesUsingShaders = b
	m.markAttributesDirty()
}

func (m *mesh) UseBones() bool {
	return m.skeleton != nil && m.numBoneInfluencers > 0 &&
		m.kinds[KindMatricesIndices] && m.kinds[KindMatricesWeights]
}

func (m *mesh) MorphTargetManager() *MorphTargetManager {
	return m.morphTargetManager
}

func (m *mesh) SetMorphTargetManager(mgr *MorphTargetManager) {
	if m.morphTargetManager == mgr {
		return
	}
	if m.morphTargetManager != nil {
		m.morphTargetManager.onChange = nil
	}
	m.morphTargetManager = mgr
	if mgr != nil {
		mgr.onChange = m.markAttributesDirty
	}
	m.markAttributesDirty()
}

func (m *mesh) LightSources() []light.Light {
	return m.lightSources
}

func (m *mesh) SetLightSources(lights []light.Light) {
	m.lightSources = lights
	m.markDirty(material.DirtyLights)
}

func (m *mesh) ReceiveShadows() bool {
	return m.receiveShadows
}

func (m *mesh) SetReceiveShadows(b bool) {
	if m.receiveShadows == b {
		return
	}
	m.receiveShadows = b
	m.markDirty(material.DirtyLights)
}

func (m *mesh) ApplyFog() bool {
	return m.applyFog
}

func (m *mesh) SetApplyFog(b bool) {
	if m.applyFog == b {
		return
	}
	m.applyFog = b
	m.markDirty(material.DirtyMisc)
}

func (m *mesh) NonUniformScaling() bool {
	return m.nonUniformScaling
}

func (m *mesh) UseVertexColors() bool {
	return m.useVertexColors
}

func (m *mesh) SetUseVertexColors(b bool) {
	if m.useVertexColors == b {
		return
	}
	m.useVertexColors = b
	m.markAttributesDirty()
}

func (m *mesh) HasVertexAlpha() bool {
	return m.hasVertexAlpha
}

func (m *mesh) SetHasVertexAlpha(b bool) {
	if m.hasVertexAlpha == b {
		return
	}
	m.hasVertexAlpha = b
	m.markAttributesDirty()
}

func (m *mesh) Instances() []Instance {
	return m.instances
}

func (m *mesh) AddInstance(i Instance) {
	m.instances = append(m.instances, i)
	if len(m.instances) == 1 {
		m.markAttributesDirty()
	}
}

func (m *mesh) RemoveInstance(i Instance) {
	for idx, o := range m.instances {
		if o == i {
			m.instances = append(m.instances[:idx], m.instances[idx+1:]...)
			if len(m.instances) == 0 {
				m.markAttributesDirty()
			}
			return
		}
	}
}

func (m *mesh) HasInstances() bool {
	return len(m.instances) > 0
}

func (m *mesh) ThinInstanceCount() int {
	return m.thinInstanceCount
}

func (m *mesh) SetThinInstanceCount(n int) {
	m.thinInstanceCount = max(n, 0)
}

func (m *mesh) HasThinInstances() bool {
	return m.thinInstanceCount > 0
}

func (m *mesh) RenderingGroupID() int {
	return m.renderingGroupID
}

func (m *mesh) SetRenderingGroupID(id int) {
	m.renderingGroupID = id
}

func (m *mesh) Material() material.Material {
	return m.material
}

func (m *mesh) SetMaterial(mat material.Material) {
	m.material = mat
	if mat != nil {
		mat.MarkAsDirty(material.DirtyAll)
	}
}

func (m *mesh) HasMaterial() bool {
	return m.material != nil
}

func (m *mesh) UsesProgram(p *effect.Program) bool {
	return p != nil && m.material != nil && m.material.Program() == p
}

func (m *mesh) SceneMeshes() []effect.SkinnedMesh {
	if m.scene == nil {
		return nil
	}
	meshes := m.scene.Meshes()
	out := make([]effect.SkinnedMesh, 0, len(meshes))
	for _, o := range meshes {
		out = append(out, o)
	}
	return out
}

func (m *mesh) WorldMatrix() mgl32.Mat4 {
	return m.worldMatrix
}

func (m *mesh) SetTransform(t mgl32.Vec3, r mgl32.Quat, s mgl32.Vec3) {
	m.worldMatrix = common.ComposeTRS(t, r, s)
	nonUniform := s[0] != s[1] || s[1] != s[2]
	if nonUniform != m.nonUniformScaling {
		m.nonUniformScaling = nonUniform
		m.markDirty(material.DirtyMisc)
	}
}

func (m *mesh) markAttributesDirty() {
	m.markDirty(material.DirtyAttributes)
}

func (m *mesh) markDirty(flags material.DirtyFlag) {
	if m.material != nil {
		m.material.MarkAsDirty(flags)
	}
}
