package instance

import (
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/Carmen-Shannon/oxy-shade/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// instancedMesh is the implementation of the InstancedMesh interface.
type instancedMesh struct {
	name    string
	source  model.Mesh
	enabled atomic.Bool

	position mgl32.Vec3
	rotation mgl32.Quat
	scale    mgl32.Vec3

	world      mgl32.Mat4
	worldDirty bool
}

// InstancedMesh defines the interface for a lightweight copy of a source mesh. An instance has
// its own transform but draws with the source mesh's geometry, material and rendering group,
// so the source's material selects the INSTANCES variant while instances are attached.
type InstancedMesh interface {
	model.Instance

	// Source returns the mesh this instance copies.
	//
	// Returns:
	//   - model.Mesh: the source mesh
	Source() model.Mesh

	// Enabled returns whether this instance is drawn.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetEnabled sets whether this instance is drawn.
	//
	// Parameters:
	//   - enabled: true to draw the instance
	SetEnabled(enabled bool)

	// Position returns the instance translation.
	Position() mgl32.Vec3

	// SetPosition sets the instance translation.
	SetPosition(p mgl32.Vec3)

	// Rotation returns the instance rotation.
	Rotation() mgl32.Quat

	// SetRotation sets the instance rotation.
	SetRotation(q mgl32.Quat)

	// Scale returns the instance scale.
	Scale() mgl32.Vec3

	// SetScale sets the instance scale.
	SetScale(s mgl32.Vec3)

	// RenderingGroupID returns the rendering group of the source mesh.
	//
	// Returns:
	//   - int: the source's rendering group
	RenderingGroupID() int

	// SetRenderingGroupID does nothing: instances always render in their source's group.
	// Calling it logs a warning.
	//
	// Parameters:
	//   - id: the ignored rendering group
	SetRenderingGroupID(id int)

	// Dispose detaches the instance from its source mesh.
	Dispose()
}

var _ InstancedMesh = &instancedMesh{}

// NewInstancedMesh creates an instance of source and registers it with source. Adding the first
// instance marks the source material's attributes dirty.
//
// Parameters:
//   - source: the mesh to copy
//   - options: variadic list of InstancedMeshBuilderOption functions
//
// Returns:
//   - InstancedMesh: the new instance
func NewInstancedMesh(source model.Mesh, options ...InstancedMeshBuilderOption) InstancedMesh {
	if source == nil {
		panic("instance: NewInstancedMesh requires a non-nil source Mesh")
	}
	im := &instancedMesh{
		name:       source.Name() + ".instance",
		source:     source,
		rotation:   mgl32.QuatIdent(),
		scale:      mgl32.Vec3{1, 1, 1},
		worldDirty: true,
	}
	im.enabled.Store(true)
	for _, option := range options {
		option(im)
	}
	source.AddInstance(im)
	return im
}

func (im *instancedMesh) Name() string {
	return im.name
}

func (im *instancedMesh) Source() model.Mesh {
	return im.source
}

func (im *instancedMesh) Enabled() bool {
	return im.enabled.Load()
}

func (im *instancedMesh) SetEnabled(enabled bool) {
	im.enabled.Store(enabled)
}

func (im *instancedMesh) Position() mgl32.Vec3 {
	return im.position
}

func (im *instancedMesh) SetPosition(p mgl32.Vec3) {
	im.position = p
	im.worldDirty = true
}

func (im *instancedMesh) Rotation() mgl32.Quat {
	return im.rotation
}

func (im *instancedMesh) SetRotation(q mgl32.Quat) {
	im.rotation = q
	im.worldDirty = true
}

func (im *instancedMesh) Scale() mgl32.Vec3 {
	return im.scale
}

func (im *instancedMesh) SetScale(s mgl32.Vec3) {
	im.scale = s
	im.worldDirty = true
}

func (im *instancedMesh) WorldMatrix() mgl32.Mat4 {
	if im.worldDirty {
		im.world = common.ComposeTRS(im.position, im.rotation, im.scale)
		im.worldDirty = false
	}
	return im.world
}

func (im *instancedMesh) RenderingGroupID() int {
	return im.source.RenderingGroupID()
}

func (im *instancedMesh) SetRenderingGroupID(id int) {
	common.Logger().Warn("instance: rendering group of an instanced mesh follows its source",
		"instance", im.name, "source", im.source.Name(), "id", id)
}

func (im *instancedMesh) Dispose() {
	im.source.RemoveInstance(im)
}
