package camera

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// Mode selects the projection of a camera.
type Mode int

const (
	// ModePerspective projects with a field of view.
	ModePerspective Mode = iota

	// ModeOrthographic projects with a fixed box.
	ModeOrthographic
)

type cameraImpl struct {
	mu *sync.Mutex

	mode     Mode
	position mgl32.Vec3
	target   mgl32.Vec3
	up       mgl32.Vec3

	fov    float32
	aspect float32
	minZ   float32
	maxZ   float32

	orthoLeft, orthoRight, orthoBottom, orthoTop float32

	outputViewCount int

	viewMatrix           mgl32.Mat4
	projectionMatrix     mgl32.Mat4
	viewProjectionMatrix mgl32.Mat4
}

// Camera defines the interface for the active camera of a scene. It holds the projection
// settings the define deriver and the binder read, and computes view/projection matrices.
type Camera interface {
	// Mode returns the projection mode.
	//
	// Returns:
	//   - Mode: ModePerspective or ModeOrthographic
	Mode() Mode

	// Position returns the world-space eye position.
	//
	// Returns:
	//   - mgl32.Vec3: the eye position
	Position() mgl32.Vec3

	// Target returns the world-space point the camera looks at.
	//
	// Returns:
	//   - mgl32.Vec3: the target
	Target() mgl32.Vec3

	// Fov returns the field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// MinZ returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	MinZ() float32

	// MaxZ returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	MaxZ() float32

	// OutputViewCount returns the number of views of the camera's output render target.
	// A value above 1 renders with multiview.
	//
	// Returns:
	//   - int: the view count, 0 when the camera renders to the default target
	OutputViewCount() int

	// ViewMatrix returns the current view matrix.
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the current projection matrix.
	ProjectionMatrix() mgl32.Mat4

	// ViewProjectionMatrix returns the current combined view-projection matrix.
	ViewProjectionMatrix() mgl32.Mat4

	// SetMode sets the projection mode and recomputes matrices.
	SetMode(mode Mode)

	// SetPosition sets the eye position and recomputes matrices.
	SetPosition(p mgl32.Vec3)

	// SetTarget sets the look-at target and recomputes matrices.
	SetTarget(t mgl32.Vec3)

	// SetMinZ sets the near clipping plane distance and recomputes matrices.
	SetMinZ(z float32)

	// SetMaxZ sets the far clipping plane distance and recomputes matrices.
	SetMaxZ(z float32)

	// SetOutputViewCount sets the view count of the output render target.
	SetOutputViewCount(n int)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new perspective Camera at (0, 0, -10) looking at the origin.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:          &sync.Mutex{},
		mode:        ModePerspective,
		position:    mgl32.Vec3{0, 0, -10},
		up:          mgl32.Vec3{0, 1, 0},
		fov:         mgl32.DegToRad(45),
		aspect:      1,
		minZ:        1,
		maxZ:        10000,
		orthoLeft:   -1,
		orthoRight:  1,
		orthoBottom: -1,
		orthoTop:    1,
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) Target() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) MinZ() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.minZ
}

func (c *cameraImpl) MaxZ() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.maxZ
}

func (c *cameraImpl) OutputViewCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outputViewCount
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) SetMode(mode Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = mode
	c.updateMatrices()
}

func (c *cameraImpl) SetPosition(p mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = p
	c.updateMatrices()
}

func (c *cameraImpl) SetTarget(t mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = t
	c.updateMatrices()
}

func (c *cameraImpl) SetMinZ(z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.minZ = z
	c.updateMatrices()
}

func (c *cameraImpl) SetMaxZ(z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maxZ = z
	c.updateMatrices()
}

func (c *cameraImpl) SetOutputViewCount(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outputViewCount = n
}

// updateMatrices recalculates the view, projection and view-projection matrices.
// Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	c.viewMatrix = mgl32.LookAtV(c.position, c.target, c.up)
	if c.mode == ModeOrthographic {
		c.projectionMatrix = mgl32.Ortho(c.orthoLeft, c.orthoRight, c.orthoBottom, c.orthoTop, c.minZ, c.maxZ)
	} else {
		c.projectionMatrix = mgl32.Perspective(c.fov, c.aspect, c.minZ, c.maxZ)
	}
	c.viewProjectionMatrix = c.projectionMatrix.Mul4(c.viewMatrix)
}
