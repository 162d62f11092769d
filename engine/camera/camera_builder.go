package camera

import "github.com/go-gl/mathgl/mgl32"

type CameraBuilderOption func(*cameraImpl)

// WithMode sets the camera's projection mode.
//
// Parameters:
//   - mode: ModePerspective or ModeOrthographic
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's mode
func WithMode(mode Mode) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.mode = mode
	}
}

// WithPosition sets the camera's eye position and look-at target.
//
// Parameters:
//   - position: the eye position
//   - target: the point to look at
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's position and target
func WithPosition(position, target mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.position = position
		c.target = target
	}
}

// WithFov sets the camera's field of view in radians.
//
// Parameters:
//   - fov: field of view in radians
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's field of view
func WithFov(fov float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = fov
	}
}

// WithAspect sets the camera's aspect ratio (width / height).
//
// Parameters:
//   - aspect: the aspect ratio to set
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's aspect ratio
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.aspect = aspect
	}
}

// WithClipRange sets the near and far clipping plane distances.
//
// Parameters:
//   - minZ: near plane distance
//   - maxZ: far plane distance
//
// Returns:
//   - CameraBuilderOption: functional option to set the clip range
func WithClipRange(minZ, maxZ float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.minZ = minZ
		c.maxZ = maxZ
	}
}

// WithOrthoBox sets the orthographic projection box.
//
// Parameters:
//   - left, right, bottom, top: the box extents in view space
//
// Returns:
//   - CameraBuilderOption: functional option to set the orthographic box
func WithOrthoBox(left, right, bottom, top float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.orthoLeft, c.orthoRight, c.orthoBottom, c.orthoTop = left, right, bottom, top
	}
}

// WithOutputViewCount sets the view count of the camera's output render target.
// A value above 1 renders with multiview.
//
// Parameters:
//   - n: the number of views
//
// Returns:
//   - CameraBuilderOption: functional option to set the view count
func WithOutputViewCount(n int) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.outputViewCount = n
	}
}
