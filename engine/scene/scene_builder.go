package scene

import (
	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/Carmen-Shannon/oxy-shade/engine/camera"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithCamera sets the active camera.
//
// Parameters:
//   - cam: the camera to make active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCamera(cam camera.Camera) SceneBuilderOption {
	return func(s *scene) {
		s.cam = cam
	}
}

// WithFog sets the fog settings.
//
// Parameters:
//   - f: the fog settings
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithFog(f Fog) SceneBuilderOption {
	return func(s *scene) {
		s.fog = f
	}
}

// WithShadowsEnabled sets whether shadows are rendered. Defaults to true.
//
// Parameters:
//   - b: true to render shadows
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithShadowsEnabled(b bool) SceneBuilderOption {
	return func(s *scene) {
		s.shadowsEnabled = b
	}
}

// WithLightsEnabled sets whether lights are applied. Defaults to true.
func WithLightsEnabled(b bool) SceneBuilderOption {
	return func(s *scene) {
		s.lightsEnabled = b
	}
}

// WithClipPlane fills clip plane slot i. Out of range slots are ignored.
//
// Parameters:
//   - i: the slot index in [0, common.MaxClipPlanes)
//   - p: the plane
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithClipPlane(i int, p common.Plane) SceneBuilderOption {
	return func(s *scene) {
		if i >= 0 && i < common.MaxClipPlanes {
			s.clipPlanes[i] = &p
		}
	}
}
