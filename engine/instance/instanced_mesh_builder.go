package instance

import "github.com/go-gl/mathgl/mgl32"

// InstancedMeshBuilderOption is a functional option for configuring an InstancedMesh during construction.
type InstancedMeshBuilderOption func(*instancedMesh)

// WithName sets the instance name. Defaults to the source name with an ".instance" suffix.
//
// Parameters:
//   - name: the instance name
//
// Returns:
//   - InstancedMeshBuilderOption: functional option to set the name
func WithName(name string) InstancedMeshBuilderOption {
	return func(im *instancedMesh) {
		im.name = name
	}
}

// WithEnabled sets whether the instance is drawn.
//
// Parameters:
//   - enabled: true to draw the instance
//
// Returns:
//   - InstancedMeshBuilderOption: functional option to set the Enabled state
func WithEnabled(enabled bool) InstancedMeshBuilderOption {
	return func(im *instancedMesh) {
		im.enabled.Store(enabled)
	}
}

// WithTransform sets the initial translation, rotation and scale.
//
// Parameters:
//   - t: translation
//   - r: rotation
//   - s: scale
//
// Returns:
//   - InstancedMeshBuilderOption: functional option to set the transform
func WithTransform(t mgl32.Vec3, r mgl32.Quat, s mgl32.Vec3) InstancedMeshBuilderOption {
	return func(im *instancedMesh) {
		im.position = t
		im.rotation = r
		im.scale = s
		im.worldDirty = true
	}
}
