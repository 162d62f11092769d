package model

import "github.com/go-gl/mathgl/mgl32"

// VertexKind names a vertex buffer a mesh may carry.
type VertexKind string

const (
	KindPosition             VertexKind = "position"
	KindNormal               VertexKind = "normal"
	KindTangent              VertexKind = "tangent"
	KindUV                   VertexKind = "uv"
	KindUV2                  VertexKind = "uv2"
	KindUV3                  VertexKind = "uv3"
	KindUV4                  VertexKind = "uv4"
	KindUV5                  VertexKind = "uv5"
	KindUV6                  VertexKind = "uv6"
	KindColor                VertexKind = "color"
	KindColorInstance        VertexKind = "instanceColor"
	KindMatricesIndices      VertexKind = "matricesIndices"
	KindMatricesWeights      VertexKind = "matricesWeights"
	KindMatricesIndicesExtra VertexKind = "matricesIndicesExtra"
	KindMatricesWeightsExtra VertexKind = "matricesWeightsExtra"
)

// UVKinds lists the texture coordinate kinds, first set first.
var UVKinds = [6]VertexKind{KindUV, KindUV2, KindUV3, KindUV4, KindUV5, KindUV6}

// MaxBoneInfluencers is the largest number of bones that may influence one vertex.
const MaxBoneInfluencers = 8

// Transform represents a decomposed transform.
type Transform struct {
	// Translation is the position offset.
	Translation mgl32.Vec3

	// Rotation is the orientation quaternion.
	Rotation mgl32.Quat

	// Scale is the scale factor along each axis.
	Scale mgl32.Vec3
}

// IdentityTransform returns a transform with no translation, no rotation and unit scale.
func IdentityTransform() Transform {
	return Transform{Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{1, 1, 1}}
}

// Bone represents a single bone in a skeleton hierarchy.
type Bone struct {
	// Name is the bone's identifier (for debugging and animation targeting).
	Name string

	// ParentIndex is the index of the parent bone (-1 for root bones). Parents must
	// precede their children.
	ParentIndex int32

	// InverseBindMatrix transforms from model space to bone space at bind pose.
	InverseBindMatrix mgl32.Mat4

	// LocalTransform is the bone's transform relative to its parent.
	LocalTransform Transform
}
