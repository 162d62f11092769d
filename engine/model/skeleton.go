package model

import (
	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/go-gl/mathgl/mgl32"
)

// BoneTexture holds the bone matrices of a skeleton laid out as one RGBA float texel row,
// four texels per matrix.
type BoneTexture struct {
	width int
	data  []float32
	ready bool
}

// Width returns the texture width in texels.
func (t *BoneTexture) Width() int {
	return t.width
}

// Data returns the texel data.
func (t *BoneTexture) Data() []float32 {
	return t.data
}

// IsReady reports whether the texture holds the skeleton's current matrices.
func (t *BoneTexture) IsReady() bool {
	return t.ready
}

// Skeleton represents a bone hierarchy for skeletal animation.
type Skeleton struct {
	name  string
	bones []Bone

	useTexture bool
	dirty      bool
	worlds     []mgl32.Mat4
	finals     []mgl32.Mat4
	matrices   []float32
	texture    *BoneTexture
}

// NewSkeleton creates a skeleton from bones. Parents must precede their children.
//
// Parameters:
//   - name: the skeleton identifier
//   - bones: the bone hierarchy
//
// Returns:
//   - *Skeleton: the new skeleton
func NewSkeleton(name string, bones ...Bone) *Skeleton {
	return &Skeleton{
		name:   name,
		bones:  bones,
		dirty:  true,
		worlds: make([]mgl32.Mat4, len(bones)),
		finals: make([]mgl32.Mat4, len(bones)+1),
	}
}

// Name returns the skeleton identifier.
func (s *Skeleton) Name() string {
	return s.name
}

// Bones returns the bone hierarchy.
func (s *Skeleton) Bones() []Bone {
	return s.bones
}

// BoneCount returns the number of bones.
func (s *Skeleton) BoneCount() int {
	return len(s.bones)
}

// UseTextureToStoreBoneMatrices reports whether the skeleton asks for its matrices to be
// sampled from a texture instead of a uniform array.
func (s *Skeleton) UseTextureToStoreBoneMatrices() bool {
	return s.useTexture
}

// SetUseTextureToStoreBoneMatrices sets whether matrices are sampled from a texture.
// Renderers without float texture support fall back to the uniform array.
func (s *Skeleton) SetUseTextureToStoreBoneMatrices(b bool) {
	s.useTexture = b
}

// SetLocalTransform sets the local transform of bone i.
//
// Parameters:
//   - i: the bone index
//   - t: the transform relative to the parent bone
func (s *Skeleton) SetLocalTransform(i int, t Transform) {
	if i < 0 || i >= len(s.bones) {
		return
	}
	s.bones[i].LocalTransform = t
	s.dirty = true
}

// Prepare recomputes the skinning matrices if a bone moved since the last call.
func (s *Skeleton) Prepare() {
	if !s.dirty {
		return
	}
	for i, b := range s.bones {
		local := common.ComposeTRS(b.LocalTransform.Translation, b.LocalTransform.Rotation, b.LocalTransform.Scale)
		if p := int(b.ParentIndex); p >= 0 && p < i {
			s.worlds[i] = s.worlds[p].Mul4(local)
		} else {
			s.worlds[i] = local
		}
		s.finals[i] = s.worlds[i].Mul4(b.InverseBindMatrix)
	}
	// the trailing slot stays identity for unskinned vertices
	s.finals[len(s.bones)] = mgl32.Ident4()
	s.matrices = common.FlattenMatrices(s.matrices, s.finals)
	s.dirty = false
	if s.texture != nil {
		s.texture.data = s.matrices
		s.texture.ready = true
	}
}

// TransformMatrices returns the flattened skinning matrices, one per bone followed by an
// identity matrix.
//
// Returns:
//   - []float32: 16*(BoneCount()+1) floats in column-major order
func (s *Skeleton) TransformMatrices() []float32 {
	s.Prepare()
	return s.matrices
}

// TransformMatrixTexture returns the texture view of the skinning matrices.
//
// Returns:
//   - *BoneTexture: the bone texture, 4*(BoneCount()+1) texels wide
func (s *Skeleton) TransformMatrixTexture() *BoneTexture {
	if s.texture == nil {
		s.texture = &BoneTexture{width: 4 * (len(s.bones) + 1)}
		s.dirty = true
	}
	s.Prepare()
	return s.texture
}
