package model

import (
	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/material"
)

// MeshBuilderOption is a function that configures a Mesh during construction.
type MeshBuilderOption func(*mesh)

// WithName sets the name of the Mesh.
//
// Parameters:
//   - name: the name to assign to the mesh
//
// Returns:
//   - MeshBuilderOption: a function that sets the mesh's name
func WithName(name string) MeshBuilderOption {
	return func(m *mesh) {
		m.name = name
	}
}

// WithVertexKinds declares the vertex buffers the mesh carries.
//
// Parameters:
//   - kinds: the vertex buffer kinds
//
// Returns:
//   - MeshBuilderOption: a function that declares the buffers
func WithVertexKinds(kinds ...VertexKind) MeshBuilderOption {
	return func(m *mesh) {
		for _, k := range kinds {
			m.kinds[k] = true
		}
	}
}

// WithSkeleton attaches a skeleton with n bone influencers per vertex.
//
// Parameters:
//   - s: the skeleton
//   - n: bone influencers per vertex, clamped to [0, MaxBoneInfluencers]
//
// Returns:
//   - MeshBuilderOption: a function that attaches the skeleton
func WithSkeleton(s *Skeleton, n int) MeshBuilderOption {
	return func(m *mesh) {
		m.skeleton = s
		m.numBoneInfluencers = common.Clamp(n, 0, MaxBoneInfluencers)
	}
}

// WithComputeBonesUsingShaders sets whether skinning runs on the GPU. Defaults to true.
func WithComputeBonesUsingShaders(b bool) MeshBuilderOption {
	return func(m *mesh) {
		m.computeBonesUsingShaders = b
	}
}

// WithMorphTargetManager attaches a morph target manager.
func WithMorphTargetManager(mgr *MorphTargetManager) MeshBuilderOption {
	return func(m *mesh) {
		m.morphTargetManager = mgr
	}
}

// WithReceiveShadows sets whether the mesh samples shadow maps.
func WithReceiveShadows(b bool) MeshBuilderOption {
	return func(m *mesh) {
		m.receiveShadows = b
	}
}

// WithApplyFog sets whether the mesh opts in to scene fog. Defaults to true.
func WithApplyFog(b bool) MeshBuilderOption {
	return func(m *mesh) {
		m.applyFog = b
	}
}

// WithVertexColors sets whether vertex colors are used and whether they carry alpha.
//
// Parameters:
//   - use: use vertex colors when present
//   - alpha: the vertex colors carry alpha
//
// Returns:
//   - MeshBuilderOption: a function that sets both switches
func WithVertexColors(use, alpha bool) MeshBuilderOption {
	return func(m *mesh) {
		m.useVertexColors = use
		m.hasVertexAlpha = alpha
	}
}

// WithThinInstances sets the number of thin instances.
func WithThinInstances(n int) MeshBuilderOption {
	return func(m *mesh) {
		m.thinInstanceCount = max(n, 0)
	}
}

// WithMaterial assigns the mesh's material.
func WithMaterial(mat material.Material) MeshBuilderOption {
	return func(m *mesh) {
		m.material = mat
	}
}
