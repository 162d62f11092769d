package material_helper

import (
	"strconv"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/Carmen-Shannon/oxy-shade/engine/model"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/defines"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/effect"
)

// PrepareDefinesForAttributes derives the vertex attribute defines of t. It only runs
// when t.AreAttributesDirty is set or the normals or UV requirement changed since the
// last pass.
//
// Parameters:
//   - mesh: the mesh being drawn
//   - t: the define table to update
//   - useVertexColor: whether the material reads vertex colors
//   - useBones: whether to derive the bone defines
//   - useMorphTargets: whether to derive the morph target defines
//   - useVertexAlpha: whether the material reads vertex alpha
//
// Returns:
//   - bool: true if the attribute defines were derived
func PrepareDefinesForAttributes(mesh model.Mesh, t *defines.Table, useVertexColor, useBones, useMorphTargets, useVertexAlpha bool) bool {
	if !t.AreAttributesDirty && t.NeedNormals == t.Normals && t.NeedUVs == t.UVs {
		return false
	}

	t.Normals = t.NeedNormals
	t.UVs = t.NeedUVs

	t.SetBool(defines.Normal, t.NeedNormals && mesh.IsVerticesDataPresent(model.KindNormal))
	t.SetBool(defines.Tangent, t.NeedNormals && mesh.IsVerticesDataPresent(model.KindTangent))

	for i, kind := range model.UVKinds {
		t.SetBool(defines.Indexed(defines.UV, i+1), t.NeedUVs && mesh.IsVerticesDataPresent(kind))
	}

	if useVertexColor {
		hasVertexColors := mesh.UseVertexColors() && mesh.IsVerticesDataPresent(model.KindColor)
		t.SetBool(defines.VertexColor, hasVertexColors)
		t.SetBool(defines.VertexAlpha, mesh.HasVertexAlpha() && hasVertexColors && useVertexAlpha)
	}

	t.SetBool(defines.InstancesColor, mesh.IsVerticesDataPresent(model.KindColorInstance) &&
		(mesh.HasInstances() || mesh.HasThinInstances()))

	if useBones {
		PrepareDefinesForBones(mesh, t)
	}
	if useMorphTargets {
		PrepareDefinesForMorphTargets(mesh, t)
	}

	t.AreAttributesDirty = false
	return true
}

// PrepareDefinesForBones derives the skinning defines of t. Bone matrices are read from a
// texture only when the skeleton asks for it, the renderer supports float textures and the
// material declares BONETEXTURE; otherwise they go through a uniform array sized BonesPerMesh.
//
// Parameters:
//   - mesh: the mesh being drawn
//   - t: the define table to update
func PrepareDefinesForBones(mesh model.Mesh, t *defines.Table) {
	sk := mesh.Skeleton()
	if !mesh.UseBones() || !mesh.ComputeBonesUsingShaders() || sk == nil {
		t.SetInt(defines.NumBoneInfluencers, 0)
		t.SetInt(defines.BonesPerMesh, 0)
		if t.Declares(defines.BoneTexture) {
			t.SetBool(defines.BoneTexture, false)
		}
		t.SetBool(defines.BonesVelocityEnabled, false)
		return
	}

	t.SetInt(defines.NumBoneInfluencers, mesh.NumBoneInfluencers())

	floatTextures := mesh.Scene() != nil && mesh.Scene().SupportsFloatTextures()
	if sk.UseTextureToStoreBoneMatrices() && floatTextures && t.Declares(defines.BoneTexture) {
		t.SetBool(defines.BoneTexture, true)
		t.SetBool(defines.BonesVelocityEnabled, false)
		return
	}

	t.SetInt(defines.BonesPerMesh, sk.BoneCount()+1)
	if t.Declares(defines.BoneTexture) {
		t.SetBool(defines.BoneTexture, false)
	}
	velocity := false
	if c := mesh.Scene(); c != nil {
		if active, excluded := c.PrePassExcludes(mesh); active {
			velocity = !excluded
		}
	}
	t.SetBool(defines.BonesVelocityEnabled, velocity)
}

// PrepareDefinesForMorphTargets derives the morph target defines of t. A channel define is
// only set when the manager supports the channel and the mesh carries the base buffer.
//
// Parameters:
//   - mesh: the mesh being drawn
//   - t: the define table to update
func PrepareDefinesForMorphTargets(mesh model.Mesh, t *defines.Table) {
	mgr := mesh.MorphTargetManager()
	if mgr == nil {
		t.SetBool(defines.MorphTargetsUV, false)
		t.SetBool(defines.MorphTargetsTangent, false)
		t.SetBool(defines.MorphTargetsNormal, false)
		t.SetBool(defines.MorphTargets, false)
		t.SetBool(defines.MorphTargetsTexture, false)
		t.SetInt(defines.NumMorphInfluencers, 0)
		return
	}

	t.SetBool(defines.MorphTargetsUV, mgr.SupportsUVs() && t.Bool(defines.UV1))
	t.SetBool(defines.MorphTargetsTangent, mgr.SupportsTangents() && t.Bool(defines.Tangent))
	t.SetBool(defines.MorphTargetsNormal, mgr.SupportsNormals() && t.Bool(defines.Normal))

	n := mgr.Influencers()
	t.SetInt(defines.NumMorphInfluencers, n)
	t.SetBool(defines.MorphTargets, n > 0)
	t.SetBool(defines.MorphTargetsTexture, mgr.IsUsingTextureForTargets())
}

// PrepareAttributesForBones appends the bone index and weight attributes when t selects
// GPU skinning, and registers the CPU skinning fallback at rank 0.
//
// Parameters:
//   - attribs: the attribute list to extend
//   - mesh: the mesh being drawn
//   - t: the derived define table
//   - fb: the fallback plan to extend
//
// Returns:
//   - []string: the extended attribute list
func PrepareAttributesForBones(attribs []string, mesh model.Mesh, t *defines.Table, fb *effect.Fallbacks) []string {
	n := t.Int(defines.NumBoneInfluencers)
	if n <= 0 {
		return attribs
	}
	fb.AddCPUSkinningFallback(0, mesh)
	attribs = append(attribs, string(model.KindMatricesIndices), string(model.KindMatricesWeights))
	if n > 4 {
		attribs = append(attribs, string(model.KindMatricesIndicesExtra), string(model.KindMatricesWeightsExtra))
	}
	return attribs
}

// PrepareAttributesForInstances appends the per-instance world matrix rows when t selects
// instancing.
//
// Parameters:
//   - attribs: the attribute list to extend
//   - t: the derived define table
//
// Returns:
//   - []string: the extended attribute list
func PrepareAttributesForInstances(attribs []string, t *defines.Table) []string {
	if !t.Bool(defines.Instances) && !t.Bool(defines.ThinInstances) {
		return attribs
	}
	attribs = append(attribs, "world0", "world1", "world2", "world3")
	if t.Bool(defines.PrePassVelocity) {
		attribs = append(attribs, "previousWorld0", "previousWorld1", "previousWorld2", "previousWorld3")
	}
	return attribs
}

// PrepareAttributesForMorphTargets appends the per-target morph attributes t selects.
// Attributes that would exceed maxVertexAttribs are dropped with a warning. Nothing is
// appended when targets are read from a texture.
//
// Parameters:
//   - attribs: the attribute list to extend
//   - mesh: the mesh being drawn
//   - t: the derived define table
//   - maxVertexAttribs: the renderer's vertex attribute limit
//
// Returns:
//   - []string: the extended attribute list
func PrepareAttributesForMorphTargets(attribs []string, mesh model.Mesh, t *defines.Table, maxVertexAttribs int) []string {
	influencers := t.Int(defines.NumMorphInfluencers)
	if influencers <= 0 || t.Bool(defines.MorphTargetsTexture) {
		return attribs
	}

	channels := []string{string(model.KindPosition)}
	if t.Bool(defines.MorphTargetsNormal) {
		channels = append(channels, string(model.KindNormal))
	}
	if t.Bool(defines.MorphTargetsTangent) {
		channels = append(channels, string(model.KindTangent))
	}
	if t.Bool(defines.MorphTargetsUV) {
		channels = append(channels, string(model.KindUV)+"_")
	}

	for i := 0; i < influencers; i++ {
		for _, ch := range channels {
			name := ch + strconv.Itoa(i)
			if len(attribs) >= maxVertexAttribs {
				common.Logger().Warn("material_helper: vertex attribute limit reached",
					"mesh", mesh.Name(), "attribute", name, "max", maxVertexAttribs)
				continue
			}
			attribs = append(attribs, name)
		}
	}
	return attribs
}
