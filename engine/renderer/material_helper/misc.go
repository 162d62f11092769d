package material_helper

import (
	"github.com/Carmen-Shannon/oxy-shade/engine/camera"
	"github.com/Carmen-Shannon/oxy-shade/engine/model"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/defines"
	"github.com/Carmen-Shannon/oxy-shade/engine/scene"
)

// PrepareDefinesForMisc derives the scalar material and scene flags of t. It does nothing
// unless t.AreMiscDirty is set.
//
// Parameters:
//   - mesh: the mesh being drawn
//   - s: the scene the mesh is drawn in
//   - useLogarithmicDepth: whether the material writes logarithmic depth
//   - pointsCloud: whether the material renders points
//   - fogEnabled: whether the material accepts fog
//   - alphaTest: whether the material discards by alpha
//   - t: the define table to update
func PrepareDefinesForMisc(mesh model.Mesh, s scene.Scene, useLogarithmicDepth, pointsCloud, fogEnabled, alphaTest bool, t *defines.Table) {
	if !t.AreMiscDirty {
		return
	}
	t.SetBool(defines.LogarithmicDepth, useLogarithmicDepth)
	t.SetBool(defines.PointSize, pointsCloud)
	t.SetBool(defines.Fog, fogEnabled && s.FogEnabled() && mesh.ApplyFog() && s.Fog().Mode != scene.FogNone)
	t.SetBool(defines.NonUniformScaling, mesh.NonUniformScaling())
	t.SetBool(defines.AlphaTest, alphaTest)
	t.AreMiscDirty = false
}

// PrepareDefinesForClipPlanes sets one define per clip plane slot. With a non-nil override
// every slot takes the override value instead of the scene's.
//
// Parameters:
//   - s: the scene the mesh is drawn in
//   - t: the define table to update
//   - override: the material's clip plane override, or nil
//
// Returns:
//   - bool: true if any clip plane define changed
func PrepareDefinesForClipPlanes(s scene.Scene, t *defines.Table, override *bool) bool {
	changed := false
	for i, name := range defines.ClipPlaneNames {
		present := s.ClipPlane(i) != nil
		if override != nil {
			present = *override
		}
		if t.SetBool(name, present) {
			changed = true
		}
	}
	return changed
}

// PrepareDefinesForFrameBoundValues derives the defines that may change every frame:
// clip planes, depth prepass, instancing. Any change marks t unprocessed.
//
// Parameters:
//   - s: the scene the mesh is drawn in
//   - t: the define table to update
//   - useInstances: whether the draw is instanced
//   - useClipPlane: the material's clip plane override, or nil
//   - useThinInstances: whether the draw uses thin instances
//
// Returns:
//   - bool: true if any define changed
func PrepareDefinesForFrameBoundValues(s scene.Scene, t *defines.Table, useInstances bool, useClipPlane *bool, useThinInstances bool) bool {
	changed := PrepareDefinesForClipPlanes(s, t, useClipPlane)

	depthPrePass := !s.Renderer().ColorWrite()
	if t.Bool(defines.DepthPrePass) != depthPrePass {
		t.SetBool(defines.DepthPrePass, depthPrePass)
		changed = true
	}
	if t.Bool(defines.Instances) != useInstances {
		t.SetBool(defines.Instances, useInstances)
		changed = true
	}
	if t.Bool(defines.ThinInstances) != useThinInstances {
		t.SetBool(defines.ThinInstances, useThinInstances)
		changed = true
	}

	if changed {
		t.MarkAsUnprocessed()
	}
	return changed
}

type prePassEntry struct {
	texture scene.PrePassTexture
	define  defines.Name
	index   defines.Name
}

var prePassEntries = []prePassEntry{
	{scene.PrePassPosition, defines.PrePassPosition, defines.PrePassPositionIndex},
	{scene.PrePassLocalPosition, defines.PrePassLocalPosition, defines.PrePassLocalPosIndex},
	{scene.PrePassVelocity, defines.PrePassVelocity, defines.PrePassVelocityIndex},
	{scene.PrePassVelocityLinear, defines.PrePassVelocityLinear, defines.PrePassVelLinearIndex},
	{scene.PrePassReflectivity, defines.PrePassReflectivity, defines.PrePassReflectivityIdx},
	{scene.PrePassIrradiance, defines.PrePassIrradiance, defines.PrePassIrradianceIndex},
	{scene.PrePassAlbedoSqrt, defines.PrePassAlbedo, defines.PrePassAlbedoIndex},
	{scene.PrePassDepth, defines.PrePassDepth, defines.PrePassDepthIndex},
	{scene.PrePassScreenSpaceDepth, defines.PrePassScreenDepth, defines.PrePassScreenDepthIdx},
	{scene.PrePassNormal, defines.PrePassNormal, defines.PrePassNormalIndex},
	{scene.PrePassWorldNormal, defines.PrePassWorldNormal, defines.PrePassWorldNormalIdx},
}

// PrepareDefinesForPrePass derives the multi render target defines of t. It does nothing
// unless t.ArePrePassDirty is set. Toggling PREPASS marks t unprocessed and its image
// processing dirty.
//
// Parameters:
//   - s: the scene the mesh is drawn in
//   - t: the define table to update
//   - canRenderToMRT: whether the material can output to multiple render targets
func PrepareDefinesForPrePass(s scene.Scene, t *defines.Table, canRenderToMRT bool) {
	if !t.ArePrePassDirty {
		return
	}
	previous := t.Bool(defines.PrePass)

	pr := s.PrePassRenderer()
	if pr != nil && pr.Enabled() && canRenderToMRT {
		t.SetBool(defines.PrePass, true)
		t.SetInt(defines.SceneMRTCount, pr.MRTCount())
		t.SetBool(defines.PrePassNormalWorld, pr.NormalsInWorldSpace())
		t.SetBool(defines.PrePassColor, true)
		t.SetInt(defines.PrePassColorIndex, 0)
		for _, e := range prePassEntries {
			if idx := pr.TextureIndex(e.texture); idx != -1 {
				t.SetBool(e.define, true)
				t.SetInt(e.index, idx)
			} else {
				t.SetBool(e.define, false)
				t.Unset(e.index)
			}
		}
	} else {
		t.SetBool(defines.PrePass, false)
		t.Unset(defines.SceneMRTCount)
		t.SetBool(defines.PrePassNormalWorld, false)
		t.SetBool(defines.PrePassColor, false)
		t.Unset(defines.PrePassColorIndex)
		for _, e := range prePassEntries {
			t.SetBool(e.define, false)
			t.Unset(e.index)
		}
	}

	if previous != t.Bool(defines.PrePass) {
		t.MarkAsUnprocessed()
		t.MarkAsImageProcessingDirty()
	}
	t.ArePrePassDirty = false
}

// PrepareDefinesForMultiview sets MULTIVIEW when the active camera renders to more than
// one view. A scene without a camera counts as zero views. A change marks t unprocessed.
//
// Parameters:
//   - s: the scene the mesh is drawn in
//   - t: the define table to update
func PrepareDefinesForMultiview(s scene.Scene, t *defines.Table) {
	views := 0
	if cam := s.Camera(); cam != nil {
		views = cam.OutputViewCount()
	}
	if t.SetBool(defines.Multiview, views > 1) {
		t.MarkAsUnprocessed()
	}
}

// PrepareDefinesForCamera sets the projection defines of the active camera. Both are off
// when the scene has no camera.
//
// Parameters:
//   - s: the scene the mesh is drawn in
//   - t: the define table to update
//
// Returns:
//   - bool: true if either define changed
func PrepareDefinesForCamera(s scene.Scene, t *defines.Table) bool {
	ortho, perspective := false, false
	if cam := s.Camera(); cam != nil {
		ortho = cam.Mode() == camera.ModeOrthographic
		perspective = !ortho
	}
	a := t.SetBool(defines.CameraOrtho, ortho)
	b := t.SetBool(defines.CameraPerspective, perspective)
	return a || b
}
