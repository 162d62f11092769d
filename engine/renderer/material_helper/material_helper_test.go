package material_helper

import (
	"slices"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/Carmen-Shannon/oxy-shade/engine/camera"
	"github.com/Carmen-Shannon/oxy-shade/engine/light"
	"github.com/Carmen-Shannon/oxy-shade/engine/model"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/defines"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/effect"
	"github.com/Carmen-Shannon/oxy-shade/engine/scene"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

type caster string

func (c caster) Name() string { return string(c) }

func newTestScene(t *testing.T, options ...scene.SceneBuilderOption) scene.Scene {
	t.Helper()
	r, err := renderer.NewRenderer(renderer.WithBackend(renderer.BackendFunc(func(label, code string) (any, func(), error) {
		return label, nil, nil
	})))
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	t.Cleanup(r.Close)
	return scene.NewScene("test", r, options...)
}

func expectBool(t *testing.T, tbl *defines.Table, name defines.Name, want bool) {
	t.Helper()
	if have := tbl.Bool(name); have != want {
		t.Errorf("%s:\nhave %v\nwant %v", name, have, want)
	}
}

func expectInt(t *testing.T, tbl *defines.Table, name defines.Name, want int) {
	t.Helper()
	if have := tbl.Int(name); have != want {
		t.Errorf("%s:\nhave %d\nwant %d", name, have, want)
	}
}

func TestPrepareDefinesForLightsTwoPointLights(t *testing.T) {
	s := newTestScene(t)
	mesh := model.NewMesh(model.WithName("box"), model.WithVertexKinds(model.KindNormal))
	s.AddMesh(mesh)
	s.AddLight(light.NewLight(light.LightTypePoint, light.WithName("a")))
	s.AddLight(light.NewLight(light.LightTypePoint, light.WithName("b")))

	tbl := defines.NewTable()
	needNormals := PrepareDefinesForLights(s, mesh, tbl, true, 4, false)
	if !needNormals {
		t.Fatal("lit mesh must need normals")
	}

	expectBool(t, tbl, "LIGHT0", true)
	expectBool(t, tbl, "LIGHT1", true)
	expectBool(t, tbl, "POINTLIGHT0", true)
	expectBool(t, tbl, "POINTLIGHT1", true)
	expectBool(t, tbl, "DIRLIGHT0", false)
	expectBool(t, tbl, "LIGHT2", false)
	expectBool(t, tbl, "LIGHT3", false)
	expectBool(t, tbl, defines.SpecularTerm, true)
	expectBool(t, tbl, defines.Shadows, false)
	if !tbl.Has("LIGHT2") || !tbl.Has("LIGHT3") {
		t.Error("vacated slots must be recorded as false")
	}
	if !tbl.RebuildPending() {
		t.Error("new light slots must request a rebuild")
	}
	if tbl.AreLightsDirty {
		t.Error("the light deriver must clear its dirty group")
	}

	tbl.NeedNormals = needNormals
	PrepareDefinesForAttributes(mesh, tbl, false, false, false, false)
	expectBool(t, tbl, defines.Normal, true)
	expectBool(t, tbl, defines.Tangent, false)
}

func TestPrepareDefinesForLightsIsStable(t *testing.T) {
	s := newTestScene(t)
	mesh := model.NewMesh()
	s.AddMesh(mesh)
	gen := light.NewShadowGenerator(512, light.WithFilter(light.FilterPCF))
	gen.ShadowMap().AddCaster(caster("wall"))
	gen.ShadowMap().SetReady(true)
	s.AddLight(light.NewLight(light.LightTypeSpot, light.WithShadowGenerator(gen)))
	mesh.SetReceiveShadows(true)

	tbl := defines.NewTable()
	PrepareDefinesForLights(s, mesh, tbl, true, 4, false)
	key := tbl.Key()
	tbl.MarkAsProcessed()

	tbl.AreLightsDirty = true
	PrepareDefinesForLights(s, mesh, tbl, true, 4, false)
	if tbl.IsDirty() {
		t.Fatal("re-deriving unchanged inputs must not change the table")
	}
	if have := tbl.Key(); have != key {
		t.Fatalf("Key:\nhave %q\nwant %q", have, key)
	}

	other := defines.NewTable()
	PrepareDefinesForLights(s, mesh, other, true, 4, false)
	if have := other.Key(); have != key {
		t.Fatalf("fresh table Key:\nhave %q\nwant %q", have, key)
	}
}

func TestPrepareDefinesForLightsSkipsCleanTable(t *testing.T) {
	s := newTestScene(t)
	mesh := model.NewMesh()
	s.AddMesh(mesh)
	s.AddLight(light.NewLight(light.LightTypePoint))

	tbl := defines.NewTable()
	tbl.AreLightsDirty = false
	tbl.NeedNormals = false
	if PrepareDefinesForLights(s, mesh, tbl, true, 4, false) {
		t.Fatal("a clean table must return the previous normals requirement")
	}
	if tbl.Has("LIGHT0") {
		t.Fatal("a clean table must not be derived")
	}
}

func TestPrepareDefinesForLightsResetsVacatedSlots(t *testing.T) {
	s := newTestScene(t)
	mesh := model.NewMesh()
	s.AddMesh(mesh)
	a := light.NewLight(light.LightTypePoint)
	b := light.NewLight(light.LightTypeHemispheric)
	s.AddLight(a)
	s.AddLight(b)

	tbl := defines.NewTable()
	PrepareDefinesForLights(s, mesh, tbl, true, 4, false)
	expectBool(t, tbl, "HEMILIGHT1", true)

	s.RemoveLight(b)
	tbl.AreLightsDirty = true
	PrepareDefinesForLights(s, mesh, tbl, true, 4, false)
	expectBool(t, tbl, "LIGHT0", true)
	expectBool(t, tbl, "LIGHT1", false)
	expectBool(t, tbl, "HEMILIGHT1", false)
}

func TestPrepareDefinesForLightsDisabled(t *testing.T) {
	s := newTestScene(t)
	mesh := model.NewMesh()
	s.AddMesh(mesh)
	s.AddLight(light.NewLight(light.LightTypePoint))

	tbl := defines.NewTable()
	if PrepareDefinesForLights(s, mesh, tbl, true, 4, true) {
		t.Fatal("disabled lighting must not need normals")
	}
	for i := 0; i < 4; i++ {
		expectBool(t, tbl, defines.Indexed(defines.Light, i), false)
	}
	expectBool(t, tbl, defines.SpecularTerm, false)
}

func TestPrepareDefinesForLightFalloffAndLightmap(t *testing.T) {
	s := newTestScene(t)
	mesh := model.NewMesh()
	s.AddMesh(mesh)
	l := light.NewLight(light.LightTypePoint,
		light.WithFalloff(light.FalloffGLTF),
		light.WithLightmapMode(light.LightmapShadowsOnly),
		light.WithSpecular(mgl32.Vec3{}))
	s.AddLight(l)

	tbl := defines.NewTable()
	PrepareDefinesForLights(s, mesh, tbl, true, 4, false)
	expectBool(t, tbl, "LIGHT_FALLOFF_GLTF0", true)
	expectBool(t, tbl, "LIGHT_FALLOFF_PHYSICAL0", false)
	expectBool(t, tbl, "LIGHTMAPEXCLUDED0", true)
	expectBool(t, tbl, "LIGHTMAPNOSPECULAR0", true)
	expectBool(t, tbl, defines.LightmapExcluded, true)
	expectBool(t, tbl, defines.SpecularTerm, false)

	l.SetFalloff(light.FalloffDefault)
	tbl.AreLightsDirty = true
	PrepareDefinesForLights(s, mesh, tbl, true, 4, false)
	expectBool(t, tbl, "LIGHT_FALLOFF_GLTF0", false)
}

func TestShadowDefinesAndFallbacks(t *testing.T) {
	s := newTestScene(t)
	mesh := model.NewMesh(model.WithReceiveShadows(true))
	s.AddMesh(mesh)
	gen := light.NewShadowGenerator(1024, light.WithFilter(light.FilterPCF), light.WithQuality(light.QualityLow))
	gen.ShadowMap().AddCaster(caster("tree"))
	gen.ShadowMap().SetReady(true)
	s.AddLight(light.NewLight(light.LightTypeDirectional, light.WithShadowGenerator(gen)))
	s.AddLight(light.NewLight(light.LightTypePoint))

	tbl := defines.NewTable()
	PrepareDefinesForLights(s, mesh, tbl, true, 4, false)
	expectBool(t, tbl, "SHADOW0", true)
	expectBool(t, tbl, "SHADOWPCF0", true)
	expectBool(t, tbl, "SHADOWLOWQUALITY0", true)
	expectBool(t, tbl, "SHADOW1", false)
	expectBool(t, tbl, defines.Shadows, true)
	expectBool(t, tbl, defines.ShadowFloat, true)

	fb := effect.NewFallbacks()
	next := HandleFallbacksForShadows(tbl, fb, 4, 0)
	if next != 2 {
		t.Fatalf("next rank:\nhave %d\nwant 2", next)
	}
	if have, want := fb.Rank(0), []defines.Name{"SHADOW0", "SHADOWPCF0"}; !slices.Equal(have, want) {
		t.Fatalf("rank 0:\nhave %v\nwant %v", have, want)
	}
	if have, want := fb.Rank(1), []defines.Name{"LIGHT1"}; !slices.Equal(have, want) {
		t.Fatalf("rank 1:\nhave %v\nwant %v", have, want)
	}

	current := tbl.Active()
	current = fb.Reduce(current, nil)
	if current.Has("SHADOW0") || !current.Has("LIGHT1") {
		t.Fatalf("first reduce must strip shadows only, have %v", current)
	}
	current = fb.Reduce(current, nil)
	if current.Has("LIGHT1") {
		t.Fatalf("second reduce must strip the second light, have %v", current)
	}
}

func TestShadowsRequireCasters(t *testing.T) {
	s := newTestScene(t)
	mesh := model.NewMesh(model.WithReceiveShadows(true))
	s.AddMesh(mesh)
	gen := light.NewShadowGenerator(0)
	s.AddLight(light.NewLight(light.LightTypeDirectional, light.WithShadowGenerator(gen)))

	tbl := defines.NewTable()
	PrepareDefinesForLights(s, mesh, tbl, true, 4, false)
	expectBool(t, tbl, "SHADOW0", false)
	expectBool(t, tbl, defines.Shadows, false)
}

func TestShadowsRequireReadyMap(t *testing.T) {
	s := newTestScene(t)
	mesh := model.NewMesh(model.WithReceiveShadows(true))
	s.AddMesh(mesh)
	gen := light.NewShadowGenerator(512, light.WithFilter(light.FilterPCF))
	gen.ShadowMap().AddCaster(caster("wall"))
	s.AddLight(light.NewLight(light.LightTypeSpot, light.WithShadowGenerator(gen)))

	tbl := defines.NewTable()
	PrepareDefinesForLights(s, mesh, tbl, true, 4, false)
	expectBool(t, tbl, "SHADOW0", false)
	expectBool(t, tbl, defines.Shadows, false)
	if maps := ShadowMaps(mesh, tbl, 4); len(maps) != 0 {
		t.Fatalf("ShadowMaps:\nhave %d maps\nwant none", len(maps))
	}

	gen.ShadowMap().SetReady(true)
	tbl.AreLightsDirty = true
	PrepareDefinesForLights(s, mesh, tbl, true, 4, false)
	expectBool(t, tbl, "SHADOW0", true)
	expectBool(t, tbl, defines.Shadows, true)
	maps := ShadowMaps(mesh, tbl, 4)
	if len(maps) != 1 || maps[0] != gen.ShadowMap() {
		t.Fatalf("ShadowMaps:\nhave %v\nwant the generator's map", maps)
	}

	gen.ShadowMap().SetReady(false)
	tbl.AreLightsDirty = true
	PrepareDefinesForLights(s, mesh, tbl, true, 4, false)
	expectBool(t, tbl, "SHADOW0", false)
	expectBool(t, tbl, "SHADOWPCF0", false)
}

func TestPrepareDefinesForMorphTargetsGating(t *testing.T) {
	tests := []struct {
		name         string
		targetNormal bool
		meshNormal   bool
		want         bool
	}{
		{"both", true, true, true},
		{"target only", true, false, false},
		{"mesh only", false, true, false},
		{"neither", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr := model.NewMorphTargetManager(&model.MorphTarget{Name: "smile", Influence: 0.5, HasNormals: tt.targetNormal})
			kinds := []model.VertexKind{model.KindPosition}
			if tt.meshNormal {
				kinds = append(kinds, model.KindNormal)
			}
			mesh := model.NewMesh(model.WithVertexKinds(kinds...), model.WithMorphTargetManager(mgr))

			tbl := defines.NewTable()
			tbl.NeedNormals = true
			PrepareDefinesForAttributes(mesh, tbl, false, false, true, false)
			expectBool(t, tbl, defines.MorphTargetsNormal, tt.want)
			expectBool(t, tbl, defines.MorphTargets, true)
			expectInt(t, tbl, defines.NumMorphInfluencers, 1)
			expectBool(t, tbl, defines.MorphTargetsUV, false)
		})
	}
}

func TestPrepareDefinesForAttributesGate(t *testing.T) {
	mesh := model.NewMesh(model.WithVertexKinds(model.KindNormal, model.KindUV, model.KindUV2))
	tbl := defines.NewTable()
	tbl.NeedUVs = true
	if !PrepareDefinesForAttributes(mesh, tbl, true, false, false, false) {
		t.Fatal("a dirty table must be derived")
	}
	expectBool(t, tbl, "UV1", true)
	expectBool(t, tbl, "UV2", true)
	expectBool(t, tbl, "UV3", false)
	expectBool(t, tbl, defines.Normal, false)

	if PrepareDefinesForAttributes(mesh, tbl, true, false, false, false) {
		t.Fatal("unchanged requirements must skip the attribute pass")
	}

	tbl.NeedNormals = true
	if !PrepareDefinesForAttributes(mesh, tbl, true, false, false, false) {
		t.Fatal("a changed normals requirement must re-run the attribute pass")
	}
	expectBool(t, tbl, defines.Normal, true)
}

func TestPrepareDefinesForBones(t *testing.T) {
	s := newTestScene(t)
	sk := model.NewSkeleton("rig",
		model.Bone{Name: "root", ParentIndex: -1, InverseBindMatrix: mgl32.Ident4(), LocalTransform: model.IdentityTransform()},
		model.Bone{Name: "arm", ParentIndex: 0, InverseBindMatrix: mgl32.Ident4(), LocalTransform: model.IdentityTransform()},
	)
	newSkinned := func() model.Mesh {
		m := model.NewMesh(
			model.WithVertexKinds(model.KindMatricesIndices, model.KindMatricesWeights),
			model.WithSkeleton(sk, 4),
		)
		s.AddMesh(m)
		return m
	}

	t.Run("uniform array", func(t *testing.T) {
		tbl := defines.NewTable()
		PrepareDefinesForBones(newSkinned(), tbl)
		expectInt(t, tbl, defines.NumBoneInfluencers, 4)
		expectInt(t, tbl, defines.BonesPerMesh, 3)
	})

	t.Run("texture", func(t *testing.T) {
		sk.SetUseTextureToStoreBoneMatrices(true)
		defer sk.SetUseTextureToStoreBoneMatrices(false)

		tbl := defines.NewTable(defines.Entry{Name: defines.BoneTexture, Value: defines.Bool(false)})
		PrepareDefinesForBones(newSkinned(), tbl)
		expectBool(t, tbl, defines.BoneTexture, true)

		undeclared := defines.NewTable()
		PrepareDefinesForBones(newSkinned(), undeclared)
		expectBool(t, undeclared, defines.BoneTexture, false)
		expectInt(t, undeclared, defines.BonesPerMesh, 3)
	})

	t.Run("cpu skinning", func(t *testing.T) {
		m := newSkinned()
		m.SetComputeBonesUsingShaders(false)
		tbl := defines.NewTable()
		PrepareDefinesForBones(m, tbl)
		expectInt(t, tbl, defines.NumBoneInfluencers, 0)
		expectInt(t, tbl, defines.BonesPerMesh, 0)
	})

	t.Run("prepass velocity", func(t *testing.T) {
		m := newSkinned()
		s.EnablePrePassRenderer()
		defer s.DisablePrePassRenderer()
		tbl := defines.NewTable()
		PrepareDefinesForBones(m, tbl)
		expectBool(t, tbl, defines.BonesVelocityEnabled, true)

		s.PrePassRenderer().ExcludeSkinnedMesh(m)
		PrepareDefinesForBones(m, tbl)
		expectBool(t, tbl, defines.BonesVelocityEnabled, false)
	})
}

func TestPrepareDefinesForBonesResetsVelocity(t *testing.T) {
	newRig := func() *model.Skeleton {
		return model.NewSkeleton("rig",
			model.Bone{Name: "root", ParentIndex: -1, InverseBindMatrix: mgl32.Ident4(), LocalTransform: model.IdentityTransform()})
	}

	tests := []struct {
		name   string
		change func(s scene.Scene, m model.Mesh, sk *model.Skeleton)
	}{
		{"skeleton removed", func(_ scene.Scene, m model.Mesh, _ *model.Skeleton) { m.SetSkeleton(nil) }},
		{"cpu skinning", func(_ scene.Scene, m model.Mesh, _ *model.Skeleton) { m.SetComputeBonesUsingShaders(false) }},
		{"prepass disabled", func(s scene.Scene, _ model.Mesh, _ *model.Skeleton) { s.DisablePrePassRenderer() }},
		{"bone texture", func(_ scene.Scene, _ model.Mesh, sk *model.Skeleton) { sk.SetUseTextureToStoreBoneMatrices(true) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestScene(t)
			sk := newRig()
			m := model.NewMesh(
				model.WithVertexKinds(model.KindMatricesIndices, model.KindMatricesWeights),
				model.WithSkeleton(sk, 4),
			)
			s.AddMesh(m)
			s.EnablePrePassRenderer()

			tbl := defines.NewTable(defines.Entry{Name: defines.BoneTexture, Value: defines.Bool(false)})
			PrepareDefinesForBones(m, tbl)
			expectBool(t, tbl, defines.BonesVelocityEnabled, true)

			tt.change(s, m, sk)
			PrepareDefinesForBones(m, tbl)
			expectBool(t, tbl, defines.BonesVelocityEnabled, false)
			if strings.Contains(tbl.Key(), string(defines.BonesVelocityEnabled)) {
				t.Fatalf("Key:\nhave %q\nwant no %s", tbl.Key(), defines.BonesVelocityEnabled)
			}
		})
	}
}

func TestPrepareAttributes(t *testing.T) {
	mesh := model.NewMesh(model.WithName("blob"))
	tbl := defines.NewTable()
	tbl.SetInt(defines.NumBoneInfluencers, 6)
	tbl.SetBool(defines.Instances, true)
	tbl.SetInt(defines.NumMorphInfluencers, 2)
	tbl.SetBool(defines.MorphTargetsNormal, true)

	fb := effect.NewFallbacks()
	attribs := []string{"position"}
	attribs = PrepareAttributesForBones(attribs, mesh, tbl, fb)
	attribs = PrepareAttributesForInstances(attribs, tbl)
	want := []string{
		"position", "matricesIndices", "matricesWeights", "matricesIndicesExtra", "matricesWeightsExtra",
		"world0", "world1", "world2", "world3",
	}
	if !slices.Equal(attribs, want) {
		t.Fatalf("attributes:\nhave %v\nwant %v", attribs, want)
	}
	if fb.Mesh() != mesh {
		t.Fatal("bone attributes must register the CPU skinning fallback")
	}

	attribs = PrepareAttributesForMorphTargets(attribs, mesh, tbl, 12)
	want = append(want, "position0", "normal0", "position1")
	if !slices.Equal(attribs, want) {
		t.Fatalf("morph attributes:\nhave %v\nwant %v", attribs, want)
	}
}

func TestPrepareUniformsAndSamplersList(t *testing.T) {
	tbl := defines.NewTable()
	tbl.SetBool("LIGHT0", true)
	tbl.SetBool("LIGHT1", true)
	tbl.SetBool("LIGHT2", false)
	tbl.SetBool("PROJECTEDLIGHTTEXTURE1", true)
	tbl.SetInt(defines.NumMorphInfluencers, 2)

	var opts effect.Options
	PrepareUniformsAndSamplersList(&opts, tbl, 4)
	for _, u := range []string{"vLightData0", "vLightDiffuse1", "lightMatrix1", "textureProjectionMatrix1", "morphTargetInfluences"} {
		if !slices.Contains(opts.UniformNames, u) {
			t.Errorf("missing uniform %q", u)
		}
	}
	if slices.Contains(opts.UniformNames, "vLightData2") || slices.Contains(opts.UniformNames, "textureProjectionMatrix0") {
		t.Errorf("unexpected uniforms %v", opts.UniformNames)
	}
	for _, s := range []string{"shadowSampler0", "depthSampler1", "projectionLightSampler1"} {
		if !slices.Contains(opts.Samplers, s) {
			t.Errorf("missing sampler %q", s)
		}
	}
	if have := opts.IndexParameters["maxSimultaneousLights"]; have != 4 {
		t.Errorf("maxSimultaneousLights:\nhave %d\nwant 4", have)
	}
}

func TestPrepareDefinesForMisc(t *testing.T) {
	s := newTestScene(t, scene.WithFog(scene.Fog{Mode: scene.FogExp, Density: 0.2}))
	mesh := model.NewMesh()
	s.AddMesh(mesh)

	tbl := defines.NewTable()
	PrepareDefinesForMisc(mesh, s, true, false, true, true, tbl)
	expectBool(t, tbl, defines.Fog, true)
	expectBool(t, tbl, defines.LogarithmicDepth, true)
	expectBool(t, tbl, defines.AlphaTest, true)
	expectBool(t, tbl, defines.PointSize, false)
	if tbl.AreMiscDirty {
		t.Fatal("the misc deriver must clear its dirty group")
	}

	mesh.SetApplyFog(false)
	tbl.AreMiscDirty = true
	PrepareDefinesForMisc(mesh, s, true, false, true, true, tbl)
	expectBool(t, tbl, defines.Fog, false)
}

func TestPrepareDefinesForFrameBoundValues(t *testing.T) {
	plane := *common.NewPlane(0, 1, 0, 0)
	s := newTestScene(t, scene.WithClipPlane(2, plane))

	tbl := defines.NewTable()
	if !PrepareDefinesForFrameBoundValues(s, tbl, false, nil, false) {
		t.Fatal("first pass must report a change")
	}
	expectBool(t, tbl, "CLIPPLANE3", true)
	expectBool(t, tbl, "CLIPPLANE", false)
	expectBool(t, tbl, defines.DepthPrePass, false)

	tbl.MarkAsProcessed()
	if PrepareDefinesForFrameBoundValues(s, tbl, false, nil, false) {
		t.Fatal("an unchanged frame must not report a change")
	}
	if tbl.IsDirty() {
		t.Fatal("an unchanged frame must leave the table processed")
	}

	s.Renderer().SetColorWrite(false)
	if !PrepareDefinesForFrameBoundValues(s, tbl, true, nil, false) {
		t.Fatal("toggling color write must report a change")
	}
	expectBool(t, tbl, defines.DepthPrePass, true)
	expectBool(t, tbl, defines.Instances, true)
	if !tbl.IsDirty() {
		t.Fatal("a frame-bound change must mark the table unprocessed")
	}

	override := true
	PrepareDefinesForFrameBoundValues(s, tbl, true, &override, false)
	for _, n := range defines.ClipPlaneNames {
		expectBool(t, tbl, n, true)
	}
}

func TestPrepareDefinesForPrePass(t *testing.T) {
	s := newTestScene(t)
	pr := s.EnablePrePassRenderer()
	pr.EnableTexture(scene.PrePassDepth)
	pr.EnableTexture(scene.PrePassNormal)

	tbl := defines.NewTable()
	tbl.AreImageProcessingDirty = false
	tbl.MarkAsProcessed()
	PrepareDefinesForPrePass(s, tbl, true)

	expectBool(t, tbl, defines.PrePass, true)
	expectInt(t, tbl, defines.SceneMRTCount, 3)
	expectBool(t, tbl, defines.PrePassColor, true)
	expectBool(t, tbl, defines.PrePassDepth, true)
	expectInt(t, tbl, defines.PrePassDepthIndex, 1)
	expectInt(t, tbl, defines.PrePassNormalIndex, 2)
	expectBool(t, tbl, defines.PrePassVelocity, false)
	if !tbl.AreImageProcessingDirty || !tbl.IsDirty() {
		t.Fatal("enabling the prepass must mark the table unprocessed and image processing dirty")
	}

	s.DisablePrePassRenderer()
	tbl.ArePrePassDirty = true
	PrepareDefinesForPrePass(s, tbl, true)
	expectBool(t, tbl, defines.PrePass, false)
	expectBool(t, tbl, defines.PrePassDepth, false)
	for _, n := range []defines.Name{defines.SceneMRTCount, defines.PrePassColorIndex, defines.PrePassDepthIndex, defines.PrePassNormalIndex} {
		if tbl.Get(n).IsSet() {
			t.Errorf("%s:\nhave %v\nwant unset", n, tbl.Get(n))
		}
	}
	if strings.Contains(tbl.Key(), "PREPASS") || strings.Contains(tbl.Key(), "MRT") {
		t.Fatalf("Key:\nhave %q\nwant no prepass defines", tbl.Key())
	}
}

func TestPrepareDefinesForPrePassUnsetsMissingTextures(t *testing.T) {
	s := newTestScene(t)
	pr := s.EnablePrePassRenderer()
	pr.EnableTexture(scene.PrePassDepth)

	tbl := defines.NewTable()
	tbl.SetInt(defines.PrePassNormalIndex, 2)
	PrepareDefinesForPrePass(s, tbl, true)
	expectInt(t, tbl, defines.PrePassDepthIndex, 1)
	expectBool(t, tbl, defines.PrePassNormal, false)
	if tbl.Get(defines.PrePassNormalIndex).IsSet() {
		t.Fatalf("%s:\nhave %v\nwant unset", defines.PrePassNormalIndex, tbl.Get(defines.PrePassNormalIndex))
	}
}

func TestPrepareDefinesForMultiviewAndCamera(t *testing.T) {
	cam := camera.NewCamera(camera.WithOutputViewCount(2))
	s := newTestScene(t, scene.WithCamera(cam))

	tbl := defines.NewTable()
	tbl.MarkAsProcessed()
	PrepareDefinesForMultiview(s, tbl)
	expectBool(t, tbl, defines.Multiview, true)
	if !tbl.IsDirty() {
		t.Fatal("a multiview change must mark the table unprocessed")
	}

	PrepareDefinesForCamera(s, tbl)
	expectBool(t, tbl, defines.CameraPerspective, true)
	cam.SetMode(camera.ModeOrthographic)
	if !PrepareDefinesForCamera(s, tbl) {
		t.Fatal("switching projection must report a change")
	}
	expectBool(t, tbl, defines.CameraOrtho, true)
	expectBool(t, tbl, defines.CameraPerspective, false)
}

func TestPrepareDefinesForMultiviewWithoutCamera(t *testing.T) {
	s := newTestScene(t, scene.WithCamera(camera.NewCamera(camera.WithOutputViewCount(2))))

	tbl := defines.NewTable()
	PrepareDefinesForMultiview(s, tbl)
	expectBool(t, tbl, defines.Multiview, true)
	tbl.MarkAsProcessed()

	s.SetCamera(nil)
	PrepareDefinesForMultiview(s, tbl)
	expectBool(t, tbl, defines.Multiview, false)
	if !tbl.IsDirty() {
		t.Fatal("losing the camera must mark the table unprocessed")
	}

	fresh := defines.NewTable()
	PrepareDefinesForMultiview(s, fresh)
	expectBool(t, fresh, defines.Multiview, false)
}

// deriveAll runs the derive sequence of a lit material accepting fog, bones and morph targets.
func deriveAll(s scene.Scene, mesh model.Mesh, tbl *defines.Table) {
	tbl.NeedNormals = PrepareDefinesForLights(s, mesh, tbl, true, 4, false)
	PrepareDefinesForMultiview(s, tbl)
	PrepareDefinesForPrePass(s, tbl, true)
	PrepareDefinesForMisc(mesh, s, false, false, true, false, tbl)
	PrepareDefinesForCamera(s, tbl)
	PrepareDefinesForFrameBoundValues(s, tbl, false, nil, false)
	PrepareDefinesForAttributes(mesh, tbl, true, true, true, true)
}

func TestDeriveSequence(t *testing.T) {
	tests := []struct {
		name  string
		fog   scene.FogMode
		bools map[defines.Name]bool
		ints  map[defines.Name]int
	}{
		{
			name: "two point lights with linear fog",
			fog:  scene.FogLinear,
			bools: map[defines.Name]bool{
				defines.Fog: true, "LIGHT0": true, "LIGHT1": true, "POINTLIGHT0": true, "POINTLIGHT1": true,
				"LIGHT2": false, "LIGHT3": false, defines.MorphTargets: false, defines.Normal: true,
				defines.Multiview: false,
			},
			ints: map[defines.Name]int{defines.NumBoneInfluencers: 0, defines.NumMorphInfluencers: 0},
		},
		{
			name:  "two point lights without fog",
			fog:   scene.FogNone,
			bools: map[defines.Name]bool{defines.Fog: false, "LIGHT1": true, "LIGHT2": false},
			ints:  map[defines.Name]int{defines.NumBoneInfluencers: 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestScene(t, scene.WithFog(scene.Fog{Mode: tt.fog, Start: 1, End: 50}))
			mesh := model.NewMesh(model.WithVertexKinds(model.KindNormal), model.WithApplyFog(true))
			s.AddMesh(mesh)
			s.AddLight(light.NewLight(light.LightTypePoint, light.WithName("a")))
			s.AddLight(light.NewLight(light.LightTypePoint, light.WithName("b")))

			tbl := defines.NewTable()
			deriveAll(s, mesh, tbl)
			for n, want := range tt.bools {
				expectBool(t, tbl, n, want)
			}
			for n, want := range tt.ints {
				expectInt(t, tbl, n, want)
			}

			key := tbl.Key()
			tbl.MarkAsProcessed()
			tbl.AreLightsDirty = true
			tbl.AreAttributesDirty = true
			tbl.AreMiscDirty = true
			tbl.ArePrePassDirty = true
			deriveAll(s, mesh, tbl)
			if tbl.IsDirty() {
				t.Fatal("a second pass over unchanged inputs must not change the table")
			}
			if have := tbl.Key(); have != key {
				t.Fatalf("Key:\nhave %q\nwant %q", have, key)
			}
		})
	}
}

func TestBindLight(t *testing.T) {
	s := newTestScene(t)
	p := effect.NewProgram("default", "k", effect.Options{
		UniformNames: []string{"vLightData0", "vLightDiffuse0", "vLightSpecular0", "vLightDirection0", "vLightFalloff0"},
	})

	spot := light.NewLight(light.LightTypeSpot,
		light.WithPosition(mgl32.Vec3{1, 2, 3}),
		light.WithDirection(mgl32.Vec3{0, 0, 1}),
		light.WithDiffuse(mgl32.Vec3{1, 0.5, 0}),
		light.WithIntensity(2),
		light.WithRange(5))
	BindLight(spot, 0, s, p, false, false)

	if v, _ := p.Uniform("vLightData0"); v != (mgl32.Vec4{1, 2, 3, 0}) {
		t.Errorf("vLightData0:\nhave %v\nwant [1 2 3 0]", v)
	}
	if v, _ := p.Uniform("vLightDiffuse0"); v != (mgl32.Vec4{2, 1, 0, 5}) {
		t.Errorf("vLightDiffuse0:\nhave %v\nwant [2 1 0 5]", v)
	}
	if v, ok := p.Uniform("vLightDirection0"); !ok || v.(mgl32.Vec4)[3] != spot.OuterCone() {
		t.Errorf("vLightDirection0:\nhave %v\nwant outer cone in w", v)
	}
	if _, ok := p.Uniform("vLightSpecular0"); ok {
		t.Error("specular must not be bound without the specular term")
	}
}

func TestBindFogAndLogDepth(t *testing.T) {
	cam := camera.NewCamera(camera.WithClipRange(1, 1023))
	s := newTestScene(t, scene.WithCamera(cam), scene.WithFog(scene.Fog{Mode: scene.FogLinear, Start: 10, End: 50, Color: mgl32.Vec3{1, 1, 1}}))
	mesh := model.NewMesh()
	p := effect.NewProgram("default", "k", effect.Options{
		UniformNames: []string{"vFogInfos", "vFogColor", "logarithmicDepthConstant"},
	})

	BindFogParameters(s, mesh, p, false)
	if v, _ := p.Uniform("vFogInfos"); v != (mgl32.Vec4{float32(scene.FogLinear), 10, 50, 0}) {
		t.Errorf("vFogInfos:\nhave %v\nwant [3 10 50 0]", v)
	}

	tbl := defines.NewTable()
	tbl.SetBool(defines.LogarithmicDepth, true)
	BindLogDepth(tbl, p, s)
	v, _ := p.Uniform("logarithmicDepthConstant")
	if want := 2 / math32.Log2(1024); v != want {
		t.Errorf("logarithmicDepthConstant:\nhave %v\nwant %v", v, want)
	}
}

func TestBindBonesAndMorphTargets(t *testing.T) {
	s := newTestScene(t)
	sk := model.NewSkeleton("rig",
		model.Bone{Name: "root", ParentIndex: -1, InverseBindMatrix: mgl32.Ident4(), LocalTransform: model.IdentityTransform()},
	)
	mgr := model.NewMorphTargetManager(
		&model.MorphTarget{Name: "a", Influence: 0.25},
		&model.MorphTarget{Name: "b"},
	)
	mgr.SetNumMaxInfluencers(2)
	mesh := model.NewMesh(
		model.WithVertexKinds(model.KindMatricesIndices, model.KindMatricesWeights),
		model.WithSkeleton(sk, 2),
		model.WithMorphTargetManager(mgr),
	)
	s.AddMesh(mesh)
	p := effect.NewProgram("default", "k", effect.Options{
		UniformNames: []string{"mBones", "morphTargetInfluences"},
	})

	BindBonesParameters(mesh, p)
	v, ok := p.Uniform("mBones")
	if !ok || len(v.([]float32)) != 32 {
		t.Fatalf("mBones:\nhave %v\nwant 32 floats", v)
	}

	BindMorphTargetParameters(mesh, p)
	w, _ := p.Uniform("morphTargetInfluences")
	if !slices.Equal(w.([]float32), []float32{0.25, 0}) {
		t.Fatalf("morphTargetInfluences:\nhave %v\nwant [0.25 0]", w)
	}
}

func TestBindClipPlanes(t *testing.T) {
	s := newTestScene(t, scene.WithClipPlane(0, common.Plane{Normal: mgl32.Vec3{0, 1, 0}, Distance: -2}))
	p := effect.NewProgram("default", "k", effect.Options{UniformNames: []string{"vClipPlane", "vClipPlane2"}})

	BindClipPlanes(s, p)
	if v, _ := p.Uniform("vClipPlane"); v != (mgl32.Vec4{0, 1, 0, -2}) {
		t.Errorf("vClipPlane:\nhave %v\nwant [0 1 0 -2]", v)
	}
	if _, ok := p.Uniform("vClipPlane2"); ok {
		t.Error("an empty slot must not be bound")
	}
}
