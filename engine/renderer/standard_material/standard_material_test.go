package standard_material

import (
	"errors"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-shade/engine/camera"
	"github.com/Carmen-Shannon/oxy-shade/engine/light"
	"github.com/Carmen-Shannon/oxy-shade/engine/model"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/defines"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-shade/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

type fakeTexture struct {
	ready bool
}

func (t *fakeTexture) IsReady() bool {
	return t.ready
}

func newTestRenderer(t *testing.T, compile renderer.BackendFunc) renderer.Renderer {
	t.Helper()
	if compile == nil {
		compile = func(label, code string) (any, func(), error) {
			return label, nil, nil
		}
	}
	r, err := renderer.NewRenderer(renderer.WithBackend(compile))
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	t.Cleanup(r.Close)
	return r
}

func newTestSetup(t *testing.T, r renderer.Renderer, options ...StandardMaterialBuilderOption) (StandardMaterial, model.Mesh, scene.Scene) {
	t.Helper()
	m := NewStandardMaterial(r, options...)
	mesh := model.NewMesh(model.WithName("box"), model.WithVertexKinds(model.KindNormal), model.WithMaterial(m))
	s := scene.NewScene("test", r, scene.WithCamera(camera.NewCamera()))
	s.AddMesh(mesh)
	return m, mesh, s
}

func TestNewStandardMaterialRegistersShader(t *testing.T) {
	r := newTestRenderer(t, nil)
	NewStandardMaterial(r)
	if r.Shader(ShaderName) == nil {
		t.Fatalf("shader %q not registered", ShaderName)
	}
	NewStandardMaterial(r)
}

func TestIsReadyForMeshFastPath(t *testing.T) {
	r := newTestRenderer(t, nil)
	m, mesh, s := newTestSetup(t, r)

	if !m.IsReadyForMesh(mesh, s, false) {
		t.Fatalf("first poll:\nhave not ready (%v)\nwant ready", m.Cache().State())
	}
	count := r.CachedProgramCount()
	p := m.BoundProgram()

	if !m.IsReadyForMesh(mesh, s, false) {
		t.Fatal("second poll must be ready")
	}
	if have := r.CachedProgramCount(); have != count {
		t.Fatalf("CachedProgramCount:\nhave %d\nwant %d", have, count)
	}
	if m.BoundProgram() != p {
		t.Fatal("unchanged variant must keep the bound program")
	}
}

func TestIsReadyForMeshLightChangesVariant(t *testing.T) {
	r := newTestRenderer(t, nil)
	m, mesh, s := newTestSetup(t, r)

	if !m.IsReadyForMesh(mesh, s, false) {
		t.Fatal("unlit poll must be ready")
	}
	unlit := m.Cache().Key()

	s.AddLight(light.NewLight(light.LightTypePoint, light.WithName("bulb")))
	if !m.IsReadyForMesh(mesh, s, false) {
		t.Fatal("lit poll must be ready")
	}
	if m.Cache().Key() == unlit {
		t.Fatal("adding a light must change the variant key")
	}
	if !m.Defines().Bool("LIGHT0") || !m.Defines().Bool("POINTLIGHT0") {
		t.Fatalf("lit table:\nhave %s\nwant LIGHT0 and POINTLIGHT0", m.Defines().Key())
	}
	if have := r.CachedProgramCount(); have != 2 {
		t.Fatalf("CachedProgramCount:\nhave %d\nwant 2", have)
	}
	if have := m.BoundProgram().IndexParameters()["maxSimultaneousLights"]; have != m.MaxSimultaneousLights() {
		t.Fatalf("maxSimultaneousLights:\nhave %d\nwant %d", have, m.MaxSimultaneousLights())
	}
}

func TestIsReadyForMeshWaitsForTextures(t *testing.T) {
	r := newTestRenderer(t, nil)
	tex := &fakeTexture{}
	m, mesh, s := newTestSetup(t, r, WithDiffuseTexture(tex))

	if m.IsReadyForMesh(mesh, s, false) {
		t.Fatal("pending diffuse texture must not be ready")
	}
	if !m.Defines().Bool(defines.Diffuse) || !m.Defines().NeedUVs {
		t.Fatal("diffuse texture must select DIFFUSE and need UVs")
	}

	tex.ready = true
	if !m.IsReadyForMesh(mesh, s, false) {
		t.Fatal("ready texture must be ready")
	}

	m.SetDiffuseTexture(nil)
	if !m.IsReadyForMesh(mesh, s, false) {
		t.Fatal("untextured poll must be ready")
	}
	if m.Defines().Bool(defines.Diffuse) {
		t.Fatal("removing the texture must clear DIFFUSE")
	}
}

func TestIsReadyForMeshFallsBackOnCompileError(t *testing.T) {
	errFog := errors.New("fog unsupported")
	r := newTestRenderer(t, func(label, code string) (any, func(), error) {
		if strings.Contains(code, "vFogInfos") {
			return nil, nil, errFog
		}
		return label, nil, nil
	})
	m := NewStandardMaterial(r, WithMaterialOptions(material.WithName("foggy")))
	mesh := model.NewMesh(model.WithMaterial(m))
	s := scene.NewScene("test", r, scene.WithFog(scene.Fog{Mode: scene.FogLinear, Start: 1, End: 100}))
	s.AddMesh(mesh)

	ready := false
	for i := 0; i < 4 && !ready; i++ {
		ready = m.IsReadyForMesh(mesh, s, false)
	}
	if !ready {
		t.Fatalf("fallback never became ready: %v", m.Cache().State())
	}
	if !m.Defines().Bool(defines.Fog) {
		t.Fatal("the define table must keep FOG")
	}
	if m.Cache().Defines().Has(defines.Fog) {
		t.Fatalf("compiled defines:\nhave %s\nwant FOG removed", m.Cache().Defines())
	}
}

func TestBind(t *testing.T) {
	r := newTestRenderer(t, nil)
	m, mesh, s := newTestSetup(t, r,
		WithDiffuseColor(mgl32.Vec3{1, 0, 0}),
		WithSpecular(mgl32.Vec3{0, 1, 0}, 32),
		WithAlpha(0.5),
	)
	s.AddLight(light.NewLight(light.LightTypeDirectional, light.WithDirection(mgl32.Vec3{0, -1, 0})))
	if !m.IsReadyForMesh(mesh, s, false) {
		t.Fatal("poll must be ready")
	}

	world := mgl32.Translate3D(1, 2, 3)
	m.Bind(mesh, s, world)
	p := m.BoundProgram()

	if have, _ := p.Uniform("world"); have != world {
		t.Errorf("world:\nhave %v\nwant %v", have, world)
	}
	if have, _ := p.Uniform("vDiffuseColor"); have != (mgl32.Vec4{1, 0, 0, 0.5}) {
		t.Errorf("vDiffuseColor:\nhave %v\nwant %v", have, mgl32.Vec4{1, 0, 0, 0.5})
	}
	if have, _ := p.Uniform("vSpecularColor"); have != (mgl32.Vec4{0, 1, 0, 32}) {
		t.Errorf("vSpecularColor:\nhave %v\nwant %v", have, mgl32.Vec4{0, 1, 0, 32})
	}
	if _, ok := p.Uniform("vLightData0"); !ok {
		t.Error("light slot 0 must be bound")
	}
}

func TestSetAlphaClamps(t *testing.T) {
	m := NewStandardMaterial(newTestRenderer(t, nil))
	m.SetAlpha(2)
	if have := m.Alpha(); have != 1 {
		t.Fatalf("Alpha:\nhave %v\nwant 1", have)
	}
	m.SetAlpha(-1)
	if have := m.Alpha(); have != 0 {
		t.Fatalf("Alpha:\nhave %v\nwant 0", have)
	}
}
