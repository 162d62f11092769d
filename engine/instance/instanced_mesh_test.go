package instance

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/Carmen-Shannon/oxy-shade/engine/model"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

func newTestMaterial(t *testing.T) material.Material {
	t.Helper()
	r, err := renderer.NewRenderer(renderer.WithBackend(renderer.BackendFunc(func(label, code string) (any, func(), error) {
		return label, nil, nil
	})))
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	t.Cleanup(r.Close)
	return material.NewMaterial(r)
}

func TestNewInstancedMeshRegistersWithSource(t *testing.T) {
	mat := newTestMaterial(t)
	source := model.NewMesh(model.WithName("tree"), model.WithMaterial(mat))
	mat.Defines().AreAttributesDirty = false

	im := NewInstancedMesh(source)
	if have := im.Name(); have != "tree.instance" {
		t.Errorf("Name:\nhave %q\nwant %q", have, "tree.instance")
	}
	if !source.HasInstances() || source.Instances()[0] != model.Instance(im) {
		t.Fatal("instance must be registered with its source")
	}
	if !mat.Defines().AreAttributesDirty {
		t.Error("first instance must mark the source attributes dirty")
	}

	mat.Defines().AreAttributesDirty = false
	second := NewInstancedMesh(source, WithName("tree.2"))
	if mat.Defines().AreAttributesDirty {
		t.Error("second instance must not mark the source attributes dirty")
	}

	im.Dispose()
	second.Dispose()
	if source.HasInstances() {
		t.Fatal("disposed instances must be removed from the source")
	}
	if !mat.Defines().AreAttributesDirty {
		t.Error("removing the last instance must mark the source attributes dirty")
	}
}

func TestInstancedMeshWorldMatrix(t *testing.T) {
	source := model.NewMesh()
	im := NewInstancedMesh(source)
	if have := im.WorldMatrix(); have != mgl32.Ident4() {
		t.Fatalf("default WorldMatrix:\nhave %v\nwant identity", have)
	}

	im.SetPosition(mgl32.Vec3{1, 2, 3})
	im.SetScale(mgl32.Vec3{2, 2, 2})
	want := mgl32.Translate3D(1, 2, 3).Mul4(mgl32.Scale3D(2, 2, 2))
	if have := im.WorldMatrix(); !have.ApproxEqual(want) {
		t.Fatalf("WorldMatrix:\nhave %v\nwant %v", have, want)
	}

	im.SetRotation(mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0}))
	p := im.WorldMatrix().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	if !p.Vec3().ApproxEqualThreshold(mgl32.Vec3{1, 2, 1}, 1e-5) {
		t.Fatalf("rotated point:\nhave %v\nwant %v", p.Vec3(), mgl32.Vec3{1, 2, 1})
	}
}

func TestInstancedMeshWithTransform(t *testing.T) {
	im := NewInstancedMesh(model.NewMesh(), WithTransform(mgl32.Vec3{0, 5, 0}, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1}), WithEnabled(false))
	if im.Enabled() {
		t.Error("WithEnabled(false) must disable the instance")
	}
	if have := im.WorldMatrix().Col(3); have != (mgl32.Vec4{0, 5, 0, 1}) {
		t.Fatalf("translation column:\nhave %v\nwant %v", have, mgl32.Vec4{0, 5, 0, 1})
	}
}

func TestInstancedMeshSetRenderingGroupIDIsIgnored(t *testing.T) {
	var buf bytes.Buffer
	common.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { common.SetLogger(nil) })

	source := model.NewMesh(model.WithName("rock"))
	source.SetRenderingGroupID(1)
	im := NewInstancedMesh(source)

	im.SetRenderingGroupID(3)
	if have := im.RenderingGroupID(); have != 1 {
		t.Fatalf("RenderingGroupID:\nhave %d\nwant 1", have)
	}
	if have := source.RenderingGroupID(); have != 1 {
		t.Fatalf("source RenderingGroupID:\nhave %d\nwant 1", have)
	}
	if !strings.Contains(buf.String(), "level=WARN") {
		t.Fatalf("log:\nhave %q\nwant a warning", buf.String())
	}
}
