package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestCameraDefaults(t *testing.T) {
	c := NewCamera()
	if c.Mode() != ModePerspective || c.OutputViewCount() != 0 {
		t.Fatalf("defaults:\nhave mode %v, %d views\nwant perspective, 0 views", c.Mode(), c.OutputViewCount())
	}
	if c.MinZ() != 1 || c.MaxZ() != 10000 {
		t.Fatalf("clip range:\nhave %v..%v\nwant 1..10000", c.MinZ(), c.MaxZ())
	}
}

func TestCameraMatrices(t *testing.T) {
	c := NewCamera(
		WithPosition(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}),
		WithClipRange(0.5, 50),
		WithOutputViewCount(2),
	)
	want := mgl32.Perspective(mgl32.DegToRad(45), 1, 0.5, 50).Mul4(mgl32.LookAtV(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}))
	if !c.ViewProjectionMatrix().ApproxEqual(want) {
		t.Fatalf("ViewProjectionMatrix:\nhave %v\nwant %v", c.ViewProjectionMatrix(), want)
	}
	if c.OutputViewCount() != 2 {
		t.Fatalf("OutputViewCount:\nhave %d\nwant 2", c.OutputViewCount())
	}

	c.SetMode(ModeOrthographic)
	want = mgl32.Ortho(-1, 1, -1, 1, 0.5, 50)
	if !c.ProjectionMatrix().ApproxEqual(want) {
		t.Fatalf("orthographic ProjectionMatrix:\nhave %v\nwant %v", c.ProjectionMatrix(), want)
	}
}
