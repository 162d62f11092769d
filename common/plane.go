package common

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// MaxClipPlanes is the number of user clip plane slots a scene exposes.
const MaxClipPlanes = 6

// Plane represents a plane in 3D space using the equation: ax + by + cz + d = 0
// where (a, b, c) is the normal and d is the distance from origin.
type Plane struct {
	Normal   mgl32.Vec3
	Distance float32
}

// NewPlane creates a normalized plane from its equation coefficients.
//
// Parameters:
//   - a, b, c: the plane normal components
//   - d: the plane distance term
//
// Returns:
//   - *Plane: the normalized plane
func NewPlane(a, b, c, d float32) *Plane {
	p := &Plane{Normal: mgl32.Vec3{a, b, c}, Distance: d}
	p.Normalize()
	return p
}

// Normalize scales the plane so its normal has unit length.
// A zero-length normal leaves the plane untouched.
func (p *Plane) Normalize() {
	length := math32.Sqrt(p.Normal.Dot(p.Normal))
	if length == 0 {
		return
	}
	inv := 1 / length
	p.Normal = p.Normal.Mul(inv)
	p.Distance *= inv
}

// Vec4 returns the plane as (a, b, c, d), the layout shaders consume.
func (p *Plane) Vec4() mgl32.Vec4 {
	return p.Normal.Vec4(p.Distance)
}

// SignedDistance returns the signed distance from point to the plane.
func (p *Plane) SignedDistance(point mgl32.Vec3) float32 {
	return p.Normal.Dot(point) + p.Distance
}
