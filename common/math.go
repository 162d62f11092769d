package common

import (
	"github.com/go-gl/mathgl/mgl32"
)

// GammaToLinear is the exponent converting an sRGB color channel to linear space.
const GammaToLinear float32 = 2.2

// tmpPoolSize is the number of scratch slots per temp pool.
const tmpPoolSize = 8

// TmpVectors holds pre-allocated scratch values for intermediate math during
// binding and matrix composition. The engine is driven from a single render
// goroutine; never hold a reference to a slot across calls that might reuse it.
var TmpVectors = struct {
	Vec3 [tmpPoolSize]mgl32.Vec3
	Vec4 [tmpPoolSize]mgl32.Vec4
	Quat [tmpPoolSize]mgl32.Quat
	Mat4 [tmpPoolSize]mgl32.Mat4
}{}

// FlattenMatrices writes the matrices into dst in column-major order, growing
// dst when it is too small, and returns the written slice.
//
// Parameters:
//   - dst: destination slice, reused when it has enough capacity
//   - ms: the matrices to flatten
//
// Returns:
//   - []float32: a slice of length 16*len(ms)
func FlattenMatrices(dst []float32, ms []mgl32.Mat4) []float32 {
	n := 16 * len(ms)
	if cap(dst) < n {
		dst = make([]float32, n)
	}
	dst = dst[:n]
	for i := range ms {
		copy(dst[i*16:i*16+16], ms[i][:])
	}
	return dst
}

// ComposeTRS builds a transform matrix from translation, rotation and scale,
// equivalent to T * R * S.
//
// Parameters:
//   - t: translation
//   - r: rotation quaternion
//   - s: scale
//
// Returns:
//   - mgl32.Mat4: the composed matrix
func ComposeTRS(t mgl32.Vec3, r mgl32.Quat, s mgl32.Vec3) mgl32.Mat4 {
	m := &TmpVectors.Mat4[0]
	*m = mgl32.Translate3D(t[0], t[1], t[2])
	*m = m.Mul4(r.Normalize().Mat4())
	return m.Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
}
