package light

import "github.com/Carmen-Shannon/oxy-shade/common"

// ShadowGeneratorBuilderOption is a function that configures a ShadowGenerator during construction.
type ShadowGeneratorBuilderOption func(*shadowGeneratorImpl)

// WithFilter sets the sampling filter of the generator.
//
// Parameters:
//   - f: the filter type
//
// Returns:
//   - ShadowGeneratorBuilderOption: a function that sets the filter
func WithFilter(f FilterType) ShadowGeneratorBuilderOption {
	return func(g *shadowGeneratorImpl) {
		g.filter = f
	}
}

// WithQuality sets the PCF/PCSS filter quality.
func WithQuality(q FilterQuality) ShadowGeneratorBuilderOption {
	return func(g *shadowGeneratorImpl) {
		g.quality = q
	}
}

// WithDarkness sets the shadow darkness, clamped to [0, 1].
func WithDarkness(d float32) ShadowGeneratorBuilderOption {
	return func(g *shadowGeneratorImpl) {
		g.darkness = common.Clamp(d, 0, 1)
	}
}

// WithBias sets the constant and normal-offset depth biases.
//
// Parameters:
//   - bias: the constant depth bias
//   - normalBias: the normal-offset bias
//
// Returns:
//   - ShadowGeneratorBuilderOption: a function that sets both biases
func WithBias(bias, normalBias float32) ShadowGeneratorBuilderOption {
	return func(g *shadowGeneratorImpl) {
		g.bias = bias
		g.normalBias = normalBias
	}
}

// WithShadowFrustum sets the near plane, far plane and orthographic half-extent of the
// shadow projection.
func WithShadowFrustum(near, far, halfExtent float32) ShadowGeneratorBuilderOption {
	return func(g *shadowGeneratorImpl) {
		g.near = near
		g.far = far
		g.halfExtent = halfExtent
	}
}

// WithCascades turns the generator into a cascaded shadow map generator with n cascades.
//
// Parameters:
//   - n: the cascade count, clamped to [0, 4]
//   - debug: render cascades with debug colors
//   - useShadowMaxZ: bound the last cascade by the shadow max Z instead of the camera far plane
//   - blend: blend between neighbouring cascades
//   - rightHanded: the scene uses a right-handed system
//
// Returns:
//   - ShadowGeneratorBuilderOption: a function that configures the cascades
func WithCascades(n int, debug, useShadowMaxZ, blend, rightHanded bool) ShadowGeneratorBuilderOption {
	return func(g *shadowGeneratorImpl) {
		g.cascades = common.Clamp(n, 0, 4)
		g.cascadeDebug = debug
		g.useShadowMaxZ = useShadowMaxZ
		g.cascadeBlend = blend
		g.rightHanded = rightHanded
	}
}
