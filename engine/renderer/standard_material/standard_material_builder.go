package standard_material

import (
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

// standardMaterialBuilder collects the archetype settings and the base material options
// until the base material is created.
type standardMaterialBuilder struct {
	*standardMaterial
	materialOptions []material.MaterialBuilderOption
}

// StandardMaterialBuilderOption is a functional option for configuring a StandardMaterial.
type StandardMaterialBuilderOption func(*standardMaterialBuilder)

// WithMaterialOptions forwards options to the base material: name, light slots, fog,
// textures and the other switches the define deriver reads.
//
// Parameters:
//   - options: the base material options
//
// Returns:
//   - StandardMaterialBuilderOption: a function that records the base options
func WithMaterialOptions(options ...material.MaterialBuilderOption) StandardMaterialBuilderOption {
	return func(b *standardMaterialBuilder) {
		b.materialOptions = append(b.materialOptions, options...)
	}
}

// WithDiffuseColor sets the base color.
//
// Parameters:
//   - c: the color as (r, g, b)
//
// Returns:
//   - StandardMaterialBuilderOption: a function that sets the base color
func WithDiffuseColor(c mgl32.Vec3) StandardMaterialBuilderOption {
	return func(b *standardMaterialBuilder) {
		b.diffuseColor = c
	}
}

// WithSpecular sets the specular color and exponent.
//
// Parameters:
//   - c: the color as (r, g, b)
//   - power: the specular exponent
//
// Returns:
//   - StandardMaterialBuilderOption: a function that sets the specular term
func WithSpecular(c mgl32.Vec3, power float32) StandardMaterialBuilderOption {
	return func(b *standardMaterialBuilder) {
		b.specularColor = c
		b.specularPower = power
	}
}

// WithAlpha sets the material opacity.
func WithAlpha(a float32) StandardMaterialBuilderOption {
	return func(b *standardMaterialBuilder) {
		b.alpha = a
	}
}

// WithAlphaCutOff sets the alpha below which fragments are discarded when alpha testing.
func WithAlphaCutOff(c float32) StandardMaterialBuilderOption {
	return func(b *standardMaterialBuilder) {
		b.alphaCutOff = c
	}
}

// WithPointSize sets the point size used when rendering as a points cloud.
func WithPointSize(size float32) StandardMaterialBuilderOption {
	return func(b *standardMaterialBuilder) {
		b.pointSize = size
	}
}

// WithDiffuseTexture sets the texture modulating the base color.
//
// Parameters:
//   - tex: the diffuse texture
//
// Returns:
//   - StandardMaterialBuilderOption: a function that sets the diffuse texture
func WithDiffuseTexture(tex material.Texture) StandardMaterialBuilderOption {
	return WithMaterialOptions(material.WithTexture(DiffuseTextureName, tex))
}
