package material

import (
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/defines"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/effect"
)

// MaterialBuilderOption is a function that configures a Material during construction.
type MaterialBuilderOption func(*material)

// WithName sets the name of the Material.
//
// Parameters:
//   - name: the name to assign to the material
//
// Returns:
//   - MaterialBuilderOption: a function that sets the material's name
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithSchema seeds the define table with the archetype's declared defines.
//
// Parameters:
//   - schema: the define entries in table order
//
// Returns:
//   - MaterialBuilderOption: a function that creates the material's define table
func WithSchema(schema ...defines.Entry) MaterialBuilderOption {
	return func(m *material) {
		m.table = defines.NewTable(schema...)
	}
}

// WithMaxSimultaneousLights sets the number of light slots the material compiles for.
//
// Parameters:
//   - n: the number of light slots
//
// Returns:
//   - MaterialBuilderOption: a function that sets the light slot count
func WithMaxSimultaneousLights(n int) MaterialBuilderOption {
	return func(m *material) {
		m.maxSimultaneousLights = n
	}
}

// WithFogEnabled sets whether the material opts in to scene fog. Defaults to true.
func WithFogEnabled(b bool) MaterialBuilderOption {
	return func(m *material) {
		m.fogEnabled = b
	}
}

// WithPointsCloud sets whether the material renders points.
func WithPointsCloud(b bool) MaterialBuilderOption {
	return func(m *material) {
		m.pointsCloud = b
	}
}

// WithLogarithmicDepth sets whether the material writes logarithmic depth.
func WithLogarithmicDepth(b bool) MaterialBuilderOption {
	return func(m *material) {
		m.logarithmicDepth = b
	}
}

// WithAlphaTest sets whether the material discards fragments below the alpha cutoff.
func WithAlphaTest(b bool) MaterialBuilderOption {
	return func(m *material) {
		m.alphaTest = b
	}
}

// WithDisableLighting sets whether the material ignores scene lights.
func WithDisableLighting(b bool) MaterialBuilderOption {
	return func(m *material) {
		m.disableLighting = b
	}
}

// WithSpecularSupported sets whether the material has a specular term. Defaults to true.
func WithSpecularSupported(b bool) MaterialBuilderOption {
	return func(m *material) {
		m.specularSupported = b
	}
}

// WithMRT sets whether the material writes prepass render targets.
func WithMRT(b bool) MaterialBuilderOption {
	return func(m *material) {
		m.mrt = b
	}
}

// WithClipPlaneOverride forces clip plane defines on or off instead of detecting the
// scene's clip planes.
//
// Parameters:
//   - b: true to enable every clip plane define, false to disable them
//
// Returns:
//   - MaterialBuilderOption: a function that sets the override
func WithClipPlaneOverride(b bool) MaterialBuilderOption {
	return func(m *material) {
		m.clipPlaneOverride = &b
	}
}

// WithTexture binds a texture dependency under the given sampler name.
//
// Parameters:
//   - name: the sampler name
//   - tex: the texture
//
// Returns:
//   - MaterialBuilderOption: a function that binds the texture
func WithTexture(name string, tex Texture) MaterialBuilderOption {
	return func(m *material) {
		if _, ok := m.textures[name]; !ok {
			m.textureNames = append(m.textureNames, name)
		}
		m.textures[name] = tex
	}
}

// WithOnError sets the callback invoked when a requested program fails to compile.
func WithOnError(fn func(p *effect.Program, err error)) MaterialBuilderOption {
	return func(m *material) {
		m.onError = fn
	}
}
