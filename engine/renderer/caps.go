package renderer

// DefaultMaxVertexAttribs is the vertex attribute limit assumed when the backend reports none.
const DefaultMaxVertexAttribs = 16

// Caps describes the engine capabilities the define deriver consults.
type Caps struct {
	// MaxVertexAttribs bounds the vertex attribute list of a program.
	MaxVertexAttribs int

	TextureFloatRender              bool
	TextureFloatLinearFiltering     bool
	TextureHalfFloatRender          bool
	TextureHalfFloatLinearFiltering bool

	// MultiviewSupported reports whether multiview rendering to a render target array is available.
	MultiviewSupported bool
}

// DefaultCaps returns the capabilities of a WebGPU device with default limits.
//
// Returns:
//   - Caps: the default capabilities
func DefaultCaps() Caps {
	return Caps{
		MaxVertexAttribs:                DefaultMaxVertexAttribs,
		TextureFloatRender:              true,
		TextureHalfFloatRender:          true,
		TextureHalfFloatLinearFiltering: true,
	}
}

// SupportsShadowFloat reports whether shadow maps can be stored in a float or half float format.
func (c Caps) SupportsShadowFloat() bool {
	return (c.TextureFloatRender && c.TextureFloatLinearFiltering) ||
		(c.TextureHalfFloatRender && c.TextureHalfFloatLinearFiltering)
}
