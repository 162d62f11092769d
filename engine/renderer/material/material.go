package material

import (
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/defines"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/effect"
)

// DefaultMaxSimultaneousLights is the number of light slots a material compiles for
// unless configured otherwise.
const DefaultMaxSimultaneousLights = 4

// DirtyFlag selects define groups of a material's table.
type DirtyFlag int

const (
	DirtyTextures DirtyFlag = 1 << iota
	DirtyLights
	DirtyAttributes
	DirtyMisc
	DirtyPrePass
	DirtyImageProcessing

	DirtyAll = DirtyTextures | DirtyLights | DirtyAttributes | DirtyMisc | DirtyPrePass | DirtyImageProcessing
)

// material is the implementation of the Material interface.
type material struct {
	name    string
	factory effect.Factory
	table   *defines.Table
	cache   *EffectCache
	onError func(p *effect.Program, err error)

	maxSimultaneousLights int
	fogEnabled            bool
	pointsCloud           bool
	logarithmicDepth      bool
	alphaTest             bool
	disableLighting       bool
	specularSupported     bool
	mrt                   bool
	clipPlaneOverride     *bool

	textureNames []string
	textures     map[string]Texture
}

// Material defines the interface for the state a material shares across archetypes:
// its define table, its EffectCache and the options the define deriver reads.
//
// Option setters mark the define groups they influence as dirty, so the next readiness
// check re-derives only what changed.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Factory returns the program factory the material compiles with.
	//
	// Returns:
	//   - effect.Factory: the program factory
	Factory() effect.Factory

	// Defines returns the material's define table.
	//
	// Returns:
	//   - *defines.Table: the define table
	Defines() *defines.Table

	// Cache returns the material's EffectCache.
	//
	// Returns:
	//   - *EffectCache: the effect cache
	Cache() *EffectCache

	// Program returns the last requested program, ready or not, or nil.
	Program() *effect.Program

	// BoundProgram returns the last program that became ready, or nil.
	BoundProgram() *effect.Program

	// OnError returns the callback invoked when a requested program fails to compile.
	OnError() func(p *effect.Program, err error)

	// MarkAsDirty sets the dirty groups selected by flags.
	//
	// Parameters:
	//   - flags: the define groups to mark
	MarkAsDirty(flags DirtyFlag)

	// MarkAsUnprocessed forces the next readiness check to request the program again.
	MarkAsUnprocessed()

	// MarkAsImageProcessingDirty marks the image processing group dirty.
	MarkAsImageProcessingDirty()

	// Rebuild forces a new program request on the next readiness check.
	Rebuild()

	// MaxSimultaneousLights returns the number of light slots the material compiles for.
	MaxSimultaneousLights() int

	// FogEnabled reports whether the material opts in to scene fog.
	FogEnabled() bool

	// PointsCloud reports whether the material renders points.
	PointsCloud() bool

	// UseLogarithmicDepth reports whether the material writes logarithmic depth.
	UseLogarithmicDepth() bool

	// AlphaTest reports whether the material discards fragments below the alpha cutoff.
	AlphaTest() bool

	// DisableLighting reports whether the material ignores scene lights.
	DisableLighting() bool

	// SpecularSupported reports whether the material has a specular term.
	SpecularSupported() bool

	// CanRenderToMRT reports whether the material writes prepass render targets.
	CanRenderToMRT() bool

	// ClipPlaneOverride returns the explicit clip plane switch, or nil to detect the
	// scene's clip planes.
	ClipPlaneOverride() *bool

	// Texture returns the texture bound to name, or nil.
	Texture(name string) Texture

	// Textures returns the texture dependencies in binding order.
	Textures() []Texture

	// SetMaxSimultaneousLights sets the number of light slots.
	SetMaxSimultaneousLights(n int)

	// SetFogEnabled sets whether the material opts in to scene fog.
	SetFogEnabled(b bool)

	// SetPointsCloud sets whether the material renders points.
	SetPointsCloud(b bool)

	// SetUseLogarithmicDepth sets whether the material writes logarithmic depth.
	SetUseLogarithmicDepth(b bool)

	// SetAlphaTest sets whether the material discards fragments below the alpha cutoff.
	SetAlphaTest(b bool)

	// SetDisableLighting sets whether the material ignores scene lights.
	SetDisableLighting(b bool)

	// SetCanRenderToMRT sets whether the material writes prepass render targets.
	SetCanRenderToMRT(b bool)

	// SetClipPlaneOverride sets the explicit clip plane switch. Pass nil to detect.
	SetClipPlaneOverride(b *bool)

	// SetTexture binds tex to name. Passing nil removes the binding.
	//
	// Parameters:
	//   - name: the sampler name
	//   - tex: the texture, or nil
	SetTexture(name string, tex Texture)
}

var _ Material = &material{}

// NewMaterial creates a new Material compiling with factory and configured with the
// provided options. The define table is seeded with the schema given via WithSchema.
//
// Parameters:
//   - factory: the program factory
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(factory effect.Factory, options ...MaterialBuilderOption) Material {
	m := &material{
		factory:               factory,
		cache:                 NewEffectCache(factory),
		maxSimultaneousLights: DefaultMaxSimultaneousLights,
		fogEnabled:            true,
		specularSupported:     true,
		textures:              make(map[string]Texture),
	}
	for _, opt := range options {
		opt(m)
	}
	if m.table == nil {
		m.table = defines.NewTable()
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) Factory() effect.Factory {
	return m.factory
}

func (m *material) Defines() *defines.Table {
	return m.table
}

func (m *material) Cache() *EffectCache {
	return m.cache
}

func (m *material) Program() *effect.Program {
	return m.cache.Current()
}

func (m *material) BoundProgram() *effect.Program {
	return m.cache.Bound()
}

func (m *material) OnError() func(p *effect.Program, err error) {
	return m.onError
}

func (m *material) MarkAsDirty(flags DirtyFlag) {
	if flags&DirtyTextures != 0 {
		m.table.MarkAsTexturesDirty()
	}
	if flags&DirtyLights != 0 {
		m.table.MarkAsLightDirty()
	}
	if flags&DirtyAttributes != 0 {
		m.table.MarkAsAttributesDirty()
	}
	if flags&DirtyMisc != 0 {
		m.table.MarkAsMiscDirty()
	}
	if flags&DirtyPrePass != 0 {
		m.table.MarkAsPrePassDirty()
	}
	if flags&DirtyImageProcessing != 0 {
		m.table.MarkAsImageProcessingDirty()
	}
}

func (m *material) MarkAsUnprocessed() {
	m.table.MarkAsUnprocessed()
}

func (m *material) MarkAsImageProcessingDirty() {
	m.table.MarkAsImageProcessingDirty()
}

func (m *material) Rebuild() {
	m.table.Rebuild()
}

func (m *material) MaxSimultaneousLights() int {
	return m.maxSimultaneousLights
}

func (m *material) FogEnabled() bool {
	return m.fogEnabled
}

func (m *material) PointsCloud() bool {
	return m.pointsCloud
}

func (m *material) UseLogarithmicDepth() bool {
	return m.logarithmicDepth
}

func (m *material) AlphaTest() bool {
	return m.alphaTest
}

func (m *material) DisableLighting() bool {
	return m.disableLighting
}

func (m *material) SpecularSupported() bool {
	return m.specularSupported
}

func (m *material) CanRenderToMRT() bool {
	return m.mrt
}

func (m *material) ClipPlaneOverride() *bool {
	return m.clipPlaneOverride
}

func (m *material) Texture(name string) Texture {
	return m.textures[name]
}

func (m *material) Textures() []Texture {
	out := make([]Texture, 0, len(m.textureNames))
	for _, n := range m.textureNames {
		out = append(out, m.textures[n])
	}
	return out
}

func (m *material) SetMaxSimultaneousLights(n int) {
	if n == m.maxSimultaneousLights {
		return
	}
	m.maxSimultaneousLights = n
	m.MarkAsDirty(DirtyLights)
}

func (m *material) SetFogEnabled(b bool) {
	if b == m.fogEnabled {
		return
	}
	m.fogEnabled = b
	m.MarkAsDirty(DirtyMisc)
}

func (m *material) SetPointsCloud(b bool) {
	if b == m.pointsCloud {
		return
	}
	m.pointsCloud = b
	m.MarkAsDirty(DirtyMisc)
}

func (m *material) SetUseLogarithmicDepth(b bool) {
	if b == m.logarithmicDepth {
		return
	}
	m.logarithmicDepth = b
	m.MarkAsDirty(DirtyMisc)
}

func (m *material) SetAlphaTest(b bool) {
	if b == m.alphaTest {
		return
	}
	m.alphaTest = b
	m.MarkAsDirty(DirtyMisc)
}

func (m *material) SetDisableLighting(b bool) {
	if b == m.disableLighting {
		return
	}
	m.disableLighting = b
	m.MarkAsDirty(DirtyLights)
}

func (m *material) SetCanRenderToMRT(b bool) {
	if b == m.mrt {
		return
	}
	m.mrt = b
	m.MarkAsDirty(DirtyPrePass)
}

func (m *material) SetClipPlaneOverride(b *bool) {
	m.clipPlaneOverride = b
	m.MarkAsUnprocessed()
}

func (m *material) SetTexture(name string, tex Texture) {
	_, had := m.textures[name]
	switch {
	case tex == nil && had:
		delete(m.textures, name)
		for i, n := range m.textureNames {
			if n == name {
				m.textureNames = append(m.textureNames[:i], m.textureNames[i+1:]...)
				break
			}
		}
	case tex != nil:
		if !had {
			m.textureNames = append(m.textureNames, name)
		}
		m.textures[name] = tex
	default:
		return
	}
	m.MarkAsDirty(DirtyTextures)
}
