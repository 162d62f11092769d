package light

import (
	"slices"
	"strconv"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/defines"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/effect"
	"github.com/go-gl/mathgl/mgl32"
)

// ShadowMapResolution is the default width and height in texels of the shadow
// depth texture.
const ShadowMapResolution = 2048

// DefaultShadowHalfExtent is the default orthographic half-extent (in world units)
// used for the directional light shadow frustum.
const DefaultShadowHalfExtent float32 = 40.0

// DefaultShadowNear is the default near plane of the shadow projection.
const DefaultShadowNear float32 = 0.1

// DefaultShadowFar is the default far plane of the shadow projection.
const DefaultShadowFar float32 = 200.0

// DefaultShadowBias is the constant depth bias applied to shadow comparisons
// to reduce shadow acne artifacts.
const DefaultShadowBias float32 = 0.001

// DefaultShadowNormalBiasScale is the multiplier applied to the shadow map
// texel world-size to compute the normal-offset bias. Typical values are 2.0 to 4.0.
const DefaultShadowNormalBiasScale float32 = 3.0

// FilterType selects how a shadow map is sampled.
type FilterType int

const (
	FilterNone FilterType = iota
	FilterPoisson
	FilterESM
	FilterBlurESM
	FilterCloseESM
	FilterBlurCloseESM
	FilterPCF
	FilterPCSS
)

// FilterQuality selects the tap count of the PCF and PCSS filters.
type FilterQuality int

const (
	QualityHigh FilterQuality = iota
	QualityMedium
	QualityLow
)

// Caster is an object rendered into a shadow map.
type Caster interface {
	Name() string
}

// ShadowMap is the depth render target of a shadow generator together with the list
// of casters rendered into it. A shadow map with an empty render list produces no shadows.
type ShadowMap struct {
	size       int
	ready      bool
	renderList []Caster

	onChange func()
}

// NewShadowMap creates a shadow map of size×size texels, defaulting to ShadowMapResolution.
func NewShadowMap(size int) *ShadowMap {
	return &ShadowMap{size: common.Coalesce(size, ShadowMapResolution)}
}

// Size returns the width and height of the map in texels.
func (m *ShadowMap) Size() int {
	return m.size
}

// IsReady reports whether the depth texture is allocated and rendered.
func (m *ShadowMap) IsReady() bool {
	return m.ready
}

// SetReady records the readiness of the depth texture. A change marks the owning light dirty.
func (m *ShadowMap) SetReady(ready bool) {
	if m.ready == ready {
		return
	}
	m.ready = ready
	m.changed()
}

// RenderList returns the casters rendered into the map.
func (m *ShadowMap) RenderList() []Caster {
	return m.renderList
}

// AddCaster appends c to the render list. Adding a caster twice is a no-op.
func (m *ShadowMap) AddCaster(c Caster) {
	if slices.Contains(m.renderList, c) {
		return
	}
	m.renderList = append(m.renderList, c)
	if len(m.renderList) == 1 {
		m.changed()
	}
}

// RemoveCaster removes c from the render list.
func (m *ShadowMap) RemoveCaster(c Caster) {
	n := len(m.renderList)
	m.renderList = slices.DeleteFunc(m.renderList, func(o Caster) bool { return o == c })
	if n > 0 && len(m.renderList) == 0 {
		m.changed()
	}
}

// IsActive reports whether the map is ready and has casters, the condition for lights to
// cast its shadows.
func (m *ShadowMap) IsActive() bool {
	return m.ready && len(m.renderList) > 0
}

func (m *ShadowMap) changed() {
	if m.onChange != nil {
		m.onChange()
	}
}

// shadowGeneratorImpl is the implementation of the ShadowGenerator interface.
type shadowGeneratorImpl struct {
	light Light

	shadowMap  *ShadowMap
	filter     FilterType
	quality    FilterQuality
	darkness   float32
	bias       float32
	normalBias float32
	near       float32
	far        float32
	halfExtent float32

	cascades      int
	cascadeDebug  bool
	useShadowMaxZ bool
	cascadeBlend  bool
	rightHanded   bool
}

// ShadowGenerator renders a light's shadow map and describes how materials sample it.
type ShadowGenerator interface {
	// Light returns the light the generator is attached to, or nil when detached.
	Light() Light

	// ShadowMap returns the generator's depth render target.
	ShadowMap() *ShadowMap

	// Filter returns the sampling filter.
	Filter() FilterType

	// Quality returns the PCF/PCSS filter quality.
	Quality() FilterQuality

	// Darkness returns how dark shadowed areas are, 0 is black and 1 is unshadowed.
	Darkness() float32

	// Cascades returns the cascade count, 0 for a single shadow map.
	Cascades() int

	// SetFilter sets the sampling filter.
	SetFilter(f FilterType)

	// SetQuality sets the PCF/PCSS filter quality.
	SetQuality(q FilterQuality)

	// SetDarkness sets the shadow darkness, clamped to [0, 1].
	SetDarkness(d float32)

	// TransformMatrix returns the light-space view-projection used to render and sample the map.
	//
	// Returns:
	//   - mgl32.Mat4: the light view-projection matrix
	TransformMatrix() mgl32.Mat4

	// PrepareDefines sets the shadow defines of light slot i. It does nothing when scene
	// shadows or the light's shadows are disabled.
	//
	// Parameters:
	//   - t: the define table to update
	//   - i: the light slot index
	//   - shadowsEnabled: the scene-wide shadow switch
	PrepareDefines(t *defines.Table, i int, shadowsEnabled bool)

	// Bind writes the shadow uniforms and the shadow sampler of light slot i into p.
	//
	// Parameters:
	//   - p: the program to bind into
	//   - i: the light slot index
	Bind(p *effect.Program, i int)

	setLight(l Light)
}

var _ ShadowGenerator = &shadowGeneratorImpl{}

// NewShadowGenerator creates a ShadowGenerator with a shadow map of the given resolution.
// The generator becomes active once attached to a light via WithShadowGenerator or
// Light.SetShadowGenerator.
//
// Parameters:
//   - size: shadow map width and height in texels, 0 for ShadowMapResolution
//   - options: functional options to configure the generator
//
// Returns:
//   - ShadowGenerator: the new generator
func NewShadowGenerator(size int, options ...ShadowGeneratorBuilderOption) ShadowGenerator {
	g := &shadowGeneratorImpl{
		shadowMap:    NewShadowMap(size),
		filter:       FilterNone,
		quality:      QualityHigh,
		bias:         DefaultShadowBias,
		normalBias:   DefaultShadowNormalBiasScale / float32(common.Coalesce(size, ShadowMapResolution)),
		near:         DefaultShadowNear,
		far:          DefaultShadowFar,
		halfExtent:   DefaultShadowHalfExtent,
		cascadeBlend: true,
	}
	for _, option := range options {
		option(g)
	}
	g.shadowMap.onChange = g.markLightDirty
	return g
}

func (g *shadowGeneratorImpl) Light() Light {
	return g.light
}

func (g *shadowGeneratorImpl) ShadowMap() *ShadowMap {
	return g.shadowMap
}

func (g *shadowGeneratorImpl) Filter() FilterType {
	return g.filter
}

func (g *shadowGeneratorImpl) Quality() FilterQuality {
	return g.quality
}

func (g *shadowGeneratorImpl) Darkness() float32 {
	return g.darkness
}

func (g *shadowGeneratorImpl) Cascades() int {
	return g.cascades
}

func (g *shadowGeneratorImpl) SetFilter(f FilterType) {
	if g.filter == f {
		return
	}
	g.filter = f
	g.markLightDirty()
}

func (g *shadowGeneratorImpl) SetQuality(q FilterQuality) {
	if g.quality == q {
		return
	}
	g.quality = q
	g.markLightDirty()
}

func (g *shadowGeneratorImpl) SetDarkness(d float32) {
	g.darkness = common.Clamp(d, 0, 1)
}

func (g *shadowGeneratorImpl) TransformMatrix() mgl32.Mat4 {
	if g.light == nil {
		return mgl32.Ident4()
	}
	dir := g.light.Direction()
	switch g.light.Type() {
	case LightTypePoint, LightTypeSpot:
		pos := g.light.Position()
		up := mgl32.Vec3{0, 1, 0}
		if mgl32.Abs(dir.Dot(up)) > 0.99 {
			up = mgl32.Vec3{0, 0, 1}
		}
		view := mgl32.LookAtV(pos, pos.Add(dir), up)
		return mgl32.Perspective(mgl32.DegToRad(90), 1, g.near, g.far).Mul4(view)
	default:
		up := mgl32.Vec3{0, 1, 0}
		if mgl32.Abs(dir.Dot(up)) > 0.99 {
			up = mgl32.Vec3{0, 0, 1}
		}
		eye := dir.Mul(-g.far / 2)
		view := mgl32.LookAtV(eye, mgl32.Vec3{}, up)
		h := g.halfExtent
		return mgl32.Ortho(-h, h, -h, h, g.near, g.far).Mul4(view)
	}
}

func (g *shadowGeneratorImpl) PrepareDefines(t *defines.Table, i int, shadowsEnabled bool) {
	if !shadowsEnabled || g.light == nil || !g.light.ShadowEnabled() {
		return
	}
	t.SetBool(defines.Indexed(defines.Shadow, i), true)

	switch g.filter {
	case FilterPCSS:
		t.SetBool(defines.Indexed(defines.ShadowPCSS, i), true)
		g.prepareQualityDefines(t, i)
	case FilterPCF:
		t.SetBool(defines.Indexed(defines.ShadowPCF, i), true)
		g.prepareQualityDefines(t, i)
	case FilterPoisson:
		t.SetBool(defines.Indexed(defines.ShadowPoisson, i), true)
	case FilterESM, FilterBlurESM:
		t.SetBool(defines.Indexed(defines.ShadowESM, i), true)
	case FilterCloseESM, FilterBlurCloseESM:
		t.SetBool(defines.Indexed(defines.ShadowCloseESM, i), true)
	}

	if g.light.Type() == LightTypePoint {
		t.SetBool(defines.Indexed(defines.ShadowCube, i), true)
	}

	if g.cascades > 0 {
		t.SetBool(defines.Indexed(defines.ShadowCSM, i), true)
		t.SetBool(defines.Indexed(defines.ShadowCSMDebug, i), g.cascadeDebug)
		t.SetInt(defines.Indexed(defines.ShadowCSMNumCascades, i), g.cascades)
		t.SetBool(defines.Indexed(defines.ShadowCSMUseShadowMaxZ, i), g.useShadowMaxZ)
		t.SetBool(defines.Indexed(defines.ShadowCSMNoBlend, i), !g.cascadeBlend)
		t.SetBool(defines.Indexed(defines.ShadowCSMRightHanded, i), g.rightHanded)
	}
}

func (g *shadowGeneratorImpl) prepareQualityDefines(t *defines.Table, i int) {
	switch g.quality {
	case QualityLow:
		t.SetBool(defines.Indexed(defines.ShadowLowQuality, i), true)
	case QualityMedium:
		t.SetBool(defines.Indexed(defines.ShadowMediumQuality, i), true)
	}
}

func (g *shadowGeneratorImpl) Bind(p *effect.Program, i int) {
	if g.light == nil || p == nil {
		return
	}
	idx := strconv.Itoa(i)
	size := float32(g.shadowMap.Size())
	p.SetMatrix("lightMatrix"+idx, g.TransformMatrix())
	p.SetTexture("shadowSampler"+idx, g.shadowMap)
	p.SetFloat4("shadowsInfo"+idx, g.darkness, 1/size, g.bias, g.normalBias)
	p.SetFloat2("depthValues"+idx, g.near, g.near+g.far)
}

func (g *shadowGeneratorImpl) setLight(l Light) {
	g.light = l
}

func (g *shadowGeneratorImpl) markLightDirty() {
	if l, ok := g.light.(*lightImpl); ok {
		l.markDirty()
	}
}
