package light

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/defines"
	"github.com/go-gl/mathgl/mgl32"
)

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypeDirectional represents a light with no position, only direction.
	// Used for large distant sources like the sun or moon.
	LightTypeDirectional LightType = iota

	// LightTypePoint represents a light that emits in all directions from a position.
	// Attenuates with distance up to a configurable range.
	LightTypePoint

	// LightTypeSpot represents a light that emits in a cone from a position along a direction.
	// Attenuates with both distance and angle from the cone axis.
	LightTypeSpot

	// LightTypeHemispheric represents an ambient light blended between a sky color along
	// its direction and a ground color opposite to it.
	LightTypeHemispheric
)

// FalloffType selects the attenuation model a shader uses for a light.
type FalloffType int

const (
	// FalloffDefault leaves the attenuation model to the material.
	FalloffDefault FalloffType = iota
	// FalloffPhysical is inverse-square attenuation.
	FalloffPhysical
	// FalloffGLTF is the KHR_lights_punctual range-windowed attenuation.
	FalloffGLTF
	// FalloffStandard is the linear range attenuation.
	FalloffStandard
)

// LightmapMode controls how a light combines with a baked lightmap.
type LightmapMode int

const (
	// LightmapDefault adds the light on top of the lightmap.
	LightmapDefault LightmapMode = iota
	// LightmapSpecular excludes the light from lightmapped surfaces but keeps its specular.
	LightmapSpecular
	// LightmapShadowsOnly only uses the light to darken lightmapped surfaces with its shadows.
	LightmapShadowsOnly
)

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	mu *sync.Mutex

	name          string
	lightType     LightType
	position      mgl32.Vec3
	direction     mgl32.Vec3
	diffuse       mgl32.Vec3
	specular      mgl32.Vec3
	groundColor   mgl32.Vec3
	intensity     float32
	lightRange    float32
	radius        float32
	innerCone     float32 // stored as cos(angle in radians)
	outerCone     float32 // stored as cos(angle in radians)
	enabled       bool
	shadowEnabled bool
	falloff       FalloffType
	lightmapMode  LightmapMode

	shadowGenerator ShadowGenerator
	onDirty         func()
}

// Light defines the interface for a light source in the scene.
//
// All light types share this interface; type-specific properties (cone angles for spot
// lights, ground color for hemispheric lights) are ignored where not applicable.
// Changing a property that selects a shader variant (falloff, lightmap mode, shadow
// enablement, shadow generator) notifies the observer installed with SetOnDirty.
type Light interface {
	// Name returns the light's identifier.
	//
	// Returns:
	//   - string: the light name
	Name() string

	// Type returns the kind of light source.
	//
	// Returns:
	//   - LightType: the light type
	Type() LightType

	// Position returns the world-space position of the light.
	//
	// Returns:
	//   - mgl32.Vec3: position
	Position() mgl32.Vec3

	// Direction returns the normalized direction of the light.
	//
	// Returns:
	//   - mgl32.Vec3: normalized direction
	Direction() mgl32.Vec3

	// Diffuse returns the RGB diffuse color of the light.
	//
	// Returns:
	//   - mgl32.Vec3: color as (r, g, b)
	Diffuse() mgl32.Vec3

	// Specular returns the RGB specular color of the light. A black specular color
	// contributes no specular term.
	//
	// Returns:
	//   - mgl32.Vec3: color as (r, g, b)
	Specular() mgl32.Vec3

	// GroundColor returns the color hemispheric lights use opposite to their direction.
	//
	// Returns:
	//   - mgl32.Vec3: color as (r, g, b)
	GroundColor() mgl32.Vec3

	// Intensity returns the scalar intensity multiplier for the light.
	//
	// Returns:
	//   - float32: the intensity value
	Intensity() float32

	// Range returns the maximum attenuation distance for point and spot lights.
	//
	// Returns:
	//   - float32: the range value
	Range() float32

	// Radius returns the light source radius used by area-aware specular.
	//
	// Returns:
	//   - float32: the radius
	Radius() float32

	// InnerCone returns the cosine of the inner cone half-angle for spot lights.
	InnerCone() float32

	// OuterCone returns the cosine of the outer cone half-angle for spot lights.
	OuterCone() float32

	// Enabled returns whether this light is active for rendering.
	Enabled() bool

	// ShadowEnabled returns whether shadows of this light are rendered.
	ShadowEnabled() bool

	// Falloff returns the attenuation model of the light.
	Falloff() FalloffType

	// LightmapMode returns how the light combines with lightmaps.
	LightmapMode() LightmapMode

	// ShadowGenerator returns the shadow generator attached to the light, or nil.
	ShadowGenerator() ShadowGenerator

	// PrepareLightSpecificDefines sets the sub-type define of slot i in t.
	//
	// Parameters:
	//   - t: the define table to update
	//   - i: the light slot index
	PrepareLightSpecificDefines(t *defines.Table, i int)

	// SetPosition sets the world-space position of the light.
	SetPosition(p mgl32.Vec3)

	// SetDirection sets the direction of the light and normalizes it.
	SetDirection(d mgl32.Vec3)

	// SetDiffuse sets the RGB diffuse color of the light.
	SetDiffuse(c mgl32.Vec3)

	// SetSpecular sets the RGB specular color of the light.
	SetSpecular(c mgl32.Vec3)

	// SetIntensity sets the scalar intensity multiplier.
	SetIntensity(intensity float32)

	// SetRange sets the maximum attenuation distance.
	SetRange(lightRange float32)

	// SetSpotCone sets the inner and outer cone half-angles for spot lights.
	//
	// Parameters:
	//   - innerDeg: inner cone half-angle in degrees
	//   - outerDeg: outer cone half-angle in degrees
	SetSpotCone(innerDeg, outerDeg float32)

	// SetEnabled enables or disables the light for rendering.
	SetEnabled(enabled bool)

	// SetShadowEnabled enables or disables the light's shadows.
	SetShadowEnabled(enabled bool)

	// SetFalloff sets the attenuation model.
	SetFalloff(falloff FalloffType)

	// SetLightmapMode sets how the light combines with lightmaps.
	SetLightmapMode(mode LightmapMode)

	// SetShadowGenerator attaches a shadow generator to the light. Pass nil to detach.
	SetShadowGenerator(g ShadowGenerator)

	// SetOnDirty installs the callback invoked when a variant-selecting property changes.
	// The scene owning the light installs it to mark the lights of its meshes' materials dirty.
	//
	// Parameters:
	//   - fn: the callback, or nil to remove it
	SetOnDirty(fn func())
}

var _ Light = &lightImpl{}

// NewLight creates a new Light of the specified type with sensible defaults and
// any provided options applied.
//
// Parameters:
//   - lightType: the kind of light to create
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewLight(lightType LightType, opts ...LightBuilderOption) Light {
	l := &lightImpl{
		mu:            &sync.Mutex{},
		lightType:     lightType,
		direction:     mgl32.Vec3{0, -1, 0},
		diffuse:       mgl32.Vec3{1, 1, 1},
		specular:      mgl32.Vec3{1, 1, 1},
		intensity:     1.0,
		lightRange:    10.0,
		radius:        0.00001,
		innerCone:     0.9063, // cos(25°)
		outerCone:     0.8192, // cos(35°)
		enabled:       true,
		shadowEnabled: true,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.shadowGenerator != nil {
		l.shadowGenerator.setLight(l)
	}
	return l
}

func (l *lightImpl) Name() string {
	return l.name
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Position() mgl32.Vec3 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.position
}

func (l *lightImpl) Direction() mgl32.Vec3 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.direction
}

func (l *lightImpl) Diffuse() mgl32.Vec3 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.diffuse
}

func (l *lightImpl) Specular() mgl32.Vec3 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.specular
}

func (l *lightImpl) GroundColor() mgl32.Vec3 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.groundColor
}

func (l *lightImpl) Intensity() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.intensity
}

func (l *lightImpl) Range() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lightRange
}

func (l *lightImpl) Radius() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.radius
}

func (l *lightImpl) InnerCone() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.innerCone
}

func (l *lightImpl) OuterCone() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.outerCone
}

func (l *lightImpl) Enabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enabled
}

func (l *lightImpl) ShadowEnabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.shadowEnabled
}

func (l *lightImpl) Falloff() FalloffType {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.falloff
}

func (l *lightImpl) LightmapMode() LightmapMode {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lightmapMode
}

func (l *lightImpl) ShadowGenerator() ShadowGenerator {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.shadowGenerator
}

func (l *lightImpl) PrepareLightSpecificDefines(t *defines.Table, i int) {
	switch l.lightType {
	case LightTypeDirectional:
		t.SetBool(defines.Indexed(defines.DirLight, i), true)
	case LightTypePoint:
		t.SetBool(defines.Indexed(defines.PointLight, i), true)
	case LightTypeSpot:
		t.SetBool(defines.Indexed(defines.SpotLight, i), true)
	case LightTypeHemispheric:
		t.SetBool(defines.Indexed(defines.HemiLight, i), true)
	}
}

func (l *lightImpl) SetPosition(p mgl32.Vec3) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.position = p
}

func (l *lightImpl) SetDirection(d mgl32.Vec3) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.direction = normalize(d)
}

func (l *lightImpl) SetDiffuse(c mgl32.Vec3) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.diffuse = c
}

func (l *lightImpl) SetSpecular(c mgl32.Vec3) {
	l.mu.Lock()
	wasBlack := l.specular == (mgl32.Vec3{})
	l.specular = c
	l.mu.Unlock()
	// SPECULARTERM depends on the specular color being black or not
	if wasBlack != (c == mgl32.Vec3{}) {
		l.markDirty()
	}
}

func (l *lightImpl) SetIntensity(intensity float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.intensity = intensity
}

func (l *lightImpl) SetRange(lightRange float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lightRange = lightRange
}

func (l *lightImpl) SetSpotCone(innerDeg, outerDeg float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.innerCone = cosDeg(innerDeg)
	l.outerCone = cosDeg(outerDeg)
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.mu.Lock()
	changed := l.enabled != enabled
	l.enabled = enabled
	l.mu.Unlock()
	if changed {
		l.markDirty()
	}
}

func (l *lightImpl) SetShadowEnabled(enabled bool) {
	l.mu.Lock()
	changed := l.shadowEnabled != enabled
	l.shadowEnabled = enabled
	l.mu.Unlock()
	if changed {
		l.markDirty()
	}
}

func (l *lightImpl) SetFalloff(falloff FalloffType) {
	l.mu.Lock()
	changed := l.falloff != falloff
	l.falloff = falloff
	l.mu.Unlock()
	if changed {
		l.markDirty()
	}
}

func (l *lightImpl) SetLightmapMode(mode LightmapMode) {
	l.mu.Lock()
	changed := l.lightmapMode != mode
	l.lightmapMode = mode
	l.mu.Unlock()
	if changed {
		l.markDirty()
	}
}

func (l *lightImpl) SetShadowGenerator(g ShadowGenerator) {
	l.mu.Lock()
	l.shadowGenerator = g
	l.mu.Unlock()
	if g != nil {
		g.setLight(l)
	}
	l.markDirty()
}

func (l *lightImpl) SetOnDirty(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onDirty = fn
}

func (l *lightImpl) markDirty() {
	l.mu.Lock()
	fn := l.onDirty
	l.mu.Unlock()
	if fn != nil {
		fn()
	}
}
