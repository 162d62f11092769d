package scene

import (
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/Carmen-Shannon/oxy-shade/engine/camera"
	"github.com/Carmen-Shannon/oxy-shade/engine/light"
	"github.com/Carmen-Shannon/oxy-shade/engine/model"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

// FogMode selects the fog equation.
type FogMode int

const (
	FogNone FogMode = iota
	FogExp
	FogExp2
	FogLinear
)

// Fog holds the scene fog settings.
type Fog struct {
	Mode    FogMode
	Color   mgl32.Vec3
	Density float32
	Start   float32
	End     float32
}

// Scene defines the interface for the scene graph the define deriver and the binder read:
// lights, meshes, fog, clip planes, the active camera, the prepass renderer and the
// renderer the scene draws with.
//
// Changing scene-wide switches marks the matching define groups of every mesh material dirty.
type Scene interface {
	model.Container

	// Name returns the name of the scene.
	//
	// Returns:
	//   - string: the scene name
	Name() string

	// Renderer returns the renderer the scene draws with.
	//
	// Returns:
	//   - renderer.Renderer: the renderer
	Renderer() renderer.Renderer

	// Camera returns the active camera, or nil.
	//
	// Returns:
	//   - camera.Camera: the active camera
	Camera() camera.Camera

	// SetCamera sets the active camera.
	//
	// Parameters:
	//   - cam: the camera to make active, or nil
	SetCamera(cam camera.Camera)

	// AddLight adds a light and recomputes the light sources of every mesh.
	//
	// Parameters:
	//   - l: the light to add
	AddLight(l light.Light)

	// RemoveLight removes a light and recomputes the light sources of every mesh.
	//
	// Parameters:
	//   - l: the light to remove
	RemoveLight(l light.Light)

	// Lights returns the scene lights in insertion order.
	//
	// Returns:
	//   - []light.Light: the lights
	Lights() []light.Light

	// AddMesh adds a mesh, attaches it to the scene and assigns its light sources.
	//
	// Parameters:
	//   - m: the mesh to add
	AddMesh(m model.Mesh)

	// RemoveMesh removes a mesh and detaches it from the scene.
	//
	// Parameters:
	//   - m: the mesh to remove
	RemoveMesh(m model.Mesh)

	// LightsEnabled reports whether lights are applied at all.
	LightsEnabled() bool

	// SetLightsEnabled enables or disables every light.
	SetLightsEnabled(b bool)

	// ShadowsEnabled reports whether shadows are rendered at all.
	ShadowsEnabled() bool

	// SetShadowsEnabled enables or disables every shadow.
	SetShadowsEnabled(b bool)

	// FogEnabled reports whether fog is applied at all.
	FogEnabled() bool

	// SetFogEnabled enables or disables fog.
	SetFogEnabled(b bool)

	// Fog returns the fog settings.
	Fog() Fog

	// SetFog replaces the fog settings.
	SetFog(f Fog)

	// ClipPlane returns clip plane slot i, or nil when the slot is empty.
	//
	// Parameters:
	//   - i: the slot index in [0, common.MaxClipPlanes)
	//
	// Returns:
	//   - *common.Plane: the plane, or nil
	ClipPlane(i int) *common.Plane

	// SetClipPlane fills or clears clip plane slot i.
	//
	// Parameters:
	//   - i: the slot index in [0, common.MaxClipPlanes)
	//   - p: the plane, or nil to clear the slot
	SetClipPlane(i int, p *common.Plane)

	// RenderID returns the id of the current frame.
	RenderID() int

	// BeginFrame advances the render id.
	BeginFrame()

	// PrePassRenderer returns the prepass renderer, or nil when none was enabled.
	PrePassRenderer() *PrePassRenderer

	// EnablePrePassRenderer creates the prepass renderer if needed and enables it.
	//
	// Returns:
	//   - *PrePassRenderer: the prepass renderer
	EnablePrePassRenderer() *PrePassRenderer

	// DisablePrePassRenderer disables the prepass renderer.
	DisablePrePassRenderer()
}

type scene struct {
	mu *sync.RWMutex

	name string
	r    renderer.Renderer
	cam  camera.Camera

	lights []light.Light
	meshes []model.Mesh

	lightsEnabled  bool
	shadowsEnabled bool
	fogEnabled     bool
	fog            Fog
	clipPlanes     [common.MaxClipPlanes]*common.Plane

	renderID int
	prePass  *PrePassRenderer
}

// Ensure scene implements Scene interface.
var _ Scene = &scene{}

// NewScene creates a new Scene drawing with r. The renderer is required and NewScene
// panics if it is nil.
//
// Parameters:
//   - name: the name of the scene
//   - r: the renderer to attach (must not be nil)
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, r renderer.Renderer, options ...SceneBuilderOption) Scene {
	if r == nil {
		panic("scene: NewScene requires a non-nil Renderer")
	}
	s := &scene{
		mu:             &sync.RWMutex{},
		name:           name,
		r:              r,
		lightsEnabled:  true,
		shadowsEnabled: true,
		fogEnabled:     true,
		fog: Fog{
			Color:   mgl32.Vec3{0.2, 0.2, 0.3},
			Density: 0.1,
			End:     1000,
		},
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Renderer() renderer.Renderer {
	return s.r
}

func (s *scene) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *scene) SetCamera(cam camera.Camera) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cam = cam
}

func (s *scene) AddLight(l light.Light) {
	s.mu.Lock()
	if slices.Contains(s.lights, l) {
		s.mu.Unlock()
		return
	}
	s.lights = append(s.lights, l)
	s.mu.Unlock()
	l.SetOnDirty(s.resyncLightSources)
	s.resyncLightSources()
}

func (s *scene) RemoveLight(l light.Light) {
	s.mu.Lock()
	idx := slices.Index(s.lights, l)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	s.lights = slices.Delete(s.lights, idx, idx+1)
	s.mu.Unlock()
	l.SetOnDirty(nil)
	s.resyncLightSources()
}

func (s *scene) Lights() []light.Light {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.lights)
}

func (s *scene) AddMesh(m model.Mesh) {
	s.mu.Lock()
	if slices.Contains(s.meshes, m) {
		s.mu.Unlock()
		return
	}
	s.meshes = append(s.meshes, m)
	lights := s.affectingLights()
	s.mu.Unlock()
	m.SetScene(s)
	m.SetLightSources(lights)
}

func (s *scene) RemoveMesh(m model.Mesh) {
	s.mu.Lock()
	idx := slices.Index(s.meshes, m)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	s.meshes = slices.Delete(s.meshes, idx, idx+1)
	s.mu.Unlock()
	m.SetScene(nil)
}

func (s *scene) Meshes() []model.Mesh {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.meshes)
}

func (s *scene) PrePassExcludes(m model.Mesh) (active, excluded bool) {
	s.mu.RLock()
	p := s.prePass
	s.mu.RUnlock()
	if p == nil || !p.Enabled() {
		return false, false
	}
	return true, p.IsExcluded(m)
}

func (s *scene) SupportsFloatTextures() bool {
	return s.r.Caps().TextureFloatRender
}

func (s *scene) LightsEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lightsEnabled
}

func (s *scene) SetLightsEnabled(b bool) {
	s.mu.Lock()
	changed := s.lightsEnabled != b
	s.lightsEnabled = b
	s.mu.Unlock()
	if changed {
		s.markAllMaterialsAsDirty(material.DirtyLights)
	}
}

func (s *scene) ShadowsEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.shadowsEnabled
}

func (s *scene) SetShadowsEnabled(b bool) {
	s.mu.Lock()
	changed := s.shadowsEnabled != b
	s.shadowsEnabled = b
	s.mu.Unlock()
	if changed {
		s.markAllMaterialsAsDirty(material.DirtyLights)
	}
}

func (s *scene) FogEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fogEnabled
}

func (s *scene) SetFogEnabled(b bool) {
	s.mu.Lock()
	changed := s.fogEnabled != b
	s.fogEnabled = b
	s.mu.Unlock()
	if changed {
		s.markAllMaterialsAsDirty(material.DirtyMisc)
	}
}

func (s *scene) Fog() Fog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fog
}

func (s *scene) SetFog(f Fog) {
	s.mu.Lock()
	modeChanged := s.fog.Mode != f.Mode
	s.fog = f
	s.mu.Unlock()
	if modeChanged {
		s.markAllMaterialsAsDirty(material.DirtyMisc)
	}
}

func (s *scene) ClipPlane(i int) *common.Plane {
	if i < 0 || i >= common.MaxClipPlanes {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clipPlanes[i]
}

func (s *scene) SetClipPlane(i int, p *common.Plane) {
	if i < 0 || i >= common.MaxClipPlanes {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clipPlanes[i] = p
}

func (s *scene) RenderID() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.renderID
}

func (s *scene) BeginFrame() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renderID++
}

func (s *scene) PrePassRenderer() *PrePassRenderer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prePass
}

func (s *scene) EnablePrePassRenderer() *PrePassRenderer {
	s.mu.Lock()
	if s.prePass == nil {
		s.prePass = newPrePassRenderer(func() { s.markAllMaterialsAsDirty(material.DirtyPrePass) })
	}
	p := s.prePass
	s.mu.Unlock()
	p.SetEnabled(true)
	return p
}

func (s *scene) DisablePrePassRenderer() {
	s.mu.RLock()
	p := s.prePass
	s.mu.RUnlock()
	if p != nil {
		p.SetEnabled(false)
	}
}

// resyncLightSources recomputes the light sources of every mesh.
func (s *scene) resyncLightSources() {
	s.mu.RLock()
	lights := s.affectingLights()
	meshes := slices.Clone(s.meshes)
	s.mu.RUnlock()
	for _, m := range meshes {
		m.SetLightSources(lights)
	}
}

// affectingLights returns the enabled lights. Caller must hold the mutex.
func (s *scene) affectingLights() []light.Light {
	out := make([]light.Light, 0, len(s.lights))
	for _, l := range s.lights {
		if l.Enabled() {
			out = append(out, l)
		}
	}
	return out
}

func (s *scene) markAllMaterialsAsDirty(flags material.DirtyFlag) {
	for _, m := range s.Meshes() {
		if mat := m.Material(); mat != nil {
			mat.MarkAsDirty(flags)
		}
	}
}
