package scene

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-shade/engine/model"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/material"
)

// PrePassTexture identifies an auxiliary buffer the prepass renderer can output.
type PrePassTexture int

const (
	PrePassPosition PrePassTexture = iota
	PrePassLocalPosition
	PrePassVelocity
	PrePassVelocityLinear
	PrePassReflectivity
	PrePassIrradiance
	PrePassAlbedoSqrt
	PrePassDepth
	PrePassScreenSpaceDepth
	PrePassNormal
	PrePassWorldNormal
)

// PrePassRenderer assigns multi render target slots to auxiliary buffers. Slot 0 is
// always the scene color.
type PrePassRenderer struct {
	enabled          bool
	indices          map[PrePassTexture]int
	normalWorldSpace bool
	excludedSkinned  []model.Mesh
	onChange         func()
}

func newPrePassRenderer(onChange func()) *PrePassRenderer {
	return &PrePassRenderer{
		indices:  make(map[PrePassTexture]int),
		onChange: onChange,
	}
}

// Enabled reports whether the prepass renders this frame.
func (p *PrePassRenderer) Enabled() bool {
	return p.enabled
}

// SetEnabled turns the prepass on or off.
func (p *PrePassRenderer) SetEnabled(b bool) {
	if p.enabled == b {
		return
	}
	p.enabled = b
	p.changed()
}

// EnableTexture assigns the next render target slot to t. Enabling a texture twice
// keeps its first slot.
//
// Parameters:
//   - t: the buffer to output
//
// Returns:
//   - int: the slot of t
func (p *PrePassRenderer) EnableTexture(t PrePassTexture) int {
	if i, ok := p.indices[t]; ok {
		return i
	}
	i := len(p.indices) + 1
	p.indices[t] = i
	p.changed()
	return i
}

// TextureIndex returns the render target slot of t, or -1 when t is not output.
func (p *PrePassRenderer) TextureIndex(t PrePassTexture) int {
	if i, ok := p.indices[t]; ok {
		return i
	}
	return -1
}

// MRTCount returns the number of render targets, color included.
func (p *PrePassRenderer) MRTCount() int {
	return len(p.indices) + 1
}

// NormalsInWorldSpace reports whether normals are written in world space.
func (p *PrePassRenderer) NormalsInWorldSpace() bool {
	return p.normalWorldSpace
}

// SetNormalsInWorldSpace sets whether normals are written in world space.
func (p *PrePassRenderer) SetNormalsInWorldSpace(b bool) {
	if p.normalWorldSpace == b {
		return
	}
	p.normalWorldSpace = b
	p.changed()
}

// ExcludeSkinnedMesh removes m from the skinned velocity output.
func (p *PrePassRenderer) ExcludeSkinnedMesh(m model.Mesh) {
	if slices.Contains(p.excludedSkinned, m) {
		return
	}
	p.excludedSkinned = append(p.excludedSkinned, m)
	if mat := m.Material(); mat != nil {
		mat.MarkAsDirty(material.DirtyAttributes)
	}
}

// IsExcluded reports whether m is excluded from the skinned velocity output.
func (p *PrePassRenderer) IsExcluded(m model.Mesh) bool {
	return slices.Contains(p.excludedSkinned, m)
}

func (p *PrePassRenderer) changed() {
	if p.onChange != nil {
		p.onChange()
	}
}
