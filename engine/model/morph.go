package model

// MorphTarget is one blend shape of a mesh.
type MorphTarget struct {
	Name        string
	Influence   float32
	HasNormals  bool
	HasTangents bool
	HasUVs      bool
}

// MorphTargetManager holds the morph targets of a mesh and the channel switches that
// decide which vertex channels are morphed.
type MorphTargetManager struct {
	targets           []*MorphTarget
	numMaxInfluencers int

	enableNormalMorphing  bool
	enableTangentMorphing bool
	enableUVMorphing      bool
	useTexture            bool

	influences []float32
	onChange   func()
}

// NewMorphTargetManager creates a manager holding targets with every channel enabled.
//
// Parameters:
//   - targets: the morph targets
//
// Returns:
//   - *MorphTargetManager: the new manager
func NewMorphTargetManager(targets ...*MorphTarget) *MorphTargetManager {
	return &MorphTargetManager{
		targets:               targets,
		enableNormalMorphing:  true,
		enableTangentMorphing: true,
		enableUVMorphing:      true,
	}
}

// Targets returns every target, active or not.
func (m *MorphTargetManager) Targets() []*MorphTarget {
	return m.targets
}

// AddTarget appends t.
func (m *MorphTargetManager) AddTarget(t *MorphTarget) {
	m.targets = append(m.targets, t)
	m.changed()
}

// SetInfluence sets the influence of target i. Activating or deactivating a target
// changes the variant the mesh compiles to.
//
// Parameters:
//   - i: the target index
//   - influence: the new weight
func (m *MorphTargetManager) SetInfluence(i int, influence float32) {
	if i < 0 || i >= len(m.targets) {
		return
	}
	t := m.targets[i]
	wasActive := t.Influence > 0
	t.Influence = influence
	if wasActive != (influence > 0) {
		m.changed()
	}
}

// ActiveTargets returns the targets with a positive influence, in order.
func (m *MorphTargetManager) ActiveTargets() []*MorphTarget {
	out := make([]*MorphTarget, 0, len(m.targets))
	for _, t := range m.targets {
		if t.Influence > 0 {
			out = append(out, t)
		}
	}
	return out
}

// NumInfluencers returns the number of active targets.
func (m *MorphTargetManager) NumInfluencers() int {
	n := 0
	for _, t := range m.targets {
		if t.Influence > 0 {
			n++
		}
	}
	return n
}

// NumMaxInfluencers returns the fixed influencer count the shader is compiled for, or 0
// when it follows NumInfluencers.
func (m *MorphTargetManager) NumMaxInfluencers() int {
	return m.numMaxInfluencers
}

// SetNumMaxInfluencers fixes the influencer count the shader is compiled for.
func (m *MorphTargetManager) SetNumMaxInfluencers(n int) {
	m.numMaxInfluencers = n
	m.changed()
}

// Influencers returns NumMaxInfluencers when set, NumInfluencers otherwise.
func (m *MorphTargetManager) Influencers() int {
	if m.numMaxInfluencers > 0 {
		return m.numMaxInfluencers
	}
	return m.NumInfluencers()
}

// Influences returns the weights of the active targets. The slice is reused between calls.
func (m *MorphTargetManager) Influences() []float32 {
	m.influences = m.influences[:0]
	for _, t := range m.targets {
		if t.Influence > 0 {
			m.influences = append(m.influences, t.Influence)
		}
	}
	return m.influences
}

// SupportsNormals reports whether normal morphing is enabled and every target has normals.
func (m *MorphTargetManager) SupportsNormals() bool {
	return m.enableNormalMorphing && m.all(func(t *MorphTarget) bool { return t.HasNormals })
}

// SupportsTangents reports whether tangent morphing is enabled and every target has tangents.
func (m *MorphTargetManager) SupportsTangents() bool {
	return m.enableTangentMorphing && m.all(func(t *MorphTarget) bool { return t.HasTangents })
}

// SupportsUVs reports whether UV morphing is enabled and every target has UVs.
func (m *MorphTargetManager) SupportsUVs() bool {
	return m.enableUVMorphing && m.all(func(t *MorphTarget) bool { return t.HasUVs })
}

// SetChannels enables or disables morphing per vertex channel.
//
// Parameters:
//   - normals: morph normals
//   - tangents: morph tangents
//   - uvs: morph texture coordinates
func (m *MorphTargetManager) SetChannels(normals, tangents, uvs bool) {
	m.enableNormalMorphing = normals
	m.enableTangentMorphing = tangents
	m.enableUVMorphing = uvs
	m.changed()
}

// IsUsingTextureForTargets reports whether target data is sampled from a texture.
func (m *MorphTargetManager) IsUsingTextureForTargets() bool {
	return m.useTexture
}

// SetUseTextureToStoreTargets sets whether target data is sampled from a texture.
func (m *MorphTargetManager) SetUseTextureToStoreTargets(b bool) {
	m.useTexture = b
	m.changed()
}

func (m *MorphTargetManager) all(pred func(*MorphTarget) bool) bool {
	if len(m.targets) == 0 {
		return false
	}
	for _, t := range m.targets {
		if !pred(t) {
			return false
		}
	}
	return true
}

func (m *MorphTargetManager) changed() {
	if m.onChange != nil {
		m.onChange()
	}
}
