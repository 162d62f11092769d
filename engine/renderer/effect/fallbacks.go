package effect

import "github.com/Carmen-Shannon/oxy-shade/engine/renderer/defines"

const (
	initialRank    = 32
	initialMaxRank = -1
)

// SkinnedMesh is the mesh view the CPU skinning fallback needs.
type SkinnedMesh interface {
	// ComputeBonesUsingShaders reports whether skinning currently runs on the GPU.
	ComputeBonesUsingShaders() bool

	// SetComputeBonesUsingShaders switches skinning between GPU and CPU.
	SetComputeBonesUsingShaders(b bool)

	// NumBoneInfluencers returns the configured bone influencers per vertex.
	NumBoneInfluencers() int

	// HasMaterial reports whether a material is assigned to the mesh.
	HasMaterial() bool

	// UsesProgram reports whether the mesh's material currently draws with p.
	UsesProgram(p *Program) bool

	// SceneMeshes returns every mesh of the scene the mesh belongs to.
	SceneMeshes() []SkinnedMesh
}

// Fallbacks is a rank-ordered plan of define removals. Lower ranks are removed first.
// A Fallbacks is built fresh for each compile request and discarded afterwards.
type Fallbacks struct {
	defines     map[int][]defines.Name
	currentRank int
	maxRank     int
	mesh        SkinnedMesh
}

// NewFallbacks creates an empty fallback plan.
//
// Returns:
//   - *Fallbacks: a plan with no fallbacks
func NewFallbacks() *Fallbacks {
	return &Fallbacks{
		defines:     make(map[int][]defines.Name),
		currentRank: initialRank,
		maxRank:     initialMaxRank,
	}
}

// AddFallback registers name for removal at rank. Defines sharing a rank are removed together.
//
// Parameters:
//   - rank: the removal priority, lower is removed first
//   - name: the define to remove
func (f *Fallbacks) AddFallback(rank int, name defines.Name) {
	f.defines[rank] = append(f.defines[rank], name)
	f.trackRank(rank)
}

// AddCPUSkinningFallback registers mesh for the one-shot switch to CPU skinning.
// The rank only widens the tracked range; no define is added to its bucket.
//
// Parameters:
//   - rank: the rank folded into the tracked range
//   - mesh: the mesh to switch to CPU skinning
func (f *Fallbacks) AddCPUSkinningFallback(rank int, mesh SkinnedMesh) {
	f.mesh = mesh
	f.trackRank(rank)
}

func (f *Fallbacks) trackRank(rank int) {
	if rank < f.currentRank {
		f.currentRank = rank
	}
	if rank > f.maxRank {
		f.maxRank = rank
	}
}

// HasMoreFallbacks reports whether a rank remains to be removed.
func (f *Fallbacks) HasMoreFallbacks() bool {
	return f.currentRank <= f.maxRank
}

// CurrentRank returns the lowest rank not yet removed.
func (f *Fallbacks) CurrentRank() int {
	return f.currentRank
}

// MaxRank returns the highest rank registered.
func (f *Fallbacks) MaxRank() int {
	return f.maxRank
}

// Rank returns the defines registered at rank.
func (f *Fallbacks) Rank(rank int) []defines.Name {
	return f.defines[rank]
}

// Mesh returns the mesh registered for CPU skinning, if any.
func (f *Fallbacks) Mesh() SkinnedMesh {
	return f.mesh
}

// Reduce performs one degradation step on current and returns the reduced set.
//
// If the registered mesh still skins on the GPU with at least one influencer, the step
// switches it (and the scene meshes drawing with program, plus material-less meshes when the
// registered mesh has no material either) to CPU skinning, sets NUM_BONE_INFLUENCERS to 0 and
// flags program. That step does not advance the current rank. Otherwise every define of the
// current rank is removed and the rank advances.
//
// Parameters:
//   - current: the define set of the failing variant
//   - program: the failing program, may be nil
//
// Returns:
//   - defines.Set: the reduced define set
func (f *Fallbacks) Reduce(current defines.Set, program *Program) defines.Set {
	if m := f.mesh; m != nil && m.ComputeBonesUsingShaders() && m.NumBoneInfluencers() > 0 {
		m.SetComputeBonesUsingShaders(false)
		current = current.With(defines.NumBoneInfluencers, defines.Int(0))
		if program != nil {
			program.setBonesComputationForcedToCPU()
		}

		for _, other := range m.SceneMeshes() {
			if other == nil || other == m {
				continue
			}
			if !other.HasMaterial() {
				if !m.HasMaterial() && usesGPUSkinning(other) {
					other.SetComputeBonesUsingShaders(false)
				}
				continue
			}
			if !usesGPUSkinning(other) {
				continue
			}
			if program != nil && other.UsesProgram(program) {
				other.SetComputeBonesUsingShaders(false)
			}
		}
		return current
	}

	current = current.Without(f.defines[f.currentRank]...)
	f.currentRank++
	return current
}

func usesGPUSkinning(m SkinnedMesh) bool {
	return m.ComputeBonesUsingShaders() && m.NumBoneInfluencers() > 0
}
