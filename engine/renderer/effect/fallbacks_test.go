package effect

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/defines"
)

type fakeMesh struct {
	gpu         bool
	influencers int
	hasMaterial bool
	program     *Program
	scene       *[]SkinnedMesh
}

func (m *fakeMesh) ComputeBonesUsingShaders() bool { return m.gpu }
func (m *fakeMesh) SetComputeBonesUsingShaders(b bool) { m.gpu = b }
func (m *fakeMesh) NumBoneInfluencers() int { return m.influencers }
func (m *fakeMesh) HasMaterial() bool { return m.hasMaterial }
func (m *fakeMesh) UsesProgram(p *Program) bool { return m.program == p }
func (m *fakeMesh) SceneMeshes() []SkinnedMesh {
	if m.scene == nil {
		return nil
	}
	return *m.scene
}

func TestFallbacksSentinels(t *testing.T) {
	f := NewFallbacks()
	if f.HasMoreFallbacks() {
		t.Fatal("HasMoreFallbacks on empty plan:\nhave true\nwant false")
	}
	if f.CurrentRank() != initialRank || f.MaxRank() != initialMaxRank {
		t.Fatalf("ranks:\nhave %d, %d\nwant %d, %d", f.CurrentRank(), f.MaxRank(), initialRank, initialMaxRank)
	}
	f.AddFallback(3, defines.Fog)
	f.AddFallback(1, defines.PointSize)
	if f.CurrentRank() != 1 || f.MaxRank() != 3 {
		t.Fatalf("ranks after AddFallback:\nhave %d, %d\nwant 1, 3", f.CurrentRank(), f.MaxRank())
	}
}

func TestFallbacksOrdering(t *testing.T) {
	l0, l1 := defines.Indexed(defines.Light, 0), defines.Indexed(defines.Light, 1)
	shadow0 := defines.Indexed(defines.Shadow, 0)
	pcf0 := defines.Indexed(defines.ShadowPCF, 0)

	f := NewFallbacks()
	f.AddFallback(0, shadow0)
	f.AddFallback(0, pcf0)
	f.AddFallback(1, l1)

	s := defines.Set{
		{Name: l0, Value: defines.Bool(true)},
		{Name: shadow0, Value: defines.Bool(true)},
		{Name: pcf0, Value: defines.Bool(true)},
		{Name: l1, Value: defines.Bool(true)},
	}

	s = f.Reduce(s, nil)
	if s.Has(shadow0) || s.Has(pcf0) {
		t.Fatalf("first Reduce:\nhave %q\nwant shadow defines removed", s.String())
	}
	if !s.Has(l1) {
		t.Fatalf("first Reduce removed LIGHT1:\nhave %q", s.String())
	}
	if !f.HasMoreFallbacks() {
		t.Fatal("HasMoreFallbacks between reductions:\nhave false\nwant true")
	}

	s = f.Reduce(s, nil)
	if s.Has(l1) {
		t.Fatalf("second Reduce:\nhave %q\nwant LIGHT1 removed", s.String())
	}
	if !s.Has(l0) {
		t.Fatalf("second Reduce removed LIGHT0:\nhave %q", s.String())
	}
	if f.HasMoreFallbacks() {
		t.Fatal("HasMoreFallbacks after both ranks:\nhave true\nwant false")
	}
}

func TestFallbacksCPUSkinning(t *testing.T) {
	p := NewProgram("default", "k", Options{})
	var scene []SkinnedMesh
	owner := &fakeMesh{gpu: true, influencers: 4, hasMaterial: true, program: p, scene: &scene}
	sharing := &fakeMesh{gpu: true, influencers: 2, hasMaterial: true, program: p, scene: &scene}
	other := &fakeMesh{gpu: true, influencers: 2, hasMaterial: true, program: NewProgram("default", "k2", Options{}), scene: &scene}
	bare := &fakeMesh{gpu: true, influencers: 2, scene: &scene}
	scene = []SkinnedMesh{owner, sharing, other, bare}

	f := NewFallbacks()
	f.AddFallback(0, defines.Fog)
	f.AddCPUSkinningFallback(0, owner)

	s := defines.Set{
		{Name: defines.NumBoneInfluencers, Value: defines.Int(4)},
		{Name: defines.Fog, Value: defines.Bool(true)},
	}
	s = f.Reduce(s, p)

	if v := s.Value(defines.NumBoneInfluencers); v != defines.Int(0) {
		t.Fatalf("NUM_BONE_INFLUENCERS:\nhave %v\nwant 0", v)
	}
	if !s.Has(defines.Fog) {
		t.Fatalf("CPU skinning step removed rank defines:\nhave %q", s.String())
	}
	if f.CurrentRank() != 0 {
		t.Fatalf("CurrentRank after CPU skinning step:\nhave %d\nwant 0", f.CurrentRank())
	}
	if owner.gpu || !p.BonesComputationForcedToCPU() {
		t.Fatal("owner still skins on GPU")
	}
	if sharing.gpu {
		t.Fatal("mesh sharing the program still skins on GPU")
	}
	if !other.gpu {
		t.Fatal("mesh with another program was switched to CPU")
	}
	if !bare.gpu {
		t.Fatal("material-less mesh switched although the owner has a material")
	}

	s = f.Reduce(s, p)
	if s.Has(defines.Fog) || f.CurrentRank() != 1 {
		t.Fatalf("second Reduce:\nhave %q at rank %d\nwant FOG removed at rank 1", s.String(), f.CurrentRank())
	}
}

func TestFallbacksCPUSkinningMaterialless(t *testing.T) {
	var scene []SkinnedMesh
	owner := &fakeMesh{gpu: true, influencers: 4, scene: &scene}
	bare := &fakeMesh{gpu: true, influencers: 2, scene: &scene}
	noBones := &fakeMesh{gpu: true, influencers: 0, scene: &scene}
	scene = []SkinnedMesh{owner, bare, noBones}

	f := NewFallbacks()
	f.AddCPUSkinningFallback(0, owner)
	f.Reduce(defines.Set{{Name: defines.NumBoneInfluencers, Value: defines.Int(4)}}, nil)

	if bare.gpu {
		t.Fatal("material-less mesh not switched while the owner has no material")
	}
	if !noBones.gpu {
		t.Fatal("mesh without influencers was switched")
	}
}

func TestFallbacksCPUSkinningExhausted(t *testing.T) {
	owner := &fakeMesh{gpu: false, influencers: 4, hasMaterial: true}
	f := NewFallbacks()
	f.AddCPUSkinningFallback(0, owner)
	s := defines.Set{{Name: defines.NumBoneInfluencers, Value: defines.Int(4)}}
	s = f.Reduce(s, nil)
	if s.Value(defines.NumBoneInfluencers) != defines.Int(4) {
		t.Fatal("CPU skinning step ran for a mesh already on the CPU")
	}
	if f.CurrentRank() != 1 || f.HasMoreFallbacks() {
		t.Fatalf("rank:\nhave %d\nwant 1 with no more fallbacks", f.CurrentRank())
	}
}
