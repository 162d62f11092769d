package material

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/defines"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/effect"
)

type fakeFactory struct {
	programs         map[string]*effect.Program
	requests         []effect.Options
	fallbacksApplied int
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{programs: make(map[string]*effect.Program)}
}

func (f *fakeFactory) CreateProgram(name string, opts effect.Options) *effect.Program {
	f.requests = append(f.requests, opts)
	key := name + "\x00" + opts.Defines.String()
	if p, ok := f.programs[key]; ok {
		p.AddCallbacks(opts.OnCompiled, opts.OnError)
		return p
	}
	p := effect.NewProgram(name, key, opts)
	f.programs[key] = p
	return p
}

func (f *fakeFactory) FallbackApplied() {
	f.fallbacksApplied++
}

type fakeTexture struct {
	ready bool
}

func (t *fakeTexture) IsReady() bool {
	return t.ready
}

func newTestTable() *defines.Table {
	return defines.NewTable(
		defines.Entry{Name: defines.Fog, Value: defines.Bool(true)},
		defines.Entry{Name: defines.PointSize, Value: defines.Bool(false)},
	)
}

func TestEffectCacheReuseAndStale(t *testing.T) {
	f := newFakeFactory()
	c := NewEffectCache(f)
	table := newTestTable()

	if c.State() != StateNoProgram || !c.NeedsCompile(table) {
		t.Fatalf("initial:\nhave %v, needs compile %v\nwant no-program, true", c.State(), c.NeedsCompile(table))
	}
	c.Compile(table, Request{ShaderName: "default"}, nil)
	if c.State() != StateCompiling || c.IsReady() {
		t.Fatalf("after Compile:\nhave %v\nwant compiling and not ready", c.State())
	}

	c.Current().Complete("handle", nil, nil)
	if !c.IsReady() || c.State() != StateReady || c.Bound() != c.Current() {
		t.Fatalf("after Complete:\nhave %v\nwant ready with bound program", c.State())
	}
	if c.NeedsCompile(table) {
		t.Fatal("unchanged table must reuse the ready program")
	}

	first := c.Current()
	table.SetBool(defines.PointSize, true)
	if !c.NeedsCompile(table) || c.State() != StateStale {
		t.Fatalf("after define change:\nhave %v\nwant stale", c.State())
	}
	c.Compile(table, Request{ShaderName: "default"}, nil)
	if c.Current() == first {
		t.Fatal("changed key must request a different program")
	}

	table.SetBool(defines.PointSize, false)
	c.Compile(table, Request{ShaderName: "default"}, nil)
	if c.Current() != first {
		t.Fatal("returning to the first key must reuse the first program")
	}
}

func TestEffectCacheMarkAsUnprocessed(t *testing.T) {
	c := NewEffectCache(newFakeFactory())
	table := newTestTable()
	c.Compile(table, Request{ShaderName: "default"}, nil)
	c.Current().Complete(nil, nil, nil)
	c.IsReady()

	table.MarkAsUnprocessed()
	if !c.NeedsCompile(table) || c.State() != StateStale {
		t.Fatalf("after MarkAsUnprocessed:\nhave %v\nwant stale", c.State())
	}
}

func TestEffectCacheTexturesNotReady(t *testing.T) {
	c := NewEffectCache(newFakeFactory())
	table := newTestTable()
	fb := effect.NewFallbacks()
	fb.AddFallback(0, defines.Fog)
	c.Compile(table, Request{ShaderName: "default"}, fb)
	c.Current().Complete(nil, nil, nil)

	tex := &fakeTexture{}
	if c.IsReady(tex) {
		t.Fatal("program must not be ready while a texture is loading")
	}
	if c.State() != StateCompiling || fb.CurrentRank() != 0 {
		t.Fatalf("texture wait:\nhave %v, rank %d\nwant compiling, rank 0", c.State(), fb.CurrentRank())
	}
	tex.ready = true
	if !c.IsReady(tex) {
		t.Fatal("program must be ready once the texture is ready")
	}
}

func TestEffectCacheFailureKeepsBoundProgram(t *testing.T) {
	c := NewEffectCache(newFakeFactory())
	table := newTestTable()
	c.Compile(table, Request{ShaderName: "default"}, nil)
	c.Current().Complete(nil, nil, nil)
	c.IsReady()
	good := c.Bound()

	var gotErr error
	table.SetBool(defines.PointSize, true)
	c.Compile(table, Request{ShaderName: "default", Options: effect.Options{
		OnError: func(_ *effect.Program, err error) { gotErr = err },
	}}, nil)
	wantErr := errors.New("bad shader")
	c.Current().Complete(nil, nil, wantErr)

	if !c.IsReady() {
		t.Fatal("previous ready program must stay usable after a failed compile")
	}
	if c.State() != StateFailed || c.Bound() != good {
		t.Fatalf("after failure:\nhave %v\nwant failed with previous program bound", c.State())
	}
	if !errors.Is(gotErr, wantErr) {
		t.Fatalf("OnError:\nhave %v\nwant %v", gotErr, wantErr)
	}
}

func TestEffectCacheApplyFallback(t *testing.T) {
	f := newFakeFactory()
	c := NewEffectCache(f)
	table := newTestTable()
	fb := effect.NewFallbacks()
	fb.AddFallback(0, defines.Fog)

	if c.ApplyFallback() {
		t.Fatal("ApplyFallback without a program must report false")
	}
	c.Compile(table, Request{ShaderName: "default"}, fb)
	key := c.Key()
	if !c.ApplyFallback() {
		t.Fatal("ApplyFallback must consume rank 0")
	}
	if c.Defines().Has(defines.Fog) || f.requests[len(f.requests)-1].Defines.Has(defines.Fog) {
		t.Fatalf("reduced request:\nhave %q\nwant no FOG", c.Defines().String())
	}
	if c.Key() != key || c.NeedsCompile(table) {
		t.Fatal("fallback must not be undone while the table is unchanged")
	}
	if f.fallbacksApplied != 1 {
		t.Fatalf("FallbackApplied:\nhave %d\nwant 1", f.fallbacksApplied)
	}
	if c.ApplyFallback() {
		t.Fatal("ApplyFallback with exhausted plan must report false")
	}
}

func TestMaterialMarksDirtyGroups(t *testing.T) {
	m := NewMaterial(newFakeFactory(), WithName("m"))
	table := m.Defines()
	table.AreLightsDirty, table.AreMiscDirty, table.AreTexturesDirty = false, false, false

	m.SetDisableLighting(true)
	m.SetFogEnabled(false)
	m.SetTexture("diffuseSampler", &fakeTexture{})
	if !table.AreLightsDirty || !table.AreMiscDirty || !table.AreTexturesDirty {
		t.Fatalf("dirty groups:\nhave lights %v misc %v textures %v\nwant all true", table.AreLightsDirty, table.AreMiscDirty, table.AreTexturesDirty)
	}
	if len(m.Textures()) != 1 {
		t.Fatalf("Textures:\nhave %d\nwant 1", len(m.Textures()))
	}
	m.SetTexture("diffuseSampler", nil)
	if len(m.Textures()) != 0 || m.Texture("diffuseSampler") != nil {
		t.Fatal("SetTexture(nil) must remove the binding")
	}
}
