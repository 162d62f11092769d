package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// wgpuRendererBackend compiles program variants into WebGPU shader modules on a headless device.
type wgpuRendererBackend struct {
	mu       *sync.Mutex
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	limits   wgpu.Limits
}

var (
	_ Backend      = &wgpuRendererBackend{}
	_ capsProvider = &wgpuRendererBackend{}
)

// NewWGPUBackend creates a headless WebGPU backend: an instance, an adapter and a device with
// default limits. No surface is created; variants are only compiled, never presented.
//
// Parameters:
//   - forceFallbackAdapter: true to request the CPU/software fallback adapter
//
// Returns:
//   - Backend: the WebGPU compile backend
//   - error: an error if no adapter or device could be acquired
func NewWGPUBackend(forceFallbackAdapter bool) (Backend, error) {
	w := &wgpuRendererBackend{
		mu:       &sync.Mutex{},
		instance: wgpu.CreateInstance(nil),
		limits:   wgpu.DefaultLimits(),
	}

	a, err := w.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
	})
	if err != nil {
		w.instance.Release()
		return nil, fmt.Errorf("renderer: request adapter: %w", err)
	}
	w.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Variant Compile Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: w.limits,
		},
	})
	if err != nil {
		a.Release()
		w.instance.Release()
		return nil, fmt.Errorf("renderer: request device: %w", err)
	}
	w.device = d
	w.queue = d.GetQueue()
	return w, nil
}

func (b *wgpuRendererBackend) Compile(label, code string) (any, func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.device == nil {
		return nil, nil, ErrClosed
	}
	m, err := b.device.CreateShaderModule(shader.ModuleDescriptor(label, code))
	if err != nil {
		return nil, nil, fmt.Errorf("renderer: compile %q: %w", label, err)
	}
	return m, m.Release, nil
}

func (b *wgpuRendererBackend) Caps() Caps {
	c := DefaultCaps()
	if n := int(b.limits.MaxVertexAttributes); n > 0 {
		c.MaxVertexAttribs = n
	}
	return c
}

func (b *wgpuRendererBackend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.device == nil {
		return
	}
	b.queue.Release()
	b.device.Release()
	b.adapter.Release()
	b.instance.Release()
	b.queue, b.device, b.adapter, b.instance = nil, nil, nil, nil
}
