package engine

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/Carmen-Shannon/oxy-shade/engine/model"
	"github.com/Carmen-Shannon/oxy-shade/engine/profiler"
	"github.com/Carmen-Shannon/oxy-shade/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// Drawable is a material that derives its program variant per mesh and writes the per-draw
// uniforms of the bound program.
type Drawable interface {
	// IsReadyForMesh reports whether the material can draw mesh in s, requesting the matching
	// program variant when needed.
	IsReadyForMesh(mesh model.Mesh, s scene.Scene, useInstances bool) bool

	// Bind writes the per-draw uniforms of mesh into the bound program.
	Bind(mesh model.Mesh, s scene.Scene, world mgl32.Mat4)
}

// FrameStats counts the meshes of one rendered frame.
type FrameStats struct {
	// Drawn counts meshes whose material was ready and bound.
	Drawn int
	// Pending counts meshes whose material is still compiling or waiting for textures.
	Pending int
	// Skipped counts meshes without a Drawable material.
	Skipped int
}

// engine implements the Engine interface.
type engine struct {
	mu sync.Mutex

	tickRateChannel chan time.Duration

	running bool

	quitChannel chan struct{}
	quitOnce    sync.Once

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32, stats FrameStats)

	scenes map[int]scene.Scene

	renderFrameLimit time.Duration
}

// Engine drives scenes frame by frame: every frame it advances each scene's render id and asks
// the material of every mesh whether it is ready, binding the ready ones. A fixed-rate tick
// callback runs on the same goroutine as the frames, so scene state needs no locking.
type Engine interface {
	// EnableProfiler enables periodic profiler output to the log.
	EnableProfiler()

	// DisableProfiler disables periodic profiler output.
	DisableProfiler()

	// Profiler returns the profiler ticked each frame.
	//
	// Returns:
	//   - *profiler.Profiler: the profiler
	Profiler() *profiler.Profiler

	// SetTickRate sets the tick rate in ticks per second.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each tick.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called after each frame.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds and the frame counts
	SetRenderCallback(callback func(deltaTime float32, stats FrameStats))

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// AddScene registers a scene at the given z-index key. Scenes render in ascending key order.
	//
	// Parameters:
	//   - key: the z-index (lower renders first)
	//   - s: the Scene to register
	AddScene(key int, s scene.Scene)

	// RemoveScene removes the scene at the given z-index key.
	RemoveScene(key int)

	// Scene retrieves the scene at the given z-index key, or nil.
	Scene(key int) scene.Scene

	// Scenes returns a copy of all registered scenes keyed by z-index.
	Scenes() map[int]scene.Scene

	// RenderFrame renders every registered scene once.
	//
	// Returns:
	//   - FrameStats: the mesh counts summed over all scenes
	RenderFrame() FrameStats

	// Run ticks and renders until ctx is done or Quit is called.
	//
	// Parameters:
	//   - ctx: the context bounding the loop
	//
	// Returns:
	//   - error: ctx.Err() when the context ended the loop, nil after Quit
	Run(ctx context.Context) error

	// Quit stops Run. Safe to call multiple times.
	Quit()
}

// NewEngine creates a new Engine with the provided options.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		scenes:          make(map[int]scene.Scene),
		engineTickRate:  time.Second / 60,
	}
	for _, opt := range options {
		opt(e)
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(0)
	}
	return e
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) Profiler() *profiler.Profiler {
	return e.profiler
}

func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Duration(float64(time.Second) / fps)

	e.mu.Lock()
	running := e.running
	if !running {
		e.engineTickRate = newRate
	}
	e.mu.Unlock()
	if !running {
		return
	}
	// replace any pending update
	select {
	case <-e.tickRateChannel:
	default:
	}
	e.tickRateChannel <- newRate
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) SetRenderCallback(callback func(deltaTime float32, stats FrameStats)) {
	e.renderCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

func (e *engine) AddScene(key int, s scene.Scene) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scenes[key] = s
}

func (e *engine) RemoveScene(key int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.scenes, key)
}

func (e *engine) Scene(key int) scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scenes[key]
}

func (e *engine) Scenes() map[int]scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	return maps.Clone(e.scenes)
}

func (e *engine) RenderFrame() FrameStats {
	e.mu.Lock()
	keys := slices.Sorted(maps.Keys(e.scenes))
	scenes := make([]scene.Scene, len(keys))
	for i, k := range keys {
		scenes[i] = e.scenes[k]
	}
	e.mu.Unlock()

	var stats FrameStats
	for _, s := range scenes {
		renderScene(s, &stats)
	}
	return stats
}

// renderScene advances the render id of s and draws every mesh whose material is ready.
func renderScene(s scene.Scene, stats *FrameStats) {
	s.BeginFrame()
	for _, mesh := range s.Meshes() {
		d, ok := mesh.Material().(Drawable)
		if !ok {
			stats.Skipped++
			continue
		}
		if !d.IsReadyForMesh(mesh, s, mesh.HasInstances()) {
			stats.Pending++
			continue
		}
		d.Bind(mesh, s, mesh.WorldMatrix())
		stats.Drawn++
	}
}

func (e *engine) Run(ctx context.Context) (err error) {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return fmt.Errorf("engine: already running")
	}
	e.running = true
	rate := e.engineTickRate
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
	}()
	defer func() {
		if r := recover(); r != nil {
			common.Logger().Error("engine: frame loop recovered from panic", "panic", r)
			err = fmt.Errorf("engine: panic: %v", r)
		}
	}()

	ticker := time.NewTicker(rate)
	defer ticker.Stop()

	lastTick := time.Now()
	lastRender := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-e.quitChannel:
			return nil
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.mu.Lock()
			e.engineTickRate = newRate
			e.mu.Unlock()
		case now := <-ticker.C:
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now
			if e.tickCallback != nil {
				e.tickCallback(dt)
			}
		default:
			now := time.Now()
			dt := float32(now.Sub(lastRender).Seconds())
			lastRender = now

			stats := e.RenderFrame()
			if e.renderCallback != nil {
				e.renderCallback(dt, stats)
			}
			if e.profilingEnabled {
				e.profiler.Tick()
			}

			if e.renderFrameLimit > 0 {
				if remaining := e.renderFrameLimit - time.Since(now); remaining > 0 {
					time.Sleep(remaining)
				}
			}
		}
	}
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}
