package systems

import (
	"context"
	"fmt"

	"github.com/loupe3d/loupe/viewer/controls"
	"github.com/loupe3d/loupe/viewer/core"
	"github.com/loupe3d/loupe/viewer/graphics"
	"github.com/loupe3d/loupe/viewer/math"
	"github.com/loupe3d/loupe/viewer/scene"
)

// Stage is the model lifecycle state.
type Stage uint8

const (
	// StageEmpty means no model has ever been accepted.
	StageEmpty Stage = iota
	// StageLoading means a load request is in flight.
	StageLoading
	// StageLoaded means a model is current and visible.
	StageLoaded
)

func (s Stage) String() string {
	switch s {
	case StageEmpty:
		return "empty"
	case StageLoading:
		return "loading"
	case StageLoaded:
		return "loaded"
	}
	return "unknown"
}

type ModelSystemConfig struct {
	// Models whose largest dimension falls outside [MinDimension,
	// MaxDimension] are rescaled so it becomes TargetDimension.
	MinDimension    float32
	MaxDimension    float32
	TargetDimension float32
}

type modelCompletion struct {
	generation uint64
	source     graphics.Source
	node       scene.Node
	err        error
}

// ModelSystem owns the current model subtree: loading, normalization,
// replacement and disposal. Loads run on their own goroutine; results are
// applied on the main loop through Pump. Each request bumps a generation
// counter and completions carrying a stale generation are disposed of
// immediately, so the last-requested model always wins regardless of
// completion order.
type ModelSystem struct {
	config   *ModelSystemConfig
	device   graphics.Device
	loader   graphics.MeshLoader
	disposer *DisposerSystem
	framer   *Framer
	orbit    *controls.OrbitController
	gizmo    *controls.TransformGizmo
	override *OverrideSystem

	stage         Stage
	current       scene.Node
	currentSource graphics.Source
	initial       math.Transform
	generation    uint64
	completions   chan *modelCompletion
}

func NewModelSystem(config *ModelSystemConfig, device graphics.Device, loader graphics.MeshLoader,
	disposer *DisposerSystem, framer *Framer, orbit *controls.OrbitController,
	gizmo *controls.TransformGizmo, override *OverrideSystem) (*ModelSystem, error) {
	if device == nil || loader == nil || disposer == nil || framer == nil {
		return nil, fmt.Errorf("func NewModelSystem - device, loader, disposer and framer must not be nil")
	}
	if config == nil {
		config = &ModelSystemConfig{}
	}
	if config.MinDimension == 0 {
		config.MinDimension = 0.1
	}
	if config.MaxDimension == 0 {
		config.MaxDimension = 10.0
	}
	if config.TargetDimension == 0 {
		config.TargetDimension = 3.0
	}
	return &ModelSystem{
		config:      config,
		device:      device,
		loader:      loader,
		disposer:    disposer,
		framer:      framer,
		orbit:       orbit,
		gizmo:       gizmo,
		override:    override,
		stage:       StageEmpty,
		completions: make(chan *modelCompletion, 8),
	}, nil
}

func (ms *ModelSystem) Shutdown() error {
	if ms.current != nil {
		if ms.gizmo != nil {
			ms.gizmo.Detach()
		}
		if ms.override != nil {
			ms.override.Disable(ms.current)
		}
		ms.device.Detach(ms.current)
		ms.disposer.DisposeSubtree(ms.current)
		ms.current = nil
	}
	ms.stage = StageEmpty
	return nil
}

func (ms *ModelSystem) Stage() Stage                   { return ms.stage }
func (ms *ModelSystem) Current() scene.Node            { return ms.current }
func (ms *ModelSystem) CurrentSource() graphics.Source { return ms.currentSource }

// InitialTransform is the normalized transform captured when the current
// model was accepted. ResetTransform restores it.
func (ms *ModelSystem) InitialTransform() math.Transform { return ms.initial }

// Load requests an asynchronous replacement of the current model. The
// current model stays visible and interactive until the new one is ready;
// earlier in-flight loads are not aborted, only superseded.
func (ms *ModelSystem) Load(source graphics.Source) {
	ms.generation++
	generation := ms.generation
	ms.stage = StageLoading
	core.LogInfo("loading model '%s'", source.Name)

	go func() {
		node, err := ms.loader.Load(context.Background(), source)
		ms.completions <- &modelCompletion{
			generation: generation,
			source:     source,
			node:       node,
			err:        err,
		}
	}()
}

// Pump drains finished loads without blocking. Called once per frame from
// the main loop; all scene mutation happens here.
func (ms *ModelSystem) Pump() {
	for {
		select {
		case completion := <-ms.completions:
			ms.finish(completion)
		default:
			return
		}
	}
}

func (ms *ModelSystem) finish(completion *modelCompletion) {
	if completion.generation != ms.generation {
		// A newer request superseded this one while it was loading.
		core.LogDebug("discarding superseded load of '%s'", completion.source.Name)
		if completion.node != nil {
			ms.disposer.DisposeSubtree(completion.node)
		}
		return
	}

	if completion.err != nil {
		message := fmt.Sprintf("failed to load model '%s': %s", completion.source.Name, completion.err)
		core.LogError(message)
		core.EventFire(core.EventContext{Type: core.EVENT_CODE_USER_MESSAGE, Data: message})
		core.EventFire(core.EventContext{Type: core.EVENT_CODE_MODEL_LOAD_FAILED, Data: completion.source.Name})
		if ms.current != nil {
			ms.stage = StageLoaded
		} else {
			ms.stage = StageEmpty
		}
		return
	}

	ms.apply(completion)
}

func (ms *ModelSystem) apply(completion *modelCompletion) {
	if ms.current != nil {
		if ms.gizmo != nil {
			ms.gizmo.Detach()
		}
		if ms.override != nil {
			// Puts the originals back on the meshes so the subtree walk
			// below releases them, and disposes the previews.
			ms.override.Disable(ms.current)
		}
		ms.device.Detach(ms.current)
		ms.disposer.DisposeSubtree(ms.current)
	}

	for _, mesh := range scene.Meshes(completion.node) {
		mesh.CastShadow = true
		mesh.ReceiveShadow = true
	}

	ms.normalize(completion.node)
	ms.device.Attach(completion.node)
	ms.current = completion.node
	ms.currentSource = completion.source
	ms.initial = completion.node.Transform().Snapshot()
	ms.stage = StageLoaded
	if ms.gizmo != nil {
		ms.gizmo.Attach(completion.node)
	}
	ms.Frame()

	core.LogInfo("model '%s' loaded", completion.source.Name)
	core.EventFire(core.EventContext{Type: core.EVENT_CODE_MODEL_LOADED, Data: completion.source.Name})
}

// normalize centers the model on the vertical axis, rests it on the ground
// plane and rescales it when its largest dimension is out of range. Both
// edits go through the root transform; vertex data is never touched, so
// normalizing an already normalized model changes nothing.
func (ms *ModelSystem) normalize(node scene.Node) {
	extents := scene.WorldExtents(node)
	if extents.IsEmpty() {
		return
	}

	center := extents.Center()
	transform := node.Transform()
	transform.Position.X -= center.X
	transform.Position.Y -= extents.Min.Y
	transform.Position.Z -= center.Z

	maxDim := extents.Size().MaxComponent()
	if maxDim < math.K_FLOAT_EPSILON {
		return
	}
	if maxDim < ms.config.MinDimension || maxDim > ms.config.MaxDimension {
		factor := ms.config.TargetDimension / maxDim
		transform.Position = transform.Position.MulScalar(factor)
		transform.Scale = transform.Scale.MulScalar(factor)
	}
}

// ResetTransform restores the transform captured at load time.
func (ms *ModelSystem) ResetTransform() {
	if ms.current == nil {
		return
	}
	ms.current.Transform().Restore(ms.initial)
}

// Frame refits the camera to the current model's world extents and hands
// the result to the orbit controller.
func (ms *ModelSystem) Frame() {
	if ms.orbit == nil {
		return
	}
	if ms.current == nil {
		position, target := ms.framer.Frame(math.NewExtents3DEmpty())
		ms.orbit.SetFromPosition(position, target)
		return
	}
	position, target := ms.framer.Frame(scene.WorldExtents(ms.current))
	ms.orbit.SetFromPosition(position, target)
}
