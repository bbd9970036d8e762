package systems

import (
	"github.com/loupe3d/loupe/viewer/controls"
	"github.com/loupe3d/loupe/viewer/graphics"
	"github.com/loupe3d/loupe/viewer/math"
	"github.com/loupe3d/loupe/viewer/scene"
)

type SystemManagerConfig struct {
	// FieldOfView is the camera's vertical FOV in radians.
	FieldOfView      float32
	FramingMargin    float32
	MinOrbitDistance float32
	MaxOrbitDistance float32
	Presets          map[string]EnvironmentPreset
	Model            *ModelSystemConfig
	Override         *OverrideSystemConfig
}

// SystemManager is the viewing session facade. It wires the lifecycle
// systems together and exposes the operations the shell (keyboard, drops,
// UI) calls. All methods must be called from the main loop.
type SystemManager struct {
	device graphics.Device

	camera   *controls.Camera
	orbit    *controls.OrbitController
	gizmo    *controls.TransformGizmo
	disposer *DisposerSystem
	framer   *Framer
	override *OverrideSystem
	model    *ModelSystem
	env      *EnvironmentSystem

	lights *scene.Group

	wireframe bool
	exposure  float32
	grid      bool
	axes      bool
}

func NewSystemManager(config *SystemManagerConfig, device graphics.Device,
	meshLoader graphics.MeshLoader, environmentLoader graphics.EnvironmentLoader) (*SystemManager, error) {
	if config == nil {
		config = &SystemManagerConfig{}
	}
	if config.FieldOfView == 0 {
		config.FieldOfView = math.DegToRad(45.0)
	}
	if config.MinOrbitDistance == 0 {
		config.MinOrbitDistance = 0.1
	}
	if config.MaxOrbitDistance == 0 {
		config.MaxOrbitDistance = 100.0
	}

	camera := controls.NewCamera(config.FieldOfView)
	orbit := controls.NewOrbitController(camera, config.MinOrbitDistance, config.MaxOrbitDistance)
	gizmo := controls.NewTransformGizmo()

	disposer, err := NewDisposerSystem(device)
	if err != nil {
		return nil, err
	}
	framer, err := NewFramer(&FramerConfig{
		FieldOfView: config.FieldOfView,
		Margin:      config.FramingMargin,
		MinDistance: config.MinOrbitDistance,
	})
	if err != nil {
		return nil, err
	}
	override, err := NewOverrideSystem(config.Override, disposer)
	if err != nil {
		return nil, err
	}
	model, err := NewModelSystem(config.Model, device, meshLoader, disposer, framer, orbit, gizmo, override)
	if err != nil {
		return nil, err
	}
	env, err := NewEnvironmentSystem(&EnvironmentSystemConfig{Presets: config.Presets},
		device, environmentLoader, disposer, model)
	if err != nil {
		return nil, err
	}

	sm := &SystemManager{
		device:   device,
		camera:   camera,
		orbit:    orbit,
		gizmo:    gizmo,
		disposer: disposer,
		framer:   framer,
		override: override,
		model:    model,
		env:      env,
		exposure: 1.0,
		grid:     true,
	}
	sm.lights = sm.buildLightRig()
	sm.device.Attach(sm.lights)
	sm.device.SetExposure(sm.exposure)
	sm.device.SetGridVisible(sm.grid)
	sm.device.SetAxesVisible(sm.axes)
	sm.model.Frame()
	return sm, nil
}

func (sm *SystemManager) Shutdown() error {
	if err := sm.model.Shutdown(); err != nil {
		return err
	}
	if err := sm.env.Shutdown(); err != nil {
		return err
	}
	if err := sm.override.Shutdown(); err != nil {
		return err
	}
	if sm.lights != nil {
		sm.device.Detach(sm.lights)
		sm.lights = nil
	}
	if err := sm.disposer.Shutdown(); err != nil {
		return err
	}
	return nil
}

// buildLightRig assembles the fixed three-light setup every session gets:
// a low ambient fill plus two directional lights from opposite sides.
func (sm *SystemManager) buildLightRig() *scene.Group {
	rig := scene.NewGroup("lighting")

	ambient := scene.NewLight("ambient", scene.LightAmbient, math.NewVec3(1, 1, 1), 0.3)
	rig.AddChild(ambient)

	key := scene.NewLight("key", scene.LightDirectional, math.NewVec3(1, 1, 1), 2.5)
	key.Transform().Position = math.NewVec3(0.5, 0.0, 0.866)
	rig.AddChild(key)

	fill := scene.NewLight("fill", scene.LightDirectional, math.NewVec3(1, 1, 1), 1.0)
	fill.Transform().Position = math.NewVec3(-0.5, 0.5, -0.866)
	rig.AddChild(fill)

	return rig
}

// Pump applies completed asynchronous work. Once per frame, main loop.
func (sm *SystemManager) Pump() {
	sm.model.Pump()
	sm.env.Pump()
}

func (sm *SystemManager) Camera() *controls.Camera         { return sm.camera }
func (sm *SystemManager) Orbit() *controls.OrbitController { return sm.orbit }
func (sm *SystemManager) Gizmo() *controls.TransformGizmo  { return sm.gizmo }
func (sm *SystemManager) Model() *ModelSystem              { return sm.model }
func (sm *SystemManager) Environment() *EnvironmentSystem  { return sm.env }
func (sm *SystemManager) Override() *OverrideSystem        { return sm.override }
func (sm *SystemManager) Disposer() *DisposerSystem        { return sm.disposer }

// LoadModel replaces the current model. Wireframe is cleared so the new
// model comes up with its authored look.
func (sm *SystemManager) LoadModel(source graphics.Source) {
	sm.wireframe = false
	sm.model.Load(source)
}

func (sm *SystemManager) LoadEnvironment(source graphics.Source) {
	sm.env.Load(source)
}

func (sm *SystemManager) LoadEnvironmentPreset(key string) {
	sm.env.LoadPreset(key)
}

func (sm *SystemManager) ResetModelTransform() {
	sm.model.ResetTransform()
}

func (sm *SystemManager) ResetCamera() {
	sm.model.Frame()
}

func (sm *SystemManager) SetTransformMode(mode controls.GizmoMode) {
	sm.gizmo.SetMode(mode)
}

// SetOverrideEnabled toggles the translucent preview material on the
// current model. A no-op when no model is loaded.
func (sm *SystemManager) SetOverrideEnabled(enabled bool) {
	current := sm.model.Current()
	if current == nil {
		return
	}
	if enabled {
		sm.override.Enable(current)
		return
	}
	sm.override.Disable(current)
	// Restored originals may predate a wireframe toggle.
	sm.applyWireframe()
}

func (sm *SystemManager) OverrideEnabled() bool { return sm.override.Enabled() }

func (sm *SystemManager) SetWireframe(enabled bool) {
	sm.wireframe = enabled
	sm.applyWireframe()
}

func (sm *SystemManager) Wireframe() bool { return sm.wireframe }

func (sm *SystemManager) applyWireframe() {
	current := sm.model.Current()
	if current == nil {
		return
	}
	for _, mesh := range scene.Meshes(current) {
		for _, material := range mesh.Materials {
			material.Wireframe = sm.wireframe
		}
	}
}

func (sm *SystemManager) SetExposure(exposure float32) {
	sm.exposure = exposure
	sm.device.SetExposure(exposure)
}

func (sm *SystemManager) Exposure() float32 { return sm.exposure }

func (sm *SystemManager) SetGridVisible(visible bool) {
	sm.grid = visible
	sm.device.SetGridVisible(visible)
}

func (sm *SystemManager) GridVisible() bool { return sm.grid }

func (sm *SystemManager) SetAxesVisible(visible bool) {
	sm.axes = visible
	sm.device.SetAxesVisible(visible)
}

func (sm *SystemManager) AxesVisible() bool { return sm.axes }

func (sm *SystemManager) SetBackgroundFromEnvironment(enabled bool) {
	sm.env.SetBackgroundEnabled(enabled)
}
