package viewer

import (
	"fmt"
	"path/filepath"

	"github.com/loupe3d/loupe/viewer/assets"
	"github.com/loupe3d/loupe/viewer/controls"
	"github.com/loupe3d/loupe/viewer/core"
	"github.com/loupe3d/loupe/viewer/graphics"
	"github.com/loupe3d/loupe/viewer/math"
	"github.com/loupe3d/loupe/viewer/platform"
	"github.com/loupe3d/loupe/viewer/systems"
)

// Viewer owns the main loop: window events in, session pumping, camera
// update, frame submission. All session mutation happens on this loop.
type Viewer struct {
	config            *ApplicationConfig
	device            graphics.Device
	meshLoader        graphics.MeshLoader
	environmentLoader graphics.EnvironmentLoader

	platform     *platform.Platform
	assetManager *assets.AssetManager
	session      *systems.SystemManager
	clock        *core.Clock
	lastTime     float64
	isRunning    bool
	isSuspended  bool
	width        uint32
	height       uint32

	mouseX, mouseY float64
	orbiting       bool

	// reloads carries watcher hits from the fsnotify goroutine onto the
	// main loop.
	reloads chan string
}

func New(config *ApplicationConfig, device graphics.Device,
	meshLoader graphics.MeshLoader, environmentLoader graphics.EnvironmentLoader) (*Viewer, error) {
	if config == nil {
		config = DefaultApplicationConfig()
	}
	if device == nil {
		return nil, fmt.Errorf("func New - device must not be nil")
	}

	p, err := platform.New()
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	am, err := assets.NewAssetManager()
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	return &Viewer{
		config:            config,
		device:            device,
		meshLoader:        meshLoader,
		environmentLoader: environmentLoader,
		platform:          p,
		assetManager:      am,
		clock:             core.NewClock(),
		isRunning:         true,
		width:             config.StartWidth,
		height:            config.StartHeight,
		reloads:           make(chan string, 4),
	}, nil
}

func (v *Viewer) Initialize() error {
	core.LogSetLevel(v.config.ParsedLogLevel())

	if !core.EventSystemInitialize() {
		return fmt.Errorf("failed to initialize the event system")
	}
	if err := core.MetricsInitialize(); err != nil {
		return err
	}

	core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, v.onQuit)
	core.EventRegister(core.EVENT_CODE_KEY_PRESSED, v.onKey)
	core.EventRegister(core.EVENT_CODE_BUTTON_PRESSED, v.onButton)
	core.EventRegister(core.EVENT_CODE_BUTTON_RELEASED, v.onButton)
	core.EventRegister(core.EVENT_CODE_MOUSE_MOVED, v.onMouseMoved)
	core.EventRegister(core.EVENT_CODE_MOUSE_WHEEL, v.onMouseWheel)
	core.EventRegister(core.EVENT_CODE_RESIZED, v.onResized)
	core.EventRegister(core.EVENT_CODE_FILE_DROPPED, v.onFileDropped)
	core.EventRegister(core.EVENT_CODE_GIZMO_DRAG_CHANGED, v.onGizmoDrag)
	core.EventRegister(core.EVENT_CODE_WATCHED_FILE_CHANGED, v.onWatchedFileChanged)
	core.EventRegister(core.EVENT_CODE_MODEL_LOADED, v.onModelLoaded)
	core.EventRegister(core.EVENT_CODE_USER_MESSAGE, v.onUserMessage)

	if err := v.platform.Startup(v.config.Name,
		v.config.StartPosX, v.config.StartPosY,
		v.config.StartWidth, v.config.StartHeight); err != nil {
		return err
	}

	if err := v.device.Initialize(v.config.Name, v.width, v.height); err != nil {
		return err
	}

	session, err := systems.NewSystemManager(&systems.SystemManagerConfig{
		FieldOfView:      math.DegToRad(v.config.FieldOfView),
		FramingMargin:    v.config.FramingMargin,
		MinOrbitDistance: v.config.MinOrbitDistance,
		MaxOrbitDistance: v.config.MaxOrbitDistance,
		Presets:          v.config.SessionPresets(),
	}, v.device, v.meshLoader, v.environmentLoader)
	if err != nil {
		return err
	}
	v.session = session

	if v.config.Environment != "" {
		v.session.LoadEnvironmentPreset(v.config.Environment)
	}

	return nil
}

// Session exposes the running session for embedding shells.
func (v *Viewer) Session() *systems.SystemManager { return v.session }

func (v *Viewer) Run() error {
	v.clock.Start()
	v.clock.Update()
	v.lastTime = v.clock.Elapsed()

	for v.isRunning {
		v.platform.PumpMessages()
		if v.platform.ShouldClose() {
			v.isRunning = false
			break
		}

		v.clock.Update()
		currentTime := v.clock.Elapsed()
		delta := currentTime - v.lastTime
		v.lastTime = currentTime

		v.pumpReloads()
		v.session.Pump()

		if v.isSuspended {
			continue
		}

		v.session.Orbit().Update(delta)

		if err := v.device.BeginFrame(delta); err != nil {
			core.LogError("begin frame failed: %s", err)
			continue
		}
		if err := v.device.EndFrame(delta); err != nil {
			core.LogError("end frame failed: %s", err)
		}

		core.MetricsUpdate(delta)
		fps, frameTime := core.MetricsFrame()
		v.platform.SetTitle(fmt.Sprintf("%s | %.0f fps %.2f ms", v.config.Name, fps, frameTime))
	}

	return v.Shutdown()
}

func (v *Viewer) Shutdown() error {
	v.isRunning = false
	if v.session != nil {
		if err := v.session.Shutdown(); err != nil {
			core.LogError(err.Error())
		}
	}
	if err := v.assetManager.Close(); err != nil {
		core.LogError(err.Error())
	}
	if err := v.device.Shutdown(); err != nil {
		core.LogError(err.Error())
	}
	if err := v.platform.Shutdown(); err != nil {
		core.LogError(err.Error())
	}
	return core.EventSystemShutdown()
}

// OpenPath routes a path by kind: models replace the model, environments
// replace the environment, anything else is rejected with a message and
// no state change.
func (v *Viewer) OpenPath(path string) {
	switch assets.KindForPath(path) {
	case assets.KindModel:
		v.session.LoadModel(graphics.Source{Path: path, Name: filepath.Base(path)})
	case assets.KindEnvironment:
		v.session.LoadEnvironment(graphics.Source{Path: path, Name: filepath.Base(path)})
	default:
		message := fmt.Sprintf("unsupported file type: %s", filepath.Base(path))
		core.LogWarn(message)
		core.EventFire(core.EventContext{Type: core.EVENT_CODE_USER_MESSAGE, Data: message})
	}
}

func (v *Viewer) onQuit(context core.EventContext) {
	v.isRunning = false
}

func (v *Viewer) onKey(context core.EventContext) {
	event, ok := context.Data.(core.KeyEvent)
	if !ok {
		return
	}
	switch event.KeyCode {
	case core.KEY_ESCAPE:
		core.EventFire(core.EventContext{Type: core.EVENT_CODE_APPLICATION_QUIT})
	case core.KEY_T:
		v.session.SetTransformMode(controls.GizmoTranslate)
	case core.KEY_R:
		v.session.SetTransformMode(controls.GizmoRotate)
	case core.KEY_S:
		v.session.SetTransformMode(controls.GizmoScale)
	case core.KEY_X:
		v.session.SetOverrideEnabled(!v.session.OverrideEnabled())
	case core.KEY_Z:
		v.session.SetWireframe(!v.session.Wireframe())
	case core.KEY_F:
		v.session.ResetCamera()
	case core.KEY_HOME:
		v.session.ResetModelTransform()
		v.session.ResetCamera()
	case core.KEY_G:
		v.session.SetGridVisible(!v.session.GridVisible())
	case core.KEY_SPACE:
		v.session.SetBackgroundFromEnvironment(!v.session.Environment().BackgroundEnabled())
	}
}

func (v *Viewer) onButton(context core.EventContext) {
	button, ok := context.Data.(core.Button)
	if !ok {
		return
	}
	pressed := context.Type == core.EVENT_CODE_BUTTON_PRESSED
	switch button {
	case core.BUTTON_LEFT:
		v.orbiting = pressed
	case core.BUTTON_RIGHT:
		if pressed {
			v.session.Gizmo().BeginDrag()
		} else {
			v.session.Gizmo().EndDrag()
		}
	}
}

func (v *Viewer) onMouseMoved(context core.EventContext) {
	event, ok := context.Data.(core.MouseEvent)
	if !ok {
		return
	}
	dx := float32(event.X - v.mouseX)
	dy := float32(event.Y - v.mouseY)
	v.mouseX = event.X
	v.mouseY = event.Y

	if v.session.Gizmo().Dragging() {
		v.session.Gizmo().Drag(dx, dy)
		return
	}
	if v.orbiting {
		v.session.Orbit().Rotate(dx, dy)
	}
}

func (v *Viewer) onMouseWheel(context core.EventContext) {
	delta, ok := context.Data.(float64)
	if !ok {
		return
	}
	v.session.Orbit().Dolly(float32(delta))
}

func (v *Viewer) onResized(context core.EventContext) {
	event, ok := context.Data.(core.SystemEvent)
	if !ok {
		return
	}
	v.width = event.WindowWidth
	v.height = event.WindowHeight
	if v.width == 0 || v.height == 0 {
		core.LogInfo("window minimized, suspending")
		v.isSuspended = true
		return
	}
	v.isSuspended = false
	if err := v.device.Resized(uint16(v.width), uint16(v.height)); err != nil {
		core.LogError("resize failed: %s", err)
	}
}

func (v *Viewer) onFileDropped(context core.EventContext) {
	path, ok := context.Data.(string)
	if !ok {
		return
	}
	v.OpenPath(path)
}

// onGizmoDrag suspends the orbit controller while the gizmo owns the drag.
func (v *Viewer) onGizmoDrag(context core.EventContext) {
	dragging, ok := context.Data.(bool)
	if !ok {
		return
	}
	v.session.Orbit().SetEnabled(!dragging)
}

// onModelLoaded starts watching the backing file of local models so edits
// made on disk reload automatically.
func (v *Viewer) onModelLoaded(context core.EventContext) {
	if !v.config.WatchFiles {
		return
	}
	source := v.session.Model().CurrentSource()
	if source.Remote() || source.Path == "" {
		return
	}
	if err := v.assetManager.Watch(source.Path); err != nil {
		core.LogWarn("failed to watch '%s': %s", source.Path, err)
	}
}

// onWatchedFileChanged runs on the watcher goroutine; the actual reload
// happens on the main loop via pumpReloads.
func (v *Viewer) onWatchedFileChanged(context core.EventContext) {
	path, ok := context.Data.(string)
	if !ok {
		return
	}
	select {
	case v.reloads <- path:
	default:
	}
}

func (v *Viewer) pumpReloads() {
	for {
		select {
		case path := <-v.reloads:
			source := v.session.Model().CurrentSource()
			if source.Path != path {
				continue
			}
			core.LogInfo("reloading '%s'", source.Name)
			v.session.LoadModel(source)
		default:
			return
		}
	}
}

func (v *Viewer) onUserMessage(context core.EventContext) {
	if message, ok := context.Data.(string); ok {
		core.LogInfo("%s", message)
	}
}
