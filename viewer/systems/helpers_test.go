package systems_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/loupe3d/loupe/viewer/core"
	"github.com/loupe3d/loupe/viewer/graphics"
	"github.com/loupe3d/loupe/viewer/graphics/headless"
	"github.com/loupe3d/loupe/viewer/math"
	"github.com/loupe3d/loupe/viewer/scene"
	"github.com/loupe3d/loupe/viewer/systems"
)

// buildModel returns a one-mesh subtree whose geometry spans [min, max] in
// local space, with one material referencing one texture.
func buildModel(name string, min, max math.Vec3) *scene.Group {
	material := &scene.Material{
		Name:             name + "_material",
		BaseColor:        [4]float32{1, 1, 1, 1},
		Opacity:          1,
		BaseColorTexture: &scene.Texture{Name: name + "_texture", Width: 4, Height: 4},
	}
	geometry := &scene.Geometry{
		Name:         name + "_geometry",
		VertexCount:  8,
		IndexCount:   36,
		LocalExtents: math.NewExtents3D(min, max),
	}
	root := scene.NewGroup(name)
	root.AddChild(scene.NewMesh(name+"_mesh", geometry, material))
	return root
}

// stubMeshLoader builds models on demand. Loads for gated names block
// until released, so completion order can be forced in tests.
type stubMeshLoader struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
	fail  map[string]bool
	built map[string]*scene.Group
	min   math.Vec3
	max   math.Vec3
}

func newStubMeshLoader() *stubMeshLoader {
	return &stubMeshLoader{
		gates: make(map[string]chan struct{}),
		fail:  make(map[string]bool),
		built: make(map[string]*scene.Group),
		min:   math.NewVec3(-1, 0, -1),
		max:   math.NewVec3(1, 2, 1),
	}
}

func (l *stubMeshLoader) Gate(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gates[name] = make(chan struct{})
}

func (l *stubMeshLoader) Release(name string) {
	l.mu.Lock()
	gate := l.gates[name]
	delete(l.gates, name)
	l.mu.Unlock()
	if gate != nil {
		close(gate)
	}
}

func (l *stubMeshLoader) Fail(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fail[name] = true
}

func (l *stubMeshLoader) Built(name string) *scene.Group {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.built[name]
}

func (l *stubMeshLoader) Load(ctx context.Context, src graphics.Source) (scene.Node, error) {
	l.mu.Lock()
	gate := l.gates[src.Name]
	shouldFail := l.fail[src.Name]
	l.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if shouldFail {
		return nil, fmt.Errorf("stub refused '%s'", src.Name)
	}

	node := buildModel(src.Name, l.min, l.max)
	l.mu.Lock()
	l.built[src.Name] = node
	l.mu.Unlock()
	return node, nil
}

func (l *stubMeshLoader) Extensions() []string { return []string{".gltf", ".glb"} }

type stubEnvironmentLoader struct {
	mu    sync.Mutex
	fail  map[string]bool
	built map[string]*scene.EnvironmentMap
}

func newStubEnvironmentLoader() *stubEnvironmentLoader {
	return &stubEnvironmentLoader{
		fail:  make(map[string]bool),
		built: make(map[string]*scene.EnvironmentMap),
	}
}

func (l *stubEnvironmentLoader) Fail(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fail[name] = true
}

func (l *stubEnvironmentLoader) Built(name string) *scene.EnvironmentMap {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.built[name]
}

func (l *stubEnvironmentLoader) Load(ctx context.Context, src graphics.Source) (*scene.EnvironmentMap, error) {
	l.mu.Lock()
	shouldFail := l.fail[src.Name]
	l.mu.Unlock()
	if shouldFail {
		return nil, fmt.Errorf("stub refused '%s'", src.Name)
	}
	env := &scene.EnvironmentMap{
		Name:    src.Name,
		Texture: &scene.Texture{Name: src.Name + "_texture", Width: 16, Height: 8},
	}
	l.mu.Lock()
	l.built[src.Name] = env
	l.mu.Unlock()
	return env, nil
}

func (l *stubEnvironmentLoader) Extensions() []string { return []string{".hdr"} }

type sessionRig struct {
	device     *headless.Device
	meshLoader *stubMeshLoader
	envLoader  *stubEnvironmentLoader
	session    *systems.SystemManager
}

func newSessionRig(t *testing.T) *sessionRig {
	t.Helper()
	core.EventSystemInitialize()

	device := headless.New()
	meshLoader := newStubMeshLoader()
	envLoader := newStubEnvironmentLoader()
	session, err := systems.NewSystemManager(nil, device, meshLoader, envLoader)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, session.Shutdown())
	})
	return &sessionRig{
		device:     device,
		meshLoader: meshLoader,
		envLoader:  envLoader,
		session:    session,
	}
}

// pumpUntil drives the session until cond holds.
func (r *sessionRig) pumpUntil(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, func() bool {
		r.session.Pump()
		return cond()
	}, 2*time.Second, 5*time.Millisecond)
}

func (r *sessionRig) loadAndWait(t *testing.T, name string) scene.Node {
	t.Helper()
	r.session.LoadModel(graphics.Source{Path: name + ".gltf", Name: name})
	r.pumpUntil(t, func() bool {
		return r.session.Model().Stage() == systems.StageLoaded &&
			r.session.Model().CurrentSource().Name == name
	})
	return r.session.Model().Current()
}

func (r *sessionRig) loadEnvironmentAndWait(t *testing.T, name string) *scene.EnvironmentMap {
	t.Helper()
	r.session.LoadEnvironment(graphics.Source{Path: name + ".hdr", Name: name})
	r.pumpUntil(t, func() bool {
		env := r.session.Environment().Current()
		return env != nil && env.Name == name
	})
	return r.session.Environment().Current()
}
