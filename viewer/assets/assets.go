package assets

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/exp/slices"

	"github.com/loupe3d/loupe/viewer/core"
)

// Kind classifies a dropped or selected file before any load is attempted.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindModel
	KindEnvironment
)

// ModelExtensions are the accepted mesh-asset forms.
var ModelExtensions = []string{".gltf", ".glb"}

// EnvironmentExtensions are the accepted equirectangular map forms.
var EnvironmentExtensions = []string{".hdr"}

// KindForPath classifies by extension only; rejection happens here, at the
// UI boundary, with no state change.
func KindForPath(path string) Kind {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case slices.Contains(ModelExtensions, ext):
		return KindModel
	case slices.Contains(EnvironmentExtensions, ext):
		return KindEnvironment
	default:
		return KindUnknown
	}
}

// AssetManager watches the file backing the current model and fires
// EVENT_CODE_WATCHED_FILE_CHANGED when it is rewritten, so edits made in a
// DCC tool show up without re-dropping the file.
type AssetManager struct {
	mutex    sync.Mutex
	fsnotify *fsnotify.Watcher
	watched  string
	done     chan struct{}
	isClosed bool
}

func NewAssetManager() (*AssetManager, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	am := &AssetManager{
		fsnotify: fsWatch,
		done:     make(chan struct{}),
	}
	go am.start()

	return am, nil
}

func (am *AssetManager) start() {
	for {
		select {
		case <-am.done:
			return
		case event, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			if event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) {
				core.LogDebug("watched asset changed: %s", event.Name)
				core.EventFire(core.EventContext{
					Type: core.EVENT_CODE_WATCHED_FILE_CHANGED,
					Data: event.Name,
				})
			}
		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogWarn("asset watcher error: %s", err)
		}
	}
}

// Watch replaces the watched file. An empty path stops watching.
func (am *AssetManager) Watch(path string) error {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	if am.isClosed {
		return nil
	}
	if am.watched != "" {
		if err := am.fsnotify.Remove(am.watched); err != nil {
			core.LogDebug("failed to unwatch '%s': %s", am.watched, err)
		}
		am.watched = ""
	}
	if path == "" {
		return nil
	}
	if err := am.fsnotify.Add(path); err != nil {
		return err
	}
	am.watched = path
	return nil
}

func (am *AssetManager) Watched() string {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	return am.watched
}

func (am *AssetManager) Close() error {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	if am.isClosed {
		return nil
	}
	am.isClosed = true
	close(am.done)
	return am.fsnotify.Close()
}
