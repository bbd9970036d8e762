package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/loupe3d/loupe/viewer/core"
)

// StageRemote downloads a remote asset into a temporary file so loaders
// can treat every source as a local path. The returned cleanup must be
// called on success and failure alike; the staged handle is a scoped
// resource and leaks otherwise.
//
// Only the one file is staged: relative URIs inside the asset (external
// .gltf buffers or images) resolve against the temp directory and will
// not be found. Remote sources must be self-contained (.glb, data URIs,
// or a single .hdr).
func StageRemote(ctx context.Context, url string) (string, func(), error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("fetching '%s': unexpected status %s", url, resp.Status)
	}

	tmp, err := os.CreateTemp("", "loupe-stage-*")
	if err != nil {
		return "", nil, err
	}

	cleanup := func() {
		if err := os.Remove(tmp.Name()); err != nil && !os.IsNotExist(err) {
			core.LogWarn("failed to remove staged asset '%s': %s", tmp.Name(), err)
		}
	}

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		cleanup()
		return "", nil, err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", nil, err
	}

	return tmp.Name(), cleanup, nil
}
