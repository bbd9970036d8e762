/*
Loupe opens a window, accepts glTF/GLB drops and drives the viewing
session. The rendering device binding is pluggable; the recorder device
ships as the default so the session logic runs anywhere.
*/
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/loupe3d/loupe/viewer"
	"github.com/loupe3d/loupe/viewer/graphics/headless"
	"github.com/loupe3d/loupe/viewer/graphics/loaders"
)

func main() {
	config, err := viewer.LoadApplicationConfig("loupe.toml")
	if err != nil {
		panic(err)
	}

	v, err := viewer.New(config, headless.New(), loaders.NewGLTFLoader(), loaders.NewEquirectLoader())
	if err != nil {
		panic(err)
	}

	if err := v.Initialize(); err != nil {
		panic(err)
	}

	// open a model passed on the command line
	if len(os.Args) > 1 {
		v.OpenPath(os.Args[1])
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	// start shutdown goroutine
	go func() {
		// capture sigterm and other system call here
		<-sigCh
		_ = v.Shutdown()
	}()

	if err := v.Run(); err != nil {
		panic(err)
	}
}
