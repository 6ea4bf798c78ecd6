// Command snapsmith converts a container image into a bootable machine
// snapshot. It takes one image reference, runs the pipeline, and prints the
// snapshot path on success.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/detmach/snapsmith/lib/builds"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) != 2 {
		return fmt.Errorf("usage: %s <image-reference>", filepath.Base(os.Args[0]))
	}

	app, cleanup, err := initializeApp()
	if err != nil {
		return fmt.Errorf("initialize application: %w", err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(app.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := app.BuildManager.BuildSnapshot(ctx, builds.BuildRequest{Image: os.Args[1]})
	if err != nil {
		return err
	}

	app.Logger.Info("snapshot ready",
		"build", result.BuildID,
		"path", result.SnapshotPath,
		"duration", result.Duration)
	fmt.Println(result.SnapshotPath)
	return nil
}
