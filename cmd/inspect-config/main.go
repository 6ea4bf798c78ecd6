// Command inspect-config resolves an image, applies the validation rules,
// and prints the derived build configuration as JSON without running any
// pipeline stage. Useful for checking labels before a real build.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/detmach/snapsmith/cmd/snapsmith/config"
	"github.com/detmach/snapsmith/lib/images"
	"github.com/detmach/snapsmith/lib/logger"
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	ref, err := images.ParseNormalizedRef(os.Args[1])
	if err != nil {
		return fmt.Errorf("parse image reference: %w", err)
	}

	info, err := images.NewDaemonStore(log).Inspect(ctx, ref)
	if err != nil {
		return fmt.Errorf("inspect image: %w", err)
	}

	buildConfig, err := images.NewValidator(log).Validate(info)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(buildConfig, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal build config: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
