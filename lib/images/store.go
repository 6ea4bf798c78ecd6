package images

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/go-containerregistry/pkg/name"
	"github.com/google/go-containerregistry/pkg/v1/daemon"
	"github.com/google/go-containerregistry/pkg/v1/tarball"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

// Store is the image-store boundary: metadata inspection and portable
// archive export. The pipeline never touches the image store any other way.
type Store interface {
	// Inspect resolves the image and returns its metadata. No disk side
	// effects.
	Inspect(ctx context.Context, ref *NormalizedRef) (*ImageInfo, error)

	// Save exports the image as a portable archive at destPath.
	Save(ctx context.Context, ref *NormalizedRef, destPath string) error
}

type daemonStore struct {
	logger *slog.Logger
}

// NewDaemonStore returns a Store backed by the local container daemon.
func NewDaemonStore(logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &daemonStore{logger: logger}
}

func (s *daemonStore) Inspect(ctx context.Context, ref *NormalizedRef) (*ImageInfo, error) {
	nameRef, err := name.ParseReference(ref.String())
	if err != nil {
		return nil, fmt.Errorf("parse reference: %w", err)
	}

	img, err := daemon.Image(nameRef, daemon.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("resolve image: %w", err)
	}

	cfg, err := img.ConfigFile()
	if err != nil {
		return nil, fmt.Errorf("read image config: %w", err)
	}

	digest, err := img.Digest()
	if err != nil {
		return nil, fmt.Errorf("read image digest: %w", err)
	}

	s.logger.Debug("inspected image", "image", ref.String(), "digest", digest.String(), "architecture", cfg.Architecture)

	return &ImageInfo{
		Reference:    ref.String(),
		Digest:       digest.String(),
		Architecture: cfg.Architecture,
		Config: ocispec.ImageConfig{
			User:       cfg.Config.User,
			Env:        cfg.Config.Env,
			Entrypoint: cfg.Config.Entrypoint,
			Cmd:        cfg.Config.Cmd,
			WorkingDir: cfg.Config.WorkingDir,
			Labels:     cfg.Config.Labels,
		},
	}, nil
}

func (s *daemonStore) Save(ctx context.Context, ref *NormalizedRef, destPath string) error {
	nameRef, err := name.ParseReference(ref.String())
	if err != nil {
		return fmt.Errorf("parse reference: %w", err)
	}

	img, err := daemon.Image(nameRef, daemon.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("resolve image: %w", err)
	}

	if err := tarball.WriteToFile(destPath, nameRef, img); err != nil {
		return fmt.Errorf("write image archive: %w", err)
	}

	s.logger.Debug("saved image archive", "image", ref.String(), "path", destPath)
	return nil
}
