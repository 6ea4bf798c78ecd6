// Package builds sequences the image-to-snapshot pipeline: validate the
// source image, export it as a portable archive, convert it into a
// filesystem image inside disposable toolset containers, and store the
// machine snapshot. Intermediate artifacts are deleted unconditionally,
// whether the run succeeded or failed.
package builds

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/nrednav/cuid2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/detmach/snapsmith/lib/archive"
	"github.com/detmach/snapsmith/lib/images"
	"github.com/detmach/snapsmith/lib/paths"
	"github.com/detmach/snapsmith/lib/sandbox"
	"github.com/detmach/snapsmith/lib/stages"
)

// Manager drives snapshot builds.
type Manager interface {
	// BuildSnapshot runs the full pipeline for one source image.
	BuildSnapshot(ctx context.Context, req BuildRequest) (*Result, error)
}

// BuildRequest identifies the source image to convert.
type BuildRequest struct {
	Image string
}

// Result describes a completed build.
type Result struct {
	BuildID      string
	SnapshotPath string
	Config       *images.BuildConfig
	Duration     time.Duration
}

// Config holds configuration for the build manager
type Config struct {
	// StageTimeout bounds each pipeline stage; zero means unbounded.
	StageTimeout time.Duration
}

type manager struct {
	config    Config
	paths     *paths.Paths
	store     images.Store
	validator *images.Validator
	runner    sandbox.Runner
	logger    *slog.Logger
	metrics   *Metrics
	tracer    trace.Tracer
	inflight  *inFlight
}

// NewManager creates a new build manager
func NewManager(
	p *paths.Paths,
	config Config,
	store images.Store,
	validator *images.Validator,
	runner sandbox.Runner,
	logger *slog.Logger,
	meter metric.Meter,
) (Manager, error) {
	if logger == nil {
		logger = slog.Default()
	}

	m := &manager{
		config:    config,
		paths:     p,
		store:     store,
		validator: validator,
		runner:    runner,
		logger:    logger,
		tracer:    otel.Tracer("snapsmith/builds"),
		inflight:  newInFlight(),
	}

	if meter != nil {
		metrics, err := NewMetrics(meter)
		if err != nil {
			return nil, fmt.Errorf("create metrics: %w", err)
		}
		m.metrics = metrics
	}

	return m, nil
}

func (m *manager) BuildSnapshot(ctx context.Context, req BuildRequest) (*Result, error) {
	start := time.Now()
	id := cuid2.Generate()
	log := m.logger.With("build", id, "image", req.Image)

	ref, err := images.ParseNormalizedRef(req.Image)
	if err != nil {
		return nil, fmt.Errorf("parse image reference: %w", err)
	}

	// The working area is keyed to the image identity and owned by one
	// run at a time.
	identity := ref.IdentitySlug()
	if !m.inflight.acquire(identity) {
		return nil, fmt.Errorf("%w: %s", ErrBuildInProgress, ref.String())
	}
	defer m.inflight.release(identity)

	workDir, err := m.paths.WorkDir(identity)
	if err != nil {
		return nil, fmt.Errorf("resolve working area: %w", err)
	}

	log.Info("build starting", "work_dir", workDir)

	result, err := m.run(ctx, log, id, ref, workDir)
	duration := time.Since(start)

	status := "success"
	if err != nil {
		status = "failed"
	}
	if m.metrics != nil {
		m.metrics.RecordBuild(ctx, status, duration)
	}

	if err != nil {
		log.Error("build failed", "state", StateFailed, "error", err, "duration", duration)
		return nil, err
	}

	result.Duration = duration
	log.Info("build succeeded", "state", StateSucceeded, "snapshot", result.SnapshotPath, "duration", duration)
	return result, nil
}

// run executes the stage sequence against an exclusively-owned working area.
func (m *manager) run(ctx context.Context, log *slog.Logger, id string, ref *images.NormalizedRef, workDir string) (*Result, error) {
	imageArchive := paths.ImageArchive(workDir)
	rootfsArchive := paths.RootfsArchive(workDir)
	fsImage := paths.FilesystemImage(workDir)
	snapshotDir := paths.SnapshotDir(workDir)

	// Intermediates are deleted whether the run succeeded or failed, and a
	// failed run must not leave a partial snapshot behind.
	succeeded := false
	defer func() {
		m.removeIntermediates(log, imageArchive, rootfsArchive, fsImage)
		if !succeeded {
			if err := os.RemoveAll(snapshotDir); err != nil {
				log.Warn("remove partial snapshot", "path", snapshotDir, "error", err)
			}
		}
	}()

	err := m.runStage(ctx, log, StateInitializing, func(ctx context.Context) error {
		if err := os.RemoveAll(workDir); err != nil {
			return fmt.Errorf("clear working area: %w", err)
		}
		return os.MkdirAll(workDir, 0755)
	})
	if err != nil {
		return nil, err
	}

	var cfg *images.BuildConfig
	err = m.runStage(ctx, log, StateValidating, func(ctx context.Context) error {
		info, err := m.store.Inspect(ctx, ref)
		if err != nil {
			return fmt.Errorf("inspect image: %w", err)
		}
		cfg, err = m.validator.Validate(info)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Info("image validated",
		"digest", cfg.Digest,
		"toolset", cfg.ToolsetImage,
		"ram_size", cfg.RAMSize,
		"data_size", cfg.DataSize)

	// Stage 1 talks to the image store directly; no execution environment.
	err = m.runStage(ctx, log, StateExportingArchive, func(ctx context.Context) error {
		return m.store.Save(ctx, ref, imageArchive)
	})
	if err != nil {
		return nil, err
	}

	err = m.runStage(ctx, log, StateBuildingFilesystemImage, func(ctx context.Context) error {
		if err := m.runner.EnsureImage(ctx, cfg.ToolsetImage); err != nil {
			return fmt.Errorf("ensure toolset image: %w", err)
		}

		if err := m.runner.RunOneShot(ctx, sandbox.RunSpec{
			Image:      cfg.ToolsetImage,
			Command:    stages.ExportRootfsCommand(),
			InputPath:  imageArchive,
			OutputPath: rootfsArchive,
			Name:       "snapsmith-export-" + id,
		}); err != nil {
			return fmt.Errorf("export rootfs: %w", err)
		}

		info, err := archive.Measure(rootfsArchive)
		if err != nil {
			return fmt.Errorf("verify rootfs archive: %w", err)
		}
		log.Debug("rootfs archive measured",
			"entries", info.Entries,
			"size", datasize.ByteSize(info.Bytes).HumanReadable())

		if err := m.runner.RunOneShot(ctx, sandbox.RunSpec{
			Image:      cfg.ToolsetImage,
			Command:    stages.BuildFilesystemCommand(cfg.DataSizeBytes),
			InputPath:  rootfsArchive,
			OutputPath: fsImage,
			Name:       "snapsmith-mkfs-" + id,
		}); err != nil {
			return fmt.Errorf("build filesystem image: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = m.runStage(ctx, log, StateBuildingSnapshot, func(ctx context.Context) error {
		// The store operation stamps the drive in place, so the input
		// is mounted read-write.
		if err := m.runner.RunOneShot(ctx, sandbox.RunSpec{
			Image:      cfg.ToolsetImage,
			Command:    stages.StoreSnapshotCommand(cfg),
			InputPath:  fsImage,
			InputRW:    true,
			OutputPath: snapshotDir,
			Name:       "snapsmith-store-" + id,
		}); err != nil {
			return fmt.Errorf("store snapshot: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	buildStart := time.Now()
	err = m.runStage(ctx, log, StateFinalizing, func(ctx context.Context) error {
		if err := os.Chmod(snapshotDir, 0755); err != nil {
			return fmt.Errorf("mark snapshot executable: %w", err)
		}

		size, err := dirSize(snapshotDir)
		if err != nil {
			return fmt.Errorf("measure snapshot: %w", err)
		}

		return writeMetadata(workDir, &snapshotMetadata{
			BuildID:       id,
			Reference:     cfg.Reference,
			Digest:        cfg.Digest,
			Entrypoint:    cfg.Entrypoint,
			Cmd:           cfg.Cmd,
			Env:           cfg.Env,
			WorkingDir:    cfg.WorkingDir,
			RAMSize:       cfg.RAMSize,
			DataSize:      cfg.DataSize,
			SnapshotBytes: size,
			DurationMS:    time.Since(buildStart).Milliseconds(),
			CreatedAt:     time.Now(),
		})
	})
	if err != nil {
		return nil, err
	}

	succeeded = true
	return &Result{
		BuildID:      id,
		SnapshotPath: snapshotDir,
		Config:       cfg,
	}, nil
}

// runStage runs one pipeline stage under the configured per-stage timeout,
// with a span and a duration metric per stage.
func (m *manager) runStage(ctx context.Context, log *slog.Logger, state State, fn func(context.Context) error) error {
	stageCtx := ctx
	if m.config.StageTimeout > 0 {
		var cancel context.CancelFunc
		stageCtx, cancel = context.WithTimeout(ctx, m.config.StageTimeout)
		defer cancel()
	}

	stageCtx, span := m.tracer.Start(stageCtx, "build."+string(state))
	defer span.End()

	log.Info("stage starting", "stage", state)
	start := time.Now()
	err := fn(stageCtx)
	duration := time.Since(start)

	status := "success"
	if err != nil {
		status = "failed"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Error("stage failed", "stage", state, "error", err, "duration", duration)
	} else {
		log.Info("stage complete", "stage", state, "duration", duration)
	}

	if m.metrics != nil {
		m.metrics.RecordStage(ctx, state, status, duration)
	}
	return err
}

// removeIntermediates deletes the given artifacts, tolerating files that
// were never created because an earlier stage failed.
func (m *manager) removeIntermediates(log *slog.Logger, artifacts ...string) {
	for _, path := range artifacts {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Warn("remove intermediate artifact", "path", path, "error", err)
		}
	}
}
