// Package sandbox runs single stage commands inside disposable containers.
// Each run mounts exactly one input artifact, retrieves exactly one output
// artifact, and tears the container down no matter how the run ended.
package sandbox

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/nrednav/cuid2"
	"golang.org/x/sync/errgroup"
)

const (
	// InputMount and OutputPath are the fixed in-container artifact
	// locations every stage tool is invoked against.
	InputMount = "/tmp/input"
	OutputPath = "/tmp/output"

	// 128+SIGINT: the stage tool reporting an operator-requested shutdown
	// rather than a failure. Swallowed, teardown still runs.
	shutdownExitCode = 130

	managedByLabel  = "managed-by=snapsmith"
	teardownTimeout = 30 * time.Second
	stderrTailLines = 20
)

// ExecCommandFunc creates the exec.Cmd for one container CLI invocation.
// Tests inject a fake to avoid a real container runtime.
type ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

// RunSpec describes one stage execution.
type RunSpec struct {
	Image      string
	Command    []string
	InputPath  string
	InputRW    bool // mount the input read-write (stage stamps it in place)
	OutputPath string
	Name       string // container name; generated when empty
}

// Runner is the stage-execution boundary the build pipeline consumes.
type Runner interface {
	RunOneShot(ctx context.Context, spec RunSpec) error
	EnsureImage(ctx context.Context, image string) error
}

// Engine wraps a docker-compatible container CLI.
type Engine struct {
	binary      string
	execCommand ExecCommandFunc
	logger      *slog.Logger
}

var _ Runner = (*Engine)(nil)

type Option func(*Engine)

// WithExecCommand replaces the exec.Cmd constructor, for testing.
func WithExecCommand(fn ExecCommandFunc) Option {
	return func(e *Engine) { e.execCommand = fn }
}

func NewEngine(binary string, logger *slog.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		binary:      binary,
		execCommand: exec.CommandContext,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RunOneShot creates a fresh container from spec.Image with the input
// artifact bind-mounted, runs the command to completion while streaming its
// output, and copies the artifact written at OutputPath back to the host.
// The container is stopped and removed unconditionally, even when an earlier
// step failed, so repeated invocations never leak environments.
func (e *Engine) RunOneShot(ctx context.Context, spec RunSpec) error {
	name := spec.Name
	if name == "" {
		name = "snapsmith-" + cuid2.Generate()
	}
	log := e.logger.With("container", name, "image", spec.Image)

	mode := "ro"
	if spec.InputRW {
		mode = "rw"
	}
	createArgs := []string{
		"create",
		"--name", name,
		"--label", managedByLabel,
		"--volume", spec.InputPath + ":" + InputMount + ":" + mode,
		spec.Image,
	}
	createArgs = append(createArgs, spec.Command...)

	// Teardown uses a fresh context so cancellation of the stage cannot
	// skip it.
	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), teardownTimeout)
		defer cancel()
		e.teardown(cleanupCtx, log, name)
	}()

	if err := e.runQuiet(ctx, createArgs...); err != nil {
		return fmt.Errorf("create environment: %w", err)
	}

	log.Info("running stage command")
	if err := e.startAndStream(ctx, log, name); err != nil {
		return err
	}

	if err := e.runQuiet(ctx, "cp", name+":"+OutputPath, spec.OutputPath); err != nil {
		return fmt.Errorf("%w: %v", ErrArtifactCopyFailed, err)
	}

	return nil
}

// startAndStream attaches to the container, forwarding its stdout and stderr
// line by line into the log while keeping a bounded stderr tail for the
// error report.
func (e *Engine) startAndStream(ctx context.Context, log *slog.Logger, name string) error {
	cmd := e.execCommand(ctx, e.binary, "start", "--attach", name)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("attach stdout: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("attach stderr: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start environment: %w", err)
	}

	var tail []string
	grp := new(errgroup.Group)
	grp.Go(func() error {
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			log.Info("stage output", "stream", "stdout", "line", scanner.Text())
		}
		return scanner.Err()
	})
	grp.Go(func() error {
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			line := scanner.Text()
			log.Info("stage output", "stream", "stderr", "line", line)
			tail = append(tail, line)
			if len(tail) > stderrTailLines {
				tail = tail[1:]
			}
		}
		return scanner.Err()
	})

	streamErr := grp.Wait()
	waitErr := cmd.Wait()

	if waitErr != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: %v", ErrExecutionTimedOut, ctx.Err())
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			code := exitErr.ExitCode()
			if code == shutdownExitCode {
				log.Info("stage reported operator-requested shutdown", "code", code)
				return nil
			}
			return &ExecutionError{ExitCode: code, Stderr: strings.Join(tail, "\n")}
		}
		return fmt.Errorf("await environment: %w", waitErr)
	}

	if streamErr != nil {
		log.Warn("stage output stream ended early", "error", streamErr)
	}
	return nil
}

// EnsureImage resolves the toolset image up front, pulling it when absent,
// so a later stage failure is attributable to the stage and not to a missing
// image.
func (e *Engine) EnsureImage(ctx context.Context, image string) error {
	if err := e.runQuiet(ctx, "image", "inspect", image); err == nil {
		return nil
	}

	e.logger.Info("pulling toolset image", "image", image)
	if err := e.runQuiet(ctx, "pull", image); err != nil {
		return fmt.Errorf("pull toolset image %s: %w", image, err)
	}
	return nil
}

// runQuiet executes one CLI invocation, surfacing captured stderr in the
// error on non-zero exit.
func (e *Engine) runQuiet(ctx context.Context, args ...string) error {
	cmd := e.execCommand(ctx, e.binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("%s %s: %w: %s", e.binary, args[0], err, msg)
		}
		return fmt.Errorf("%s %s: %w", e.binary, args[0], err)
	}
	return nil
}

// teardown stops and removes the container. Both operations run even when
// the first fails; a container that never started makes stop fail, which is
// expected.
func (e *Engine) teardown(ctx context.Context, log *slog.Logger, name string) {
	if err := e.runQuiet(ctx, "stop", name); err != nil {
		log.Debug("stop environment", "error", err)
	}
	if err := e.runQuiet(ctx, "rm", "--force", "--volumes", name); err != nil {
		log.Warn("remove environment", "error", err)
	}
}
