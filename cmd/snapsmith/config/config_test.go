package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	require.Equal(t, "/var/lib/snapsmith", cfg.WorkDir)
	require.Equal(t, "docker", cfg.ContainerCLI)
	require.Equal(t, 15*time.Minute, cfg.StageTimeout)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("WORK_DIR", "/tmp/builds")
	t.Setenv("CONTAINER_CLI", "podman")
	t.Setenv("STAGE_TIMEOUT", "90s")

	cfg := Load()

	require.Equal(t, "/tmp/builds", cfg.WorkDir)
	require.Equal(t, "podman", cfg.ContainerCLI)
	require.Equal(t, 90*time.Second, cfg.StageTimeout)
}

func TestLoadIgnoresBadDuration(t *testing.T) {
	t.Setenv("STAGE_TIMEOUT", "soon")

	cfg := Load()
	require.Equal(t, 15*time.Minute, cfg.StageTimeout)
}
