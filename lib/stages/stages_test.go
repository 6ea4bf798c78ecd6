package stages

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/detmach/snapsmith/lib/images"
	"github.com/detmach/snapsmith/lib/sandbox"
)

func TestExportRootfsCommand(t *testing.T) {
	cmd := ExportRootfsCommand()

	require.Equal(t, []string{"/bin/sh", "-c"}, cmd[:2])
	script := cmd[2]

	require.Contains(t, script, "set -o pipefail")
	require.Contains(t, script, "crane export - - < "+sandbox.InputMount)
	require.Contains(t, script, "| bsdtar -cf "+sandbox.OutputPath+" --format=gnutar @-")

	// pure: repeated calls produce the identical command line
	require.Equal(t, cmd, ExportRootfsCommand())
}

func TestBuildFilesystemCommand(t *testing.T) {
	cmd := BuildFilesystemCommand(10 * 1000 * 1000)

	require.Equal(t, "xgenext2fs", cmd[0])
	require.Contains(t, cmd, "--faketime")
	require.Contains(t, cmd, "--block-size")
	require.Contains(t, cmd, strconv.Itoa(BlockSize))
	require.Equal(t, sandbox.OutputPath, cmd[len(cmd)-1])
	require.Equal(t, sandbox.InputMount, cmd[len(cmd)-2])
}

// Slack is rounded up to whole blocks.
func TestBuildFilesystemCommandBlockRounding(t *testing.T) {
	tests := []struct {
		extraBytes int64
		blocks     string
	}{
		{0, "+0"},
		{1, "+1"},
		{BlockSize - 1, "+1"},
		{BlockSize, "+1"},
		{BlockSize + 1, "+2"},
		{10 * 1000 * 1000, "+2442"},
	}

	for _, tt := range tests {
		cmd := BuildFilesystemCommand(tt.extraBytes)
		i := indexOf(t, cmd, "--readjustment")
		require.Equal(t, tt.blocks, cmd[i+1], "extraBytes=%d", tt.extraBytes)
	}
}

func storeConfig() *images.BuildConfig {
	return &images.BuildConfig{
		Entrypoint: []string{"/sbin/init"},
		Cmd:        []string{"--verbose"},
		Env:        []string{"PATH=/usr/bin", "HOME=/root"},
		RAMSize:    "256Mi",
	}
}

func TestStoreSnapshotCommand(t *testing.T) {
	cmd := StoreSnapshotCommand(storeConfig())

	require.Equal(t, "detmach-machine", cmd[0])
	require.Contains(t, cmd, "--ram-size=256Mi")
	require.Contains(t, cmd, "--drive=label:root,filename:"+sandbox.InputMount)
	require.Contains(t, cmd, "--store="+sandbox.OutputPath)
	require.Contains(t, cmd, "--env=PATH=/usr/bin")
	require.Contains(t, cmd, "--env=HOME=/root")

	// boot command is the concatenated entrypoint+cmd, after the separator
	require.Equal(t, "--", cmd[len(cmd)-2])
	require.Equal(t, "/sbin/init --verbose", cmd[len(cmd)-1])
}

func TestStoreSnapshotCommandWorkingDir(t *testing.T) {
	cfg := storeConfig()
	require.NotContains(t, StoreSnapshotCommand(cfg), "--workdir=/srv")

	cfg.WorkingDir = "/srv"
	require.Contains(t, StoreSnapshotCommand(cfg), "--workdir=/srv")
}

// Environment variables keep their order; the snapshot boots with them
// exactly as the image declared them.
func TestStoreSnapshotCommandEnvOrder(t *testing.T) {
	cmd := StoreSnapshotCommand(storeConfig())

	path := indexOf(t, cmd, "--env=PATH=/usr/bin")
	home := indexOf(t, cmd, "--env=HOME=/root")
	require.Less(t, path, home)
}

func TestExportScriptQuoting(t *testing.T) {
	script := ExportRootfsCommand()[2]

	// fixed mount paths need no quoting; the script must not mangle them
	require.False(t, strings.Contains(script, `"`))
	require.False(t, strings.Contains(script, `'`))
}

func indexOf(t *testing.T, args []string, want string) int {
	t.Helper()
	for i, a := range args {
		if a == want {
			return i
		}
	}
	t.Fatalf("argument %q not found in %v", want, args)
	return -1
}
