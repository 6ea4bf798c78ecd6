package archive

import (
	"archive/tar"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTar(t *testing.T, files map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.tar")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	tw := tar.NewWriter(f)
	for name, content := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name: name,
			Mode: 0644,
			Size: int64(len(content)),
		}))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())

	return path
}

func TestMeasure(t *testing.T) {
	files := map[string]string{
		"etc/hostname": "guest\n",
		"sbin/init":    "#!/bin/sh\nexec /bin/sh\n",
	}
	path := writeTar(t, files)

	var want int64
	for _, content := range files {
		want += int64(len(content))
	}

	info, err := Measure(path)
	require.NoError(t, err)
	require.Equal(t, 2, info.Entries)
	require.Equal(t, want, info.Bytes)
}

func TestMeasureEmptyArchive(t *testing.T) {
	path := writeTar(t, nil)

	_, err := Measure(path)
	require.ErrorIs(t, err, ErrEmptyArchive)
}

func TestMeasureGarbageInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.tar")
	require.NoError(t, os.WriteFile(path, []byte("this is not a tar archive"), 0644))

	_, err := Measure(path)
	require.Error(t, err)
}

func TestMeasureMissingFile(t *testing.T) {
	_, err := Measure(filepath.Join(t.TempDir(), "absent.tar"))
	require.Error(t, err)
}
