// Package paths lays out the on-disk working areas for snapshot builds.
package paths

import (
	"path/filepath"

	securejoin "github.com/cyphar/filepath-securejoin"
)

// Names of the artifacts inside one working area. The first three are
// intermediates deleted at the end of every run; only the snapshot directory
// and its metadata survive a successful build.
const (
	ImageArchiveName    = "image.tar"
	RootfsArchiveName   = "rootfs.tar"
	FilesystemImageName = "rootfs.ext2"
	SnapshotDirName     = "snapshot"
	MetadataFileName    = "metadata.json"
)

// Paths resolves working areas under a single work root. Each source image
// identity gets its own directory, so concurrent builds of different images
// never share state.
type Paths struct {
	workRoot string
}

func New(workRoot string) *Paths {
	return &Paths{workRoot: workRoot}
}

func (p *Paths) WorkRoot() string {
	return p.workRoot
}

// WorkDir returns the working area for one image identity. The identity is
// joined securely so a hostile reference can never escape the work root.
func (p *Paths) WorkDir(identity string) (string, error) {
	return securejoin.SecureJoin(p.workRoot, identity)
}

func ImageArchive(workDir string) string {
	return filepath.Join(workDir, ImageArchiveName)
}

func RootfsArchive(workDir string) string {
	return filepath.Join(workDir, RootfsArchiveName)
}

func FilesystemImage(workDir string) string {
	return filepath.Join(workDir, FilesystemImageName)
}

func SnapshotDir(workDir string) string {
	return filepath.Join(workDir, SnapshotDirName)
}

func MetadataFile(workDir string) string {
	return filepath.Join(workDir, MetadataFileName)
}
