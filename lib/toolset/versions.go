// Package toolset tracks the execution-environment images that bundle the
// filesystem and snapshot tools a given image build requires.
package toolset

import (
	"github.com/Masterminds/semver/v3"
)

const (
	// DefaultName is the toolset image used when the source image carries
	// no sdk_name label.
	DefaultName = "detmach/toolset"

	// MinimumVersion is the oldest default-toolset version whose stage
	// tools still produce snapshots the emulator accepts.
	// Bump when a stage tool's argument contract changes.
	MinimumVersion = "0.4.0"

	// DefaultVersion is the toolset version used when the source image
	// carries no sdk_version label.
	DefaultVersion = MinimumVersion
)

// ImageRef forms the execution-environment image reference for a toolset
// name and version.
func ImageRef(name, version string) string {
	return name + ":" + version
}

// IsValidVersion reports whether s parses as a semantic version
// (MAJOR.MINOR.PATCH with optional pre-release/build metadata).
func IsValidVersion(s string) bool {
	_, err := semver.NewVersion(s)
	return err == nil
}

// VersionLessThan reports whether semantic version a sorts before b under
// standard semver precedence: numeric MAJOR/MINOR/PATCH comparison, with a
// pre-release sorting lower than its release.
func VersionLessThan(a, b string) (bool, error) {
	va, err := semver.NewVersion(a)
	if err != nil {
		return false, err
	}
	vb, err := semver.NewVersion(b)
	if err != nil {
		return false, err
	}
	return va.LessThan(vb), nil
}
