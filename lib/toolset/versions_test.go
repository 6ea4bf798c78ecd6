package toolset

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsValidVersion(t *testing.T) {
	valid := []string{"0.4.0", "1.2.3", "v1.2.3", "1.0.0-rc.1", "2.0.0+build.7"}
	for _, s := range valid {
		require.True(t, IsValidVersion(s), "expected %q to be valid", s)
	}

	invalid := []string{"", "devel", "1.2.3.4", "not-a-version"}
	for _, s := range invalid {
		require.False(t, IsValidVersion(s), "expected %q to be invalid", s)
	}
}

func TestVersionLessThan(t *testing.T) {
	tests := []struct {
		a, b string
		less bool
	}{
		{"0.3.9", "0.4.0", true},
		{"0.4.0", "0.4.0", false},
		{"0.4.1", "0.4.0", false},
		{"1.0.0-rc.1", "1.0.0", true},
		{"1.0.0", "1.0.0-rc.1", false},
		{"1.9.0", "1.10.0", true},
	}

	for _, tt := range tests {
		less, err := VersionLessThan(tt.a, tt.b)
		require.NoError(t, err)
		require.Equal(t, tt.less, less, "%s < %s", tt.a, tt.b)
	}
}

// Precedence must be antisymmetric and transitive over distinct versions.
func TestVersionOrdering(t *testing.T) {
	ordered := []string{"0.3.0", "0.4.0-alpha", "0.4.0", "0.4.1", "1.0.0"}

	for i := range ordered {
		for j := range ordered {
			less, err := VersionLessThan(ordered[i], ordered[j])
			require.NoError(t, err)
			require.Equal(t, i < j, less, "%s < %s", ordered[i], ordered[j])
		}
	}
}

func TestVersionLessThanInvalidInput(t *testing.T) {
	_, err := VersionLessThan("garbage", "1.0.0")
	require.Error(t, err)

	_, err = VersionLessThan("1.0.0", "garbage")
	require.Error(t, err)
}

func TestImageRef(t *testing.T) {
	require.Equal(t, "detmach/toolset:0.4.0", ImageRef(DefaultName, DefaultVersion))
	require.Equal(t, "acme/tools:1.2.3", ImageRef("acme/tools", "1.2.3"))
}
