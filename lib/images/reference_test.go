package images

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseNormalizedRef(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		// Full references pass through
		{"docker.io/library/alpine:latest", "docker.io/library/alpine:latest", false},
		{"ghcr.io/detmach/guest-app:v1.0.0", "ghcr.io/detmach/guest-app:v1.0.0", false},

		// Shorthand gets expanded, missing tags get :latest
		{"alpine", "docker.io/library/alpine:latest", false},
		{"alpine:3.18", "docker.io/library/alpine:3.18", false},
		{"docker.io/library/alpine", "docker.io/library/alpine:latest", false},

		// Digest references (must be valid 64-char hex SHA256)
		{"alpine@sha256:0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef", "docker.io/library/alpine@sha256:0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef", false},

		// Invalid
		{"", "", true},
		{"invalid::", "", true},
		{"has spaces", "", true},
		{"UPPERCASE", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := ParseNormalizedRef(tt.input)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				require.Equal(t, tt.expected, result.String())
			}
		})
	}
}

func TestNormalizedRefMethods(t *testing.T) {
	t.Run("TaggedReference", func(t *testing.T) {
		ref, err := ParseNormalizedRef("alpine:3.18")
		require.NoError(t, err)

		require.False(t, ref.IsDigest())
		require.Equal(t, "docker.io/library/alpine", ref.Repository())
		require.Equal(t, "3.18", ref.Tag())
		require.Equal(t, "", ref.Digest())
	})

	t.Run("DigestReference", func(t *testing.T) {
		ref, err := ParseNormalizedRef("alpine@sha256:0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef")
		require.NoError(t, err)

		require.True(t, ref.IsDigest())
		require.Equal(t, "docker.io/library/alpine", ref.Repository())
		require.Equal(t, "", ref.Tag())
		require.Equal(t, "sha256:0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef", ref.Digest())
	})
}

func TestIdentitySlug(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"alpine", "docker.io-library-alpine-latest"},
		{"alpine:3.18", "docker.io-library-alpine-3.18"},
		{"ghcr.io/detmach/guest-app:v1.0.0", "ghcr.io-detmach-guest-app-v1.0.0"},
		{"alpine@sha256:0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef", "docker.io-library-alpine-0123456789ab"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ref, err := ParseNormalizedRef(tt.input)
			require.NoError(t, err)
			require.Equal(t, tt.expected, ref.IdentitySlug())
		})
	}
}

// Two distinct references must never share a working area.
func TestIdentitySlugDistinct(t *testing.T) {
	a, err := ParseNormalizedRef("alpine:3.18")
	require.NoError(t, err)
	b, err := ParseNormalizedRef("alpine:3.19")
	require.NoError(t, err)

	require.NotEqual(t, a.IdentitySlug(), b.IdentitySlug())
}
