package images

import (
	"regexp"
	"strings"

	"github.com/distribution/reference"
)

// NormalizedRef is a validated and normalized OCI image reference.
// It can be either a tagged reference (e.g., "docker.io/library/alpine:latest")
// or a digest reference (e.g., "docker.io/library/alpine@sha256:abc123...").
type NormalizedRef struct {
	raw        string
	repository string
	tag        string // empty if digest ref
	digest     string // empty if tag ref
	isDigest   bool
}

// ParseNormalizedRef validates and normalizes a user-provided image reference.
// Examples:
//   - "alpine" -> "docker.io/library/alpine:latest"
//   - "alpine:3.18" -> "docker.io/library/alpine:3.18"
//   - "alpine@sha256:abc..." -> "docker.io/library/alpine@sha256:abc..."
func ParseNormalizedRef(s string) (*NormalizedRef, error) {
	named, err := reference.ParseNormalizedNamed(s)
	if err != nil {
		return nil, err
	}

	ref := &NormalizedRef{
		repository: reference.Domain(named) + "/" + reference.Path(named),
	}

	if canonical, ok := named.(reference.Canonical); ok {
		ref.isDigest = true
		ref.digest = canonical.Digest().String()
		ref.raw = canonical.String()
		return ref, nil
	}

	// Tagged reference - ensure a tag (add :latest if missing)
	tagged := reference.TagNameOnly(named)
	if t, ok := tagged.(reference.Tagged); ok {
		ref.tag = t.Tag()
	}
	ref.raw = tagged.String()

	return ref, nil
}

// String returns the full normalized reference.
func (r *NormalizedRef) String() string {
	return r.raw
}

// IsDigest returns true if this reference contains a digest (@sha256:...).
func (r *NormalizedRef) IsDigest() bool {
	return r.isDigest
}

// Digest returns the digest if present (e.g., "sha256:abc123...").
// Returns empty string if this is a tagged reference.
func (r *NormalizedRef) Digest() string {
	return r.digest
}

// Repository returns the repository path without tag or digest.
// Example: "docker.io/library/alpine"
func (r *NormalizedRef) Repository() string {
	return r.repository
}

// Tag returns the tag if this is a tagged reference (e.g., "latest").
// Returns empty string if this is a digest reference.
func (r *NormalizedRef) Tag() string {
	return r.tag
}

var slugSanitizer = regexp.MustCompile(`[^a-z0-9._-]+`)

// IdentitySlug returns a filesystem-safe identifier for this reference. The
// pipeline keys one working area per slug, which is what keeps two builds of
// the same image from sharing intermediates.
func (r *NormalizedRef) IdentitySlug() string {
	s := r.repository
	if r.isDigest {
		hex := strings.TrimPrefix(r.digest, "sha256:")
		if len(hex) > 12 {
			hex = hex[:12]
		}
		s += "-" + hex
	} else {
		s += "-" + r.tag
	}

	s = slugSanitizer.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(s, "-")
}
