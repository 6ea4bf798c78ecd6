package images

import (
	"strings"

	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

// RequiredArchitecture is the only architecture the deterministic emulator
// boots; anything else is rejected before the pipeline spends resources.
const RequiredArchitecture = "riscv64"

// Recognized configuration labels on the source image. All are optional.
const (
	LabelRAMSize    = "ram_size"
	LabelDataSize   = "data_size"
	LabelSDKName    = "sdk_name"
	LabelSDKVersion = "sdk_version"
)

const (
	DefaultRAMSize  = "128Mi"
	DefaultDataSize = "10Mb"
)

// ImageInfo is the inspected metadata of a source image, as returned by the
// image store before validation.
type ImageInfo struct {
	Reference    string
	Digest       string
	Architecture string
	Config       ocispec.ImageConfig
}

// BuildConfig is the validated configuration a snapshot build runs with.
// It is immutable once produced by the validator.
type BuildConfig struct {
	Reference     string   `json:"reference"`
	Digest        string   `json:"digest"`
	Architecture  string   `json:"architecture"`
	Entrypoint    []string `json:"entrypoint,omitempty"`
	Cmd           []string `json:"cmd,omitempty"`
	Env           []string `json:"env,omitempty"`
	WorkingDir    string   `json:"working_dir,omitempty"`
	RAMSize       string   `json:"ram_size"`
	DataSize      string   `json:"data_size"`
	DataSizeBytes int64    `json:"data_size_bytes"`
	ToolsetImage  string   `json:"toolset_image"`
}

// BootCommand returns the entrypoint and cmd concatenated into the single
// command line the snapshot boots with.
func (c *BuildConfig) BootCommand() string {
	parts := make([]string, 0, len(c.Entrypoint)+len(c.Cmd))
	parts = append(parts, c.Entrypoint...)
	parts = append(parts, c.Cmd...)
	return strings.Join(parts, " ")
}
