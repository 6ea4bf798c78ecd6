package images

import (
	"fmt"
	"log/slog"

	"github.com/samber/lo"

	"github.com/detmach/snapsmith/lib/bytesize"
	"github.com/detmach/snapsmith/lib/toolset"
)

// Validator turns inspected image metadata into a validated BuildConfig.
// Every rule runs before any pipeline stage spends time or disk resources.
type Validator struct {
	logger *slog.Logger
}

func NewValidator(logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{logger: logger}
}

// Validate applies the validation rules in order and derives the defaulted
// build configuration. The returned config is never mutated afterwards.
func (v *Validator) Validate(info *ImageInfo) (*BuildConfig, error) {
	if info.Architecture != RequiredArchitecture {
		return nil, fmt.Errorf("%w: %q (want %q)", ErrUnsupportedArchitecture, info.Architecture, RequiredArchitecture)
	}

	if len(info.Config.Entrypoint) == 0 && len(info.Config.Cmd) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingBootCommand, info.Reference)
	}

	labels := info.Config.Labels
	sdkName := lo.ValueOr(labels, LabelSDKName, toolset.DefaultName)
	sdkVersion := lo.ValueOr(labels, LabelSDKVersion, toolset.DefaultVersion)

	// An unparseable sdk_version is a warning, not a failure: the literal
	// string still names the toolset image to use.
	if !toolset.IsValidVersion(sdkVersion) {
		v.logger.Warn("image has invalid toolset version label, using it verbatim",
			"image", info.Reference, "sdk_version", sdkVersion)
	} else if sdkName == toolset.DefaultName {
		old, err := toolset.VersionLessThan(sdkVersion, toolset.MinimumVersion)
		if err != nil {
			return nil, fmt.Errorf("compare toolset version: %w", err)
		}
		if old {
			return nil, fmt.Errorf("%w: %s (minimum %s)", ErrUnsupportedToolsetVersion, sdkVersion, toolset.MinimumVersion)
		}
	}

	dataSize := lo.ValueOr(labels, LabelDataSize, DefaultDataSize)
	dataSizeBytes, ok := bytesize.Parse(dataSize)
	if !ok {
		return nil, fmt.Errorf("%w: %s=%q", ErrInvalidSizeValue, LabelDataSize, dataSize)
	}

	return &BuildConfig{
		Reference:     info.Reference,
		Digest:        info.Digest,
		Architecture:  info.Architecture,
		Entrypoint:    info.Config.Entrypoint,
		Cmd:           info.Config.Cmd,
		Env:           info.Config.Env,
		WorkingDir:    info.Config.WorkingDir,
		RAMSize:       lo.ValueOr(labels, LabelRAMSize, DefaultRAMSize),
		DataSize:      dataSize,
		DataSizeBytes: dataSizeBytes,
		ToolsetImage:  toolset.ImageRef(sdkName, sdkVersion),
	}, nil
}
