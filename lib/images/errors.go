package images

import "errors"

var (
	ErrUnsupportedArchitecture   = errors.New("unsupported image architecture")
	ErrMissingBootCommand        = errors.New("image has no entrypoint or cmd")
	ErrUnsupportedToolsetVersion = errors.New("unsupported toolset version")
	ErrInvalidSizeValue          = errors.New("invalid size value")
)
