package builds

import "errors"

// ErrBuildInProgress is returned when a build is requested for an image
// whose working area is already owned by a running build.
var ErrBuildInProgress = errors.New("build already in progress for image")
