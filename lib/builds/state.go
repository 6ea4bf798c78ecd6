package builds

// State identifies one step of the snapshot pipeline. The pipeline moves
// through the states strictly in order; there is no branching or retry once
// a run has started.
type State string

const (
	StateInitializing            State = "initializing"
	StateValidating              State = "validating"
	StateExportingArchive        State = "exporting_archive"
	StateBuildingFilesystemImage State = "building_filesystem_image"
	StateBuildingSnapshot        State = "building_snapshot"
	StateFinalizing              State = "finalizing"
	StateSucceeded               State = "succeeded"
	StateFailed                  State = "failed"
)
