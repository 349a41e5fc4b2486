package check

import "errors"

var (
	errMissingManifestPath = errors.New("check: manifest path is required")
	errMissingLockPath     = errors.New("check: lock path is required")

	// ErrOutOfDate is returned in strict mode when the manifest no longer
	// matches the lock file.
	ErrOutOfDate = errors.New("check: lock file is out of date")
)
