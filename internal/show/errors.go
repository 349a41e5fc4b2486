package show

import "errors"

var (
	errMissingLockPath = errors.New("show: lock path is required")
	errMissingLock     = errors.New("show: lock file not found")
)
