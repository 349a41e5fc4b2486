package generate

import "errors"

var (
	errMissingManifestPath   = errors.New("generate: manifest path is required")
	errMissingResolutionPath = errors.New("generate: resolution path is required")
	errMissingLockPath       = errors.New("generate: lock path is required")
)
