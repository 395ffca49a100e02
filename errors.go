package cubetwist

import "errors"

// Sentinel errors for the cubetwist package.
var (
	ErrUnknownDirection = errors.New("cubetwist: unknown direction")
)
