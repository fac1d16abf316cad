package picture

import "errors"

var (
	// ErrDecode marks input that could not be parsed as an image
	ErrDecode = errors.New("cannot decode image")
	// ErrArtifactExists marks a compressed image path already taken by
	// another file
	ErrArtifactExists = errors.New("compressed artifact already exists")
)
