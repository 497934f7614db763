package scene

import "errors"

var (
	// ErrUnknownScene is returned when a name matches neither a built-in scene nor a scene file
	ErrUnknownScene = errors.New("unknown scene")
	// ErrInvalidScene is returned when a scene fails validation
	ErrInvalidScene = errors.New("invalid scene")
)
