package renderer

import "errors"

var (
	// ErrInterrupted is returned when a progressive render is cancelled between passes
	ErrInterrupted = errors.New("render interrupted")
	// ErrInvalidConfig is returned for sampling or progressive settings that cannot render
	ErrInvalidConfig = errors.New("invalid render configuration")
)
