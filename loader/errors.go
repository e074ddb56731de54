package loader

import "errors"

// Sentinel errors for loader operations.
var (
	// ErrNotFound is returned when no template is registered under a name.
	ErrNotFound = errors.New("template not found")

	// ErrInvalidConfig is returned when a Config fails validation or a
	// config file cannot be interpreted.
	ErrInvalidConfig = errors.New("invalid loader config")
)
