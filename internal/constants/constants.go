// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

// Generation constants
const (
	// DefaultWorkers is the default number of parallel compositing workers
	// within a page
	DefaultWorkers = 4

	// DefaultOutputDPI is the raster resolution used when no settings file
	// overrides it
	DefaultOutputDPI = 300
)

// Web constants
const (
	// EventChannelBuffer is the buffer size of per-listener job event channels
	EventChannelBuffer = 100

	// MaxGenerateImages caps the number of image paths accepted per API request
	MaxGenerateImages = 10000
)
