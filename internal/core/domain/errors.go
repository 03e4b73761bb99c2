package domain

import "go.trai.ch/zerr"

var (
	// ErrSourceNotFound is returned when the requested LESS source file does not exist.
	ErrSourceNotFound = zerr.New("less source not found")

	// ErrSourceIsDirectory is returned when the requested LESS source path names a directory.
	ErrSourceIsDirectory = zerr.New("less source is a directory")

	// ErrCompileFailed is returned when the LESS compiler exits unsuccessfully.
	ErrCompileFailed = zerr.New("less compilation failed")

	// ErrStylesheetNotFound is returned when a requested stylesheet is not defined in the project file.
	ErrStylesheetNotFound = zerr.New("stylesheet not found")

	// ErrStylesheetAlreadyExists is returned when two stylesheets share a name.
	ErrStylesheetAlreadyExists = zerr.New("stylesheet already exists")

	// ErrMissingSource is returned when a stylesheet definition has no source path.
	ErrMissingSource = zerr.New("stylesheet has no source")

	// ErrPathOutsideRoot is returned when a path or URL cannot be mapped because it lies outside the root.
	ErrPathOutsideRoot = zerr.New("path is outside the mapped root")

	// ErrCacheWriteFailed is returned when the compiled CSS cannot be written to the cache file.
	ErrCacheWriteFailed = zerr.New("failed to write css cache")

	// ErrCacheReadFailed is returned when a fresh cache file cannot be read back.
	ErrCacheReadFailed = zerr.New("failed to read css cache")

	// ErrStoreReadFailed is returned when reading build info from the store fails.
	ErrStoreReadFailed = zerr.New("failed to read build info store")

	// ErrStoreWriteFailed is returned when writing build info to the store fails.
	ErrStoreWriteFailed = zerr.New("failed to write build info store")

	// ErrStoreUnmarshalFailed is returned when stored build info cannot be decoded.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal build info")

	// ErrStoreMarshalFailed is returned when build info cannot be encoded.
	ErrStoreMarshalFailed = zerr.New("failed to marshal build info")

	// ErrConfigNotFound is returned when the project file cannot be located.
	ErrConfigNotFound = zerr.New("project file not found")

	// ErrConfigReadFailed is returned when the project file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read project file")

	// ErrConfigParseFailed is returned when the project file is not valid YAML.
	ErrConfigParseFailed = zerr.New("failed to parse project file")

	// ErrInvalidStylesheetName is returned when a stylesheet name contains unsupported characters.
	ErrInvalidStylesheetName = zerr.New("invalid stylesheet name")

	// ErrOutputIsSource is returned when a stylesheet would write its CSS over its own source.
	ErrOutputIsSource = zerr.New("output path equals source path")

	// ErrBatchFailed is returned when at least one stylesheet of a batch failed to compile.
	ErrBatchFailed = zerr.New("one or more stylesheets failed")
)
