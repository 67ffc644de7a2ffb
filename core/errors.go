package core

import "errors"

// Job-level failures. Per-field problems never surface as errors.
var (
	// ErrUnsupportedFileType is returned when the file extension does not
	// match the selected conversion kind.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrNoContentFound is returned when an archive holds no KML document
	// with at least one placemark.
	ErrNoContentFound = errors.New("no KML content found in archive")

	// ErrNoPlacemarks is returned when a document parses but has no placemarks.
	ErrNoPlacemarks = errors.New("document contains no placemarks")

	// ErrMalformedDocument is returned when the input is neither well-formed
	// KML nor a readable archive.
	ErrMalformedDocument = errors.New("malformed document")

	// ErrEmptyArchiveMember marks an archive member that could not be read.
	// It is logged and skipped unless no usable member remains.
	ErrEmptyArchiveMember = errors.New("archive member could not be read")
)
