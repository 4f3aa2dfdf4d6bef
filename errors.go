package sgmlprep

import "errors"

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrNilModel indicates a Splitter was run without a sentence model.
	ErrNilModel = errors.New("sgmlprep: no sentence model")

	// ErrUnknownCharset indicates the requested input encoding is not supported.
	ErrUnknownCharset = errors.New("sgmlprep: unknown charset")

	// ErrLineTooLong indicates an input line exceeded the configured maximum size.
	ErrLineTooLong = errors.New("sgmlprep: input line too long")
)
