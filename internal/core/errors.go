package core

import "errors"

var (
	// ErrNoTextLayer means the document parsed but carries no extractable
	// text, typically a scanned image PDF.
	ErrNoTextLayer = errors.New("no extractable text layer")

	// ErrParse means the document could not be parsed at all.
	ErrParse = errors.New("document parse failure")

	// ErrInvalidRequest marks malformed caller input.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrEmptyEmbedding is returned when a provider answers without a vector.
	ErrEmptyEmbedding = errors.New("empty embedding returned")

	// ErrDimensionMismatch is returned when a vector's length differs from
	// the provider's configured dimension.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)
