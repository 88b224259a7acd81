package core

import "context"

// DocumentExtractor turns raw document bytes into plain text.
// The contentType hint picks the parsing strategy.
type DocumentExtractor interface {
	ExtractText(ctx context.Context, data []byte, contentType string) (string, error)
}
