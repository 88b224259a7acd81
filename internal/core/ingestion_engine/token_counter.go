package ingestion_engine

import (
	"log/slog"

	"github.com/pkoukk/tiktoken-go"
)

const defaultEncoding = "cl100k_base"

// TokenCounter reports the token length of a chunk. It falls back to a
// four-characters-per-token estimate when no BPE encoding is loaded.
type TokenCounter struct {
	enc *tiktoken.Tiktoken
}

// NewTokenCounter loads the cl100k_base encoding. The encoding may need to
// be downloaded on first use; failure degrades to the estimate.
func NewTokenCounter(log *slog.Logger) *TokenCounter {
	enc, err := tiktoken.GetEncoding(defaultEncoding)
	if err != nil {
		if log != nil {
			log.Warn("tiktoken encoding unavailable, estimating token counts", "encoding", defaultEncoding, "error", err)
		}
		return &TokenCounter{}
	}
	return &TokenCounter{enc: enc}
}

// NewApproxTokenCounter never touches the network.
func NewApproxTokenCounter() *TokenCounter {
	return &TokenCounter{}
}

func (t *TokenCounter) Count(text string) int {
	if t == nil || t.enc == nil {
		return approxTokens(text)
	}
	return len(t.enc.Encode(text, nil, nil))
}

// approxTokens is a rough estimate of ~4 chars per token.
func approxTokens(s string) int {
	if s == "" {
		return 0
	}
	return (len([]rune(s)) + 3) / 4
}
