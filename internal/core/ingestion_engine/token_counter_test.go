package ingestion_engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApproxTokens(t *testing.T) {
	assert.Equal(t, 0, approxTokens(""))
	assert.Equal(t, 1, approxTokens("abcd"))
	assert.Equal(t, 2, approxTokens("abcde"))
	assert.Equal(t, 1, approxTokens("日本語"))
}

func TestTokenCounter_FallsBackWithoutEncoding(t *testing.T) {
	assert.Equal(t, 3, NewApproxTokenCounter().Count("twelve chars"))

	var nilCounter *TokenCounter
	assert.Equal(t, 3, nilCounter.Count("twelve chars"))
}
