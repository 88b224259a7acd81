package ingestion_engine

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/documind/internal/core"
	"github.com/markdave123-py/documind/internal/testutil"
)

func TestExtractText_PDFPagesInOrder(t *testing.T) {
	data := testutil.BuildPDF(
		[]string{"Hello World", "Second row"},
		[]string{"Page two"},
	)

	text, err := NewTextExtractor().ExtractText(context.Background(), data, mimePDF)
	require.NoError(t, err)
	assert.Equal(t, "Hello World\nSecond row\n\nPage two\n\n", text)
}

func TestExtractText_PDFWithoutTextLayer(t *testing.T) {
	ex := NewTextExtractor()

	_, err := ex.ExtractText(context.Background(), testutil.BuildPDF([]string{}), mimePDF)
	assert.ErrorIs(t, err, core.ErrNoTextLayer)

	_, err = ex.ExtractText(context.Background(), testutil.BuildPDF(), mimePDF)
	assert.ErrorIs(t, err, core.ErrNoTextLayer)
}

func TestExtractText_MalformedPDF(t *testing.T) {
	ex := NewTextExtractor()

	_, err := ex.ExtractText(context.Background(), []byte("definitely not a pdf"), mimePDF)
	assert.ErrorIs(t, err, core.ErrParse)

	garbage := "%PDF-1.4\n" + strings.Repeat("garbage ", 40)
	_, err = ex.ExtractText(context.Background(), []byte(garbage), mimePDF)
	assert.ErrorIs(t, err, core.ErrParse)
	assert.NotErrorIs(t, err, core.ErrNoTextLayer)
}

func TestExtractText_PlainText(t *testing.T) {
	ex := NewTextExtractor()

	text, err := ex.ExtractText(context.Background(), []byte("plain notes\n"), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "plain notes\n", text)

	_, err = ex.ExtractText(context.Background(), []byte("  \n\t"), "text/plain")
	assert.ErrorIs(t, err, core.ErrNoTextLayer)

	_, err = ex.ExtractText(context.Background(), []byte{0xff, 0xfe, 0xfd}, "text/plain")
	assert.ErrorIs(t, err, core.ErrParse)
}

func TestExtractText_HTML(t *testing.T) {
	page := []byte("<html><body><h1>Quarterly report</h1><p>Revenue grew by ten percent.</p></body></html>")

	text, err := NewTextExtractor().ExtractText(context.Background(), page, "text/html")
	require.NoError(t, err)
	assert.Contains(t, text, "Revenue grew by ten percent.")
	assert.NotContains(t, text, "<p>")
}

func TestNewTextExtractor_Readability(t *testing.T) {
	assert.False(t, NewTextExtractor().readability)
	assert.True(t, NewTextExtractor(WithReadability(true)).readability)
}

func TestExtractText_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewTextExtractor().ExtractText(ctx, testutil.BuildPDF([]string{"x"}), mimePDF)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolveContentType(t *testing.T) {
	pdf := testutil.BuildPDF([]string{"x"})

	tests := []struct {
		name     string
		filename string
		declared string
		data     []byte
		want     string
	}{
		{"magic bytes win", "scan.bin", "application/octet-stream", pdf, mimePDF},
		{"declared type", "notes", "text/plain; charset=utf-8", []byte("hi"), "text/plain"},
		{"pdf extension", "report.PDF", "", []byte("x"), mimePDF},
		{"markdown extension", "README.md", "application/octet-stream", []byte("# hi"), "text/markdown"},
		{"docx extension", "memo.docx", "", []byte("PK"), "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveContentType(tt.filename, tt.declared, tt.data))
		})
	}
}
