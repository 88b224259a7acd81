package ingestion_engine

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"code.sajari.com/docconv"
	"github.com/ledongthuc/pdf"

	"github.com/markdave123-py/documind/internal/core"
)

const mimePDF = "application/pdf"

// TextExtractor turns uploaded bytes into plain text. PDFs are walked page
// by page in Go; other office formats go through docconv.
type TextExtractor struct {
	readability bool
}

var _ core.DocumentExtractor = (*TextExtractor)(nil)

type ExtractorOption func(*TextExtractor)

// WithReadability strips boilerplate such as navigation and footers from
// HTML before converting it to text.
func WithReadability(on bool) ExtractorOption {
	return func(e *TextExtractor) { e.readability = on }
}

func NewTextExtractor(opts ...ExtractorOption) *TextExtractor {
	e := &TextExtractor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *TextExtractor) ExtractText(ctx context.Context, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	switch contentType {
	case mimePDF:
		return extractPDF(data)
	case "text/plain", "text/markdown":
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%w: text is not valid UTF-8", core.ErrParse)
		}
		if strings.TrimSpace(string(data)) == "" {
			return "", core.ErrNoTextLayer
		}
		return string(data), nil
	}

	res, err := docconv.Convert(bytes.NewReader(data), contentType, e.readability)
	if err != nil {
		return "", fmt.Errorf("%w: docconv %s: %w", core.ErrParse, contentType, err)
	}
	if strings.TrimSpace(res.Body) == "" {
		return "", core.ErrNoTextLayer
	}
	return res.Body, nil
}

// extractPDF reads every page in order. Each text run is followed by a
// space, each row by a newline and each page by a blank line.
func extractPDF(data []byte) (text string, err error) {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return "", fmt.Errorf("%w: missing %%PDF header", core.ErrParse)
	}
	defer func() {
		// the reader panics on some malformed object graphs
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("%w: %v", core.ErrParse, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %w", core.ErrParse, err)
	}

	pages := r.NumPage()
	if pages == 0 {
		return "", core.ErrNoTextLayer
	}

	var sb strings.Builder
	for i := 1; i <= pages; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		rows, err := p.GetTextByRow()
		if err != nil {
			return "", fmt.Errorf("%w: page %d: %w", core.ErrParse, i, err)
		}
		for _, row := range rows {
			var line strings.Builder
			for _, run := range row.Content {
				if run.S == "" {
					continue
				}
				line.WriteString(run.S)
				line.WriteByte(' ')
			}
			if l := strings.TrimRight(line.String(), " "); l != "" {
				sb.WriteString(l)
				sb.WriteByte('\n')
			}
		}
		sb.WriteByte('\n')
	}

	if strings.TrimSpace(sb.String()) == "" {
		return "", core.ErrNoTextLayer
	}
	return sb.String(), nil
}

// ResolveContentType prefers the PDF magic bytes, then a specific declared
// type, then the file extension.
func ResolveContentType(filename, declared string, data []byte) string {
	if bytes.HasPrefix(data, []byte("%PDF-")) {
		return mimePDF
	}
	if mt, _, err := mime.ParseMediaType(declared); err == nil && mt != "" && mt != "application/octet-stream" {
		return mt
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return mimePDF
	case ".txt":
		return "text/plain"
	case ".md":
		return "text/markdown"
	}
	if mt := docconv.MimeTypeByExtension(filename); mt != "application/octet-stream" {
		return mt
	}
	mt, _, _ := mime.ParseMediaType(http.DetectContentType(data))
	return mt
}
