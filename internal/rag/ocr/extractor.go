package ocr

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Page is one extracted page of markdown-ish text. Visual content handling
// (tables, figures) is the extractor's problem - downstream stages only ever
// see enriched text.
type Page struct {
	Number  int
	Content string
}

// Extractor is the black-box text extractor boundary. The vendor call (or the
// local parser fallback) lives behind it.
type Extractor interface {
	ExtractPages(ctx context.Context, path string) ([]Page, error)
}

type DocType string

const (
	PDF  DocType = "PDF"
	DOCX DocType = "DOCX"
	ERR  DocType = "ERROR"
)

func GetDocType(docPath string) DocType {
	ext := strings.ToLower(filepath.Ext(docPath))
	switch ext {
	case ".pdf":
		return PDF
	case ".docx", ".txt", ".rtf":
		return DOCX
	default:
		return ERR
	}
}

type localExtractor struct{}

// NewLocalExtractor parses PDFs and office documents locally. It stands in
// for a vendor OCR service and honors the same contract.
func NewLocalExtractor() Extractor {
	return &localExtractor{}
}

func (e *localExtractor) ExtractPages(ctx context.Context, path string) ([]Page, error) {
	switch GetDocType(path) {
	case PDF:
		return extractPDF(ctx, path)
	case DOCX:
		return extractDocxTxtRtf(path)
	default:
		return nil, fmt.Errorf("unsupported content type: %s", filepath.Ext(path))
	}
}
