package adapters

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/ppiankov/redline/internal/model"
)

// PDFDecoder extracts page text row by row
type PDFDecoder struct {
	maxPages int
}

// NewPDFDecoder creates a PDF decoder that reads at most maxPages pages
// (0 means all pages)
func NewPDFDecoder(maxPages int) *PDFDecoder {
	return &PDFDecoder{maxPages: maxPages}
}

// Name returns the decoder name
func (d *PDFDecoder) Name() string {
	return "pdf"
}

// CanHandle reports whether format is PDF
func (d *PDFDecoder) CanHandle(format model.Format) bool {
	return format == model.FormatPDF
}

// Decode extracts text from every page up to the page cap. The pdf library
// panics on some malformed files, which is reported as an error.
func (d *PDFDecoder) Decode(ctx context.Context, raw []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("pdf: malformed document: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("pdf: open: %w", err)
	}

	pages := reader.NumPage()
	if d.maxPages > 0 && pages > d.maxPages {
		pages = d.maxPages
	}

	var buf strings.Builder
	for i := 1; i <= pages; i++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		buf.WriteString(pageText(page))
	}

	return buf.String(), nil
}

func pageText(page pdf.Page) string {
	rows, err := page.GetTextByRow()
	if err != nil || len(rows) == 0 {
		plain, err := page.GetPlainText(nil)
		if err != nil {
			return ""
		}
		if !strings.HasSuffix(plain, "\n") {
			plain += "\n"
		}
		return plain
	}

	var buf strings.Builder
	for _, row := range rows {
		for _, word := range row.Content {
			buf.WriteString(word.S)
		}
		buf.WriteString("\n")
	}
	return buf.String()
}
