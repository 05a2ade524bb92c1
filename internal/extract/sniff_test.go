package extract

import (
	"testing"

	"github.com/ppiankov/redline/internal/model"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		want model.Format
	}{
		{"empty", nil, model.FormatUnknown},
		{"pdf", []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n"), model.FormatPDF},
		{"html doctype", []byte("  <!DOCTYPE html><html></html>"), model.FormatHTML},
		{"html tag", []byte("<HTML><body>x</body></HTML>"), model.FormatHTML},
		{"text", []byte("GENERAL NOTES\nfix beam"), model.FormatText},
		{"utf8 text", []byte("Ø12 ✓ done"), model.FormatText},
		{"png", []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), model.FormatBinary},
		{"nul bytes", []byte("ab\x00cd"), model.FormatBinary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFormat(tt.raw); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}
