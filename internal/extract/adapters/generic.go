package adapters

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/redline/internal/model"
	"golang.org/x/text/encoding/charmap"
)

// TextDecoder decodes the byte stream as text, dropping what it cannot read.
// It never fails.
type TextDecoder struct{}

// NewTextDecoder creates the raw text decoder
func NewTextDecoder() *TextDecoder {
	return &TextDecoder{}
}

// Name returns the decoder name
func (d *TextDecoder) Name() string {
	return "raw"
}

// CanHandle always returns true (fallback decoder)
func (d *TextDecoder) CanHandle(format model.Format) bool {
	return true
}

// Decode returns DecodeRaw(raw)
func (d *TextDecoder) Decode(ctx context.Context, raw []byte) (string, error) {
	return DecodeRaw(raw), nil
}

// DecodeRaw decodes bytes as UTF-8. Invalid sequences are dropped, except
// when the buffer reads as single-byte text with no multi-byte UTF-8 in it,
// which is decoded as ISO-8859-1.
func DecodeRaw(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}

	if !hasMultiByteUTF8(raw) && looksSingleByteText(raw) {
		if decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw); err == nil {
			return string(decoded)
		}
	}

	return strings.ToValidUTF8(string(raw), "")
}

// hasMultiByteUTF8 reports whether raw contains at least one well-formed
// multi-byte UTF-8 sequence
func hasMultiByteUTF8(raw []byte) bool {
	for len(raw) > 0 {
		_, size := utf8.DecodeRune(raw)
		if size > 1 {
			return true
		}
		raw = raw[size:]
	}
	return false
}

// looksSingleByteText reports whether raw holds no control bytes besides
// common whitespace
func looksSingleByteText(raw []byte) bool {
	for _, b := range raw {
		if b < 0x20 && b != '\t' && b != '\n' && b != '\r' && b != '\f' {
			return false
		}
		if b == 0x7f {
			return false
		}
	}
	return true
}
