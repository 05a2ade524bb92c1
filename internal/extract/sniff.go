package extract

import (
	"bytes"
	"unicode/utf8"

	"github.com/h2non/filetype"
	"github.com/ppiankov/redline/internal/model"
)

const sniffLen = 512

// DetectFormat guesses the container format from the leading bytes
func DetectFormat(raw []byte) model.Format {
	if len(raw) == 0 {
		return model.FormatUnknown
	}

	head := raw
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}

	if bytes.HasPrefix(head, []byte("%PDF-")) {
		return model.FormatPDF
	}

	if kind, err := filetype.Match(head); err == nil && kind != filetype.Unknown {
		if kind.Extension == "pdf" {
			return model.FormatPDF
		}
		return model.FormatBinary
	}

	if looksHTML(head) {
		return model.FormatHTML
	}

	if isText(head) {
		return model.FormatText
	}

	return model.FormatBinary
}

func looksHTML(head []byte) bool {
	lower := bytes.ToLower(bytes.TrimSpace(bytes.TrimPrefix(head, []byte("\xef\xbb\xbf"))))
	return bytes.HasPrefix(lower, []byte("<!doctype html")) ||
		bytes.HasPrefix(lower, []byte("<html")) ||
		(bytes.HasPrefix(lower, []byte("<?xml")) && bytes.Contains(lower, []byte("<html")))
}

// isText treats the head as text when it has no NUL bytes and is mostly
// valid UTF-8. The last rune may be cut by the sniff window.
func isText(head []byte) bool {
	if bytes.IndexByte(head, 0) >= 0 {
		return false
	}

	invalid := 0
	for i := 0; i < len(head); {
		r, size := utf8.DecodeRune(head[i:])
		if r == utf8.RuneError && size == 1 && len(head)-i >= utf8.UTFMax {
			invalid++
		}
		i += size
	}

	return invalid*10 < len(head)
}
