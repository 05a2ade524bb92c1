package adapters

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/redline/internal/model"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLDecoder extracts visible text, one line per block element
type HTMLDecoder struct{}

// NewHTMLDecoder creates an HTML decoder
func NewHTMLDecoder() *HTMLDecoder {
	return &HTMLDecoder{}
}

// Name returns the decoder name
func (d *HTMLDecoder) Name() string {
	return "html"
}

// CanHandle reports whether format is HTML
func (d *HTMLDecoder) CanHandle(format model.Format) bool {
	return format == model.FormatHTML
}

// Decode parses the document and returns its visible text
func (d *HTMLDecoder) Decode(ctx context.Context, raw []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("html: parse: %w", err)
	}

	var buf strings.Builder
	walkText(doc, &buf)

	lines := strings.Split(buf.String(), "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			kept = append(kept, line)
		}
	}

	return strings.Join(kept, "\n"), nil
}

var skippedElements = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Head:     true,
}

var blockElements = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Li: true, atom.Tr: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Table: true, atom.Section: true, atom.Article: true, atom.Pre: true,
	atom.Td: true, atom.Th: true, atom.Caption: true, atom.Figcaption: true,
}

func walkText(n *html.Node, buf *strings.Builder) {
	if n.Type == html.ElementNode && skippedElements[n.DataAtom] {
		return
	}

	if n.Type == html.TextNode {
		buf.WriteString(n.Data)
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkText(c, buf)
	}

	if n.Type == html.ElementNode && blockElements[n.DataAtom] {
		buf.WriteString("\n")
	}
}
