package model

// Format is the detected container format of a document
type Format string

const (
	FormatUnknown Format = "unknown"
	FormatText    Format = "text"
	FormatPDF     Format = "pdf"
	FormatHTML    Format = "html"
	FormatBinary  Format = "binary"
)

// Document is a raw document plus its best-effort decoded text.
// Raw is only needed until Hash has been computed.
type Document struct {
	Name    string `json:"name"`              // Display name, labelling only
	Source  string `json:"source"`            // Path or URL it was read from
	Format  Format `json:"format"`            // Detected format
	Decoder string `json:"decoder,omitempty"` // Decoder that produced Text
	Text    string `json:"-"`
	Raw     []byte `json:"-"`
	Hash    string `json:"hash"` // Hex SHA-256 of Raw
}

// Size returns the raw byte length
func (d *Document) Size() int {
	if d == nil {
		return 0
	}
	return len(d.Raw)
}

// Empty reports whether the document carries no bytes
func (d *Document) Empty() bool {
	return d == nil || len(d.Raw) == 0
}
