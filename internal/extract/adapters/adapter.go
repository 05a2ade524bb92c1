// Package adapters holds the format decoders that turn raw drawing bytes
// into text for the line classifier.
package adapters

import (
	"context"

	"github.com/ppiankov/redline/internal/model"
)

// Decoder turns raw document bytes of one format into text
type Decoder interface {
	// Name returns the decoder name recorded on the document
	Name() string

	// CanHandle checks if this decoder understands the given format
	CanHandle(format model.Format) bool

	// Decode returns the document text
	Decode(ctx context.Context, raw []byte) (string, error)
}

// Registry manages format decoders
type Registry struct {
	decoders []Decoder
	generic  Decoder
}

// NewRegistry creates a registry with the PDF and HTML decoders and the raw
// text decoder as fallback
func NewRegistry(maxPages int) *Registry {
	registry := &Registry{
		decoders: make([]Decoder, 0),
	}

	registry.Register(NewPDFDecoder(maxPages))
	registry.Register(NewHTMLDecoder())

	registry.generic = NewTextDecoder()

	return registry
}

// Register registers a new decoder
func (r *Registry) Register(decoder Decoder) {
	r.decoders = append(r.decoders, decoder)
}

// FindDecoder finds the decoder for the given format
func (r *Registry) FindDecoder(format model.Format) Decoder {
	for _, decoder := range r.decoders {
		if decoder.CanHandle(format) {
			return decoder
		}
	}

	return r.generic
}

// Fallback returns the raw text decoder
func (r *Registry) Fallback() Decoder {
	return r.generic
}
