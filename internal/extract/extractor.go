// Package extract reads drawing documents and decodes them into text.
//
// Decoding is lossy on purpose: the classifier only needs whatever text can
// be recovered, and an unreadable document is treated as empty rather than
// as an error by the comparison.
package extract

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/redline/internal/extract/adapters"
	"github.com/ppiankov/redline/internal/model"
)

// Extractor turns a document reference into a model.Document
type Extractor struct {
	cfg      model.ExtractConfig
	registry *adapters.Registry
	fetcher  *Fetcher
	logger   *zap.Logger
}

// NewExtractor creates an extractor. fetcher may be nil, in which case
// remote references fail. logger may be nil.
func NewExtractor(cfg model.ExtractConfig, fetcher *Fetcher, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Mode == "" {
		cfg.Mode = model.ExtractModeRaw
	}

	return &Extractor{
		cfg:      cfg,
		registry: adapters.NewRegistry(cfg.MaxPages),
		fetcher:  fetcher,
		logger:   logger,
	}
}

// Extract reads source (a local path or http(s) URL) and decodes it.
// On failure it returns an empty document together with the error.
func (e *Extractor) Extract(ctx context.Context, source, name string) (*model.Document, error) {
	if name == "" {
		name = displayName(source)
	}

	raw, err := e.read(ctx, source)
	if err != nil {
		e.logger.Warn("extraction failed",
			zap.String("source", source),
			zap.Error(err))
		return EmptyDocument(name, source), err
	}

	return e.Decode(ctx, name, source, raw), nil
}

// Decode builds a document from bytes already in memory. It never fails.
func (e *Extractor) Decode(ctx context.Context, name, source string, raw []byte) *model.Document {
	doc := &model.Document{
		Name:   name,
		Source: source,
		Format: DetectFormat(raw),
		Raw:    raw,
		Hash:   Hash(raw),
	}

	decoder := e.registry.Fallback()
	if e.cfg.Mode == model.ExtractModeAuto {
		decoder = e.registry.FindDecoder(doc.Format)
	}

	text, err := decoder.Decode(ctx, raw)
	if err != nil {
		e.logger.Warn("decoder failed, falling back to raw text",
			zap.String("source", source),
			zap.String("decoder", decoder.Name()),
			zap.Error(err))
		decoder = e.registry.Fallback()
		text, _ = decoder.Decode(ctx, raw)
	}

	doc.Text = text
	doc.Decoder = decoder.Name()

	e.logger.Debug("document decoded",
		zap.String("source", source),
		zap.String("format", string(doc.Format)),
		zap.String("decoder", doc.Decoder),
		zap.Int("bytes", len(raw)),
		zap.String("hash", doc.Hash))

	return doc
}

func (e *Extractor) read(ctx context.Context, source string) ([]byte, error) {
	if IsRemote(source) {
		if e.fetcher == nil {
			return nil, fmt.Errorf("remote documents are not enabled: %s", source)
		}
		result, err := e.fetcher.FetchWithRetry(ctx, source)
		if err != nil {
			return nil, err
		}
		return result.Body, nil
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	return readLimited(f, e.cfg.MaxBytes)
}

// IsRemote reports whether source is an http(s) URL
func IsRemote(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Hash returns the hex SHA-256 of raw
func Hash(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// EmptyDocument is the document substituted for one that could not be read
func EmptyDocument(name, source string) *model.Document {
	return &model.Document{
		Name:   name,
		Source: source,
		Format: model.FormatUnknown,
		Raw:    []byte{},
		Hash:   Hash(nil),
	}
}

func displayName(source string) string {
	if IsRemote(source) {
		trimmed := strings.TrimRight(source, "/")
		if idx := strings.LastIndex(trimmed, "/"); idx >= 0 && idx < len(trimmed)-1 {
			return trimmed[idx+1:]
		}
		return source
	}
	return filepath.Base(source)
}
