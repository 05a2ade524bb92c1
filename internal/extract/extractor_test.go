package extract

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ppiankov/redline/internal/model"
)

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestExtract_LocalText(t *testing.T) {
	path := writeFile(t, "before.txt", []byte("Missing dimension D\ncheck this area"))

	extractor := NewExtractor(model.ExtractConfig{MaxBytes: 1 << 20}, nil, nil)
	doc, err := extractor.Extract(context.Background(), path, "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if doc.Name != "before.txt" {
		t.Errorf("Expected name before.txt, got %s", doc.Name)
	}
	if doc.Text != "Missing dimension D\ncheck this area" {
		t.Errorf("Unexpected text: %q", doc.Text)
	}
	if doc.Format != model.FormatText {
		t.Errorf("Expected text format, got %s", doc.Format)
	}
	if doc.Decoder != "raw" {
		t.Errorf("Expected raw decoder, got %s", doc.Decoder)
	}
	if doc.Hash != Hash([]byte("Missing dimension D\ncheck this area")) {
		t.Errorf("Unexpected hash: %s", doc.Hash)
	}
}

func TestExtract_MissingFileIsEmptyDocument(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	extractor := NewExtractor(model.ExtractConfig{}, nil, zap.New(core))

	doc, err := extractor.Extract(context.Background(), filepath.Join(t.TempDir(), "nope.pdf"), "after")
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
	if doc == nil {
		t.Fatal("Expected empty document, got nil")
	}
	if !doc.Empty() || doc.Text != "" {
		t.Errorf("Expected empty document, got %d bytes", doc.Size())
	}
	if doc.Hash != Hash(nil) {
		t.Errorf("Expected hash of empty input, got %s", doc.Hash)
	}
	if logs.FilterMessage("extraction failed").Len() != 1 {
		t.Errorf("Expected one extraction warning, got %d", logs.Len())
	}
}

func TestExtract_MaxBytes(t *testing.T) {
	path := writeFile(t, "big.txt", []byte(strings.Repeat("a", 100)))

	extractor := NewExtractor(model.ExtractConfig{MaxBytes: 10}, nil, nil)
	doc, err := extractor.Extract(context.Background(), path, "")
	if err == nil {
		t.Fatal("Expected error for oversized document")
	}
	if !doc.Empty() {
		t.Error("Expected empty document")
	}
}

func TestExtract_RemoteWithoutFetcher(t *testing.T) {
	extractor := NewExtractor(model.ExtractConfig{}, nil, nil)
	if _, err := extractor.Extract(context.Background(), "https://example.com/a.pdf", ""); err == nil {
		t.Fatal("Expected error when fetching is disabled")
	}
}

func TestExtract_Remote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, "D = 150mm ✓ done")
	}))
	defer server.Close()

	extractor := NewExtractor(model.ExtractConfig{}, NewFetcher(testHTTPConfig()), nil)
	doc, err := extractor.Extract(context.Background(), server.URL+"/sheets/A-101.txt", "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if doc.Name != "A-101.txt" {
		t.Errorf("Expected name A-101.txt, got %s", doc.Name)
	}
	if doc.Text != "D = 150mm ✓ done" {
		t.Errorf("Unexpected text: %q", doc.Text)
	}
}

func TestDecode_AutoModeHTML(t *testing.T) {
	raw := []byte("<!DOCTYPE html><html><body><p>fix beam</p><p>TYP</p></body></html>")

	auto := NewExtractor(model.ExtractConfig{Mode: model.ExtractModeAuto}, nil, nil)
	doc := auto.Decode(context.Background(), "a", "a.html", raw)
	if doc.Format != model.FormatHTML || doc.Decoder != "html" {
		t.Errorf("Expected html/html, got %s/%s", doc.Format, doc.Decoder)
	}
	if doc.Text != "fix beam\nTYP" {
		t.Errorf("Unexpected text: %q", doc.Text)
	}

	raw2 := NewExtractor(model.ExtractConfig{}, nil, nil).Decode(context.Background(), "a", "a.html", raw)
	if raw2.Decoder != "raw" || raw2.Text != string(raw) {
		t.Errorf("Expected raw mode to keep markup, got %s %q", raw2.Decoder, raw2.Text)
	}
}

func TestDecode_AutoModeBrokenPDFFallsBack(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	extractor := NewExtractor(model.ExtractConfig{Mode: model.ExtractModeAuto}, nil, zap.New(core))

	raw := []byte("%PDF-1.7\nfix the beam\n")
	doc := extractor.Decode(context.Background(), "a", "a.pdf", raw)

	if doc.Format != model.FormatPDF {
		t.Errorf("Expected pdf format, got %s", doc.Format)
	}
	if doc.Decoder != "raw" {
		t.Errorf("Expected raw fallback, got %s", doc.Decoder)
	}
	if !strings.Contains(doc.Text, "fix the beam") {
		t.Errorf("Expected raw text to survive, got %q", doc.Text)
	}
	if logs.FilterMessage("decoder failed, falling back to raw text").Len() != 1 {
		t.Error("Expected a decoder fallback warning")
	}
}

func TestHash_Deterministic(t *testing.T) {
	if Hash([]byte("a")) != Hash([]byte("a")) {
		t.Error("Expected equal hashes for equal input")
	}
	if Hash([]byte("a")) == Hash([]byte("b")) {
		t.Error("Expected different hashes for different input")
	}
	if Hash(nil) != "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855" {
		t.Errorf("Unexpected empty hash: %s", Hash(nil))
	}
}

func TestIsRemote(t *testing.T) {
	if !IsRemote("HTTPS://example.com/a.pdf") {
		t.Error("Expected https URL to be remote")
	}
	if IsRemote("/tmp/http-drawing.pdf") {
		t.Error("Expected local path to not be remote")
	}
}
