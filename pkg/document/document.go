package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Document Serialization API
// =============================================================================

// Marshal converts a document to indented JSON bytes.
func Marshal(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(doc, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes JSON bytes into a document.
func Unmarshal(data []byte) (Document, error) {
	return Read(bytes.NewReader(data))
}

// Write writes a document as JSON to an io.Writer.
func Write(doc Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Read decodes a JSON document from an io.Reader.
func Read(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("decode: %w", err)
	}
	return doc, nil
}

// WriteFile writes a document to a JSON file.
// The file is created with 0644 permissions.
func WriteFile(doc Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(doc, f)
}

// ReadFile reads a JSON document file.
func ReadFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}
