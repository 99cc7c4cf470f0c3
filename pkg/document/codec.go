package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/aretw0/heddle/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Format is a document encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// FormatFromPath picks the encoding from a file extension. Anything that is not
// .json is treated as YAML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return JSON
	}
	return YAML
}

// Encode writes doc to w.
func Encode(w io.Writer, doc *domain.Document, f Format) error {
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported document format %q", f)
	}
}

// Decode reads a document from r.
func Decode(r io.Reader, f Format) (*domain.Document, error) {
	var doc domain.Document
	var err error
	switch f {
	case JSON:
		err = json.NewDecoder(r).Decode(&doc)
	case YAML:
		err = yaml.NewDecoder(r).Decode(&doc)
	default:
		return nil, fmt.Errorf("unsupported document format %q", f)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s document: %w", f, err)
	}
	if doc.Version == 0 {
		doc.Version = domain.DocumentVersion
	}
	return &doc, nil
}

// Marshal encodes doc into a byte slice.
func Marshal(doc *domain.Document, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, doc, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a document from data.
func Unmarshal(data []byte, f Format) (*domain.Document, error) {
	return Decode(bytes.NewReader(data), f)
}
