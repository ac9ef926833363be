package store

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

// document is a markdown file with an optional YAML frontmatter block.
type document struct {
	meta map[string]any
	body string
}

func readDocument(path string) (*document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	meta := make(map[string]any)
	body, err := frontmatter.Parse(bytes.NewReader(data), &meta)
	if err != nil {
		slog.Debug("state file has no frontmatter", "path", path, "error", err)
		return &document{meta: make(map[string]any), body: string(data)}, nil
	}
	return &document{meta: meta, body: string(body)}, nil
}

func writeDocument(path string, doc *document) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}

	var buf bytes.Buffer
	if len(doc.meta) > 0 {
		fm, err := yaml.Marshal(doc.meta)
		if err != nil {
			return fmt.Errorf("marshaling frontmatter: %w", err)
		}
		buf.WriteString("---\n")
		buf.Write(fm)
		buf.WriteString("---\n\n")
	}
	buf.WriteString(doc.body)

	return atomicWriteFile(path, buf.Bytes(), 0o600)
}

// atomicWriteFile writes to a sibling temp file and renames it into place.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
