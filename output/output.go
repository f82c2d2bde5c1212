// Package output writes the translated document to disk.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultPath is the output file used when none is given.
const DefaultPath = "translated.txt"

// Header describes the provenance lines written before the translation.
type Header struct {
	Source   string
	Language string
	Model    string
}

// String renders the header block, including its trailing blank line.
func (h Header) String() string {
	return fmt.Sprintf("Translated from %s\nLanguage: %s\nModel: %s\n\n", h.Source, h.Language, h.Model)
}

// Write stores the header followed by body at path. The file is written to
// a temporary sibling and renamed into place, so readers never see a
// partial document.
func Write(path string, h Header, body string) error {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if _, err := tmp.WriteString(h.String()); err != nil {
		cleanup()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if _, err := tmp.WriteString(body); err != nil {
		cleanup()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("syncing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("setting permissions on %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming into %s: %w", path, err)
	}
	return nil
}
