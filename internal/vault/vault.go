// Package vault imports a directory of markdown files into a document
// store and keeps the store in step with the directory while it changes.
package vault

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/danielledeleo/wikirefs/wiki"
)

// Poster stores documents. service.DocumentService satisfies it.
type Poster interface {
	PostDocument(doc *wiki.Document) error
	DeleteDocument(filename string) error
}

// Stats counts the outcome of an import.
type Stats struct {
	Imported  int
	Unchanged int
	Skipped   int
}

// ImportDir stores every markdown file below dir.
func ImportDir(dir string, docs Poster) (Stats, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && ignored(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if isMarkdown(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return Stats{}, err
	}
	return ImportFiles(docs, paths...)
}

// ImportFiles stores the named markdown files. Files that are not markdown
// or whose name cannot be referenced are skipped with a warning.
func ImportFiles(docs Poster, paths ...string) (Stats, error) {
	var stats Stats
	for _, path := range paths {
		if !isMarkdown(path) {
			slog.Warn("skipping non-markdown file", "path", path)
			stats.Skipped++
			continue
		}

		err := importFile(docs, path)
		switch {
		case errors.Is(err, wiki.ErrNotModified):
			stats.Unchanged++
		case errors.Is(err, wiki.ErrBadFilename), errors.Is(err, wiki.ErrEmptyFilename), errors.Is(err, wiki.ErrReadOnlyDocument):
			slog.Warn("skipping file", "path", path, "error", err)
			stats.Skipped++
		case err != nil:
			return stats, err
		default:
			stats.Imported++
		}
	}
	return stats, nil
}

func importFile(docs Poster, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	doc := wiki.NewDocument(wiki.FilenameFromPath(path), string(content))
	doc.LastModified = info.ModTime().UTC()
	return docs.PostDocument(doc)
}

func isMarkdown(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".md") && !ignored(filepath.Base(path))
}

// ignored reports hidden entries and editor swap or backup files.
func ignored(name string) bool {
	return strings.HasPrefix(name, ".") ||
		strings.HasSuffix(name, "~") ||
		strings.HasSuffix(name, ".swp")
}
