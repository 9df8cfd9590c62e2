// Package embedded ships a small read-only sample vault. It backs the demo
// mode of the CLI and serves as fixtures for tests.
package embedded

import (
	"embed"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/danielledeleo/wikirefs/wiki"
)

//go:embed vault/*.md
var vaultFS embed.FS

// EmbeddedDocuments holds the sample vault documents.
type EmbeddedDocuments struct {
	docs map[string]*wiki.Document
}

// New loads every markdown file of the embedded vault.
func New() (*EmbeddedDocuments, error) {
	return load(vaultFS, "vault")
}

func load(fsys fs.FS, dir string) (*EmbeddedDocuments, error) {
	ed := &EmbeddedDocuments{
		docs: make(map[string]*wiki.Document),
	}

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}

		content, err := fs.ReadFile(fsys, dir+"/"+entry.Name())
		if err != nil {
			return nil, err
		}

		// "wikirefs-syntax.md" -> "wikirefs-syntax"
		filename := wiki.FilenameFromPath(entry.Name())
		ed.docs[filename] = &wiki.Document{
			Filename:     filename,
			Markdown:     string(content),
			LastModified: time.Time{},
			ReadOnly:     true,
		}
	}

	return ed, nil
}

// Get returns an embedded document by filename, or nil if not found.
func (ed *EmbeddedDocuments) Get(filename string) *wiki.Document {
	return ed.docs[filename]
}

// Contains reports whether filename names an embedded document.
func (ed *EmbeddedDocuments) Contains(filename string) bool {
	_, ok := ed.docs[filename]
	return ok
}

// List returns all embedded filenames, sorted.
func (ed *EmbeddedDocuments) List() []string {
	filenames := make([]string, 0, len(ed.docs))
	for filename := range ed.docs {
		filenames = append(filenames, filename)
	}
	sort.Strings(filenames)
	return filenames
}

// Documents returns every embedded document, sorted by filename.
func (ed *EmbeddedDocuments) Documents() []*wiki.Document {
	docs := make([]*wiki.Document, 0, len(ed.docs))
	for _, filename := range ed.List() {
		docs = append(docs, ed.docs[filename])
	}
	return docs
}
