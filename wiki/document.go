package wiki

import (
	"strings"
	"time"

	"github.com/danielledeleo/wikirefs/grammar"
)

// Document is one markdown file of a vault, addressed by its filename as it
// appears inside `[[...]]`.
type Document struct {
	Filename     string    `db:"filename"`
	Markdown     string    `db:"markdown"`
	LastModified time.Time `db:"last_modified"`
	ReadOnly     bool      `db:"-"`
}

// NewDocument returns a document modified now.
func NewDocument(filename, markdown string) *Document {
	return &Document{
		Filename:     filename,
		Markdown:     markdown,
		LastModified: time.Now().UTC(),
	}
}

// Body returns the markdown without its frontmatter.
func (d *Document) Body() string {
	_, body := ParseFrontmatter(d.Markdown)
	return body
}

// Title returns the document's title for display.
// Priority: frontmatter title > inferred from filename.
func (d *Document) Title() string {
	fm, _ := ParseFrontmatter(d.Markdown)
	if fm.Title != "" {
		return fm.Title
	}
	return InferTitle(d.Filename)
}

// DocType returns the frontmatter doctype, empty when absent.
func (d *Document) DocType() string {
	fm, _ := ParseFrontmatter(d.Markdown)
	return fm.DocType
}

// DocumentSummary is a lightweight document representation for listings.
type DocumentSummary struct {
	Filename     string    `db:"filename"`
	LastModified time.Time `db:"last_modified"`
	Title        string    `db:"title"` // Cached from frontmatter, may be empty
}

// DisplayTitle returns the cached title, or one inferred from the filename.
func (s *DocumentSummary) DisplayTitle() string {
	if s.Title != "" {
		return s.Title
	}
	return InferTitle(s.Filename)
}

// InferTitle derives a title from a filename: hyphens and underscores read
// as spaces.
func InferTitle(filename string) string {
	return strings.NewReplacer("-", " ", "_", " ").Replace(filename)
}

// ValidateFilename reports whether filename can appear inside `[[...]]`.
func ValidateFilename(filename string) error {
	if strings.TrimSpace(filename) == "" {
		return ErrEmptyFilename
	}
	if strings.ContainsAny(filename, "[]|\r\n") {
		return ErrBadFilename
	}
	return nil
}

// FilenameFromPath maps a vault path like "notes/fname-a.md" to the filename
// used in references ("fname-a"). Media files keep their extension.
func FilenameFromPath(path string) string {
	name := path
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	if grammar.IsMedia(name) {
		return name
	}
	return strings.TrimSuffix(name, ".md")
}
