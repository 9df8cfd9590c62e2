// Package testutil provides fixtures and assertions shared by the tests of
// wikirefs packages.
package testutil

import (
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/danielledeleo/wikirefs/extensions"
	"github.com/danielledeleo/wikirefs/internal/storage"
	"github.com/danielledeleo/wikirefs/wiki"
)

// FixtureFile is one file of the test vault.
type FixtureFile struct {
	Filename string
	Title    string
	Href     string
	Content  string
}

// Fixtures is the test vault. Resolvers built by FixtureOptions resolve
// exactly these filenames.
var Fixtures = []FixtureFile{
	{Filename: "fname-a", Title: "Title A", Href: "/tests/fixtures/fname-a", Content: "Content A."},
	{Filename: "fname-b", Title: "Title B", Href: "/tests/fixtures/fname-b", Content: "Content B links to [[fname-c]]."},
	{Filename: "fname-c", Title: "Title C", Href: "/tests/fixtures/fname-c", Content: "attrtype::[[fname-a]]\n"},
	{Filename: "embed-doc", Title: "Embed Doc", Href: "/tests/fixtures/embed-doc", Content: "Embedded ![[embed-doc]]"},
	{Filename: "empty-doc", Title: "Empty Doc", Href: "/tests/fixtures/empty-doc", Content: ""},
	{Filename: "audio.mp3", Href: "/tests/fixtures/audio.mp3"},
	{Filename: "image.png", Href: "/tests/fixtures/image.png"},
	{Filename: "video.mp4", Href: "/tests/fixtures/video.mp4"},
}

// Fixture returns the fixture named filename.
func Fixture(filename string) (FixtureFile, bool) {
	for _, f := range Fixtures {
		if f.Filename == filename {
			return f, true
		}
	}
	return FixtureFile{}, false
}

// FixtureOptions resolves link text to the lower-cased fixture title and
// hrefs to the fixture href. Unknown filenames do not resolve.
func FixtureOptions() []extensions.Option {
	return []extensions.Option{
		extensions.WithHTMLTextResolver(func(_ *extensions.Env, filename string) (string, bool) {
			f, ok := Fixture(filename)
			if !ok || f.Title == "" {
				return "", false
			}
			return strings.ToLower(f.Title), true
		}),
		extensions.WithHTMLHrefResolver(func(_ *extensions.Env, filename string) (string, bool) {
			f, ok := Fixture(filename)
			if !ok {
				return "", false
			}
			return f.Href, true
		}),
	}
}

// FixtureStore holds the markdown fixtures as documents, titled through
// frontmatter.
func FixtureStore() *wiki.MemoryStore {
	var docs []*wiki.Document
	for _, f := range Fixtures {
		if f.Title == "" {
			continue
		}
		md := "---\ntitle: " + f.Title + "\n---\n" + f.Content
		docs = append(docs, wiki.NewDocument(f.Filename, md))
	}
	return wiki.NewMemoryStore(docs...)
}

// AssertHTML fails t with a character diff when got differs from want.
func AssertHTML(t testing.TB, got, want string) {
	t.Helper()
	if got == want {
		return
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(want, got, false)
	t.Errorf("HTML mismatch (-want +got):\n%s\n\ngot:\n%s", dmp.DiffPrettyText(diffs), got)
}

// SetupTestDB opens a migrated in-memory database closed at test cleanup.
func SetupTestDB(t testing.TB) *sqlx.DB {
	t.Helper()

	db, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := storage.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return db
}
