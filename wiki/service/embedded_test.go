package service_test

import (
	"errors"
	"testing"

	"github.com/danielledeleo/wikirefs/wiki"
)

func TestEmbeddedDocumentService(t *testing.T) {
	docs := newVaultService(t)

	doc, err := docs.GetDocument("wikirefs-index")
	if err != nil {
		t.Fatalf("GetDocument failed: %v", err)
	}
	if !doc.ReadOnly {
		t.Error("expected the embedded document to be read-only")
	}

	if err := docs.PostDocument(wiki.NewDocument("wikirefs-index", "x")); !errors.Is(err, wiki.ErrReadOnlyDocument) {
		t.Errorf("expected ErrReadOnlyDocument on post, got %v", err)
	}
	if err := docs.DeleteDocument("wikirefs-syntax"); !errors.Is(err, wiki.ErrReadOnlyDocument) {
		t.Errorf("expected ErrReadOnlyDocument on delete, got %v", err)
	}

	// The listing works with an empty database.
	summaries, err := docs.GetAllDocuments()
	if err != nil {
		t.Fatalf("GetAllDocuments failed: %v", err)
	}
	if len(summaries) != 3 {
		t.Fatalf("expected the 3 sample documents, got %d", len(summaries))
	}

	post(t, docs, "aardvark", "First.")
	summaries, err = docs.GetAllDocuments()
	if err != nil {
		t.Fatalf("GetAllDocuments failed: %v", err)
	}
	want := []string{"aardvark", "wikirefs-embeds", "wikirefs-index", "wikirefs-syntax"}
	if len(summaries) != len(want) {
		t.Fatalf("got %d summaries, want %d", len(summaries), len(want))
	}
	for i, s := range summaries {
		if s.Filename != want[i] {
			t.Errorf("summary %d = %q, want %q", i, s.Filename, want[i])
		}
	}
	if summaries[2].Title != "Wikirefs" {
		t.Errorf("expected frontmatter title for the index, got %q", summaries[2].Title)
	}
}
