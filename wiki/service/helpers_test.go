package service_test

import (
	"testing"

	"github.com/danielledeleo/wikirefs/internal/embedded"
	"github.com/danielledeleo/wikirefs/internal/storage"
	"github.com/danielledeleo/wikirefs/testutil"
	"github.com/danielledeleo/wikirefs/wiki"
	"github.com/danielledeleo/wikirefs/wiki/service"
)

// newDocumentService returns a service over a migrated in-memory database.
func newDocumentService(t *testing.T) service.DocumentService {
	t.Helper()

	store, err := storage.Init(testutil.SetupTestDB(t))
	if err != nil {
		t.Fatalf("storage.Init failed: %v", err)
	}
	return service.NewDocumentService(store)
}

// newVaultService returns a database-backed service that also serves the
// embedded sample vault.
func newVaultService(t *testing.T) service.DocumentService {
	t.Helper()

	ed, err := embedded.New()
	if err != nil {
		t.Fatalf("embedded.New failed: %v", err)
	}
	return service.NewEmbeddedDocumentService(newDocumentService(t), ed)
}

func post(t *testing.T, docs service.DocumentService, filename, markdown string) {
	t.Helper()
	if err := docs.PostDocument(wiki.NewDocument(filename, markdown)); err != nil {
		t.Fatalf("PostDocument(%q) failed: %v", filename, err)
	}
}
