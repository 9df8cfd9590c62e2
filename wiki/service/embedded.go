package service

import (
	"errors"
	"sort"

	"github.com/danielledeleo/wikirefs/internal/embedded"
	"github.com/danielledeleo/wikirefs/wiki"
)

// embeddedDocumentService wraps a DocumentService to intercept embedded documents.
type embeddedDocumentService struct {
	base     DocumentService
	embedded *embedded.EmbeddedDocuments
}

// NewEmbeddedDocumentService creates a decorator that serves the embedded
// sample vault while delegating other requests to the base service.
func NewEmbeddedDocumentService(base DocumentService, ed *embedded.EmbeddedDocuments) DocumentService {
	return &embeddedDocumentService{
		base:     base,
		embedded: ed,
	}
}

func (s *embeddedDocumentService) GetDocument(filename string) (*wiki.Document, error) {
	if doc := s.embedded.Get(filename); doc != nil {
		return doc, nil
	}
	return s.base.GetDocument(filename)
}

func (s *embeddedDocumentService) PostDocument(doc *wiki.Document) error {
	if s.embedded.Contains(doc.Filename) {
		return wiki.ErrReadOnlyDocument
	}
	return s.base.PostDocument(doc)
}

func (s *embeddedDocumentService) DeleteDocument(filename string) error {
	if s.embedded.Contains(filename) {
		return wiki.ErrReadOnlyDocument
	}
	return s.base.DeleteDocument(filename)
}

func (s *embeddedDocumentService) GetAllDocuments() ([]*wiki.DocumentSummary, error) {
	docs, err := s.base.GetAllDocuments()
	if err != nil && !errors.Is(err, wiki.ErrNoDocuments) {
		return nil, err
	}
	for _, doc := range s.embedded.Documents() {
		fm, _ := wiki.ParseFrontmatter(doc.Markdown)
		docs = append(docs, &wiki.DocumentSummary{
			Filename:     doc.Filename,
			LastModified: doc.LastModified,
			Title:        fm.Title,
		})
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].Filename < docs[j].Filename
	})
	return docs, nil
}
