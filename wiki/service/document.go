package service

import (
	"database/sql"
	"errors"
	"time"

	"github.com/danielledeleo/wikirefs/wiki"
	"github.com/danielledeleo/wikirefs/wiki/repository"
)

// DocumentService defines the interface for document operations. It
// satisfies wiki.Store, so resolvers can read through it.
type DocumentService interface {
	// GetDocument retrieves a document by its filename.
	GetDocument(filename string) (*wiki.Document, error)

	// PostDocument creates or updates a document.
	PostDocument(doc *wiki.Document) error

	// DeleteDocument removes a document.
	DeleteDocument(filename string) error

	// GetAllDocuments lists every document.
	GetAllDocuments() ([]*wiki.DocumentSummary, error)
}

// documentService is the default implementation of DocumentService.
type documentService struct {
	repo repository.DocumentRepository
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(repo repository.DocumentRepository) DocumentService {
	return &documentService{repo: repo}
}

// GetDocument retrieves a document by its filename.
func (s *documentService) GetDocument(filename string) (*wiki.Document, error) {
	doc, err := s.repo.SelectDocument(filename)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, wiki.ErrDocumentNotFound
	} else if err != nil {
		return nil, err
	}
	return doc, nil
}

// PostDocument creates or updates a document. Posting unchanged markdown
// returns wiki.ErrNotModified.
func (s *documentService) PostDocument(doc *wiki.Document) error {
	if err := wiki.ValidateFilename(doc.Filename); err != nil {
		return err
	}

	existing, err := s.GetDocument(doc.Filename)
	if err != nil && !errors.Is(err, wiki.ErrDocumentNotFound) {
		return err
	}
	if existing != nil && existing.Markdown == doc.Markdown {
		return wiki.ErrNotModified
	}

	if doc.LastModified.IsZero() {
		doc.LastModified = time.Now().UTC()
	}
	return s.repo.UpsertDocument(doc)
}

// DeleteDocument removes a document.
func (s *documentService) DeleteDocument(filename string) error {
	err := s.repo.DeleteDocument(filename)
	if errors.Is(err, sql.ErrNoRows) {
		return wiki.ErrDocumentNotFound
	}
	return err
}

// GetAllDocuments lists every document.
func (s *documentService) GetAllDocuments() ([]*wiki.DocumentSummary, error) {
	docs, err := s.repo.SelectAllDocuments()
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, wiki.ErrNoDocuments
	}
	return docs, nil
}
