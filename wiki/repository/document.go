// Package repository declares the persistence interfaces of wikirefs.
package repository

import "github.com/danielledeleo/wikirefs/wiki"

// DocumentRepository defines the interface for document persistence operations.
type DocumentRepository interface {
	// SelectDocument retrieves a document by its filename.
	SelectDocument(filename string) (*wiki.Document, error)

	// UpsertDocument inserts a document or replaces the stored one with the
	// same filename.
	UpsertDocument(doc *wiki.Document) error

	// DeleteDocument removes a document.
	DeleteDocument(filename string) error

	// SelectAllDocuments retrieves a summary of every document, ordered by
	// filename.
	SelectAllDocuments() ([]*wiki.DocumentSummary, error)
}
