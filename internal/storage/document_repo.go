package storage

import (
	"database/sql"
	"errors"
	"log/slog"

	"github.com/danielledeleo/wikirefs/wiki"
)

// Document repository methods for sqliteDb

func (db *sqliteDb) SelectDocument(filename string) (*wiki.Document, error) {
	doc := &wiki.Document{}
	if err := db.SelectDocumentStmt.Get(doc, filename); err != nil {
		return nil, err
	}
	return doc, nil
}

// GetDocument implements wiki.Store.
func (db *sqliteDb) GetDocument(filename string) (*wiki.Document, error) {
	doc, err := db.SelectDocument(filename)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, wiki.ErrDocumentNotFound
	}
	return doc, err
}

func (db *sqliteDb) UpsertDocument(doc *wiki.Document) error {
	fm, _ := wiki.ParseFrontmatter(doc.Markdown)

	_, err := db.conn.Exec(`
		INSERT INTO Document (filename, markdown, title, doctype, last_modified)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(filename) DO UPDATE SET
			markdown = excluded.markdown,
			title = excluded.title,
			doctype = excluded.doctype,
			last_modified = excluded.last_modified`,
		doc.Filename, doc.Markdown, fm.Title, fm.DocType, doc.LastModified.UTC())
	if err != nil {
		return err
	}

	slog.Debug("document stored", "filename", doc.Filename)
	return nil
}

func (db *sqliteDb) DeleteDocument(filename string) error {
	result, err := db.conn.Exec(`DELETE FROM Document WHERE filename = ?`, filename)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (db *sqliteDb) SelectAllDocuments() ([]*wiki.DocumentSummary, error) {
	var docs []*wiki.DocumentSummary
	if err := db.SelectAllDocumentsStmt.Select(&docs); err != nil {
		return nil, err
	}
	return docs, nil
}
