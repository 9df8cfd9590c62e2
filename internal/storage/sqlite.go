// Package storage persists documents in SQLite.
package storage

import (
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// PreparedStatements holds the prepared SQL statements used for database queries.
type PreparedStatements struct {
	SelectDocumentStmt     *sqlx.Stmt
	SelectAllDocumentsStmt *sqlx.Stmt
}

// InitializeStatements prepares all the SQL statements needed for database operations.
func InitializeStatements(conn *sqlx.DB) (*PreparedStatements, error) {
	stmts := &PreparedStatements{}
	var err error

	stmts.SelectDocumentStmt, err = conn.Preparex(
		`SELECT filename, markdown, last_modified FROM Document WHERE filename = ?`)
	if err != nil {
		return nil, err
	}

	stmts.SelectAllDocumentsStmt, err = conn.Preparex(
		`SELECT filename, last_modified, title FROM Document ORDER BY filename`)
	if err != nil {
		return nil, err
	}

	return stmts, nil
}

// sqliteDb implements repository.DocumentRepository and wiki.Store.
// Document methods live in document_repo.go.
type sqliteDb struct {
	*PreparedStatements
	conn *sqlx.DB
}

// Open opens the SQLite database at path. An in-memory database is limited
// to one connection so every query sees the same data.
func Open(path string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

// Init initializes the storage layer with an existing database connection.
// The database connection should already have migrations applied via RunMigrations.
func Init(db *sqlx.DB) (*sqliteDb, error) {
	store := &sqliteDb{conn: db}

	var err error
	store.PreparedStatements, err = InitializeStatements(db)
	if err != nil {
		return nil, err
	}

	return store, nil
}

// Close releases the prepared statements. The connection stays open.
func (db *sqliteDb) Close() error {
	if err := db.SelectDocumentStmt.Close(); err != nil {
		return err
	}
	return db.SelectAllDocumentsStmt.Close()
}
