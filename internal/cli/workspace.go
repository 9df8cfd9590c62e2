package cli

import (
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/microcosm-cc/bluemonday"

	"github.com/danielledeleo/wikirefs/internal/storage"
	"github.com/danielledeleo/wikirefs/internal/vault"
	"github.com/danielledeleo/wikirefs/wiki"
	"github.com/danielledeleo/wikirefs/wiki/service"
)

// workspace is the document store and services a one-shot command works on.
type workspace struct {
	db        *sqlx.DB
	docs      service.DocumentService
	rendering service.RenderingService
	backlinks service.BacklinkService
}

// openWorkspace opens the configured database, or, when vaultDir is set, an
// in-memory database loaded with the markdown files below vaultDir.
func openWorkspace(conf *wiki.Config, vaultDir string) (*workspace, error) {
	path := conf.DatabaseFile
	if vaultDir != "" {
		path = ":memory:"
	}

	db, err := storage.Open(path)
	if err != nil {
		return nil, err
	}
	if err := storage.RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	store, err := storage.Init(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	docs := service.NewDocumentService(store)

	if vaultDir != "" {
		stats, err := vault.ImportDir(vaultDir, docs)
		if err != nil {
			db.Close()
			return nil, err
		}
		slog.Debug("vault loaded", "dir", vaultDir, "imported", stats.Imported, "skipped", stats.Skipped)
	}

	var sanitizer *bluemonday.Policy
	if conf.Sanitize {
		sanitizer = service.NewSanitizerPolicy()
	}

	return &workspace{
		db:        db,
		docs:      docs,
		rendering: service.NewRenderingService(docs, conf, sanitizer),
		backlinks: service.NewBacklinkService(docs),
	}, nil
}

func (w *workspace) Close() error {
	return w.db.Close()
}
