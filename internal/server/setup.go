package server

import (
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/microcosm-cc/bluemonday"

	"github.com/danielledeleo/wikirefs/internal/embedded"
	"github.com/danielledeleo/wikirefs/internal/metrics"
	"github.com/danielledeleo/wikirefs/internal/renderqueue"
	"github.com/danielledeleo/wikirefs/internal/storage"
	"github.com/danielledeleo/wikirefs/wiki"
	"github.com/danielledeleo/wikirefs/wiki/service"
)

// Setup opens the configured database and builds the App. The render queue
// must be shut down when the server stops.
func Setup(conf *wiki.Config) (*App, error) {
	db, err := storage.Open(conf.DatabaseFile)
	if err != nil {
		return nil, err
	}
	if err := storage.RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	return NewApp(conf, db)
}

// NewApp builds the App over an already migrated database.
func NewApp(conf *wiki.Config, db *sqlx.DB) (*App, error) {
	pages, err := loadPages()
	if err != nil {
		return nil, err
	}

	store, err := storage.Init(db)
	if err != nil {
		return nil, err
	}

	ed, err := embedded.New()
	if err != nil {
		return nil, err
	}
	documents := service.NewEmbeddedDocumentService(service.NewDocumentService(store), ed)

	var sanitizer *bluemonday.Policy
	if conf.Sanitize {
		sanitizer = service.NewSanitizerPolicy()
	}
	rendering := service.NewRenderingService(documents, conf, sanitizer)

	m := metrics.New()
	queue := renderqueue.New(conf.Workers, rendering.RenderMarkdown, renderqueue.WithObserver(m.ObserveRender))
	m.RegisterQueueLength(queue.Pending)
	slog.Info("render queue initialized", "workers", conf.Workers)

	return &App{
		pages:     pages,
		Documents: documents,
		Rendering: rendering,
		Backlinks: service.NewBacklinkService(documents),
		Queue:     queue,
		Metrics:   m,
		Config:    conf,
		DB:        db,
	}, nil
}
