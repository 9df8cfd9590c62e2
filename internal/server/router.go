package server

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// NewRouter wires the application's routes.
func NewRouter(a *App) http.Handler {
	router := mux.NewRouter().StrictSlash(true)

	if a.Config.MediaDir != "" && a.Config.MediaURL != "" {
		prefix := "/" + strings.Trim(a.Config.MediaURL, "/") + "/"
		fs := http.FileServer(http.Dir(a.Config.MediaDir))
		router.PathPrefix(prefix).Handler(cacheControlHandler(http.StripPrefix(prefix, fs), "public, max-age=86400"))
	}

	router.HandleFunc("/", a.HomeHandler).Methods("GET")
	router.HandleFunc("/wiki/{filename}", a.DocumentHandler).Methods("GET")
	router.HandleFunc("/preview", noStore(a.PreviewHandler)).Methods("POST")
	router.Handle("/metrics", a.Metrics.Handler()).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/refs/{filename}", noStore(a.RefsHandler)).Methods("GET")
	api.HandleFunc("/backlinks/{filename}", noStore(a.BacklinksHandler)).Methods("GET")
	api.HandleFunc("/documents/{filename}", a.PutDocumentHandler).Methods("PUT")
	api.HandleFunc("/documents/{filename}", a.DeleteDocumentHandler).Methods("DELETE")

	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(slog.NewLogLogger(slog.Default().Handler(), slog.LevelError)),
	)
	return SlogLoggingMiddleware(recovery(router))
}
