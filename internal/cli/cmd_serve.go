package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/danielledeleo/wikirefs/internal/server"
	"github.com/danielledeleo/wikirefs/internal/storage"
	"github.com/danielledeleo/wikirefs/internal/vault"
)

// shutdownTimeout bounds the graceful shutdown of the HTTP server and the
// render queue.
const shutdownTimeout = 30 * time.Second

func serveCmd(rt *runtime) *Command {
	flags := flag.NewFlagSet("serve", flag.ContinueOnError)
	host := flags.String("host", "", "listen address (default from config)")
	watchDir := flags.String("watch", "", "import the markdown files below `dir` and keep them in sync")

	return &Command{
		Flags: flags,
		Usage: "serve [flags]",
		Short: "Serve the wiki over HTTP",
		Long: `Serve rendered documents, their references and backlinks, a preview
endpoint and media files. A default config.yaml is written on first run.
With --watch, the directory is imported at startup and changes to it are
applied to the database as they happen.`,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if len(args) != 0 {
				return errUsage
			}
			conf, err := rt.config(true)
			if err != nil {
				return err
			}
			if *host != "" {
				conf.Host = *host
			}

			app, err := server.Setup(conf)
			if err != nil {
				return err
			}

			if *watchDir != "" {
				stats, err := vault.ImportDir(*watchDir, app.Documents)
				if err != nil {
					return err
				}
				slog.Info("vault imported", "dir", *watchDir, "imported", stats.Imported, "unchanged", stats.Unchanged, "skipped", stats.Skipped)

				go func() {
					err := vault.Watch(ctx, *watchDir, app.Documents, func(filename string) {
						slog.Info("document updated", "filename", filename)
					})
					if err != nil {
						slog.Error("vault watcher stopped", "error", err)
					}
				}()
			}

			return serve(ctx, app)
		},
	}
}

func demoCmd(rt *runtime) *Command {
	flags := flag.NewFlagSet("demo", flag.ContinueOnError)
	host := flags.String("host", "", "listen address (default from config)")

	return &Command{
		Flags: flags,
		Usage: "demo [flags]",
		Short: "Serve the sample vault from an in-memory database",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if len(args) != 0 {
				return errUsage
			}
			conf, err := rt.config(false)
			if err != nil {
				return err
			}
			if *host != "" {
				conf.Host = *host
			}

			db, err := storage.Open(":memory:")
			if err != nil {
				return err
			}
			if err := storage.RunMigrations(db); err != nil {
				db.Close()
				return err
			}
			app, err := server.NewApp(conf, db)
			if err != nil {
				db.Close()
				return err
			}

			o.Println("demo vault at http://" + conf.Host + "/wiki/wikirefs-index")
			return serve(ctx, app)
		},
	}
}

// serve runs the HTTP server until ctx is done, then shuts down the server,
// the render queue and the database in that order.
func serve(ctx context.Context, app *server.App) error {
	defer app.DB.Close()

	srv := &http.Server{
		Addr:              app.Config.Host,
		Handler:           server.NewRouter(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	slog.Info("server starting", "url", "http://"+app.Config.Host)

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
	}

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Stop accepting requests before draining the queue.
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
	slog.Info("shutting down render queue...")
	if err := app.Queue.Shutdown(shutdownCtx); err != nil {
		slog.Error("render queue shutdown error", "error", err)
	}

	slog.Info("server stopped")
	return serveErr
}
