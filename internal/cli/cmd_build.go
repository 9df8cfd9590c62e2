package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	flag "github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/danielledeleo/wikirefs/internal/renderqueue"
	"github.com/danielledeleo/wikirefs/wiki"
)

// refsIndexFile lists the references of every built document.
const refsIndexFile = "refs.yaml"

func buildCmd(rt *runtime) *Command {
	flags := flag.NewFlagSet("build", flag.ContinueOnError)
	outDir := flags.StringP("out", "o", "", "write the HTML files into `dir` (required)")
	vaultDir := flags.String("vault", "", "build the markdown files below `dir` instead of the database")
	workers := flags.Int("workers", 0, "number of render workers (default from config)")

	return &Command{
		Flags: flags,
		Usage: "build --out <dir> [flags]",
		Short: "Render every document to an HTML file",
		Long: `Render every document of the store to <dir>/<filename>.html and write
<dir>/refs.yaml with the references of each document. Files are replaced
atomically, so a build can run while the output is being served.`,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if len(args) != 0 {
				return errUsage
			}
			if *outDir == "" {
				return errors.New("--out is required")
			}
			conf, err := rt.config(false)
			if err != nil {
				return err
			}
			if *workers > 0 {
				conf.Workers = *workers
			}
			ws, err := openWorkspace(conf, *vaultDir)
			if err != nil {
				return err
			}
			defer ws.Close()

			built, failed, err := build(ctx, ws, conf.Workers, *outDir)
			if err != nil {
				return err
			}
			o.Printf("built %d documents into %s\n", built, *outDir)
			if failed > 0 {
				return fmt.Errorf("%d documents failed to render", failed)
			}
			return nil
		},
	}
}

// build renders every document on a background-tier queue and writes the
// results into outDir.
func build(ctx context.Context, ws *workspace, workers int, outDir string) (built, failed int, err error) {
	summaries, err := ws.docs.GetAllDocuments()
	if errors.Is(err, wiki.ErrNoDocuments) {
		return 0, 0, nil
	} else if err != nil {
		return 0, 0, err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return 0, 0, err
	}

	queue := renderqueue.New(workers, ws.rendering.RenderMarkdown)
	defer func() {
		if shutdownErr := queue.Shutdown(context.Background()); shutdownErr != nil {
			slog.Warn("render queue shutdown", "error", shutdownErr)
		}
	}()

	waiters := make(map[string]chan renderqueue.Result, len(summaries))
	for _, summary := range summaries {
		doc, err := ws.docs.GetDocument(summary.Filename)
		if err != nil {
			return 0, 0, err
		}
		ch := make(chan renderqueue.Result, 1)
		job := renderqueue.Job{Filename: doc.Filename, Markdown: doc.Markdown, Tier: renderqueue.TierBackground}
		if err := queue.Submit(job, ch); err != nil {
			return 0, 0, err
		}
		waiters[doc.Filename] = ch
	}

	index := make(map[string][]wiki.Ref, len(summaries))
	for _, summary := range summaries {
		var res renderqueue.Result
		select {
		case res = <-waiters[summary.Filename]:
		case <-ctx.Done():
			return built, failed, ctx.Err()
		}
		if res.Err != nil {
			slog.Error("render failed", "filename", summary.Filename, "error", res.Err)
			failed++
			continue
		}

		path := filepath.Join(outDir, url.PathEscape(summary.Filename)+".html")
		if err := atomic.WriteFile(path, strings.NewReader(res.Rendered.HTML)); err != nil {
			return built, failed, err
		}
		index[summary.Filename] = res.Rendered.Refs
		built++
	}

	out, err := yaml.Marshal(index)
	if err != nil {
		return built, failed, err
	}
	if err := atomic.WriteFile(filepath.Join(outDir, refsIndexFile), bytes.NewReader(out)); err != nil {
		return built, failed, err
	}
	return built, failed, nil
}
