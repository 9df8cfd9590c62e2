package vault

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/danielledeleo/wikirefs/wiki"
)

// debounce is how long a file must stay quiet before it is re-imported.
const debounce = 200 * time.Millisecond

// Watch re-imports markdown files below dir as they change and removes
// deleted ones from docs, until ctx is done. onChange, when non-nil, is
// called with the filename after each applied change.
func Watch(ctx context.Context, dir string, docs Poster, onChange func(filename string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := addDirsRecursive(watcher, dir); err != nil {
		return err
	}
	slog.Info("watching vault", "dir", dir)

	var mu sync.Mutex
	timers := make(map[string]*time.Timer)
	defer func() {
		mu.Lock()
		for _, t := range timers {
			t.Stop()
		}
		mu.Unlock()
	}()

	schedule := func(path string) {
		mu.Lock()
		defer mu.Unlock()
		if t, ok := timers[path]; ok {
			t.Reset(debounce)
			return
		}
		timers[path] = time.AfterFunc(debounce, func() {
			mu.Lock()
			delete(timers, path)
			mu.Unlock()
			if ctx.Err() != nil {
				return
			}
			if filename, ok := apply(docs, path); ok && onChange != nil {
				onChange(filename)
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			handleEvent(watcher, ev, schedule)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", "error", err)
		}
	}
}

func handleEvent(watcher *fsnotify.Watcher, ev fsnotify.Event, schedule func(string)) {
	if ignored(filepath.Base(ev.Name)) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = addDirsRecursive(watcher, ev.Name)
			return
		}
	}
	if !isMarkdown(ev.Name) {
		return
	}
	slog.Debug("vault change detected", "path", ev.Name, "op", ev.Op.String())
	schedule(ev.Name)
}

// apply brings docs in line with the file at path, which may be gone.
func apply(docs Poster, path string) (string, bool) {
	filename := wiki.FilenameFromPath(path)

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		err := docs.DeleteDocument(filename)
		if err != nil && !errors.Is(err, wiki.ErrDocumentNotFound) {
			slog.Warn("removing document failed", "filename", filename, "error", err)
			return filename, false
		}
		slog.Info("document removed", "filename", filename)
		return filename, err == nil
	}

	err := importFile(docs, path)
	switch {
	case errors.Is(err, wiki.ErrNotModified):
		return filename, false
	case err != nil:
		slog.Warn("re-import failed", "path", path, "error", err)
		return filename, false
	}
	slog.Info("document updated", "filename", filename)
	return filename, true
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && ignored(d.Name()) {
				return filepath.SkipDir
			}
			if err := w.Add(path); err != nil {
				slog.Warn("watch add failed", "dir", path, "error", err)
			}
		}
		return nil
	})
}
