package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/danielledeleo/wikirefs/internal/renderqueue"
	"github.com/danielledeleo/wikirefs/render"
	"github.com/danielledeleo/wikirefs/wiki"
	"github.com/danielledeleo/wikirefs/wiki/service"
)

// maxMarkdownSize bounds request bodies carrying markdown.
const maxMarkdownSize = 1 << 20

// HomeHandler lists every document of the vault.
func (a *App) HomeHandler(rw http.ResponseWriter, req *http.Request) {
	docs, err := a.Documents.GetAllDocuments()
	if err != nil && !errors.Is(err, wiki.ErrNoDocuments) {
		a.ErrorHandler(http.StatusInternalServerError, rw, req, err)
		return
	}

	err = a.RenderTemplate(rw, "home.html", map[string]any{
		"Title":     "Index",
		"Documents": docs,
	})
	check(err)
}

// DocumentHandler renders one document as a full page.
func (a *App) DocumentHandler(rw http.ResponseWriter, req *http.Request) {
	filename := mux.Vars(req)["filename"]

	doc, rendered, err := a.renderDocument(req, filename)
	if err != nil {
		a.documentError(rw, req, filename, err)
		return
	}

	etag := contentETag(rendered.HTML)
	if doc.ReadOnly {
		setCacheStable(rw, doc.LastModified)
	} else {
		setCacheConditional(rw, etag, doc.LastModified)
	}
	if checkNotModified(rw, req, `W/"`+etag+`"`, doc.LastModified) {
		return
	}

	backlinks, err := a.Backlinks.GetBacklinks(filename)
	if err != nil {
		slog.Warn("backlinks unavailable", "filename", filename, "error", err)
	}

	slog.Debug("document viewed", "category", "document", "action", "view", "filename", filename)
	err = a.RenderTemplate(rw, "document.html", map[string]any{
		"Title":     rendered.Title,
		"Body":      template.HTML(rendered.HTML),
		"Backlinks": backlinks,
	})
	check(err)
}

// refsResponse is the JSON body of RefsHandler.
type refsResponse struct {
	Filename string              `json:"filename"`
	Title    string              `json:"title"`
	Refs     []wiki.Ref          `json:"refs"`
	Attrs    map[string][]string `json:"attrs"`
	// Invalid holds the text of every unresolved reference on the page.
	Invalid []string `json:"invalid"`
}

// RefsHandler reports the references a document declares, as collected by
// the render callbacks.
func (a *App) RefsHandler(rw http.ResponseWriter, req *http.Request) {
	filename := mux.Vars(req)["filename"]

	_, rendered, err := a.renderDocument(req, filename)
	if err != nil {
		a.jsonError(rw, statusFor(err), err)
		return
	}

	resp := refsResponse{
		Filename: rendered.Filename,
		Title:    rendered.Title,
		Refs:     rendered.Refs,
		Attrs:    make(map[string][]string),
	}
	if rendered.Attrs != nil {
		for _, attrType := range rendered.Attrs.Types() {
			resp.Attrs[attrType] = rendered.Attrs.Filenames(attrType)
		}
	}
	resp.Invalid, err = render.InvalidRefs(rendered.HTML, a.Rendering.CSSNames())
	if err != nil {
		a.jsonError(rw, http.StatusInternalServerError, err)
		return
	}
	if resp.Invalid == nil {
		resp.Invalid = []string{}
	}
	writeJSON(rw, http.StatusOK, resp)
}

// BacklinksHandler reports which documents refer to a filename. The target
// need not exist.
func (a *App) BacklinksHandler(rw http.ResponseWriter, req *http.Request) {
	filename := mux.Vars(req)["filename"]

	backlinks, err := a.Backlinks.GetBacklinks(filename)
	if err != nil {
		a.jsonError(rw, http.StatusInternalServerError, err)
		return
	}
	if backlinks == nil {
		backlinks = []service.Backlink{}
	}
	writeJSON(rw, http.StatusOK, backlinks)
}

// PreviewHandler renders the markdown request body without storing it and
// writes the HTML fragment.
func (a *App) PreviewHandler(rw http.ResponseWriter, req *http.Request) {
	markdown, err := readMarkdown(req)
	if err != nil {
		http.Error(rw, err.Error(), http.StatusBadRequest)
		return
	}

	html, err := a.Rendering.PreviewMarkdown(markdown)
	if err != nil {
		http.Error(rw, "Internal server error", http.StatusInternalServerError)
		slog.Error("preview failed", "error", err)
		return
	}

	rw.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(rw, html)
}

// PutDocumentHandler stores the markdown request body under filename.
func (a *App) PutDocumentHandler(rw http.ResponseWriter, req *http.Request) {
	filename := mux.Vars(req)["filename"]

	markdown, err := readMarkdown(req)
	if err != nil {
		a.jsonError(rw, http.StatusBadRequest, err)
		return
	}

	err = a.Documents.PostDocument(wiki.NewDocument(filename, markdown))
	switch {
	case errors.Is(err, wiki.ErrNotModified):
		rw.WriteHeader(http.StatusNoContent)
	case err != nil:
		a.jsonError(rw, statusFor(err), err)
	default:
		slog.Info("document saved", "category", "document", "action", "save", "filename", filename)
		writeJSON(rw, http.StatusOK, map[string]string{"filename": filename})
	}
}

// DeleteDocumentHandler removes a stored document.
func (a *App) DeleteDocumentHandler(rw http.ResponseWriter, req *http.Request) {
	filename := mux.Vars(req)["filename"]

	if err := a.Documents.DeleteDocument(filename); err != nil {
		a.jsonError(rw, statusFor(err), err)
		return
	}
	slog.Info("document deleted", "category", "document", "action", "delete", "filename", filename)
	rw.WriteHeader(http.StatusNoContent)
}

// ErrorHandler writes an HTML error page.
func (a *App) ErrorHandler(responseCode int, rw http.ResponseWriter, req *http.Request, errs ...error) {
	rw.Header().Set("Content-Type", "text/html; charset=utf-8")
	rw.WriteHeader(responseCode)
	err := a.RenderTemplate(rw, "error.html", map[string]any{
		"Title":  fmt.Sprintf("%d: %s", responseCode, http.StatusText(responseCode)),
		"Errors": errs,
	})
	if err != nil {
		slog.Error("failed to render error page", "error", err)
	}
}

func (a *App) renderDocument(req *http.Request, filename string) (*wiki.Document, *wiki.Rendered, error) {
	doc, err := a.Documents.GetDocument(filename)
	if err != nil {
		return nil, nil, err
	}

	rendered, err := a.Queue.Render(req.Context(), renderqueue.Job{
		Filename: doc.Filename,
		Markdown: doc.Markdown,
		Tier:     renderqueue.TierInteractive,
	})
	if err != nil {
		return nil, nil, err
	}
	return doc, rendered, nil
}

func (a *App) documentError(rw http.ResponseWriter, req *http.Request, filename string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error("document render failed", "filename", filename, "error", err)
	}
	a.ErrorHandler(status, rw, req, err)
}

func (a *App) jsonError(rw http.ResponseWriter, status int, err error) {
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
	}
	writeJSON(rw, status, map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, wiki.ErrDocumentNotFound):
		return http.StatusNotFound
	case errors.Is(err, wiki.ErrReadOnlyDocument):
		return http.StatusForbidden
	case errors.Is(err, wiki.ErrEmptyFilename), errors.Is(err, wiki.ErrBadFilename):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func readMarkdown(req *http.Request) (string, error) {
	if ct := req.Header.Get("Content-Type"); ct == "application/x-www-form-urlencoded" {
		if err := req.ParseForm(); err != nil {
			return "", err
		}
		return req.PostFormValue("markdown"), nil
	}
	body, err := io.ReadAll(io.LimitReader(req.Body, maxMarkdownSize))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func writeJSON(rw http.ResponseWriter, status int, v any) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	check(json.NewEncoder(rw).Encode(v))
}
