package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danielledeleo/wikirefs/testutil"
	"github.com/danielledeleo/wikirefs/wiki"
	"github.com/danielledeleo/wikirefs/wiki/service"
)

func setupTestServer(t *testing.T) (*App, http.Handler) {
	t.Helper()

	db := testutil.SetupTestDB(t)

	conf := wiki.DefaultConfig()
	conf.Workers = 1
	conf.MediaDir = t.TempDir()
	if err := os.WriteFile(filepath.Join(conf.MediaDir, "logo.png"), []byte("png"), 0o644); err != nil {
		t.Fatalf("write media: %v", err)
	}

	app, err := NewApp(conf, db)
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	t.Cleanup(func() { app.Queue.Shutdown(context.Background()) })
	return app, NewRouter(app)
}

func do(t *testing.T, h http.Handler, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHomeListsEmbeddedVault(t *testing.T) {
	_, h := setupTestServer(t)

	rr := do(t, h, "GET", "/", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	for _, want := range []string{`href="/wiki/wikirefs-index"`, "Syntax", "Embeds"} {
		if !strings.Contains(rr.Body.String(), want) {
			t.Errorf("home page missing %q", want)
		}
	}
}

func TestDocumentHandler(t *testing.T) {
	_, h := setupTestServer(t)

	t.Run("renders embedded document", func(t *testing.T) {
		rr := do(t, h, "GET", "/wiki/wikirefs-syntax", "")
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d", rr.Code)
		}
		body := rr.Body.String()
		if !strings.Contains(body, "<title>Syntax - wikirefs</title>") {
			t.Error("missing page title")
		}
		if !strings.Contains(body, `class="wiki link invalid"`) {
			t.Error("missing invalid link for wikirefs-missing")
		}
		if !strings.Contains(body, `href="/wikirefs-embeds"`) {
			t.Error("missing valid link to wikirefs-embeds")
		}
		if got := rr.Header().Get("Cache-Control"); got != "public, max-age=86400" {
			t.Errorf("Cache-Control = %q, want stable caching for read-only documents", got)
		}
	})

	t.Run("lists backlinks", func(t *testing.T) {
		rr := do(t, h, "GET", "/wiki/wikirefs-index", "")
		if !strings.Contains(rr.Body.String(), "Referenced by") {
			t.Error("missing backlinks section")
		}
	})

	t.Run("missing document", func(t *testing.T) {
		rr := do(t, h, "GET", "/wiki/no-such-doc", "")
		if rr.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rr.Code)
		}
	})
}

func TestDocumentHandler_ConditionalGet(t *testing.T) {
	_, h := setupTestServer(t)

	if rr := do(t, h, "PUT", "/api/documents/fname-a", "# A\n\n[[wikirefs-index]]\n"); rr.Code != http.StatusOK {
		t.Fatalf("PUT status = %d: %s", rr.Code, rr.Body.String())
	}

	first := do(t, h, "GET", "/wiki/fname-a", "")
	etag := first.Header().Get("ETag")
	if etag == "" {
		t.Fatal("expected an ETag for a stored document")
	}

	second := do(t, h, "GET", "/wiki/fname-a", "", "If-None-Match", etag)
	if second.Code != http.StatusNotModified {
		t.Errorf("status = %d, want 304", second.Code)
	}
}

func TestRefsHandler(t *testing.T) {
	_, h := setupTestServer(t)

	md := "up::[[wikirefs-index]]\n\nSee [[wikirefs-syntax]] and ![[wikirefs-syntax]]\n\nAlso [[no-such-page]].\n"
	if rr := do(t, h, "PUT", "/api/documents/fname-a", md); rr.Code != http.StatusOK {
		t.Fatalf("PUT status = %d: %s", rr.Code, rr.Body.String())
	}

	rr := do(t, h, "GET", "/api/refs/fname-a", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}

	var resp refsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []wiki.Ref{
		{Kind: wiki.RefAttr, Type: "up", Filename: "wikirefs-index"},
		{Kind: wiki.RefLink, Filename: "wikirefs-syntax"},
		{Kind: wiki.RefEmbed, Filename: "wikirefs-syntax"},
		{Kind: wiki.RefLink, Filename: "no-such-page"},
	}
	if len(resp.Refs) != len(want) {
		t.Fatalf("refs = %+v, want %+v", resp.Refs, want)
	}
	for i := range want {
		if resp.Refs[i] != want[i] {
			t.Errorf("refs[%d] = %+v, want %+v", i, resp.Refs[i], want[i])
		}
	}
	if got := resp.Attrs["up"]; len(got) != 1 || got[0] != "wikirefs-index" {
		t.Errorf("attrs[up] = %v", got)
	}
	// The embedded syntax page carries an unresolved link of its own.
	wantInvalid := []string{"[[wikirefs-missing]]", "[[no-such-page]]"}
	if len(resp.Invalid) != len(wantInvalid) || resp.Invalid[0] != wantInvalid[0] || resp.Invalid[1] != wantInvalid[1] {
		t.Errorf("invalid = %v, want %v", resp.Invalid, wantInvalid)
	}

	if rr := do(t, h, "GET", "/api/refs/no-such-doc", ""); rr.Code != http.StatusNotFound {
		t.Errorf("missing document status = %d, want 404", rr.Code)
	}
}

func TestBacklinksHandler(t *testing.T) {
	_, h := setupTestServer(t)

	rr := do(t, h, "GET", "/api/backlinks/wikirefs-index", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var backlinks []service.Backlink
	if err := json.Unmarshal(rr.Body.Bytes(), &backlinks); err != nil {
		t.Fatalf("decode: %v", err)
	}

	found := false
	for _, b := range backlinks {
		if b.From == "wikirefs-syntax" && b.Kind == wiki.RefAttr && b.Type == "up" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an up attribute from wikirefs-syntax, got %+v", backlinks)
	}

	rr = do(t, h, "GET", "/api/backlinks/nobody-links-here", "")
	if strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Errorf("body = %q, want []", rr.Body.String())
	}
}

func TestPreviewHandler(t *testing.T) {
	_, h := setupTestServer(t)

	rr := do(t, h, "POST", "/preview", ":guide::[[wikirefs-syntax]]")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{`class="wiki link type reftype__guide doctype__guide"`, `href="/wikirefs-syntax"`, ">Syntax</a>"} {
		if !strings.Contains(body, want) {
			t.Errorf("preview missing %q in %s", want, body)
		}
	}
	if got := rr.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("Cache-Control = %q, want no-store", got)
	}

	form := do(t, h, "POST", "/preview", "markdown=%5B%5Bwikirefs-index%5D%5D",
		"Content-Type", "application/x-www-form-urlencoded")
	if !strings.Contains(form.Body.String(), `href="/wikirefs-index"`) {
		t.Errorf("form preview = %s", form.Body.String())
	}
}

func TestDocumentLifecycle(t *testing.T) {
	_, h := setupTestServer(t)

	if rr := do(t, h, "PUT", "/api/documents/fname-a", "text"); rr.Code != http.StatusOK {
		t.Fatalf("create status = %d", rr.Code)
	}
	if rr := do(t, h, "PUT", "/api/documents/fname-a", "text"); rr.Code != http.StatusNoContent {
		t.Errorf("unchanged status = %d, want 204", rr.Code)
	}
	if rr := do(t, h, "PUT", "/api/documents/wikirefs-index", "text"); rr.Code != http.StatusForbidden {
		t.Errorf("read-only status = %d, want 403", rr.Code)
	}
	if rr := do(t, h, "DELETE", "/api/documents/fname-a", ""); rr.Code != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", rr.Code)
	}
	if rr := do(t, h, "DELETE", "/api/documents/fname-a", ""); rr.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rr.Code)
	}
}

func TestMediaFiles(t *testing.T) {
	_, h := setupTestServer(t)

	rr := do(t, h, "GET", "/media/logo.png", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if rr.Body.String() != "png" {
		t.Errorf("body = %q", rr.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	_, h := setupTestServer(t)

	do(t, h, "GET", "/wiki/wikirefs-syntax", "")

	rr := do(t, h, "GET", "/metrics", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "wikirefs_renders_total") {
		t.Error("metrics missing renders_total")
	}
}
