package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/danielledeleo/wikirefs/wiki"
)

// writeVault writes a small vault and returns its directory.
func writeVault(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		"fname-a.md":       "---\ntitle: Title A\n---\nContent A.",
		"fname-b.md":       "---\ntitle: Title B\n---\nContent B links to [[fname-c]].",
		"notes/fname-c.md": "---\ntitle: Title C\n---\nattrtype::[[fname-a]]\n\n![[fname-b]]\n",
		".hidden.md":       "[[ignored]]",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// writeConfig writes a config file keeping the database in a temp dir.
func writeConfig(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "dbfile: " + filepath.Join(dir, "wikirefs.db") + "\nlog_level: error\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = Run(context.Background(), &out, &errOut, append([]string{"wikirefs"}, args...))
	return code, out.String(), errOut.String()
}

func TestRunUsage(t *testing.T) {
	code, out, _ := run(t)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	for _, name := range []string{"render", "refs", "build", "import", "serve", "demo"} {
		if !strings.Contains(out, "  "+name) {
			t.Errorf("usage does not list %q:\n%s", name, out)
		}
	}

	code, _, errOut := run(t, "frobnicate")
	if code != 1 || !strings.Contains(errOut, "unknown command: frobnicate") {
		t.Errorf("expected unknown command error, got %d %q", code, errOut)
	}

	code, out, _ = run(t, "render", "--help")
	if code != 0 || !strings.Contains(out, "Usage: wikirefs render") || !strings.Contains(out, "--vault") {
		t.Errorf("expected render help, got %d %q", code, out)
	}

	code, _, errOut = run(t, "-c", writeConfig(t), "render")
	if code != 1 || !strings.Contains(errOut, errUsage.Error()) {
		t.Errorf("expected usage error, got %d %q", code, errOut)
	}
}

func TestRender(t *testing.T) {
	cfg := writeConfig(t)
	vaultDir := writeVault(t)

	code, out, errOut := run(t, "-c", cfg, "render", "--vault", vaultDir, "fname-b")
	if code != 0 {
		t.Fatalf("render failed: %s", errOut)
	}
	want := `<p>Content B links to <a class="wiki link" href="/fname-c" data-href="/fname-c">Title C</a>.</p>`
	if !strings.Contains(out, want) {
		t.Errorf("expected %q in:\n%s", want, out)
	}

	code, _, errOut = run(t, "-c", cfg, "render", "--vault", vaultDir, "missing")
	if code != 1 || !strings.Contains(errOut, wiki.ErrDocumentNotFound.Error()) {
		t.Errorf("expected not found, got %d %q", code, errOut)
	}
}

func TestRenderFile(t *testing.T) {
	cfg := writeConfig(t)
	vaultDir := writeVault(t)
	file := filepath.Join(t.TempDir(), "draft.md")
	if err := os.WriteFile(file, []byte("Draft about [[fname-a]]."), 0o644); err != nil {
		t.Fatal(err)
	}

	code, out, errOut := run(t, "-c", cfg, "render", "--vault", vaultDir, "--json", file)
	if code != 0 {
		t.Fatalf("render failed: %s", errOut)
	}
	for _, want := range []string{`"filename": "draft"`, `"title": "draft"`, `"kind": "link"`, `"filename": "fname-a"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
}

func TestRefs(t *testing.T) {
	cfg := writeConfig(t)
	vaultDir := writeVault(t)

	code, out, errOut := run(t, "-c", cfg, "refs", "--vault", vaultDir, "fname-c")
	if code != 0 {
		t.Fatalf("refs failed: %s", errOut)
	}

	var report refsReport
	if err := yaml.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, out)
	}
	if report.Filename != "fname-c" || report.Title != "Title C" {
		t.Errorf("unexpected header %+v", report)
	}
	want := []wiki.Ref{
		{Kind: wiki.RefAttr, Type: "attrtype", Filename: "fname-a"},
		{Kind: wiki.RefEmbed, Filename: "fname-b"},
	}
	if len(report.Refs) != len(want) || report.Refs[0] != want[0] || report.Refs[1] != want[1] {
		t.Errorf("refs = %+v, want %+v", report.Refs, want)
	}
	if got := report.Attrs["attrtype"]; len(got) != 1 || got[0] != "fname-a" {
		t.Errorf("attrs = %v", report.Attrs)
	}
	if len(report.Backlinks) != 1 || report.Backlinks[0].From != "fname-b" {
		t.Errorf("backlinks = %+v", report.Backlinks)
	}
}

func TestBuild(t *testing.T) {
	cfg := writeConfig(t)
	vaultDir := writeVault(t)
	outDir := filepath.Join(t.TempDir(), "site")

	code, out, errOut := run(t, "-c", cfg, "build", "--vault", vaultDir, "--out", outDir, "--workers", "2")
	if code != 0 {
		t.Fatalf("build failed: %s", errOut)
	}
	if !strings.Contains(out, "built 3 documents") {
		t.Errorf("unexpected summary %q", out)
	}

	html, err := os.ReadFile(filepath.Join(outDir, "fname-c.html"))
	if err != nil {
		t.Fatalf("fname-c.html not written: %v", err)
	}
	if !strings.Contains(string(html), `<div class="embed-content">`) {
		t.Errorf("expected embedded content in:\n%s", html)
	}
	if _, err := os.Stat(filepath.Join(outDir, "ignored.html")); err == nil {
		t.Error("hidden files must not be built")
	}

	raw, err := os.ReadFile(filepath.Join(outDir, refsIndexFile))
	if err != nil {
		t.Fatalf("%s not written: %v", refsIndexFile, err)
	}
	var index map[string][]wiki.Ref
	if err := yaml.Unmarshal(raw, &index); err != nil {
		t.Fatalf("bad %s: %v", refsIndexFile, err)
	}
	if len(index) != 3 || len(index["fname-b"]) != 1 || index["fname-b"][0].Filename != "fname-c" {
		t.Errorf("unexpected index %+v", index)
	}

	code, _, errOut = run(t, "-c", cfg, "build", "--vault", vaultDir)
	if code != 1 || !strings.Contains(errOut, "--out is required") {
		t.Errorf("expected missing --out error, got %d %q", code, errOut)
	}
}

func TestImport(t *testing.T) {
	cfg := writeConfig(t)
	vaultDir := writeVault(t)

	code, out, errOut := run(t, "-c", cfg, "import", vaultDir)
	if code != 0 {
		t.Fatalf("import failed: %s", errOut)
	}
	if !strings.Contains(out, "imported 3, unchanged 0, skipped 0") {
		t.Errorf("unexpected summary %q", out)
	}

	// A second import finds nothing new.
	code, out, _ = run(t, "-c", cfg, "import", filepath.Join(vaultDir, "fname-a.md"), filepath.Join(vaultDir, "notes"))
	if code != 0 || !strings.Contains(out, "imported 0, unchanged 2, skipped 0") {
		t.Errorf("unexpected second import %d %q", code, out)
	}

	// The database now serves render without --vault.
	code, out, errOut = run(t, "-c", cfg, "render", "fname-a")
	if code != 0 || !strings.Contains(out, "Content A.") {
		t.Errorf("render from database failed: %d %q %q", code, out, errOut)
	}
}

func TestRenderCheck(t *testing.T) {
	cfg := writeConfig(t)
	vaultDir := writeVault(t)

	code, _, errOut := run(t, "-c", cfg, "render", "--vault", vaultDir, "--check", "fname-b")
	if code != 0 {
		t.Fatalf("expected a clean check, got %d %q", code, errOut)
	}

	file := filepath.Join(t.TempDir(), "draft.md")
	if err := os.WriteFile(file, []byte("See [[fname-a]] and [[nowhere]]."), 0o644); err != nil {
		t.Fatal(err)
	}
	code, out, errOut := run(t, "-c", cfg, "render", "--vault", vaultDir, "--check", file)
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(out, `<a class="wiki link invalid">[[nowhere]]</a>`) {
		t.Errorf("expected the HTML to be printed, got:\n%s", out)
	}
	if !strings.Contains(errOut, "unresolved: [[nowhere]]") || !strings.Contains(errOut, "draft: 1 unresolved references") {
		t.Errorf("unexpected check output %q", errOut)
	}
	if strings.Contains(errOut, "fname-a") {
		t.Errorf("resolved references must not be reported: %q", errOut)
	}
}
