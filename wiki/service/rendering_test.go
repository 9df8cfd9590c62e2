package service_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/danielledeleo/wikirefs/wiki"
	"github.com/danielledeleo/wikirefs/wiki/service"
)

func TestRenderDocument(t *testing.T) {
	docs := newVaultService(t)
	rendering := service.NewRenderingService(docs, wiki.DefaultConfig(), service.NewSanitizerPolicy())

	rendered, err := rendering.RenderDocument("wikirefs-index")
	if err != nil {
		t.Fatalf("RenderDocument failed: %v", err)
	}
	if rendered.Title != "Wikirefs" {
		t.Errorf("Title = %q", rendered.Title)
	}

	for _, want := range []string{
		`<aside class="attrbox">`,
		`<dd><a class="attr wiki reftype__related doctype__guide" href="/wikirefs-syntax" data-href="/wikirefs-syntax">Syntax</a></dd>`,
		`<a class="wiki link type reftype__guide doctype__guide" href="/wikirefs-syntax" data-href="/wikirefs-syntax">syntax overview</a>`,
		`<div class="embed-content">`,
		// The embedded syntax page links to a missing document.
		`<a class="wiki link invalid">[[wikirefs-missing]]</a>`,
	} {
		if !strings.Contains(rendered.HTML, want) {
			t.Errorf("expected %q in:\n%s", want, rendered.HTML)
		}
	}

	want := []wiki.Ref{
		{Kind: wiki.RefAttr, Type: "related", Filename: "wikirefs-syntax"},
		{Kind: wiki.RefAttr, Type: "related", Filename: "wikirefs-embeds"},
		{Kind: wiki.RefLink, Type: "guide", Filename: "wikirefs-syntax"},
		{Kind: wiki.RefLink, Filename: "wikirefs-embeds"},
		{Kind: wiki.RefEmbed, Filename: "wikirefs-syntax"},
	}
	if len(rendered.Refs) != len(want) {
		t.Fatalf("got refs %+v, want %+v", rendered.Refs, want)
	}
	for i := range want {
		if rendered.Refs[i] != want[i] {
			t.Errorf("ref %d = %+v, want %+v", i, rendered.Refs[i], want[i])
		}
	}

	if _, err := rendering.RenderDocument("missing"); !errors.Is(err, wiki.ErrDocumentNotFound) {
		t.Errorf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestRenderEmbedsLoopBack(t *testing.T) {
	rendering := service.NewRenderingService(newVaultService(t), wiki.DefaultConfig(), nil)

	rendered, err := rendering.RenderDocument("wikirefs-embeds")
	if err != nil {
		t.Fatalf("RenderDocument failed: %v", err)
	}
	// embeds -> index -> syntax
	if strings.Count(rendered.HTML, `<div class="embed-wrapper">`) != 2 {
		t.Errorf("expected index and its syntax embed, got:\n%s", rendered.HTML)
	}
	if !strings.Contains(rendered.HTML, `<img class="embed-image" src="/media/wikirefs-logo.png">`) {
		t.Errorf("expected media embed, got:\n%s", rendered.HTML)
	}
}

func TestPreviewMarkdown(t *testing.T) {
	rendering := service.NewRenderingService(newVaultService(t), wiki.DefaultConfig(), service.NewSanitizerPolicy())

	html, err := rendering.PreviewMarkdown("[[wikirefs-syntax]] <script>alert(1)</script>")
	if err != nil {
		t.Fatalf("PreviewMarkdown failed: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Errorf("expected scripts to be stripped, got %q", html)
	}
	want := `<a class="wiki link doctype__guide" href="/wikirefs-syntax" data-href="/wikirefs-syntax">Syntax</a>`
	if !strings.Contains(html, want) {
		t.Errorf("expected %q in %q", want, html)
	}
}

func TestRenderingConfig(t *testing.T) {
	conf := wiki.DefaultConfig()
	conf.Attrs.Render = false
	conf.BaseURL = "/wiki"
	rendering := service.NewRenderingService(newVaultService(t), conf, nil)

	rendered, err := rendering.RenderMarkdown("page", "attrtype::[[wikirefs-index]]\n\n[[wikirefs-index]]")
	if err != nil {
		t.Fatalf("RenderMarkdown failed: %v", err)
	}
	if strings.Contains(rendered.HTML, "attrbox") {
		t.Errorf("expected no attribute box, got:\n%s", rendered.HTML)
	}
	if !strings.Contains(rendered.HTML, `href="/wiki/wikirefs-index"`) {
		t.Errorf("expected base URL prefix, got:\n%s", rendered.HTML)
	}
	if len(rendered.Refs) != 2 {
		t.Errorf("expected the attribute to be reported without a box, got %+v", rendered.Refs)
	}
	if rendering.CSSNames().Wiki != "wiki" {
		t.Errorf("unexpected CSS names %+v", rendering.CSSNames())
	}
}
