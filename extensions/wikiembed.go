package extensions

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	wast "github.com/danielledeleo/wikirefs/extensions/ast"
	"github.com/danielledeleo/wikirefs/grammar"
)

type embedParser struct{}

// NewEmbedParser returns the embed inline parser. It must run before
// goldmark's link parser, which owns `!` for images.
func NewEmbedParser() parser.InlineParser {
	return &embedParser{}
}

func (p *embedParser) Trigger() []byte {
	return []byte{'!'}
}

func (p *embedParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, _ := block.PeekLine()

	// Must be at least 6 chars long: ![[X]]
	if len(line) < 6 || line[1] != '[' {
		return nil
	}

	m, ok := grammar.MatchEmbed(line)
	if !ok {
		return nil
	}

	block.Advance(len(m.Text))
	return wast.NewWikiEmbed(m.Filename)
}

// embedRenderer writes embeds as pseudo-blocks: they are parsed inline but
// open their own paragraph.
type embedRenderer struct {
	cfg *Config
}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *embedRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(wast.KindWikiEmbed, r.renderWikiEmbed)
	reg.Register(wast.KindEmbedTitle, r.renderEmbedTitle)
	reg.Register(wast.KindEmbedLink, r.renderEmbedLink)
	reg.Register(wast.KindEmbedContent, r.renderEmbedContent)
	reg.Register(wast.KindEmbedMedia, r.renderEmbedMedia)
}

func (r *embedRenderer) renderWikiEmbed(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*wast.WikiEmbed)
	if n.Filename == "" {
		if entering {
			_, _ = w.WriteString("filename error")
		}
		return ast.WalkSkipChildren, nil
	}

	if entering {
		if n.IsMedia() {
			_, _ = w.WriteString("\n<p>\n")
		} else {
			_, _ = w.WriteString("\n<p>\n<div class=\"" + r.cfg.CSS.EmbedWrapper + "\">\n")
		}
		return ast.WalkContinue, nil
	}

	if n.IsMedia() {
		_, _ = w.WriteString("</span>\n</p>\n")
	} else {
		_, _ = w.WriteString("</div>\n</p>\n")
	}
	if r.cfg.AddEmbed != nil {
		r.cfg.AddEmbed(EnvOf(node), n.Filename)
	}
	return ast.WalkContinue, nil
}

func (r *embedRenderer) renderEmbedTitle(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*wast.EmbedTitle)
	css := r.cfg.CSS

	_, _ = w.WriteString(`<div class="` + css.EmbedTitle + `">` + "\n")
	t := r.cfg.resolve(EnvOf(node), n.Filename)
	if t.valid {
		writeAnchorOpen(w, classList{}.add(css.Wiki, css.Embed).prefixed(css.DocType, t.docType), t.href)
	} else {
		_, _ = w.WriteString(`<a class="` + classList{}.add(css.Wiki, css.Embed, css.Invalid).String() + `">`)
		t.text = n.Filename
		if label, ok := r.cfg.resolveText(EnvOf(node), n.Filename); ok && label != "" {
			t.text = label
		}
	}
	_ = w.WriteByte('\n')
	writeEscaped(w, t.text)
	_, _ = w.WriteString("\n</a>\n</div>\n")
	return ast.WalkContinue, nil
}

func (r *embedRenderer) renderEmbedLink(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*wast.EmbedLink)
	css := r.cfg.CSS

	_, _ = w.WriteString(`<div class="` + css.EmbedLink + `">` + "\n")
	if href, ok := r.cfg.resolveHref(EnvOf(node), n.Filename); ok {
		_, _ = w.WriteString(`<a class="` + css.EmbedLinkIcon + `"`)
		writeHref(w, r.cfg.BaseURL+href)
		_, _ = w.WriteString(">\n")
	} else {
		_, _ = w.WriteString(`<a class="` + classList{}.add(css.EmbedLinkIcon, css.Invalid).String() + `">` + "\n")
	}
	_, _ = w.WriteString(`<i class="` + css.LinkIcon + `"></i>` + "\n")
	_, _ = w.WriteString("</a>\n</div>\n")
	return ast.WalkContinue, nil
}

// renderEmbedContent writes the resolved content as is. The resolver may
// render another document with the same Env; guarding against cycles is
// the resolver's job.
func (r *embedRenderer) renderEmbedContent(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*wast.EmbedContent)

	_, _ = w.WriteString(`<div class="` + r.cfg.CSS.EmbedContent + `">` + "\n")
	content, ok := r.cfg.resolveEmbedContent(EnvOf(node), n.Filename)
	if !ok {
		content = r.cfg.Embeds.ErrorContent + "'" + n.Filename + "'"
	}
	_, _ = w.WriteString(content)
	_, _ = w.WriteString("\n</div>\n")
	return ast.WalkContinue, nil
}

func (r *embedRenderer) renderEmbedMedia(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*wast.EmbedMedia)
	css := r.cfg.CSS

	kind := grammar.ClassifyMedia(n.Filename)
	if kind == grammar.MediaNone {
		_, _ = w.WriteString(`<span class="` + classList{}.add(css.EmbedMedia, css.Invalid).String() + `">` + "\n")
		_, _ = w.WriteString("media error\n")
		return ast.WalkContinue, nil
	}

	slug := util.EscapeHTML([]byte(mediaSlug(n.Filename)))
	_, _ = w.WriteString(`<span class="` + css.EmbedMedia + `" src="`)
	_, _ = w.Write(slug)
	_, _ = w.WriteString(`" alt="`)
	_, _ = w.Write(slug)
	_, _ = w.WriteString("\">\n")

	// Media sources are not prefixed with the base URL.
	href, ok := r.cfg.resolveHref(EnvOf(node), n.Filename)
	mime := grammar.MIMESubtype(n.Filename)
	switch kind {
	case grammar.MediaAudio:
		_, _ = w.WriteString(`<audio class="` + css.EmbedAudio + `" controls type="audio/` + mime + `"`)
		writeSrc(w, href, ok)
		_, _ = w.WriteString("></audio>\n")
	case grammar.MediaImage:
		_, _ = w.WriteString(`<img class="` + css.EmbedImage + `"`)
		writeSrc(w, href, ok)
		_, _ = w.WriteString(">\n")
	case grammar.MediaVideo:
		_, _ = w.WriteString(`<video class="` + css.EmbedVideo + `" controls type="video/` + mime + `"`)
		writeSrc(w, href, ok)
		_, _ = w.WriteString("></video>\n")
	}
	return ast.WalkContinue, nil
}

func writeSrc(w util.BufWriter, href string, ok bool) {
	if !ok || href == "" {
		return
	}
	_, _ = w.WriteString(` src="`)
	writeEscaped(w, href)
	_ = w.WriteByte('"')
}
