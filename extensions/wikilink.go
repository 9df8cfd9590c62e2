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

type linkParser struct{}

// NewLinkParser returns the wikilink inline parser. It must run before
// goldmark's link parser, which would otherwise take `[` as a label opener
// and `![` as an image opener.
func NewLinkParser() parser.InlineParser {
	return &linkParser{}
}

func (p *linkParser) Trigger() []byte {
	return []byte{'[', ':', '!'}
}

func (p *linkParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, segment := block.PeekLine()

	// A `!` before a wikilink that did not parse as an embed stays text,
	// leaving the link for the next trigger.
	if len(line) > 0 && line[0] == '!' {
		if len(line) < 6 || line[1] != '[' || line[2] != '[' {
			return nil
		}
		if _, ok := grammar.MatchLink(line[1:]); !ok {
			return nil
		}
		block.Advance(1)
		return ast.NewTextSegment(segment.WithStop(segment.Start + 1))
	}

	// Must be at least 5 chars long: [[X]]
	if len(line) < 5 {
		return nil
	}

	m, ok := grammar.MatchLink(line)
	if !ok {
		return nil
	}

	block.Advance(len(m.Text))
	return wast.NewWikiLink(m)
}

type linkRenderer struct {
	cfg *Config
}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *linkRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(wast.KindWikiLink, r.renderWikiLink)
}

// renderWikiLink writes the anchor on entering and reports the link on
// exiting, so metadata follows the element in document order.
func (r *linkRenderer) renderWikiLink(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*wast.WikiLink)
	env := EnvOf(node)

	if !entering {
		if r.cfg.AddLink != nil && n.Filename != "" {
			r.cfg.AddLink(env, n.LinkType, n.Filename)
		}
		return ast.WalkContinue, nil
	}

	css := r.cfg.CSS
	if n.Filename == "" {
		_, _ = w.WriteString(`<a class="` + classList{}.add(css.Wiki, css.Link, css.Invalid).String() + `">filename error</a>`)
		return ast.WalkContinue, nil
	}

	t := r.cfg.resolve(env, n.Filename)
	if !t.valid {
		_, _ = w.WriteString(`<a class="` + classList{}.add(css.Wiki, css.Link, css.Invalid).String() + `">`)
		writeEscaped(w, n.Source)
		_, _ = w.WriteString("</a>")
		return ast.WalkContinue, nil
	}

	classes := classList{}.add(css.Wiki, css.Link)
	if n.LinkType != "" {
		classes = classes.add(css.Type).prefixed(css.RefType, n.LinkType)
	}
	classes = classes.prefixed(css.DocType, t.docType)

	label := t.text
	if n.Label != "" {
		label = n.Label
	}
	writeAnchorOpen(w, classes, t.href)
	writeEscaped(w, label)
	_, _ = w.WriteString("</a>")
	return ast.WalkContinue, nil
}

// writeAnchorOpen writes `<a class=".." href=".." data-href="..">`.
func writeAnchorOpen(w util.BufWriter, classes classList, href string) {
	_, _ = w.WriteString(`<a class="` + classes.String() + `"`)
	writeHref(w, href)
	_ = w.WriteByte('>')
}

// writeHref writes the mirrored href and data-href attributes.
func writeHref(w util.BufWriter, href string) {
	escaped := util.EscapeHTML([]byte(href))
	_, _ = w.WriteString(` href="`)
	_, _ = w.Write(escaped)
	_, _ = w.WriteString(`" data-href="`)
	_, _ = w.Write(escaped)
	_ = w.WriteByte('"')
}

func writeEscaped(w util.BufWriter, s string) {
	_, _ = w.Write(util.EscapeHTML([]byte(s)))
}
