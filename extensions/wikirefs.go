// Package extensions adds wiki references to goldmark: wikilinks, attribute
// declarations rendered as an aside, and embeds that render media tags or
// transclude other documents.
//
// Filenames are resolved at render time through the resolver callbacks of
// Config, which receive the Env of the current render pass.
package extensions

import (
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// Parser and transformer priorities. Lower runs first.
const (
	embedParserPriority = 198
	linkParserPriority  = 199
	attrParserPriority  = 999

	attrBoxPriority  = 900
	prepFilePriority = 1000

	rendererPriority = 500
)

type wikiRefs struct {
	cfg *Config
}

// NewWikiRefs returns the wikirefs extension configured by opts.
func NewWikiRefs(opts ...Option) goldmark.Extender {
	return &wikiRefs{cfg: NewConfig(opts...)}
}

// Extend implements goldmark.Extender.
func (e *wikiRefs) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithASTTransformers(
			util.Prioritized(&prepFileTransformer{cfg: e.cfg}, prepFilePriority),
		),
	)
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(
			util.Prioritized(&prepFileRenderer{cfg: e.cfg}, rendererPriority),
		),
	)

	if e.cfg.Attrs.Enable {
		m.Parser().AddOptions(
			parser.WithBlockParsers(
				util.Prioritized(NewAttrParser(), attrParserPriority),
			),
		)
		if e.cfg.Attrs.Render {
			m.Parser().AddOptions(
				parser.WithASTTransformers(
					util.Prioritized(&attrBoxTransformer{}, attrBoxPriority),
				),
			)
		}
		m.Renderer().AddOptions(
			renderer.WithNodeRenderers(
				util.Prioritized(&attrRenderer{cfg: e.cfg}, rendererPriority),
			),
		)
	}

	if e.cfg.Links.Enable {
		m.Parser().AddOptions(
			parser.WithInlineParsers(
				util.Prioritized(NewLinkParser(), linkParserPriority),
			),
		)
		m.Renderer().AddOptions(
			renderer.WithNodeRenderers(
				util.Prioritized(&linkRenderer{cfg: e.cfg}, rendererPriority),
			),
		)
	}

	if e.cfg.Embeds.Enable {
		m.Parser().AddOptions(
			parser.WithInlineParsers(
				util.Prioritized(NewEmbedParser(), embedParserPriority),
			),
		)
		m.Renderer().AddOptions(
			renderer.WithNodeRenderers(
				util.Prioritized(&embedRenderer{cfg: e.cfg}, rendererPriority),
			),
		)
	}
}

// Convert parses and renders source with md, threading env through the
// pass. A nil env gets a fresh one.
func Convert(md goldmark.Markdown, source []byte, w io.Writer, env *Env) error {
	if env == nil {
		env = NewEnv(nil)
	}
	return md.Convert(source, w, parser.WithContext(NewContext(env)))
}
