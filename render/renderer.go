// Package render turns markdown with wiki references into HTML and
// inspects the result.
package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/danielledeleo/wikirefs/extensions"
)

// HTMLRenderer renders GitHub-flavoured tables, strikethrough and
// footnotes alongside wiki references. It is safe for concurrent use and
// may be re-entered from an embed content resolver.
type HTMLRenderer struct {
	md goldmark.Markdown
}

// NewHTMLRenderer creates a new HTMLRenderer. The wikirefs options carry
// the resolvers and metadata callbacks.
func NewHTMLRenderer(opts ...extensions.Option) *HTMLRenderer {
	return &HTMLRenderer{
		md: goldmark.New(
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithExtensions(
				extension.Table,
				extension.Strikethrough,
				extension.Footnote,
				extensions.NewWikiRefs(opts...),
			),
		),
	}
}

// Render converts md to HTML. env is handed to every resolver and callback
// of the pass, including nested passes triggered by embeds. A nil env gets
// a fresh one.
func (r *HTMLRenderer) Render(md string, env *extensions.Env) (string, error) {
	buf := &bytes.Buffer{}

	if err := extensions.Convert(r.md, []byte(md), buf, env); err != nil {
		return "", fmt.Errorf("failed to Convert: %w", err)
	}
	return buf.String(), nil
}
