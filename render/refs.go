package render

import (
	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/danielledeleo/wikirefs/extensions"
	"github.com/danielledeleo/wikirefs/extensions/ast"
	"github.com/danielledeleo/wikirefs/wiki"
)

// RefExtractor lists the references of markdown without rendering it.
type RefExtractor struct {
	md goldmark.Markdown
}

// NewRefExtractor creates a new RefExtractor with a lightweight Goldmark
// instance configured only for wiki reference parsing. Footnotes are kept
// so that declarations inside them are skipped as they are when rendering.
func NewRefExtractor() *RefExtractor {
	return &RefExtractor{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.Footnote,
				extensions.NewWikiRefs(extensions.WithAttrBox(false)),
			),
		),
	}
}

// ExtractRefs parses markdown and returns its references in document order.
// References inside code blocks are ignored (handled by Goldmark).
func (e *RefExtractor) ExtractRefs(markdown string) []wiki.Ref {
	_, content := wiki.ParseFrontmatter(markdown)

	source := []byte(content)
	doc := e.md.Parser().Parse(text.NewReader(source), parser.WithContext(extensions.NewContext(nil)))

	var refs []wiki.Ref
	_ = gast.Walk(doc, func(n gast.Node, entering bool) (gast.WalkStatus, error) {
		if !entering {
			return gast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.AttrDecl:
			for _, filename := range n.Filenames {
				refs = append(refs, wiki.Ref{Kind: wiki.RefAttr, Type: n.AttrType, Filename: filename})
			}
			return gast.WalkSkipChildren, nil
		case *ast.WikiLink:
			refs = append(refs, wiki.Ref{Kind: wiki.RefLink, Type: n.LinkType, Filename: n.Filename})
		case *ast.WikiEmbed:
			refs = append(refs, wiki.Ref{Kind: wiki.RefEmbed, Filename: n.Filename})
			return gast.WalkSkipChildren, nil
		}
		return gast.WalkContinue, nil
	})
	return refs
}

// Targets returns the distinct filenames markdown refers to, in order of
// first appearance.
func (e *RefExtractor) Targets(markdown string) []string {
	seen := make(map[string]struct{})
	var targets []string
	for _, ref := range e.ExtractRefs(markdown) {
		if _, exists := seen[ref.Filename]; exists {
			continue
		}
		seen[ref.Filename] = struct{}{}
		targets = append(targets, ref.Filename)
	}
	return targets
}
