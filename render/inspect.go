package render

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/danielledeleo/wikirefs/extensions"
	"github.com/danielledeleo/wikirefs/wiki"
)

// RenderedRef is a reference anchor found in rendered HTML.
type RenderedRef struct {
	Kind    wiki.RefKind
	Href    string
	Text    string
	Invalid bool
}

// InspectHTML lists the reference anchors of a rendered fragment, using the
// class names in css to recognize them. Embed link icons are skipped; the
// embed title anchor stands for the embed.
func InspectHTML(fragment string, css extensions.CSSNames) ([]RenderedRef, error) {
	fakeBody := &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), fakeBody)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		fakeBody.AppendChild(n)
	}

	document := goquery.NewDocumentFromNode(fakeBody)

	var refs []RenderedRef
	document.Find("a." + css.Wiki).Each(func(_ int, s *goquery.Selection) {
		ref := RenderedRef{
			Text:    strings.TrimSpace(s.Text()),
			Invalid: s.HasClass(css.Invalid),
		}
		switch {
		case s.HasClass(css.Attr):
			ref.Kind = wiki.RefAttr
		case s.HasClass(css.Embed):
			ref.Kind = wiki.RefEmbed
		case s.HasClass(css.Link):
			ref.Kind = wiki.RefLink
		default:
			return
		}
		ref.Href, _ = s.Attr("href")
		refs = append(refs, ref)
	})
	return refs, nil
}

// InvalidRefs returns the text of every unresolved reference in fragment.
func InvalidRefs(fragment string, css extensions.CSSNames) ([]string, error) {
	refs, err := InspectHTML(fragment, css)
	if err != nil {
		return nil, err
	}
	var invalid []string
	for _, ref := range refs {
		if ref.Invalid {
			invalid = append(invalid, ref.Text)
		}
	}
	return invalid, nil
}
