package service

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"

	"github.com/danielledeleo/wikirefs/extensions"
	"github.com/danielledeleo/wikirefs/render"
	"github.com/danielledeleo/wikirefs/wiki"
)

// RenderingService defines the interface for rendering documents.
type RenderingService interface {
	// RenderDocument renders a stored document with its embeds resolved.
	RenderDocument(filename string) (*wiki.Rendered, error)

	// RenderMarkdown renders markdown as if it were stored under filename.
	RenderMarkdown(filename, markdown string) (*wiki.Rendered, error)

	// PreviewMarkdown renders unsaved markdown.
	PreviewMarkdown(markdown string) (string, error)

	// CSSNames returns the class names the rendered HTML uses.
	CSSNames() extensions.CSSNames
}

// renderingService is the default implementation of RenderingService.
type renderingService struct {
	store     wiki.Store
	resolver  *wiki.Resolver
	renderer  *render.HTMLRenderer
	css       extensions.CSSNames
	sanitizer *bluemonday.Policy
}

// NewRenderingService creates a new RenderingService reading documents from
// store. A nil sanitizer leaves the HTML as rendered.
func NewRenderingService(store wiki.Store, conf *wiki.Config, sanitizer *bluemonday.Policy) RenderingService {
	resolver := wiki.NewResolver(store, conf.MediaURL)
	opts := append(conf.ExtensionOptions(), resolver.Options()...)
	renderer := render.NewHTMLRenderer(opts...)
	resolver.SetRenderFunc(renderer.Render)

	return &renderingService{
		store:     store,
		resolver:  resolver,
		renderer:  renderer,
		css:       extensions.NewConfig(opts...).CSS,
		sanitizer: sanitizer,
	}
}

// RenderDocument renders a stored document with its embeds resolved.
func (s *renderingService) RenderDocument(filename string) (*wiki.Rendered, error) {
	doc, err := s.store.GetDocument(filename)
	if err != nil {
		return nil, err
	}
	rendered, err := s.resolver.Render(doc)
	if err != nil {
		return nil, err
	}
	s.sanitize(rendered)
	return rendered, nil
}

// RenderMarkdown renders markdown as if it were stored under filename.
func (s *renderingService) RenderMarkdown(filename, markdown string) (*wiki.Rendered, error) {
	rendered, err := s.resolver.RenderMarkdown(filename, markdown)
	if err != nil {
		return nil, err
	}
	s.sanitize(rendered)
	return rendered, nil
}

// PreviewMarkdown renders unsaved markdown.
func (s *renderingService) PreviewMarkdown(markdown string) (string, error) {
	rendered, err := s.RenderMarkdown("", markdown)
	if err != nil {
		return "", err
	}
	return rendered.HTML, nil
}

func (s *renderingService) CSSNames() extensions.CSSNames {
	return s.css
}

func (s *renderingService) sanitize(rendered *wiki.Rendered) {
	if s.sanitizer != nil {
		rendered.HTML = s.sanitizer.Sanitize(rendered.HTML)
	}
}

// NewSanitizerPolicy returns a user-generated-content policy that keeps the
// markup wiki references render to.
func NewSanitizerPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(false)
	p.RequireNoFollowOnFullyQualifiedLinks(true)
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^[\w\- ]+$`)).Globally()
	p.AllowAttrs("data-href").OnElements("a")
	p.AllowElements("aside", "dl", "dt", "dd", "span", "i", "div")
	p.AllowAttrs("src", "alt").OnElements("span")
	p.AllowAttrs("controls", "type", "src").OnElements("audio", "video")
	p.AllowAttrs("id").Matching(bluemonday.SpaceSeparatedTokens).OnElements("h1", "h2", "h3", "h4", "h5", "h6", "li", "sup")
	return p
}
