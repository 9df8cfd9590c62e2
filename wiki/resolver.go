package wiki

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/danielledeleo/wikirefs/extensions"
	"github.com/danielledeleo/wikirefs/grammar"
)

// RenderFunc renders markdown with env threaded through the pass.
type RenderFunc func(markdown string, env *extensions.Env) (string, error)

// Resolver answers the wikirefs callbacks from a Store. Embeds are
// transcluded by rendering the target document with the same Env; the
// Session carried by that Env stops cycles.
type Resolver struct {
	store    Store
	mediaURL string
	render   RenderFunc
}

// NewResolver returns a resolver reading from store. Media embeds point at
// mediaURL followed by the escaped filename.
func NewResolver(store Store, mediaURL string) *Resolver {
	return &Resolver{
		store:    store,
		mediaURL: mediaURL,
	}
}

// SetRenderFunc sets the function used for nested renders. The renderer
// is usually built from Options, so it is set after construction.
func (r *Resolver) SetRenderFunc(fn RenderFunc) {
	r.render = fn
}

// Options returns the extension options wiring every callback to r.
func (r *Resolver) Options() []extensions.Option {
	return []extensions.Option{
		extensions.WithPrepFile(r.PrepFile),
		extensions.WithHTMLTextResolver(r.HTMLText),
		extensions.WithHTMLHrefResolver(r.HTMLHref),
		extensions.WithDocTypeResolver(r.DocType),
		extensions.WithEmbedContentResolver(r.EmbedContent),
		extensions.WithAddAttr(r.AddAttr),
		extensions.WithAddLink(r.AddLink),
		extensions.WithAddEmbed(r.AddEmbed),
	}
}

func (r *Resolver) lookup(filename string) (*Document, bool) {
	doc, err := r.store.GetDocument(filename)
	if err != nil {
		if !errors.Is(err, ErrDocumentNotFound) {
			slog.Warn("document lookup failed", "filename", filename, "error", err)
		}
		return nil, false
	}
	return doc, true
}

// HTMLText resolves a filename to its document title.
func (r *Resolver) HTMLText(_ *extensions.Env, filename string) (string, bool) {
	if grammar.IsMedia(filename) {
		return filename, true
	}
	doc, ok := r.lookup(filename)
	if !ok {
		return "", false
	}
	return doc.Title(), true
}

// HTMLHref resolves a filename to a root-relative path. Documents missing
// from the store do not resolve; media files always do.
func (r *Resolver) HTMLHref(_ *extensions.Env, filename string) (string, bool) {
	if grammar.IsMedia(filename) {
		return r.mediaURL + url.PathEscape(filename), true
	}
	if _, ok := r.lookup(filename); !ok {
		return "", false
	}
	return "/" + url.PathEscape(filename), true
}

// DocType resolves a filename to its frontmatter doctype.
func (r *Resolver) DocType(_ *extensions.Env, filename string) (string, bool) {
	doc, ok := r.lookup(filename)
	if !ok {
		return "", false
	}
	docType := doc.DocType()
	return docType, docType != ""
}

// EmbedContent renders the embedded document. It does not resolve when the
// document is missing, when embedding it would loop back to a document
// being rendered, or when the nested render fails.
func (r *Resolver) EmbedContent(env *extensions.Env, filename string) (string, bool) {
	session := SessionOf(env)
	if session == nil || r.render == nil {
		return "", false
	}
	doc, ok := r.lookup(filename)
	if !ok {
		return "", false
	}

	if err := session.Enter(filename); err != nil {
		slog.Warn("skipping embed", "filename", filename, "error", err)
		return "", false
	}
	defer session.Leave()

	// The nested parse replaces the attribute table.
	attrs := env.Attrs
	defer func() { env.Attrs = attrs }()

	html, err := r.render(doc.Body(), env)
	if err != nil {
		slog.Warn("embed render failed", "filename", filename, "error", err)
		return "", false
	}
	return strings.TrimSuffix(html, "\n"), true
}

// PrepFile clears the references collected by a previous top-level render.
func (r *Resolver) PrepFile(env *extensions.Env) {
	if session := SessionOf(env); session != nil && !session.Nested() {
		session.Reset()
	}
}

// AddAttr records an attribute value of the top-level document.
func (r *Resolver) AddAttr(env *extensions.Env, attrType, filename string) {
	if session := SessionOf(env); session != nil {
		session.add(Ref{Kind: RefAttr, Type: attrType, Filename: filename})
	}
}

// AddLink records a wikilink of the top-level document.
func (r *Resolver) AddLink(env *extensions.Env, linkType, filename string) {
	if session := SessionOf(env); session != nil {
		session.add(Ref{Kind: RefLink, Type: linkType, Filename: filename})
	}
}

// AddEmbed records an embed of the top-level document.
func (r *Resolver) AddEmbed(env *extensions.Env, filename string) {
	if session := SessionOf(env); session != nil {
		session.add(Ref{Kind: RefEmbed, Filename: filename})
	}
}

// Render renders doc in a new session.
func (r *Resolver) Render(doc *Document) (*Rendered, error) {
	return r.RenderMarkdown(doc.Filename, doc.Markdown)
}

// RenderMarkdown renders markdown as if it were the document filename.
// Previews of unsaved text pass an empty filename.
func (r *Resolver) RenderMarkdown(filename, markdown string) (*Rendered, error) {
	if r.render == nil {
		return nil, errors.New("resolver has no render function")
	}

	fm, body := ParseFrontmatter(markdown)
	session := NewSession()
	if err := session.Enter(filename); err != nil {
		return nil, err
	}
	defer session.Leave()

	html, err := r.render(body, session.Env())
	if err != nil {
		return nil, fmt.Errorf("rendering %q: %w", filename, err)
	}

	title := fm.Title
	if title == "" {
		title = InferTitle(filename)
	}
	return &Rendered{
		Filename: filename,
		Title:    title,
		HTML:     html,
		Refs:     session.Refs(),
		Attrs:    session.Env().Attrs,
	}, nil
}
