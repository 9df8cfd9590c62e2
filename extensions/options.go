package extensions

import (
	"dario.cat/mergo"
)

// ResolveFunc maps a filename to a string for the current render pass.
// The boolean result is false when the filename does not resolve.
type ResolveFunc func(env *Env, filename string) (string, bool)

// CSSNames holds every class name the wikirefs renderers emit.
type CSSNames struct {
	// shared by every reference anchor
	Wiki    string
	Invalid string
	// reference kinds
	Attr  string
	Link  string
	Type  string
	Embed string
	// prefixes completed by a slugified name
	RefType string
	DocType string
	// attribute box
	AttrBox      string
	AttrBoxTitle string
	// document embeds
	EmbedWrapper  string
	EmbedTitle    string
	EmbedLink     string
	EmbedContent  string
	EmbedLinkIcon string
	LinkIcon      string
	// media embeds
	EmbedMedia string
	EmbedAudio string
	EmbedDoc   string
	EmbedImage string
	EmbedVideo string
}

// AttrOptions configures attribute declarations.
type AttrOptions struct {
	Enable bool
	// Render controls whether the attribute box is inserted. Declarations
	// are still consumed and reported when it is false.
	Render bool
	Title  string
}

// LinkOptions configures wikilinks.
type LinkOptions struct {
	Enable bool
}

// EmbedOptions configures embeds.
type EmbedOptions struct {
	Enable bool
	// ErrorContent is followed by the quoted filename when the embed
	// content resolver reports no content.
	ErrorContent string
}

// Config is the resolved configuration shared by every wikirefs parser and
// renderer of one goldmark instance. It is never mutated while rendering.
type Config struct {
	// PrepFile runs once per render pass before any reference is rendered.
	PrepFile func(env *Env)

	ResolveHTMLText ResolveFunc
	// ResolveHTMLHref decides validity: a filename whose href does not
	// resolve is rendered as an invalid reference everywhere.
	ResolveHTMLHref ResolveFunc
	// ResolveDocType is optional.
	ResolveDocType ResolveFunc
	// ResolveEmbedContent returns the HTML transcluded by a document embed.
	// It may render another document with the same Env.
	ResolveEmbedContent ResolveFunc

	AddAttr  func(env *Env, attrType, filename string)
	AddLink  func(env *Env, linkType, filename string)
	AddEmbed func(env *Env, filename string)

	// BaseURL is prepended to every emitted href.
	BaseURL string
	CSS     CSSNames

	Attrs  AttrOptions
	Links  LinkOptions
	Embeds EmbedOptions
}

// Option configures the wikirefs extension.
type Option func(*Config)

// DefaultCSSNames returns the class names used when none are overridden.
func DefaultCSSNames() CSSNames {
	return CSSNames{
		Wiki:          "wiki",
		Invalid:       "invalid",
		Attr:          "attr",
		Link:          "link",
		Type:          "type",
		Embed:         "embed",
		RefType:       "reftype__",
		DocType:       "doctype__",
		AttrBox:       "attrbox",
		AttrBoxTitle:  "attrbox-title",
		EmbedWrapper:  "embed-wrapper",
		EmbedTitle:    "embed-title",
		EmbedLink:     "embed-link",
		EmbedContent:  "embed-content",
		EmbedLinkIcon: "embed-link-icon",
		LinkIcon:      "link-icon",
		EmbedMedia:    "embed-media",
		EmbedAudio:    "embed-audio",
		EmbedDoc:      "embed-doc",
		EmbedImage:    "embed-image",
		EmbedVideo:    "embed-video",
	}
}

func defaultConfig() Config {
	return Config{
		ResolveHTMLText:     DefaultHTMLText,
		ResolveHTMLHref:     DefaultHTMLHref,
		ResolveEmbedContent: DefaultEmbedContent,
		CSS:                 DefaultCSSNames(),
		Attrs: AttrOptions{
			Enable: true,
			Render: true,
			Title:  "Attributes",
		},
		Links: LinkOptions{
			Enable: true,
		},
		Embeds: EmbedOptions{
			Enable:       true,
			ErrorContent: "Error: Content not found for ",
		},
	}
}

// NewConfig returns the defaults with opts applied in order.
func NewConfig(opts ...Option) *Config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithPrepFile sets the hook run at the start of every render pass.
func WithPrepFile(fn func(env *Env)) Option {
	return func(c *Config) { c.PrepFile = fn }
}

// WithHTMLTextResolver sets the display text resolver.
func WithHTMLTextResolver(fn ResolveFunc) Option {
	return func(c *Config) {
		if fn != nil {
			c.ResolveHTMLText = fn
		}
	}
}

// WithHTMLHrefResolver sets the href resolver.
func WithHTMLHrefResolver(fn ResolveFunc) Option {
	return func(c *Config) {
		if fn != nil {
			c.ResolveHTMLHref = fn
		}
	}
}

// WithDocTypeResolver sets the optional doctype resolver.
func WithDocTypeResolver(fn ResolveFunc) Option {
	return func(c *Config) { c.ResolveDocType = fn }
}

// WithEmbedContentResolver sets the embed content resolver.
func WithEmbedContentResolver(fn ResolveFunc) Option {
	return func(c *Config) {
		if fn != nil {
			c.ResolveEmbedContent = fn
		}
	}
}

// WithAddAttr sets the callback fired once per attribute value.
func WithAddAttr(fn func(env *Env, attrType, filename string)) Option {
	return func(c *Config) { c.AddAttr = fn }
}

// WithAddLink sets the callback fired once per wikilink. Untyped links
// report an empty link type.
func WithAddLink(fn func(env *Env, linkType, filename string)) Option {
	return func(c *Config) { c.AddLink = fn }
}

// WithAddEmbed sets the callback fired once per embed.
func WithAddEmbed(fn func(env *Env, filename string)) Option {
	return func(c *Config) { c.AddEmbed = fn }
}

// WithBaseURL sets the prefix of every emitted href.
func WithBaseURL(url string) Option {
	return func(c *Config) { c.BaseURL = url }
}

// WithCSSNames overrides class names. Empty fields keep their current value.
func WithCSSNames(names CSSNames) Option {
	return func(c *Config) {
		if err := mergo.Merge(&c.CSS, names, mergo.WithOverride); err != nil {
			panic(err)
		}
	}
}

// WithAttrs enables or disables attribute declarations.
func WithAttrs(enable bool) Option {
	return func(c *Config) { c.Attrs.Enable = enable }
}

// WithAttrBox controls whether the attribute box is rendered.
func WithAttrBox(render bool) Option {
	return func(c *Config) { c.Attrs.Render = render }
}

// WithAttrBoxTitle sets the attribute box title.
func WithAttrBoxTitle(title string) Option {
	return func(c *Config) { c.Attrs.Title = title }
}

// WithLinks enables or disables wikilinks.
func WithLinks(enable bool) Option {
	return func(c *Config) { c.Links.Enable = enable }
}

// WithEmbeds enables or disables embeds.
func WithEmbeds(enable bool) Option {
	return func(c *Config) { c.Embeds.Enable = enable }
}

// WithEmbedErrorContent sets the text rendered for embeds without content.
func WithEmbedErrorContent(text string) Option {
	return func(c *Config) { c.Embeds.ErrorContent = text }
}

func (c *Config) resolveText(env *Env, filename string) (string, bool) {
	if c.ResolveHTMLText == nil {
		return "", false
	}
	return c.ResolveHTMLText(env, filename)
}

func (c *Config) resolveHref(env *Env, filename string) (string, bool) {
	if c.ResolveHTMLHref == nil {
		return "", false
	}
	return c.ResolveHTMLHref(env, filename)
}

func (c *Config) resolveDocType(env *Env, filename string) (string, bool) {
	if c.ResolveDocType == nil {
		return "", false
	}
	return c.ResolveDocType(env, filename)
}

func (c *Config) resolveEmbedContent(env *Env, filename string) (string, bool) {
	if c.ResolveEmbedContent == nil {
		return "", false
	}
	return c.ResolveEmbedContent(env, filename)
}
