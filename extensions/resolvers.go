package extensions

import "strings"

// DefaultHTMLText displays a filename with hyphens read as spaces.
func DefaultHTMLText(_ *Env, filename string) (string, bool) {
	return strings.ReplaceAll(filename, "-", " "), true
}

// DefaultHTMLHref resolves every filename to a root-relative slug.
func DefaultHTMLHref(_ *Env, filename string) (string, bool) {
	return "/" + Slugify(filename), true
}

// DefaultEmbedContent stands in for real transclusion.
func DefaultEmbedContent(_ *Env, filename string) (string, bool) {
	return filename + " content", true
}

// target is a filename resolved for one render.
type target struct {
	href    string
	text    string
	docType string
	valid   bool
}

// resolve runs the href, text and doctype resolvers for filename. The
// target is valid only when the href resolves; the text falls back to the
// filename when it resolves empty.
func (c *Config) resolve(env *Env, filename string) target {
	href, ok := c.resolveHref(env, filename)
	if !ok {
		return target{}
	}
	t := target{href: c.BaseURL + href, valid: true}
	if text, ok := c.resolveText(env, filename); ok && text != "" {
		t.text = text
	} else {
		t.text = filename
	}
	if docType, ok := c.resolveDocType(env, filename); ok {
		t.docType = docType
	}
	return t
}
