package extensions

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	nonSlugChars = regexp.MustCompile(`[^\w-]+`)
	lower        = cases.Lower(language.Und)
)

// Slugify turns a type or doctype into a CSS class suffix: trimmed,
// lower-cased, blanks become hyphens and anything else outside [A-Za-z0-9_-]
// is dropped.
func Slugify(s string) string {
	s = lower.String(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "-")
	return nonSlugChars.ReplaceAllString(s, "")
}

// mediaSlug names a media embed in its src and alt attributes. Unlike
// Slugify it keeps every character.
func mediaSlug(filename string) string {
	return strings.ReplaceAll(lower.String(strings.TrimSpace(filename)), " ", "-")
}

// classList builds a class attribute value, skipping empty names.
type classList []string

func (c classList) add(names ...string) classList {
	for _, name := range names {
		if name != "" {
			c = append(c, name)
		}
	}
	return c
}

// prefixed adds prefix+Slugify(value) when value is not empty.
func (c classList) prefixed(prefix, value string) classList {
	if value == "" {
		return c
	}
	return c.add(prefix + Slugify(value))
}

func (c classList) String() string {
	return strings.Join(c, " ")
}
