// Package grammar recognizes the wiki reference syntax: wikilinks
// (`[[file]]`, `[[file|label]]`, `:type::[[file]]`), attribute declarations
// (`type::[[a]],[[b]]` or a head line followed by a markdown list) and embeds
// (`![[file]]`).
//
// Every function here is pure: it reports a match and its captured parts and
// never keeps state between calls.
package grammar

import (
	"regexp"
	"strings"
)

var (
	// linkRegexp matches a typed or untyped wikilink anchored at the start.
	linkRegexp = regexp.MustCompile(`^(?::(?P<type>[^\n\r:\[\]]+)::)?\[\[(?P<filename>[^\[\]|\n\r]+)(?:\|(?P<label>[^\n\r]+?))?\]\]`)

	// embedRegexp matches an embed anchored at the start.
	embedRegexp = regexp.MustCompile(`^!\[\[(?P<filename>[^\[\]|\n\r]+)\]\]`)

	// wikiRegexp matches any wikilink-shaped substring, used to pull every
	// filename out of an inline attribute list.
	wikiRegexp = regexp.MustCompile(`\[\[([^\[\]|\n\r]+)(?:\|[^\n\r\]]+)?\]\]`)

	// attrHeadRegexp matches a whole attribute head line. The value part is
	// either empty (markdown-list form follows) or a run of wikilinks that may
	// be separated by commas and blanks.
	attrHeadRegexp = regexp.MustCompile(`^[ \t]*:?(?P<type>[^\n\r:\[\]]+)::[ \t]*(?P<values>(?:\[\[[^\[\]|\n\r]+(?:\|[^\n\r\]]+)?\]\][ \t]*,?[ \t]*)+)?[ \t]*$`)

	// attrListItemRegexp matches one markdown-list item holding a wikilink.
	attrListItemRegexp = regexp.MustCompile(`^[ \t]*(?P<bullet>[-*+])[ \t]+\[\[(?P<filename>[^\[\]|\n\r]+)(?:\|[^\n\r\]]+)?\]\][ \t]*$`)

	linkTypeIdx     = linkRegexp.SubexpIndex("type")
	linkFilenameIdx = linkRegexp.SubexpIndex("filename")
	linkLabelIdx    = linkRegexp.SubexpIndex("label")

	embedFilenameIdx = embedRegexp.SubexpIndex("filename")

	attrTypeIdx   = attrHeadRegexp.SubexpIndex("type")
	attrValuesIdx = attrHeadRegexp.SubexpIndex("values")

	listFilenameIdx = attrListItemRegexp.SubexpIndex("filename")
)

// LinkMatch is a wikilink found at the start of some input.
type LinkMatch struct {
	// Text is the full literal source of the match.
	Text string
	// Type is the trimmed link type, empty for untyped links.
	Type     string
	Filename string
	// Label is the text after `|`, empty when absent.
	Label string
}

// MatchLink reports the wikilink that starts exactly at the beginning of src.
func MatchLink(src []byte) (LinkMatch, bool) {
	m := linkRegexp.FindSubmatchIndex(src)
	if m == nil || m[0] != 0 {
		return LinkMatch{}, false
	}

	lm := LinkMatch{
		Text:     string(src[m[0]:m[1]]),
		Filename: group(src, m, linkFilenameIdx),
		Label:    group(src, m, linkLabelIdx),
	}
	lm.Type = strings.TrimSpace(group(src, m, linkTypeIdx))

	// The lead character disambiguates the two forms.
	switch {
	case lm.Type == "" && src[0] != '[':
		return LinkMatch{}, false
	case lm.Type != "" && src[0] != ':':
		return LinkMatch{}, false
	}
	return lm, true
}

// EmbedMatch is an embed found at the start of some input.
type EmbedMatch struct {
	Text     string
	Filename string
}

// MatchEmbed reports the embed that starts exactly at the beginning of src.
func MatchEmbed(src []byte) (EmbedMatch, bool) {
	m := embedRegexp.FindSubmatchIndex(src)
	if m == nil || m[0] != 0 {
		return EmbedMatch{}, false
	}
	return EmbedMatch{
		Text:     string(src[m[0]:m[1]]),
		Filename: group(src, m, embedFilenameIdx),
	}, true
}

// AttrHead is a recognized attribute declaration head line.
type AttrHead struct {
	// Type is the trimmed attribute type, as written.
	Type string
	// Filenames holds the inline-list values. It is empty when the
	// declaration continues as a markdown list on the following lines.
	Filenames []string
}

// ListForm reports whether the values are expected on following lines.
func (h AttrHead) ListForm() bool {
	return len(h.Filenames) == 0
}

// MatchAttrHead reports whether line (without its line terminator) is an
// attribute declaration head. A head written as a list item (`- type::...`)
// is rejected so list parsing can claim it.
func MatchAttrHead(line []byte) (AttrHead, bool) {
	line = trimEOL(line)
	m := attrHeadRegexp.FindSubmatchIndex(line)
	if m == nil {
		return AttrHead{}, false
	}
	if isBulleted(line[m[0]:m[1]]) {
		return AttrHead{}, false
	}

	head := AttrHead{Type: strings.TrimSpace(group(line, m, attrTypeIdx))}
	if head.Type == "" {
		return AttrHead{}, false
	}
	if values := group(line, m, attrValuesIdx); values != "" {
		head.Filenames = ExtractFilenames([]byte(values))
	}
	return head, true
}

// MatchAttrListItem reports the filename of a markdown-list attribute value.
func MatchAttrListItem(line []byte) (string, bool) {
	line = trimEOL(line)
	m := attrListItemRegexp.FindSubmatchIndex(line)
	if m == nil {
		return "", false
	}
	return group(line, m, listFilenameIdx), true
}

// ExtractFilenames returns the filename of every wikilink in src, in order.
func ExtractFilenames(src []byte) []string {
	var filenames []string
	for _, m := range wikiRegexp.FindAllSubmatch(src, -1) {
		filenames = append(filenames, string(m[1]))
	}
	return filenames
}

func isBulleted(s []byte) bool {
	if len(s) < 2 {
		return false
	}
	switch s[0] {
	case '-', '*', '+':
		return s[1] == ' '
	}
	return false
}

func trimEOL(line []byte) []byte {
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return line
}

func group(src []byte, m []int, idx int) string {
	if idx < 0 || m[2*idx] < 0 {
		return ""
	}
	return string(src[m[2*idx]:m[2*idx+1]])
}
