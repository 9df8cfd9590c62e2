package wiki

import (
	"fmt"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
	"gopkg.in/yaml.v3"
)

// strictPolicy strips all HTML tags from frontmatter values.
var strictPolicy = bluemonday.StrictPolicy()

// frontmatterRegex matches YAML-style fences at document start.
// Requires newline or end-of-string after closing fence.
var frontmatterRegex = regexp.MustCompile(`(?s)\A---\r?\n(.*?)(?:\r?\n)?---(?:\r?\n|\z)`)

// Frontmatter holds parsed document metadata.
// Known fields are typed; unknown scalar fields go in Extra.
// All string values are sanitized to strip HTML on parse.
type Frontmatter struct {
	Title   string            `yaml:"title,omitempty"`
	DocType string            `yaml:"doctype,omitempty"`
	Extra   map[string]string `yaml:"-"`
}

// sanitize strips HTML from all string fields.
// Called automatically by ParseFrontmatter.
func (fm *Frontmatter) sanitize() {
	fm.Title = strictPolicy.Sanitize(fm.Title)
	fm.DocType = strictPolicy.Sanitize(fm.DocType)
	for k, v := range fm.Extra {
		fm.Extra[k] = strictPolicy.Sanitize(v)
	}
}

// ParseFrontmatter extracts YAML frontmatter from markdown.
// Returns parsed metadata and content with frontmatter stripped.
// On parse error, returns zero Frontmatter and original markdown.
func ParseFrontmatter(markdown string) (Frontmatter, string) {
	match := frontmatterRegex.FindStringSubmatch(markdown)
	if match == nil {
		return Frontmatter{}, markdown
	}

	// Parse into a map first to capture all fields
	var raw map[string]any
	if err := yaml.Unmarshal([]byte(match[1]), &raw); err != nil {
		return Frontmatter{}, markdown
	}

	fm := Frontmatter{}
	for k, v := range raw {
		var s string
		switch v := v.(type) {
		case string:
			s = v
		case nil:
			continue
		case map[string]any, []any:
			// nested values are not supported
			continue
		default:
			s = fmt.Sprint(v)
		}

		switch k {
		case "title":
			fm.Title = s
		case "doctype", "type":
			if fm.DocType == "" || k == "doctype" {
				fm.DocType = s
			}
		default:
			if fm.Extra == nil {
				fm.Extra = make(map[string]string)
			}
			fm.Extra[k] = s
		}
	}

	fm.sanitize()
	return fm, markdown[len(match[0]):]
}

// MarshalFrontmatter renders fm as a fenced YAML block, or the empty string
// when fm has no fields.
func MarshalFrontmatter(fm Frontmatter) (string, error) {
	m := make(map[string]string, len(fm.Extra)+2)
	for k, v := range fm.Extra {
		m[k] = v
	}
	if fm.Title != "" {
		m["title"] = fm.Title
	}
	if fm.DocType != "" {
		m["doctype"] = fm.DocType
	}
	if len(m) == 0 {
		return "", nil
	}

	out, err := yaml.Marshal(m)
	if err != nil {
		return "", err
	}
	return "---\n" + string(out) + "---\n", nil
}
