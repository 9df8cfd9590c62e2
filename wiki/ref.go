package wiki

import "github.com/danielledeleo/wikirefs/extensions"

// RefKind is the syntax a reference was written with.
type RefKind string

const (
	RefAttr  RefKind = "attr"
	RefLink  RefKind = "link"
	RefEmbed RefKind = "embed"
)

// Ref is one outgoing reference of a document. Type is empty for untyped
// links and for embeds.
type Ref struct {
	Kind     RefKind `yaml:"kind" json:"kind"`
	Type     string  `yaml:"type,omitempty" json:"type,omitempty"`
	Filename string  `yaml:"filename" json:"filename"`
}

// Rendered is the outcome of rendering one document.
type Rendered struct {
	Filename string `json:"filename"`
	Title    string `json:"title"`
	HTML     string `json:"html"`
	// Refs holds the document's own references in document order. Those of
	// embedded documents are not included.
	Refs  []Ref                 `json:"refs"`
	Attrs *extensions.AttrTable `json:"-"`
}

// RefsOfKind filters refs by kind.
func RefsOfKind(refs []Ref, kind RefKind) []Ref {
	var out []Ref
	for _, ref := range refs {
		if ref.Kind == kind {
			out = append(out, ref)
		}
	}
	return out
}
