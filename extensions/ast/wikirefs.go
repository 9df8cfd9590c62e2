// Package ast defines the goldmark node kinds produced by the wikirefs parsers.
package ast

import (
	"fmt"
	"strings"

	gast "github.com/yuin/goldmark/ast"

	"github.com/danielledeleo/wikirefs/grammar"
)

// PrepFile is inserted at the front of a document when a file-prep hook is
// configured. Rendering it fires the hook before any reference is rendered.
type PrepFile struct {
	gast.BaseBlock
}

// Dump implements Node.Dump.
func (n *PrepFile) Dump(source []byte, level int) {
	gast.DumpHelper(n, source, level, nil, nil)
}

// KindPrepFile is a NodeKind of the PrepFile node.
var KindPrepFile = gast.NewNodeKind("PrepFile")

// Kind implements Node.Kind.
func (n *PrepFile) Kind() gast.NodeKind {
	return KindPrepFile
}

// NewPrepFile returns a new PrepFile node.
func NewPrepFile() *PrepFile {
	return &PrepFile{}
}

// AttrDecl is one consumed attribute declaration. It renders nothing itself;
// it only reports its filenames to the attribute metadata callback.
type AttrDecl struct {
	gast.BaseBlock
	AttrType  string
	Filenames []string
}

// Dump implements Node.Dump.
func (n *AttrDecl) Dump(source []byte, level int) {
	m := map[string]string{
		"AttrType":  n.AttrType,
		"Filenames": strings.Join(n.Filenames, ", "),
	}
	gast.DumpHelper(n, source, level, m, nil)
}

// KindAttrDecl is a NodeKind of the AttrDecl node.
var KindAttrDecl = gast.NewNodeKind("AttrDecl")

// Kind implements Node.Kind.
func (n *AttrDecl) Kind() gast.NodeKind {
	return KindAttrDecl
}

// NewAttrDecl returns a new AttrDecl node.
func NewAttrDecl(attrType string, filenames []string) *AttrDecl {
	return &AttrDecl{
		AttrType:  attrType,
		Filenames: filenames,
	}
}

// AttrBox is the definition-list aside collecting every attribute of a
// document. Its children are AttrKey and AttrValue nodes.
type AttrBox struct {
	gast.BaseBlock
}

// Dump implements Node.Dump.
func (n *AttrBox) Dump(source []byte, level int) {
	gast.DumpHelper(n, source, level, nil, nil)
}

// KindAttrBox is a NodeKind of the AttrBox node.
var KindAttrBox = gast.NewNodeKind("AttrBox")

// Kind implements Node.Kind.
func (n *AttrBox) Kind() gast.NodeKind {
	return KindAttrBox
}

// NewAttrBox returns a new AttrBox node.
func NewAttrBox() *AttrBox {
	return &AttrBox{}
}

// AttrKey is the term of one attribute type inside an AttrBox.
type AttrKey struct {
	gast.BaseBlock
	AttrType string
}

// Dump implements Node.Dump.
func (n *AttrKey) Dump(source []byte, level int) {
	gast.DumpHelper(n, source, level, map[string]string{"AttrType": n.AttrType}, nil)
}

// KindAttrKey is a NodeKind of the AttrKey node.
var KindAttrKey = gast.NewNodeKind("AttrKey")

// Kind implements Node.Kind.
func (n *AttrKey) Kind() gast.NodeKind {
	return KindAttrKey
}

// NewAttrKey returns a new AttrKey node.
func NewAttrKey(attrType string) *AttrKey {
	return &AttrKey{AttrType: attrType}
}

// AttrValue is one wikilink value of an attribute type inside an AttrBox.
type AttrValue struct {
	gast.BaseBlock
	AttrType string
	Filename string
}

// Dump implements Node.Dump.
func (n *AttrValue) Dump(source []byte, level int) {
	m := map[string]string{
		"AttrType": n.AttrType,
		"Filename": n.Filename,
	}
	gast.DumpHelper(n, source, level, m, nil)
}

// KindAttrValue is a NodeKind of the AttrValue node.
var KindAttrValue = gast.NewNodeKind("AttrValue")

// Kind implements Node.Kind.
func (n *AttrValue) Kind() gast.NodeKind {
	return KindAttrValue
}

// NewAttrValue returns a new AttrValue node.
func NewAttrValue(attrType, filename string) *AttrValue {
	return &AttrValue{
		AttrType: attrType,
		Filename: filename,
	}
}

// WikiLink is a typed or untyped wikilink.
type WikiLink struct {
	gast.BaseInline
	Filename string
	// LinkType is empty for untyped links.
	LinkType string
	// Label is empty when the link has no `|label`.
	Label string
	// Source is the literal matched text, rendered as-is when the
	// filename does not resolve.
	Source string
}

// Dump implements Node.Dump.
func (n *WikiLink) Dump(source []byte, level int) {
	m := map[string]string{
		"Filename": n.Filename,
		"LinkType": n.LinkType,
		"Label":    n.Label,
		"Source":   n.Source,
	}
	gast.DumpHelper(n, source, level, m, nil)
}

// KindWikiLink is a NodeKind of the WikiLink node.
var KindWikiLink = gast.NewNodeKind("WikiLink")

// Kind implements Node.Kind.
func (n *WikiLink) Kind() gast.NodeKind {
	return KindWikiLink
}

// NewWikiLink returns a new WikiLink node.
func NewWikiLink(m grammar.LinkMatch) *WikiLink {
	return &WikiLink{
		Filename: m.Filename,
		LinkType: m.Type,
		Label:    m.Label,
		Source:   m.Text,
	}
}

// WikiEmbed wraps an embed. Document embeds hold EmbedTitle, EmbedLink and
// EmbedContent children; media embeds hold a single EmbedMedia child.
type WikiEmbed struct {
	gast.BaseInline
	Filename string
	Media    grammar.MediaKind
}

// IsMedia reports whether the embed targets an audio, image or video file.
func (n *WikiEmbed) IsMedia() bool {
	return n.Media != grammar.MediaNone
}

// Dump implements Node.Dump.
func (n *WikiEmbed) Dump(source []byte, level int) {
	m := map[string]string{
		"Filename": n.Filename,
		"Media":    fmt.Sprint(n.Media),
	}
	gast.DumpHelper(n, source, level, m, nil)
}

// KindWikiEmbed is a NodeKind of the WikiEmbed node.
var KindWikiEmbed = gast.NewNodeKind("WikiEmbed")

// Kind implements Node.Kind.
func (n *WikiEmbed) Kind() gast.NodeKind {
	return KindWikiEmbed
}

// NewWikiEmbed returns a new WikiEmbed node with its children attached.
func NewWikiEmbed(filename string) *WikiEmbed {
	n := &WikiEmbed{
		Filename: filename,
		Media:    grammar.ClassifyMedia(filename),
	}
	if n.IsMedia() {
		n.AppendChild(n, &EmbedMedia{embedPart{Filename: filename}})
		return n
	}
	n.AppendChild(n, &EmbedTitle{embedPart{Filename: filename}})
	n.AppendChild(n, &EmbedLink{embedPart{Filename: filename}})
	n.AppendChild(n, &EmbedContent{embedPart{Filename: filename}})
	return n
}

type embedPart struct {
	gast.BaseInline
	Filename string
}

// EmbedTitle is the resolved title anchor of a document embed.
type EmbedTitle struct{ embedPart }

// EmbedLink is the icon link of a document embed.
type EmbedLink struct{ embedPart }

// EmbedContent is the transcluded body of a document embed.
type EmbedContent struct{ embedPart }

// EmbedMedia is the audio, image or video tag of a media embed.
type EmbedMedia struct{ embedPart }

var (
	// KindEmbedTitle is a NodeKind of the EmbedTitle node.
	KindEmbedTitle = gast.NewNodeKind("EmbedTitle")
	// KindEmbedLink is a NodeKind of the EmbedLink node.
	KindEmbedLink = gast.NewNodeKind("EmbedLink")
	// KindEmbedContent is a NodeKind of the EmbedContent node.
	KindEmbedContent = gast.NewNodeKind("EmbedContent")
	// KindEmbedMedia is a NodeKind of the EmbedMedia node.
	KindEmbedMedia = gast.NewNodeKind("EmbedMedia")
)

// Kind implements Node.Kind.
func (n *EmbedTitle) Kind() gast.NodeKind { return KindEmbedTitle }

// Kind implements Node.Kind.
func (n *EmbedLink) Kind() gast.NodeKind { return KindEmbedLink }

// Kind implements Node.Kind.
func (n *EmbedContent) Kind() gast.NodeKind { return KindEmbedContent }

// Kind implements Node.Kind.
func (n *EmbedMedia) Kind() gast.NodeKind { return KindEmbedMedia }

// Dump implements Node.Dump.
func (n *EmbedTitle) Dump(source []byte, level int) { n.dump(n, source, level) }

// Dump implements Node.Dump.
func (n *EmbedLink) Dump(source []byte, level int) { n.dump(n, source, level) }

// Dump implements Node.Dump.
func (n *EmbedContent) Dump(source []byte, level int) { n.dump(n, source, level) }

// Dump implements Node.Dump.
func (n *EmbedMedia) Dump(source []byte, level int) { n.dump(n, source, level) }

func (p *embedPart) dump(n gast.Node, source []byte, level int) {
	gast.DumpHelper(n, source, level, map[string]string{"Filename": p.Filename}, nil)
}
