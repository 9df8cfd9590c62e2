package extensions

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	wast "github.com/danielledeleo/wikirefs/extensions/ast"
	"github.com/danielledeleo/wikirefs/grammar"
)

// attrParser recognizes attribute declarations at the top level of a
// document. Declarations inside lists, blockquotes and footnotes are left
// alone. A declaration is either a single line holding its values or a head
// line followed by one markdown list item per value; the list ends at the
// first line that is not such an item.
type attrParser struct{}

var pendingItemsKey = parser.NewContextKey()

// NewAttrParser returns the attribute declaration block parser.
func NewAttrParser() parser.BlockParser {
	return &attrParser{}
}

// Trigger returns nil: heads may start with any character of a type name.
func (p *attrParser) Trigger() []byte {
	return nil
}

func (p *attrParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	if parent.Kind() != ast.KindDocument || lazyContinuation(pc) {
		return nil, parser.NoChildren
	}
	line, segment := reader.PeekLine()
	head, ok := grammar.MatchAttrHead(line)
	if !ok {
		return nil, parser.NoChildren
	}

	filenames := head.Filenames
	pending := 0
	if head.ListForm() {
		filenames = peekListItems(reader)
		pending = len(filenames)
	}
	if len(filenames) == 0 {
		return nil, parser.NoChildren
	}

	attrTableFromContext(pc).Add(head.Type, filenames...)

	node := wast.NewAttrDecl(head.Type, filenames)
	pc.Set(pendingItemsKey, pending)
	reader.Advance(segment.Len() - 1)
	return node, parser.NoChildren
}

// lazyContinuation reports whether the current line would continue a
// paragraph nested in a blockquote, list item or footnote. Such a line
// belongs to that paragraph even without its container's marker.
func lazyContinuation(pc parser.Context) bool {
	last := pc.LastOpenedBlock().Node
	if last == nil || last.Kind() != ast.KindParagraph {
		return false
	}
	return last.Parent() != nil && last.Parent().Kind() != ast.KindDocument
}

// peekListItems collects the list-form values below the current line
// without moving the reader.
func peekListItems(reader text.Reader) []string {
	lineNum, pos := reader.Position()
	defer reader.SetPosition(lineNum, pos)

	var filenames []string
	reader.AdvanceLine()
	for {
		line, _ := reader.PeekLine()
		if line == nil {
			break
		}
		filename, ok := grammar.MatchAttrListItem(line)
		if !ok {
			break
		}
		filenames = append(filenames, filename)
		reader.AdvanceLine()
	}
	return filenames
}

func (p *attrParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	pending, _ := pc.Get(pendingItemsKey).(int)
	if pending <= 0 {
		return parser.Close
	}
	_, segment := reader.PeekLine()
	reader.Advance(segment.Len() - 1)
	pc.Set(pendingItemsKey, pending-1)
	return parser.Continue | parser.NoChildren
}

func (p *attrParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {
	pc.Set(pendingItemsKey, nil)
}

func (p *attrParser) CanInterruptParagraph() bool {
	return true
}

func (p *attrParser) CanAcceptIndentedLine() bool {
	return false
}

// attrBoxTransformer inserts the attribute box at the front of a document
// that declared at least one attribute.
type attrBoxTransformer struct{}

func (t *attrBoxTransformer) Transform(node *ast.Document, reader text.Reader, pc parser.Context) {
	table := attrTableFromContext(pc)
	if table.Len() == 0 {
		return
	}

	box := wast.NewAttrBox()
	for _, attrType := range table.Types() {
		box.AppendChild(box, wast.NewAttrKey(attrType))
		for _, filename := range table.Filenames(attrType) {
			if filename == "" {
				continue
			}
			box.AppendChild(box, wast.NewAttrValue(attrType, filename))
		}
	}

	if first := node.FirstChild(); first != nil {
		node.InsertBefore(node, first, box)
	} else {
		node.AppendChild(node, box)
	}
}

type attrRenderer struct {
	cfg *Config
}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *attrRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(wast.KindAttrDecl, r.renderAttrDecl)
	reg.Register(wast.KindAttrBox, r.renderAttrBox)
	reg.Register(wast.KindAttrKey, r.renderAttrKey)
	reg.Register(wast.KindAttrValue, r.renderAttrValue)
}

// renderAttrDecl writes nothing; it reports the declared values.
func (r *attrRenderer) renderAttrDecl(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering || r.cfg.AddAttr == nil {
		return ast.WalkContinue, nil
	}
	n := node.(*wast.AttrDecl)
	env := EnvOf(node)
	for _, filename := range n.Filenames {
		r.cfg.AddAttr(env, n.AttrType, filename)
	}
	return ast.WalkContinue, nil
}

func (r *attrRenderer) renderAttrBox(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	css := r.cfg.CSS
	if entering {
		_, _ = w.WriteString(`<aside class="` + css.AttrBox + `">` + "\n")
		_, _ = w.WriteString(`<span class="` + css.AttrBoxTitle + `">`)
		writeEscaped(w, r.cfg.Attrs.Title)
		_, _ = w.WriteString("</span>\n<dl>\n")
	} else {
		_, _ = w.WriteString("</dl>\n</aside>\n")
	}
	return ast.WalkContinue, nil
}

func (r *attrRenderer) renderAttrKey(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*wast.AttrKey)
	if n.AttrType == "" {
		_, _ = w.WriteString("<dt>attrtype error</dt>\n")
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString("<dt>")
	writeEscaped(w, n.AttrType)
	_, _ = w.WriteString("</dt>\n")
	return ast.WalkContinue, nil
}

func (r *attrRenderer) renderAttrValue(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*wast.AttrValue)
	css := r.cfg.CSS
	if n.Filename == "" {
		_, _ = w.WriteString("<dd>filename error</dd>\n")
		return ast.WalkContinue, nil
	}

	t := r.cfg.resolve(EnvOf(node), n.Filename)
	if !t.valid {
		_, _ = w.WriteString(`<dd><a class="` + classList{}.add(css.Attr, css.Wiki, css.Invalid).String() + `">[[`)
		writeEscaped(w, n.Filename)
		_, _ = w.WriteString("]]</a></dd>\n")
		return ast.WalkContinue, nil
	}

	classes := classList{}.add(css.Attr, css.Wiki).
		prefixed(css.RefType, n.AttrType).
		prefixed(css.DocType, t.docType)
	_, _ = w.WriteString("<dd>")
	writeAnchorOpen(w, classes, t.href)
	writeEscaped(w, t.text)
	_, _ = w.WriteString("</a></dd>\n")
	return ast.WalkContinue, nil
}
