package extensions

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	wast "github.com/danielledeleo/wikirefs/extensions/ast"
)

// prepFileTransformer runs last. It attaches the Env to the document, makes
// sure the Env holds this document's attribute table and, when a prep hook
// is configured, puts a PrepFile node in front of
// everything else so the hook fires before any reference renders.
type prepFileTransformer struct {
	cfg *Config
}

func (t *prepFileTransformer) Transform(node *ast.Document, reader text.Reader, pc parser.Context) {
	node.AddMeta(envMetaKey, envFromContext(pc))
	attrTableFromContext(pc)
	if t.cfg.PrepFile == nil {
		return
	}
	prep := wast.NewPrepFile()
	if first := node.FirstChild(); first != nil {
		node.InsertBefore(node, first, prep)
	} else {
		node.AppendChild(node, prep)
	}
}

type prepFileRenderer struct {
	cfg *Config
}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *prepFileRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(wast.KindPrepFile, r.renderPrepFile)
}

func (r *prepFileRenderer) renderPrepFile(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering && r.cfg.PrepFile != nil {
		r.cfg.PrepFile(EnvOf(node))
	}
	return ast.WalkContinue, nil
}
