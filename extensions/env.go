package extensions

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
)

// Env is the caller-owned state threaded through one render pass and every
// nested pass an embed triggers while rendering it.
type Env struct {
	// Attrs is replaced with a fresh table each time a document is parsed.
	Attrs *AttrTable
	// Value carries arbitrary caller state, typically a session with
	// recursion guards and collected references.
	Value any
}

// NewEnv returns an Env carrying value and an empty attribute table.
func NewEnv(value any) *Env {
	return &Env{
		Attrs: NewAttrTable(),
		Value: value,
	}
}

// attrItem is one attribute value.
type attrItem struct {
	// Kind is always "wiki"; other value kinds are not recognized.
	Kind     string
	Filename string
}

// AttrTable maps attribute types to their values. Types keep their first
// declaration order and values keep their declaration order.
type AttrTable struct {
	types []string
	items map[string][]attrItem
}

// NewAttrTable returns an empty table.
func NewAttrTable() *AttrTable {
	return &AttrTable{items: map[string][]attrItem{}}
}

// Add appends filenames to attrType. Declaring a type again concatenates.
func (t *AttrTable) Add(attrType string, filenames ...string) {
	if _, ok := t.items[attrType]; !ok {
		t.types = append(t.types, attrType)
		t.items[attrType] = nil
	}
	for _, filename := range filenames {
		t.items[attrType] = append(t.items[attrType], attrItem{Kind: "wiki", Filename: filename})
	}
}

// Types returns the attribute types in first declaration order.
func (t *AttrTable) Types() []string {
	return append([]string(nil), t.types...)
}

// Filenames returns the value filenames of attrType.
func (t *AttrTable) Filenames(attrType string) []string {
	items := t.items[attrType]
	if len(items) == 0 {
		return nil
	}
	filenames := make([]string, len(items))
	for i, item := range items {
		filenames[i] = item.Filename
	}
	return filenames
}

// Len returns the number of attribute types.
func (t *AttrTable) Len() int {
	return len(t.types)
}

var (
	envKey   = parser.NewContextKey()
	attrsKey = parser.NewContextKey()
)

// envMetaKey stores the Env on the parsed document so renderers can reach it.
const envMetaKey = "wikirefs.env"

// NewContext returns a parser context that threads env through the parse
// and the following render. Pass it with parser.WithContext.
func NewContext(env *Env) parser.Context {
	pc := parser.NewContext()
	pc.Set(envKey, env)
	return pc
}

// envFromContext returns the Env of pc, creating and storing one when the
// caller did not provide it.
func envFromContext(pc parser.Context) *Env {
	if env, ok := pc.Get(envKey).(*Env); ok && env != nil {
		return env
	}
	env := NewEnv(nil)
	pc.Set(envKey, env)
	return env
}

// attrTableFromContext returns the table of the document being parsed.
func attrTableFromContext(pc parser.Context) *AttrTable {
	if table, ok := pc.Get(attrsKey).(*AttrTable); ok {
		return table
	}
	table := NewAttrTable()
	pc.Set(attrsKey, table)
	envFromContext(pc).Attrs = table
	return table
}

// EnvOf returns the Env of the document n belongs to, or nil when n is
// detached or the document was not parsed with the wikirefs extension.
func EnvOf(n ast.Node) *Env {
	if n == nil {
		return nil
	}
	var doc ast.Node = n
	for doc.Parent() != nil {
		doc = doc.Parent()
	}
	d, ok := doc.(*ast.Document)
	if !ok {
		return nil
	}
	env, _ := d.Meta()[envMetaKey].(*Env)
	return env
}
