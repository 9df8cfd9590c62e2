package extensions_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/danielledeleo/wikirefs/extensions"
	"github.com/danielledeleo/wikirefs/testutil"
)

// convert renders md with the wikirefs extension configured by opts only.
func convert(t *testing.T, md string, env *extensions.Env, opts ...extensions.Option) string {
	t.Helper()

	markdown := goldmark.New(
		goldmark.WithExtensions(
			extension.Footnote,
			extensions.NewWikiRefs(opts...),
		),
	)

	buf := &bytes.Buffer{}
	if err := extensions.Convert(markdown, []byte(md), buf, env); err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	return buf.String()
}

// render renders md against the fixture vault.
func render(t *testing.T, md string, opts ...extensions.Option) string {
	t.Helper()
	return convert(t, md, nil, append(testutil.FixtureOptions(), opts...)...)
}

func docType(_ *extensions.Env, _ string) (string, bool) {
	return "doctype", true
}

func TestDefaultResolvers(t *testing.T) {
	tests := []struct {
		name string
		md   string
		opts []extensions.Option
		want string
	}{
		{
			name: "attr box disabled",
			md:   "attrtype::[[fname-a]]\n",
			opts: []extensions.Option{extensions.WithAttrBox(false)},
			want: "",
		},
		{
			name: "attr",
			md:   "attrtype::[[fname-a]]\n",
			want: "<aside class=\"attrbox\">\n" +
				"<span class=\"attrbox-title\">Attributes</span>\n" +
				"<dl>\n" +
				"<dt>attrtype</dt>\n" +
				"<dd><a class=\"attr wiki reftype__attrtype doctype__doctype\" href=\"/fname-a\" data-href=\"/fname-a\">fname a</a></dd>\n" +
				"</dl>\n" +
				"</aside>\n",
		},
		{
			name: "typed link",
			md:   ":linktype::[[fname-a]].",
			want: "<p><a class=\"wiki link type reftype__linktype doctype__doctype\" href=\"/fname-a\" data-href=\"/fname-a\">fname a</a>.</p>\n",
		},
		{
			name: "untyped link",
			md:   "[[fname-a]].",
			want: "<p><a class=\"wiki link doctype__doctype\" href=\"/fname-a\" data-href=\"/fname-a\">fname a</a>.</p>\n",
		},
		{
			name: "embed",
			md:   "![[fname-a]].",
			want: "<p>\n<p>\n<div class=\"embed-wrapper\">\n" +
				"<div class=\"embed-title\">\n" +
				"<a class=\"wiki embed doctype__doctype\" href=\"/fname-a\" data-href=\"/fname-a\">\nfname a\n</a>\n" +
				"</div>\n" +
				"<div class=\"embed-link\">\n" +
				"<a class=\"embed-link-icon\" href=\"/fname-a\" data-href=\"/fname-a\">\n" +
				"<i class=\"link-icon\"></i>\n" +
				"</a>\n" +
				"</div>\n" +
				"<div class=\"embed-content\">\nfname-a content\n</div>\n" +
				"</div>\n</p>\n" +
				".</p>\n",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			opts := append([]extensions.Option{extensions.WithDocTypeResolver(docType)}, test.opts...)
			testutil.AssertHTML(t, convert(t, test.md, nil, opts...), test.want)
		})
	}
}

func TestBaseURL(t *testing.T) {
	got := render(t, "[[fname-a]]", extensions.WithBaseURL("https://wiki.example"))
	want := "<p><a class=\"wiki link\" href=\"https://wiki.example/tests/fixtures/fname-a\" data-href=\"https://wiki.example/tests/fixtures/fname-a\">title a</a></p>\n"
	testutil.AssertHTML(t, got, want)
}

func TestCSSNames(t *testing.T) {
	opts := []extensions.Option{
		extensions.WithCSSNames(extensions.CSSNames{Wiki: "ref", Link: "lnk", RefType: "kind-"}),
	}

	got := render(t, ":Link Type::[[fname-a]].", opts...)
	want := "<p><a class=\"ref lnk type kind-link-type\" href=\"/tests/fixtures/fname-a\" data-href=\"/tests/fixtures/fname-a\">title a</a>.</p>\n"
	testutil.AssertHTML(t, got, want)

	// Names that were not overridden keep their defaults.
	if got := render(t, "[[missing]]", opts...); !strings.Contains(got, `class="ref lnk invalid"`) {
		t.Errorf("expected default invalid class alongside overrides, got %q", got)
	}
}

type call struct {
	hook     string
	refType  string
	filename string
}

type recorder struct {
	env   *extensions.Env
	calls []call
}

func (r *recorder) options(t *testing.T) []extensions.Option {
	checkEnv := func(env *extensions.Env) {
		t.Helper()
		if r.env != nil && env != r.env {
			t.Errorf("callback received env %p, want %p", env, r.env)
		}
	}
	return append(testutil.FixtureOptions(),
		extensions.WithPrepFile(func(env *extensions.Env) {
			checkEnv(env)
			r.calls = append(r.calls, call{hook: "prep"})
		}),
		extensions.WithAddAttr(func(env *extensions.Env, attrType, filename string) {
			checkEnv(env)
			r.calls = append(r.calls, call{"attr", attrType, filename})
		}),
		extensions.WithAddLink(func(env *extensions.Env, linkType, filename string) {
			checkEnv(env)
			r.calls = append(r.calls, call{"link", linkType, filename})
		}),
		extensions.WithAddEmbed(func(env *extensions.Env, filename string) {
			checkEnv(env)
			r.calls = append(r.calls, call{"embed", "", filename})
		}),
	)
}

func TestMetadataCallbacks(t *testing.T) {
	tests := []struct {
		name string
		md   string
		want []call
	}{
		{
			name: "untyped link",
			md:   "[[fname-b]]",
			want: []call{{hook: "prep"}, {"link", "", "fname-b"}},
		},
		{
			name: "typed link",
			md:   ":linktype::[[fname-a]].",
			want: []call{{hook: "prep"}, {"link", "linktype", "fname-a"}},
		},
		{
			name: "unresolved link is still reported",
			md:   "[[missing]]",
			want: []call{{hook: "prep"}, {"link", "", "missing"}},
		},
		{
			name: "attr values in order",
			md:   "attrtype::[[fname-a]],[[fname-b]]\nother::\n- [[fname-c]]\n",
			want: []call{
				{hook: "prep"},
				{"attr", "attrtype", "fname-a"},
				{"attr", "attrtype", "fname-b"},
				{"attr", "other", "fname-c"},
			},
		},
		{
			name: "embed",
			md:   "![[fname-a]]",
			want: []call{{hook: "prep"}, {"embed", "", "fname-a"}},
		},
		{
			name: "document order",
			md:   "attrtype::[[fname-a]]\n\n[[fname-b]] then ![[fname-c]]\n",
			want: []call{
				{hook: "prep"},
				{"attr", "attrtype", "fname-a"},
				{"link", "", "fname-b"},
				{"embed", "", "fname-c"},
			},
		},
		{
			name: "no references",
			md:   "Plain text.",
			want: []call{{hook: "prep"}},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r := &recorder{env: extensions.NewEnv("session")}
			convert(t, test.md, r.env, r.options(t)...)

			if len(r.calls) != len(test.want) {
				t.Fatalf("got calls %v, want %v", r.calls, test.want)
			}
			for i := range test.want {
				if r.calls[i] != test.want[i] {
					t.Errorf("call %d: got %v, want %v", i, r.calls[i], test.want[i])
				}
			}
		})
	}
}

func TestPrepFileRunsEveryPass(t *testing.T) {
	r := &recorder{}
	markdown := goldmark.New(goldmark.WithExtensions(extensions.NewWikiRefs(r.options(t)...)))

	for i := 0; i < 3; i++ {
		if err := extensions.Convert(markdown, []byte("[[fname-a]]"), &bytes.Buffer{}, nil); err != nil {
			t.Fatalf("Convert failed: %v", err)
		}
	}

	preps := 0
	for _, c := range r.calls {
		if c.hook == "prep" {
			preps++
		}
	}
	if preps != 3 {
		t.Errorf("expected prep hook to run 3 times, ran %d", preps)
	}
}

func TestEnvAttrs(t *testing.T) {
	env := extensions.NewEnv(nil)

	convert(t, "type-a::[[fname-a]]\ntype-b::[[fname-b]],[[fname-c]]\ntype-a::[[fname-c]]\n", env, testutil.FixtureOptions()...)

	if got := env.Attrs.Types(); len(got) != 2 || got[0] != "type-a" || got[1] != "type-b" {
		t.Fatalf("unexpected attr types %v", got)
	}
	if got := env.Attrs.Filenames("type-a"); len(got) != 2 || got[0] != "fname-a" || got[1] != "fname-c" {
		t.Errorf("unexpected type-a values %v", got)
	}
	if got := env.Attrs.Filenames("type-b"); len(got) != 2 || got[0] != "fname-b" || got[1] != "fname-c" {
		t.Errorf("unexpected type-b values %v", got)
	}

	// The next parse starts from an empty table.
	convert(t, "No attributes here.", env, testutil.FixtureOptions()...)
	if env.Attrs.Len() != 0 {
		t.Errorf("expected a fresh attr table, got types %v", env.Attrs.Types())
	}
}

func TestEnvValueReachesResolvers(t *testing.T) {
	env := extensions.NewEnv("/vault")
	href := func(env *extensions.Env, filename string) (string, bool) {
		root, _ := env.Value.(string)
		return root + "/" + filename, true
	}

	got := convert(t, "[[page]]", env, extensions.WithHTMLHrefResolver(href))
	want := "<p><a class=\"wiki link\" href=\"/vault/page\" data-href=\"/vault/page\">page</a></p>\n"
	testutil.AssertHTML(t, got, want)
}

func TestFootnotes(t *testing.T) {
	tests := []struct {
		name string
		md   string
		want string
	}{
		{
			name: "typed attr syntax renders as a typed link",
			md:   "Text[^1].\n\n[^1]: :attrtype::[[fname-a]]\n",
			want: `<a class="wiki link type reftype__attrtype" href="/tests/fixtures/fname-a" data-href="/tests/fixtures/fname-a">title a</a>`,
		},
		{
			name: "unprefixed attr syntax renders as a link",
			md:   "Text[^1].\n\n[^1]: attrtype::[[fname-a]]\n",
			want: `attrtype::<a class="wiki link" href="/tests/fixtures/fname-a" data-href="/tests/fixtures/fname-a">title a</a>`,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := render(t, test.md)
			if !strings.Contains(got, test.want) {
				t.Errorf("expected output to contain %q, got:\n%s", test.want, got)
			}
			if strings.Contains(got, "attrbox") {
				t.Errorf("footnote declarations must not produce an attribute box, got:\n%s", got)
			}
		})
	}
}
