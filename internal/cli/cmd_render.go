package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/danielledeleo/wikirefs/render"
	"github.com/danielledeleo/wikirefs/wiki"
)

func renderCmd(rt *runtime) *Command {
	flags := flag.NewFlagSet("render", flag.ContinueOnError)
	vaultDir := flags.String("vault", "", "render against the markdown files below `dir` instead of the database")
	asJSON := flags.Bool("json", false, "print the title, HTML and references as JSON")
	check := flags.Bool("check", false, "fail when the rendered page has unresolved references")

	return &Command{
		Flags: flags,
		Usage: "render <filename|file.md> [flags]",
		Short: "Render a document to HTML",
		Long: `Render a stored document to HTML. When the argument names an existing
.md file, that file is rendered instead, resolving its references against
the store. With --check, unresolved references are listed on stderr and the
command fails when there are any.`,
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) != 1 {
				return errUsage
			}
			conf, err := rt.config(false)
			if err != nil {
				return err
			}
			ws, err := openWorkspace(conf, *vaultDir)
			if err != nil {
				return err
			}
			defer ws.Close()

			rendered, err := renderTarget(ws, args[0])
			if err != nil {
				return err
			}

			if *asJSON {
				enc := json.NewEncoder(o.Out())
				enc.SetIndent("", "  ")
				if err := enc.Encode(rendered); err != nil {
					return err
				}
			} else {
				o.Printf("%s", rendered.HTML)
			}

			if *check {
				return checkRefs(o, ws, rendered)
			}
			return nil
		},
	}
}

// renderTarget renders the markdown file at target when there is one, and
// the stored document named target otherwise.
func renderTarget(ws *workspace, target string) (*wiki.Rendered, error) {
	if strings.EqualFold(filepath.Ext(target), ".md") {
		if content, err := os.ReadFile(target); err == nil {
			return ws.rendering.RenderMarkdown(wiki.FilenameFromPath(target), string(content))
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	rendered, err := ws.rendering.RenderDocument(target)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", target, err)
	}
	return rendered, nil
}

// checkRefs lists the unresolved references of the rendered page, embedded
// documents included.
func checkRefs(o *IO, ws *workspace, rendered *wiki.Rendered) error {
	invalid, err := render.InvalidRefs(rendered.HTML, ws.rendering.CSSNames())
	if err != nil {
		return err
	}
	for _, text := range invalid {
		o.ErrPrintln("unresolved:", text)
	}
	if len(invalid) > 0 {
		return fmt.Errorf("%s: %d unresolved references", rendered.Filename, len(invalid))
	}
	return nil
}
