package cli

import (
	"context"

	flag "github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/danielledeleo/wikirefs/wiki"
	"github.com/danielledeleo/wikirefs/wiki/service"
)

// refsReport is the YAML document printed by the refs command.
type refsReport struct {
	Filename  string              `yaml:"filename"`
	Title     string              `yaml:"title"`
	Refs      []wiki.Ref          `yaml:"refs"`
	Attrs     map[string][]string `yaml:"attrs,omitempty"`
	Backlinks []service.Backlink  `yaml:"backlinks,omitempty"`
}

func refsCmd(rt *runtime) *Command {
	flags := flag.NewFlagSet("refs", flag.ContinueOnError)
	vaultDir := flags.String("vault", "", "read the markdown files below `dir` instead of the database")
	noBacklinks := flags.Bool("no-backlinks", false, "skip scanning the store for backlinks")

	return &Command{
		Flags: flags,
		Usage: "refs <filename|file.md> [flags]",
		Short: "List the references of a document as YAML",
		Long: `Render a document and print, as YAML, its references in document order,
its attributes and the documents that refer to it.`,
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

			report := refsReport{
				Filename: rendered.Filename,
				Title:    rendered.Title,
				Refs:     rendered.Refs,
			}
			if rendered.Attrs != nil && rendered.Attrs.Len() > 0 {
				report.Attrs = make(map[string][]string, rendered.Attrs.Len())
				for _, attrType := range rendered.Attrs.Types() {
					report.Attrs[attrType] = rendered.Attrs.Filenames(attrType)
				}
			}
			if !*noBacklinks {
				if report.Backlinks, err = ws.backlinks.GetBacklinks(rendered.Filename); err != nil {
					return err
				}
			}

			enc := yaml.NewEncoder(o.Out())
			enc.SetIndent(2)
			if err := enc.Encode(report); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}
