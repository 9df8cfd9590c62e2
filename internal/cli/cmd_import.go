package cli

import (
	"context"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/danielledeleo/wikirefs/internal/vault"
)

func importCmd(rt *runtime) *Command {
	flags := flag.NewFlagSet("import", flag.ContinueOnError)

	return &Command{
		Flags: flags,
		Usage: "import <path>...",
		Short: "Store markdown files in the database",
		Long: `Store markdown files in the configured database. Directories are walked
recursively; hidden entries and editor backups are skipped. A document
keeps the name of its file without the .md extension.`,
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) == 0 {
				return errUsage
			}
			conf, err := rt.config(false)
			if err != nil {
				return err
			}
			ws, err := openWorkspace(conf, "")
			if err != nil {
				return err
			}
			defer ws.Close()

			var total vault.Stats
			for _, path := range args {
				info, err := os.Stat(path)
				if err != nil {
					return err
				}

				var stats vault.Stats
				if info.IsDir() {
					stats, err = vault.ImportDir(path, ws.docs)
				} else {
					stats, err = vault.ImportFiles(ws.docs, path)
				}
				if err != nil {
					return err
				}
				total.Imported += stats.Imported
				total.Unchanged += stats.Unchanged
				total.Skipped += stats.Skipped
			}

			o.Printf("imported %d, unchanged %d, skipped %d\n", total.Imported, total.Unchanged, total.Skipped)
			return nil
		},
	}
}
