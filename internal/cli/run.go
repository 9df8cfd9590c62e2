// Package cli implements the wikirefs command line: rendering and
// inspecting documents, building a vault to static HTML, importing
// markdown and serving the wiki over HTTP.
package cli

import (
	"context"
	"errors"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/danielledeleo/wikirefs/internal/config"
	"github.com/danielledeleo/wikirefs/wiki"
)

// runtime is shared by every command of one invocation.
type runtime struct {
	v          *viper.Viper
	configPath string
}

// config loads the configuration. Only long-running commands write a
// default file when none exists.
func (r *runtime) config(writeDefault bool) (*wiki.Config, error) {
	return config.Load(r.v, r.configPath, writeDefault)
}

func commands(rt *runtime) []*Command {
	return []*Command{
		renderCmd(rt),
		refsCmd(rt),
		buildCmd(rt),
		importCmd(rt),
		serveCmd(rt),
		demoCmd(rt),
	}
}

// Run is the main entry point. args includes the program name. Returns the
// exit code.
func Run(ctx context.Context, out, errOut io.Writer, args []string) int {
	o := NewIO(out, errOut)
	rt := &runtime{v: viper.New()}

	global := flag.NewFlagSet("wikirefs", flag.ContinueOnError)
	global.SetOutput(io.Discard)
	global.SetInterspersed(false)
	global.StringVarP(&rt.configPath, "config", "c", config.DefaultFilename, "configuration file")
	global.String("log-level", "", "log level: debug, info, warn or error")
	global.String("log-format", "", "log format: pretty, json or text")
	help := global.BoolP("help", "h", false, "show help")

	if len(args) > 0 {
		args = args[1:]
	}
	if err := global.Parse(args); err != nil {
		o.ErrPrintln("error:", err)
		printUsage(NewIO(errOut, errOut), rt, global)
		return 1
	}
	_ = rt.v.BindPFlag("log_level", global.Lookup("log-level"))
	_ = rt.v.BindPFlag("log_format", global.Lookup("log-format"))

	rest := global.Args()
	if *help || len(rest) == 0 {
		printUsage(o, rt, global)
		return 0
	}

	name := rest[0]
	for _, cmd := range commands(rt) {
		if cmd.Name() == name {
			return cmd.Run(ctx, o, rest[1:])
		}
	}

	o.ErrPrintln("error: unknown command:", name)
	printUsage(NewIO(errOut, errOut), rt, global)
	return 1
}

func printUsage(o *IO, rt *runtime, global *flag.FlagSet) {
	o.Println("wikirefs renders markdown vaults with wikilinks, attributes and embeds.")
	o.Println()
	o.Println("Usage: wikirefs [global flags] <command> [args]")
	o.Println()
	o.Println("Commands:")
	for _, cmd := range commands(rt) {
		o.Println(cmd.HelpLine())
	}
	o.Println()
	o.Println("Global flags:")

	var buf strings.Builder
	global.SetOutput(&buf)
	global.PrintDefaults()
	global.SetOutput(io.Discard)
	o.Printf("%s", buf.String())
}

// errUsage reports missing or extra positional arguments.
var errUsage = errors.New("wrong number of arguments")
