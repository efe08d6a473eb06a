package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/ardnew/webuild/cli/cmd"
	"github.com/ardnew/webuild/pkg"
)

// baseConfig is the base name of the configuration files.
const baseConfig = "config"

// defaultDirMode is the permission mode of created runtime directories.
const defaultDirMode os.FileMode = 0o700

// CLI is the top-level command-line interface for webuild.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Include []string `help:"Directory searched for sources before $WEBUILD_PATH (repeatable)" placeholder:"DIR" short:"I" type:"path"`
	OutDir  string   `help:"Directory relative outputs are written to"                       placeholder:"DIR" default:"." type:"path"`

	Version kong.VersionFlag `help:"Print version and exit" short:"V"`

	Build   cmd.Build   `cmd:"" default:"withargs" help:"Build a source file (default)"`
	Deps    cmd.Deps    `cmd:""                    help:"List the inclusions of a source file"`
	Inspect cmd.Inspect `cmd:""                    help:"Classify each line of a source file"`
	Init    cmd.Init    `cmd:""                    help:"Initialize configuration file"`
	Repl    cmd.Repl    `cmd:""                    help:"Start an interactive substitution session"`
}

// Run executes the webuild CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := filepath.Join(pkg.ConfigDir(), baseConfig)

	vars := kong.Vars{
		"version":            pkg.Version,
		cmd.ConfigIdentifier: configFilePath + ".yaml",
		cmd.CacheIdentifier:  pkg.CacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Configure the logger before parsing so that parse errors use it.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(resolve, configFilePath+".yaml"),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithOptions(ctx, cmd.Options{
		Include: cli.Include,
		OutDir:  cli.OutDir,
	})

	cli.Log.start(ctx)

	// [pprofConfig.start] is a no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}

// mkdirAllRequired creates the configuration and cache directories.
func mkdirAllRequired() error {
	for _, dir := range []string{pkg.ConfigDir(), pkg.CacheDir()} {
		err := os.MkdirAll(dir, defaultDirMode)
		if err != nil {
			return err
		}
	}

	return nil
}
