package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/webuild/log"
	"github.com/ardnew/webuild/pkg"
	"github.com/ardnew/webuild/profile"
)

// Init generates a configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	confPath := variable(ctx, ConfigIdentifier, "")
	if confPath == "" {
		panic("internal error: configuration path undefined")
	}

	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath), slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	data, err := yaml.MarshalWithOptions(i.config(ctx),
		yaml.Indent(defaultIndent),
		yaml.IndentSequence(true),
	)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(ErrYAMLMarshal.Wrap(err))
	}

	err = os.WriteFile(confPath, append([]byte(configHeader), data...), 0o644)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// config returns the configuration document of the current flag values, in
// flag order.
func (i *Init) config(ctx context.Context) yaml.MapSlice {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return nil
	}

	prefixIgnore := []string{"help", "version", profile.Tag}

	var doc yaml.MapSlice

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		if val := flagValue(ktx, flag); val != nil {
			doc = append(doc, yaml.MapItem{Key: flag.Name, Value: val})
		}
	}

	return doc
}

// flagValue returns the configuration value of a flag, or nil if it is
// unset.
func flagValue(ktx *kong.Context, flag *kong.Flag) any {
	switch v := ktx.FlagValue(flag).(type) {
	case nil:
		return nil

	case bool, int, int64, uint, uint64, float64:
		return v

	case string:
		if v == "" {
			return nil
		}

		return v

	case []string:
		if len(v) == 0 {
			return nil
		}

		return v

	default:
		if s := fmt.Sprint(v); s != "" {
			return s
		}

		return nil
	}
}

// configHeader is written above the generated configuration.
var configHeader = "# " + pkg.Name + " " + pkg.Version + " configuration\n"
