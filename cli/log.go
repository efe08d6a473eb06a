package cli

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/webuild/log"
)

// logFormat configures the default logger format as a side effect of parsing
// via encoding.TextUnmarshaler, so that errors reported while parsing the
// remaining flags already use it.
type logFormat string

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

// logLevel configures the default logger level as a side effect of parsing.
type logLevel string

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"${logLevelDefault}"  enum:"${logLevelEnum}"  help:"Set log level."`
	Format     logFormat `default:"${logFormatDefault}" enum:"${logFormatEnum}" help:"Set log format."`
	TimeLayout string    `default:"${logTimeDefault}"                           help:"Set timestamp format (layout or name, e.g. RFC3339, kitchen, none)."`
	Caller     bool      `default:"false"                                       help:"Include caller information."      negatable:""`
	Pretty     bool      `default:"true"                                        help:"Style log output on a terminal." negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevelDefault":  log.DefaultLevel.String(),
		"logLevelEnum":     strings.Join(slices.Collect(log.Levels()), ","),
		"logFormatDefault": log.DefaultFormat.String(),
		"logFormatEnum":    strings.Join(slices.Collect(log.Formats()), ","),
		"logTimeDefault":   log.DefaultTimeLayout,
	}
}

func (*logConfig) group() kong.Group {
	var group kong.Group

	group.Key = "log"
	group.Title = "Logging options"

	return group
}

// options returns the logger options selected by f. Styling is never enabled
// by a flag, only disabled, so output that is not a terminal stays plain.
func (f *logConfig) options() []log.Option {
	opts := []log.Option{
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
	}

	if !f.Pretty {
		opts = append(opts, log.WithPretty(false))
	}

	return opts
}

// start applies f to the default logger.
func (f *logConfig) start(ctx context.Context) {
	log.Config(f.options()...)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)
}

// scan applies logger flags found in args before kong parses them, so that
// the logger is configured regardless of flag position. Boolean flags do not
// pass through encoding.TextUnmarshaler and are only handled here.
func (f *logConfig) scan(args []string) {
	for i := 0; i < len(args); i++ {
		name, value, assigned := strings.Cut(args[i], "=")

		next := func() string {
			if !assigned && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++

				return args[i]
			}

			return value
		}

		flag := func(negated bool) bool {
			if !assigned {
				return !negated
			}

			v, err := strconv.ParseBool(value)

			return err == nil && v != negated
		}

		switch name {
		case "--":
			return

		case "--log-level":
			_ = f.Level.UnmarshalText([]byte(next()))

		case "--log-format":
			_ = f.Format.UnmarshalText([]byte(next()))

		case "--log-time-layout":
			f.TimeLayout = next()
			log.Config(log.WithTimeLayout(f.TimeLayout))

		case "--log-caller", "--no-log-caller":
			f.Caller = flag(name == "--no-log-caller")
			log.Config(log.WithCaller(f.Caller))

		case "--log-pretty", "--no-log-pretty":
			if f.Pretty = flag(name == "--no-log-pretty"); !f.Pretty {
				log.Config(log.WithPretty(false))
			}
		}
	}
}
