// Package cli contains the command line interface for webuild.
//
// # Usage
//
//	webuild [flags] [build] <source> [<output>] [<binding>...]
//	webuild [flags] deps <source> [--where EXPR] [--format text|json|yaml]
//	webuild [flags] inspect <source> [--format text|json|yaml]
//	webuild [flags] init [--force]
//	webuild [flags] repl [<source>]
//
// Sources are resolved relative to the including file, then in each
// --include directory, then in each directory of $WEBUILD_PATH. Relative
// outputs are written under --out-dir.
//
// # Configuration
//
// Flag defaults are read from config.json and config.yaml in the user
// configuration directory (e.g. ~/.config/webuild). Keys of the YAML file
// may be nested and may use underscores:
//
//	log:
//	  level: info
//	  time_layout: none
//	out-dir: public
//	include:
//	  - ~/lib/web
//
// Command-line flags override config file values. The init command writes
// the current flag values to config.yaml.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, kitchen, none, etc.)
//   - --[no-]log-caller: Include caller information in log output
//   - --[no-]log-pretty: Style log output written to a terminal
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/webuild/pprof)
package cli
