// Package cmd implements the webuild subcommands: build, deps, inspect, init
// and repl.
//
// Commands read the kong context and global [Options] from their
// context.Context, stored by [WithContext] and [WithOptions].
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the YAML configuration file written by init.
	ConfigIdentifier = "config"
)
