package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// Prefix returns the base name of the running executable, without extension
// or leading dots. A binary built by the dlv debugger is named [Name].
//
// Prefix names the configuration and cache directories.
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(
	func() string {
		id := os.Args[0]
		if exe, err := os.Executable(); err == nil {
			id = exe
		}

		id = filepath.Base(id)
		id = strings.TrimSuffix(id, filepath.Ext(id))

		if regexp.MustCompile(`^__debug_bin\d*$`).MatchString(id) {
			return Name
		}

		if id = strings.TrimLeft(id, "."); id == "" {
			return Name
		}

		return id
	},
)

// userDir joins Prefix to the first of the given base directories that can
// be determined, falling back to the working directory.
func userDir(base func() (string, error), home string) string {
	dir, err := base()
	if err != nil {
		dir, err = os.UserHomeDir()
		if err == nil {
			dir = filepath.Join(dir, home)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, Prefix())
}

// ConfigDir returns the directory holding the configuration file.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(
	func() string { return userDir(os.UserConfigDir, ".config") },
)

// CacheDir returns the directory holding transient files, such as the
// interactive session history and profiles.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(
	func() string { return userDir(os.UserCacheDir, ".cache") },
)
