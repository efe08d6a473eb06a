package repl

import "github.com/ardnew/webuild/lang"

// Sentinel errors.
var (
	ErrOutOfBounds    = lang.NewError("history index out of range")
	ErrUnknownCommand = lang.NewError("unknown command")
	ErrCommandUsage   = lang.NewError("invalid command usage")
)
