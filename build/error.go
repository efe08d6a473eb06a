package build

import "github.com/ardnew/webuild/lang"

// Predefined errors (sentinel values).
var (
	ErrOpenOutput  = lang.NewError("open output")
	ErrWriteOutput = lang.NewError("write output")
	ErrReadSource  = lang.NewError("read source")
)
