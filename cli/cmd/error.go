package cmd

import "github.com/ardnew/webuild/lang"

// Sentinel errors.
var (
	ErrJSONMarshal = lang.NewError("marshal JSON")
	ErrYAMLMarshal = lang.NewError("marshal YAML")
	ErrWriteConfig = lang.NewError("write configuration file")
	ErrFileExists  = lang.NewError("file exists (use --force to overwrite)")
	ErrParams      = lang.NewError("read parameters file")
	ErrParamValue  = lang.NewError("parameter value is not a scalar")
	ErrFilter      = lang.NewError("invalid dependency filter")
)
