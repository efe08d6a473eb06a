// Package log provides a structured logger based on [log/slog].
//
// A [Logger] is configured once, when it is made, with functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithTimeLayout("RFC3339"),
//		log.WithCaller(true))
//
// Messages are written as logfmt text by default, or as JSON with
// [WithFormat]. Text written to a terminal is styled with lipgloss unless
// disabled with [WithPretty]. Group values, including values implementing
// [slog.LogValuer], are flattened into dotted keys.
//
// Five levels are supported: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn] and [LevelError]. Messages below the configured level are
// discarded.
//
// The package-level functions log to a default logger that writes to
// standard error. It is replaced with [SetDefault] or modified with [Config].
package log
