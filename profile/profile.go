package profile

import "github.com/ardnew/webuild/pkg"

// Stopper stops a running profiler.
type Stopper interface{ Stop() }

// Profiler describes a profiling session.
type Profiler struct {
	// Mode names the profile to collect; see [Modes]. An empty or unsupported
	// mode disables profiling.
	Mode string
	// Path is the directory profiles are written to. If empty, a temporary
	// directory is used.
	Path string
	// Quiet suppresses the messages logged when profiling starts and stops.
	Quiet bool
}

// Option configures a [Profiler].
type Option = pkg.Option[Profiler]

// WithMode sets the profile mode.
func WithMode(mode string) Option {
	return func(p Profiler) Profiler {
		p.Mode = mode

		return p
	}
}

// WithPath sets the profile output directory.
func WithPath(path string) Option {
	return func(p Profiler) Profiler {
		p.Path = path

		return p
	}
}

// WithQuiet sets whether profiling is silent.
func WithQuiet(quiet bool) Option {
	return func(p Profiler) Profiler {
		p.Quiet = quiet

		return p
	}
}

// Start starts a profiler configured with opts and returns a [Stopper] for
// it. Without the pprof build tag, or without a supported mode, Start does
// nothing. The returned Stopper is always safe to call.
func Start(opts ...Option) Stopper {
	p := pkg.Apply(Profiler{}, opts...)

	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}
