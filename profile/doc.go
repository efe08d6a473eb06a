// Package profile provides optional runtime profiling using
// [github.com/pkg/profile].
//
// Profiling support is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof .
//	webuild --pprof-mode cpu --pprof-dir ./profiles build site.blue
//
// Without the tag, [Start] returns a no-op [Stopper] and [Modes] is empty.
// With the tag, the handlers of [net/http/pprof] are also registered.
//
// Profiles written to disk are analyzed with go tool pprof:
//
//	go tool pprof -http=: ./profiles/cpu.pprof
package profile

// Tag is the build tag required to enable profiling.
const Tag = `pprof`
