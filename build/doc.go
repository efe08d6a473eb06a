// Package build processes webuild sources.
//
// A [Builder] reads a source file, dispatches on its declared kind, and
// writes the result to one or more sinks:
//
//   - A blueprint writes nothing itself. Each inclusion it makes is processed
//     into a sink of its own, named by the inclusion's output slot or numbered
//     "0.out", "1.out", ... in the order unnamed sinks are opened.
//   - A template copies its text lines (unescaped) and expands the
//     templates, fragments and parametric files it includes inline.
//   - A fragment is copied verbatim.
//   - A parametric file declares parameters and substitutes "<[name]>"
//     references from its environment.
//
// Sources with a missing or mismatched declaration are reported and copied
// through unchanged. Other recoverable problems are reported as diagnostics
// (see [Builder.Diagnostics]) and processing continues; errors returned from
// [Builder.Build] abort the run.
package build
