// Package source resolves the names used in inclusion commands to readable
// files.
//
// A name is tried with each extension of the expected [lang.Kind] in order,
// first relative to the including file and then under each directory of the
// search path built by [SearchPath]. The names "-", "<stdin>" and "" always
// refer to standard input.
package source
