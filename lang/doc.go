// Package lang implements the command mini-language embedded in webuild
// source files.
//
// # Commands
//
// A command occupies one line:
//
//	<indent>:<field>:<field>:...;<comment>
//
// The indent must be whitespace only. Fields are separated by ':' and the
// command ends at the first unescaped ';'. Before the terminator, a backslash
// escapes the character that follows it, so "\:" is a literal colon inside a
// field. Everything after the terminator is a comment and is kept verbatim.
// [ParseCommand] tokenizes a line into a [Command] and [Classify] sorts it into
// a [Directive]:
//
//	:;                          comment
//	::TEMPLATE;                 declaration (also the short form :TEMPLATE;)
//	:FRAGMENT:header:out.txt;   invocation of a fragment with an output name
//	::PARAM:name:True:default;  parameter declaration
//
// # Kinds
//
// Every source file starts (after an optional "#!" line) with a declaration
// naming its [Kind]: BLUEPRINT, TEMPLATE, FRAGMENT or PARAMETRIC.
//
// # Parameters
//
// Parametric files see an [Env] of bindings. Bindings come from "name=value"
// tokens ([ParseBinding], [Env.BindAll]) and from PARAM declarations
// ([ParseParam], [Env.Declare]); the first binding of a name always wins.
// [Substitute] replaces each unescaped "<[name]>" in a line with its bound
// value.
//
// # Errors
//
// All diagnostics are [Error] values derived from the package sentinels, so
// they can be matched with [errors.Is] and logged with their [Position].
package lang
