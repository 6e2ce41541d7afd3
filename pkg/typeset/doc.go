// Package typeset compiles rendered XDSM documents with an external LaTeX
// engine.
//
// # Overview
//
// [Build] runs pdflatex (or another engine named in [Options]) on a .tex
// file in that file's directory, so relative \input paths written by the
// pipeline resolve. With [Options.Quiet] the engine runs in batch mode and
// stops at the first error instead of prompting.
//
// A non-zero exit of the engine is not returned as an error: it is recorded
// in [Result.ExitErr] and the build byproducts are still cleaned up. The
// caller decides whether a failed typeset is fatal. Only a missing engine
// (errors.ErrCodeTypesetUnavailable) or a cancelled context fail Build.
//
// # Cleanup
//
// [Cleanup] removes the byproducts listed in [CleanupExtensions] that exist
// next to the .tex file. The PDF, the .tex and the .tikz files are kept.
package typeset
