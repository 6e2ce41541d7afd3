// Package io reads and writes XDSM definition files.
//
// # Overview
//
// A definition file describes a diagram declaratively: the systems on the
// diagonal, the connections between them, the input and output markers on
// the border and the process chains drawn on top. The same document can be
// written in TOML, YAML, JSON or HCL; all four decode into a [Definition],
// which [ToDiagram] turns into an [xdsm.Diagram].
//
// # TOML Format
//
//	[options]
//	use_sfmath = true
//
//	[[systems]]
//	name = "opt"
//	style = "Optimization"
//	label = '\text{Optimizer}'
//
//	[[systems]]
//	name = "F"
//	style = "Function"
//	label = ["F", '\text{Functional}']
//
//	[[connections]]
//	from = "opt"
//	to = "F"
//	label = "x, z"
//
//	[[inputs]]
//	system = "opt"
//	label = "x_0"
//
//	[[outputs]]
//	system = "opt"
//	side = "left"
//	label = "x^*"
//
//	[[processes]]
//	steps = ["opt", "F", "opt"]
//
// A label is either a string or a list of strings; a list is typeset as a
// one-column array with one line per element. YAML and JSON use the same
// keys.
//
// # HCL Format
//
// HCL uses blocks labelled with the system names:
//
//	options {
//	  use_sfmath = true
//	}
//
//	system "opt" {
//	  style = "Optimization"
//	  label = "\\text{Optimizer}"
//	}
//
//	connection "opt" "F" {
//	  label = "x, z"
//	}
//
//	input "opt" {
//	  label = "x_0"
//	}
//
//	output "opt" {
//	  side  = "left"
//	  label = "x^*"
//	}
//
//	process {
//	  steps = ["opt", "F", "opt"]
//	}
//
// # Defaults
//
//   - A system without a label is labelled with its name
//   - Connections default to the DataInter style, markers to DataIO
//   - Outputs default to the left side
//   - Processes default to arrow = true
//
// # Validation
//
// [ToDiagram] rejects invalid system names, duplicate systems, references to
// undeclared systems and unknown process steps, so a diagram returned without
// error always renders. Unknown keys in a file fail with
// errors.ErrCodeInvalidDefinition; unknown options fail with
// errors.ErrCodeUnknownOption.
package io
