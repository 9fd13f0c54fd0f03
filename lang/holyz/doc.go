// Package holyz wires the lexer and vm packages together into runnable
// programs: loading a script from disk, executing its top-level
// statements, and driving an interactive read-eval-print loop. It plays
// the same glue role for HolyZ that lang/retro plays for the teacher's
// Ngaro VM, enriched with a REPL loop shaped after the accumulate-until-
// complete read loop in breadchris-yaegi/interp's Interpreter.REPL.
package holyz
