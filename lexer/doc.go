// Package lexer turns HolyZ source text into a line-oriented, whitespace
// separated token stream and provides the balanced-paren/escape helpers the
// evaluator and statement executor use to recover argument lists and
// quoted strings from a single line.
//
// Splitting:
//
//	- the source is split on '\n'
//	- each line is trimmed of leading/trailing whitespace
//	- lines that are empty, or whose first non-whitespace bytes are "//",
//	  are dropped
//	- remaining lines are split on runs of whitespace, so repeated spaces
//	  or tabs between tokens never produce empty tokens
//
// Strings are tokenized along with everything else: a double-quoted
// segment is not protected from the space split at this stage. Downstream
// code recovers parenthesised argument lists with BetweenChars and
// SplitNoOverlap, both of which respect nested parens and quoting.
//
// Comments:
//
//	// this comment is dropped entirely, like a Forth ( comment ) that
//	// spans the whole line
package lexer
