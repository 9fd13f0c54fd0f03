// Package vm is the HolyZ language runtime: the dynamic value system, the
// simulated heap, the global registries, the expression evaluator, the
// boolean predicate and assignment operators, the statement executor with
// its brace-balanced block scanner, the definition loader, the call
// runtime, and the ZS.*/Holy-C built-in surface.
//
// A Context (see context.go) owns every piece of process-wide state a
// running script needs: Globals, Functions, Classes, Traits, the Heap, the
// current Holy-C mode flag and the current-this slot for method bodies. A
// Context is not safe for concurrent use; the language itself is
// single-threaded and non-cooperative (see the package-level doc in
// lang/holyz for how a whole script is loaded and run against one Context).
package vm
