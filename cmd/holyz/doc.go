// Command holyz runs HolyZ scripts, or drops into an interactive REPL
// when invoked with no script argument.
package main
