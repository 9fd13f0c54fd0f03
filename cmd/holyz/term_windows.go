//go:build windows

package main

import "github.com/pkg/errors"

// setRawIO is not implemented on Windows; the REPL falls back to line-
// buffered console IO.
func setRawIO() (func(), error) {
	return nil, errors.New("raw IO not supported")
}
