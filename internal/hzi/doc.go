// Package hzi holds small internal helpers, adapted from the teacher's
// internal/ngi. No other package of this module imports it at present.
package hzi
