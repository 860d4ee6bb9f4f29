// Package helpers provides common CLI utilities for command handling:
// global flag lookup and timing detection.
package helpers
