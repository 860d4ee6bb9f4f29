// Package envvar builds the environment handed to child processes and expands
// ${VAR} placeholders in configuration values.
package envvar

import (
	"os"
	"regexp"
)

// LookupFunc reads a variable from the parent environment.
type LookupFunc func(key string) (string, bool)

// pattern matches ${VAR_NAME} placeholders for environment variable expansion.
var pattern = regexp.MustCompile(`\$\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// Expand replaces ${VAR_NAME} placeholders with their environment variable values.
// If a referenced environment variable is not set, the placeholder is replaced with an empty string.
func Expand(value string) string {
	return ExpandWith(value, os.LookupEnv)
}

// ExpandWith is Expand with an explicit lookup.
func ExpandWith(value string, lookup LookupFunc) string {
	if value == "" {
		return value
	}

	return pattern.ReplaceAllStringFunc(value, func(match string) string {
		resolved, _ := lookup(match[2 : len(match)-1])

		return resolved
	})
}
