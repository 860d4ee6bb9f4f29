// Package cli provides command wiring and terminal interaction.
//
//   - cli/cmd: the cobra command tree (install, verify, config)
//   - cli/helpers: global flag lookup and timing detection
//   - cli/ui: terminal title, error reporting and the exit pause
package cli
