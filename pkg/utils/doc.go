// Package utils provides small utility packages used across hunyuan3d-setup:
//
//   - envvar: environment lookups and ${VAR} expansion
//   - notify: formatted, colored status messages
//   - runner: external command execution
//   - timer: per-stage elapsed time tracking
package utils
