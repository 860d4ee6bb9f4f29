// Package cmd provides the command-line interface for hunyuan3d-setup.
//
// The root command delegates to:
//   - install: run the full provisioning sequence
//   - verify: probe an existing installation and print the capability report
package cmd
