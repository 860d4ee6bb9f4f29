// Package apis provides the API types of hunyuan3d-setup.
//
//   - setup: installation configuration, step results and verification reports
//
// The types serialize to YAML so a resolved configuration can be stored
// next to an installation or printed with the config command.
package apis
