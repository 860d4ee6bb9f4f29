// Package io provides configuration loading, file generation and serialization.
//
// Subpackages:
//   - configmanager: flag, environment and config file resolution
//   - generator: the dependency manifest and launcher script generators
//   - marshaller: YAML serialization of reports and configuration
//
// For low-level file operations see the fsutil package.
package io
