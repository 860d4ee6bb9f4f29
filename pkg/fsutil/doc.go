// Package fsutil provides the filesystem helpers used by the provisioning steps.
//
// Key functionality:
//   - File writing: TryWriteFile
//   - Existence checks for idempotent steps: DirExists, FileExists
//   - Path operations: ExpandHomePath
package fsutil
