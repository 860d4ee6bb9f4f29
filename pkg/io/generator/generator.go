// Package generator defines the contract shared by the file generators.
package generator

// Generator renders a model to text and optionally writes it to disk.
// The Options type parameter allows each implementation to define its own options structure.
type Generator[T any, Options any] interface {
	Generate(model T, opts Options) (string, error)
}

// FileOptions controls where generated content is written.
type FileOptions struct {
	// Output is the target path. Empty means render only.
	Output string
	// Force overwrites an existing file.
	Force bool
}
